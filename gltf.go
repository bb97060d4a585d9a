package swrast

import (
	"bytes"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type GLTFLoadOptions struct {
	// BaseDir is the directory that relative image URIs are resolved against. LoadGLTFFile sets it to the directory
	// of the file if it's left empty.
	BaseDir string
	// If LoadTextures is true, the base color texture of each primitive's material is loaded and set on the Node.
	LoadTextures bool
	// Shader is set on every loaded Node; nil leaves them on the DefaultShader.
	Shader Shader
	// If DoubleSidedCulling is true, materials marked as double-sided still get backface culling.
	DoubleSidedCulling bool
}

// DefaultGLTFLoadOptions creates an instance of GLTFLoadOptions with some sensible defaults.
func DefaultGLTFLoadOptions() *GLTFLoadOptions {
	return &GLTFLoadOptions{
		LoadTextures: true,
	}
}

// LoadGLTFFile loads a .gltf or .glb file from the filepath given, using a provided GLTFLoadOptions struct to alter how the file
// is loaded. Passing nil for loadOptions will load the file using default load options. External buffers and images are
// read relative to the file.
//
// Every glTF node with a mesh in the default scene becomes one Node per triangle primitive; the primitives of one
// glTF node share a single Transform holding the node's world transform.
func LoadGLTFFile(path string, loadOptions *GLTFLoadOptions) ([]*Node, error) {

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}

	if loadOptions == nil {
		loadOptions = DefaultGLTFLoadOptions()
	}

	if loadOptions.BaseDir == "" {
		opts := *loadOptions
		opts.BaseDir = filepath.Dir(path)
		loadOptions = &opts
	}

	nodes, err := loadGLTFDocument(doc, loadOptions)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	Logger().Info("loaded glTF file", "path", path, "nodes", len(nodes))

	return nodes, nil

}

// LoadGLTFData loads a .glb file, or a .gltf file with embedded buffers, from the byte data given. Passing nil for
// loadOptions will load the data using default load options. See LoadGLTFFile.
func LoadGLTFData(data []byte, loadOptions *GLTFLoadOptions) ([]*Node, error) {

	doc := new(gltf.Document)

	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, err
	}

	if loadOptions == nil {
		loadOptions = DefaultGLTFLoadOptions()
	}

	return loadGLTFDocument(doc, loadOptions)

}

func loadGLTFDocument(doc *gltf.Document, options *GLTFLoadOptions) ([]*Node, error) {

	loader := &gltfLoader{
		doc:      doc,
		options:  options,
		textures: map[int]*Texture{},
	}

	roots, err := loader.rootNodes()
	if err != nil {
		return nil, err
	}

	for _, root := range roots {
		if err := loader.loadNode(root, NewMatrix4(), 0); err != nil {
			return nil, err
		}
	}

	return loader.nodes, nil

}

type gltfLoader struct {
	doc      *gltf.Document
	options  *GLTFLoadOptions
	textures map[int]*Texture // By glTF texture index
	nodes    []*Node
}

// rootNodes returns the root nodes of the default scene. Documents without scenes are treated as if every node
// without a parent were a root.
func (loader *gltfLoader) rootNodes() ([]int, error) {

	doc := loader.doc

	if len(doc.Scenes) > 0 {
		sceneIndex := 0
		if doc.Scene != nil {
			sceneIndex = *doc.Scene
		}
		if sceneIndex < 0 || sceneIndex >= len(doc.Scenes) {
			return nil, fmt.Errorf("%w: default scene %d doesn't exist", ErrUnsupportedGLTF, sceneIndex)
		}
		return doc.Scenes[sceneIndex].Nodes, nil
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, node := range doc.Nodes {
		for _, child := range node.Children {
			if child >= 0 && child < len(isChild) {
				isChild[child] = true
			}
		}
	}

	roots := []int{}
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}

	return roots, nil

}

// A valid document is a forest, but a malformed one could loop.
const maxGLTFDepth = 256

func (loader *gltfLoader) loadNode(index int, parentWorld Matrix4, depth int) error {

	if index < 0 || index >= len(loader.doc.Nodes) {
		return fmt.Errorf("%w: node %d doesn't exist", ErrUnsupportedGLTF, index)
	}

	if depth > maxGLTFDepth {
		return fmt.Errorf("%w: node hierarchy deeper than %d", ErrUnsupportedGLTF, maxGLTFDepth)
	}

	gltfNode := loader.doc.Nodes[index]
	world := gltfLocalMatrix(gltfNode).Mult(parentWorld)

	if gltfNode.Mesh != nil {
		if err := loader.loadMesh(gltfNode, world); err != nil {
			return err
		}
	}

	for _, child := range gltfNode.Children {
		if err := loader.loadNode(child, world, depth+1); err != nil {
			return err
		}
	}

	return nil

}

// gltfLocalMatrix returns the local transform of a glTF node. glTF matrices are column-major for column vectors,
// which is the same memory layout as a row-major Matrix4 for row vectors.
func gltfLocalMatrix(node *gltf.Node) Matrix4 {

	mtData := node.MatrixOrDefault()

	matrix := NewMatrix4()
	matrix.SetRow(0, Vector4{float32(mtData[0]), float32(mtData[1]), float32(mtData[2]), float32(mtData[3])})
	matrix.SetRow(1, Vector4{float32(mtData[4]), float32(mtData[5]), float32(mtData[6]), float32(mtData[7])})
	matrix.SetRow(2, Vector4{float32(mtData[8]), float32(mtData[9]), float32(mtData[10]), float32(mtData[11])})
	matrix.SetRow(3, Vector4{float32(mtData[12]), float32(mtData[13]), float32(mtData[14]), float32(mtData[15])})

	if !matrix.IsIdentity() {
		return matrix
	}

	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()

	local := NewMatrix4Scale(float32(s[0]), float32(s[1]), float32(s[2]))
	local = local.Mult(NewQuaternion(float32(r[0]), float32(r[1]), float32(r[2]), float32(r[3])).Normalized().Matrix4())
	local = local.Mult(NewMatrix4Translate(float32(t[0]), float32(t[1]), float32(t[2])))
	return local

}

func (loader *gltfLoader) loadMesh(gltfNode *gltf.Node, world Matrix4) error {

	doc := loader.doc
	meshIndex := *gltfNode.Mesh

	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return fmt.Errorf("%w: node %q refers to missing mesh %d", ErrUnsupportedGLTF, gltfNode.Name, meshIndex)
	}

	mesh := doc.Meshes[meshIndex]

	transform := NewTransform()
	transform.SetMatrix(world)

	for primIndex, prim := range mesh.Primitives {

		if prim.Mode != gltf.PrimitiveTriangles {
			Logger().Debug("skipping non-triangle glTF primitive", "mesh", mesh.Name, "primitive", primIndex, "mode", prim.Mode)
			continue
		}

		node, err := loader.loadPrimitive(prim, transform)
		if err != nil {
			return fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, primIndex, err)
		}

		node.Name = gltfNode.Name
		if node.Name == "" {
			node.Name = mesh.Name
		}

		loader.nodes = append(loader.nodes, node)

	}

	return nil

}

func (loader *gltfLoader) accessor(index int) (*gltf.Accessor, error) {
	if index < 0 || index >= len(loader.doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d doesn't exist", ErrUnsupportedGLTF, index)
	}
	return loader.doc.Accessors[index], nil
}

func (loader *gltfLoader) loadPrimitive(prim *gltf.Primitive, transform *Transform) (*Node, error) {

	doc := loader.doc

	posIndex, exists := prim.Attributes[gltf.POSITION]
	if !exists {
		return nil, fmt.Errorf("%w: primitive has no POSITION attribute", ErrUnsupportedGLTF)
	}

	posAccessor, err := loader.accessor(posIndex)
	if err != nil {
		return nil, err
	}

	posBuffer := [][3]float32{}
	vertPos, err := modeler.ReadPosition(doc, posAccessor, posBuffer)
	if err != nil {
		return nil, err
	}

	vertices := make([]Vertex, len(vertPos))

	for i, v := range vertPos {
		vertices[i] = Vertex{
			Position: NewPoint(v[0], v[1], v[2]),
			Color:    NewColor(1, 1, 1, 1),
		}
	}

	if normalIndex, exists := prim.Attributes[gltf.NORMAL]; exists {

		acr, err := loader.accessor(normalIndex)
		if err != nil {
			return nil, err
		}

		normalBuffer := [][3]float32{}
		normals, err := modeler.ReadNormal(doc, acr, normalBuffer)
		if err != nil {
			return nil, err
		}

		for i := 0; i < len(normals) && i < len(vertices); i++ {
			vertices[i].Normal = Vector3{normals[i][0], normals[i][1], normals[i][2]}
		}

	}

	if texCoordIndex, exists := prim.Attributes[gltf.TEXCOORD_0]; exists {

		acr, err := loader.accessor(texCoordIndex)
		if err != nil {
			return nil, err
		}

		uvBuffer := [][2]float32{}
		texCoords, err := modeler.ReadTextureCoord(doc, acr, uvBuffer)
		if err != nil {
			return nil, err
		}

		// glTF and Texture both put V = 0 at the top of the image, so no flip is needed.
		for i := 0; i < len(texCoords) && i < len(vertices); i++ {
			vertices[i].UV = Vector2{texCoords[i][0], texCoords[i][1]}
		}

	}

	if colorIndex, exists := prim.Attributes["COLOR_0"]; exists {

		acr, err := loader.accessor(colorIndex)
		if err != nil {
			return nil, err
		}

		vcBuffer := [][4]uint16{}
		colors, err := modeler.ReadColor64(doc, acr, vcBuffer)
		if err != nil {
			return nil, err
		}

		for i := 0; i < len(colors) && i < len(vertices); i++ {
			vertices[i].Color = NewColor(
				float32(colors[i][0])/math.MaxUint16,
				float32(colors[i][1])/math.MaxUint16,
				float32(colors[i][2])/math.MaxUint16,
				float32(colors[i][3])/math.MaxUint16,
			)
		}

	}

	var indices []int

	if prim.Indices != nil {

		acr, err := loader.accessor(*prim.Indices)
		if err != nil {
			return nil, err
		}

		indexBuffer := []uint32{}
		gltfIndices, err := modeler.ReadIndices(doc, acr, indexBuffer)
		if err != nil {
			return nil, err
		}

		indices = make([]int, len(gltfIndices))
		for i, j := range gltfIndices {
			indices[i] = int(j)
		}

	} else {
		indices = make([]int, len(vertices))
		for i := range indices {
			indices[i] = i
		}
	}

	var material *gltf.Material

	if prim.Material != nil {

		if *prim.Material < 0 || *prim.Material >= len(doc.Materials) {
			return nil, fmt.Errorf("%w: material %d doesn't exist", ErrUnsupportedGLTF, *prim.Material)
		}

		material = doc.Materials[*prim.Material]

		if tint, ok := materialTint(material); ok {
			for i := range vertices {
				vertices[i].Color = vertices[i].Color.Mult(tint)
			}
		}

	}

	node, err := NewNode(vertices, indices, transform)
	if err != nil {
		return nil, err
	}

	if loader.options.Shader != nil {
		node.SetShader(loader.options.Shader)
	}

	if material != nil {
		if err := loader.applyMaterial(node, material); err != nil {
			return nil, err
		}
	}

	return node, nil

}

// materialTint returns the base color factor of a material, if it has one other than white.
func materialTint(material *gltf.Material) (Color, bool) {
	pbr := material.PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return Color{}, false
	}
	factor := pbr.BaseColorFactor
	tint := NewColor(float32(factor[0]), float32(factor[1]), float32(factor[2]), float32(factor[3]))
	return tint, tint != NewColor(1, 1, 1, 1)
}

// applyMaterial applies double-sidedness and the base color texture of a glTF material to the Node.
func (loader *gltfLoader) applyMaterial(node *Node, material *gltf.Material) error {

	if material.DoubleSided && !loader.options.DoubleSidedCulling {
		node.BackfaceCulling = false
	}

	pbr := material.PBRMetallicRoughness

	if loader.options.LoadTextures && pbr != nil && pbr.BaseColorTexture != nil {
		tex, err := loader.texture(pbr.BaseColorTexture.Index)
		if err != nil {
			return err
		}
		node.SetTexture(tex)
	}

	return nil

}

func (loader *gltfLoader) texture(textureIndex int) (*Texture, error) {

	if tex, exists := loader.textures[textureIndex]; exists {
		return tex, nil
	}

	doc := loader.doc

	if textureIndex < 0 || textureIndex >= len(doc.Textures) || doc.Textures[textureIndex].Source == nil {
		return nil, fmt.Errorf("%w: texture %d has no image", ErrUnsupportedGLTF, textureIndex)
	}

	imageIndex := *doc.Textures[textureIndex].Source
	if imageIndex < 0 || imageIndex >= len(doc.Images) {
		return nil, fmt.Errorf("%w: image %d doesn't exist", ErrUnsupportedGLTF, imageIndex)
	}

	gltfImage := doc.Images[imageIndex]

	var imageData []byte
	var err error

	switch {

	case gltfImage.BufferView != nil:
		if *gltfImage.BufferView < 0 || *gltfImage.BufferView >= len(doc.BufferViews) {
			return nil, fmt.Errorf("%w: buffer view %d doesn't exist", ErrUnsupportedGLTF, *gltfImage.BufferView)
		}
		imageData, err = modeler.ReadBufferView(doc, doc.BufferViews[*gltfImage.BufferView])

	case gltfImage.IsEmbeddedResource():
		imageData, err = gltfImage.MarshalData()

	case gltfImage.URI != "":
		if loader.options.BaseDir == "" {
			return nil, fmt.Errorf("%w: image %q is external, but no base directory is set", ErrUnsupportedGLTF, gltfImage.URI)
		}
		uri, unescapeErr := url.PathUnescape(gltfImage.URI)
		if unescapeErr != nil {
			return nil, fmt.Errorf("%w: image %d: %w", ErrUnsupportedGLTF, imageIndex, unescapeErr)
		}
		imageData, err = os.ReadFile(filepath.Join(loader.options.BaseDir, filepath.FromSlash(uri)))

	default:
		return nil, fmt.Errorf("%w: image %d has no data", ErrUnsupportedGLTF, imageIndex)

	}

	if err != nil {
		return nil, err
	}

	tex, err := LoadTextureData(imageData)
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", imageIndex, err)
	}

	loader.textures[textureIndex] = tex

	return tex, nil

}
