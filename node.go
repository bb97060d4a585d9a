package swrast

import "fmt"

// Node is a renderable mesh: a list of vertices, a list of indices where every three consecutive entries form a
// triangle, a (possibly shared) Transform, a Shader, and an optional Texture.
//
// The vertex and index lists are copied when the Node is created and can't be changed afterwards. A zero Node has no
// triangles and isn't Visible; it gets an identity Transform and DefaultShader the first time either is needed.
type Node struct {
	Name            string
	Visible         bool // Invisible Nodes are skipped entirely when rendering
	BackfaceCulling bool // If enabled, triangles facing away from the camera are skipped; see Engine.Render

	vertices  []Vertex
	indices   []int
	transform *Transform
	shader    Shader
	texture   *Texture
}

// NewNode creates a new Node from the vertices and indices given. If transform is nil, the Node gets a new identity
// Transform. An error is returned if the index count isn't a multiple of 3 (wrapping ErrIndexCount) or if an index
// refers past the end of the vertex list (wrapping ErrIndexOutOfRange).
func NewNode(vertices []Vertex, indices []int, transform *Transform) (*Node, error) {

	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: got %d indices", ErrIndexCount, len(indices))
	}

	for i, index := range indices {
		if index < 0 || index >= len(vertices) {
			return nil, fmt.Errorf("%w: index #%d refers to vertex %d of %d", ErrIndexOutOfRange, i, index, len(vertices))
		}
	}

	if transform == nil {
		transform = NewTransform()
	}

	node := &Node{
		Visible:         true,
		BackfaceCulling: true,
		vertices:        append([]Vertex(nil), vertices...),
		indices:         append([]int(nil), indices...),
		transform:       transform,
		shader:          DefaultShader,
	}

	return node, nil

}

// VertexCount returns the number of vertices in the Node.
func (node *Node) VertexCount() int {
	return len(node.vertices)
}

// IndexCount returns the number of indices in the Node.
func (node *Node) IndexCount() int {
	return len(node.indices)
}

// TriangleCount returns the number of triangles in the Node.
func (node *Node) TriangleCount() int {
	return len(node.indices) / 3
}

// GetByIndex returns the vertex that the index at position i refers to. An error wrapping ErrIndexOutOfRange is
// returned if i is outside of 0 to IndexCount()-1.
func (node *Node) GetByIndex(i int) (Vertex, error) {
	if i < 0 || i >= len(node.indices) {
		return Vertex{}, fmt.Errorf("%w: index %d of %d", ErrIndexOutOfRange, i, len(node.indices))
	}
	return node.vertices[node.indices[i]], nil
}

// Vertex returns the vertex at position i in the vertex list, and false if there is no such vertex.
func (node *Node) Vertex(i int) (Vertex, bool) {
	if i < 0 || i >= len(node.vertices) {
		return Vertex{}, false
	}
	return node.vertices[i], true
}

// Transform returns the Node's Transform.
func (node *Node) Transform() *Transform {
	if node.transform == nil {
		node.transform = NewTransform()
	}
	return node.transform
}

// SetTransform sets the Node's Transform; several Nodes (or a Node and a Camera) can share one. Passing nil gives the
// Node a new identity Transform.
func (node *Node) SetTransform(transform *Transform) {
	if transform == nil {
		transform = NewTransform()
	}
	node.transform = transform
}

// Shader returns the Node's Shader.
func (node *Node) Shader() Shader {
	if node.shader == nil {
		node.shader = DefaultShader
	}
	return node.shader
}

// SetShader sets the Shader used to draw the Node. Passing nil restores DefaultShader.
func (node *Node) SetShader(shader Shader) {
	if shader == nil {
		shader = DefaultShader
	}
	node.shader = shader
}

// SetVertexStage replaces the vertex stage of the Node's Shader, keeping the current fragment stage. Passing nil
// restores the default vertex stage.
func (node *Node) SetVertexStage(vertex VertexFunc) {
	node.shader = ShaderFuncs{
		Vertex:   vertex,
		Fragment: node.Shader().ShadeFragment,
	}
}

// SetFragmentStage replaces the fragment stage of the Node's Shader, keeping the current vertex stage. Passing nil
// restores the default fragment stage.
func (node *Node) SetFragmentStage(fragment FragmentFunc) {
	node.shader = ShaderFuncs{
		Vertex:   node.Shader().ShadeVertex,
		Fragment: fragment,
	}
}

// Texture returns the Node's Texture, which may be nil.
func (node *Node) Texture() *Texture {
	return node.texture
}

// SetTexture sets the Texture passed to the Node's fragment stage. nil is allowed.
func (node *Node) SetTexture(texture *Texture) {
	node.texture = texture
}
