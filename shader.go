package swrast

import "github.com/chewxy/math32"

// Uniforms are the per-node values shared by every vertex and fragment of one draw.
type Uniforms struct {
	ViewPerspective Matrix4 // World space to clip space
	Model           Matrix4 // Object space to world space
	CameraPosition  Vector3 // World-space camera position
}

// Shader is the programmable part of the pipeline. ShadeVertex runs once per vertex of every visible, front-facing
// triangle and must fill Interpolant.Position with a clip-space position. ShadeFragment runs once per covered pixel
// with the interpolated values and returns the packed color to write (see Color.Pack).
//
// The Node's Texture is passed to ShadeFragment, and may be nil.
type Shader interface {
	ShadeVertex(vertex Vertex, uniforms Uniforms) Interpolant
	ShadeFragment(in Interpolant, texture *Texture, uniforms Uniforms) uint32
}

// VertexFunc is a vertex stage as a plain function.
type VertexFunc func(vertex Vertex, uniforms Uniforms) Interpolant

// FragmentFunc is a fragment stage as a plain function.
type FragmentFunc func(in Interpolant, texture *Texture, uniforms Uniforms) uint32

// ShaderFuncs adapts a pair of functions into a Shader. A nil stage falls back to the DefaultShader's.
type ShaderFuncs struct {
	Vertex   VertexFunc
	Fragment FragmentFunc
}

func (s ShaderFuncs) ShadeVertex(vertex Vertex, uniforms Uniforms) Interpolant {
	if s.Vertex == nil {
		return TransformVertex(vertex, uniforms)
	}
	return s.Vertex(vertex, uniforms)
}

func (s ShaderFuncs) ShadeFragment(in Interpolant, texture *Texture, uniforms Uniforms) uint32 {
	if s.Fragment == nil {
		return DefaultShader.ShadeFragment(in, texture, uniforms)
	}
	return s.Fragment(in, texture, uniforms)
}

// TransformVertex is the standard vertex stage: the position goes through the model and view-perspective matrices,
// Fragment gets the world-space position, the normal is rotated into world space, and color and UV pass through.
func TransformVertex(vertex Vertex, uniforms Uniforms) Interpolant {
	world := uniforms.Model.MultVecW(vertex.Position)
	return Interpolant{
		Position: uniforms.ViewPerspective.MultVecW(world),
		Fragment: world.Vector3(),
		Normal:   uniforms.Model.MultDir(vertex.Normal).Unit(),
		Color:    vertex.Color,
		UV:       vertex.UV,
	}
}

type defaultShader struct{}

func (defaultShader) ShadeVertex(vertex Vertex, uniforms Uniforms) Interpolant {
	return TransformVertex(vertex, uniforms)
}

func (defaultShader) ShadeFragment(in Interpolant, texture *Texture, uniforms Uniforms) uint32 {
	if texture == nil {
		return in.Color.Pack()
	}
	return in.Color.Mult(texture.SampleColor(in.UV.X, in.UV.Y)).Pack()
}

// DefaultShader transforms vertices with TransformVertex and colors fragments with the vertex color, multiplied by
// the Node's Texture if it has one.
var DefaultShader Shader = defaultShader{}

// SolidShader fills every fragment with one color.
type SolidShader struct {
	Color Color
}

func (s SolidShader) ShadeVertex(vertex Vertex, uniforms Uniforms) Interpolant {
	return TransformVertex(vertex, uniforms)
}

func (s SolidShader) ShadeFragment(in Interpolant, texture *Texture, uniforms Uniforms) uint32 {
	return s.Color.Pack()
}

// TextureShader outputs the Node's Texture alone, ignoring vertex colors. Without a Texture, fragments are white.
type TextureShader struct{}

func (TextureShader) ShadeVertex(vertex Vertex, uniforms Uniforms) Interpolant {
	return TransformVertex(vertex, uniforms)
}

func (TextureShader) ShadeFragment(in Interpolant, texture *Texture, uniforms Uniforms) uint32 {
	if texture == nil {
		return 0xFFFFFFFF
	}
	return texture.Sample(in.UV.X, in.UV.Y)
}

// LambertShader lights fragments with a single directional light, using the interpolated world-space normal.
// LightDirection points from the light towards the scene. Ambient is added to the diffuse term before it
// multiplies the vertex color (and Texture, if any).
type LambertShader struct {
	LightDirection Vector3
	Ambient        float32
}

func (s LambertShader) ShadeVertex(vertex Vertex, uniforms Uniforms) Interpolant {
	return TransformVertex(vertex, uniforms)
}

func (s LambertShader) ShadeFragment(in Interpolant, texture *Texture, uniforms Uniforms) uint32 {

	diffuse := math32.Max(0, in.Normal.Unit().Dot(s.LightDirection.Unit().Invert()))
	light := math32.Min(1, diffuse+s.Ambient)

	color := in.Color
	if texture != nil {
		color = color.Mult(texture.SampleColor(in.UV.X, in.UV.Y))
	}

	color.R *= light
	color.G *= light
	color.B *= light
	return color.Pack()

}

// NormalShader maps the world-space normal of each fragment from -1 - 1 to 0 - 1 and outputs it as a color.
type NormalShader struct{}

func (NormalShader) ShadeVertex(vertex Vertex, uniforms Uniforms) Interpolant {
	return TransformVertex(vertex, uniforms)
}

func (NormalShader) ShadeFragment(in Interpolant, texture *Texture, uniforms Uniforms) uint32 {
	n := in.Normal.Unit()
	return NewColor(n.X*0.5+0.5, n.Y*0.5+0.5, n.Z*0.5+0.5, 1).Pack()
}
