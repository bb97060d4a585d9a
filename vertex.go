package swrast

// Vertex is a single mesh vertex as handed to a Node. Position is in object space (W should be 1).
type Vertex struct {
	Position Vector4
	Normal   Vector3
	Color    Color
	UV       Vector2
}

// NewVertex returns a new white Vertex at the given object-space position, with the normal and UV coordinates provided.
func NewVertex(x, y, z float32, normal Vector3, u, v float32) Vertex {
	return Vertex{
		Position: NewPoint(x, y, z),
		Normal:   normal,
		Color:    NewColor(1, 1, 1, 1),
		UV:       Vector2{u, v},
	}
}

// Interpolant is the output of a vertex stage and the input of a fragment stage. The Engine blends the three
// Interpolants of a triangle for each pixel it covers, field by field.
type Interpolant struct {
	Position Vector4 // Clip-space position; required, as it decides where the vertex lands on screen
	Fragment Vector3 // World-space position of the vertex
	Normal   Vector3 // World-space normal
	Color    Color
	UV       Vector2
}

// Scale returns the Interpolant with every field multiplied by the scalar.
func (in Interpolant) Scale(scalar float32) Interpolant {
	in.Position = in.Position.Scale(scalar)
	in.Fragment = in.Fragment.Scale(scalar)
	in.Normal = in.Normal.Scale(scalar)
	in.Color = in.Color.Scale(scalar)
	in.UV = in.UV.Scale(scalar)
	return in
}

// Add returns the field-wise sum of the two Interpolants.
func (in Interpolant) Add(other Interpolant) Interpolant {
	in.Position = in.Position.Add(other.Position)
	in.Fragment = in.Fragment.Add(other.Fragment)
	in.Normal = in.Normal.Add(other.Normal)
	in.Color = in.Color.Add(other.Color)
	in.UV = in.UV.Add(other.UV)
	return in
}

// Blend returns a*w0 + b*w1 + c*w2. With barycentric weights that sum to 1, this is the Interpolant at that point of the triangle.
func Blend(a, b, c Interpolant, w0, w1, w2 float32) Interpolant {
	return a.Scale(w0).Add(b.Scale(w1)).Add(c.Scale(w2))
}
