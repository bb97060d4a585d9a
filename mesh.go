package swrast

// NewCube returns a new Node containing a cube with sides of the given length, centered on its origin. Each face has its
// own four vertices, so normals are flat per face, and the UV coordinates lay the faces out as a cross on the texture.
// All faces wind counter-clockwise seen from outside.
func NewCube(size float32, transform *Transform) *Node {

	s := size / 2

	front := Vector3{0, 0, 1}
	back := Vector3{0, 0, -1}
	top := Vector3{0, 1, 0}
	bottom := Vector3{0, -1, 0}
	left := Vector3{-1, 0, 0}
	right := Vector3{1, 0, 0}

	vertices := []Vertex{

		// Front
		NewVertex(-s, -s, s, front, 0.25, 0.33),
		NewVertex(s, -s, s, front, 0.5, 0.33),
		NewVertex(s, s, s, front, 0.5, 0),
		NewVertex(-s, s, s, front, 0.25, 0),

		// Back
		NewVertex(s, -s, -s, back, 0.5, 0.66),
		NewVertex(-s, -s, -s, back, 0.25, 0.66),
		NewVertex(-s, s, -s, back, 0.25, 1),
		NewVertex(s, s, -s, back, 0.5, 1),

		// Top
		NewVertex(-s, s, s, top, 1, 0.33),
		NewVertex(s, s, s, top, 0.75, 0.33),
		NewVertex(s, s, -s, top, 0.75, 0.66),
		NewVertex(-s, s, -s, top, 1, 0.66),

		// Bottom
		NewVertex(s, -s, s, bottom, 0.5, 0.33),
		NewVertex(-s, -s, s, bottom, 0.25, 0.33),
		NewVertex(-s, -s, -s, bottom, 0.25, 0.66),
		NewVertex(s, -s, -s, bottom, 0.5, 0.66),

		// Left
		NewVertex(-s, -s, -s, left, 0.25, 0.66),
		NewVertex(-s, -s, s, left, 0.25, 0.33),
		NewVertex(-s, s, s, left, 0, 0.33),
		NewVertex(-s, s, -s, left, 0, 0.66),

		// Right
		NewVertex(s, -s, s, right, 0.5, 0.33),
		NewVertex(s, -s, -s, right, 0.75, 0.33),
		NewVertex(s, s, -s, right, 0.75, 0.66),
		NewVertex(s, s, s, right, 0.5, 0.66),
	}

	indices := make([]int, 0, 36)
	for face := 0; face < 6; face++ {
		i := face * 4
		indices = append(indices,
			i, i+1, i+3,
			i+2, i+3, i+1,
		)
	}

	node := mustNode(vertices, indices, transform)
	node.Name = "Cube"
	return node

}

// NewPlane returns a new Node containing a square with sides of the given length on the XY plane, centered on its
// origin and facing +Z. The whole texture is mapped across it, upright.
func NewPlane(size float32, transform *Transform) *Node {

	s := size / 2
	normal := Vector3{0, 0, 1}

	vertices := []Vertex{
		NewVertex(-s, -s, 0, normal, 0, 1),
		NewVertex(s, -s, 0, normal, 1, 1),
		NewVertex(s, s, 0, normal, 1, 0),
		NewVertex(-s, s, 0, normal, 0, 0),
	}

	node := mustNode(vertices, []int{0, 1, 2, 0, 2, 3}, transform)
	node.Name = "Plane"
	return node

}

func mustNode(vertices []Vertex, indices []int, transform *Transform) *Node {
	node, err := NewNode(vertices, indices, transform)
	if err != nil {
		panic(err)
	}
	return node
}
