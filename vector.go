package swrast

import (
	"strconv"

	"github.com/chewxy/math32"
)

// WorldRight represents a unit vector in the global direction of +X on the right-handed coordinate system (right).
var WorldRight = Vector3{1, 0, 0}

// WorldUp represents a unit vector in the global direction of +Y on the right-handed coordinate system (upwards).
var WorldUp = Vector3{0, 1, 0}

// WorldBackward represents a unit vector in the global direction of +Z on the right-handed coordinate system (backwards, towards you).
var WorldBackward = Vector3{0, 0, 1}

// Vector2 represents a 2D Vector, used for texture coordinates and screen positions.
type Vector2 struct {
	X float32
	Y float32
}

// Add returns a copy of the calling Vector2, added together with the other Vector2 provided.
func (vec Vector2) Add(other Vector2) Vector2 {
	vec.X += other.X
	vec.Y += other.Y
	return vec
}

// Sub returns a copy of the calling Vector2, with the other Vector2 subtracted from it.
func (vec Vector2) Sub(other Vector2) Vector2 {
	vec.X -= other.X
	vec.Y -= other.Y
	return vec
}

// Scale scales a Vector2 by the given scalar.
func (vec Vector2) Scale(scalar float32) Vector2 {
	vec.X *= scalar
	vec.Y *= scalar
	return vec
}

// Dot returns the dot product of a Vector2 and another Vector2.
func (vec Vector2) Dot(other Vector2) float32 {
	return vec.X*other.X + vec.Y*other.Y
}

// Vector3 represents a 3D Vector, which can be used for usual 3D applications (position, direction, normals, etc).
// Any Vector3 functions that modify the calling Vector3 return copies of the modified Vector3, meaning you can do method-chaining easily.
type Vector3 struct {
	X float32 // The X (1st) component of the Vector
	Y float32 // The Y (2nd) component of the Vector
	Z float32 // The Z (3rd) component of the Vector
}

// NewVector3 creates a new Vector3 with the specified x, y, and z components.
func NewVector3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns a copy of the calling vector, added together with the other Vector3 provided.
func (vec Vector3) Add(other Vector3) Vector3 {
	vec.X += other.X
	vec.Y += other.Y
	vec.Z += other.Z
	return vec
}

// Sub returns a copy of the calling Vector3, with the other Vector3 subtracted from it.
func (vec Vector3) Sub(other Vector3) Vector3 {
	vec.X -= other.X
	vec.Y -= other.Y
	vec.Z -= other.Z
	return vec
}

// Cross returns a new Vector3, indicating the cross product of the calling Vector3 and the provided Other Vector3.
func (vec Vector3) Cross(other Vector3) Vector3 {

	ogVecY := vec.Y
	ogVecZ := vec.Z

	vec.Z = vec.X*other.Y - other.X*vec.Y
	vec.Y = ogVecZ*other.X - other.Z*vec.X
	vec.X = ogVecY*other.Z - other.Y*ogVecZ

	return vec

}

// Invert returns a copy of the Vector3 with all components negated.
func (vec Vector3) Invert() Vector3 {
	vec.X = -vec.X
	vec.Y = -vec.Y
	vec.Z = -vec.Z
	return vec
}

// Magnitude returns the length of the Vector3.
func (vec Vector3) Magnitude() float32 {
	return math32.Sqrt(vec.X*vec.X + vec.Y*vec.Y + vec.Z*vec.Z)
}

// MagnitudeSquared returns the squared length of the Vector3; this is faster than Magnitude() as it avoids using math32.Sqrt().
func (vec Vector3) MagnitudeSquared() float32 {
	return vec.X*vec.X + vec.Y*vec.Y + vec.Z*vec.Z
}

// Unit returns a copy of the Vector3, normalized (set to be of unit length).
// A zero-length Vector3 is returned unchanged.
func (vec Vector3) Unit() Vector3 {
	l := vec.Magnitude()
	if l < 1e-8 {
		return vec
	}
	vec.X, vec.Y, vec.Z = vec.X/l, vec.Y/l, vec.Z/l
	return vec
}

// Scale scales a Vector3 by the given scalar.
func (vec Vector3) Scale(scalar float32) Vector3 {
	vec.X *= scalar
	vec.Y *= scalar
	vec.Z *= scalar
	return vec
}

// MultComp multiplies the Vector3 component-wise by the other Vector3.
func (vec Vector3) MultComp(other Vector3) Vector3 {
	vec.X *= other.X
	vec.Y *= other.Y
	vec.Z *= other.Z
	return vec
}

// Dot returns the dot product of a Vector3 and another Vector3.
func (vec Vector3) Dot(other Vector3) float32 {
	return vec.X*other.X + vec.Y*other.Y + vec.Z*other.Z
}

// Equals returns true if the two Vector3s are close enough in all values.
func (vec Vector3) Equals(other Vector3) bool {
	eps := float32(1e-6)
	return math32.Abs(vec.X-other.X) <= eps && math32.Abs(vec.Y-other.Y) <= eps && math32.Abs(vec.Z-other.Z) <= eps
}

// IsZero returns true if the values in the Vector3 are extremely close to 0.
func (vec Vector3) IsZero() bool {
	return vec.Equals(Vector3{})
}

// Vector4 returns the Vector3 as a Vector4 with the W component provided (1 for points, 0 for directions).
func (vec Vector3) Vector4(w float32) Vector4 {
	return Vector4{vec.X, vec.Y, vec.Z, w}
}

func (vec Vector3) String() string {
	return "{" + strconv.FormatFloat(float64(vec.X), 'f', -1, 32) + ", " +
		strconv.FormatFloat(float64(vec.Y), 'f', -1, 32) + ", " +
		strconv.FormatFloat(float64(vec.Z), 'f', -1, 32) + "}"
}

// Vector4 represents a homogeneous 4D Vector. Points carry W = 1, directions W = 0, and clip-space positions carry
// whatever W the projection produced.
type Vector4 struct {
	X float32
	Y float32
	Z float32
	W float32
}

// NewPoint returns a Vector4 representing a point in space (W = 1).
func NewPoint(x, y, z float32) Vector4 {
	return Vector4{x, y, z, 1}
}

// Add returns a copy of the calling Vector4, added together with the other Vector4 provided (including W).
func (vec Vector4) Add(other Vector4) Vector4 {
	vec.X += other.X
	vec.Y += other.Y
	vec.Z += other.Z
	vec.W += other.W
	return vec
}

// Sub returns a copy of the calling Vector4, with the other Vector4 subtracted from it (including W).
func (vec Vector4) Sub(other Vector4) Vector4 {
	vec.X -= other.X
	vec.Y -= other.Y
	vec.Z -= other.Z
	vec.W -= other.W
	return vec
}

// Scale scales all four components of a Vector4 by the given scalar.
func (vec Vector4) Scale(scalar float32) Vector4 {
	vec.X *= scalar
	vec.Y *= scalar
	vec.Z *= scalar
	vec.W *= scalar
	return vec
}

// Invert returns a copy of the Vector4 with all components negated.
func (vec Vector4) Invert() Vector4 {
	vec.X = -vec.X
	vec.Y = -vec.Y
	vec.Z = -vec.Z
	vec.W = -vec.W
	return vec
}

// Unit returns the Vector4 normalized as a 4D vector.
func (vec Vector4) Unit() Vector4 {
	l := math32.Sqrt(vec.X*vec.X + vec.Y*vec.Y + vec.Z*vec.Z + vec.W*vec.W)
	if l < 1e-8 {
		return vec
	}
	return vec.Scale(1 / l)
}

// Vector3 drops the W component of the Vector4.
func (vec Vector4) Vector3() Vector3 {
	return Vector3{vec.X, vec.Y, vec.Z}
}
