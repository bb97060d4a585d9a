package swrast

import "github.com/chewxy/math32"

// Quaternion is a rotation stored as (X, Y, Z, W), the layout glTF uses.
type Quaternion struct {
	X, Y, Z, W float32
}

func NewQuaternion(x, y, z, w float32) Quaternion {
	return Quaternion{x, y, z, w}
}

// NewQuaternionFromAxisAngle returns a Quaternion rotating counter-clockwise by angle (in radians) around the axis given.
func NewQuaternionFromAxisAngle(axis Vector3, angle float32) Quaternion {
	axis = axis.Unit()
	s := math32.Sin(angle / 2)
	return Quaternion{axis.X * s, axis.Y * s, axis.Z * s, math32.Cos(angle / 2)}
}

func (quat Quaternion) Dot(other Quaternion) float32 {
	return quat.X*other.X + quat.Y*other.Y + quat.Z*other.Z + quat.W*other.W
}

// Normalized returns the Quaternion scaled to unit length. A zero Quaternion becomes the identity rotation.
func (quat Quaternion) Normalized() Quaternion {
	length := math32.Sqrt(quat.Dot(quat))
	if length == 0 || !isFinite(length) {
		return Quaternion{0, 0, 0, 1}
	}
	return Quaternion{quat.X / length, quat.Y / length, quat.Z / length, quat.W / length}
}

// Slerp returns the rotation percent of the way from the Quaternion to the other one along the shortest arc.
// Both should be unit length.
func (quat Quaternion) Slerp(other Quaternion, percent float32) Quaternion {

	if percent <= 0 {
		return quat
	} else if percent >= 1 {
		return other
	}

	cosTheta := quat.Dot(other)

	// q and -q are the same rotation; take the closer one.
	if cosTheta < 0 {
		other = Quaternion{-other.X, -other.Y, -other.Z, -other.W}
		cosTheta = -cosTheta
	}

	var ratioA, ratioB float32

	if cosTheta > 0.9995 {
		ratioA, ratioB = 1-percent, percent
	} else {
		theta := math32.Acos(cosTheta)
		sinTheta := math32.Sin(theta)
		ratioA = math32.Sin((1-percent)*theta) / sinTheta
		ratioB = math32.Sin(percent*theta) / sinTheta
	}

	return Quaternion{
		quat.X*ratioA + other.X*ratioB,
		quat.Y*ratioA + other.Y*ratioB,
		quat.Z*ratioA + other.Z*ratioB,
		quat.W*ratioA + other.W*ratioB,
	}.Normalized()

}

// Matrix4 returns the rotation as a Matrix4. The Quaternion should be unit length.
func (quat Quaternion) Matrix4() Matrix4 {

	x, y, z, w := quat.X, quat.Y, quat.Z, quat.W

	mat := NewMatrix4()

	mat[0][0] = 1 - 2*(y*y+z*z)
	mat[0][1] = 2 * (x*y + z*w)
	mat[0][2] = 2 * (x*z - y*w)

	mat[1][0] = 2 * (x*y - z*w)
	mat[1][1] = 1 - 2*(x*x+z*z)
	mat[1][2] = 2 * (y*z + x*w)

	mat[2][0] = 2 * (x*z + y*w)
	mat[2][1] = 2 * (y*z - x*w)
	mat[2][2] = 1 - 2*(x*x+y*y)

	return mat

}
