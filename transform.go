package swrast

// Transform holds a position, rotation, and scale, and composes them into a model matrix. Transforms are shared
// by pointer; a Camera and a Node (or several Nodes) can hold the same *Transform so that moving one moves all of them.
//
// The composed matrices are cached and rebuilt only after a mutation. A Transform is not safe for concurrent
// mutation; change it between renders, never during one.
type Transform struct {
	position Vector3
	scale    Vector3
	rotation Matrix4

	cachedModel        Matrix4
	cachedModelInverse Matrix4
	isDirty            bool
	isInverseDirty     bool
}

// NewTransform returns a new identity Transform: positioned at the origin, unrotated, and with a scale of 1.
func NewTransform() *Transform {
	return &Transform{
		scale:              Vector3{1, 1, 1},
		rotation:           NewMatrix4(),
		cachedModel:        NewMatrix4(),
		cachedModelInverse: NewMatrix4(),
	}
}

// Clone returns a new Transform with the same position, rotation, and scale.
func (transform *Transform) Clone() *Transform {
	newTransform := NewTransform()
	newTransform.position = transform.position
	newTransform.scale = transform.scale
	newTransform.rotation = transform.rotation
	newTransform.dirty()
	return newTransform
}

func (transform *Transform) dirty() {
	transform.isDirty = true
	transform.isInverseDirty = true
}

// Model returns the Matrix4 that takes points from the Transform's local space into world space. It's composed
// as scale, then rotation, then translation.
func (transform *Transform) Model() Matrix4 {

	if !transform.isDirty {
		return transform.cachedModel
	}

	model := NewMatrix4Scale(transform.scale.X, transform.scale.Y, transform.scale.Z)
	model = model.Mult(transform.rotation)
	model = model.Mult(NewMatrix4Translate(transform.position.X, transform.position.Y, transform.position.Z))

	transform.cachedModel = model
	transform.isDirty = false

	return model

}

// ModelInverse returns the inverse of Model(), taking points from world space into the Transform's local space.
// For a Camera's Transform, this is the view matrix.
func (transform *Transform) ModelInverse() Matrix4 {

	if !transform.isInverseDirty {
		return transform.cachedModelInverse
	}

	transform.cachedModelInverse = transform.Model().Inverted()
	transform.isInverseDirty = false
	return transform.cachedModelInverse

}

// Position returns the Transform's position.
func (transform *Transform) Position() Vector3 {
	return transform.position
}

// SetPosition sets the Transform's position.
func (transform *Transform) SetPosition(x, y, z float32) {
	transform.position = Vector3{x, y, z}
	transform.dirty()
}

// SetPositionVec sets the Transform's position using the vector provided.
func (transform *Transform) SetPositionVec(position Vector3) {
	transform.SetPosition(position.X, position.Y, position.Z)
}

// Scale returns the Transform's scale.
func (transform *Transform) Scale() Vector3 {
	return transform.scale
}

// SetScale sets the Transform's scale. 1, 1, 1 is the default.
func (transform *Transform) SetScale(x, y, z float32) {
	transform.scale = Vector3{x, y, z}
	transform.dirty()
}

// Rotation returns the Transform's rotation Matrix4.
func (transform *Transform) Rotation() Matrix4 {
	return transform.rotation
}

// SetRotation sets the Transform's rotation Matrix4.
func (transform *Transform) SetRotation(rotation Matrix4) {
	transform.rotation = rotation
	transform.dirty()
}

// SetRotationFromQuaternion sets the Transform's rotation from the unit quaternion provided.
func (transform *Transform) SetRotationFromQuaternion(x, y, z, w float32) {
	transform.SetRotation(NewMatrix4FromQuaternion(x, y, z, w))
}

// SetMatrix sets the position, rotation, and scale of the Transform by decomposing the Matrix4 provided.
// Negative scales and shear aren't preserved.
func (transform *Transform) SetMatrix(matrix Matrix4) {
	position, scale, rotation := matrix.Decompose()
	transform.position = position
	transform.scale = scale
	transform.rotation = rotation
	transform.dirty()
}

// Move moves the Transform by the x, y, and z values provided.
func (transform *Transform) Move(x, y, z float32) {
	if x == 0 && y == 0 && z == 0 {
		return
	}
	transform.position.X += x
	transform.position.Y += y
	transform.position.Z += z
	transform.dirty()
}

// Rotate rotates the Transform on its local orientation around the axis composed of the given x, y, and z values,
// by the angle provided in radians.
func (transform *Transform) Rotate(x, y, z, angle float32) {
	if x == 0 && y == 0 && z == 0 {
		return
	}
	transform.SetRotation(transform.rotation.Rotated(x, y, z, angle))
}

// Grow scales the Transform additively (i.e. calling Grow(1, 0, 0) will scale it +1 on the X-axis).
func (transform *Transform) Grow(x, y, z float32) {
	if x == 0 && y == 0 && z == 0 {
		return
	}
	transform.scale.X += x
	transform.scale.Y += y
	transform.scale.Z += z
	transform.dirty()
}
