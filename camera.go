package swrast

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Camera is a perspective camera. Its view comes from its Transform (the camera looks down its local -Z axis),
// and its projection from a vertical field of view, an aspect ratio, and near and far clipping planes.
//
// Nothing is cached on the Camera itself; View(), Projection(), and ViewPerspective() always reflect the current
// parameters and the current state of the (possibly shared) Transform.
type Camera struct {
	transform   *Transform
	up          Vector3
	fieldOfView float32 // Vertical field of view in degrees
	aspect      float32
	near        float32
	far         float32
}

// NewCamera creates a new perspective Camera. fovY is the vertical field of view in degrees, aspect is the
// width / height ratio of the target buffer, and near and far are the distances to the clipping planes.
// If transform is nil, the Camera gets a new identity Transform of its own. up is the axis used by LookAt.
// An error wrapping ErrInvalidCamera is returned if any of the parameters would give an unusable projection.
func NewCamera(fovY, aspect, near, far float32, transform *Transform, up Vector3) (*Camera, error) {

	if err := validateProjection(fovY, aspect, near, far); err != nil {
		return nil, err
	}

	if err := validateUp(up); err != nil {
		return nil, err
	}

	if transform == nil {
		transform = NewTransform()
	}

	return &Camera{
		transform:   transform,
		up:          up,
		fieldOfView: fovY,
		aspect:      aspect,
		near:        near,
		far:         far,
	}, nil

}

func validateProjection(fovY, aspect, near, far float32) error {

	for _, v := range [...]float32{fovY, aspect, near, far} {
		if !isFinite(v) {
			return fmt.Errorf("%w: non-finite value in fov %v, aspect %v, near %v, far %v", ErrInvalidCamera, fovY, aspect, near, far)
		}
	}

	if fovY <= 0 || fovY >= 180 {
		return fmt.Errorf("%w: field of view %v must be between 0 and 180 degrees", ErrInvalidCamera, fovY)
	}

	if aspect <= 0 {
		return fmt.Errorf("%w: aspect ratio %v must be positive", ErrInvalidCamera, aspect)
	}

	if near <= 0 {
		return fmt.Errorf("%w: near plane %v must be positive", ErrInvalidCamera, near)
	}

	if far <= near {
		return fmt.Errorf("%w: far plane %v must be beyond the near plane %v", ErrInvalidCamera, far, near)
	}

	return nil

}

func validateUp(up Vector3) error {
	if !isFinite(up.X) || !isFinite(up.Y) || !isFinite(up.Z) || up.IsZero() {
		return fmt.Errorf("%w: up vector %s must be finite and non-zero", ErrInvalidCamera, up)
	}
	return nil
}

func isFinite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}

// Transform returns the Camera's Transform.
func (camera *Camera) Transform() *Transform {
	return camera.transform
}

// SetTransform sets the Camera's Transform. Passing nil gives the Camera a new identity Transform.
func (camera *Camera) SetTransform(transform *Transform) {
	if transform == nil {
		transform = NewTransform()
	}
	camera.transform = transform
}

// View returns the Camera's view matrix, which takes points from world space into camera space.
func (camera *Camera) View() Matrix4 {
	return camera.transform.ModelInverse()
}

// Projection returns the Camera's perspective projection matrix.
func (camera *Camera) Projection() Matrix4 {
	return NewProjectionPerspective(camera.fieldOfView, camera.aspect, camera.near, camera.far)
}

// ViewPerspective returns the combined view and projection matrix, taking points from world space into clip space.
func (camera *Camera) ViewPerspective() Matrix4 {
	return camera.View().Mult(camera.Projection())
}

// WorldPosition returns the Camera's position in world space.
func (camera *Camera) WorldPosition() Vector3 {
	return camera.transform.Position()
}

// LookAt rotates the Camera's Transform so that the Camera faces the target position, using the Camera's up vector.
func (camera *Camera) LookAt(target Vector3) {
	camera.transform.SetRotation(NewLookAtMatrix(camera.WorldPosition(), target, camera.up))
}

// WorldToClip transforms a point in world space into clip space.
func (camera *Camera) WorldToClip(point Vector3) Vector4 {
	return camera.ViewPerspective().MultVecW(point.Vector4(1))
}

// WorldToScreenPixels projects a point in world space to a pixel position on a buffer of the given size, using the
// same mapping as the Engine (row 0 is the bottom of the view). Z holds the normalized device depth. The returned
// bool is false if the point is behind the Camera.
func (camera *Camera) WorldToScreenPixels(point Vector3, width, height int) (Vector3, bool) {
	clip := camera.WorldToClip(point)
	if clip.W <= wEpsilon {
		return Vector3{}, false
	}
	return Vector3{
		X: (clip.X/clip.W + 1) * float32(width) / 2,
		Y: (clip.Y/clip.W + 1) * float32(height) / 2,
		Z: clip.Z / clip.W,
	}, true
}

// FieldOfView returns the vertical field of view in degrees.
func (camera *Camera) FieldOfView() float32 {
	return camera.fieldOfView
}

// SetFieldOfView sets the vertical field of view of the Camera in degrees. The Camera is left unchanged if an error is returned.
func (camera *Camera) SetFieldOfView(fovY float32) error {
	if err := validateProjection(fovY, camera.aspect, camera.near, camera.far); err != nil {
		return err
	}
	camera.fieldOfView = fovY
	return nil
}

// Aspect returns the aspect ratio (width / height) of the Camera.
func (camera *Camera) Aspect() float32 {
	return camera.aspect
}

// SetAspect sets the aspect ratio (width / height) of the Camera. The Camera is left unchanged if an error is returned.
func (camera *Camera) SetAspect(aspect float32) error {
	if err := validateProjection(camera.fieldOfView, aspect, camera.near, camera.far); err != nil {
		return err
	}
	camera.aspect = aspect
	return nil
}

// Near returns the near plane of the Camera.
func (camera *Camera) Near() float32 {
	return camera.near
}

// SetNear sets the near plane of the Camera. The Camera is left unchanged if an error is returned.
func (camera *Camera) SetNear(near float32) error {
	if err := validateProjection(camera.fieldOfView, camera.aspect, near, camera.far); err != nil {
		return err
	}
	camera.near = near
	return nil
}

// Far returns the far plane of the Camera.
func (camera *Camera) Far() float32 {
	return camera.far
}

// SetFar sets the far plane of the Camera. The Camera is left unchanged if an error is returned.
func (camera *Camera) SetFar(far float32) error {
	if err := validateProjection(camera.fieldOfView, camera.aspect, camera.near, far); err != nil {
		return err
	}
	camera.far = far
	return nil
}

// SetClipPlanes sets both the near and far planes at once, which is needed when moving both past each other.
func (camera *Camera) SetClipPlanes(near, far float32) error {
	if err := validateProjection(camera.fieldOfView, camera.aspect, near, far); err != nil {
		return err
	}
	camera.near = near
	camera.far = far
	return nil
}

// Up returns the Camera's up vector.
func (camera *Camera) Up() Vector3 {
	return camera.up
}

// SetUp sets the up vector used by LookAt.
func (camera *Camera) SetUp(up Vector3) error {
	if err := validateUp(up); err != nil {
		return err
	}
	camera.up = up
	return nil
}
