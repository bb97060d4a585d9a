package swrast

import "errors"

var (
	// ErrIndexOutOfRange is returned when an index refers past the end of a Node's index or vertex list.
	ErrIndexOutOfRange = errors.New("swrast: index out of range")

	// ErrIndexCount is returned when a Node's index count is not a multiple of 3.
	ErrIndexCount = errors.New("swrast: index count is not a multiple of 3")

	// ErrInvalidCamera is returned when a Camera would be given an unusable projection.
	ErrInvalidCamera = errors.New("swrast: invalid camera parameters")

	// ErrInvalidEngine is returned by NewEngine when given unusable dimensions or no Camera.
	ErrInvalidEngine = errors.New("swrast: invalid engine parameters")

	// ErrInvalidTexture is returned when texture dimensions and pixel data don't agree.
	ErrInvalidTexture = errors.New("swrast: invalid texture")

	// ErrRenderInProgress is returned when Engine.Render is called while the Engine is already rendering.
	ErrRenderInProgress = errors.New("swrast: render already in progress")

	// ErrUnsupportedGLTF is returned when a glTF document uses something the loader can't handle.
	ErrUnsupportedGLTF = errors.New("swrast: unsupported glTF content")
)
