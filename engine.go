package swrast

import (
	"fmt"
	"image"
	"time"

	"github.com/chewxy/math32"
)

// DefaultGuardBand is the default for Engine.GuardBand.
const DefaultGuardBand = 1 << 15

// Triangles with a vertex whose W is at or below this are treated as crossing the camera plane.
const wEpsilon = 1e-6

// EngineState is the state of an Engine; see Engine.State.
type EngineState int

const (
	StateIdle      EngineState = iota // Not rendering; the buffers are consistent and can be read
	StateRendering                    // Render is running
)

func (state EngineState) String() string {
	switch state {
	case StateIdle:
		return "idle"
	case StateRendering:
		return "rendering"
	}
	return fmt.Sprintf("EngineState(%d)", int(state))
}

// DebugInfo holds statistics about the last frame rendered by an Engine. It's reset at the start of every Render call.
type DebugInfo struct {
	FrameTime      time.Duration // Time spent in the last Render call
	TotalTris      int           // Triangles belonging to visible Nodes
	DrawnTris      int           // Triangles that reached the span fill
	CulledTris     int           // Triangles skipped by backface culling
	ClippedTris    int           // Triangles skipped for being behind the camera, off-screen, or beyond the guard band
	DegenerateTris int           // Triangles skipped for having no area on screen
	Fragments      int           // Pixels written
	DepthRejected  int           // Pixels that failed the depth test
}

// Engine is the rasterizer. It owns a color buffer and a depth buffer, a Camera to view the scene through, and the
// list of Nodes to draw. Render draws every visible Node into the buffers, after which they can be read with
// ColorBuffer, Pixel, Depth, or Image.
//
// An Engine is single-threaded: Nodes, Transforms, and the Camera must not be modified while Render runs.
type Engine struct {
	// DepthTest enables z-buffering: a fragment is only written if it's within the clipping planes and closer than
	// what's already at its pixel. If disabled, later triangles draw over earlier ones. Defaults to true.
	DepthTest bool

	// PerspectiveCorrect interpolates fragment values accounting for perspective, rather than linearly in screen space.
	PerspectiveCorrect bool

	// GuardBand is the furthest a triangle's vertex can be outside of the buffer, in pixels, before the whole triangle
	// is skipped. This keeps edge walks for nearly-degenerate projections bounded.
	GuardBand float32

	DebugInfo DebugInfo

	width, height int
	colorBuffer   []uint32
	depthBuffer   []float32
	background    Color
	clearColor    uint32

	camera *Camera
	nodes  []*Node
	state  EngineState
}

// NewEngine creates a new Engine with color and depth buffers of the given size, viewing through the Camera provided.
// background is the color the color buffer is cleared to. An error wrapping ErrInvalidEngine is returned if
// either dimension isn't positive or the camera is nil.
func NewEngine(width, height int, camera *Camera, background Color) (*Engine, error) {

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: buffer size %dx%d must be positive", ErrInvalidEngine, width, height)
	}

	if camera == nil {
		return nil, fmt.Errorf("%w: nil camera", ErrInvalidEngine)
	}

	engine := &Engine{
		DepthTest:   true,
		GuardBand:   DefaultGuardBand,
		width:       width,
		height:      height,
		colorBuffer: make([]uint32, width*height),
		depthBuffer: make([]float32, width*height),
		camera:      camera,
	}

	engine.SetBackground(background)
	engine.Clear()

	return engine, nil

}

// Width returns the width of the Engine's buffers in pixels.
func (engine *Engine) Width() int {
	return engine.width
}

// Height returns the height of the Engine's buffers in pixels.
func (engine *Engine) Height() int {
	return engine.height
}

// Size returns the width and height of the Engine's buffers in pixels.
func (engine *Engine) Size() (int, int) {
	return engine.width, engine.height
}

// State returns the Engine's current state.
func (engine *Engine) State() EngineState {
	return engine.state
}

// Camera returns the Engine's Camera.
func (engine *Engine) Camera() *Camera {
	return engine.camera
}

// SetCamera sets the Camera the Engine renders through. An error wrapping ErrInvalidEngine is returned for a nil Camera.
func (engine *Engine) SetCamera(camera *Camera) error {
	if camera == nil {
		return fmt.Errorf("%w: nil camera", ErrInvalidEngine)
	}
	engine.camera = camera
	return nil
}

// Background returns the color the color buffer is cleared to.
func (engine *Engine) Background() Color {
	return engine.background
}

// SetBackground sets the color the color buffer is cleared to. It takes effect on the next Clear or Render.
func (engine *Engine) SetBackground(background Color) {
	engine.background = background
	engine.clearColor = background.Pack()
}

// AddNodes adds Nodes to the list drawn by Render. Nodes are drawn in the order they were added.
func (engine *Engine) AddNodes(nodes ...*Node) {
	for _, node := range nodes {
		if node != nil {
			engine.nodes = append(engine.nodes, node)
		}
	}
}

// RemoveNodes removes Nodes from the list drawn by Render.
func (engine *Engine) RemoveNodes(nodes ...*Node) {
	for _, toRemove := range nodes {
		for i, node := range engine.nodes {
			if node == toRemove {
				engine.nodes[i] = nil
				engine.nodes = append(engine.nodes[:i], engine.nodes[i+1:]...)
				break
			}
		}
	}
}

// Nodes returns a copy of the list of Nodes drawn by Render.
func (engine *Engine) Nodes() []*Node {
	return append([]*Node(nil), engine.nodes...)
}

// ClearNodes removes all Nodes from the Engine.
func (engine *Engine) ClearNodes() {
	for i := range engine.nodes {
		engine.nodes[i] = nil
	}
	engine.nodes = engine.nodes[:0]
}

// Clear fills the color buffer with the background color and resets the depth buffer to the furthest possible depth.
func (engine *Engine) Clear() {
	for i := range engine.colorBuffer {
		engine.colorBuffer[i] = engine.clearColor
	}
	for i := range engine.depthBuffer {
		engine.depthBuffer[i] = math32.MaxFloat32
	}
}

// Render clears the buffers and draws every visible Node into them through the Engine's Camera. Render runs to
// completion; ErrRenderInProgress is returned if it's called again while already running (i.e. from a Shader).
func (engine *Engine) Render() error {

	if engine.state == StateRendering {
		return ErrRenderInProgress
	}

	engine.state = StateRendering
	defer func() { engine.state = StateIdle }()

	start := time.Now()
	engine.DebugInfo = DebugInfo{}

	engine.Clear()

	viewPerspective := engine.camera.ViewPerspective()
	camPos := engine.camera.WorldPosition()

	for _, node := range engine.nodes {

		if !node.Visible {
			continue
		}

		if err := engine.drawNode(node, viewPerspective, camPos); err != nil {
			return fmt.Errorf("rendering node %q: %w", node.Name, err)
		}

	}

	engine.DebugInfo.FrameTime = time.Since(start)

	Logger().Debug("frame rendered",
		"frameTime", engine.DebugInfo.FrameTime,
		"tris", engine.DebugInfo.TotalTris,
		"drawn", engine.DebugInfo.DrawnTris,
		"culled", engine.DebugInfo.CulledTris,
		"clipped", engine.DebugInfo.ClippedTris,
		"degenerate", engine.DebugInfo.DegenerateTris,
		"fragments", engine.DebugInfo.Fragments,
	)

	return nil

}

func (engine *Engine) drawNode(node *Node, viewPerspective Matrix4, camPos Vector3) error {

	transform := node.Transform()
	shader := node.Shader()

	uniforms := Uniforms{
		ViewPerspective: viewPerspective,
		Model:           transform.Model(),
		CameraPosition:  camPos,
	}

	camLocal := transform.ModelInverse().MultVec(camPos)

	var verts [3]Vertex
	var ins [3]Interpolant

	for i := 0; i+2 < node.IndexCount(); i += 3 {

		engine.DebugInfo.TotalTris++

		for j := range verts {
			v, err := node.GetByIndex(i + j)
			if err != nil {
				return err
			}
			verts[j] = v
		}

		if node.BackfaceCulling && isBackface(verts[0].Position.Vector3(), verts[1].Position.Vector3(), verts[2].Position.Vector3(), camLocal) {
			engine.DebugInfo.CulledTris++
			continue
		}

		for j := range verts {
			ins[j] = shader.ShadeVertex(verts[j], uniforms)
		}

		engine.drawTriangle(node, uniforms, ins)

	}

	return nil

}

// isBackface returns true if the triangle p0, p1, p2 faces away from the camera at camPos. Front faces wind counter-clockwise.
// A triangle without a normal counts as facing away.
func isBackface(p0, p1, p2, camPos Vector3) bool {
	normal := p1.Sub(p0).Cross(p2.Sub(p0))
	if normal.MagnitudeSquared() == 0 {
		return true
	}
	return p0.Sub(camPos).Dot(normal) >= 0
}

// screenVertex is a vertex after the perspective divide and mapping to pixel coordinates.
type screenVertex struct {
	pos    Vector2 // Position in pixels
	px, py int     // Pixel containing pos
	z      float32 // Normalized device depth
	invW   float32
	in     Interpolant
}

func (engine *Engine) toScreen(in Interpolant) (screenVertex, bool) {

	pos := in.Position

	if !(pos.W > wEpsilon) || !isFinite(pos.X) || !isFinite(pos.Y) || !isFinite(pos.Z) || !isFinite(pos.W) {
		return screenVertex{}, false
	}

	invW := 1 / pos.W

	sv := screenVertex{
		pos: Vector2{
			X: snapSubpixel((pos.X*invW + 1) * float32(engine.width) / 2),
			Y: snapSubpixel((pos.Y*invW + 1) * float32(engine.height) / 2),
		},
		z:    pos.Z * invW,
		invW: invW,
		in:   in,
	}

	guard := engine.GuardBand
	if sv.pos.X < -guard || sv.pos.Y < -guard || sv.pos.X > float32(engine.width)+guard || sv.pos.Y > float32(engine.height)+guard || !isFinite(sv.z) {
		return screenVertex{}, false
	}

	sv.px = int(math32.Floor(sv.pos.X))
	sv.py = int(math32.Floor(sv.pos.Y))

	return sv, true

}

// subpixelSteps is the number of positions per pixel that screen coordinates are snapped to, so a vertex placed on a
// pixel edge lands in the same pixel regardless of rounding in the perspective divide.
const subpixelSteps = 256

func snapSubpixel(v float32) float32 {
	return math32.Round(v*subpixelSteps) / subpixelSteps
}

// scanlineBefore orders screen vertices by row, then by column.
func scanlineBefore(a, b *screenVertex) bool {
	if a.py != b.py {
		return a.py < b.py
	}
	return a.px < b.px
}

func (engine *Engine) drawTriangle(node *Node, uniforms Uniforms, ins [3]Interpolant) {

	var sv [3]screenVertex

	for i := range ins {
		v, ok := engine.toScreen(ins[i])
		if !ok {
			engine.DebugInfo.ClippedTris++
			return
		}
		sv[i] = v
	}

	// Sort into top, middle, and bottom.
	if scanlineBefore(&sv[1], &sv[0]) {
		sv[0], sv[1] = sv[1], sv[0]
	}
	if scanlineBefore(&sv[2], &sv[1]) {
		sv[1], sv[2] = sv[2], sv[1]
	}
	if scanlineBefore(&sv[1], &sv[0]) {
		sv[0], sv[1] = sv[1], sv[0]
	}

	top, middle, bottom := &sv[0], &sv[1], &sv[2]

	minX := min(top.px, middle.px, bottom.px)
	maxX := max(top.px, middle.px, bottom.px)

	if maxX < 0 || minX >= engine.width || bottom.py < 0 || top.py >= engine.height {
		engine.DebugInfo.ClippedTris++
		return
	}

	setup, ok := newBarycentricSetup(top.pos, middle.pos, bottom.pos)
	if !ok {
		engine.DebugInfo.DegenerateTris++
		return
	}

	engine.DebugInfo.DrawnTris++

	long := newLineWalk(top.px, top.py, bottom.px, bottom.py)
	upper := newLineWalk(top.px, top.py, middle.px, middle.py)
	lower := newLineWalk(middle.px, middle.py, bottom.px, bottom.py)

	for y := top.py; y <= bottom.py; y++ {

		spanMin, spanMax, ok := long.rowAt(y)
		if !ok {
			spanMin, spanMax = engine.width, -1
		}

		if x0, x1, ok := upper.rowAt(y); ok {
			spanMin = min(spanMin, x0)
			spanMax = max(spanMax, x1)
		}

		if x0, x1, ok := lower.rowAt(y); ok {
			spanMin = min(spanMin, x0)
			spanMax = max(spanMax, x1)
		}

		if y < 0 || y >= engine.height || spanMin > spanMax {
			continue
		}

		engine.fillSpan(node, uniforms, &setup, sv, y, spanMin, spanMax)

	}

}

func (engine *Engine) fillSpan(node *Node, uniforms Uniforms, setup *barycentricSetup, sv [3]screenVertex, y, x0, x1 int) {

	if x0 < 0 {
		x0 = 0
	}
	if x1 >= engine.width {
		x1 = engine.width - 1
	}

	py := float32(y) + 0.5

	for x := x0; x <= x1; x++ {

		w0, w1, w2 := setup.weights(Vector2{float32(x) + 0.5, py})

		index := x + engine.width*y

		z := w0*sv[0].z + w1*sv[1].z + w2*sv[2].z

		if engine.DepthTest {
			if z < -1 || z > 1 || z >= engine.depthBuffer[index] {
				engine.DebugInfo.DepthRejected++
				continue
			}
		}

		if engine.PerspectiveCorrect {
			p0, p1, p2 := w0*sv[0].invW, w1*sv[1].invW, w2*sv[2].invW
			sum := p0 + p1 + p2
			if math32.Abs(sum) < 1e-12 {
				continue
			}
			w0, w1, w2 = p0/sum, p1/sum, p2/sum
		}

		in := Blend(sv[0].in, sv[1].in, sv[2].in, w0, w1, w2)

		engine.colorBuffer[index] = node.shader.ShadeFragment(in, node.texture, uniforms)
		if engine.DepthTest {
			engine.depthBuffer[index] = z
		}
		engine.DebugInfo.Fragments++

	}

}

// DrawLine draws a 1-pixel line straight into the color buffer, without depth testing. Parts of the line outside of the
// buffer are dropped. It's meant for debug overlays drawn after Render, which clears the buffer.
func (engine *Engine) DrawLine(x0, y0, x1, y1 int, color Color) {
	packed := color.Pack()
	WalkLine(x0, y0, x1, y1, func(x, y int) {
		if x >= 0 && y >= 0 && x < engine.width && y < engine.height {
			engine.colorBuffer[x+engine.width*y] = packed
		}
	})
}

// ColorBuffer returns a copy of the color buffer: width*height packed colors (see Color.Pack), row by row, starting
// with the row at the bottom of the view.
func (engine *Engine) ColorBuffer() []uint32 {
	return append([]uint32(nil), engine.colorBuffer...)
}

// DepthBuffer returns a copy of the depth buffer, laid out like ColorBuffer. Pixels that weren't drawn to hold math32.MaxFloat32.
func (engine *Engine) DepthBuffer() []float32 {
	return append([]float32(nil), engine.depthBuffer...)
}

// Pixel returns the packed color at the pixel provided, and false if the pixel is outside of the buffer.
func (engine *Engine) Pixel(x, y int) (uint32, bool) {
	if x < 0 || y < 0 || x >= engine.width || y >= engine.height {
		return 0, false
	}
	return engine.colorBuffer[x+engine.width*y], true
}

// Depth returns the depth at the pixel provided, and false if the pixel is outside of the buffer.
func (engine *Engine) Depth(x, y int) (float32, bool) {
	if x < 0 || y < 0 || x >= engine.width || y >= engine.height {
		return 0, false
	}
	return engine.depthBuffer[x+engine.width*y], true
}

// Image returns the color buffer as an upright image (the top row of the image is the top of the view), with alpha
// premultiplied as image.RGBA expects.
func (engine *Engine) Image() *image.RGBA {

	img := image.NewRGBA(image.Rect(0, 0, engine.width, engine.height))

	for y := 0; y < engine.height; y++ {
		src := engine.colorBuffer[engine.width*(engine.height-1-y) : engine.width*(engine.height-y)]
		dst := img.Pix[y*img.Stride : y*img.Stride+engine.width*4]
		for x, packed := range src {
			r, g, b, a := uint32(packed&0xFF), uint32(packed>>8&0xFF), uint32(packed>>16&0xFF), uint32(packed>>24)
			if a != 0xFF {
				r, g, b = r*a/0xFF, g*a/0xFF, b*a/0xFF
			}
			dst[x*4] = uint8(r)
			dst[x*4+1] = uint8(g)
			dst[x*4+2] = uint8(b)
			dst[x*4+3] = uint8(a)
		}
	}

	return img

}
