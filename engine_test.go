package swrast

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testRed   = NewColor(1, 0, 0, 1)
	testBlue  = NewColor(0, 0, 1, 1)
	testBlack = NewColor(0, 0, 0, 1)
)

// passthroughShader treats vertex positions as clip-space positions already, so tests can place vertices in
// normalized device coordinates directly.
func passthroughShader(color Color) Shader {
	return ShaderFuncs{
		Vertex: func(vertex Vertex, uniforms Uniforms) Interpolant {
			return Interpolant{Position: vertex.Position, Color: vertex.Color, UV: vertex.UV}
		},
		Fragment: func(in Interpolant, texture *Texture, uniforms Uniforms) uint32 {
			return color.Pack()
		},
	}
}

// pixelVertex returns a vertex that lands on the pixel position given in a buffer of the given size.
func pixelVertex(x, y, z float32, size float32) Vertex {
	return Vertex{
		Position: NewPoint(x/(size/2)-1, y/(size/2)-1, z),
		Color:    NewColor(1, 1, 1, 1),
	}
}

func newTestEngine(t testing.TB, size int) *Engine {
	camera, err := NewCamera(60, 1, 0.1, 100, nil, WorldUp)
	require.NoError(t, err)
	camera.Transform().SetPosition(0, 0, 5)
	engine, err := NewEngine(size, size, camera, testBlack)
	require.NoError(t, err)
	return engine
}

func newPixelTriangle(t testing.TB, size float32, color Color, points ...[2]float32) *Node {
	verts := []Vertex{}
	for _, p := range points {
		verts = append(verts, pixelVertex(p[0], p[1], 0, size))
	}
	node, err := NewNode(verts, []int{0, 1, 2}, nil)
	require.NoError(t, err)
	node.SetShader(passthroughShader(color))
	return node
}

func countPixels(engine *Engine, color Color) int {
	count := 0
	packed := color.Pack()
	for _, p := range engine.ColorBuffer() {
		if p == packed {
			count++
		}
	}
	return count
}

func TestNewEngineValidation(t *testing.T) {

	camera, err := NewCamera(60, 1, 0.1, 100, nil, WorldUp)
	require.NoError(t, err)

	_, err = NewEngine(0, 10, camera, testBlack)
	assert.ErrorIs(t, err, ErrInvalidEngine)

	_, err = NewEngine(10, -1, camera, testBlack)
	assert.ErrorIs(t, err, ErrInvalidEngine)

	_, err = NewEngine(10, 10, nil, testBlack)
	assert.ErrorIs(t, err, ErrInvalidEngine)

	engine, err := NewEngine(10, 10, camera, testBlack)
	require.NoError(t, err)
	assert.Len(t, engine.ColorBuffer(), 100)
	assert.True(t, engine.DepthTest)
	assert.Equal(t, StateIdle, engine.State())
	assert.ErrorIs(t, engine.SetCamera(nil), ErrInvalidEngine)

}

func TestEngineEndToEndTriangle(t *testing.T) {

	engine := newTestEngine(t, 100)
	// Listed counter-clockwise, (50, 10) -> (90, 90) -> (10, 90), so the triangle faces the camera. The same
	// corners in the opposite order are culled; see TestEngineBackfaceCulling.
	engine.AddNodes(newPixelTriangle(t, 100, testRed, [2]float32{50, 10}, [2]float32{90, 90}, [2]float32{10, 90}))

	require.NoError(t, engine.Render())

	count := countPixels(engine, testRed)
	assert.InDelta(t, 3200, count, 300)
	assert.Equal(t, 100*100, count+countPixels(engine, testBlack))
	assert.Equal(t, count, engine.DebugInfo.Fragments)
	assert.Equal(t, 1, engine.DebugInfo.DrawnTris)

	p, ok := engine.Pixel(50, 50)
	assert.True(t, ok)
	assert.Equal(t, testRed.Pack(), p)

	p, _ = engine.Pixel(5, 5)
	assert.Equal(t, testBlack.Pack(), p)

	// Each row is one unbroken span, and the covered rows are contiguous.
	firstRow, lastRow := -1, -1
	for y := 0; y < 100; y++ {
		spans := 0
		inside := false
		for x := 0; x < 100; x++ {
			p, _ := engine.Pixel(x, y)
			if p == testRed.Pack() && !inside {
				spans++
			}
			inside = p == testRed.Pack()
		}
		assert.LessOrEqual(t, spans, 1, "row %d", y)
		if spans > 0 {
			if firstRow < 0 {
				firstRow = y
			}
			assert.True(t, lastRow < 0 || lastRow == y-1, "row %d is not connected", y)
			lastRow = y
		}
	}
	assert.Equal(t, 10, firstRow)
	assert.Equal(t, 90, lastRow)

}

func TestEngineBackfaceCulling(t *testing.T) {

	engine := newTestEngine(t, 100)

	// Clockwise on screen, so it faces away from the camera.
	back := newPixelTriangle(t, 100, testRed, [2]float32{50, 10}, [2]float32{10, 90}, [2]float32{90, 90})
	engine.AddNodes(back)

	require.NoError(t, engine.Render())
	assert.Equal(t, 0, countPixels(engine, testRed))
	assert.Equal(t, 1, engine.DebugInfo.CulledTris)

	back.BackfaceCulling = false
	require.NoError(t, engine.Render())
	assert.InDelta(t, 3200, countPixels(engine, testRed), 300)
	assert.Equal(t, 0, engine.DebugInfo.CulledTris)

}

func TestEngineBackfaceCullingWorldSpace(t *testing.T) {

	engine := newTestEngine(t, 64)

	plane := NewPlane(2, nil)
	plane.SetShader(SolidShader{Color: testRed})
	engine.AddNodes(plane)

	require.NoError(t, engine.Render())
	assert.Greater(t, countPixels(engine, testRed), 0)
	assert.Equal(t, 0, engine.DebugInfo.CulledTris)

	// Turned around, it faces away.
	plane.Transform().Rotate(0, 1, 0, math32.Pi)
	require.NoError(t, engine.Render())
	assert.Equal(t, 0, countPixels(engine, testRed))
	assert.Equal(t, 2, engine.DebugInfo.CulledTris)

	// The camera moving behind it brings it back.
	engine.Camera().Transform().SetPosition(0, 0, -5)
	engine.Camera().LookAt(Vector3{})
	require.NoError(t, engine.Render())
	assert.Greater(t, countPixels(engine, testRed), 0)

}

func TestEngineCube(t *testing.T) {

	engine := newTestEngine(t, 64)

	cube := NewCube(2, nil)
	cube.SetShader(SolidShader{Color: testBlue})
	engine.AddNodes(cube)

	require.NoError(t, engine.Render())

	assert.Equal(t, 12, engine.DebugInfo.TotalTris)
	assert.Equal(t, 10, engine.DebugInfo.CulledTris)
	assert.Equal(t, 2, engine.DebugInfo.DrawnTris)

	p, _ := engine.Pixel(32, 32)
	assert.Equal(t, testBlue.Pack(), p)

	// From a corner, three faces are visible.
	engine.Camera().Transform().SetPosition(4, 4, 4)
	engine.Camera().LookAt(Vector3{})
	require.NoError(t, engine.Render())
	assert.Equal(t, 6, engine.DebugInfo.DrawnTris)

	engine.PerspectiveCorrect = true
	require.NoError(t, engine.Render())
	p, _ = engine.Pixel(32, 32)
	assert.Equal(t, testBlue.Pack(), p)

}

func TestEngineBoundsSafety(t *testing.T) {

	engine := newTestEngine(t, 32)

	huge := newPixelTriangle(t, 32, testRed, [2]float32{-5000, -5000}, [2]float32{6000, -4000}, [2]float32{100, 9000})
	engine.AddNodes(huge)

	require.NotPanics(t, func() { require.NoError(t, engine.Render()) })
	assert.Equal(t, 32*32, countPixels(engine, testRed))
	assert.Len(t, engine.ColorBuffer(), 32*32)

	// Entirely off-screen.
	engine.ClearNodes()
	engine.AddNodes(newPixelTriangle(t, 32, testRed, [2]float32{100, 100}, [2]float32{200, 100}, [2]float32{150, 200}))
	require.NoError(t, engine.Render())
	assert.Equal(t, 0, countPixels(engine, testRed))
	assert.Equal(t, 1, engine.DebugInfo.ClippedTris)

	// Beyond the guard band.
	engine.ClearNodes()
	engine.AddNodes(newPixelTriangle(t, 32, testRed, [2]float32{-1e7, 0}, [2]float32{1e7, 0}, [2]float32{0, 1e7}))
	require.NoError(t, engine.Render())
	assert.Equal(t, 0, countPixels(engine, testRed))
	assert.Equal(t, 1, engine.DebugInfo.ClippedTris)

	_, ok := engine.Pixel(32, 0)
	assert.False(t, ok)
	_, ok = engine.Depth(-1, 0)
	assert.False(t, ok)

}

func TestEngineBehindCamera(t *testing.T) {

	engine := newTestEngine(t, 32)

	node, err := NewNode([]Vertex{
		{Position: Vector4{0, 0, 0, 1}},
		{Position: Vector4{1, 0, 0, -1}},
		{Position: Vector4{0, 1, 0, 1}},
	}, []int{0, 1, 2}, nil)
	require.NoError(t, err)
	node.BackfaceCulling = false
	node.SetShader(passthroughShader(testRed))
	engine.AddNodes(node)

	require.NoError(t, engine.Render())
	assert.Equal(t, 0, countPixels(engine, testRed))
	assert.Equal(t, 1, engine.DebugInfo.ClippedTris)

}

func TestEngineDegenerateTriangle(t *testing.T) {

	engine := newTestEngine(t, 100)

	line := newPixelTriangle(t, 100, testRed, [2]float32{0, 0}, [2]float32{5, 0}, [2]float32{10, 0})
	line.BackfaceCulling = false
	engine.AddNodes(line)

	require.NotPanics(t, func() { require.NoError(t, engine.Render()) })
	assert.Equal(t, 0, countPixels(engine, testRed))
	assert.Equal(t, 1, engine.DebugInfo.DegenerateTris)

	// With culling on, a triangle without a normal is culled before it gets that far.
	line.BackfaceCulling = true
	require.NoError(t, engine.Render())
	assert.Equal(t, 0, countPixels(engine, testRed))
	assert.Equal(t, 1, engine.DebugInfo.CulledTris)

}

func TestEngineClearIdempotence(t *testing.T) {

	engine := newTestEngine(t, 16)
	engine.SetBackground(testBlue)
	engine.AddNodes(newPixelTriangle(t, 16, testRed, [2]float32{0, 0}, [2]float32{16, 0}, [2]float32{0, 16}))
	require.NoError(t, engine.Render())
	require.Greater(t, countPixels(engine, testRed), 0)

	engine.Clear()
	once := engine.ColorBuffer()
	engine.Clear()
	twice := engine.ColorBuffer()

	assert.Equal(t, once, twice)
	for _, p := range twice {
		assert.Equal(t, testBlue.Pack(), p)
	}
	for _, d := range engine.DepthBuffer() {
		assert.Equal(t, float32(math32.MaxFloat32), d)
	}

}

func TestEngineDepthTest(t *testing.T) {

	engine := newTestEngine(t, 32)

	near := newPixelTriangle(t, 32, testRed, [2]float32{0, 0}, [2]float32{32, 0}, [2]float32{0, 32})
	far, err := NewNode([]Vertex{
		pixelVertex(0, 0, 0.5, 32),
		pixelVertex(32, 0, 0.5, 32),
		pixelVertex(0, 32, 0.5, 32),
	}, []int{0, 1, 2}, nil)
	require.NoError(t, err)
	far.SetShader(passthroughShader(testBlue))

	// The far triangle is drawn last, but the near one stays in front.
	engine.AddNodes(near, far)
	require.NoError(t, engine.Render())

	p, _ := engine.Pixel(4, 4)
	assert.Equal(t, testRed.Pack(), p)
	d, _ := engine.Depth(4, 4)
	assert.InDelta(t, 0, d, 1e-6)
	assert.Greater(t, engine.DebugInfo.DepthRejected, 0)

	// Without depth testing, draw order decides.
	engine.DepthTest = false
	require.NoError(t, engine.Render())
	p, _ = engine.Pixel(4, 4)
	assert.Equal(t, testBlue.Pack(), p)

	// Fragments beyond the far plane are rejected.
	engine.DepthTest = true
	engine.ClearNodes()
	beyond, err := NewNode([]Vertex{
		pixelVertex(0, 0, 1.5, 32),
		pixelVertex(32, 0, 1.5, 32),
		pixelVertex(0, 32, 1.5, 32),
	}, []int{0, 1, 2}, nil)
	require.NoError(t, err)
	beyond.SetShader(passthroughShader(testBlue))
	engine.AddNodes(beyond)
	require.NoError(t, engine.Render())
	assert.Equal(t, 0, countPixels(engine, testBlue))

}

func TestEngineInterpolation(t *testing.T) {

	engine := newTestEngine(t, 64)

	verts := []Vertex{
		pixelVertex(0, 0, 0, 64),
		pixelVertex(64, 0, 0, 64),
		pixelVertex(0, 64, 0, 64),
	}
	verts[0].Color = NewColor(1, 0, 0, 1)
	verts[1].Color = NewColor(0, 1, 0, 1)
	verts[2].Color = NewColor(0, 0, 1, 1)

	node, err := NewNode(verts, []int{0, 1, 2}, nil)
	require.NoError(t, err)
	node.SetVertexStage(func(vertex Vertex, uniforms Uniforms) Interpolant {
		return Interpolant{Position: vertex.Position, Color: vertex.Color}
	})
	engine.AddNodes(node)

	require.NoError(t, engine.Render())

	// Near each corner, that corner's color dominates.
	corner := UnpackColor(first(engine.Pixel(1, 1)))
	assert.Greater(t, corner.R, float32(0.9))

	corner = UnpackColor(first(engine.Pixel(60, 1)))
	assert.Greater(t, corner.G, float32(0.9))

	corner = UnpackColor(first(engine.Pixel(1, 60)))
	assert.Greater(t, corner.B, float32(0.9))

	middle := UnpackColor(first(engine.Pixel(21, 21)))
	assert.InDelta(t, 1.0/3, middle.R, 0.05)
	assert.InDelta(t, 1.0/3, middle.G, 0.05)
	assert.InDelta(t, 1.0/3, middle.B, 0.05)

	// With W = 1 everywhere, perspective-correct interpolation changes nothing.
	affine := engine.ColorBuffer()
	engine.PerspectiveCorrect = true
	require.NoError(t, engine.Render())
	for i, p := range engine.ColorBuffer() {
		a, b := UnpackColor(affine[i]), UnpackColor(p)
		assert.InDelta(t, a.R, b.R, 1.5/255)
		assert.InDelta(t, a.G, b.G, 1.5/255)
		assert.InDelta(t, a.B, b.B, 1.5/255)
	}

}

func TestEngineScreenSnapping(t *testing.T) {

	engine := newTestEngine(t, 100)

	// Vertices placed on pixel corners land in that pixel, whatever rounding the perspective divide introduces.
	for i := 0; i <= 100; i++ {
		for _, w := range []float32{1, 3, 7} {
			v := pixelVertex(float32(i), float32(i), 0, 100)
			sv, ok := engine.toScreen(Interpolant{Position: v.Position.Scale(w)})
			require.True(t, ok)
			assert.Equal(t, i, sv.px, "x = %d, w = %v", i, w)
			assert.Equal(t, i, sv.py, "y = %d, w = %v", i, w)
		}
	}

	sv, ok := engine.toScreen(Interpolant{Position: Vector4{X: -0.8 + 1e-7, Y: -0.8, W: 1}})
	require.True(t, ok)
	assert.Equal(t, float32(10), sv.pos.X)
	assert.Equal(t, float32(10), sv.pos.Y)

}

func TestEnginePerspectiveCorrectInterpolation(t *testing.T) {

	engine := newTestEngine(t, 64)

	// The same screen triangle as in TestEngineInterpolation, but with the middle vertex four times further away.
	clipW := []float32{1, 4, 1}
	verts := []Vertex{
		pixelVertex(0, 0, 0, 64),
		pixelVertex(64, 0, 0, 64),
		pixelVertex(0, 64, 0, 64),
	}
	for i := range verts {
		verts[i].Position = verts[i].Position.Scale(clipW[i])
	}
	verts[1].UV = Vector2{1, 0}

	node, err := NewNode(verts, []int{0, 1, 2}, nil)
	require.NoError(t, err)
	node.BackfaceCulling = false
	node.SetShader(ShaderFuncs{
		Vertex: func(vertex Vertex, uniforms Uniforms) Interpolant {
			return Interpolant{Position: vertex.Position, UV: vertex.UV}
		},
		Fragment: func(in Interpolant, texture *Texture, uniforms Uniforms) uint32 {
			return NewColor(in.UV.X, 0, 0, 1).Pack()
		},
	})
	engine.AddNodes(node)

	// Screen-space weights at the center of pixel (31, 10).
	w1 := float32(31.5) / 64
	w2 := float32(10.5) / 64
	w0 := 1 - w1 - w2

	affine := w1
	correct := (w1 / clipW[1]) / (w0/clipW[0] + w1/clipW[1] + w2/clipW[2])

	require.NoError(t, engine.Render())
	p := UnpackColor(first(engine.Pixel(31, 10)))
	assert.InDelta(t, affine, p.R, 1.5/255)

	engine.PerspectiveCorrect = true
	require.NoError(t, engine.Render())
	p = UnpackColor(first(engine.Pixel(31, 10)))
	assert.InDelta(t, correct, p.R, 1.5/255)
	assert.Greater(t, math32.Abs(affine-p.R), float32(0.2))

}

func TestEngineZeroNode(t *testing.T) {

	engine := newTestEngine(t, 16)

	node := &Node{Visible: true}
	engine.AddNodes(node)
	require.NoError(t, engine.Render())
	assert.Equal(t, 0, engine.DebugInfo.TotalTris)

	assert.True(t, node.Transform().Model().IsIdentity())
	assert.Equal(t, DefaultShader, node.Shader())

	other := &Node{}
	other.SetFragmentStage(func(in Interpolant, texture *Texture, uniforms Uniforms) uint32 { return 0 })
	assert.NotNil(t, other.Shader())

}

func first[T any](value T, _ bool) T {
	return value
}

func TestEngineRenderInProgress(t *testing.T) {

	engine := newTestEngine(t, 16)

	var nestedErr error
	var nestedState EngineState

	node := newPixelTriangle(t, 16, testRed, [2]float32{0, 0}, [2]float32{16, 0}, [2]float32{0, 16})
	node.SetFragmentStage(func(in Interpolant, texture *Texture, uniforms Uniforms) uint32 {
		if nestedErr == nil {
			nestedState = engine.State()
			nestedErr = engine.Render()
		}
		return testRed.Pack()
	})
	engine.AddNodes(node)

	require.NoError(t, engine.Render())
	assert.True(t, errors.Is(nestedErr, ErrRenderInProgress))
	assert.Equal(t, StateRendering, nestedState)
	assert.Equal(t, StateIdle, engine.State())
	assert.Greater(t, countPixels(engine, testRed), 0)

}

func TestEngineNodes(t *testing.T) {

	engine := newTestEngine(t, 16)

	a := NewPlane(1, nil)
	b := NewCube(1, nil)
	c := NewPlane(1, nil)

	engine.AddNodes(a, b, nil, c)
	assert.Equal(t, []*Node{a, b, c}, engine.Nodes())

	engine.RemoveNodes(b)
	assert.Equal(t, []*Node{a, c}, engine.Nodes())

	nodes := engine.Nodes()
	nodes[0] = nil
	assert.Equal(t, []*Node{a, c}, engine.Nodes())

	engine.ClearNodes()
	assert.Empty(t, engine.Nodes())

	// Invisible nodes aren't counted at all.
	a.Visible = false
	engine.AddNodes(a)
	require.NoError(t, engine.Render())
	assert.Equal(t, 0, engine.DebugInfo.TotalTris)

}

func TestEngineImageIsUpright(t *testing.T) {

	engine := newTestEngine(t, 100)
	// Only covers the top half of the view.
	engine.AddNodes(newPixelTriangle(t, 100, testRed, [2]float32{0, 60}, [2]float32{100, 60}, [2]float32{50, 100}))
	require.NoError(t, engine.Render())

	img := engine.Image()
	assert.Equal(t, 100, img.Bounds().Dx())

	top := img.RGBAAt(50, 10)
	bottom := img.RGBAAt(50, 90)

	assert.Equal(t, testRed.ToRGBA(), top)
	assert.Equal(t, testBlack.ToRGBA(), bottom)

}

func TestEngineDrawLine(t *testing.T) {

	engine := newTestEngine(t, 10)

	require.NotPanics(t, func() { engine.DrawLine(-20, -20, 30, 30, testRed) })

	for i := 0; i < 10; i++ {
		p, _ := engine.Pixel(i, i)
		assert.Equal(t, testRed.Pack(), p)
	}
	assert.Equal(t, 10, countPixels(engine, testRed))

}

func BenchmarkEngineRenderCube(b *testing.B) {

	engine := newTestEngine(b, 256)
	cube := NewCube(2, nil)
	cube.SetShader(LambertShader{LightDirection: Vector3{-1, -1, -1}, Ambient: 0.2})
	engine.AddNodes(cube)
	engine.Camera().Transform().SetPosition(3, 3, 3)
	engine.Camera().LookAt(Vector3{})

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := engine.Render(); err != nil {
			b.Fatal(err)
		}
	}

}
