package app

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/muesli/termenv"
	"github.com/solarlune/swrast"
	"github.com/solarlune/swrast/colors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() Config {
	cfg := Default()
	cfg.Output.Width = 48
	cfg.Output.Height = 32
	return cfg
}

func TestNewSceneCube(t *testing.T) {

	scene, err := NewScene(smallConfig())
	require.NoError(t, err)

	require.Len(t, scene.Nodes, 1)
	assert.Equal(t, "Cube", scene.Nodes[0].Name)
	assert.IsType(t, swrast.LambertShader{}, scene.Nodes[0].Shader())

	require.NoError(t, scene.Render())

	background := colors.DarkestGray().Pack()
	drawn := 0
	for _, p := range scene.Engine.ColorBuffer() {
		if p != background {
			drawn++
		}
	}
	assert.Greater(t, drawn, 0)
	assert.Greater(t, scene.Engine.DebugInfo.DrawnTris, 0)

	// The camera starts on the orbit, looking at the cube.
	center, ok := scene.Engine.Pixel(24, 16)
	require.True(t, ok)
	assert.NotEqual(t, background, center)

}

func TestNewSceneSettings(t *testing.T) {

	dir := t.TempDir()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tex.png"), buf.Bytes(), 0o644))

	path := writeConfig(t, dir, `
[model]
texture = "tex.png"
shader = "solid"
color = "orange"

[render]
depth_test = false
backface_culling = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	scene, err := NewScene(cfg)
	require.NoError(t, err)

	assert.False(t, scene.Engine.DepthTest)
	assert.True(t, scene.Engine.PerspectiveCorrect)
	assert.False(t, scene.Nodes[0].BackfaceCulling)
	assert.NotNil(t, scene.Nodes[0].Texture())
	assert.Equal(t, swrast.SolidShader{Color: colors.Orange()}, scene.Nodes[0].Shader())

	cfg.Model.Texture = "missing.png"
	_, err = NewScene(cfg)
	assert.Error(t, err)

}

func TestOrbit(t *testing.T) {

	orbit := NewOrbit(OrbitConfig{Seconds: 4, Ease: "linear"}, 5, 1)

	assert.InDelta(t, math32.Pi/2, orbit.Update(1), 1e-4)
	assert.InDelta(t, math32.Pi, orbit.Update(1), 1e-4)

	// Past the end, it starts over.
	orbit.Update(2.5)
	assert.Less(t, orbit.Angle(), float32(0.01))

	assert.InDelta(t, math32.Pi/2, orbit.Seek(5), 1e-4)
	assert.InDelta(t, 1, orbit.Elapsed(), 1e-6)
	assert.InDelta(t, 3*math32.Pi/2, orbit.Seek(-1), 1e-4)

	camera, err := swrast.NewCamera(60, 1, 0.1, 100, nil, swrast.WorldUp)
	require.NoError(t, err)

	for _, seconds := range []float32{0, 0.7, 1.9, 3.3} {
		orbit.Seek(seconds)
		orbit.Apply(camera)
		pos := camera.WorldPosition()
		assert.InDelta(t, 5, math32.Hypot(pos.X, pos.Z), 1e-4)
		assert.InDelta(t, 1, pos.Y, 1e-4)
		// Always facing the origin.
		center, inFront := camera.WorldToScreenPixels(swrast.Vector3{}, 10, 10)
		assert.True(t, inFront)
		assert.InDelta(t, 5, center.X, 1e-3)
		assert.InDelta(t, 5, center.Y, 1e-3)
	}

	still := NewOrbit(OrbitConfig{Seconds: 0}, 5, 1)
	assert.Equal(t, float32(0), still.Update(10))
	assert.Equal(t, float32(0), still.Seek(3))

}

func TestWritePreview(t *testing.T) {

	img := image.NewRGBA(image.Rect(0, 0, 8, 4))

	out := &strings.Builder{}
	require.NoError(t, WritePreview(out, img, 4, termenv.Ascii))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, strings.Repeat("▀", 4), lines[0])

	out.Reset()
	require.NoError(t, WritePreview(out, img, 8, termenv.TrueColor))
	assert.Contains(t, out.String(), "\x1b[")
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))

}

func TestConfigWatcher(t *testing.T) {

	dir := t.TempDir()
	path := writeConfig(t, dir, "[output]\nwidth = 10\n")

	watcher, err := WatchConfig(path)
	require.NoError(t, err)
	defer watcher.Close()

	writeConfig(t, dir, "[output]\nwidth = 20\n")

	select {
	case cfg := <-watcher.Changes():
		assert.Equal(t, 20, cfg.Output.Width)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after the file changed")
	}

	require.NoError(t, watcher.Close())
	require.NoError(t, watcher.Close())

}
