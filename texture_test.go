package swrast

import (
	"bytes"
	"image"
	imgcolor "image/color"
	"image/png"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTexture(t *testing.T) {

	_, err := NewTexture(2, 2, []uint32{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidTexture)

	_, err = NewTexture(0, 2, nil)
	assert.ErrorIs(t, err, ErrInvalidTexture)

	pix := []uint32{1, 2, 3, 4}
	tex, err := NewTexture(2, 2, pix)
	require.NoError(t, err)

	pix[0] = 100
	texel, ok := tex.At(0, 0)
	assert.True(t, ok)
	assert.Equal(t, uint32(1), texel)

	_, ok = tex.At(2, 0)
	assert.False(t, ok)

}

func TestTextureSample(t *testing.T) {

	tex, err := NewTexture(2, 2, []uint32{1, 2, 3, 4})
	require.NoError(t, err)

	tests := []struct {
		u, v float32
		want uint32
	}{
		{0.25, 0.25, 1},
		{0.75, 0.25, 2},
		{0.25, 0.75, 3},
		{0.75, 0.75, 4},
		{1, 1, 1},
		{1.25, 0.75, 3},
		{-0.25, -0.25, 4},
		{-3.75, 2.25, 1},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, tex.Sample(test.u, test.v), "sampling %v, %v", test.u, test.v)
	}

	assert.Equal(t, uint32(1), tex.Sample(math32.NaN(), 0.5))
	assert.Equal(t, uint32(1), tex.Sample(0.5, math32.Inf(-1)))

}

func TestTextureFromImage(t *testing.T) {

	img := image.NewRGBA(image.Rect(10, 10, 13, 12))
	img.Set(10, 10, imgcolor.RGBA{255, 0, 0, 255})
	img.Set(12, 11, imgcolor.RGBA{0, 0, 255, 255})

	tex, err := NewTextureFromImage(img)
	require.NoError(t, err)

	assert.Equal(t, 3, tex.Width())
	assert.Equal(t, 2, tex.Height())

	texel, _ := tex.At(0, 0)
	assert.Equal(t, NewColor(1, 0, 0, 1).Pack(), texel)

	texel, _ = tex.At(2, 1)
	assert.Equal(t, NewColor(0, 0, 1, 1).Pack(), texel)

	_, err = NewTextureFromImage(image.NewRGBA(image.Rectangle{}))
	assert.ErrorIs(t, err, ErrInvalidTexture)

}

func TestLoadTextureData(t *testing.T) {

	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, imgcolor.NRGBA{10, 20, 30, 255})
	img.SetNRGBA(1, 0, imgcolor.NRGBA{200, 100, 50, 255})

	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))

	tex, err := LoadTextureData(buf.Bytes())
	require.NoError(t, err)

	texel, _ := tex.At(0, 0)
	assert.Equal(t, uint32(10)|20<<8|30<<16|255<<24, texel)

	texel, _ = tex.At(1, 0)
	assert.Equal(t, uint32(200)|100<<8|50<<16|255<<24, texel)

	_, err = LoadTextureData([]byte("not an image"))
	assert.ErrorIs(t, err, ErrInvalidTexture)

}

func TestEngineTexturedPlane(t *testing.T) {

	// Top half red, bottom half blue.
	tex, err := NewTexture(1, 2, []uint32{testRed.Pack(), testBlue.Pack()})
	require.NoError(t, err)

	engine := newTestEngine(t, 64)
	plane := NewPlane(2, nil)
	plane.SetShader(TextureShader{})
	plane.SetTexture(tex)
	engine.AddNodes(plane)

	require.NoError(t, engine.Render())

	img := engine.Image()
	assert.Equal(t, testRed.ToRGBA(), img.RGBAAt(32, 28))
	assert.Equal(t, testBlue.ToRGBA(), img.RGBAAt(32, 36))

}
