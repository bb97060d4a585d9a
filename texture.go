package swrast

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/chewxy/math32"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Texture is an image held in the same packed 32-bit format as the Engine's color buffer, for sampling by fragment stages.
// Row 0 is the top of the image, so a V coordinate of 0 samples the top row, as in glTF.
type Texture struct {
	width, height int
	pix           []uint32
}

// NewTexture creates a Texture of the given size from packed colors (see Color.Pack), row by row from the top.
// The pixel slice is copied. An error wrapping ErrInvalidTexture is returned if the size doesn't match the pixel count.
func NewTexture(width, height int, pix []uint32) (*Texture, error) {

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidTexture, width, height)
	}

	if len(pix) != width*height {
		return nil, fmt.Errorf("%w: %dx%d texture needs %d pixels, got %d", ErrInvalidTexture, width, height, width*height, len(pix))
	}

	tex := &Texture{
		width:  width,
		height: height,
		pix:    make([]uint32, len(pix)),
	}
	copy(tex.pix, pix)

	return tex, nil

}

// NewTextureFromImage creates a Texture from any image.Image.
func NewTextureFromImage(img image.Image) (*Texture, error) {

	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidTexture)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidTexture)
	}

	rgba, ok := img.(*image.NRGBA)
	if !ok || rgba.Bounds().Min != (image.Point{}) {
		rgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	w, h := bounds.Dx(), bounds.Dy()
	pix := make([]uint32, w*h)

	for y := 0; y < h; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			pix[x+w*y] = uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
		}
	}

	return &Texture{width: w, height: h, pix: pix}, nil

}

// LoadTextureData decodes an encoded image (PNG, JPEG, GIF, BMP, TIFF, or WebP) into a Texture.
func LoadTextureData(data []byte) (*Texture, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTexture, err)
	}
	Logger().Debug("decoded texture", "format", format, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return NewTextureFromImage(img)
}

// LoadTexture loads an image file (PNG, JPEG, GIF, BMP, TIFF, or WebP) from disk into a Texture.
func LoadTexture(path string) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tex, err := LoadTextureData(data)
	if err != nil {
		return nil, fmt.Errorf("loading texture %s: %w", path, err)
	}
	return tex, nil
}

// Width returns the width of the Texture in texels.
func (tex *Texture) Width() int {
	return tex.width
}

// Height returns the height of the Texture in texels.
func (tex *Texture) Height() int {
	return tex.height
}

// At returns the packed color at the texel provided, and false if it's outside of the Texture.
func (tex *Texture) At(x, y int) (uint32, bool) {
	if x < 0 || y < 0 || x >= tex.width || y >= tex.height {
		return 0, false
	}
	return tex.pix[x+tex.width*y], true
}

// Sample returns the packed color of the texel nearest to the UV coordinate provided. Coordinates outside of 0-1 wrap around.
func (tex *Texture) Sample(u, v float32) uint32 {

	if !isFinite(u) || !isFinite(v) {
		return tex.pix[0]
	}

	u -= math32.Floor(u)
	v -= math32.Floor(v)

	x := int(u * float32(tex.width))
	y := int(v * float32(tex.height))

	if x >= tex.width {
		x = tex.width - 1
	}
	if y >= tex.height {
		y = tex.height - 1
	}

	return tex.pix[x+tex.width*y]

}

// SampleColor is Sample, returning the unpacked Color.
func (tex *Texture) SampleColor(u, v float32) Color {
	return UnpackColor(tex.Sample(u, v))
}
