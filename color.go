package swrast

import (
	imgcolor "image/color"

	"github.com/chewxy/math32"
)

// A Color represents a color, containing R, G, B, and A components, each expected to range from 0 to 1.
type Color struct {
	R, G, B, A float32
}

// NewColor returns a new Color, with the provided R, G, B, and A components expected to range from 0 to 1.
func NewColor(r, g, b, a float32) Color {
	return Color{r, g, b, a}
}

// NewColorFromHex parses a "#RRGGBB" or "#RRGGBBAA" string (the leading '#' is optional). It returns false if the
// string couldn't be parsed.
func NewColorFromHex(hex string) (Color, bool) {

	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}

	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, false
	}

	values := [4]uint8{0, 0, 0, 255}

	for i := 0; i < len(hex)/2; i++ {
		hi, ok1 := hexDigit(hex[i*2])
		lo, ok2 := hexDigit(hex[i*2+1])
		if !ok1 || !ok2 {
			return Color{}, false
		}
		values[i] = hi<<4 | lo
	}

	return NewColor(float32(values[0])/255, float32(values[1])/255, float32(values[2])/255, float32(values[3])/255), true

}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// UnpackColor turns a packed 32-bit color (R in the lowest byte, A in the highest) back into a Color.
func UnpackColor(packed uint32) Color {
	return Color{
		R: float32(packed&0xFF) / 255,
		G: float32((packed>>8)&0xFF) / 255,
		B: float32((packed>>16)&0xFF) / 255,
		A: float32((packed>>24)&0xFF) / 255,
	}
}

// Pack clamps the Color to 0-1 and packs it into a single uint32, with R in bits 0-7, G in bits 8-15, B in
// bits 16-23, and A in bits 24-31. This is the format of the Engine's color buffer.
func (color Color) Pack() uint32 {
	return uint32(channelByte(color.R)) |
		uint32(channelByte(color.G))<<8 |
		uint32(channelByte(color.B))<<16 |
		uint32(channelByte(color.A))<<24
}

func channelByte(v float32) uint8 {
	if v != v || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math32.Round(v * 255))
}

// Mult returns the Color multiplied component-wise by the other Color.
func (color Color) Mult(other Color) Color {
	color.R *= other.R
	color.G *= other.G
	color.B *= other.B
	color.A *= other.A
	return color
}

// Add returns the Color added component-wise to the other Color.
func (color Color) Add(other Color) Color {
	color.R += other.R
	color.G += other.G
	color.B += other.B
	color.A += other.A
	return color
}

// Scale returns the Color with all four components multiplied by the scalar.
func (color Color) Scale(scalar float32) Color {
	color.R *= scalar
	color.G *= scalar
	color.B *= scalar
	color.A *= scalar
	return color
}

// AddRGB adds the value to the R, G, and B components, leaving alpha alone.
func (color Color) AddRGB(value float32) Color {
	color.R += value
	color.G += value
	color.B += value
	return color
}

// ToRGBA converts the Color to a color.RGBA from the image/color package. Alpha is not premultiplied into the channels, so this is only exact for opaque colors.
func (color Color) ToRGBA() imgcolor.RGBA {
	return colorRGBA(color.Pack())
}

func colorRGBA(packed uint32) imgcolor.RGBA {
	return imgcolor.RGBA{
		R: uint8(packed),
		G: uint8(packed >> 8),
		B: uint8(packed >> 16),
		A: uint8(packed >> 24),
	}
}

// ConvertTosRGB returns the Color converted from linear to sRGB space.
func (color Color) ConvertTosRGB() Color {
	color.R = linearToSRGB(color.R)
	color.G = linearToSRGB(color.G)
	color.B = linearToSRGB(color.B)
	return color
}

func linearToSRGB(v float32) float32 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math32.Pow(v, 1/2.4) - 0.055
}
