// Package colors provides named swrast.Color values (White(), Blue(), Green(), and so on), plus a lookup by name
// for configuration files.
package colors

import (
	"strings"

	"github.com/solarlune/swrast"
)

// Transparent returns fully transparent black.
func Transparent() swrast.Color { return swrast.NewColor(0, 0, 0, 0) }

// White returns opaque white.
func White() swrast.Color { return swrast.NewColor(1, 1, 1, 1) }

// Black returns opaque black.
func Black() swrast.Color { return swrast.NewColor(0, 0, 0, 1) }

func Gray() swrast.Color        { return swrast.NewColor(0.5, 0.5, 0.5, 1) }
func LightGray() swrast.Color   { return swrast.NewColor(0.8, 0.8, 0.8, 1) }
func DarkGray() swrast.Color    { return swrast.NewColor(0.2, 0.2, 0.2, 1) }
func DarkestGray() swrast.Color { return swrast.NewColor(0.05, 0.05, 0.05, 1) }
func Red() swrast.Color         { return swrast.NewColor(1, 0, 0, 1) }
func PaleRed() swrast.Color     { return swrast.NewColor(0.678, 0.172, 0.384, 1) }
func Orange() swrast.Color      { return swrast.NewColor(1, 0.5, 0, 1) }
func Yellow() swrast.Color      { return swrast.NewColor(1, 1, 0, 1) }
func Green() swrast.Color       { return swrast.NewColor(0, 1, 0, 1) }
func SkyBlue() swrast.Color     { return swrast.NewColor(0, 0.5, 1, 1) }
func Turquoise() swrast.Color   { return swrast.NewColor(0, 1, 1, 1) }
func Blue() swrast.Color        { return swrast.NewColor(0, 0, 1, 1) }
func Pink() swrast.Color        { return swrast.NewColor(1, 0, 1, 1) }
func Purple() swrast.Color      { return swrast.NewColor(0.5, 0, 1, 1) }

var byName = map[string]func() swrast.Color{
	"transparent": Transparent,
	"white":       White,
	"black":       Black,
	"gray":        Gray,
	"lightgray":   LightGray,
	"darkgray":    DarkGray,
	"darkestgray": DarkestGray,
	"red":         Red,
	"palered":     PaleRed,
	"orange":      Orange,
	"yellow":      Yellow,
	"green":       Green,
	"skyblue":     SkyBlue,
	"turquoise":   Turquoise,
	"blue":        Blue,
	"pink":        Pink,
	"purple":      Purple,
}

// Parse returns the color for a name like "SkyBlue" or "sky_blue" (case and underscores are ignored), or for a
// hex string like "#336699" or "#336699ff".
func Parse(value string) (swrast.Color, bool) {

	if strings.HasPrefix(value, "#") {
		return swrast.NewColorFromHex(value)
	}

	key := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(value, "_", ""), " ", ""))
	if fn, ok := byName[key]; ok {
		return fn(), true
	}

	return swrast.NewColorFromHex(value)

}
