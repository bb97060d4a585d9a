package app

import (
	"bufio"
	"image"
	"io"

	"github.com/muesli/termenv"
)

// WritePreview draws the image to a terminal as rows of half-block characters, each showing two pixels: the upper
// one as the foreground color, the lower one as the background. The image is scaled to the given number of columns
// with nearest-neighbor sampling. The profile decides which escape sequences are used; termenv.Ascii writes the
// characters alone.
func WritePreview(w io.Writer, img image.Image, columns int, profile termenv.Profile) error {

	bounds := img.Bounds()
	if bounds.Empty() || columns <= 0 {
		return nil
	}

	if columns > bounds.Dx() {
		columns = bounds.Dx()
	}

	// Terminal cells are about twice as tall as they are wide, and each cell holds two pixel rows.
	rows := (bounds.Dy()*columns/bounds.Dx() + 1) / 2
	if rows < 1 {
		rows = 1
	}

	buf := bufio.NewWriter(w)
	out := termenv.NewOutput(buf, termenv.WithProfile(profile))

	sample := func(column, row int) termenv.Color {
		x := bounds.Min.X + column*bounds.Dx()/columns
		y := bounds.Min.Y + row*bounds.Dy()/(rows*2)
		return profile.FromColor(img.At(x, y))
	}

	for row := 0; row < rows; row++ {

		for column := 0; column < columns; column++ {
			cell := out.String("▀").Foreground(sample(column, row*2)).Background(sample(column, row*2+1))
			if _, err := buf.WriteString(cell.String()); err != nil {
				return err
			}
		}

		if _, err := buf.WriteString("\n"); err != nil {
			return err
		}

	}

	return buf.Flush()

}
