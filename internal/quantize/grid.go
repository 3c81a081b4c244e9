// Package quantize maps pixel grids onto a bead palette and scores the result.
//
// Quantization is a per-pixel nearest-color classification with no dithering.
// Pixels are independent, so the grid is split into row chunks that run on a
// pool of goroutines and are merged at the end. Callers that need to stop
// part way (timeouts, progress display) drive a Session one chunk at a time.
package quantize

import (
	"errors"
	"fmt"

	"github.com/ironsheep/bead-pattern-mcp/internal/colorspace"
)

// ErrInvalidGrid is returned for grids with non-positive dimensions or a
// pixel buffer of the wrong length.
var ErrInvalidGrid = errors.New("invalid pixel grid")

// Grid is a row-major RGBA image with 4 bytes per pixel and straight
// (non-premultiplied) alpha.
type Grid struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewGrid allocates a fully transparent grid.
func NewGrid(width, height int) (Grid, error) {
	if width <= 0 || height <= 0 {
		return Grid{}, fmt.Errorf("%w: %dx%d", ErrInvalidGrid, width, height)
	}
	return Grid{Width: width, Height: height, Pix: make([]uint8, width*height*4)}, nil
}

// Validate checks the dimensions against the buffer.
func (g Grid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGrid, g.Width, g.Height)
	}
	if len(g.Pix) != g.Width*g.Height*4 {
		return fmt.Errorf("%w: %dx%d needs %d bytes, have %d",
			ErrInvalidGrid, g.Width, g.Height, g.Width*g.Height*4, len(g.Pix))
	}
	return nil
}

// Cells returns Width*Height.
func (g Grid) Cells() int {
	return g.Width * g.Height
}

func (g Grid) offset(x, y int) int {
	return (y*g.Width + x) * 4
}

// RGBA returns the raw channels of the pixel at (x, y).
func (g Grid) RGBA(x, y int) (r, gr, b, a uint8) {
	i := g.offset(x, y)
	return g.Pix[i], g.Pix[i+1], g.Pix[i+2], g.Pix[i+3]
}

// Set stores a pixel.
func (g Grid) Set(x, y int, r, gr, b, a uint8) {
	i := g.offset(x, y)
	g.Pix[i], g.Pix[i+1], g.Pix[i+2], g.Pix[i+3] = r, gr, b, a
}

// Source returns the pixel's color channels ignoring alpha.
func (g Grid) Source(x, y int) colorspace.RGB {
	r, gr, b, _ := g.RGBA(x, y)
	return colorspace.RGB{R: r, G: gr, B: b}
}

// Composited returns the pixel blended over opaque white.
func (g Grid) Composited(x, y int) colorspace.RGB {
	return Composite(g.RGBA(x, y))
}

// Composite blends a straight-alpha pixel over opaque white:
//
//	out = round(clamp(src*a + 255*(1-a), 0, 255))
//
// with a normalized to [0, 1].
func Composite(r, g, b, a uint8) colorspace.RGB {
	if a == 255 {
		return colorspace.RGB{R: r, G: g, B: b}
	}
	alpha := float64(a) / 255
	blend := func(c uint8) uint8 {
		return colorspace.ClampChannel(float64(c)*alpha + 255*(1-alpha))
	}
	return colorspace.RGB{R: blend(r), G: blend(g), B: blend(b)}
}
