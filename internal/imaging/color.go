package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/bead-pattern-mcp/internal/colorspace"
	"github.com/ironsheep/bead-pattern-mcp/internal/quantize"
)

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a sampled color in several representations.
//
// RGB and Hex are the raw channels; Composited is the color a bead has to
// reproduce, which is RGB blended over white according to Alpha.
type ColorResult struct {
	Hex        string         `json:"hex"`
	RGB        colorspace.RGB `json:"rgb"`
	Alpha      uint8          `json:"alpha"`
	Composited colorspace.RGB `json:"composited"`
	HSL        HSLColor       `json:"hsl"`
	Lab        colorspace.Lab `json:"lab"`
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate (0-based, 0 = leftmost pixel).
//   - y: Y coordinate (0-based, 0 = topmost pixel).
//
// Returns:
//   - *ColorResult: The color at (x, y) in multiple formats.
//   - error: Non-nil if coordinates are outside the image bounds.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < 0 || x >= bounds.Dx() || y < 0 || y >= bounds.Dy() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, bounds.Dx(), bounds.Dy())
	}

	c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
	return newColorResult(c.R, c.G, c.B, c.A), nil
}

// AverageColor returns the mean color of a region.
//
// Channels are averaged with alpha weighting, so transparent pixels do not
// pull the color toward black. A fully transparent region reports alpha 0
// and black channels.
//
// Parameters:
//   - img: The source image.
//   - r: Region relative to the image's top-left corner.
//
// Returns:
//   - *ColorResult: The averaged color.
//   - error: Non-nil if the region is empty or outside the image.
func AverageColor(img image.Image, r Region) (*ColorResult, error) {
	bounds := img.Bounds()
	if err := r.Validate(bounds.Dx(), bounds.Dy()); err != nil {
		return nil, err
	}

	var sumR, sumG, sumB, sumA float64
	n := 0
	for y := r.Y1; y < r.Y2; y++ {
		for x := r.X1; x < r.X2; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			a := float64(c.A)
			sumR += float64(c.R) * a
			sumG += float64(c.G) * a
			sumB += float64(c.B) * a
			sumA += a
			n++
		}
	}

	if sumA == 0 {
		return newColorResult(0, 0, 0, 0), nil
	}
	return newColorResult(
		colorspace.ClampChannel(sumR/sumA),
		colorspace.ClampChannel(sumG/sumA),
		colorspace.ClampChannel(sumB/sumA),
		colorspace.ClampChannel(sumA/float64(n)),
	), nil
}

func newColorResult(r, g, b, a uint8) *ColorResult {
	rgb := colorspace.RGB{R: r, G: g, B: b}
	composited := quantize.Composite(r, g, b, a)
	return &ColorResult{
		Hex:        rgb.Hex(),
		RGB:        rgb,
		Alpha:      a,
		Composited: composited,
		HSL:        rgbToHSL(rgb),
		Lab:        colorspace.ToLab(composited),
	}
}

// rgbToHSL converts 8-bit RGB to whole-number HSL.
func rgbToHSL(c colorspace.RGB) HSLColor {
	h, s, l := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hsl()
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}
