package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/bead-pattern-mcp/internal/quantize"
)

// ResizeMode selects how a source image is scaled to the bead grid.
type ResizeMode string

const (
	// ResizeFit keeps the aspect ratio inside the target box. The shorter
	// side is floored, so a 300x200 image fit to 50x50 becomes 50x33.
	ResizeFit ResizeMode = "fit"

	// ResizeStretch scales to exactly the target size.
	ResizeStretch ResizeMode = "stretch"

	// ResizeFill scales to cover the target and crops the overflow around
	// the center.
	ResizeFill ResizeMode = "fill"
)

// ErrTooManyCells is returned when the target grid exceeds PrepareOptions.MaxCells.
var ErrTooManyCells = errors.New("bead grid exceeds the cell limit")

// PrepareOptions describe how a photo becomes a bead-sized pixel grid.
type PrepareOptions struct {
	// Width and Height are the target bead grid. In fit mode either may be
	// zero to derive it from the aspect ratio; both zero keeps the source size.
	Width  int
	Height int
	Mode   ResizeMode

	// Crop is applied to the source before any filter.
	Crop *Region

	Denoise    bool // 3x3 median
	Brightness int  // -100..100
	Contrast   int  // -100..100
	Saturation int  // -100..100
	Sharpen    bool

	LineArt          bool
	LineArtThreshold float64 // <= 0 uses DefaultLineArtThreshold

	// MaxColors reduces the resized image to at most this many colors with a
	// median-cut palette. Zero keeps every color. Reduction flattens
	// transparency onto white.
	MaxColors int

	// MaxCells bounds Width*Height of the result. Zero means no limit.
	MaxCells int
}

// Validate checks the option ranges.
func (o PrepareOptions) Validate() error {
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("target size must not be negative, got %dx%d", o.Width, o.Height)
	}
	switch o.Mode {
	case "", ResizeFit:
	case ResizeStretch, ResizeFill:
		if o.Width == 0 || o.Height == 0 {
			return fmt.Errorf("%s mode needs both width and height", o.Mode)
		}
	default:
		return fmt.Errorf("unknown resize mode: %s", o.Mode)
	}
	for _, adj := range []struct {
		name  string
		value int
	}{{"brightness", o.Brightness}, {"contrast", o.Contrast}, {"saturation", o.Saturation}} {
		if adj.value < -100 || adj.value > 100 {
			return fmt.Errorf("%s must be between -100 and 100, got %d", adj.name, adj.value)
		}
	}
	if o.MaxCells < 0 {
		return fmt.Errorf("max cells must not be negative, got %d", o.MaxCells)
	}
	if o.MaxColors != 0 && (o.MaxColors < 2 || o.MaxColors > MaxReducedColors) {
		return fmt.Errorf("max colors must be between 2 and %d, got %d", MaxReducedColors, o.MaxColors)
	}
	return nil
}

// TargetSize computes the output size for a srcW x srcH image.
func (o PrepareOptions) TargetSize(srcW, srcH int) (int, int) {
	if o.Width == 0 && o.Height == 0 {
		return srcW, srcH
	}
	if o.Mode == ResizeStretch || o.Mode == ResizeFill {
		return o.Width, o.Height
	}

	ratio := float64(srcW) / float64(srcH)
	w, h := o.Width, o.Height
	switch {
	case w == 0:
		w = int(math.Floor(float64(h) * ratio))
	case h == 0:
		h = int(math.Floor(float64(w) / ratio))
	case ratio > float64(w)/float64(h):
		h = int(math.Floor(float64(w) / ratio))
	default:
		w = int(math.Floor(float64(h) * ratio))
	}
	return max(w, 1), max(h, 1)
}

// Prepare runs the preprocessing pipeline and returns an image of the target size.
//
// The stages run in this order, each optional except the resize:
//
//  1. Crop to Region
//  2. Denoise with a 3x3 median filter
//  3. Brightness, contrast and saturation (each -100..100, scaled to bild's -1..1)
//  4. Sharpen
//  5. Line art (black outlines on white)
//  6. Resize with a Lanczos filter
//  7. Median-cut color reduction
//
// Parameters:
//   - img: Source image. Alpha is preserved through every stage.
//   - opts: Pipeline options; see PrepareOptions.
//
// Returns:
//   - *image.NRGBA: The prepared image with bounds starting at (0,0).
//   - error: Non-nil for invalid options, a bad crop region or a target
//     size above MaxCells (wraps ErrTooManyCells).
func Prepare(img image.Image, opts PrepareOptions) (*image.NRGBA, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var work image.Image = img
	if opts.Crop != nil {
		cropped, err := Crop(work, *opts.Crop)
		if err != nil {
			return nil, err
		}
		work = cropped
	}

	bounds := work.Bounds()
	w, h := opts.TargetSize(bounds.Dx(), bounds.Dy())
	if opts.MaxCells > 0 && w*h > opts.MaxCells {
		return nil, fmt.Errorf("%w: %dx%d is %d cells, limit is %d", ErrTooManyCells, w, h, w*h, opts.MaxCells)
	}

	if opts.Denoise {
		work = effect.Median(work, 1)
	}
	if opts.Brightness != 0 {
		work = adjust.Brightness(work, float64(opts.Brightness)/100)
	}
	if opts.Contrast != 0 {
		work = adjust.Contrast(work, float64(opts.Contrast)/100)
	}
	if opts.Saturation != 0 {
		work = adjust.Saturation(work, float64(opts.Saturation)/100)
	}
	if opts.Sharpen {
		work = effect.Sharpen(work)
	}
	if opts.LineArt {
		work = LineArt(work, opts.LineArtThreshold, false)
	}

	var out *image.NRGBA
	b := work.Bounds()
	switch {
	case b.Dx() == w && b.Dy() == h:
		out = toNRGBA(work)
	case opts.Mode == ResizeFill:
		out = imaging.Fill(work, w, h, imaging.Center, imaging.Lanczos)
	default:
		out = imaging.Resize(work, w, h, imaging.Lanczos)
	}

	if opts.MaxColors > 0 {
		out = ReduceColors(out, opts.MaxColors)
	}
	return out, nil
}

// toNRGBA copies img into a straight-alpha image at the origin.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// GridFromImage copies an image into a quantization grid.
//
// Pixels are stored with straight alpha, so a half-transparent red stays
// (255,0,0,128) and is blended over white only when quantized.
func GridFromImage(img image.Image) (quantize.Grid, error) {
	b := img.Bounds()
	g, err := quantize.NewGrid(b.Dx(), b.Dy())
	if err != nil {
		return quantize.Grid{}, err
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			g.Set(x, y, c.R, c.G, c.B, c.A)
		}
	}
	return g, nil
}
