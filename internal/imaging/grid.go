package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/bead-pattern-mcp/internal/quantize"
)

// PreviewStyle selects how a single bead is drawn.
type PreviewStyle string

const (
	StyleSquare PreviewStyle = "square"
	StyleCircle PreviewStyle = "circle"
)

// Preview limits and defaults.
const (
	DefaultCellSize = 12
	MaxCellSize     = 64

	// minLabelCell is the smallest cell that fits a three-glyph ID label.
	minLabelCell = 14
)

var (
	previewBackground = color.RGBA{245, 245, 245, 255}
	gridLineColor     = color.RGBA{224, 224, 224, 255}
	majorLineColor    = color.RGBA{128, 128, 128, 255}
)

// PreviewOptions control RenderPattern.
type PreviewOptions struct {
	// CellSize is the edge of one bead in pixels. Zero uses DefaultCellSize.
	CellSize int
	Style    PreviewStyle

	ShowGrid bool

	// MajorEvery draws a darker line every N cells, as on a pegboard.
	// Zero disables major lines.
	MajorEvery int

	// ShowIDs labels every bead with its palette ID. Ignored for cells
	// smaller than 14 pixels.
	ShowIDs bool

	// ShowCoordinates labels major line intersections with "x,y" cell
	// coordinates. Requires MajorEvery > 0.
	ShowCoordinates bool
}

// Validate checks the option ranges.
func (o PreviewOptions) Validate() error {
	if o.CellSize < 0 || o.CellSize > MaxCellSize {
		return fmt.Errorf("cell size must be between 1 and %d, got %d", MaxCellSize, o.CellSize)
	}
	switch o.Style {
	case "", StyleSquare, StyleCircle:
	default:
		return fmt.Errorf("unknown preview style: %s", o.Style)
	}
	if o.MajorEvery < 0 {
		return fmt.Errorf("major line interval must not be negative, got %d", o.MajorEvery)
	}
	return nil
}

// PreviewResult contains a rendered pattern encoded as base64 PNG.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	CellSize    int    `json:"cell_size"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RenderPattern draws a quantized grid as a bead board.
//
// Parameters:
//   - res: A quantization result; its Palette resolves the bead colors.
//   - opts: Rendering options; see PreviewOptions.
//
// Returns:
//   - *image.RGBA: Width*CellSize x Height*CellSize pixels, plus one pixel
//     in each direction for the closing grid line when ShowGrid is set.
//   - error: Non-nil for invalid options or an empty result.
func RenderPattern(res *quantize.Result, opts PreviewOptions) (*image.RGBA, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if res == nil || res.Palette == nil || res.Width <= 0 || res.Height <= 0 {
		return nil, fmt.Errorf("nothing to render")
	}
	cell := opts.CellSize
	if cell == 0 {
		cell = DefaultCellSize
	}

	width := res.Width * cell
	height := res.Height * cell
	if opts.ShowGrid {
		width++
		height++
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fillRect(img, img.Bounds(), previewBackground)

	for y := 0; y < res.Height; y++ {
		for x := 0; x < res.Width; x++ {
			bead := res.ColorAt(x, y)
			c := color.RGBA{bead.RGB.R, bead.RGB.G, bead.RGB.B, 255}
			r := image.Rect(x*cell, y*cell, (x+1)*cell, (y+1)*cell)
			if opts.Style == StyleCircle {
				drawBead(img, r, c)
			} else {
				fillRect(img, r, c)
			}
		}
	}

	if opts.ShowGrid {
		drawGridLines(img, res.Width, res.Height, cell, opts.MajorEvery)
	}

	if opts.ShowIDs && cell >= minLabelCell {
		for y := 0; y < res.Height; y++ {
			for x := 0; x < res.Width; x++ {
				bead := res.ColorAt(x, y)
				fg := contrastColor(bead.RGB.R, bead.RGB.G, bead.RGB.B)
				bg := color.RGBA{bead.RGB.R, bead.RGB.G, bead.RGB.B, 255}
				lx := x*cell + (cell-labelWidth(bead.ID))/2
				ly := y*cell + (cell-5)/2
				drawLabel(img, lx, ly, bead.ID, fg, bg)
			}
		}
	}

	if opts.ShowCoordinates && opts.MajorEvery > 0 {
		labelColor := color.RGBA{255, 255, 255, 255}
		bgColor := color.RGBA{0, 0, 0, 180}
		for y := opts.MajorEvery; y < res.Height; y += opts.MajorEvery {
			for x := opts.MajorEvery; x < res.Width; x += opts.MajorEvery {
				drawLabel(img, x*cell+2, y*cell+2, fmt.Sprintf("%d,%d", x, y), labelColor, bgColor)
			}
		}
	}

	return img, nil
}

// EncodePreview encodes a rendered pattern as base64 PNG.
func EncodePreview(img image.Image, cellSize int) (*PreviewResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	b := img.Bounds()
	return &PreviewResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		CellSize:    cellSize,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SavePreview writes a rendered pattern to disk. The format follows the
// file extension.
func SavePreview(img image.Image, path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, expanded); err != nil {
		return fmt.Errorf("failed to save preview: %w", err)
	}
	return nil
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// drawBead draws a round bead with a darker rim inside r.
func drawBead(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	rim := darken(c, 0.3)
	cx := float64(r.Min.X) + float64(r.Dx())/2
	cy := float64(r.Min.Y) + float64(r.Dy())/2
	radius := float64(r.Dx())/2 - 1
	if radius < 1 {
		fillRect(img, r, c)
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			d2 := dx*dx + dy*dy
			switch {
			case d2 <= (radius-1)*(radius-1):
				img.SetRGBA(x, y, c)
			case d2 <= radius*radius:
				img.SetRGBA(x, y, rim)
			}
		}
	}
}

func drawGridLines(img *image.RGBA, cols, rows, cell, majorEvery int) {
	width := cols*cell + 1
	height := rows*cell + 1
	lineColor := func(i int) color.RGBA {
		if majorEvery > 0 && i%majorEvery == 0 {
			return majorLineColor
		}
		return gridLineColor
	}
	for i := 0; i <= cols; i++ {
		c := lineColor(i)
		for y := 0; y < height; y++ {
			img.SetRGBA(i*cell, y, c)
		}
	}
	for j := 0; j <= rows; j++ {
		c := lineColor(j)
		for x := 0; x < width; x++ {
			img.SetRGBA(x, j*cell, c)
		}
	}
}

// darken blends c toward black by amount (0-1).
func darken(c color.RGBA, amount float64) color.RGBA {
	base := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	r, g, b := base.BlendRgb(colorful.Color{}, amount).Clamped().RGB255()
	return color.RGBA{r, g, b, c.A}
}

// contrastColor picks black or white text for a background.
func contrastColor(r, g, b uint8) color.RGBA {
	brightness := (int(r)*299 + int(g)*587 + int(b)*114) / 1000
	if brightness > 128 {
		return color.RGBA{0, 0, 0, 255}
	}
	return color.RGBA{255, 255, 255, 255}
}

// 3x5 pixel font for bead IDs and coordinates.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	'P': {"110", "101", "110", "100", "100"},
	',': {"000", "000", "000", "010", "010"},
}

const glyphAdvance = 4

func labelWidth(text string) int {
	return len(text)*glyphAdvance - 1
}

// drawLabel draws text with the top-left corner at (x, y) over a one-pixel
// padded background.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	set := func(px, py int, c color.RGBA) {
		if (image.Point{px, py}).In(bounds) {
			img.SetRGBA(px, py, c)
		}
	}

	for dy := -1; dy <= 5; dy++ {
		for dx := -1; dx <= labelWidth(text); dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		if glyph, ok := glyphs[ch]; ok {
			for row, line := range glyph {
				for col, pixel := range line {
					if pixel == '1' {
						set(cx+col, y+row, fg)
					}
				}
			}
		}
		cx += glyphAdvance
	}
}
