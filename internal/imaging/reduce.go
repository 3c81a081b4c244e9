package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/esimov/colorquant"
)

// MaxReducedColors is the largest palette ReduceColors builds.
const MaxReducedColors = 256

// ReduceColors maps img onto a median-cut palette of at most n colors without
// dithering. Transparent pixels are blended over white first, so the result
// is fully opaque.
func ReduceColors(img image.Image, n int) *image.NRGBA {
	b := img.Bounds()
	rect := image.Rect(0, 0, b.Dx(), b.Dy())

	flat := image.NewNRGBA(rect)
	draw.Draw(flat, rect, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, rect, img, b.Min, draw.Over)

	out := image.NewNRGBA(rect)
	colorquant.NoDither.Quantize(flat, out, n, false, true)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}
