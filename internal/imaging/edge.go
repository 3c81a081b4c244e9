package imaging

import (
	"image"
	"image/color"
	"math"
)

// DefaultLineArtThreshold is the Sobel magnitude, on a 0-255 luminance
// scale, above which a pixel becomes an outline.
const DefaultLineArtThreshold = 30.0

// LineArt reduces an image to black outlines on white.
//
// Converting a drawing or logo to line art before quantization yields
// patterns made of a single outline color, which are easier to bead than the
// shaded original.
//
// Parameters:
//   - img: Source image (color or grayscale, any alpha).
//   - threshold: Gradient magnitude (0-255 luminance units) above which a
//     pixel is drawn black. Values <= 0 use DefaultLineArtThreshold.
//   - smooth: Apply a 5x5 Gaussian blur to the luminance before the gradient,
//     which suppresses outlines around JPEG noise.
//
// Returns:
//   - *image.NRGBA: Same size as img. Interior pixels are pure black or pure
//     white with the source alpha kept; the one-pixel border is copied
//     unchanged.
//
// # Algorithm
//
//  1. Grayscale conversion: RGB -> luminance using ITU-R BT.601 weights
//     (0.299*R + 0.587*G + 0.114*B), on the 0-255 scale
//
//  2. Optional Gaussian blur
//
//  3. Gradient: Sobel operators, magnitude = sqrt(Gx² + Gy²)
//
//  4. Threshold: magnitude > threshold -> black, otherwise white
func LineArt(img image.Image, threshold float64, smooth bool) *image.NRGBA {
	if threshold <= 0 {
		threshold = DefaultLineArtThreshold
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	gray := make([][]float64, height)
	for y := 0; y < height; y++ {
		gray[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.NRGBA)
			out.SetNRGBA(x, y, c)
			gray[y][x] = 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
		}
	}

	if smooth {
		gray = gaussianBlur(gray, width, height)
	}

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := gray[y+ky][x+kx]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}

			var level uint8 = 255
			if math.Sqrt(gx*gx+gy*gy) > threshold {
				level = 0
			}
			a := out.NRGBAAt(x, y).A
			out.SetNRGBA(x, y, color.NRGBA{R: level, G: level, B: level, A: a})
		}
	}

	return out
}

// gaussianBlur applies a 5x5 Gaussian blur (sigma ≈ 1.4):
//
//	1  4  7  4  1
//	4 16 26 16  4
//	7 26 41 26  7
//	4 16 26 16  4
//	1  4  7  4  1
//
// Border pixels use clamped edge values.
func gaussianBlur(img [][]float64, width, height int) [][]float64 {
	kernel := [5][5]float64{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	}
	const kernelSum = 273.0

	result := make([][]float64, height)
	for y := 0; y < height; y++ {
		result[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var sum float64
			for ky := -2; ky <= 2; ky++ {
				for kx := -2; kx <= 2; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					sum += img[py][px] * kernel[ky+2][kx+2]
				}
			}
			result[y][x] = sum / kernelSum
		}
	}
	return result
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
