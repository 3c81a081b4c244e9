package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region represents a rectangular region within an image.
//
// Coordinates are 0-based relative to the image's top-left corner:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
//   - Width = X2 - X1, Height = Y2 - Y1
type Region struct {
	X1 int `json:"x1"` // Left edge X coordinate (inclusive)
	Y1 int `json:"y1"` // Top edge Y coordinate (inclusive)
	X2 int `json:"x2"` // Right edge X coordinate (exclusive)
	Y2 int `json:"y2"` // Bottom edge Y coordinate (exclusive)
}

// Validate checks that the region is non-empty and inside a width x height image.
func (r Region) Validate(width, height int) error {
	if r.X1 < 0 || r.Y1 < 0 || r.X2 > width || r.Y2 > height {
		return fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, width, height)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	return nil
}

// Crop extracts a region from an image.
//
// Parameters:
//   - img: Source image. Its bounds need not start at (0,0).
//   - r: Region relative to the image's top-left corner.
//
// Returns:
//   - *image.NRGBA: The cropped pixels with bounds starting at (0,0).
//   - error: Non-nil if the region is empty or outside the image.
func Crop(img image.Image, r Region) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if err := r.Validate(bounds.Dx(), bounds.Dy()); err != nil {
		return nil, err
	}
	rect := image.Rect(r.X1, r.Y1, r.X2, r.Y2).Add(bounds.Min)
	return imaging.Crop(img, rect), nil
}

// NamedRegion resolves a region name against a width x height image.
//
// Supported names: "top-left", "top-right", "bottom-left", "bottom-right",
// "top-half", "bottom-half", "left-half", "right-half" and "center" (the
// middle 50% in both directions).
func NamedRegion(width, height int, name string) (Region, error) {
	midX := width / 2
	midY := height / 2

	switch name {
	case "top-left":
		return Region{0, 0, midX, midY}, nil
	case "top-right":
		return Region{midX, 0, width, midY}, nil
	case "bottom-left":
		return Region{0, midY, midX, height}, nil
	case "bottom-right":
		return Region{midX, midY, width, height}, nil
	case "top-half":
		return Region{0, 0, width, midY}, nil
	case "bottom-half":
		return Region{0, midY, width, height}, nil
	case "left-half":
		return Region{0, 0, midX, height}, nil
	case "right-half":
		return Region{midX, 0, width, height}, nil
	case "center":
		qW := width / 4
		qH := height / 4
		return Region{qW, qH, width - qW, height - qH}, nil
	default:
		return Region{}, fmt.Errorf("unknown region: %s", name)
	}
}
