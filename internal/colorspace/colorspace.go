package colorspace

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// D65 reference white, scaled so that Yn = 100.
const (
	WhiteX = 95.047
	WhiteY = 100.0
	WhiteZ = 108.883
)

// labEpsilon is the (6/29)^3 split between the cube-root and linear segments.
const labEpsilon = 0.008856

// ErrInvalidChannel is matched by every *InvalidChannelError.
var ErrInvalidChannel = errors.New("color channel outside 0-255")

// InvalidChannelError reports a channel value outside 0-255.
type InvalidChannelError struct {
	Channel string
	Value   int
}

func (e *InvalidChannelError) Error() string {
	return fmt.Sprintf("invalid %s channel value %d: must be 0-255", e.Channel, e.Value)
}

// Is lets errors.Is match ErrInvalidChannel.
func (e *InvalidChannelError) Is(target error) bool {
	return target == ErrInvalidChannel
}

// RGB is an 8-bit sRGB color.
type RGB struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// XYZ is a CIE 1931 tristimulus value scaled so that white has Y = 100.
type XYZ struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Lab is a CIE L*a*b* color relative to the D65 white point.
type Lab struct {
	L float64 `json:"l"` // Lightness: 0 (black) to 100 (white)
	A float64 `json:"a"` // Green (-) to red (+)
	B float64 `json:"b"` // Blue (-) to yellow (+)
}

// RGBFromInts validates integer channels and builds an RGB.
//
// Returns *InvalidChannelError for the first channel outside 0-255.
func RGBFromInts(r, g, b int) (RGB, error) {
	for _, ch := range []struct {
		name  string
		value int
	}{{"red", r}, {"green", g}, {"blue", b}} {
		if ch.value < 0 || ch.value > 255 {
			return RGB{}, &InvalidChannelError{Channel: ch.name, Value: ch.value}
		}
	}
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

// ClampChannel rounds v and clamps it to 0-255.
//
// This is a fallback for intermediate values produced by compositing or image
// filters; it is not a substitute for validating caller input.
func ClampChannel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// ParseHex parses "#RRGGBB" (or the short "#RGB" form).
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Hex formats the color as "#RRGGBB".
func (c RGB) Hex() string {
	return strings.ToUpper(c.colorful().Hex())
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Lab converts the color to CIE L*a*b*.
func (c RGB) Lab() Lab {
	return ToLab(c)
}

// Linearize removes the sRGB transfer curve from a normalized (0-1) channel.
func Linearize(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// ToXYZ converts an sRGB color to XYZ (D65, white Y = 100).
func ToXYZ(c RGB) XYZ {
	r := Linearize(float64(c.R) / 255.0)
	g := Linearize(float64(c.G) / 255.0)
	b := Linearize(float64(c.B) / 255.0)

	return XYZ{
		X: (r*0.4124564 + g*0.3575761 + b*0.1804375) * 100,
		Y: (r*0.2126729 + g*0.7151522 + b*0.0721750) * 100,
		Z: (r*0.0193339 + g*0.1191920 + b*0.9503041) * 100,
	}
}

// XYZToLab converts XYZ to L*a*b* against the D65 white point.
func XYZToLab(v XYZ) Lab {
	fx := labF(v.X / WhiteX)
	fy := labF(v.Y / WhiteY)
	fz := labF(v.Z / WhiteZ)

	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return 7.787*t + 16.0/116.0
}

// ToLab converts an sRGB color to CIE L*a*b*.
func ToLab(c RGB) Lab {
	return XYZToLab(ToXYZ(c))
}

// Chroma returns sqrt(a² + b²).
func (l Lab) Chroma() float64 {
	return math.Hypot(l.A, l.B)
}
