// Package deltae measures perceptual distance between L*a*b* colors.
//
// Two metrics are provided. CIE76 is the Euclidean distance in Lab space: one
// square root per comparison, but it overstates differences between saturated
// colors and understates some hue shifts. CIEDE2000 is the current CIE
// recommendation and follows Sharma, Wu and Dalal, "The CIEDE2000
// Color-Difference Formula" (2005), with kL = kC = kH = 1.
//
// Policy combines the two for nearest-color search: CIE76 screens every
// candidate and only the plausible ones pay for CIEDE2000.
package deltae

import (
	"math"

	"github.com/ironsheep/bead-pattern-mcp/internal/colorspace"
)

const pow25To7 = 6103515625.0 // 25^7

// CIE76 returns the Euclidean distance between two Lab colors.
func CIE76(a, b colorspace.Lab) float64 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// CIEDE2000 returns the CIEDE2000 color difference between two Lab colors.
//
// # Algorithm
//
//  1. Mean chroma C̄ of the two samples gives the G factor, which stretches the
//     a* axis for near-neutral colors: a' = (1+G)·a.
//  2. C' and h' are recomputed from (a', b). A sample with a' = b = 0 has
//     hue 0.
//  3. Hue difference Δh' is taken the short way around the circle; it is 0
//     when either chroma is 0.
//  4. Mean hue h̄' is averaged across the 0°/360° seam; when either chroma is
//     0 it is the plain sum of the two hues.
//  5. Weighting functions SL, SC, SH and the rotation term RT (active in the
//     blue region around 275°) combine the lightness, chroma and hue terms.
func CIEDE2000(lab1, lab2 colorspace.Lab) float64 {
	c1 := math.Hypot(lab1.A, lab1.B)
	c2 := math.Hypot(lab2.A, lab2.B)
	barC := (c1 + c2) / 2
	barC7 := math.Pow(barC, 7)
	g := 0.5 * (1 - math.Sqrt(barC7/(barC7+pow25To7)))

	a1p := (1 + g) * lab1.A
	a2p := (1 + g) * lab2.A
	c1p := math.Hypot(a1p, lab1.B)
	c2p := math.Hypot(a2p, lab2.B)
	h1p := hueDegrees(a1p, lab1.B)
	h2p := hueDegrees(a2p, lab2.B)

	dLp := lab2.L - lab1.L
	dCp := c2p - c1p

	chromaProduct := c1p * c2p
	var dhp float64
	if chromaProduct != 0 {
		dhp = h2p - h1p
		if dhp > 180 {
			dhp -= 360
		} else if dhp < -180 {
			dhp += 360
		}
	}
	dHp := 2 * math.Sqrt(chromaProduct) * math.Sin(deg2Rad(dhp/2))

	barLp := (lab1.L + lab2.L) / 2
	barCp := (c1p + c2p) / 2

	var barHp float64
	switch {
	case chromaProduct == 0:
		barHp = h1p + h2p
	case math.Abs(h1p-h2p) <= 180:
		barHp = (h1p + h2p) / 2
	case h1p+h2p < 360:
		barHp = (h1p + h2p + 360) / 2
	default:
		barHp = (h1p + h2p - 360) / 2
	}

	t := 1 -
		0.17*math.Cos(deg2Rad(barHp-30)) +
		0.24*math.Cos(deg2Rad(2*barHp)) +
		0.32*math.Cos(deg2Rad(3*barHp+6)) -
		0.20*math.Cos(deg2Rad(4*barHp-63))

	dTheta := 30 * math.Exp(-math.Pow((barHp-275)/25, 2))
	barCp7 := math.Pow(barCp, 7)
	rc := 2 * math.Sqrt(barCp7/(barCp7+pow25To7))

	lMinus50Sq := (barLp - 50) * (barLp - 50)
	sl := 1 + (0.015*lMinus50Sq)/math.Sqrt(20+lMinus50Sq)
	sc := 1 + 0.045*barCp
	sh := 1 + 0.015*barCp*t
	rt := -math.Sin(deg2Rad(2*dTheta)) * rc

	lTerm := dLp / sl
	cTerm := dCp / sc
	hTerm := dHp / sh

	return math.Sqrt(lTerm*lTerm + cTerm*cTerm + hTerm*hTerm + rt*cTerm*hTerm)
}

// hueDegrees returns atan2(b, a) in [0, 360), or 0 for the neutral axis.
func hueDegrees(a, b float64) float64 {
	if a == 0 && b == 0 {
		return 0
	}
	h := rad2Deg(math.Atan2(b, a))
	if h < 0 {
		h += 360
	}
	return h
}

func deg2Rad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

func rad2Deg(rad float64) float64 {
	return rad * (180.0 / math.Pi)
}
