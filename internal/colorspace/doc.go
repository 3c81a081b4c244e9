// Package colorspace converts 8-bit sRGB colors into CIE XYZ and CIE L*a*b*.
//
// The conversion is the textbook D65 pipeline and is the numeric foundation for
// every distance computed elsewhere in the module, so its constants are fixed:
//
//  1. Normalize each channel to 0-1.
//  2. Remove the sRGB transfer curve (linear segment below 0.04045).
//  3. Multiply by the sRGB to XYZ matrix (D65), scaled by 100.
//  4. Convert XYZ to Lab against the D65 white point
//     (Xn=95.047, Yn=100, Zn=108.883) with the 0.008856 cube-root split.
//
// Reference values (tolerance 0.1):
//
//	(255,0,0) -> L=53.24 a=80.09  b=67.20
//	(0,255,0) -> L=87.73 a=-86.18 b=83.18
//	(0,0,255) -> L=32.30 a=79.19  b=-107.86
//
// # Channel Validation
//
// RGB stores uint8 components, so a value of type RGB is always in range.
// Integer input coming from callers (tool arguments, CLI flags) goes through
// RGBFromInts, which reports out-of-range channels as *InvalidChannelError.
// ClampChannel is for filter stages that may overshoot. Matching never
// depends on it.
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use.
package colorspace
