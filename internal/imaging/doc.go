// Package imaging loads source pictures, prepares them for bead quantization
// and renders finished patterns.
//
// A conversion flows through this package twice: first a photo is loaded
// (ImageCache), cropped, filtered and resized to the bead grid (Prepare) and
// copied into a quantize.Grid (GridFromImage); after quantization the result
// is drawn as a pegboard preview (RenderPattern) and encoded as PNG.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based and relative to the
// image's top-left corner, whatever its bounds:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Transparency
//
// Images keep straight (non-premultiplied) alpha from loading to
// GridFromImage. Blending over white happens only when a pixel is matched to
// a bead, so previews of the prepared image and quality reports still see the
// original channels.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other function is
// stateless and returns new images; inputs are never modified.
//
// # Performance Considerations
//
// Filters run at source resolution before the resize, matching what a user
// sees in an editor. For large photos set a crop or keep Denoise off; the
// median filter is the most expensive stage.
package imaging
