package render

import "math"

// DefaultDPI applies when an image carries no density metadata.
const DefaultDPI = 72.0

// Rect is an area on the page in millimetres.
type Rect struct {
	X, Y, W, H float64
}

// Placement is where an image lands and at what size.
type Placement struct {
	X, Y, W, H float64
	// Scale is the uniform factor applied to the intrinsic size.
	Scale float64
}

// PixelsToMM converts a pixel length at dpi into millimetres. A non-positive
// dpi means DefaultDPI.
func PixelsToMM(px int, dpi float64) float64 {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return float64(px) * 25.4 / dpi
}

// Fit scales an image of imgW×imgH millimetres uniformly so it fits inside
// area, then centres it both ways. The limiting dimension is filled exactly.
// Degenerate sizes yield a zero-size placement at the area origin.
func Fit(area Rect, imgW, imgH float64) Placement {
	if imgW <= 0 || imgH <= 0 || area.W <= 0 || area.H <= 0 {
		return Placement{X: area.X, Y: area.Y}
	}
	scale := math.Min(area.W/imgW, area.H/imgH)
	w, h := imgW*scale, imgH*scale
	return Placement{
		X:     area.X + (area.W-w)/2,
		Y:     area.Y + (area.H-h)/2,
		W:     w,
		H:     h,
		Scale: scale,
	}
}
