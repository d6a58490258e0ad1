// Package images - Geometry for detection boxes.
package images

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Rect is an axis-aligned bounding box in (xmin, ymin, xmax, ymax) order.
type Rect struct {
	X1, Y1, X2, Y2 float32
}

// Width returns the horizontal extent of r, floored at 0.
func (r Rect) Width() float32 {
	return math32.Max(0, r.X2-r.X1)
}

// Height returns the vertical extent of r, floored at 0.
func (r Rect) Height() float32 {
	return math32.Max(0, r.Y2-r.Y1)
}

// Area returns the area of r. Degenerate and inverted boxes have area 0.
func (r Rect) Area() float32 {
	return r.Width() * r.Height()
}

// Valid reports whether r has xmin < xmax and ymin < ymax with no NaN coordinates.
func (r Rect) Valid() bool {
	if math32.IsNaN(r.X1) || math32.IsNaN(r.Y1) || math32.IsNaN(r.X2) || math32.IsNaN(r.Y2) {
		return false
	}
	return r.X1 < r.X2 && r.Y1 < r.Y2
}

// String formats r as "(x1, y1)-(x2, y2)".
func (r Rect) String() string {
	return fmt.Sprintf("(%.1f, %.1f)-(%.1f, %.1f)", r.X1, r.Y1, r.X2, r.Y2)
}

// CalculateIoU returns the Intersection over Union of two boxes.
//
// IoU is the area where the boxes overlap divided by the total area they cover:
//
//	IoU = Area(A ∩ B) / (Area(A) + Area(B) - Area(A ∩ B))
//
//   - 1.0 means the boxes are identical.
//   - 0.0 means the boxes do not overlap (touching edges included).
//
// The intersection is floored at 0 on each axis. When the union is 0, which
// happens only for degenerate boxes, the result is 0 rather than NaN.
//
// Arguments:
//   - r: The first box.
//   - o: The box to compare against.
//
// Returns:
//   - A value in [0, 1].
//
// Example Usage:
// ```go
//
//	a := Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}
//	b := Rect{X1: 5, Y1: 5, X2: 15, Y2: 15}
//	iou := CalculateIoU(a, b) // 25 / 175 ≈ 0.142857
//
// ```
func CalculateIoU(r, o Rect) float32 {
	// Corners of the overlapping region.
	ix1 := math32.Max(r.X1, o.X1)
	iy1 := math32.Max(r.Y1, o.Y1)
	ix2 := math32.Min(r.X2, o.X2)
	iy2 := math32.Min(r.Y2, o.Y2)

	interW := math32.Max(0, ix2-ix1)
	interH := math32.Max(0, iy2-iy1)
	interArea := interW * interH
	if interArea <= 0 {
		return 0
	}

	// Inclusion-exclusion: Union(A, B) = Area(A) + Area(B) - Intersection(A, B)
	unionArea := r.Area() + o.Area() - interArea
	if unionArea <= 0 {
		return 0
	}

	return interArea / unionArea
}
