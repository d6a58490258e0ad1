// Package common - Display records for suppressed detection output.
package common

import (
	"fmt"

	"github.com/nvr-ai/go-hnms/hierarchy"
	"github.com/nvr-ai/go-hnms/images"
	"github.com/nvr-ai/go-hnms/models/postprocess"
)

// Namer resolves a class to its display name.
type Namer interface {
	NameOf(id hierarchy.ClassID) string
}

// BoundingBox represents a kept detection with its label, confidence, and coordinates.
type BoundingBox struct {
	// Index is the position of the detection in the original input.
	Index int
	// ClassID is the raw class identifier.
	ClassID hierarchy.ClassID
	// Label is the human-readable class name.
	Label string
	// Confidence is the detection score.
	Confidence float32
	// Box corners in (xmin, ymin, xmax, ymax) order.
	X1, Y1, X2, Y2 float32
}

// NewBoundingBoxes labels the results at the kept indices.
//
// Arguments:
//   - results: The detections suppression was run on.
//   - keep: Indices returned by postprocess.ApplyHierarchicalNMS.
//   - namer: Name lookup, typically a *hierarchy.Hierarchy.
//
// Returns:
//   - One BoundingBox per kept index, in the order of keep.
func NewBoundingBoxes(results []postprocess.Result, keep []int, namer Namer) []BoundingBox {
	boxes := make([]BoundingBox, 0, len(keep))
	for _, idx := range keep {
		r := results[idx]
		boxes = append(boxes, BoundingBox{
			Index:      idx,
			ClassID:    r.Class,
			Label:      namer.NameOf(r.Class),
			Confidence: r.Score,
			X1:         r.Box.X1,
			Y1:         r.Box.Y1,
			X2:         r.Box.X2,
			Y2:         r.Box.Y2,
		})
	}
	return boxes
}

// Rect returns the box geometry.
func (b *BoundingBox) Rect() images.Rect {
	return images.Rect{X1: b.X1, Y1: b.Y1, X2: b.X2, Y2: b.Y2}
}

// IoU calculates the Intersection over Union between two bounding boxes.
func (b *BoundingBox) IoU(other *BoundingBox) float32 {
	return images.CalculateIoU(b.Rect(), other.Rect())
}

// String formats the bounding box information for display.
//
// @example
// box := BoundingBox{Index: 3, ClassID: "n07739125", Label: "apple", Confidence: 0.95, X1: 100, Y1: 100, X2: 200, Y2: 200}
// fmt.Println(box.String()) // #3 apple [n07739125] (confidence 0.950): (100.0, 100.0)-(200.0, 200.0)
func (b *BoundingBox) String() string {
	return fmt.Sprintf("#%d %s [%s] (confidence %.3f): %s",
		b.Index, b.Label, b.ClassID, b.Confidence, b.Rect())
}
