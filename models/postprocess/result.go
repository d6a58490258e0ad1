// Package postprocess - Postprocessing utilities for detection results.
package postprocess

import (
	"sort"

	"github.com/nvr-ai/go-hnms/hierarchy"
	"github.com/nvr-ai/go-hnms/images"
)

// Result represents a single detection result.
type Result struct {
	// The bounding box of the result.
	Box images.Rect
	// The confidence score of the result.
	Score float32
	// The predicted class of the result.
	Class hierarchy.ClassID
}

// FilterByScore returns the results scoring at least threshold, in input order.
func FilterByScore(results []Result, threshold float32) []Result {
	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Score >= threshold {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// SortByScore sorts results by descending score. Equal scores keep their order.
func SortByScore(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

// Split breaks results into index-aligned box, score and class slices.
func Split(results []Result) ([]images.Rect, []float32, []hierarchy.ClassID) {
	boxes := make([]images.Rect, len(results))
	scores := make([]float32, len(results))
	classes := make([]hierarchy.ClassID, len(results))
	for i, r := range results {
		boxes[i] = r.Box
		scores[i] = r.Score
		classes[i] = r.Class
	}
	return boxes, scores, classes
}
