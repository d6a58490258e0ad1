package postprocess

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-hnms/hierarchy"
	"github.com/nvr-ai/go-hnms/images"
)

// ApplyHierarchicalNMS filters overlapping detections using a class hierarchy.
//
// Within one class this is ordinary greedy NMS. Across classes related by
// is-a, the more specific class wins when two boxes overlap by more than
// config.IoUThreshold:
//
//   - same class: the lower-ranked candidate is suppressed.
//   - candidate's class is an ancestor of the current class: the candidate is suppressed.
//   - current class is an ancestor of the candidate's class: the current box is
//     dropped and the candidate stays in the pool.
//
// Classes unrelated in the hierarchy never suppress each other.
//
// Arguments:
//   - boxes, scores, classes: Index-aligned detection attributes.
//   - lookup: Parent lookup for the taxonomy. nil treats every class as a root.
//   - config: Score and IoU thresholds. ClassAware is ignored.
//
// Returns:
//   - Original indices of the kept detections, in descending score order.
//   - ErrMisalignedInput if the input slices differ in length, or a config error.
func ApplyHierarchicalNMS(
	boxes []images.Rect,
	scores []float32,
	classes []hierarchy.ClassID,
	lookup hierarchy.ParentLookup,
	config *NMSConfig,
) ([]int, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if len(boxes) != len(scores) || len(boxes) != len(classes) {
		return nil, errors.Wrapf(ErrMisalignedInput, "boxes=%d scores=%d classes=%d",
			len(boxes), len(scores), len(classes))
	}

	// Filter by score, keeping original order so the stable sort breaks ties by index.
	remaining := make([]int, 0, len(scores))
	for i, s := range scores {
		if s >= config.ScoreThreshold {
			remaining = append(remaining, i)
		}
	}
	sort.SliceStable(remaining, func(a, b int) bool {
		return scores[remaining[a]] > scores[remaining[b]]
	})

	keep := make([]int, 0, len(remaining))
	for len(remaining) > 0 {
		current := remaining[0]
		candidates := remaining[1:]
		kept := true
		suppressed := make([]bool, len(candidates))

		for i, cand := range candidates {
			if images.CalculateIoU(boxes[current], boxes[cand]) <= config.IoUThreshold {
				continue
			}
			if classes[cand] == classes[current] {
				suppressed[i] = true
			} else if hierarchy.IsAncestor(lookup, classes[current], classes[cand]) {
				suppressed[i] = true
			} else if hierarchy.IsAncestor(lookup, classes[cand], classes[current]) {
				kept = false
				break
			}
		}

		if kept {
			keep = append(keep, current)
		}

		next := make([]int, 0, len(candidates))
		for i, cand := range candidates {
			if !suppressed[i] {
				next = append(next, cand)
			}
		}
		remaining = next
	}

	return keep, nil
}

// ApplyHierarchicalNMSResults runs ApplyHierarchicalNMS over results and returns
// the surviving results in descending score order.
func ApplyHierarchicalNMSResults(results []Result, lookup hierarchy.ParentLookup, config *NMSConfig) ([]Result, error) {
	boxes, scores, classes := Split(results)
	keep, err := ApplyHierarchicalNMS(boxes, scores, classes, lookup, config)
	if err != nil {
		return nil, err
	}

	kept := make([]Result, len(keep))
	for i, idx := range keep {
		kept[i] = results[idx]
	}
	return kept, nil
}
