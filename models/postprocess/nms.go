// Package postprocess - provides Non-Maximum Suppression for detection results.
package postprocess

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-hnms/images"
)

var (
	// ErrNilConfig is returned when suppression is invoked without a configuration.
	ErrNilConfig = errors.New("nms config is nil")
	// ErrInvalidThreshold is returned when a threshold is NaN.
	ErrInvalidThreshold = errors.New("invalid nms threshold")
	// ErrMisalignedInput is returned when boxes, scores and classes differ in length.
	ErrMisalignedInput = errors.New("boxes, scores and classes must have equal length")
)

// NMSConfig defines parameters for Non-Maximum Suppression.
type NMSConfig struct {
	ScoreThreshold float32 `json:"score_threshold" yaml:"score_threshold"` // Detections scoring below this are discarded.
	IoUThreshold   float32 `json:"iou_threshold" yaml:"iou_threshold"`     // Overlap above which boxes interact.
	ClassAware     bool    `json:"class_aware" yaml:"class_aware"`         // ApplyGreedyNMS only: suppress within the same class.
}

// DefaultNMSConfig returns the thresholds used when none are configured.
func DefaultNMSConfig() *NMSConfig {
	return &NMSConfig{
		ScoreThreshold: 0.5,
		IoUThreshold:   0.5,
		ClassAware:     true,
	}
}

// Validate rejects NaN thresholds. Any other value is accepted as-is.
func (c *NMSConfig) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if math32.IsNaN(c.ScoreThreshold) {
		return errors.Wrap(ErrInvalidThreshold, "score threshold is NaN")
	}
	if math32.IsNaN(c.IoUThreshold) {
		return errors.Wrap(ErrInvalidThreshold, "iou threshold is NaN")
	}
	return nil
}

// ApplyGreedyNMS performs standard greedy Non-Maximum Suppression without
// consulting any class hierarchy.
//
// Arguments:
//   - detections: Slice of detections sorted by descending confidence.
//   - config: NMS configuration. When ClassAware is set only same-class boxes
//     suppress each other.
//
// Returns:
//   - Filtered slice of detections. If no detections are provided, returns nil.
func ApplyGreedyNMS(detections []Result, config *NMSConfig) []Result {
	n := len(detections)
	if n == 0 {
		return nil
	}

	filtered := make([]Result, 0, n)
	used := make([]bool, n)

	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}

		anchor := detections[i]
		filtered = append(filtered, anchor)
		used[i] = true

		for j := i + 1; j < n; j++ {
			if used[j] {
				continue
			}
			if config.ClassAware && anchor.Class != detections[j].Class {
				continue
			}

			// Suppress if IoU exceeds threshold
			if images.CalculateIoU(anchor.Box, detections[j].Box) > config.IoUThreshold {
				used[j] = true
			}
		}
	}

	return filtered
}
