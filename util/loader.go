// Package util - Loading detection batches from disk.
package util

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-hnms/hierarchy"
	"github.com/nvr-ai/go-hnms/images"
	"github.com/nvr-ai/go-hnms/models/postprocess"
)

// ErrMalformedDetection is returned when a detection record cannot be converted.
var ErrMalformedDetection = errors.New("malformed detection")

// DetectionRecord is the on-disk form of a single detection.
//
// YAML is a superset of JSON, so both of these decode to the same record:
//
//	- box: [100, 100, 200, 200]
//	  score: 0.95
//	  class: apple
//
//	[{"box": [100, 100, 200, 200], "score": 0.95, "class": "apple"}]
type DetectionRecord struct {
	Box   []float32 `yaml:"box"`
	Score float32   `yaml:"score"`
	Class string    `yaml:"class"`
}

// Result converts the record to a postprocess.Result.
func (d DetectionRecord) Result() (postprocess.Result, error) {
	if len(d.Box) != 4 {
		return postprocess.Result{}, errors.Wrapf(ErrMalformedDetection, "box has %d coordinates, want 4", len(d.Box))
	}
	return postprocess.Result{
		Box:   images.Rect{X1: d.Box[0], Y1: d.Box[1], X2: d.Box[2], Y2: d.Box[3]},
		Score: d.Score,
		Class: hierarchy.ClassID(d.Class),
	}, nil
}

// DecodeDetections reads a list of detection records.
//
// Arguments:
// - r: Reader over a YAML or JSON document holding a list of records.
//
// Returns:
// - []postprocess.Result: Detections in document order.
// - error: Error if decoding fails or a record is malformed.
func DecodeDetections(r io.Reader) ([]postprocess.Result, error) {
	var records []DetectionRecord
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return []postprocess.Result{}, nil
		}
		return nil, errors.Wrap(err, "decode detections")
	}

	results := make([]postprocess.Result, 0, len(records))
	for i, rec := range records {
		res, err := rec.Result()
		if err != nil {
			return nil, errors.Wrapf(err, "detection %d", i)
		}
		results = append(results, res)
	}
	return results, nil
}

// LoadDetectionsFile reads the detections stored at path.
//
// Arguments:
// - path: Path to a .yaml, .yml or .json detections file.
//
// Returns:
// - []postprocess.Result: Detections in file order.
// - error: Error if loading fails.
func LoadDetectionsFile(path string) ([]postprocess.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open detections file %s", path)
	}
	defer f.Close()

	results, err := DecodeDetections(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load detections file %s", path)
	}
	return results, nil
}
