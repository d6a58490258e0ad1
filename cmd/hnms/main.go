// Command hnms runs hierarchy-aware Non-Maximum Suppression over a detections
// file and prints the detections that survive.
//
// Usage:
//
//	hnms -hierarchy hierarchy.txt -names id_to_name.txt -detections boxes.json \
//	    -score-threshold 0.8 -iou-threshold 0.5
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nvr-ai/go-hnms/common"
	"github.com/nvr-ai/go-hnms/config"
	"github.com/nvr-ai/go-hnms/hierarchy"
	"github.com/nvr-ai/go-hnms/logger"
	"github.com/nvr-ai/go-hnms/models/postprocess"
	"github.com/nvr-ai/go-hnms/util"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "hnms: %v\n", err)
		os.Exit(1)
	}
}

// run parses args, performs suppression and writes one line per kept detection to out.
func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("hnms", flag.ContinueOnError)
	var (
		configPath     = fs.String("config", "", "Path to a YAML/JSON config file")
		hierarchyPath  = fs.String("hierarchy", "", "Path to the 'parent child' hierarchy file")
		namesPath      = fs.String("names", "", "Path to the 'id name' file")
		detectionsPath = fs.String("detections", "", "Path to the YAML/JSON detections file")
		scoreThreshold = fs.Float64("score-threshold", 0, "Discard detections scoring below this")
		iouThreshold   = fs.Float64("iou-threshold", 0, "IoU above which overlapping boxes interact")
		sorted         = fs.Bool("sorted", false, "Print kept detections in input order")
		logLevel       = fs.String("log-level", "", "Log level: debug, info, warn, error")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Flags given explicitly take precedence over file and environment values.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "hierarchy":
			cfg.Hierarchy = *hierarchyPath
		case "names":
			cfg.Names = *namesPath
		case "detections":
			cfg.Detections = *detectionsPath
		case "score-threshold":
			cfg.ScoreThreshold = float32(*scoreThreshold)
		case "iou-threshold":
			cfg.IoUThreshold = float32(*iouThreshold)
		case "sorted":
			cfg.SortIndices = *sorted
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.EnvFile != "" {
		log.Debug("loaded environment file", zap.String("path", cfg.EnvFile))
	}

	h, err := hierarchy.LoadFiles(cfg.Hierarchy, cfg.Names)
	if err != nil {
		return err
	}
	if err := h.Validate(); err != nil {
		// Walks are bounded, so a cyclic taxonomy degrades results rather than hanging.
		log.Warn("hierarchy is not a forest", zap.Error(err))
	}
	log.Info("loaded hierarchy", zap.String("path", cfg.Hierarchy), zap.Int("classes", h.Len()))

	results, err := util.LoadDetectionsFile(cfg.Detections)
	if err != nil {
		return err
	}
	log.Info("loaded detections", zap.String("path", cfg.Detections), zap.Int("count", len(results)))

	boxes, scores, classes := postprocess.Split(results)
	keep, err := postprocess.ApplyHierarchicalNMS(boxes, scores, classes, h, cfg.NMS())
	if err != nil {
		return errors.Wrap(err, "suppress detections")
	}
	if cfg.SortIndices {
		sort.Ints(keep)
	}
	log.Info("suppression complete",
		zap.Float32("score_threshold", cfg.ScoreThreshold),
		zap.Float32("iou_threshold", cfg.IoUThreshold),
		zap.Int("kept", len(keep)),
		zap.Int("suppressed", len(results)-len(keep)),
	)

	for _, box := range common.NewBoundingBoxes(results, keep, h) {
		if _, err := fmt.Fprintln(out, box.String()); err != nil {
			return errors.Wrap(err, "write result")
		}
	}
	log.Debug("kept indices", zap.Ints("indices", keep))
	return nil
}
