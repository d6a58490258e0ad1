// Package config - Configuration for the hnms command.
package config

import (
	"strings"

	"github.com/chewxy/math32"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/nvr-ai/go-hnms/models/postprocess"
)

// EnvPrefix prefixes every environment override, e.g. HNMS_IOU_THRESHOLD.
const EnvPrefix = "HNMS"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// envPaths are tried in order; the first .env file found is loaded.
var envPaths = []string{".env", "../.env"}

// Config holds the hnms command configuration.
type Config struct {
	// Hierarchy is the path to the "parent child" edge file.
	Hierarchy string `mapstructure:"hierarchy"`
	// Names is the path to the "id name" file. Optional.
	Names string `mapstructure:"names"`
	// Detections is the path to the YAML/JSON detections file.
	Detections string `mapstructure:"detections"`

	ScoreThreshold float32 `mapstructure:"score_threshold"`
	IoUThreshold   float32 `mapstructure:"iou_threshold"`

	// SortIndices prints kept detections in input order instead of score order.
	SortIndices bool   `mapstructure:"sort_indices"`
	LogLevel    string `mapstructure:"log_level"`

	// EnvFile is the .env file that was loaded, if any.
	EnvFile string `mapstructure:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	nms := postprocess.DefaultNMSConfig()
	return &Config{
		ScoreThreshold: nms.ScoreThreshold,
		IoUThreshold:   nms.IoUThreshold,
		LogLevel:       "info",
	}
}

// Load builds the configuration from, in increasing priority: defaults, the
// config file at path (skipped when empty), and HNMS_* environment variables.
// A .env file is loaded into the environment first when one exists.
func Load(path string) (*Config, error) {
	envFile := ""
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			envFile = p
			break
		}
	}

	v := viper.New()
	def := Default()
	v.SetDefault("hierarchy", def.Hierarchy)
	v.SetDefault("names", def.Names)
	v.SetDefault("detections", def.Detections)
	v.SetDefault("score_threshold", def.ScoreThreshold)
	v.SetDefault("iou_threshold", def.IoUThreshold)
	v.SetDefault("sort_indices", def.SortIndices)
	v.SetDefault("log_level", def.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.EnvFile = envFile
	return cfg, nil
}

// Validate checks that the input paths are set and the thresholds are usable.
func (c *Config) Validate() error {
	if c.Hierarchy == "" {
		return errors.Wrap(ErrInvalidConfig, "hierarchy file is required")
	}
	if c.Detections == "" {
		return errors.Wrap(ErrInvalidConfig, "detections file is required")
	}
	if math32.IsNaN(c.ScoreThreshold) {
		return errors.Wrap(ErrInvalidConfig, "score_threshold is NaN")
	}
	if math32.IsNaN(c.IoUThreshold) || c.IoUThreshold < 0 || c.IoUThreshold > 1 {
		return errors.Wrapf(ErrInvalidConfig, "iou_threshold %v outside [0, 1]", c.IoUThreshold)
	}
	return nil
}

// NMS returns the suppression thresholds.
func (c *Config) NMS() *postprocess.NMSConfig {
	return &postprocess.NMSConfig{
		ScoreThreshold: c.ScoreThreshold,
		IoUThreshold:   c.IoUThreshold,
	}
}
