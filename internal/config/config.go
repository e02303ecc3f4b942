// Package config loads label-crop settings from defaults, an optional YAML
// file and LABEL_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/label-crop-mcp/internal/crop"
	"github.com/ironsheep/label-crop-mcp/internal/detection"
	apperrors "github.com/ironsheep/label-crop-mcp/internal/errors"
)

// Config is the full runtime configuration.
type Config struct {
	Detection DetectionConfig `yaml:"detection"`
	Crop      CropConfig      `yaml:"crop"`
	Output    OutputConfig    `yaml:"output"`
	Batch     BatchConfig     `yaml:"batch"`
	Log       LogConfig       `yaml:"log"`
}

type DetectionConfig struct {
	EdgeThreshold    float64 `yaml:"edge_threshold"`
	MinSize          int     `yaml:"min_size"`
	MaxAspectRatio   float64 `yaml:"max_aspect_ratio"`
	MinDensity       float64 `yaml:"min_density"`
	OverlapThreshold float64 `yaml:"overlap_threshold"`
	RowTolerance     float64 `yaml:"row_tolerance"`
	KernelSize       int     `yaml:"kernel_size"`
}

type CropConfig struct {
	Margin      int           `yaml:"margin"`
	JPEGQuality int           `yaml:"jpeg_quality"`
	Caption     CaptionConfig `yaml:"caption"`
}

type CaptionConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Background string `yaml:"background"`
	Border     string `yaml:"border"`
	Text       string `yaml:"text"`
	Padding    int    `yaml:"padding"`
}

type OutputConfig struct {
	// Dir receives crop files, the manifest and the archive.
	Dir string `yaml:"dir"`

	// Manifest is the manifest file name inside Dir; empty disables it.
	Manifest string `yaml:"manifest"`

	// Archive is the ZIP file name inside Dir; empty disables it.
	Archive string `yaml:"archive"`
}

type BatchConfig struct {
	Workers            int  `yaml:"workers"`
	FallbackWholeImage bool `yaml:"fallback_whole_image"`

	// Limit caps the number of images per run; 0 means no cap.
	Limit int `yaml:"limit"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	det := detection.DefaultOptions()
	cr := crop.DefaultOptions()
	return &Config{
		Detection: DetectionConfig{
			EdgeThreshold:    det.EdgeThreshold,
			MinSize:          det.MinSize,
			MaxAspectRatio:   det.MaxAspectRatio,
			MinDensity:       det.MinDensity,
			OverlapThreshold: det.OverlapThreshold,
			RowTolerance:     det.RowTolerance,
			KernelSize:       det.KernelSize,
		},
		Crop: CropConfig{
			Margin:      cr.Margin,
			JPEGQuality: cr.JPEGQuality,
			Caption: CaptionConfig{
				Enabled:    cr.Caption.Enabled,
				Background: cr.Caption.Background,
				Border:     cr.Caption.Border,
				Text:       cr.Caption.Text,
				Padding:    cr.Caption.Padding,
			},
		},
		Output: OutputConfig{
			Dir:      "crops",
			Manifest: "manifest.json",
		},
		Batch: BatchConfig{
			Workers: runtime.NumCPU(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid config file %s", path), err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from LABEL_* environment variables. Values
// that do not parse are ignored.
func (c *Config) ApplyEnv() {
	c.Detection.EdgeThreshold = parseFloatOrDefault("LABEL_EDGE_THRESHOLD", c.Detection.EdgeThreshold)
	c.Detection.MinSize = parseIntOrDefault("LABEL_MIN_SIZE", c.Detection.MinSize)
	c.Detection.MaxAspectRatio = parseFloatOrDefault("LABEL_MAX_ASPECT_RATIO", c.Detection.MaxAspectRatio)
	c.Detection.OverlapThreshold = parseFloatOrDefault("LABEL_OVERLAP_THRESHOLD", c.Detection.OverlapThreshold)
	c.Crop.Margin = parseIntOrDefault("LABEL_CROP_MARGIN", c.Crop.Margin)
	c.Crop.JPEGQuality = parseIntOrDefault("LABEL_JPEG_QUALITY", c.Crop.JPEGQuality)
	c.Output.Dir = getEnvOrDefault("LABEL_OUTPUT_DIR", c.Output.Dir)
	c.Batch.Workers = parseIntOrDefault("LABEL_WORKERS", c.Batch.Workers)
	c.Batch.FallbackWholeImage = parseBoolOrDefault("LABEL_FALLBACK_WHOLE_IMAGE", c.Batch.FallbackWholeImage)
	c.Batch.Limit = parseIntOrDefault("LABEL_BATCH_LIMIT", c.Batch.Limit)
	c.Log.Level = getEnvOrDefault("LABEL_MCP_LOG_LEVEL", c.Log.Level)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.DetectionOptions().Validate(); err != nil {
		return apperrors.NewValidationError("invalid detection settings", err)
	}
	if err := c.CropOptions().Validate(); err != nil {
		return err
	}
	if c.Batch.Workers < 1 {
		return apperrors.NewValidationError(fmt.Sprintf("workers must be >= 1 (got %d)", c.Batch.Workers), nil)
	}
	if c.Batch.Limit < 0 {
		return apperrors.NewValidationError(fmt.Sprintf("limit must be >= 0 (got %d)", c.Batch.Limit), nil)
	}
	if strings.ContainsAny(c.Output.Manifest+c.Output.Archive, `/\`) {
		return apperrors.NewValidationError("manifest and archive must be plain file names", nil)
	}
	return nil
}

// DetectionOptions converts the detection section to pipeline options.
func (c *Config) DetectionOptions() detection.Options {
	d := c.Detection
	return detection.Options{
		EdgeThreshold:    d.EdgeThreshold,
		MinSize:          d.MinSize,
		MaxAspectRatio:   d.MaxAspectRatio,
		MinDensity:       d.MinDensity,
		OverlapThreshold: d.OverlapThreshold,
		RowTolerance:     d.RowTolerance,
		KernelSize:       d.KernelSize,
	}
}

// CropOptions converts the crop section to emitter options.
func (c *Config) CropOptions() crop.Options {
	cc := c.Crop
	return crop.Options{
		Margin:      cc.Margin,
		JPEGQuality: cc.JPEGQuality,
		Caption: crop.CaptionOptions{
			Enabled:    cc.Caption.Enabled,
			Background: cc.Caption.Background,
			Border:     cc.Caption.Border,
			Text:       cc.Caption.Text,
			Padding:    cc.Caption.Padding,
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
