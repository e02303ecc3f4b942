package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/label-crop-mcp/internal/crop"
	"github.com/ironsheep/label-crop-mcp/internal/detection"
	apperrors "github.com/ironsheep/label-crop-mcp/internal/errors"
)

func TestDefault_MatchesStageDefaults(t *testing.T) {
	cfg := Default()

	if got := cfg.DetectionOptions(); got != detection.DefaultOptions() {
		t.Errorf("detection options: got %+v, want %+v", got, detection.DefaultOptions())
	}
	if got := cfg.CropOptions(); got != crop.DefaultOptions() {
		t.Errorf("crop options: got %+v, want %+v", got, crop.DefaultOptions())
	}
	if cfg.Batch.Workers < 1 {
		t.Errorf("workers: got %d", cfg.Batch.Workers)
	}
	if cfg.Output.Manifest != "manifest.json" || cfg.Output.Archive != "" {
		t.Errorf("output defaults: %+v", cfg.Output)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label.yaml")
	data := []byte(`
detection:
  edge_threshold: 150
  min_size: 60
crop:
  caption:
    background: "#FFFF00"
output:
  dir: /tmp/out
  archive: crops.zip
batch:
  workers: 3
  fallback_whole_image: true
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Detection.EdgeThreshold != 150 || cfg.Detection.MinSize != 60 {
		t.Errorf("detection overrides not applied: %+v", cfg.Detection)
	}
	if cfg.Detection.MaxAspectRatio != 5.0 || cfg.Detection.KernelSize != 2 {
		t.Errorf("unset detection keys lost their defaults: %+v", cfg.Detection)
	}
	if cfg.Crop.Caption.Background != "#FFFF00" || cfg.Crop.Caption.Border != "#000000" || !cfg.Crop.Caption.Enabled {
		t.Errorf("caption merge: %+v", cfg.Crop.Caption)
	}
	if cfg.Crop.JPEGQuality != 95 {
		t.Errorf("jpeg quality: got %d, want 95", cfg.Crop.JPEGQuality)
	}
	if cfg.Output.Dir != "/tmp/out" || cfg.Output.Archive != "crops.zip" || cfg.Output.Manifest != "manifest.json" {
		t.Errorf("output: %+v", cfg.Output)
	}
	if cfg.Batch.Workers != 3 || !cfg.Batch.FallbackWholeImage {
		t.Errorf("batch: %+v", cfg.Batch)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("detection: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg.Detection.EdgeThreshold != 195 {
		t.Errorf("expected defaults, got %+v", cfg.Detection)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LABEL_EDGE_THRESHOLD", "120.5")
	t.Setenv("LABEL_MIN_SIZE", "80")
	t.Setenv("LABEL_MAX_ASPECT_RATIO", "7")
	t.Setenv("LABEL_OVERLAP_THRESHOLD", "0.25")
	t.Setenv("LABEL_CROP_MARGIN", "12")
	t.Setenv("LABEL_JPEG_QUALITY", "80")
	t.Setenv("LABEL_OUTPUT_DIR", "/data/crops")
	t.Setenv("LABEL_WORKERS", "2")
	t.Setenv("LABEL_FALLBACK_WHOLE_IMAGE", "true")
	t.Setenv("LABEL_MCP_LOG_LEVEL", "debug")
	t.Setenv("LABEL_BATCH_LIMIT", "5")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.Detection.EdgeThreshold != 120.5 || cfg.Detection.MinSize != 80 ||
		cfg.Detection.MaxAspectRatio != 7 || cfg.Detection.OverlapThreshold != 0.25 {
		t.Errorf("detection env: %+v", cfg.Detection)
	}
	if cfg.Crop.Margin != 12 || cfg.Crop.JPEGQuality != 80 {
		t.Errorf("crop env: %+v", cfg.Crop)
	}
	if cfg.Output.Dir != "/data/crops" || cfg.Batch.Workers != 2 || !cfg.Batch.FallbackWholeImage {
		t.Errorf("output/batch env: %+v %+v", cfg.Output, cfg.Batch)
	}
	if cfg.Batch.Limit != 5 {
		t.Errorf("limit: got %d, want 5", cfg.Batch.Limit)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level: got %q", cfg.Log.Level)
	}
}

func TestApplyEnv_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("LABEL_MIN_SIZE", "large")
	t.Setenv("LABEL_EDGE_THRESHOLD", "")
	t.Setenv("LABEL_FALLBACK_WHOLE_IMAGE", "maybe")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.Detection.MinSize != 100 || cfg.Detection.EdgeThreshold != 195 || cfg.Batch.FallbackWholeImage {
		t.Errorf("invalid env values should be ignored: %+v %+v", cfg.Detection, cfg.Batch)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero min size", func(c *Config) { c.Detection.MinSize = 0 }},
		{"bad quality", func(c *Config) { c.Crop.JPEGQuality = 0 }},
		{"bad caption colour", func(c *Config) { c.Crop.Caption.Text = "black" }},
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }},
		{"negative limit", func(c *Config) { c.Batch.Limit = -1 }},
		{"archive with path", func(c *Config) { c.Output.Archive = "../crops.zip" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
