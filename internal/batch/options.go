package batch

import (
	"runtime"

	"github.com/ironsheep/label-crop-mcp/internal/config"
	"github.com/ironsheep/label-crop-mcp/internal/crop"
	"github.com/ironsheep/label-crop-mcp/internal/detection"
)

// Options configures a Processor.
type Options struct {
	Detection detection.Options
	Crop      crop.Options

	// OutputDir receives crop files, the manifest and the archive. When empty
	// crops are kept in memory only and ProcessBatch refuses to run.
	OutputDir string

	// Manifest and Archive are file names inside OutputDir; empty disables
	// the corresponding output.
	Manifest string
	Archive  string

	// Workers bounds the number of images processed at once.
	Workers int

	// FallbackWholeImage emits the whole image as a single crop when no label
	// region is found.
	FallbackWholeImage bool

	// Limit caps the number of images a batch processes; 0 means no cap.
	Limit int

	// KeepImages retains crop pixels in ImageResult.Images after writing.
	KeepImages bool
}

// DefaultOptions returns options built from the default configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig maps a loaded configuration onto processor options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Detection:          cfg.DetectionOptions(),
		Crop:               cfg.CropOptions(),
		OutputDir:          cfg.Output.Dir,
		Manifest:           cfg.Output.Manifest,
		Archive:            cfg.Output.Archive,
		Workers:            cfg.Batch.Workers,
		FallbackWholeImage: cfg.Batch.FallbackWholeImage,
		Limit:              cfg.Batch.Limit,
	}
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return runtime.NumCPU()
	}
	return o.Workers
}
