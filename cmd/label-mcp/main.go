package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/label-crop-mcp/internal/batch"
	"github.com/ironsheep/label-crop-mcp/internal/config"
	"github.com/ironsheep/label-crop-mcp/internal/logger"
	"github.com/ironsheep/label-crop-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "--version", "-v", "version":
		fmt.Fprintf(stdout, "label-crop-mcp %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return 0
	case "--help", "-h", "help":
		printUsage(stdout)
		return 0
	case "serve":
		return serve(args, stderr)
	case "crop":
		return cropCommand(args, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "label-crop-mcp - detect and crop product labels in photographs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  label-mcp [serve] [-config file]           Run the MCP server on stdin/stdout")
	fmt.Fprintln(w, "  label-mcp crop [flags] files-or-dirs...    Crop labels from images")
	fmt.Fprintln(w, "  label-mcp --version                        Print version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Crop flags:")
	fmt.Fprintln(w, "  -config file   YAML configuration file")
	fmt.Fprintln(w, "  -out dir       Output directory (default from config: crops)")
	fmt.Fprintln(w, "  -workers n     Images processed in parallel")
	fmt.Fprintln(w, "  -zip           Also write crops.zip")
	fmt.Fprintln(w, "  -fallback      Emit the whole image when no label is found")
	fmt.Fprintln(w, "  -limit n       Process at most n images")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  LABEL_MCP_LOG_LEVEL=debug     Log level (debug, info, warn, error)")
	fmt.Fprintln(w, "  LABEL_EDGE_THRESHOLD, LABEL_MIN_SIZE, LABEL_MAX_ASPECT_RATIO,")
	fmt.Fprintln(w, "  LABEL_OVERLAP_THRESHOLD, LABEL_CROP_MARGIN, LABEL_JPEG_QUALITY,")
	fmt.Fprintln(w, "  LABEL_OUTPUT_DIR, LABEL_WORKERS, LABEL_FALLBACK_WHOLE_IMAGE,")
	fmt.Fprintln(w, "  LABEL_BATCH_LIMIT               Override configuration values")
}

// loadConfig reads the optional file, applies the environment, validates and
// configures logging.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

func serve(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return 1
	}

	logger.WithField("version", Version).Debug("starting label-crop-mcp server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg)
	srv.SetVersion(Version)
	err = srv.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("server stopped by signal")
	case err != nil:
		logger.WithError(err).Error("server error")
		return 1
	}
	return 0
}

func cropCommand(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("crop", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	outDir := fs.String("out", "", "output directory")
	workers := fs.Int("workers", 0, "images processed in parallel")
	zipOut := fs.Bool("zip", false, "also write crops.zip")
	fallback := fs.Bool("fallback", false, "emit the whole image when no label is found")
	limit := fs.Int("limit", 0, "process at most n images")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "crop: at least one file or directory is required")
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return 1
	}

	opts := batch.OptionsFromConfig(cfg)
	if *outDir != "" {
		opts.OutputDir = *outDir
	}
	if *workers > 0 {
		opts.Workers = *workers
	}
	if *zipOut && opts.Archive == "" {
		opts.Archive = "crops.zip"
	}
	if *fallback {
		opts.FallbackWholeImage = true
	}
	if *limit > 0 {
		opts.Limit = *limit
	}

	files, err := batch.CollectInputs(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "crop: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := batch.NewProcessor(opts).ProcessBatch(ctx, files)
	if summary != nil {
		fmt.Fprintf(stdout, "processed %d images: %d crops, %d without labels, %d fallbacks, %d failed\n",
			summary.Processed, summary.TotalCrops, summary.NoRegions, summary.Fallbacks, summary.Failed)
		if summary.Manifest != "" {
			fmt.Fprintf(stdout, "manifest: %s\n", summary.Manifest)
		}
		if summary.Archive != "" {
			fmt.Fprintf(stdout, "archive: %s\n", summary.Archive)
		}
	}
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, "crop: interrupted")
		return 130
	case err != nil:
		fmt.Fprintf(stderr, "crop: %v\n", err)
		return 1
	case summary.AllFailed():
		return 1
	}
	return 0
}
