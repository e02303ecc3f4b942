package batch

import (
	"context"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/label-crop-mcp/internal/crop"
	"github.com/ironsheep/label-crop-mcp/internal/detection"
	apperrors "github.com/ironsheep/label-crop-mcp/internal/errors"
	"github.com/ironsheep/label-crop-mcp/internal/imaging"
	"github.com/ironsheep/label-crop-mcp/internal/logger"
)

// Outcome classifies what happened to one image.
type Outcome string

const (
	// OutcomeCropped means at least one label region was cropped.
	OutcomeCropped Outcome = "cropped"

	// OutcomeNoRegions means the image decoded but held no label region.
	OutcomeNoRegions Outcome = "no_regions"

	// OutcomeFallback means no region was found and the whole image was
	// emitted as the single crop.
	OutcomeFallback Outcome = "fallback"

	// OutcomeDecodeFailed means the bytes are not a decodable image.
	OutcomeDecodeFailed Outcome = "decode_failed"

	// OutcomeUnreadable means the source could not be read.
	OutcomeUnreadable Outcome = "unreadable"

	// OutcomeFailed means detection, cropping or writing failed.
	OutcomeFailed Outcome = "failed"
)

// CropRecord describes one emitted crop in the manifest.
type CropRecord struct {
	Ordinal   int                   `json:"ordinal"`
	Caption   string                `json:"caption"`
	File      string                `json:"file,omitempty"`
	SourceBox detection.BoundingBox `json:"box"`
	CropBox   detection.BoundingBox `json:"crop_box"`
}

// ImageResult is the per-image record of a run.
type ImageResult struct {
	Source     string       `json:"source"`
	Stem       string       `json:"stem"`
	Format     string       `json:"format,omitempty"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Outcome    Outcome      `json:"outcome"`
	Candidates int          `json:"candidates"`
	Degenerate int          `json:"degenerate"`
	Crops      []CropRecord `json:"crops"`
	Error      string       `json:"error,omitempty"`

	// Images holds the crop pixels when Options.KeepImages is set or when
	// nothing was written to disk.
	Images []crop.LabeledCrop `json:"-"`
}

// Processor runs the detection pipeline and the crop emitter for images.
// A Processor is safe for concurrent use.
type Processor struct {
	opts Options
	log  *logrus.Entry
}

// NewProcessor returns a processor for the given options.
func NewProcessor(opts Options) *Processor {
	return &Processor{
		opts: opts,
		log:  logger.WithField("component", "batch"),
	}
}

// Options returns the processor's options.
func (p *Processor) Options() Options {
	return p.opts
}

// ProcessFile loads, detects and crops one image file.
//
// The only hard error is a source that cannot be read; it is returned
// together with a result whose outcome is OutcomeUnreadable. Decode and
// processing failures are reported in the result with a nil error.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*ImageResult, error) {
	return p.processFile(ctx, path, imaging.Stem(path))
}

func (p *Processor) processFile(ctx context.Context, path, stem string) (*ImageResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := p.log.WithField("file", path)
	log.Info("start image")

	loaded, err := imaging.LoadFile(path)
	if err != nil {
		return p.loadFailure(log, path, stem, err)
	}
	return p.process(log, path, stem, loaded), nil
}

// ProcessBytes detects and crops one in-memory encoded image. name is used
// as the source and, via its stem, for crop captions.
func (p *Processor) ProcessBytes(ctx context.Context, data []byte, name string) (*ImageResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := p.log.WithField("file", name)
	loaded, err := imaging.DecodeBytes(data, name)
	if err != nil {
		return p.loadFailure(log, name, imaging.Stem(name), err)
	}
	return p.process(log, name, imaging.Stem(name), loaded), nil
}

// ProcessImage detects and crops an already decoded image.
func (p *Processor) ProcessImage(img image.Image, name string) *ImageResult {
	b := img.Bounds()
	loaded := &imaging.Loaded{
		Image: img,
		Info:  imaging.ImageInfo{Width: b.Dx(), Height: b.Dy()},
	}
	return p.process(p.log.WithField("file", name), name, imaging.Stem(name), loaded)
}

// emit crops boxes out of img. When no crop results, either because there
// were no boxes or because every box was degenerate, the whole image is
// emitted instead if FallbackWholeImage is set.
func (p *Processor) emit(log *logrus.Entry, img image.Image, boxes []detection.BoundingBox, stem string) (*crop.Result, Outcome) {
	emitted := crop.Emit(img, boxes, stem, p.opts.Crop)
	if len(emitted.Crops) > 0 {
		return emitted, OutcomeCropped
	}
	if !p.opts.FallbackWholeImage {
		return emitted, OutcomeNoRegions
	}

	log.Info("no label crops, emitting whole image")
	whole := crop.WholeImage(img, stem, p.opts.Crop)
	whole.Degenerate += emitted.Degenerate
	return whole, OutcomeFallback
}

func (p *Processor) loadFailure(log *logrus.Entry, source, stem string, err error) (*ImageResult, error) {
	result := &ImageResult{Source: source, Stem: stem, Crops: []CropRecord{}, Error: err.Error()}
	if apperrors.IsType(err, apperrors.ErrorTypeDecode) {
		log.WithError(err).Warn("decode failed, skipping image")
		result.Outcome = OutcomeDecodeFailed
		return result, nil
	}
	log.WithError(err).Error("unreadable image")
	result.Outcome = OutcomeUnreadable
	return result, err
}

// process runs detection and cropping. Any panic is recovered and reported
// as a processing failure with zero crops.
func (p *Processor) process(log *logrus.Entry, source, stem string, loaded *imaging.Loaded) (result *ImageResult) {
	result = &ImageResult{
		Source: source,
		Stem:   stem,
		Format: loaded.Info.Format,
		Width:  loaded.Info.Width,
		Height: loaded.Info.Height,
		Crops:  []CropRecord{},
	}

	defer func() {
		if r := recover(); r != nil {
			err := apperrors.NewProcessingError("panic during processing", source, fmt.Errorf("%v", r))
			log.WithError(err).Error("recovered from panic")
			result.Outcome = OutcomeFailed
			result.Error = err.Error()
			result.Crops = []CropRecord{}
			result.Images = nil
		}
	}()

	det := detection.Detect(loaded.Image, p.opts.Detection)
	result.Candidates = det.Candidates

	emitted, outcome := p.emit(log, loaded.Image, det.Boxes, stem)
	result.Outcome = outcome
	result.Degenerate = emitted.Degenerate

	var paths []string
	if p.opts.OutputDir != "" && len(emitted.Crops) > 0 {
		written, err := crop.WriteAll(p.opts.OutputDir, emitted.Crops, p.opts.Crop.JPEGQuality)
		if err != nil {
			log.WithError(err).Error("failed to write crops")
			result.Outcome = OutcomeFailed
			result.Error = err.Error()
			return result
		}
		paths = written
	}

	for i, c := range emitted.Crops {
		rec := CropRecord{
			Ordinal:   c.Ordinal,
			Caption:   c.Caption,
			SourceBox: c.SourceBox,
			CropBox:   c.CropBox,
		}
		if paths != nil {
			rec.File = paths[i]
		}
		result.Crops = append(result.Crops, rec)
	}
	if p.opts.KeepImages || paths == nil {
		result.Images = emitted.Crops
	}

	log.WithFields(logrus.Fields{
		"count":      len(result.Crops),
		"candidates": det.Candidates,
		"degenerate": emitted.Degenerate,
		"outcome":    result.Outcome,
	}).Info("detected crops")
	return result
}
