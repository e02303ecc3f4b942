package batch

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/ironsheep/label-crop-mcp/internal/errors"
)

// Summary is the record of one batch run. It is also the manifest contents.
type Summary struct {
	Processed  int           `json:"processed"`
	TotalCrops int           `json:"total_crops"`
	Cropped    int           `json:"cropped"`
	NoRegions  int           `json:"no_regions"`
	Fallbacks  int           `json:"fallbacks"`
	Failed     int           `json:"failed"`
	Degenerate int           `json:"degenerate"`
	OutputDir  string        `json:"output_dir"`
	Manifest   string        `json:"manifest,omitempty"`
	Archive    string        `json:"archive,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   string        `json:"duration"`
	Results    []ImageResult `json:"results"`
}

// AllFailed reports whether every image in a non-empty run failed to load or
// process.
func (s *Summary) AllFailed() bool {
	return s.Processed > 0 && s.Failed == s.Processed
}

// ProcessBatch processes every file with at most Options.Workers images in
// flight and then writes the manifest and archive.
//
// Per-image failures never abort the run. When ctx is cancelled no new image
// is started; the summary of the images finished so far is returned with
// ctx.Err().
func (p *Processor) ProcessBatch(ctx context.Context, files []string) (*Summary, error) {
	if p.opts.OutputDir == "" {
		return nil, apperrors.NewValidationError("batch output directory is required", nil)
	}
	if p.opts.Limit > 0 && len(files) > p.opts.Limit {
		files = files[:p.opts.Limit]
	}

	started := time.Now()
	stems := uniqueStems(files)
	results := make([]*ImageResult, len(files))

	p.log.WithFields(logrus.Fields{
		"images":  len(files),
		"workers": p.opts.workers(),
		"output":  p.opts.OutputDir,
	}).Info("start batch")

	g := new(errgroup.Group)
	g.SetLimit(p.opts.workers())

	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			// Unreadable sources are recorded in the result and never stop
			// the batch.
			res, _ := p.processFile(ctx, path, stems[i])
			if res != nil && !p.opts.KeepImages {
				res.Images = nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	summary := summarize(results)
	summary.OutputDir = p.opts.OutputDir
	summary.StartedAt = started.UTC()
	summary.Duration = time.Since(started).Round(time.Millisecond).String()

	if err := p.writeOutputs(summary); err != nil {
		return summary, err
	}

	p.log.WithFields(logrus.Fields{
		"processed": summary.Processed,
		"crops":     summary.TotalCrops,
		"failed":    summary.Failed,
		"duration":  summary.Duration,
	}).Info("batch complete")

	return summary, ctx.Err()
}

func summarize(results []*ImageResult) *Summary {
	s := &Summary{Results: []ImageResult{}}
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Processed++
		s.TotalCrops += len(r.Crops)
		s.Degenerate += r.Degenerate
		switch r.Outcome {
		case OutcomeCropped:
			s.Cropped++
		case OutcomeNoRegions:
			s.NoRegions++
		case OutcomeFallback:
			s.Fallbacks++
		default:
			s.Failed++
		}
		s.Results = append(s.Results, *r)
	}
	return s
}
