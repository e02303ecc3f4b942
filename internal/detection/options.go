package detection

import "fmt"

// Options holds the tunable thresholds for every detection stage.
//
// Options is a plain value: stages receive a copy and never modify it. Use
// DefaultOptions and the With* helpers to derive variants.
type Options struct {
	// EdgeThreshold is the gradient magnitude above which a pixel becomes an
	// edge. The Sobel magnitude of an 8-bit image ranges over roughly 0-1443.
	EdgeThreshold float64

	// MinSize is the minimum width and height of a region in pixels. The
	// minimum area is MinSize squared.
	MinSize int

	// MaxAspectRatio is the largest accepted max(w,h)/min(w,h).
	MaxAspectRatio float64

	// MinDensity is the smallest accepted ratio of filled component area to
	// bounding box area.
	MinDensity float64

	// OverlapThreshold is the fractional overlap (intersection over the smaller
	// area) above which two boxes are treated as duplicates.
	OverlapThreshold float64

	// RowTolerance is the fraction of the topmost box's height within which
	// a box's Y still counts as the same row as the row's first box.
	RowTolerance float64

	// KernelSize is the side of the square structuring element used for
	// morphological closing and dilation.
	KernelSize int
}

// DefaultOptions returns the standard label detection thresholds.
func DefaultOptions() Options {
	return Options{
		EdgeThreshold:    195,
		MinSize:          100,
		MaxAspectRatio:   5.0,
		MinDensity:       0.1,
		OverlapThreshold: 0.1,
		RowTolerance:     0.3,
		KernelSize:       2,
	}
}

// WithEdgeThreshold returns a copy with a different edge threshold.
func (o Options) WithEdgeThreshold(threshold float64) Options {
	o.EdgeThreshold = threshold
	return o
}

// WithMinSize returns a copy with a different minimum region size.
func (o Options) WithMinSize(size int) Options {
	o.MinSize = size
	return o
}

// WithMaxAspectRatio returns a copy with a different aspect ratio limit.
func (o Options) WithMaxAspectRatio(ratio float64) Options {
	o.MaxAspectRatio = ratio
	return o
}

// WithOverlapThreshold returns a copy with a different dedup threshold.
func (o Options) WithOverlapThreshold(threshold float64) Options {
	o.OverlapThreshold = threshold
	return o
}

// Validate reports the first invalid field, if any.
func (o Options) Validate() error {
	switch {
	case o.EdgeThreshold < 0:
		return fmt.Errorf("edge threshold must be >= 0 (got %g)", o.EdgeThreshold)
	case o.MinSize < 1:
		return fmt.Errorf("min size must be >= 1 (got %d)", o.MinSize)
	case o.MaxAspectRatio < 1:
		return fmt.Errorf("max aspect ratio must be >= 1 (got %g)", o.MaxAspectRatio)
	case o.MinDensity < 0 || o.MinDensity > 1:
		return fmt.Errorf("min density must be within [0,1] (got %g)", o.MinDensity)
	case o.OverlapThreshold < 0 || o.OverlapThreshold > 1:
		return fmt.Errorf("overlap threshold must be within [0,1] (got %g)", o.OverlapThreshold)
	case o.RowTolerance < 0:
		return fmt.Errorf("row tolerance must be >= 0 (got %g)", o.RowTolerance)
	case o.KernelSize < 1:
		return fmt.Errorf("kernel size must be >= 1 (got %d)", o.KernelSize)
	}
	return nil
}
