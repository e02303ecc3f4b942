package crop

import (
	apperrors "github.com/ironsheep/label-crop-mcp/internal/errors"
	"github.com/ironsheep/label-crop-mcp/internal/imaging"
)

// CaptionOptions controls the caption plate drawn on each crop.
type CaptionOptions struct {
	Enabled    bool
	Background string
	Border     string
	Text       string

	// Padding is the gap between the plate and the crop's left and bottom
	// edges, and between the plate border and the text.
	Padding int
}

// Options configures the crop emitter.
type Options struct {
	// Margin is added on every side of a box before clamping to the image.
	Margin int

	// JPEGQuality is used when crops are encoded (1-100).
	JPEGQuality int

	Caption CaptionOptions
}

// DefaultOptions returns the standard emitter settings.
func DefaultOptions() Options {
	return Options{
		Margin:      5,
		JPEGQuality: 95,
		Caption: CaptionOptions{
			Enabled:    true,
			Background: "#FFFFFF",
			Border:     "#000000",
			Text:       "#000000",
			Padding:    8,
		},
	}
}

// Validate checks the settings and the caption colours.
func (o Options) Validate() error {
	if o.Margin < 0 {
		return apperrors.NewValidationError("crop margin must be >= 0", nil)
	}
	if o.JPEGQuality < 1 || o.JPEGQuality > 100 {
		return apperrors.NewValidationError("jpeg quality must be in [1, 100]", nil)
	}
	if o.Caption.Padding < 0 {
		return apperrors.NewValidationError("caption padding must be >= 0", nil)
	}
	for _, hex := range []string{o.Caption.Background, o.Caption.Border, o.Caption.Text} {
		if _, err := imaging.ParseHexColor(hex); err != nil {
			return apperrors.NewValidationError("invalid caption colour", err)
		}
	}
	return nil
}
