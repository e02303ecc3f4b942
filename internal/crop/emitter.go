package crop

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/label-crop-mcp/internal/detection"
)

// DefaultStem names crops whose source has no usable name.
const DefaultStem = "image"

// LabeledCrop is one emitted crop.
type LabeledCrop struct {
	// Image is an independent copy of the source pixels with the caption
	// drawn on it. Its bounds start at (0, 0).
	Image *image.NRGBA

	// SourceBox is the detected box, before the margin was applied.
	SourceBox detection.BoundingBox

	// CropBox is the margin-expanded, clamped rectangle actually copied.
	CropBox detection.BoundingBox

	// Ordinal is the 1-based position among emitted crops.
	Ordinal int

	// Caption is the text drawn on the crop.
	Caption string

	// Filename is Caption plus the .jpg extension.
	Filename string
}

// Result holds the crops emitted for one image.
type Result struct {
	Crops []LabeledCrop

	// Degenerate counts boxes skipped because their crop had zero area.
	Degenerate int
}

// Caption returns the caption for the crop with the given ordinal.
func Caption(stem string, ordinal int) string {
	if stem == "" {
		stem = DefaultStem
	}
	return fmt.Sprintf("%s_crop_%02d", stem, ordinal)
}

// Emit cuts one crop per box out of src.
//
// Boxes are in coordinates relative to src.Bounds().Min. src is never
// modified; every crop owns its pixels.
func Emit(src image.Image, boxes []detection.BoundingBox, stem string, opts Options) *Result {
	bounds := src.Bounds()
	local := image.Rect(0, 0, bounds.Dx(), bounds.Dy())
	pal := resolvePalette(opts.Caption)

	result := &Result{Crops: make([]LabeledCrop, 0, len(boxes))}
	for _, box := range boxes {
		r := box.Expand(opts.Margin, local)
		if r.Empty() {
			result.Degenerate++
			continue
		}

		img := imaging.Crop(src, r.Add(bounds.Min))
		ordinal := len(result.Crops) + 1
		caption := Caption(stem, ordinal)
		if opts.Caption.Enabled {
			drawCaption(img, caption, opts.Caption, pal)
		}

		result.Crops = append(result.Crops, LabeledCrop{
			Image:     img,
			SourceBox: box,
			CropBox:   fromRect(r),
			Ordinal:   ordinal,
			Caption:   caption,
			Filename:  caption + ".jpg",
		})
	}
	return result
}

// WholeImage emits src as a single captioned crop. It backs the zero-crop
// fallback policy.
func WholeImage(src image.Image, stem string, opts Options) *Result {
	b := src.Bounds()
	opts.Margin = 0
	return Emit(src, []detection.BoundingBox{{Width: b.Dx(), Height: b.Dy()}}, stem, opts)
}

func fromRect(r image.Rectangle) detection.BoundingBox {
	return detection.BoundingBox{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}
