package imaging

import (
	"image"

	"github.com/ironsheep/label-crop-mcp/internal/detection"
)

// EdgeMapResult contains the binary edge map of an image as a base64 PNG.
//
// White pixels (255) are edges, black pixels (0) are not. The map is the
// exact input the region finder sees for the same options.
type EdgeMapResult struct {
	EncodedImage

	// EdgePixels is the number of white pixels in the map.
	EdgePixels int `json:"edge_pixels"`

	// EdgeFraction is EdgePixels divided by the pixel count.
	EdgeFraction float64 `json:"edge_fraction"`

	// Threshold is the gradient magnitude threshold that produced the map.
	Threshold float64 `json:"threshold"`
}

// EdgeMapPreview runs the detector's edge extractor over img and encodes the
// result for inspection.
//
// Useful for tuning the edge threshold: labels that do not show a closed
// white outline in the preview will not be found by the region finder.
func EdgeMapPreview(img image.Image, opts detection.Options) (*EdgeMapResult, error) {
	edges := detection.EdgeMap(img, opts)

	enc, err := EncodePNG(edges)
	if err != nil {
		return nil, err
	}

	count := 0
	for _, v := range edges.Pix {
		if v == detection.Foreground {
			count++
		}
	}

	fraction := 0.0
	if n := len(edges.Pix); n > 0 {
		fraction = float64(count) / float64(n)
	}

	return &EdgeMapResult{
		EncodedImage: *enc,
		EdgePixels:   count,
		EdgeFraction: fraction,
		Threshold:    opts.EdgeThreshold,
	}, nil
}
