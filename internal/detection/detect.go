package detection

import "image"

// Detection is the outcome of running the full pipeline over one image.
type Detection struct {
	// Width and Height are the dimensions of the analysed image.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Candidates is the number of boxes that passed the region filters.
	Candidates int `json:"candidates"`

	// Resolved is the number of boxes left after overlap resolution.
	Resolved int `json:"resolved"`

	// Boxes are the surviving boxes in reading order.
	Boxes []BoundingBox `json:"boxes"`
}

// Found reports whether at least one label region survived.
func (d Detection) Found() bool {
	return len(d.Boxes) > 0
}

// Detect runs edge extraction, region finding, overlap resolution and spatial
// sorting over img.
//
// Box coordinates are relative to img.Bounds().Min. An image without any
// qualifying region yields a Detection with no boxes; this is a normal
// outcome, not an error.
func Detect(img image.Image, opts Options) Detection {
	bounds := img.Bounds()

	edges := EdgeMap(img, opts)
	candidates := FindRegions(edges, opts)
	resolved := ResolveOverlaps(candidates, opts)

	return Detection{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Candidates: len(candidates),
		Resolved:   len(resolved),
		Boxes:      SortReadingOrder(resolved, opts),
	}
}
