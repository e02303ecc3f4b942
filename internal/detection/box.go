package detection

import "image"

// BoundingBox is an axis-aligned rectangle in pixel coordinates.
//
// The box covers columns [X, X+Width) and rows [Y, Y+Height). Boxes produced by
// this package always have positive Width and Height and non-negative X and Y.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns Width × Height.
func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

// Rect converts the box to an image.Rectangle.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Intersection returns the area shared by b and o, or 0 if they do not overlap.
func (b BoundingBox) Intersection(o BoundingBox) int {
	x1 := max(b.X, o.X)
	y1 := max(b.Y, o.Y)
	x2 := min(b.X+b.Width, o.X+o.Width)
	y2 := min(b.Y+b.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	return (x2 - x1) * (y2 - y1)
}

// Overlap returns the intersection area divided by the smaller of the two
// areas, in the range [0, 1].
func (b BoundingBox) Overlap(o BoundingBox) float64 {
	inter := b.Intersection(o)
	if inter == 0 {
		return 0
	}
	return float64(inter) / float64(min(b.Area(), o.Area()))
}

// Contains reports whether o lies entirely within b. Shared edges count as
// contained.
func (b BoundingBox) Contains(o BoundingBox) bool {
	return o.X >= b.X && o.Y >= b.Y &&
		o.X+o.Width <= b.X+b.Width &&
		o.Y+o.Height <= b.Y+b.Height
}

// Expand grows the box by margin on every side and clips it to bounds. The
// result may be empty when the box lies outside bounds.
func (b BoundingBox) Expand(margin int, bounds image.Rectangle) image.Rectangle {
	r := image.Rect(b.X-margin, b.Y-margin, b.X+b.Width+margin, b.Y+b.Height+margin)
	return r.Intersect(bounds)
}
