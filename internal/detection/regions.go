package detection

import "image"

// Region is an outer connected component of an edge map before filtering.
type Region struct {
	// Box is the bounding box of the component.
	Box BoundingBox `json:"box"`

	// FilledArea is the number of pixels enclosed by the component's outer
	// boundary: its own pixels plus the holes it surrounds.
	FilledArea int `json:"filled_area"`

	// Density is FilledArea divided by Box.Area().
	Density float64 `json:"density"`
}

// FindRegions extracts candidate label boxes from a binary edge map.
//
// The edge map is first closed (dilate then erode) and dilated once more with
// an opts.KernelSize square so that fragments of the same printed block merge.
// Outer connected components are then reduced to bounding boxes, and a box is
// kept only when all of the following hold:
//
//   - Width*Height >= MinSize²
//   - Width >= MinSize and Height >= MinSize
//   - max(Width,Height) / min(Width,Height) <= MaxAspectRatio
//   - FilledArea / (Width*Height) >= MinDensity
//
// Boxes are returned in discovery order (raster order of each component's first
// pixel). The input map is not modified.
func FindRegions(edges *image.Gray, opts Options) []BoundingBox {
	regions := TraceRegions(edges, opts)

	boxes := make([]BoundingBox, 0, len(regions))
	for _, r := range regions {
		if opts.accepts(r) {
			boxes = append(boxes, r.Box)
		}
	}
	return boxes
}

// TraceRegions runs the morphology and component extraction of FindRegions and
// returns every outer component without applying the geometric filters.
func TraceRegions(edges *image.Gray, opts Options) []Region {
	k := opts.KernelSize
	if k < 1 {
		k = 1
	}
	mask := dilate(erode(dilate(normalize(edges), k), k), k)
	return outerComponents(mask)
}

// accepts applies the size, shape and density filters to r.
func (o Options) accepts(r Region) bool {
	w, h := r.Box.Width, r.Box.Height
	if w*h < o.MinSize*o.MinSize {
		return false
	}
	if w < o.MinSize || h < o.MinSize {
		return false
	}
	if float64(max(w, h))/float64(min(w, h)) > o.MaxAspectRatio {
		return false
	}
	return r.Density >= o.MinDensity
}

// normalize copies edges into a zero-origin buffer where any non-zero pixel is
// Foreground.
func normalize(edges *image.Gray) *image.Gray {
	bounds := edges.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := edges.Pix[edges.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < width; x++ {
			if src[x] != Background {
				dst[x] = Foreground
			}
		}
	}
	return out
}

// kernelSpan returns the neighbour offsets [lo, hi] of a k-wide structuring
// element anchored at k/2.
func kernelSpan(k int) (lo, hi int) {
	anchor := k / 2
	return -anchor, k - 1 - anchor
}

// dilate sets a pixel when any pixel under the structuring element is set.
// Neighbours outside the image do not contribute.
func dilate(src *image.Gray, k int) *image.Gray {
	lo, hi := kernelSpan(k)
	return morph(src, lo, hi, false)
}

// erode keeps a pixel only when every in-image pixel under the reflected
// structuring element is set, so that erode(dilate(x)) is a true closing.
func erode(src *image.Gray, k int) *image.Gray {
	lo, hi := kernelSpan(k)
	return morph(src, -hi, -lo, true)
}

func morph(src *image.Gray, lo, hi int, all bool) *image.Gray {
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			hit := all
		scan:
			for dy := lo; dy <= hi; dy++ {
				py := y + dy
				if py < 0 || py >= height {
					continue
				}
				for dx := lo; dx <= hi; dx++ {
					px := x + dx
					if px < 0 || px >= width {
						continue
					}
					set := src.Pix[py*src.Stride+px] == Foreground
					if all && !set {
						hit = false
						break scan
					}
					if !all && set {
						hit = true
						break scan
					}
				}
			}
			if hit {
				out.Pix[y*out.Stride+x] = Foreground
			}
		}
	}
	return out
}

// outerComponents returns one Region per outer boundary in mask.
//
// Background reachable from the image border through 4-connected background
// pixels is "outside". Every 8-connected group of the remaining pixels is a
// foreground component together with the holes it encloses; components nested
// inside another component's hole are absorbed by it, so only outer
// boundaries are reported.
func outerComponents(mask *image.Gray) []Region {
	width, height := mask.Bounds().Dx(), mask.Bounds().Dy()
	n := width * height
	if n == 0 {
		return nil
	}

	set := func(i int) bool {
		return mask.Pix[(i/width)*mask.Stride+i%width] == Foreground
	}

	outside := make([]bool, n)
	queue := make([]int, 0, 2*(width+height))
	seed := func(i int) {
		if !outside[i] && !set(i) {
			outside[i] = true
			queue = append(queue, i)
		}
	}
	for x := 0; x < width; x++ {
		seed(x)
		seed((height-1)*width + x)
	}
	for y := 0; y < height; y++ {
		seed(y * width)
		seed(y*width + width - 1)
	}
	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		x, y := i%width, i/width
		if x > 0 {
			seed(i - 1)
		}
		if x < width-1 {
			seed(i + 1)
		}
		if y > 0 {
			seed(i - width)
		}
		if y < height-1 {
			seed(i + width)
		}
	}

	visited := make([]bool, n)
	regions := make([]Region, 0)
	for start := 0; start < n; start++ {
		if outside[start] || visited[start] {
			continue
		}

		minX, minY := width, height
		maxX, maxY := -1, -1
		count := 0

		visited[start] = true
		stack := []int{start}
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%width, i/width
			count++
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)

			for dy := -1; dy <= 1; dy++ {
				ny := y + dy
				if ny < 0 || ny >= height {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if (dx == 0 && dy == 0) || nx < 0 || nx >= width {
						continue
					}
					j := ny*width + nx
					if !outside[j] && !visited[j] {
						visited[j] = true
						stack = append(stack, j)
					}
				}
			}
		}

		box := BoundingBox{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
		regions = append(regions, Region{
			Box:        box,
			FilledArea: count,
			Density:    float64(count) / float64(box.Area()),
		})
	}
	return regions
}
