package detection

import (
	"sort"

	"github.com/tidwall/rtree"
)

// ResolveOverlaps removes duplicate and nested boxes.
//
// Candidates are visited largest area first (ties keep their input order) and
// accepted greedily. A candidate is rejected when, against any box already
// accepted:
//
//   - the fractional overlap (intersection / smaller area) exceeds
//     opts.OverlapThreshold, or
//   - either box fully contains the other.
//
// Boxes are never merged or resized. The returned slice is a new slice in
// acceptance order; the input is left untouched.
func ResolveOverlaps(boxes []BoundingBox, opts Options) []BoundingBox {
	if len(boxes) == 0 {
		return []BoundingBox{}
	}

	ordered := make([]BoundingBox, len(boxes))
	copy(ordered, boxes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Area() > ordered[j].Area()
	})

	// Only accepted boxes that touch the candidate can overlap or contain it.
	var accepted rtree.RTreeG[BoundingBox]
	kept := make([]BoundingBox, 0, len(ordered))

	for _, candidate := range ordered {
		lo, hi := treeRect(candidate)
		duplicate := false
		accepted.Search(lo, hi, func(_, _ [2]float64, existing BoundingBox) bool {
			if dominates(existing, candidate, opts.OverlapThreshold) {
				duplicate = true
				return false
			}
			return true
		})
		if duplicate {
			continue
		}
		accepted.Insert(lo, hi, candidate)
		kept = append(kept, candidate)
	}
	return kept
}

// dominates reports whether an accepted box suppresses candidate.
func dominates(existing, candidate BoundingBox, threshold float64) bool {
	if existing.Overlap(candidate) > threshold {
		return true
	}
	return existing.Contains(candidate) || candidate.Contains(existing)
}

func treeRect(b BoundingBox) (lo, hi [2]float64) {
	lo = [2]float64{float64(b.X), float64(b.Y)}
	hi = [2]float64{float64(b.X + b.Width), float64(b.Y + b.Height)}
	return lo, hi
}
