package detection

import (
	"math"
	"sort"
)

// SortReadingOrder arranges boxes top-to-bottom in rows, left-to-right within
// each row.
//
// Boxes are sorted by Y and the row tolerance is RowTolerance times the height
// of the topmost box. The first box opens a row and becomes its anchor; each
// following box joins the row while |box.Y - anchor.Y| <= tolerance, and
// otherwise opens a new row with itself as anchor. Rows are emitted in the
// order they were opened, each sorted by X.
//
// Ties are broken on the remaining coordinates, so the result depends only on
// the set of boxes and sorting an already sorted slice returns it unchanged.
// The input is not modified; an empty input yields an empty slice.
func SortReadingOrder(boxes []BoundingBox, opts Options) []BoundingBox {
	result := make([]BoundingBox, 0, len(boxes))
	for _, row := range Rows(boxes, opts) {
		result = append(result, row...)
	}
	return result
}

// Rows groups boxes into reading-order rows using the same rule as
// SortReadingOrder. Each returned row is sorted by X.
func Rows(boxes []BoundingBox, opts Options) [][]BoundingBox {
	if len(boxes) == 0 {
		return nil
	}

	byY := make([]BoundingBox, len(boxes))
	copy(byY, boxes)
	sort.SliceStable(byY, func(i, j int) bool {
		return lessYX(byY[i], byY[j])
	})

	// One tolerance for every row, taken from the topmost box.
	tolerance := opts.RowTolerance * float64(byY[0].Height)

	var rows [][]BoundingBox
	current := []BoundingBox{byY[0]}
	for _, b := range byY[1:] {
		anchor := current[0]
		if math.Abs(float64(b.Y-anchor.Y)) <= tolerance {
			current = append(current, b)
			continue
		}
		rows = append(rows, current)
		current = []BoundingBox{b}
	}
	rows = append(rows, current)

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return lessXY(row[i], row[j])
		})
	}
	return rows
}

func lessYX(a, b BoundingBox) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Width != b.Width {
		return a.Width < b.Width
	}
	return a.Height < b.Height
}

func lessXY(a, b BoundingBox) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	if a.Width != b.Width {
		return a.Width < b.Width
	}
	return a.Height < b.Height
}
