package detection

import (
	"image"
	"math"
	"testing"
)

func TestBoundingBox_Intersection(t *testing.T) {
	a := BoundingBox{X: 0, Y: 0, Width: 100, Height: 100}

	tests := []struct {
		name string
		b    BoundingBox
		want int
	}{
		{"identical", a, 10000},
		{"partial", BoundingBox{X: 50, Y: 50, Width: 100, Height: 100}, 2500},
		{"touching", BoundingBox{X: 100, Y: 0, Width: 10, Height: 10}, 0},
		{"disjoint", BoundingBox{X: 200, Y: 200, Width: 10, Height: 10}, 0},
		{"inside", BoundingBox{X: 10, Y: 10, Width: 10, Height: 20}, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersection(tt.b); got != tt.want {
				t.Errorf("a∩b: got %d, want %d", got, tt.want)
			}
			if got := tt.b.Intersection(a); got != tt.want {
				t.Errorf("b∩a: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBoundingBox_Overlap(t *testing.T) {
	a := BoundingBox{X: 0, Y: 0, Width: 200, Height: 200}
	b := BoundingBox{X: 10, Y: 10, Width: 190, Height: 190}

	if got := a.Overlap(b); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("nested overlap: got %f, want 1.0", got)
	}

	c := BoundingBox{X: 150, Y: 0, Width: 100, Height: 100}
	// intersection 50*100 = 5000, smaller area 10000
	if got := a.Overlap(c); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("partial overlap: got %f, want 0.5", got)
	}
}

func TestBoundingBox_Contains(t *testing.T) {
	outer := BoundingBox{X: 0, Y: 0, Width: 200, Height: 200}

	if !outer.Contains(BoundingBox{X: 10, Y: 10, Width: 190, Height: 190}) {
		t.Error("expected nested box to be contained")
	}
	if !outer.Contains(outer) {
		t.Error("a box contains itself")
	}
	if outer.Contains(BoundingBox{X: 10, Y: 10, Width: 191, Height: 10}) {
		t.Error("box crossing the right edge is not contained")
	}
}

func TestBoundingBox_Expand(t *testing.T) {
	bounds := image.Rect(0, 0, 300, 200)

	tests := []struct {
		name   string
		box    BoundingBox
		margin int
		want   image.Rectangle
	}{
		{"interior", BoundingBox{X: 50, Y: 50, Width: 100, Height: 100}, 5, image.Rect(45, 45, 155, 155)},
		{"clamped top-left", BoundingBox{X: 2, Y: 3, Width: 50, Height: 50}, 5, image.Rect(0, 0, 57, 58)},
		{"clamped bottom-right", BoundingBox{X: 250, Y: 150, Width: 50, Height: 50}, 5, image.Rect(245, 145, 300, 200)},
		{"outside", BoundingBox{X: 400, Y: 400, Width: 10, Height: 10}, 5, image.Rectangle{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.box.Expand(tt.margin, bounds)
			if tt.want.Empty() {
				if !got.Empty() {
					t.Errorf("got %v, want empty", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
