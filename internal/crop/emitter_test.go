package crop

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/label-crop-mcp/internal/detection"
)

// createTestImage returns an image filled with c.
func createTestImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createGradientImage returns an image whose pixel (x, y) is (x, y, 0).
func createGradientImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	return img
}

func noCaption() Options {
	opts := DefaultOptions()
	opts.Caption.Enabled = false
	return opts
}

func TestCaption(t *testing.T) {
	tests := []struct {
		stem    string
		ordinal int
		want    string
	}{
		{"IMG_0042", 1, "IMG_0042_crop_01"},
		{"shelf", 12, "shelf_crop_12"},
		{"shelf", 123, "shelf_crop_123"},
		{"", 3, "image_crop_03"},
	}
	for _, tt := range tests {
		if got := Caption(tt.stem, tt.ordinal); got != tt.want {
			t.Errorf("Caption(%q, %d) = %q, want %q", tt.stem, tt.ordinal, got, tt.want)
		}
	}
}

func TestEmit_MarginAndClamp(t *testing.T) {
	src := createGradientImage(200, 200)
	boxes := []detection.BoundingBox{
		{X: 50, Y: 50, Width: 40, Height: 40},
		{X: 0, Y: 0, Width: 30, Height: 30},
		{X: 180, Y: 190, Width: 20, Height: 10},
	}

	result := Emit(src, boxes, "shelf", noCaption())

	want := []detection.BoundingBox{
		{X: 45, Y: 45, Width: 50, Height: 50},
		{X: 0, Y: 0, Width: 35, Height: 35},
		{X: 175, Y: 185, Width: 25, Height: 15},
	}
	if len(result.Crops) != len(want) {
		t.Fatalf("got %d crops, want %d", len(result.Crops), len(want))
	}
	for i, c := range result.Crops {
		if c.CropBox != want[i] {
			t.Errorf("crop %d: CropBox %+v, want %+v", i, c.CropBox, want[i])
		}
		if c.SourceBox != boxes[i] {
			t.Errorf("crop %d: SourceBox %+v, want %+v", i, c.SourceBox, boxes[i])
		}
		if c.Image.Bounds() != image.Rect(0, 0, want[i].Width, want[i].Height) {
			t.Errorf("crop %d: image bounds %v", i, c.Image.Bounds())
		}
		// Top-left pixel of the crop is the source pixel at the crop origin.
		if got := c.Image.NRGBAAt(0, 0); got != src.NRGBAAt(want[i].X, want[i].Y) {
			t.Errorf("crop %d: origin pixel %v, want %v", i, got, src.NRGBAAt(want[i].X, want[i].Y))
		}
	}
	if result.Degenerate != 0 {
		t.Errorf("Degenerate: got %d, want 0", result.Degenerate)
	}
}

func TestEmit_DenseOrdinalsSkipDegenerate(t *testing.T) {
	src := createTestImage(200, 200, color.White)
	boxes := []detection.BoundingBox{
		{X: 10, Y: 10, Width: 50, Height: 50},
		{X: 500, Y: 500, Width: 20, Height: 20}, // entirely outside
		{X: 100, Y: 100, Width: 50, Height: 50},
	}

	result := Emit(src, boxes, "IMG_1", noCaption())

	if result.Degenerate != 1 {
		t.Errorf("Degenerate: got %d, want 1", result.Degenerate)
	}
	if len(result.Crops) != 2 {
		t.Fatalf("got %d crops, want 2", len(result.Crops))
	}
	for i, c := range result.Crops {
		if c.Ordinal != i+1 {
			t.Errorf("crop %d: ordinal %d, want %d", i, c.Ordinal, i+1)
		}
	}
	if result.Crops[1].Caption != "IMG_1_crop_02" || result.Crops[1].Filename != "IMG_1_crop_02.jpg" {
		t.Errorf("second crop named %q / %q", result.Crops[1].Caption, result.Crops[1].Filename)
	}
	if result.Crops[1].SourceBox.X != 100 {
		t.Errorf("second crop should come from the third box, got %+v", result.Crops[1].SourceBox)
	}
}

func TestEmit_Empty(t *testing.T) {
	result := Emit(createTestImage(10, 10, color.White), nil, "x", DefaultOptions())
	if result == nil || len(result.Crops) != 0 || result.Degenerate != 0 {
		t.Errorf("unexpected result for no boxes: %+v", result)
	}
}

func TestEmit_IndependentCopies(t *testing.T) {
	src := createTestImage(100, 100, color.NRGBA{40, 80, 120, 255})
	boxes := []detection.BoundingBox{{X: 20, Y: 20, Width: 30, Height: 30}}

	result := Emit(src, boxes, "a", DefaultOptions())
	result.Crops[0].Image.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})

	if got := src.NRGBAAt(15, 15); got != (color.NRGBA{40, 80, 120, 255}) {
		t.Errorf("source modified: %v", got)
	}
}

func TestEmit_NonZeroOrigin(t *testing.T) {
	full := createGradientImage(120, 120)
	sub := full.SubImage(image.Rect(20, 30, 120, 120))

	result := Emit(sub, []detection.BoundingBox{{X: 10, Y: 10, Width: 20, Height: 20}}, "s", noCaption())
	if len(result.Crops) != 1 {
		t.Fatalf("got %d crops, want 1", len(result.Crops))
	}
	// Box (10,10) with margin 5 starts at local (5,5) = absolute (25,35).
	if got := result.Crops[0].Image.NRGBAAt(0, 0); got != full.NRGBAAt(25, 35) {
		t.Errorf("origin pixel %v, want %v", got, full.NRGBAAt(25, 35))
	}
}

func TestWholeImage(t *testing.T) {
	src := createTestImage(64, 48, color.White)

	result := WholeImage(src, "fallback", DefaultOptions())

	if len(result.Crops) != 1 {
		t.Fatalf("got %d crops, want 1", len(result.Crops))
	}
	c := result.Crops[0]
	if c.CropBox != (detection.BoundingBox{Width: 64, Height: 48}) {
		t.Errorf("CropBox: got %+v", c.CropBox)
	}
	if c.Caption != "fallback_crop_01" || c.Ordinal != 1 {
		t.Errorf("caption/ordinal: %q / %d", c.Caption, c.Ordinal)
	}
}

func TestOptions_ValidateRejects(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"negative margin", func(o *Options) { o.Margin = -1 }},
		{"quality zero", func(o *Options) { o.JPEGQuality = 0 }},
		{"quality above 100", func(o *Options) { o.JPEGQuality = 101 }},
		{"negative padding", func(o *Options) { o.Caption.Padding = -2 }},
		{"bad background", func(o *Options) { o.Caption.Background = "white" }},
		{"bad text colour", func(o *Options) { o.Caption.Text = "#12" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			if err := opts.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
