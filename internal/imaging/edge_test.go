package imaging

import (
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ironsheep/label-crop-mcp/internal/detection"
)

// createEdgeTestImage draws a black rectangle on a white background.
func createEdgeTestImage(width, height int) *image.RGBA {
	img := createTestImage(width, height, color.White)
	for y := height / 4; y < 3*height/4; y++ {
		for x := width / 4; x < 3*width/4; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}

func TestEdgeMapPreview(t *testing.T) {
	img := createEdgeTestImage(100, 100)

	result, err := EdgeMapPreview(img, detection.DefaultOptions())
	if err != nil {
		t.Fatalf("EdgeMapPreview failed: %v", err)
	}
	if result.Width != 100 || result.Height != 100 {
		t.Errorf("dimensions: got %dx%d, want 100x100", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}
	if result.EdgePixels == 0 {
		t.Error("expected edge pixels around the rectangle")
	}
	if result.EdgeFraction <= 0 || result.EdgeFraction >= 1 {
		t.Errorf("EdgeFraction out of range: %g", result.EdgeFraction)
	}

	decoded := decodeBase64Image(t, result.ImageBase64, png.Decode)
	edges := detection.EdgeMap(img, detection.DefaultOptions())
	for _, p := range []image.Point{{5, 5}, {50, 50}, {24, 50}, {25, 50}} {
		got, _, _, _ := decoded.At(p.X, p.Y).RGBA()
		want := uint32(edges.GrayAt(p.X, p.Y).Y)
		if got>>8 != want {
			t.Errorf("pixel %v: got %d, want %d", p, got>>8, want)
		}
	}
}

func TestEdgeMapPreview_UniformImage(t *testing.T) {
	img := createTestImage(50, 50, color.Gray{128})

	result, err := EdgeMapPreview(img, detection.DefaultOptions())
	if err != nil {
		t.Fatalf("EdgeMapPreview failed: %v", err)
	}
	if result.EdgePixels != 0 || result.EdgeFraction != 0 {
		t.Errorf("uniform image: got %d edge pixels", result.EdgePixels)
	}
}

func TestEdgeMapPreview_Threshold(t *testing.T) {
	img := createEdgeTestImage(60, 60)

	low, err := EdgeMapPreview(img, detection.DefaultOptions().WithEdgeThreshold(10))
	if err != nil {
		t.Fatal(err)
	}
	high, err := EdgeMapPreview(img, detection.DefaultOptions().WithEdgeThreshold(1000))
	if err != nil {
		t.Fatal(err)
	}
	if low.EdgePixels < high.EdgePixels {
		t.Errorf("lower threshold found fewer edges: %d < %d", low.EdgePixels, high.EdgePixels)
	}
	if low.Threshold != 10 || high.Threshold != 1000 {
		t.Errorf("threshold not reported: %g, %g", low.Threshold, high.Threshold)
	}
}
