package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/label-crop-mcp/internal/detection"
)

// DefaultOverlayColor is the outline colour used when none is given.
const DefaultOverlayColor = "#FF0000"

// DrawBoxes returns a copy of img with every box outlined and tagged with its
// 1-based position in boxes.
//
// Box coordinates are relative to img.Bounds().Min, as returned by
// detection.Detect. The source image is not modified.
func DrawBoxes(img image.Image, boxes []detection.BoundingBox, outlineHex string, thickness int) *image.NRGBA {
	out := imaging.Clone(img)

	outline, err := ParseHexColor(outlineHex)
	if err != nil {
		outline = MustParseHexColor(DefaultOverlayColor)
	}
	if thickness < 1 {
		thickness = 1
	}

	for i, b := range boxes {
		r := b.Rect()
		strokeRect(out, r, outline, thickness)
		drawTag(out, r.Min, strconv.Itoa(i+1), outline)
	}
	return out
}

func strokeRect(dst *image.NRGBA, r image.Rectangle, c color.Color, t int) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t),
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y),
		image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}

// drawTag draws text in white on a filled block just inside the top-left
// corner of a box.
func drawTag(dst *image.NRGBA, at image.Point, text string, bg color.Color) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil() + 4
	h := face.Metrics().Height.Ceil() + 2

	block := image.Rect(at.X, at.Y, at.X+w, at.Y+h).Intersect(dst.Bounds())
	if block.Empty() {
		return
	}
	draw.Draw(dst, block, image.NewUniform(bg), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  dst.SubImage(block).(*image.NRGBA),
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(at.X+2, at.Y+1+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}
