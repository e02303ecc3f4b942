package crop

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/label-crop-mcp/internal/imaging"
)

// textInsetY is the gap between the plate's top border and the text cell.
const textInsetY = 6

// plateExtraHeight is added to the text height to give the plate height.
const plateExtraHeight = 12

type palette struct {
	background color.NRGBA
	border     color.NRGBA
	text       color.NRGBA
}

// resolvePalette parses the caption colours, falling back to the defaults
// for any that do not parse.
func resolvePalette(c CaptionOptions) palette {
	def := DefaultOptions().Caption
	pick := func(hex, fallback string) color.NRGBA {
		if col, err := imaging.ParseHexColor(hex); err == nil {
			return col
		}
		return imaging.MustParseHexColor(fallback)
	}
	return palette{
		background: pick(c.Background, def.Background),
		border:     pick(c.Border, def.Border),
		text:       pick(c.Text, def.Text),
	}
}

// plateRect computes where the caption plate for text goes on an image of
// the given size. ok is false when the image is too narrow for any plate.
func plateRect(size image.Point, text string, padding int) (plate image.Rectangle, ok bool) {
	face := basicfont.Face7x13
	textW := font.MeasureString(face, text).Ceil()
	textH := face.Metrics().Height.Ceil()

	width := min(textW+2*padding, size.X-2*padding)
	if width <= 0 {
		return image.Rectangle{}, false
	}

	x := padding
	y := size.Y - textH - 2*padding
	return image.Rect(x, y, x+width, y+textH+plateExtraHeight), true
}

// drawCaption paints the caption plate and its text onto img in place.
func drawCaption(img *image.NRGBA, text string, opts CaptionOptions, pal palette) {
	plate, ok := plateRect(img.Bounds().Size(), text, opts.Padding)
	if !ok {
		return
	}
	plate = plate.Add(img.Bounds().Min)

	bounds := img.Bounds()
	draw.Draw(img, plate.Intersect(bounds), image.NewUniform(pal.background), image.Point{}, draw.Src)
	strokeBorder(img, plate, pal.border)

	// Text is clipped to the plate interior.
	inner := plate.Inset(1).Intersect(bounds)
	if inner.Empty() {
		return
	}
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img.SubImage(inner).(*image.NRGBA),
		Src:  image.NewUniform(pal.text),
		Face: face,
		Dot:  fixed.P(plate.Min.X+opts.Padding, plate.Min.Y+textInsetY+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// strokeBorder draws a 1px outline along the inside of r.
func strokeBorder(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	src := image.NewUniform(c)
	bounds := img.Bounds()
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(img, edge.Intersect(bounds), src, image.Point{}, draw.Src)
	}
}
