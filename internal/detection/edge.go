package detection

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/convolution"
)

// Edge map pixel values.
const (
	Background uint8 = 0
	Foreground uint8 = 255
)

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// gaussian3 is the normalised binomial 3x3 Gaussian kernel.
var gaussian3 = func() convolution.Matrix {
	k := convolution.NewKernel(3, 3)
	copy(k.Matrix, []float64{
		1, 2, 1,
		2, 4, 2,
		1, 2, 1,
	})
	return k.Normalized()
}()

// EdgeMap converts img into a binary edge map of the same size.
//
// Pixels whose Sobel gradient magnitude is strictly greater than
// opts.EdgeThreshold become Foreground (255); all others become Background (0).
// The returned image always has its origin at (0, 0).
//
// # Algorithm
//
//  1. Grayscale conversion with ITU-R BT.601 luma weights
//     (0.299*R + 0.587*G + 0.114*B), rounded to 8 bits.
//  2. 3x3 Gaussian smoothing ([1 2 1] ⊗ [1 2 1] / 16) with replicated borders.
//  3. Sobel X and Y responses with replicated borders,
//     magnitude = sqrt(Gx² + Gy²).
//  4. Threshold.
//
// Flat regions produce zero gradient and therefore no edges. Images with a
// single row or column are handled like any other size.
func EdgeMap(img image.Image, opts Options) *image.Gray {
	gray := Grayscale(img)
	smoothed := smooth(gray)

	bounds := smoothed.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	edges := image.NewGray(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				py := clamp(y+ky, 0, height-1)
				row := smoothed.Pix[py*smoothed.Stride:]
				for kx := -1; kx <= 1; kx++ {
					px := clamp(x+kx, 0, width-1)
					v := float64(row[px])
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			if math.Sqrt(gx*gx+gy*gy) > opts.EdgeThreshold {
				edges.Pix[y*edges.Stride+x] = Foreground
			}
		}
	}
	return edges
}

// Grayscale returns an 8-bit luma copy of img with its origin at (0, 0).
func Grayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	gray := image.NewGray(image.Rect(0, 0, width, height))

	if src, ok := img.(*image.Gray); ok {
		for y := 0; y < height; y++ {
			srcOff := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(gray.Pix[y*gray.Stride:y*gray.Stride+width], src.Pix[srcOff:srcOff+width])
		}
		return gray
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gray.Pix[y*gray.Stride+x] = luma(img.At(x+bounds.Min.X, y+bounds.Min.Y))
		}
	}
	return gray
}

// luma applies BT.601 weights to the 8-bit components of c.
func luma(c color.Color) uint8 {
	r, g, b, _ := c.RGBA()
	l := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
	return uint8(math.Min(l+0.5, 255))
}

// smooth applies the 3x3 Gaussian and keeps one channel of the result.
func smooth(gray *image.Gray) *image.Gray {
	if gray.Bounds().Empty() {
		return gray
	}
	blurred := convolution.Convolve(gray, gaussian3, &convolution.Options{Wrap: false, KeepAlpha: true})

	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	rb := blurred.Bounds()
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			out.Pix[y*out.Stride+x] = blurred.Pix[blurred.PixOffset(rb.Min.X+x, rb.Min.Y+y)]
		}
	}
	return out
}

// clamp constrains val to [lo, hi]. Used for replicated-border convolution.
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
