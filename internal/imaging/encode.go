package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
)

// EncodedImage is an image serialised for a tool response.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as a base64 PNG.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return encoded(img, buf.Bytes(), "image/png"), nil
}

// EncodeJPEG encodes img as a base64 JPEG at the given quality (1-100).
func EncodeJPEG(img image.Image, quality int) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return encoded(img, buf.Bytes(), "image/jpeg"), nil
}

func encoded(img image.Image, data []byte, mime string) *EncodedImage {
	bounds := img.Bounds()
	return &EncodedImage{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    mime,
	}
}
