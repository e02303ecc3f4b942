package imaging

import (
	"bytes"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	apperrors "github.com/ironsheep/label-crop-mcp/internal/errors"
)

// supportedExtensions lists the lowercase file extensions IsSupported accepts.
var supportedExtensions = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".gif":  "gif",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
	".webp": "webp",
}

// ImageInfo contains metadata about a decoded image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format name reported by the decoder: "jpeg", "png",
	// "gif", "bmp", "tiff" or "webp".
	Format string `json:"format"`

	// SizeBytes is the size of the encoded source in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// Loaded is a decoded image together with its metadata.
type Loaded struct {
	Image image.Image
	Info  ImageInfo
}

// Decode reads and decodes one image from r. Read failures are reported as
// ErrorTypeUnreadable, decode failures as ErrorTypeDecode; name is only used
// in error messages.
func Decode(r io.Reader, name string) (*Loaded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewUnreadableError(name, err)
	}
	return DecodeBytes(data, name)
}

// DecodeBytes decodes an in-memory encoded image.
func DecodeBytes(data []byte, name string) (*Loaded, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewDecodeError(name, err)
	}

	bounds := img.Bounds()
	return &Loaded{
		Image: img,
		Info: ImageInfo{
			Width:     bounds.Dx(),
			Height:    bounds.Dy(),
			Format:    format,
			SizeBytes: int64(len(data)),
		},
	}, nil
}

// LoadFile reads and decodes the image at path.
//
// A missing or unreadable file yields ErrorTypeUnreadable; a file whose
// contents are not a supported image yields ErrorTypeDecode.
func LoadFile(path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewUnreadableError(path, err)
	}
	return DecodeBytes(data, path)
}

// IsSupported reports whether path has an extension of a decodable format.
func IsSupported(path string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Stem returns the file name of path without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
