package crop

import (
	"bufio"
	"fmt"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/ironsheep/label-crop-mcp/internal/errors"
)

// EncodeJPEG writes the crop to w as a JPEG.
func (c LabeledCrop) EncodeJPEG(w io.Writer, quality int) error {
	if err := jpeg.Encode(w, c.Image, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.Filename, err)
	}
	return nil
}

// WriteAll writes every crop into dir, creating it if needed, and returns the
// written paths in crop order. Existing files with the same names are
// replaced. When any crop fails, the files written by this call are removed
// and no paths are returned.
func WriteAll(dir string, crops []LabeledCrop, quality int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.NewProcessingError("failed to create output directory", dir, err)
	}

	paths := make([]string, 0, len(crops))
	for _, c := range crops {
		path := filepath.Join(dir, c.Filename)
		if err := writeFile(path, c, quality); err != nil {
			removeAll(paths)
			return nil, apperrors.NewProcessingError("failed to write crop", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, c LabeledCrop, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	err = c.EncodeJPEG(w, quality)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}

func removeAll(paths []string) {
	for _, p := range paths {
		os.Remove(p)
	}
}
