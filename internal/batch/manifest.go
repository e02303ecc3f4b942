package batch

import (
	"archive/zip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/ironsheep/label-crop-mcp/internal/errors"
)

func (p *Processor) writeOutputs(s *Summary) error {
	if err := os.MkdirAll(p.opts.OutputDir, 0o755); err != nil {
		return apperrors.NewProcessingError("failed to create output directory", p.opts.OutputDir, err)
	}

	if p.opts.Archive != "" {
		path := filepath.Join(p.opts.OutputDir, p.opts.Archive)
		if err := writeArchive(path, cropFiles(s)); err != nil {
			return apperrors.NewProcessingError("failed to write archive", path, err)
		}
		s.Archive = path
	}

	if p.opts.Manifest != "" {
		path := filepath.Join(p.opts.OutputDir, p.opts.Manifest)
		s.Manifest = path
		if err := writeManifest(path, s); err != nil {
			s.Manifest = ""
			return apperrors.NewProcessingError("failed to write manifest", path, err)
		}
	}
	return nil
}

// ReadManifest loads a manifest written by ProcessBatch.
func ReadManifest(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewUnreadableError(path, err)
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, apperrors.NewValidationError("invalid manifest", err)
	}
	return &s, nil
}

func writeManifest(path string, s *Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// cropFiles lists every written crop file in result order.
func cropFiles(s *Summary) []string {
	var files []string
	for _, r := range s.Results {
		for _, c := range r.Crops {
			if c.File != "" {
				files = append(files, c.File)
			}
		}
	}
	return files
}

// writeArchive stores files in a ZIP at path under their base names.
func writeArchive(path string, files []string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(out)
	for _, f := range files {
		if err := addToArchive(zw, f); err != nil {
			zw.Close()
			out.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func addToArchive(zw *zip.Writer, file string) error {
	src, err := os.Open(file)
	if err != nil {
		return err
	}
	defer src.Close()

	// Crops are stored uncompressed.
	w, err := zw.CreateHeader(&zip.FileHeader{Name: filepath.Base(file), Method: zip.Store})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
