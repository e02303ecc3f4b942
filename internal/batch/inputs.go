package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ironsheep/label-crop-mcp/internal/crop"
	apperrors "github.com/ironsheep/label-crop-mcp/internal/errors"
	"github.com/ironsheep/label-crop-mcp/internal/imaging"
)

// CollectInputs expands paths into the list of image files to process.
//
// Directories contribute their supported image files (not recursively) in
// name order. Plain file arguments are kept as given, even when they do not
// exist, so that the run records them as unreadable. Duplicates are dropped.
func CollectInputs(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			add(p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, apperrors.NewUnreadableError(p, err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Type().IsRegular() && imaging.IsSupported(e.Name()) {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			add(filepath.Join(p, name))
		}
	}

	if len(files) == 0 {
		return nil, apperrors.NewNotFoundError("no images to process", "")
	}
	return files, nil
}

// uniqueStems assigns each input a crop name stem. Inputs that share a stem
// get a numeric suffix so their crop files do not collide.
func uniqueStems(files []string) []string {
	stems := make([]string, len(files))
	taken := make(map[string]bool)
	for i, f := range files {
		base := imaging.Stem(f)
		if base == "" {
			base = crop.DefaultStem
		}
		stem := base
		for n := 2; taken[stem]; n++ {
			stem = fmt.Sprintf("%s_%d", base, n)
		}
		taken[stem] = true
		stems[i] = stem
	}
	return stems
}
