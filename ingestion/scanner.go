package ingestion

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/openmuse/curio/core"
)

// scanSource walks the source directory and returns paths of all .json
// files, sorted by the walk order. A limit of 0 means no limit.
func scanSource(sourceDir string, limit int) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			paths = append(paths, path)
			if limit > 0 && len(paths) >= limit {
				return fs.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrSourceUnreadable, sourceDir, err)
	}
	return paths, nil
}
