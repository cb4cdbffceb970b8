package fs

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/refiner"
)

// SavedPattern matches files written by refiner downloads and exports.
const SavedPattern = refiner.DownloadPrefix + "*{" + refiner.ExtText + "," + refiner.ExtHTML + "}"

// SavedFile describes a previously downloaded roadmap.
type SavedFile struct {
	Path string
	Size int64
}

// List returns the saved roadmaps in dir matching pattern (SavedPattern
// when empty), newest name first. Names embed a sortable timestamp. A
// missing directory yields no files.
func List(dir, pattern string) ([]SavedFile, error) {
	if pattern == "" {
		pattern = SavedPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}
	if dir == "" {
		dir = "."
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []SavedFile
	err := doublestar.GlobWalk(os.DirFS(dir), pattern, func(path string, d iofs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, SavedFile{
			Path: filepath.Join(dir, filepath.FromSlash(path)),
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error matching pattern: %w", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path > files[j].Path })
	return files, nil
}
