package prune

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Video file extensions kept in the output directory (lowercase, with
// leading dot).
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".m4v":  true,
	".webm": true,
}

// Discover lists the video files directly inside outputDir. Subdirectories
// (work directories left by --keep-work) are not descended into. Paths are
// sorted for deterministic output.
func Discover(outputDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != outputDir {
				return filepath.SkipDir
			}
			return nil
		}
		if videoExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
