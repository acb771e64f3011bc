package naming

import (
	"path/filepath"
	"strings"
)

const (
	outputPrefix = "output_video_"
	outputExt    = ".mp4"
)

// OutputPath builds the rendered video path for slug:
//
//	<outputDir>/output_video_<slug>.mp4
func OutputPath(outputDir, slug string) string {
	return filepath.Join(outputDir, OutputName(slug))
}

// OutputName is the base name of the rendered video for slug.
func OutputName(slug string) string {
	return outputPrefix + slug + outputExt
}

// SlugFromOutputName reverses OutputName. ok is false when name does not
// follow the output naming scheme.
func SlugFromOutputName(name string) (slug string, ok bool) {
	base := filepath.Base(name)
	if !strings.HasPrefix(base, outputPrefix) || !strings.HasSuffix(base, outputExt) {
		return "", false
	}
	slug = strings.TrimSuffix(strings.TrimPrefix(base, outputPrefix), outputExt)
	return slug, slug != ""
}

// KeywordDir is the directory crawled images for title are stored in. The
// keyword is the first 50 runes of the title, slugged.
func KeywordDir(workDir, title string) string {
	return filepath.Join(workDir, CleanFilename(TruncateRunes(title, MaxSlugLen), MaxSlugLen))
}
