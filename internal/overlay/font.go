package overlay

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// SystemFonts are tried after the configured font.
var SystemFonts = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans-Bold.ttf",
}

// EmbeddedFontName is reported by LoadFace when no font file could be used.
const EmbeddedFontName = "Go Bold (embedded)"

// LoadFace returns a face of the given size from the first readable font in
// paths (empty entries are skipped), falling back to the embedded Go Bold.
// The second result names the font that was used.
func LoadFace(paths []string, size float64) (font.Face, string, error) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		face, err := newFace(data, size)
		if err != nil {
			continue
		}
		return face, p, nil
	}
	face, err := newFace(gobold.TTF, size)
	if err != nil {
		return nil, "", fmt.Errorf("embedded font: %w", err)
	}
	return face, EmbeddedFontName, nil
}

func newFace(data []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
