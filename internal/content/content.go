// Package content turns a spreadsheet row into the title, narration, slug
// and background image of a short.
package content

import (
	"regexp"
	"strings"

	"github.com/backmassage/reelsmith/internal/naming"
	"github.com/backmassage/reelsmith/internal/sheet"
)

// DefaultImageURL is used when the row has no column D.
const DefaultImageURL = "https://via.placeholder.com/720x1280"

const (
	titlePrefix  = "Tiêu đề:"
	untitled     = "Untitled"
	keywordRunes = 50
)

var (
	reAsterisks = regexp.MustCompile(`\*+`)
	reEmoji     = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}\x{2702}-\x{27B0}\x{24C2}-\x{1F251}]+`)
	reHashtag   = regexp.MustCompile(`#[\p{L}\p{N}_]+\s*`)
)

// Post is the content of one short.
type Post struct {
	Title     string
	Narration string
	Slug      string
	ImageURL  string
	// Keyword is the image search query: the first 50 runes of Title.
	Keyword string
}

// Extract builds a Post from row cells. Column B holds the text; column D
// the cover image URL, falling back to defaultImage (or DefaultImageURL when
// that is empty) when the row is too short to have one.
func Extract(cells []string, defaultImage string) Post {
	raw := cellAt(cells, sheet.ColContent)
	raw = reAsterisks.ReplaceAllString(raw, "")
	raw = reEmoji.ReplaceAllString(raw, "")
	raw = reHashtag.ReplaceAllString(raw, "")

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			lines = append(lines, l)
		}
	}

	title := untitled
	if len(lines) > 0 {
		title = strings.TrimSpace(strings.ReplaceAll(lines[0], titlePrefix, ""))
	}
	narration := title
	if len(lines) > 1 {
		narration = strings.Join(lines[1:], "\n")
	}

	if defaultImage == "" {
		defaultImage = DefaultImageURL
	}
	image := defaultImage
	if len(cells) > sheet.ColImage {
		image = cells[sheet.ColImage]
	}

	return Post{
		Title:     title,
		Narration: narration,
		Slug:      naming.CleanFilename(title, naming.MaxSlugLen),
		ImageURL:  image,
		Keyword:   naming.TruncateRunes(title, keywordRunes),
	}
}

func cellAt(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}
