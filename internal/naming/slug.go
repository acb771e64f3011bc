package naming

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxSlugLen is the default slug length used for output names.
const MaxSlugLen = 50

var (
	reNonWord   = regexp.MustCompile(`[^A-Za-z0-9_-]`)
	reUnderline = regexp.MustCompile(`_+`)
)

// CleanFilename converts text into a slug: accents are decomposed (NFKD)
// and every non-ASCII rune dropped, spaces become underscores, anything
// outside [A-Za-z0-9_-] is removed, underscore runs collapse, the result
// is cut to max bytes, trimmed of '_' and lowercased. An empty result
// yields "video_NNNN" with a random four-digit suffix.
func CleanFilename(text string, max int) string {
	decomposed := norm.NFKD.String(text)
	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, decomposed)

	s := strings.ReplaceAll(ascii, " ", "_")
	s = reNonWord.ReplaceAllString(s, "")
	s = reUnderline.ReplaceAllString(s, "_")
	if max > 0 && len(s) > max {
		s = s[:max]
	}
	s = strings.Trim(s, "_")
	if s == "" {
		return fmt.Sprintf("video_%d", 1000+rand.Intn(9000))
	}
	return strings.ToLower(s)
}

// TruncateRunes returns the first n runes of s.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
