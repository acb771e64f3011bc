package sheet

import (
	"net/url"
	"path"
	"strconv"
	"strings"
)

// Zero-based column indexes used by the pipeline.
const (
	ColContent = 1 // B: post text, first line is the title
	ColImage   = 3 // D: cover image URL
	ColStatus  = 7 // H: blank = pending; DONE or the video URL once rendered
	ColUsed    = 8 // I: non-empty once the video has been posted
)

// Row is one worksheet row. Number is 1-based, as in the spreadsheet UI.
type Row struct {
	Worksheet string
	Number    int
	Cells     []string
}

// Cell returns the trimmed value at zero-based index i, or "" when the row
// is shorter.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[i])
}

// Key identifies the row across worksheets ("Sheet2!14").
func (r Row) Key() string {
	return r.Worksheet + "!" + strconv.Itoa(r.Number)
}

// PendingRows returns the rows still waiting for a video: the header row is
// skipped, and a row qualifies only when it reaches column H and H is blank.
func PendingRows(worksheet string, values [][]string) []Row {
	var out []Row
	for i, cells := range values {
		if i == 0 || len(cells) <= ColStatus {
			continue
		}
		if strings.TrimSpace(cells[ColStatus]) != "" {
			continue
		}
		out = append(out, Row{Worksheet: worksheet, Number: i + 1, Cells: cells})
	}
	return out
}

// FirstEmptyStatusRow returns the 1-based number of the first data row that
// reaches column H with H blank, or 0 when there is none.
func FirstEmptyStatusRow(values [][]string) int {
	rows := PendingRows("", values)
	if len(rows) == 0 {
		return 0
	}
	return rows[0].Number
}

// UsedVideo is a posted video that can be removed from the repository.
type UsedVideo struct {
	Row      int
	URL      string
	FileName string
}

// UsedRows returns the rows whose column I is non-empty, paired with the
// video file name taken from the URL in column H. Rows without a parseable
// URL in H are skipped.
func UsedRows(values [][]string) []UsedVideo {
	var out []UsedVideo
	for i, cells := range values {
		if i == 0 || len(cells) <= ColUsed {
			continue
		}
		if strings.TrimSpace(cells[ColUsed]) == "" {
			continue
		}
		raw := strings.TrimSpace(cells[ColStatus])
		name := FileNameFromURL(raw)
		if name == "" {
			continue
		}
		out = append(out, UsedVideo{Row: i + 1, URL: raw, FileName: name})
	}
	return out
}

// FileNameFromURL returns the unescaped last path segment of rawURL, or ""
// when rawURL is not an http(s) URL with a file name.
func FileNameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." || base == "" {
		return ""
	}
	return base
}
