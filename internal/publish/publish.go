// Package publish writes the public URL of the last rendered video back to
// the spreadsheet (column H), replacing the status marker make left there.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/backmassage/reelsmith/internal/journal"
	"github.com/backmassage/reelsmith/internal/sheet"
)

// TitleFile holds the slug of the last render inside the output directory.
// It is read when the journal has nothing recorded.
const TitleFile = "clean_title.txt"

var (
	// ErrNoTarget means neither the journal nor the title file names a
	// video, or no row has an empty column H.
	ErrNoTarget = errors.New("no video to publish")
	// ErrAlreadyPublished means the target cell already holds the URL.
	ErrAlreadyPublished = errors.New("video URL already published")
)

// LatestFinder returns the newest journal entry. *journal.Journal
// implements it.
type LatestFinder interface {
	Latest() (journal.Entry, error)
}

// Logger is the logging surface Publish needs.
type Logger interface {
	Info(string, ...interface{})
	Debug(string, ...interface{})
}

// Options configures Publish.
type Options struct {
	Template        string // URL template containing "{slug}"
	StatusWorksheet string // used with the title file fallback
	OutputDir       string
	DryRun          bool
}

// Target is the cell a URL will be written to.
type Target struct {
	Worksheet string
	Row       int
	Slug      string
	Source    string // "journal" or "title file"
}

// Result describes a completed publish.
type Result struct {
	Target
	URL string
}

// VideoURL substitutes slug into template.
func VideoURL(template, slug string) string {
	return strings.ReplaceAll(template, "{slug}", slug)
}

// WriteTitleFile atomically records slug as the last rendered video.
func WriteTitleFile(outputDir, slug string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(outputDir, TitleFile)
	if err := atomic.WriteFile(path, strings.NewReader(slug)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadTitleFile returns the slug stored by WriteTitleFile, or ErrNoTarget
// when the file is missing or blank.
func ReadTitleFile(outputDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(outputDir, TitleFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s not found", ErrNoTarget, TitleFile)
	}
	if err != nil {
		return "", err
	}
	slug := strings.TrimSpace(string(data))
	if slug == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNoTarget, TitleFile)
	}
	return slug, nil
}

// ResolveTarget picks the cell to publish to. The journal's latest entry
// names its worksheet and row directly. Without one, the slug comes from
// the title file and the row is the first on StatusWorksheet with an empty
// column H.
func ResolveTarget(ctx context.Context, client sheet.Client, j LatestFinder, opts Options) (Target, error) {
	if j != nil {
		e, err := j.Latest()
		switch {
		case err == nil:
			return Target{Worksheet: e.Worksheet, Row: e.Row, Slug: e.Slug, Source: "journal"}, nil
		case !errors.Is(err, journal.ErrEmpty):
			return Target{}, fmt.Errorf("read journal: %w", err)
		}
	}

	slug, err := ReadTitleFile(opts.OutputDir)
	if err != nil {
		return Target{}, err
	}
	values, err := client.Rows(ctx, opts.StatusWorksheet)
	if err != nil {
		return Target{}, err
	}
	row := sheet.FirstEmptyStatusRow(values)
	if row == 0 {
		return Target{}, fmt.Errorf("%w: no row with empty column H in %q", ErrNoTarget, opts.StatusWorksheet)
	}
	return Target{Worksheet: opts.StatusWorksheet, Row: row, Slug: slug, Source: "title file"}, nil
}

// Publish resolves the target and writes the video URL to its column H.
// It returns ErrAlreadyPublished, with the result filled in, when the cell
// already holds the URL.
func Publish(ctx context.Context, client sheet.Client, j LatestFinder, opts Options, log Logger) (Result, error) {
	t, err := ResolveTarget(ctx, client, j, opts)
	if err != nil {
		return Result{}, err
	}
	res := Result{Target: t, URL: VideoURL(opts.Template, t.Slug)}
	log.Debug("Publish target from %s: %s!%s", t.Source, t.Worksheet, sheet.CellRef(t.Row, sheet.ColStatus+1))

	values, err := client.Rows(ctx, t.Worksheet)
	if err != nil {
		return res, err
	}
	if current := cellAt(values, t.Row, sheet.ColStatus); current == res.URL {
		return res, ErrAlreadyPublished
	}

	if opts.DryRun {
		log.Info("[DRY] Would update row %d with %s", t.Row, res.URL)
		return res, nil
	}
	if err := client.UpdateCell(ctx, t.Worksheet, t.Row, sheet.ColStatus+1, res.URL); err != nil {
		return res, fmt.Errorf("update row %d: %w", t.Row, err)
	}
	log.Info("Updated row %d with %s", t.Row, res.URL)
	return res, nil
}

// cellAt returns the trimmed value at 1-based row and zero-based col.
func cellAt(values [][]string, row, col int) string {
	if row < 1 || row > len(values) || col >= len(values[row-1]) {
		return ""
	}
	return strings.TrimSpace(values[row-1][col])
}
