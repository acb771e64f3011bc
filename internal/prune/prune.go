// Package prune removes videos that have been posted (column I filled in)
// from the output directory's git checkout, then commits and pushes.
package prune

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/backmassage/reelsmith/internal/sheet"
)

// CommitMessage is used for the deletion commit.
const CommitMessage = "Delete used videos based on Google Sheet column I"

// Candidate is a used video named by the sheet.
type Candidate struct {
	Row    int
	URL    string
	Path   string // outputDir joined with the file name from URL
	Exists bool
}

// Result counts what Run did.
type Result struct {
	Candidates int
	Removed    int
	Missing    int
	Failed     int
	Committed  bool
}

// Logger is the logging surface Run needs.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
}

// Plan pairs every used row in values with its file under outputDir and
// marks which of those files are present.
func Plan(values [][]string, outputDir string) ([]Candidate, error) {
	files, err := Discover(outputDir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", outputDir, err)
	}
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[filepath.Base(f)] = true
	}

	used := sheet.UsedRows(values)
	out := make([]Candidate, 0, len(used))
	for _, u := range used {
		out = append(out, Candidate{
			Row:    u.Row,
			URL:    u.URL,
			Path:   filepath.Join(outputDir, u.FileName),
			Exists: present[u.FileName],
		})
	}
	return out, nil
}

// Run removes the present candidates with git, then commits and pushes once.
// Per-file and commit failures are logged as warnings; the returned error is
// reserved for a cancelled context.
func Run(ctx context.Context, candidates []Candidate, git Git, dryRun bool, log Logger) (Result, error) {
	res := Result{Candidates: len(candidates)}
	var found []Candidate
	for _, c := range candidates {
		if !c.Exists {
			log.Info("  Video not found: %s (from URL: %s)", c.Path, c.URL)
			res.Missing++
			continue
		}
		log.Info("  Found video to delete: %s (from URL: %s)", c.Path, c.URL)
		found = append(found, c)
	}

	if len(found) == 0 {
		log.Info("No used videos to delete.")
		return res, nil
	}
	if dryRun {
		log.Info("[DRY] Would remove %d video(s) and push", len(found))
		return res, nil
	}

	log.Info("Deleting used video files...")
	for _, c := range found {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := git.Remove(ctx, c.Path); err != nil {
			log.Warn("  Failed to remove %s: %v", c.Path, err)
			res.Failed++
			continue
		}
		log.Info("  Removed %s from git", c.Path)
		res.Removed++
	}
	if res.Removed == 0 {
		return res, nil
	}

	if err := git.Commit(ctx, CommitMessage); err != nil {
		log.Warn("  Failed to commit/push deletions: %v", err)
		return res, nil
	}
	if err := git.Push(ctx); err != nil {
		log.Warn("  Failed to commit/push deletions: %v", err)
		return res, nil
	}
	res.Committed = true
	log.Success("  Committed and pushed deletions")
	return res, nil
}
