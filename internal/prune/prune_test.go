package prune

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type nopLog struct{}

func (nopLog) Info(string, ...interface{})    {}
func (nopLog) Success(string, ...interface{}) {}
func (nopLog) Warn(string, ...interface{})    {}

type fakeGit struct {
	removed    []string
	commits    []string
	pushes     int
	failRm     map[string]bool
	failCommit bool
}

func (g *fakeGit) Remove(_ context.Context, path string) error {
	if g.failRm[path] {
		return errors.New("pathspec did not match")
	}
	g.removed = append(g.removed, path)
	return nil
}

func (g *fakeGit) Commit(_ context.Context, message string) error {
	if g.failCommit {
		return errors.New("nothing to commit")
	}
	g.commits = append(g.commits, message)
	return nil
}

func (g *fakeGit) Push(context.Context) error {
	g.pushes++
	return nil
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func usedRow(url, used string) []string {
	return []string{"", "content", "", "", "", "", "", url, used}
}

func TestDiscover_TopLevelVideosOnly(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "output_video_b.mp4")
	touch(t, dir, "output_video_a.MP4")
	touch(t, dir, "clean_title.txt")
	if err := os.MkdirAll(filepath.Join(dir, "work"), 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(dir, "work"), "nested.mp4")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"output_video_a.MP4", "output_video_b.mp4"}
	if len(files) != len(want) {
		t.Fatalf("got %v, want %v", files, want)
	}
	for i, f := range files {
		if filepath.Base(f) != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, filepath.Base(f), want[i])
		}
	}
}

func TestPlan(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "output_video_one.mp4")
	touch(t, dir, "output_video_c%C3%B4.mp4")

	base := "https://raw.githubusercontent.com/gx288/shortvideo/main/output/"
	values := [][]string{
		{"header"},
		usedRow(base+"output_video_one.mp4", "posted"),
		usedRow(base+"output_video_two.mp4", "posted"),
		usedRow(base+"output_video_three.mp4", ""),
		usedRow("DONE", "posted"),
		usedRow(base+"output_video_c%25C3%25B4.mp4", "x"),
	}

	got, err := Plan(values, dir)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	want := []struct {
		row    int
		name   string
		exists bool
	}{
		{2, "output_video_one.mp4", true},
		{3, "output_video_two.mp4", false},
		{6, "output_video_c%C3%B4.mp4", true},
	}
	if len(got) != len(want) {
		t.Fatalf("Plan = %+v", got)
	}
	for i, w := range want {
		if got[i].Row != w.row || filepath.Base(got[i].Path) != w.name || got[i].Exists != w.exists {
			t.Errorf("candidate %d = %+v, want %+v", i, got[i], w)
		}
	}
}

func TestRun(t *testing.T) {
	cands := []Candidate{
		{Row: 2, Path: "output/a.mp4", Exists: true},
		{Row: 3, Path: "output/b.mp4", Exists: false},
		{Row: 4, Path: "output/c.mp4", Exists: true},
	}

	t.Run("removes, commits and pushes", func(t *testing.T) {
		g := &fakeGit{}
		res, err := Run(context.Background(), cands, g, false, nopLog{})
		if err != nil {
			t.Fatal(err)
		}
		if res.Removed != 2 || res.Missing != 1 || !res.Committed {
			t.Errorf("result = %+v", res)
		}
		if len(g.commits) != 1 || g.commits[0] != CommitMessage || g.pushes != 1 {
			t.Errorf("commits = %v, pushes = %d", g.commits, g.pushes)
		}
	})

	t.Run("dry run touches nothing", func(t *testing.T) {
		g := &fakeGit{}
		res, err := Run(context.Background(), cands, g, true, nopLog{})
		if err != nil {
			t.Fatal(err)
		}
		if len(g.removed) != 0 || len(g.commits) != 0 || res.Committed {
			t.Errorf("dry run acted: %+v %+v", g, res)
		}
	})

	t.Run("remove failure is a warning", func(t *testing.T) {
		g := &fakeGit{failRm: map[string]bool{"output/a.mp4": true}}
		res, _ := Run(context.Background(), cands, g, false, nopLog{})
		if res.Failed != 1 || res.Removed != 1 || !res.Committed {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("commit failure skips push", func(t *testing.T) {
		g := &fakeGit{failCommit: true}
		res, err := Run(context.Background(), cands, g, false, nopLog{})
		if err != nil || res.Committed || g.pushes != 0 {
			t.Errorf("result = %+v, err = %v, pushes = %d", res, err, g.pushes)
		}
	})

	t.Run("nothing to delete", func(t *testing.T) {
		g := &fakeGit{}
		res, _ := Run(context.Background(), []Candidate{{Path: "x", Exists: false}}, g, false, nopLog{})
		if res.Removed != 0 || len(g.commits) != 0 {
			t.Errorf("result = %+v, commits = %v", res, g.commits)
		}
	})
}
