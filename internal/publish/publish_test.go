package publish

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/backmassage/reelsmith/internal/journal"
	"github.com/backmassage/reelsmith/internal/sheet"
)

const template = "https://raw.githubusercontent.com/gx288/shortvideo/main/output/output_video_{slug}.mp4"

type nopLog struct{}

func (nopLog) Info(string, ...interface{})  {}
func (nopLog) Debug(string, ...interface{}) {}

type fixedJournal struct {
	e   journal.Entry
	err error
}

func (f fixedJournal) Latest() (journal.Entry, error) { return f.e, f.err }

func row(h string) []string {
	return []string{"", "content", "", "", "", "", "", h}
}

func TestVideoURL(t *testing.T) {
	got := VideoURL(template, "meo_hay")
	want := "https://raw.githubusercontent.com/gx288/shortvideo/main/output/output_video_meo_hay.mp4"
	if got != want {
		t.Errorf("VideoURL = %q, want %q", got, want)
	}
}

func TestTitleFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadTitleFile(dir); !errors.Is(err, ErrNoTarget) {
		t.Errorf("missing file: err = %v, want ErrNoTarget", err)
	}
	if err := WriteTitleFile(dir, "tieu_de"); err != nil {
		t.Fatal(err)
	}
	slug, err := ReadTitleFile(dir)
	if err != nil || slug != "tieu_de" {
		t.Errorf("ReadTitleFile = %q, %v", slug, err)
	}
}

func TestPublish_FromJournal(t *testing.T) {
	mem := sheet.NewMemory(map[string][][]string{
		"Sheet2": {row("H"), row("DONE"), row("DONE"), row("")},
	})
	j := fixedJournal{e: journal.Entry{Slug: "abc", Worksheet: "Sheet2", Row: 3}}

	res, err := Publish(context.Background(), mem, j, Options{Template: template, StatusWorksheet: "Phòng mạch"}, nopLog{})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if res.Source != "journal" || res.Row != 3 {
		t.Errorf("target = %+v", res.Target)
	}
	if len(mem.Writes) != 1 {
		t.Fatalf("writes = %+v", mem.Writes)
	}
	w := mem.Writes[0]
	if w.Worksheet != "Sheet2" || w.Row != 3 || w.Col != 8 || w.Value != VideoURL(template, "abc") {
		t.Errorf("write = %+v", w)
	}

	// A second publish finds the URL already in place.
	if _, err := Publish(context.Background(), mem, j, Options{Template: template}, nopLog{}); !errors.Is(err, ErrAlreadyPublished) {
		t.Errorf("second publish err = %v, want ErrAlreadyPublished", err)
	}
	if len(mem.Writes) != 1 {
		t.Errorf("second publish wrote again: %+v", mem.Writes)
	}
}

func TestPublish_FallsBackToTitleFile(t *testing.T) {
	dir := t.TempDir()
	if err := WriteTitleFile(dir, "fallback"); err != nil {
		t.Fatal(err)
	}
	mem := sheet.NewMemory(map[string][][]string{
		// Row 3 is too short to count; row 4 is the first with blank H.
		"Phòng mạch": {row("H"), row("https://x/y.mp4"), {"", "short"}, row(" "), row("")},
	})
	j := fixedJournal{err: journal.ErrEmpty}
	opts := Options{Template: template, StatusWorksheet: "Phòng mạch", OutputDir: dir}

	res, err := Publish(context.Background(), mem, j, opts, nopLog{})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if res.Source != "title file" || res.Row != 4 || res.Slug != "fallback" {
		t.Errorf("result = %+v", res)
	}
}

func TestPublish_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		j       LatestFinder
		title   string
		values  [][]string
		wantErr error
	}{
		{"no title file", nil, "", [][]string{row("H"), row("")}, ErrNoTarget},
		{"no empty row", fixedJournal{err: journal.ErrEmpty}, "x", [][]string{row("H"), row("DONE")}, ErrNoTarget},
		{"journal failure", fixedJournal{err: errors.New("disk")}, "x", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, tt.name)
			if tt.title != "" {
				if err := WriteTitleFile(out, tt.title); err != nil {
					t.Fatal(err)
				}
			}
			mem := sheet.NewMemory(map[string][][]string{"S": tt.values})
			_, err := Publish(context.Background(), mem, tt.j, Options{Template: template, StatusWorksheet: "S", OutputDir: out}, nopLog{})
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if len(mem.Writes) != 0 {
				t.Errorf("unexpected writes: %+v", mem.Writes)
			}
		})
	}
}

func TestPublish_DryRun(t *testing.T) {
	mem := sheet.NewMemory(map[string][][]string{"S": {row("H"), row("DONE")}})
	j := fixedJournal{e: journal.Entry{Slug: "d", Worksheet: "S", Row: 2}}
	res, err := Publish(context.Background(), mem, j, Options{Template: template, DryRun: true}, nopLog{})
	if err != nil || res.URL == "" {
		t.Fatalf("Publish dry run = %+v, %v", res, err)
	}
	if len(mem.Writes) != 0 {
		t.Errorf("dry run wrote: %+v", mem.Writes)
	}
}
