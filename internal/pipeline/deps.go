package pipeline

import (
	"context"

	"golang.org/x/image/font"

	"github.com/backmassage/reelsmith/internal/ffmpeg"
	"github.com/backmassage/reelsmith/internal/journal"
	"github.com/backmassage/reelsmith/internal/media"
	"github.com/backmassage/reelsmith/internal/probe"
	"github.com/backmassage/reelsmith/internal/sheet"
	"github.com/backmassage/reelsmith/internal/tts"
)

// Recorder stores a finished render. *journal.Journal implements it.
type Recorder interface {
	Record(journal.Entry) (journal.Entry, error)
}

// Deps are the collaborators Run drives. Sheet, Synth, Collector and Face
// are required; the rest default to the real implementations.
type Deps struct {
	Sheet     sheet.Client
	Synth     tts.Synthesizer
	Collector *media.Collector
	Face      font.Face
	Journal   Recorder // nil skips recording

	FFmpeg   ffmpeg.Runner                                                    // default ffmpeg.Execute
	Duration func(ctx context.Context, path string) (float64, error)          // default probe.AudioDuration
	Probe    func(ctx context.Context, path string) (*probe.MediaInfo, error) // default probe.Probe
	NewID    func() string                                                    // work directory names
}

func (d *Deps) withDefaults() {
	if d.FFmpeg == nil {
		d.FFmpeg = ffmpeg.Execute
	}
	if d.Duration == nil {
		d.Duration = probe.AudioDuration
	}
	if d.Probe == nil {
		d.Probe = probe.Probe
	}
	if d.NewID == nil {
		d.NewID = newWorkID
	}
}
