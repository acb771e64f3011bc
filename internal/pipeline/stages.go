package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/backmassage/reelsmith/internal/config"
	"github.com/backmassage/reelsmith/internal/content"
	"github.com/backmassage/reelsmith/internal/display"
	"github.com/backmassage/reelsmith/internal/ffmpeg"
	"github.com/backmassage/reelsmith/internal/journal"
	"github.com/backmassage/reelsmith/internal/logging"
	"github.com/backmassage/reelsmith/internal/overlay"
	"github.com/backmassage/reelsmith/internal/planner"
	"github.com/backmassage/reelsmith/internal/publish"
	"github.com/backmassage/reelsmith/internal/sheet"
	"github.com/backmassage/reelsmith/internal/tts"
)

const (
	narrationName = "voiceover.mp3"
	stderrTail    = 20
)

// rowRun carries one row through the render stages.
type rowRun struct {
	cfg        *config.Config
	deps       *Deps
	log        *logging.Logger
	post       content.Post
	workDir    string
	outputPath string
}

func (r *rowRun) run(ctx context.Context) error {
	r.log.Info("Stage 1: Downloading images...")
	set, err := r.deps.Collector.Collect(ctx, r.post, r.workDir)
	if err != nil {
		return fmt.Errorf("images: %w", err)
	}
	if set.Fallback {
		r.log.Warn("  Not enough images found, repeating the cover")
	}
	r.log.Info("  %d images ready.", len(set.Images))

	if err := ctx.Err(); err != nil {
		return err
	}
	r.log.Info("Stage 2: Creating TTS audio...")
	audioPath, err := r.narrate(ctx)
	if err != nil {
		return fmt.Errorf("TTS failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	r.log.Info("Stage 3: Drawing title on each image...")
	framed := overlay.AnnotateAll(set.Paths(), r.post.Title, r.workDir, r.deps.Face, overlay.DefaultOptions(), r.log)

	r.log.Info("Stage 4: Creating video...")
	duration, err := r.deps.Duration(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("probe narration: %w", err)
	}
	plan, err := planner.BuildPlan(r.cfg, framed, audioPath, duration, r.outputPath)
	if err != nil {
		return err
	}
	r.log.Info("  %d clips x %s = %s", len(plan.Clips), display.FormatSeconds(plan.PerClip), display.FormatSeconds(plan.Total))
	if err := render(ctx, r.cfg, r.deps.FFmpeg, r.log, plan); err != nil {
		return fmt.Errorf("creating video: %w", err)
	}
	r.verify(ctx)
	return nil
}

// verify probes the rendered file. A mismatch is only reported; ffmpeg
// already succeeded.
func (r *rowRun) verify(ctx context.Context) {
	info, err := r.deps.Probe(ctx, r.outputPath)
	if err != nil {
		r.log.Warn("  Could not probe output: %v", err)
		return
	}
	if !info.IsPlayableShort(r.cfg.Width, r.cfg.Height) {
		r.log.Warn("  Output is %s (audio: %t), expected %dx%d with audio",
			info.Resolution(), info.Audio != nil, r.cfg.Width, r.cfg.Height)
		return
	}
	r.log.Debug("  Output %s, %s", info.Resolution(), display.FormatSeconds(info.Duration()))
}

// narrate synthesizes the narration and cuts it to MaxAudioSeconds,
// replacing the synthesized file with the re-encoded one.
func (r *rowRun) narrate(ctx context.Context) (string, error) {
	voice := tts.Voice{
		Language:     r.cfg.VoiceLanguage,
		Name:         r.cfg.VoiceName,
		SpeakingRate: r.cfg.SpeakingRate,
		SampleRateHz: r.cfg.SampleRateHz,
	}
	audioPath := filepath.Join(r.workDir, narrationName)
	if err := tts.WriteNarration(ctx, r.deps.Synth, r.post.Narration, voice, audioPath); err != nil {
		return "", err
	}

	tmp := filepath.Join(r.workDir, "voiceover.tmp.mp3")
	args := ffmpeg.BuildTruncate(audioPath, tmp, ffmpeg.TruncateOptions{
		MaxSeconds: r.cfg.MaxAudioSeconds,
		Codec:      r.cfg.NarrationCodec,
		Bitrate:    r.cfg.AudioBitrate,
		SampleRate: r.cfg.SampleRateHz,
	})
	r.log.Debug("  %s", strings.Join(args, " "))
	if res := r.deps.FFmpeg(ctx, args, nil); res.Err != nil {
		logStderr(r.log, res.Stderr)
		return "", fmt.Errorf("truncate narration: %w", res.Err)
	}
	if err := atomic.ReplaceFile(tmp, audioPath); err != nil {
		return "", fmt.Errorf("replace narration: %w", err)
	}
	return audioPath, nil
}

// render runs ffmpeg for plan. On failure stderr is classified and the
// first fix not yet applied is tried; strict mode disables retries.
func render(ctx context.Context, cfg *config.Config, run ffmpeg.Runner, log *logging.Logger, plan *planner.RenderPlan) error {
	rs := ffmpeg.NewRetryState(plan)
	var tee io.Writer
	if cfg.Verbose {
		tee = os.Stderr
	}

	for {
		args := ffmpeg.Build(plan, rs, cfg.Verbose)
		log.Debug("  ffmpeg with %d inputs, codec %s", len(plan.Clips)+1, rs.VideoCodec)
		result := run(ctx, args, tee)
		if result.Err == nil {
			return nil
		}

		// Stop retrying if the context has been cancelled (e.g. SIGINT).
		if ctx.Err() != nil {
			log.Warn("Interrupted, aborting retries")
			return ctx.Err()
		}

		if cfg.StrictMode {
			log.Error("ffmpeg failed (strict mode, no retry)")
			logStderr(log, result.Stderr)
			return result.Err
		}

		action := rs.Advance(result.Stderr)
		if action == ffmpeg.RetryNone {
			log.Error("ffmpeg failed (no applicable retry)")
			logStderr(log, result.Stderr)
			return result.Err
		}

		log.Warn("Retry %d: %s", rs.Attempt, action)
		os.Remove(plan.OutputPath)
	}
}

// finishRow marks the row done, records the render and writes the title
// file. Failures here are logged and do not undo the render.
func finishRow(ctx context.Context, cfg *config.Config, deps *Deps, log *logging.Logger, row sheet.Row, slug, outputPath string, size int64) {
	if err := deps.Sheet.UpdateCell(ctx, row.Worksheet, row.Number, sheet.ColStatus+1, cfg.DoneMarker); err != nil {
		log.Warn("  Could not update status: %v", err)
	}

	if deps.Journal != nil {
		e, err := deps.Journal.Record(journal.Entry{
			Slug:      slug,
			VideoPath: outputPath,
			Worksheet: row.Worksheet,
			Row:       row.Number,
			SizeBytes: size,
		})
		if err != nil {
			log.Warn("  Could not record render: %v", err)
		} else {
			log.Debug("  Journal entry %s", e.ID)
		}
	}

	if err := publish.WriteTitleFile(cfg.OutputDir, slug); err != nil {
		log.Warn("  %v", err)
	}
}

func logStderr(log *logging.Logger, stderr string) {
	lines := ffmpeg.Tail(stderr, stderrTail)
	if len(lines) == 0 {
		return
	}
	log.Error("Last ffmpeg output:")
	for _, l := range lines {
		log.Error("  %s", l)
	}
}
