package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/reelsmith/internal/config"
	"github.com/backmassage/reelsmith/internal/content"
	"github.com/backmassage/reelsmith/internal/display"
	"github.com/backmassage/reelsmith/internal/logging"
	"github.com/backmassage/reelsmith/internal/naming"
	"github.com/backmassage/reelsmith/internal/planner"
	"github.com/backmassage/reelsmith/internal/sheet"
)

// ErrNothingCreated is returned by Run when no row produced a video.
var ErrNothingCreated = errors.New("no videos created")

// Run is the make entry point. It scans cfg.Worksheets in order, renders
// pending rows until cfg.VideosPerRun videos exist, and returns aggregate
// stats. A missing worksheet is skipped; any other sheet error or a failed
// row stops the run and is returned.
func Run(ctx context.Context, cfg *config.Config, deps Deps, log *logging.Logger) (RunStats, error) {
	deps.withDefaults()
	var stats RunStats
	resolver := naming.NewCollisionResolver()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return stats, fmt.Errorf("create output directory: %w", err)
	}
	if n := seedResolver(cfg.OutputDir, resolver); n > 0 {
		log.Debug("%d existing videos in %s", n, cfg.OutputDir)
	}
	logBatchHeader(cfg, log)

	err := scan(ctx, cfg, &deps, log, &stats, resolver)
	logSummary(cfg, log, &stats)
	if err != nil {
		stats.Failed++
		return stats, err
	}
	if stats.Created == 0 {
		return stats, ErrNothingCreated
	}
	return stats, nil
}

func scan(ctx context.Context, cfg *config.Config, deps *Deps, log *logging.Logger, stats *RunStats, resolver *naming.CollisionResolver) error {
	for _, ws := range cfg.Worksheets {
		if stats.Created >= cfg.VideosPerRun {
			return nil
		}
		log.Info("Checking worksheet: %s", ws)
		values, err := deps.Sheet.Rows(ctx, ws)
		if errors.Is(err, sheet.ErrWorksheetNotFound) {
			log.Warn("  Worksheet not found. Skipping.")
			stats.Skipped++
			continue
		}
		if err != nil {
			return fmt.Errorf("open worksheet %q: %w", ws, err)
		}

		for _, row := range sheet.PendingRows(ws, values) {
			if stats.Created >= cfg.VideosPerRun {
				return nil
			}
			if err := ctx.Err(); err != nil {
				log.Warn("Interrupted")
				return err
			}
			stats.Scanned++
			if err := processRow(ctx, cfg, deps, log, row, stats, resolver); err != nil {
				return fmt.Errorf("row %d of %s: %w", row.Number, ws, err)
			}
			fmt.Println()
		}
	}
	return nil
}

// processRow renders one row. Every returned error is fatal to the run.
func processRow(
	ctx context.Context,
	cfg *config.Config,
	deps *Deps,
	log *logging.Logger,
	row sheet.Row,
	stats *RunStats,
	resolver *naming.CollisionResolver,
) error {
	log.Info("Processing row %d...", row.Number)
	post := content.Extract(row.Cells, cfg.DefaultImageURL)
	slug := resolver.Resolve(row.Key(), post.Slug)
	if slug != post.Slug {
		log.Debug("Output name %q taken this run, using %q", post.Slug, slug)
	}
	post.Slug = slug
	outputPath := naming.OutputPath(cfg.OutputDir, slug)
	log.Info("  Title: %s", post.Title)
	log.Info("  -> %s", filepath.Base(outputPath))

	if cfg.DryRun {
		return dryRunRow(cfg, log, post, outputPath, stats)
	}

	workDir := filepath.Join(cfg.OutputDir, ".work-"+deps.NewID())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}
	defer cleanup(cfg, log, workDir)

	start := time.Now()
	r := &rowRun{cfg: cfg, deps: deps, log: log, post: post, workDir: workDir, outputPath: outputPath}
	if err := r.run(ctx); err != nil {
		os.Remove(outputPath)
		return err
	}

	var size int64
	if fi, err := os.Stat(outputPath); err == nil {
		size = fi.Size()
	}
	log.Success("  SUCCESS: %s", outputPath)
	log.Info("  Size: %s (%s)", display.FormatMB(size), display.FormatElapsed(time.Since(start)))
	stats.Created++
	stats.TotalOutputBytes += size

	finishRow(ctx, cfg, deps, log, row, slug, outputPath, size)
	return nil
}

// dryRunRow logs what would be rendered with an upper-bound size estimate
// from the narration cap.
func dryRunRow(cfg *config.Config, log *logging.Logger, post content.Post, outputPath string, stats *RunStats) error {
	plan, err := planner.BuildPlan(cfg, []string{"cover.jpg"}, "voiceover.mp3", cfg.MaxAudioSeconds, outputPath)
	if err != nil {
		return err
	}
	log.Info("  Cover: %s", post.ImageURL)
	log.Info("  Narration: %d characters", len([]rune(post.Narration)))
	log.Success("[DRY] Would render (at most %s)", display.FormatMB(planner.EstimateSize(plan)))
	stats.Created++
	return nil
}

// seedResolver claims the slugs of videos already in outputDir so a new row
// never overwrites a video whose URL may already be published.
func seedResolver(outputDir string, resolver *naming.CollisionResolver) int {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slug, ok := naming.SlugFromOutputName(e.Name()); ok {
			resolver.Claim("existing:"+e.Name(), slug)
			n++
		}
	}
	return n
}

// cleanup removes the row's work directory unless work files are kept.
func cleanup(cfg *config.Config, log *logging.Logger, workDir string) {
	if cfg.KeepWorkFiles {
		log.Info("  Work files kept in %s", workDir)
		return
	}
	if err := os.RemoveAll(workDir); err != nil {
		log.Warn("  Cleanup failed: %v", err)
	}
}

func newWorkID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger) {
	log.Info("Worksheets: %s", strings.Join(cfg.Worksheets, ", "))
	log.Info("Videos this run: %d", cfg.VideosPerRun)
	log.Info("Video: %dx%d @ %d fps, %s %s (%s), %d threads",
		cfg.Width, cfg.Height, cfg.FPS, cfg.VideoCodec, cfg.VideoBitrate, cfg.Preset, cfg.Threads)
	log.Info("Audio: %s %s; narration %s", cfg.AudioCodec, cfg.AudioBitrate, cfg.VoiceSummary())
	if cfg.VideoCodec == config.CodecX265 {
		log.Info("Compatibility: hvc1 tag for Apple/browser support")
	}
	if cfg.StrictMode {
		log.Info("Retry policy: Strict mode (no auto-retry)")
	}
	fmt.Println()
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Rows processed: %d, worksheets skipped: %d", stats.Scanned, stats.Skipped)
	if stats.Created == 0 {
		log.Error("No videos created.")
		return
	}
	if !cfg.DryRun {
		log.Info("Total output: %s", display.FormatBytes(stats.TotalOutputBytes))
	}
	log.Success("DONE: %d video(s) created successfully.", stats.Created)
}
