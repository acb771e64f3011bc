package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/backmassage/reelsmith/internal/check"
	"github.com/backmassage/reelsmith/internal/config"
	"github.com/backmassage/reelsmith/internal/display"
	"github.com/backmassage/reelsmith/internal/journal"
	"github.com/backmassage/reelsmith/internal/logging"
	"github.com/backmassage/reelsmith/internal/media"
	"github.com/backmassage/reelsmith/internal/overlay"
	"github.com/backmassage/reelsmith/internal/pipeline"
	"github.com/backmassage/reelsmith/internal/prune"
	"github.com/backmassage/reelsmith/internal/publish"
	"github.com/backmassage/reelsmith/internal/sheet"
	"github.com/backmassage/reelsmith/internal/tts"
)

func makeCmd(c *cli.Context) error {
	s, err := setup(c, false)
	if err != nil {
		return err
	}
	defer s.log.Close()
	logRunHeader(s)

	// Fail fast if ffmpeg/ffprobe or the encoders are unavailable.
	if err := check.CheckDeps(&s.cfg); err != nil {
		s.log.Error("%v", err)
		return cli.Exit("", 1)
	}

	ctx, cancel := signalContext(s.log)
	defer cancel()

	w, err := openWorkspace(ctx, &s.cfg, s.log)
	if err != nil {
		s.log.Error("%v", err)
		return cli.Exit("", 1)
	}
	defer w.Close()

	if err := w.makeOnce(ctx, &s.cfg, s.log); err != nil {
		return cli.Exit("", 1)
	}
	return nil
}

func publishCmd(c *cli.Context) error {
	s, err := setup(c, false)
	if err != nil {
		return err
	}
	defer s.log.Close()

	ctx, cancel := signalContext(s.log)
	defer cancel()

	client, err := sheet.NewGoogleClient(ctx, s.cfg.SheetID, s.cfg.SheetsKeyFile)
	if err != nil {
		s.log.Error("Google Sheets auth failed: %v", err)
		return cli.Exit("", 1)
	}
	var finder publish.LatestFinder
	if j, err := journal.Open(s.cfg.JournalPath); err != nil {
		s.log.Warn("Journal unavailable, using %s: %v", publish.TitleFile, err)
	} else {
		defer j.Close()
		finder = j
	}

	if err := runPublish(ctx, &s.cfg, client, finder, s.log); err != nil {
		return cli.Exit("", 1)
	}
	return nil
}

func pruneCmd(c *cli.Context) error {
	s, err := setup(c, false)
	if err != nil {
		return err
	}
	defer s.log.Close()

	ctx, cancel := signalContext(s.log)
	defer cancel()

	s.log.Info("Reading from Google Sheets to find used videos...")
	client, err := sheet.NewGoogleClient(ctx, s.cfg.SheetID, s.cfg.SheetsKeyFile)
	if err != nil {
		s.log.Error("Google Sheets auth failed: %v", err)
		return cli.Exit("", 1)
	}
	values, err := client.Rows(ctx, s.cfg.StatusWorksheet)
	if err != nil {
		s.log.Error("%v", err)
		return cli.Exit("", 1)
	}
	candidates, err := prune.Plan(values, s.cfg.OutputDir)
	if err != nil {
		s.log.Error("%v", err)
		return cli.Exit("", 1)
	}
	res, err := prune.Run(ctx, candidates, prune.ExecGit{}, s.cfg.DryRun, s.log)
	if err != nil {
		s.log.Error("%v", err)
		return cli.Exit("", 1)
	}
	s.log.Debug("Prune: %d used, %d removed, %d missing, %d failed", res.Candidates, res.Removed, res.Missing, res.Failed)
	return nil
}

func checkCmd(c *cli.Context) error {
	s, err := setup(c, true)
	if err != nil {
		return err
	}
	defer s.log.Close()
	check.RunCheck(&s.cfg, s.log)
	return nil
}

func historyCmd(c *cli.Context) error {
	s, err := setup(c, true)
	if err != nil {
		return err
	}
	defer s.log.Close()

	j, err := journal.Open(s.cfg.JournalPath)
	if err != nil {
		s.log.Error("%v", err)
		return cli.Exit("", 1)
	}
	defer j.Close()

	entries, err := j.List()
	if err != nil {
		s.log.Error("%v", err)
		return cli.Exit("", 1)
	}
	if len(entries) == 0 {
		s.log.Info("No renders recorded in %s", s.cfg.JournalPath)
		return nil
	}
	var total int64
	for _, e := range entries {
		total += e.SizeBytes
		s.log.Info("%s  %s!%d  %-40s %s",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Worksheet, e.Row, e.Slug, display.FormatBytes(e.SizeBytes))
	}
	s.log.Info("%d render(s), %s total", len(entries), display.FormatBytes(total))
	return nil
}

func logRunHeader(s *session) {
	s.log.Info("=== Reelsmith v%s (%s) ===", version, commit)
	s.log.Info("Sheet: %s", s.cfg.SheetID)
	s.log.Info("Out:   %s", s.cfg.OutputDir)
	if s.cfg.DryRun {
		s.log.Warn("DRY RUN: no videos rendered, no cells written")
	}
	s.log.Info("")
}

// workspace holds the long-lived clients make needs. It is built once per
// process and reused by every scheduled run.
type workspace struct {
	client  *sheet.GoogleClient
	synth   *tts.Google
	journal *journal.Journal
	deps    pipeline.Deps
}

func openWorkspace(ctx context.Context, cfg *config.Config, log *logging.Logger) (*workspace, error) {
	w := &workspace{}
	var err error

	log.Info("Initializing Google Sheets...")
	if w.client, err = sheet.NewGoogleClient(ctx, cfg.SheetID, cfg.SheetsKeyFile); err != nil {
		return nil, fmt.Errorf("google sheets auth: %w", err)
	}
	if !cfg.DryRun {
		if w.synth, err = tts.NewGoogle(ctx, cfg.TTSKeyFile); err != nil {
			return nil, err
		}
	}
	if w.journal, err = journal.Open(cfg.JournalPath); err != nil {
		w.Close()
		return nil, err
	}

	face, fontName, err := overlay.LoadFace(append([]string{cfg.FontFile}, overlay.SystemFonts...), cfg.FontSize)
	if err != nil {
		w.Close()
		return nil, err
	}
	log.Debug("Title font: %s", fontName)

	collector := &media.Collector{
		Fetch:          media.NewDownloader(cfg.DownloadTimeout),
		Width:          cfg.Width,
		Height:         cfg.Height,
		CrawlCount:     cfg.CrawlCount,
		MinSize:        cfg.CrawlMinSize,
		Workers:        cfg.CrawlWorkers,
		FallbackRepeat: cfg.FallbackRepeat,
		Log:            log,
	}
	if cfg.SearchAPIKey != "" && cfg.SearchEngineID != "" {
		cs, err := media.NewCustomSearch(ctx, cfg.SearchAPIKey, cfg.SearchEngineID)
		if err != nil {
			log.Warn("Image search disabled: %v", err)
		} else {
			collector.Crawler = cs
		}
	}

	w.deps = pipeline.Deps{
		Sheet:     w.client,
		Collector: collector,
		Face:      face,
		Journal:   w.journal,
	}
	if w.synth != nil {
		w.deps.Synth = w.synth
	}
	return w, nil
}

// makeOnce runs the pipeline and, when configured, publishes the result.
func (w *workspace) makeOnce(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	stats, err := pipeline.Run(ctx, cfg, w.deps, log)
	if err != nil {
		if !errors.Is(err, pipeline.ErrNothingCreated) {
			log.Error("FATAL ERROR: %v", err)
		}
		return err
	}
	if cfg.PublishAfterMake && !cfg.DryRun && stats.Created > 0 {
		return runPublish(ctx, cfg, w.client, w.journal, log)
	}
	return nil
}

func (w *workspace) Close() {
	if w.synth != nil {
		w.synth.Close()
	}
	if w.journal != nil {
		w.journal.Close()
	}
}

// runPublish writes the latest video URL; an already published URL is not
// an error.
func runPublish(ctx context.Context, cfg *config.Config, client sheet.Client, finder publish.LatestFinder, log *logging.Logger) error {
	opts := publish.Options{
		Template:        cfg.VideoURLTemplate,
		StatusWorksheet: cfg.StatusWorksheet,
		OutputDir:       cfg.OutputDir,
		DryRun:          cfg.DryRun,
	}
	res, err := publish.Publish(ctx, client, finder, opts, log)
	switch {
	case errors.Is(err, publish.ErrAlreadyPublished):
		log.Info("Row %d already has %s", res.Row, res.URL)
		return nil
	case err != nil:
		log.Error("Cannot update sheet: %v", err)
		return err
	}
	return nil
}
