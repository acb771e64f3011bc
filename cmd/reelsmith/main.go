// Command reelsmith turns spreadsheet rows into narrated vertical shorts.
//
// It loads configuration (defaults, YAML file, .env and REELSMITH_*
// environment, then flags), and runs one of make (default), publish,
// prune, check, history or schedule.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/backmassage/reelsmith/internal/config"
	"github.com/backmassage/reelsmith/internal/display"
	"github.com/backmassage/reelsmith/internal/logging"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	app := newApp()
	if err := app.Run(args); err != nil {
		var ec cli.ExitCoder
		if errors.As(err, &ec) {
			if msg := err.Error(); msg != "" {
				fmt.Fprintf(os.Stderr, "reelsmith: %s\n", msg)
			}
			return ec.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "reelsmith: %v\n", err)
		return 1
	}
	return 0
}

func newApp() *cli.App {
	// -v is --verbose.
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "print the version"}
	return &cli.App{
		Name:    "reelsmith",
		Usage:   "render narrated vertical shorts from a Google Sheet",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Flags:   config.Flags(),
		Action:  makeCmd,
		// Exit codes are mapped in run so deferred cleanup still happens.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:   "make",
				Usage:  "render videos for pending rows (default)",
				Flags:  config.Flags(),
				Action: makeCmd,
			},
			{
				Name:   "publish",
				Usage:  "write the last rendered video's URL into column H",
				Flags:  config.Flags(),
				Action: publishCmd,
			},
			{
				Name:   "prune",
				Usage:  "git rm videos whose row has column I filled in, then commit and push",
				Flags:  config.Flags(),
				Action: pruneCmd,
			},
			{
				Name:   "check",
				Usage:  "system diagnostics for ffmpeg, encoders, fonts and key files",
				Flags:  config.Flags(),
				Action: checkCmd,
			},
			{
				Name:   "history",
				Usage:  "list renders recorded in the journal, oldest first",
				Flags:  config.Flags(),
				Action: historyCmd,
			},
			{
				Name:   "schedule",
				Usage:  "run make (and publish) on the configured cron spec until interrupted",
				Flags:  config.Flags(),
				Action: scheduleCmd,
			},
		},
	}
}

// session is the configured logger and settings shared by every command.
type session struct {
	cfg config.Config
	log *logging.Logger
}

// setup builds the configuration from the file, environment and flags and
// opens the logger. checkOnly relaxes validation for the check command.
func setup(c *cli.Context, checkOnly bool) (*session, error) {
	cfg := config.DefaultConfig()
	if err := config.Load(&cfg, config.LookupString(c, config.FlagConfig), config.LookupString(c, config.FlagEnvFile)); err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	if err := config.ApplyFlags(c, &cfg); err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	if err := cfg.ExpandPaths(); err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	cfg.CheckOnly = checkOnly
	if err := cfg.Validate(); err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	display.PrintBanner()
	return &session{cfg: cfg, log: log}, nil
}

// signalContext cancels on SIGINT/SIGTERM so the pipeline can stop between
// stages without leaving partial output.
func signalContext(log *logging.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, finishing current stage…")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
