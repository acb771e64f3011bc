package config

// This file binds CLI flags to Config. The same flags are declared on the
// app and on every command, so they may be given before or after the
// command name; values are read from whichever context in the lineage set
// them, innermost first. Flags are applied after Load, so only flags the
// user actually passed override the file and environment.

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

// Flag names shared between Flags and ApplyFlags.
const (
	FlagConfig    = "config"
	FlagEnvFile   = "env-file"
	flagSheetID   = "sheet-id"
	flagWorksheet = "worksheet"
	flagOutput    = "output"
	flagVideos    = "videos"
	flagMaxAudio  = "max-audio"
	flagCodec     = "codec"
	flagFPS       = "fps"
	flagPreset    = "preset"
	flagThreads   = "threads"
	flagFont      = "font"
	flagDryRun    = "dry-run"
	flagStrict    = "strict"
	flagKeepWork  = "keep-work"
	flagVerbose   = "verbose"
	flagColor     = "color"
	flagNoColor   = "no-color"
	flagLog       = "log"
	flagJournal   = "journal"
	flagSchedule  = "schedule"
	flagPublish   = "publish"
)

// Flags returns the global flag set, grouped into input, rendering,
// behavior, and display categories for the help output.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: FlagConfig, Aliases: []string{"C"}, Usage: "YAML config file", Category: "Input"},
		&cli.StringFlag{Name: FlagEnvFile, Value: ".env", Usage: "dotenv file with REELSMITH_* overrides", Category: "Input"},
		&cli.StringFlag{Name: flagSheetID, Usage: "Google spreadsheet ID", Category: "Input"},
		&cli.StringSliceFlag{Name: flagWorksheet, Aliases: []string{"w"}, Usage: "worksheet to scan (repeatable, in order)", Category: "Input"},
		&cli.StringFlag{Name: flagOutput, Aliases: []string{"o"}, Usage: "output directory", Category: "Input"},

		&cli.IntFlag{Name: flagVideos, Aliases: []string{"n"}, Usage: "videos to create per run", Category: "Rendering"},
		&cli.Float64Flag{Name: flagMaxAudio, Usage: "narration length cap in seconds", Category: "Rendering"},
		&cli.StringFlag{Name: flagCodec, Usage: "video encoder: libx265 | libx264", Category: "Rendering"},
		&cli.IntFlag{Name: flagFPS, Usage: "output frame rate", Category: "Rendering"},
		&cli.StringFlag{Name: flagPreset, Aliases: []string{"p"}, Usage: "encoder preset (e.g. medium, slow)", Category: "Rendering"},
		&cli.IntFlag{Name: flagThreads, Usage: "ffmpeg encoder threads", Category: "Rendering"},
		&cli.StringFlag{Name: flagFont, Usage: "TrueType/OpenType font for the title overlay", Category: "Rendering"},

		&cli.BoolFlag{Name: flagDryRun, Aliases: []string{"d"}, Usage: "preview only; do not render, write cells, or touch git", Category: "Behavior"},
		&cli.BoolFlag{Name: flagStrict, Usage: "disable automatic ffmpeg retry fallbacks", Category: "Behavior"},
		&cli.BoolFlag{Name: flagKeepWork, Usage: "keep intermediate audio and images", Category: "Behavior"},
		&cli.StringFlag{Name: flagJournal, Usage: "render journal database path", Category: "Behavior"},
		&cli.StringFlag{Name: flagSchedule, Usage: "cron spec for the schedule command", Category: "Behavior"},
		&cli.BoolFlag{Name: flagPublish, Usage: "publish the video URL right after make", Category: "Behavior"},

		&cli.BoolFlag{Name: flagVerbose, Aliases: []string{"v"}, Usage: "verbose output", Category: "Display"},
		&cli.BoolFlag{Name: flagColor, Usage: "force colored logs", Category: "Display"},
		&cli.BoolFlag{Name: flagNoColor, Usage: "disable colored logs", Category: "Display"},
		&cli.StringFlag{Name: flagLog, Aliases: []string{"l"}, Usage: "append logs to file", Category: "Display"},
	}
}

// ApplyFlags copies every flag the user set into cfg.
func ApplyFlags(c *cli.Context, cfg *Config) error {
	if f := setIn(c, flagSheetID); f != nil {
		cfg.SheetID = f.String(flagSheetID)
	}
	if f := setIn(c, flagWorksheet); f != nil {
		cfg.Worksheets = f.StringSlice(flagWorksheet)
	}
	if f := setIn(c, flagOutput); f != nil {
		cfg.OutputDir = NormalizeDirArg(f.String(flagOutput))
	}
	if f := setIn(c, flagVideos); f != nil {
		cfg.VideosPerRun = f.Int(flagVideos)
	}
	if f := setIn(c, flagMaxAudio); f != nil {
		cfg.MaxAudioSeconds = f.Float64(flagMaxAudio)
	}
	if f := setIn(c, flagCodec); f != nil {
		codec, err := parseCodec(f.String(flagCodec))
		if err != nil {
			return err
		}
		cfg.VideoCodec = codec
	}
	if f := setIn(c, flagFPS); f != nil {
		cfg.FPS = f.Int(flagFPS)
	}
	if f := setIn(c, flagPreset); f != nil {
		cfg.Preset = f.String(flagPreset)
	}
	if f := setIn(c, flagThreads); f != nil {
		cfg.Threads = f.Int(flagThreads)
	}
	if f := setIn(c, flagFont); f != nil {
		cfg.FontFile = f.String(flagFont)
	}
	if f := setIn(c, flagDryRun); f != nil {
		cfg.DryRun = f.Bool(flagDryRun)
	}
	if f := setIn(c, flagStrict); f != nil {
		cfg.StrictMode = f.Bool(flagStrict)
	}
	if f := setIn(c, flagKeepWork); f != nil {
		cfg.KeepWorkFiles = f.Bool(flagKeepWork)
	}
	if f := setIn(c, flagJournal); f != nil {
		cfg.JournalPath = f.String(flagJournal)
	}
	if f := setIn(c, flagSchedule); f != nil {
		cfg.Schedule = f.String(flagSchedule)
	}
	if f := setIn(c, flagPublish); f != nil {
		cfg.PublishAfterMake = f.Bool(flagPublish)
	}
	if f := setIn(c, flagVerbose); f != nil {
		cfg.Verbose = f.Bool(flagVerbose)
	}
	if f := setIn(c, flagLog); f != nil {
		cfg.LogFile = f.String(flagLog)
	}
	if f := setIn(c, flagNoColor); f != nil && f.Bool(flagNoColor) {
		cfg.ColorMode = ColorNever
	} else if f := setIn(c, flagColor); f != nil && f.Bool(flagColor) {
		cfg.ColorMode = ColorAlways
	}
	return nil
}

// LookupString returns the value of a string flag from the context that
// set it, or its default when no context did.
func LookupString(c *cli.Context, name string) string {
	if f := setIn(c, name); f != nil {
		return f.String(name)
	}
	return c.String(name)
}

// setIn returns the innermost context in c's lineage where name was given
// on the command line, or nil. c.IsSet alone only consults the nearest flag
// set that declares name, which is the command's own copy.
func setIn(c *cli.Context, name string) *cli.Context {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx
		}
	}
	return nil
}

// parseCodec maps a user codec name onto the VideoCodec enum.
func parseCodec(s string) (VideoCodec, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "libx265", "x265", "hevc":
		return CodecX265, nil
	case "libx264", "x264", "h264":
		return CodecX264, nil
	default:
		return "", fmt.Errorf("invalid codec %q (use 'libx265' or 'libx264')", s)
	}
}
