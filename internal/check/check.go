// Package check provides system diagnostics (the check command) and
// pre-pipeline dependency validation (CheckDeps) for ffmpeg, ffprobe, the
// video/audio encoders, and the credential and font files.
package check

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/backmassage/reelsmith/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrEncodeFailed    = errors.New("neither libx265 nor libx264 test encode succeeded")
	ErrAudioFailed     = errors.New("aac or libmp3lame test encode failed")
	ErrKeyFile         = errors.New("credential file not readable")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(string, ...interface{})
}

// Runner executes a command and reports whether it exited with status 0.
// Tests swap it out.
var Runner = runSilent

// RunCheck runs the interactive check flow: prints availability of ffmpeg,
// ffprobe, each encoder, the credential files, and the overlay font.
// This is informational only; it does not stop on failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkFfmpeg(log)
	if _, err := exec.LookPath("ffprobe"); err != nil {
		log.Error("ffprobe not found")
	} else {
		log.Success("ffprobe found")
	}
	for _, enc := range []string{string(config.CodecX265), string(config.CodecX264)} {
		checkEncoder(log, enc, videoTestArgs(enc))
	}
	checkEncoder(log, cfg.AudioCodec, audioTestArgs(cfg.AudioCodec))
	checkEncoder(log, cfg.NarrationCodec, audioTestArgs(cfg.NarrationCodec))

	for _, kf := range []struct{ label, path string }{
		{"Sheets key", cfg.SheetsKeyFile},
		{"TTS key", cfg.TTSKeyFile},
	} {
		if err := readable(kf.path); err != nil {
			log.Warn("%s: %v", kf.label, err)
		} else {
			log.Success("%s: %s", kf.label, kf.path)
		}
	}
	switch {
	case cfg.FontFile == "":
		log.Info("Font: embedded Go Bold (no font_file set)")
	case readable(cfg.FontFile) != nil:
		log.Warn("Font %s not readable; overlay falls back to DejaVuSans-Bold or Go Bold", cfg.FontFile)
	default:
		log.Success("Font: %s", cfg.FontFile)
	}
	if cfg.SearchAPIKey == "" || cfg.SearchEngineID == "" {
		log.Warn("Image search not configured; videos will use the cover image only")
	}
}

// checkFfmpeg verifies ffmpeg is on PATH and logs its version string.
func checkFfmpeg(log Logger) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		log.Error("ffmpeg not found")
		return
	}
	out, err := exec.Command("ffmpeg", "-version").Output()
	if err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
		return
	}
	log.Success("ffmpeg: %s", firstLine(string(out)))
}

func checkEncoder(log Logger, name string, args []string) {
	log.Debug("Testing %s...", name)
	if Runner("ffmpeg", args...) {
		log.Success("%s works", name)
	} else {
		log.Error("%s test encode failed", name)
	}
}

// CheckDeps is the pre-pipeline validation: ffmpeg and ffprobe must be on
// PATH, the configured video encoder (or, outside strict mode, its libx264
// fallback) must encode, and both audio encoders must work. The Sheets key
// file must be readable unless this is a dry run. Returns a sentinel error
// on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	return checkEncoders(cfg)
}

// checkEncoders holds the PATH-independent part of CheckDeps.
func checkEncoders(cfg *config.Config) error {
	if !Runner("ffmpeg", videoTestArgs(string(cfg.VideoCodec))...) {
		if cfg.StrictMode || cfg.VideoCodec == config.CodecX264 ||
			!Runner("ffmpeg", videoTestArgs(string(config.CodecX264))...) {
			return ErrEncodeFailed
		}
	}
	for _, enc := range []string{cfg.AudioCodec, cfg.NarrationCodec} {
		if !Runner("ffmpeg", audioTestArgs(enc)...) {
			return fmt.Errorf("%w: %s", ErrAudioFailed, enc)
		}
	}
	if !cfg.DryRun {
		if err := readable(cfg.SheetsKeyFile); err != nil {
			return fmt.Errorf("%w: %v", ErrKeyFile, err)
		}
	}
	return nil
}

// --- internal helpers ---

// videoTestArgs returns the ffmpeg arguments for a minimal test encode.
// Shared by RunCheck and CheckDeps to avoid duplicating the argument list.
func videoTestArgs(encoder string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", encoder,
		"-f", "null", "-",
	}
}

func audioTestArgs(encoder string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", encoder, "-f", "null", "-",
	}
}

func readable(path string) error {
	if path == "" {
		return errors.New("not configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		return s[:idx]
	}
	return s
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
