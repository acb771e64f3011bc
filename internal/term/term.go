// Package term resolves whether console output is colored and holds the
// ANSI sequences used by the logger's level tags and the banner.
//
// State is package-level: [Configure] runs once during startup (from
// logging.NewLogger) and every sequence is the empty string while colors
// are off, so callers can concatenate unconditionally.
package term

import (
	"os"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/backmassage/reelsmith/internal/config"
)

// Magenta (the banner), Green (success tags) and NC (reset) are exported
// for direct use.
var (
	Magenta = ""
	Green   = ""
	NC      = ""
)

// levelColors holds the level tag colors; nil while colors are off.
var levelColors map[zapcore.Level]string

const (
	ansiRed     = "\033[1;91m"
	ansiYellow  = "\033[1;93m"
	ansiBlue    = "\033[1;94m"
	ansiCyan    = "\033[1;96m"
	ansiGreen   = "\033[1;92m"
	ansiMagenta = "\033[1;95m"
	ansiReset   = "\033[0m"
)

// Configure resolves mode against stdout and the environment and sets the
// package state. It reports whether colors are on.
func Configure(mode config.ColorMode) bool {
	on := resolve(mode, IsTerminal(os.Stdout), os.Getenv)
	if !on {
		Magenta, Green, NC, levelColors = "", "", "", nil
		return false
	}
	Magenta, Green, NC = ansiMagenta, ansiGreen, ansiReset
	levelColors = map[zapcore.Level]string{
		zapcore.DebugLevel: ansiCyan,
		zapcore.InfoLevel:  ansiBlue,
		zapcore.WarnLevel:  ansiYellow,
	}
	return true
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return NC != "" }

// LevelColor returns the sequence for a level tag. Error and above are red.
func LevelColor(l zapcore.Level) string {
	if levelColors == nil {
		return ""
	}
	if c, ok := levelColors[l]; ok {
		return c
	}
	return ansiRed
}

// Paint wraps s in color and a reset when colors are on.
func Paint(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + NC
}

// resolve applies the color mode. Auto needs a TTY, an unset NO_COLOR
// (https://no-color.org) and a TERM other than "dumb".
func resolve(mode config.ColorMode, tty bool, getenv func(string) string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return tty &&
			getenv("NO_COLOR") == "" &&
			!strings.EqualFold(getenv("TERM"), "dumb")
	}
}

// IsTerminal reports whether f is a character device.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
