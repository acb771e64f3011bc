// Package logging provides the leveled, optionally colored console logger
// used across the pipeline. It is a thin printf-style facade over zap: one
// console core (stdout, errors to stderr) and an optional plain-text file
// core appended to the configured log file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/backmassage/reelsmith/internal/config"
	"github.com/backmassage/reelsmith/internal/term"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeLayout = "2006-01-02 15:04:05"

// successLevel tags Success lines. It sits outside zap's named levels and
// is enabled whenever INFO is.
const successLevel = zapcore.DebugLevel - 1

// Logger provides leveled logging with an optional file sink.
type Logger struct {
	mu      sync.Mutex
	z       *zap.Logger
	s       *zap.SugaredLogger
	file    *os.File
	verbose bool
}

// NewLogger configures terminal colors from cfg and builds the zap cores.
// Call Close when done so the log file is flushed and closed.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	console := zapcore.NewConsoleEncoder(encoderConfig(bracketLevel(term.Enabled())))
	enabled := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		if l == successLevel {
			return level.Enabled(zapcore.InfoLevel)
		}
		return level.Enabled(l)
	})
	belowError := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return enabled(l) && l < zapcore.ErrorLevel
	})
	atError := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.ErrorLevel
	})
	cores := []zapcore.Core{
		zapcore.NewCore(console, zapcore.Lock(os.Stdout), belowError),
		zapcore.NewCore(console, zapcore.Lock(os.Stderr), atError),
	}

	l := &Logger{verbose: cfg.Verbose}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		plain := zapcore.NewConsoleEncoder(encoderConfig(bracketLevel(false)))
		cores = append(cores, zapcore.NewCore(plain, zapcore.AddSync(f), enabled))
	}

	l.z = zap.New(zapcore.NewTee(cores...))
	l.s = l.z.Sugar()
	return l, nil
}

// Nop returns a Logger that discards everything. Used by tests.
func Nop() *Logger {
	z := zap.NewNop()
	return &Logger{z: z, s: z.Sugar()}
}

func encoderConfig(levelEnc zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(timeLayout),
		EncodeLevel:      levelEnc,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}

// bracketLevel renders levels as "[INFO]", colored when color is set.
// successLevel renders as a green "[SUCCESS]".
func bracketLevel(color bool) zapcore.LevelEncoder {
	return func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		tag, c := "["+l.CapitalString()+"]", term.LevelColor(l)
		if l == successLevel {
			tag, c = "[SUCCESS]", term.Green
		}
		if !color {
			enc.AppendString(tag)
			return
		}
		enc.AppendString(c + tag + term.NC)
	}
}

// Close flushes zap and closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.z.Sync()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Zap exposes the underlying structured logger for packages that log fields.
func (l *Logger) Zap() *zap.Logger { return l.z }

// Verbose reports whether debug output is enabled.
func (l *Logger) Verbose() bool { return l.verbose }

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.s.Infof(format, args...)
}

// Success logs at SUCCESS level (green), shown whenever INFO is.
func (l *Logger) Success(format string, args ...interface{}) {
	l.z.Log(successLevel, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.s.Warnf(format, args...)
}

// Error logs at ERROR level, to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.s.Errorf(format, args...)
}

// Debug logs at DEBUG level; dropped unless verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.s.Debugf(format, args...)
}
