package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/backmassage/reelsmith/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = ""
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorAlways
	cfg.LogFile = filepath.Join(dir, "logs", "reelsmith.log")
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("to file")
	l.Success("rendered %s", "clip")
	l.Debug("hidden")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(cfg.LogFile)
	if !bytes.Contains(b, []byte("[INFO]")) || !bytes.Contains(b, []byte("to file")) {
		t.Errorf("log file content: %s", string(b))
	}
	if !bytes.Contains(b, []byte("[SUCCESS] rendered clip")) {
		t.Errorf("success line missing: %s", string(b))
	}
	if bytes.Contains(b, []byte("result")) {
		t.Errorf("success line carries a field: %s", string(b))
	}
	if bytes.Contains(b, []byte("hidden")) {
		t.Error("debug line written without verbose")
	}
	if bytes.Contains(b, []byte("\033[")) {
		t.Error("file sink must not contain ANSI escapes")
	}
}

func TestNewLogger_VerboseWritesDebug(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.Verbose = true
	cfg.LogFile = filepath.Join(dir, "reelsmith.log")
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	l.Debug("probe %d", 7)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(cfg.LogFile)
	if !bytes.Contains(b, []byte("[DEBUG] probe 7")) {
		t.Errorf("log file content: %s", string(b))
	}
}

func TestBracketLevel_Success(t *testing.T) {
	tests := []struct {
		name  string
		level zapcore.Level
		want  string
	}{
		{"info", zapcore.InfoLevel, "[INFO]"},
		{"success", successLevel, "[SUCCESS]"},
		{"error", zapcore.ErrorLevel, "[ERROR]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arr := &stringArray{}
			bracketLevel(false)(tt.level, arr)
			if len(arr.vals) != 1 || arr.vals[0] != tt.want {
				t.Errorf("tag = %v, want %q", arr.vals, tt.want)
			}
		})
	}
}

// stringArray collects AppendString calls from a level encoder.
type stringArray struct {
	zapcore.PrimitiveArrayEncoder
	vals []string
}

func (a *stringArray) AppendString(s string) { a.vals = append(a.vals, s) }
