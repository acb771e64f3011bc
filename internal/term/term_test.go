package term

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/backmassage/reelsmith/internal/config"
)

func TestResolve(t *testing.T) {
	env := func(vals map[string]string) func(string) string {
		return func(k string) string { return vals[k] }
	}
	tests := []struct {
		name string
		mode config.ColorMode
		tty  bool
		env  map[string]string
		want bool
	}{
		{"always without tty", config.ColorAlways, false, nil, true},
		{"never on tty", config.ColorNever, true, nil, false},
		{"auto on tty", config.ColorAuto, true, nil, true},
		{"auto piped", config.ColorAuto, false, nil, false},
		{"auto NO_COLOR", config.ColorAuto, true, map[string]string{"NO_COLOR": "1"}, false},
		{"auto dumb terminal", config.ColorAuto, true, map[string]string{"TERM": "DUMB"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolve(tt.mode, tt.tty, env(tt.env)); got != tt.want {
				t.Errorf("resolve = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigure(t *testing.T) {
	defer Configure(config.ColorNever)

	if !Configure(config.ColorAlways) || !Enabled() {
		t.Fatal("ColorAlways should enable colors")
	}
	if LevelColor(zapcore.WarnLevel) != ansiYellow || LevelColor(zapcore.FatalLevel) != ansiRed {
		t.Error("unexpected level colors")
	}
	if Green != ansiGreen {
		t.Errorf("Green = %q", Green)
	}
	if got := Paint(Magenta, "x"); got != ansiMagenta+"x"+ansiReset {
		t.Errorf("Paint = %q", got)
	}

	if Configure(config.ColorNever) || Enabled() {
		t.Fatal("ColorNever should disable colors")
	}
	if LevelColor(zapcore.ErrorLevel) != "" || Paint(Magenta, "x") != "x" {
		t.Error("sequences should be empty while colors are off")
	}
}
