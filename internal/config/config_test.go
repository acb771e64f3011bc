package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/srv/shorts", "/srv/shorts"},
		{"single trailing slash", "/srv/shorts/", "/srv/shorts"},
		{"multiple trailing slashes", "/srv/shorts///", "/srv/shorts"},
		{"root path", "/", "/"},
		{"relative path", "output", "output"},
		{"relative with slash", "output/", "output"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidate_Codec(t *testing.T) {
	tests := []struct {
		name    string
		codec   VideoCodec
		wantErr bool
	}{
		{"libx265 is valid", CodecX265, false},
		{"libx264 is valid", CodecX264, false},
		{"empty is invalid", "", true},
		{"unknown is invalid", "hevc_nvenc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CheckOnly = true
			cfg.VideoCodec = tt.codec
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Ranges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"odd width", func(c *Config) { c.Width = 721 }},
		{"zero height", func(c *Config) { c.Height = 0 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"zero threads", func(c *Config) { c.Threads = 0 }},
		{"negative audio cap", func(c *Config) { c.MaxAudioSeconds = -1 }},
		{"speaking rate too fast", func(c *Config) { c.SpeakingRate = 5 }},
		{"motion of one", func(c *Config) { c.MotionAmount = 1 }},
		{"no videos", func(c *Config) { c.VideosPerRun = 0 }},
		{"template without slug", func(c *Config) { c.VideoURLTemplate = "https://example.com/video.mp4" }},
		{"bad audio bitrate", func(c *Config) { c.AudioBitrate = "loud" }},
		{"bad color", func(c *Config) { c.ColorMode = "rainbow" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestValidate_NormalizesBitrates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AudioBitrate = " 128Kbps "
	cfg.VideoBitrate = "900"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.AudioBitrate != "128k" {
		t.Errorf("AudioBitrate = %q, want 128k", cfg.AudioBitrate)
	}
	if cfg.VideoBitrate != "900k" {
		t.Errorf("VideoBitrate = %q, want 900k", cfg.VideoBitrate)
	}
}

func TestValidate_RequiresSheet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SheetID = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail without a sheet ID")
	}

	cfg.CheckOnly = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() should pass in CheckOnly mode, got: %v", err)
	}
}

func TestDefaultConfig_SaneDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width != 720 || cfg.Height != 1280 {
		t.Errorf("default frame = %dx%d, want 720x1280", cfg.Width, cfg.Height)
	}
	if cfg.VideoCodec != CodecX265 {
		t.Errorf("default VideoCodec = %q, want %q", cfg.VideoCodec, CodecX265)
	}
	if cfg.MaxAudioSeconds != 55 {
		t.Errorf("default MaxAudioSeconds = %g, want 55", cfg.MaxAudioSeconds)
	}
	if cfg.FPS != 15 {
		t.Errorf("default FPS = %d, want 15", cfg.FPS)
	}
	if len(cfg.Worksheets) != 3 || cfg.Worksheets[0] != "Phòng mạch" {
		t.Errorf("default Worksheets = %v", cfg.Worksheets)
	}
	if cfg.DryRun {
		t.Error("default DryRun should be false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got: %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reelsmith.yaml")
	yml := "worksheets: [A, B]\nfps: 24\ndownload_timeout: 3s\nvideo_bitrate: 1200k\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := Load(&cfg, path, ""); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FPS != 24 || cfg.VideoBitrate != "1200k" || cfg.DownloadTimeout.Seconds() != 3 {
		t.Errorf("file values not applied: fps=%d bitrate=%s timeout=%v", cfg.FPS, cfg.VideoBitrate, cfg.DownloadTimeout)
	}
	if cfg.Preset != "medium" {
		t.Errorf("unset keys should keep defaults, Preset = %q", cfg.Preset)
	}

	env := map[string]string{
		EnvPrefix + "WORKSHEETS":     " X , ,Y ",
		EnvPrefix + "VIDEOS_PER_RUN": "2",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }
	if err := applyEnv(&cfg, lookup); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}
	if len(cfg.Worksheets) != 2 || cfg.Worksheets[0] != "X" || cfg.Worksheets[1] != "Y" {
		t.Errorf("Worksheets = %v, want [X Y]", cfg.Worksheets)
	}
	if cfg.VideosPerRun != 2 {
		t.Errorf("VideosPerRun = %d, want 2", cfg.VideosPerRun)
	}
}

func TestApplyEnv_BadNumber(t *testing.T) {
	cfg := DefaultConfig()
	lookup := func(k string) (string, bool) {
		if k == EnvPrefix+"VIDEOS_PER_RUN" {
			return "many", true
		}
		return "", false
	}
	if err := applyEnv(&cfg, lookup); err == nil {
		t.Error("applyEnv should reject a non-numeric count")
	}
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	cfg := DefaultConfig()
	if err := Load(&cfg, "", filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("Load with missing env file: %v", err)
	}
}

func TestApplyFlags_OnlySetFlagsOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Preset = "slow" // pretend the file set this

	app := &cli.App{
		Name:  "reelsmith",
		Flags: Flags(),
		Action: func(c *cli.Context) error {
			return ApplyFlags(c, &cfg)
		},
	}
	args := []string{"reelsmith", "-n", "3", "-w", "A", "-w", "B", "--codec", "x264", "--no-color", "-o", "out/"}
	if err := app.Run(args); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if cfg.VideosPerRun != 3 {
		t.Errorf("VideosPerRun = %d, want 3", cfg.VideosPerRun)
	}
	if len(cfg.Worksheets) != 2 || cfg.Worksheets[1] != "B" {
		t.Errorf("Worksheets = %v, want [A B]", cfg.Worksheets)
	}
	if cfg.VideoCodec != CodecX264 {
		t.Errorf("VideoCodec = %q, want libx264", cfg.VideoCodec)
	}
	if cfg.ColorMode != ColorNever {
		t.Errorf("ColorMode = %q, want never", cfg.ColorMode)
	}
	if cfg.OutputDir != "out" {
		t.Errorf("OutputDir = %q, want out", cfg.OutputDir)
	}
	if cfg.Preset != "slow" {
		t.Errorf("unset --preset should not override, got %q", cfg.Preset)
	}
}

func TestApplyFlags_BadCodec(t *testing.T) {
	cfg := DefaultConfig()
	app := &cli.App{
		Name:   "reelsmith",
		Flags:  Flags(),
		Action: func(c *cli.Context) error { return ApplyFlags(c, &cfg) },
	}
	if err := app.Run([]string{"reelsmith", "--codec", "av1"}); err == nil {
		t.Error("expected an error for an unknown codec")
	}
}

func TestExpandPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputDir = "out///"
	if err := cfg.ExpandPaths(); err != nil {
		t.Fatalf("ExpandPaths: %v", err)
	}
	if cfg.OutputDir != "out" {
		t.Errorf("OutputDir = %q, want out", cfg.OutputDir)
	}
	if cfg.JournalPath == "" || cfg.JournalPath[0] == '~' {
		t.Errorf("JournalPath not expanded: %q", cfg.JournalPath)
	}
}

func TestApplyFlags_BeforeAndAfterCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantDry    bool
		wantVideos int
		wantSheets []string
		wantConfig string
		wantEnv    string
	}{
		{
			name:       "before command",
			args:       []string{"reelsmith", "--dry-run", "-n", "4", "-w", "A", "--config", "x.yaml", "prune"},
			wantDry:    true,
			wantVideos: 4,
			wantSheets: []string{"A"},
			wantConfig: "x.yaml",
			wantEnv:    ".env",
		},
		{
			name:       "after command",
			args:       []string{"reelsmith", "prune", "--dry-run", "-n", "4", "--env-file", ""},
			wantDry:    true,
			wantVideos: 4,
			wantSheets: DefaultConfig().Worksheets,
			wantEnv:    "",
		},
		{
			name:       "command value wins",
			args:       []string{"reelsmith", "-n", "5", "-w", "A", "prune", "-n", "2"},
			wantVideos: 2,
			wantSheets: []string{"A"},
			wantEnv:    ".env",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			var configPath, envFile string
			action := func(c *cli.Context) error {
				configPath = LookupString(c, FlagConfig)
				envFile = LookupString(c, FlagEnvFile)
				return ApplyFlags(c, &cfg)
			}
			app := &cli.App{
				Name:  "reelsmith",
				Flags: Flags(),
				Commands: []*cli.Command{
					{Name: "prune", Flags: Flags(), Action: action},
				},
			}
			if err := app.Run(tt.args); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if cfg.DryRun != tt.wantDry {
				t.Errorf("DryRun = %v, want %v", cfg.DryRun, tt.wantDry)
			}
			if cfg.VideosPerRun != tt.wantVideos {
				t.Errorf("VideosPerRun = %d, want %d", cfg.VideosPerRun, tt.wantVideos)
			}
			if strings.Join(cfg.Worksheets, ",") != strings.Join(tt.wantSheets, ",") {
				t.Errorf("Worksheets = %v, want %v", cfg.Worksheets, tt.wantSheets)
			}
			if configPath != tt.wantConfig {
				t.Errorf("config path = %q, want %q", configPath, tt.wantConfig)
			}
			if envFile != tt.wantEnv {
				t.Errorf("env file = %q, want %q", envFile, tt.wantEnv)
			}
		})
	}
}
