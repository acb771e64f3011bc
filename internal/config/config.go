// Package config holds runtime configuration: defaults, the optional YAML
// file, environment overrides, CLI flag binding, and validation. Defaults
// reproduce the production pipeline settings (720x1280 at 15 fps, 55 s of
// narration, libx265 at 700k).
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
)

// --- Enum types for validated string fields ---

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// VideoCodec is the ffmpeg encoder used for the rendered short.
type VideoCodec string

const (
	CodecX265 VideoCodec = "libx265" // Default.
	CodecX264 VideoCodec = "libx264" // Fallback when libx265 is unavailable.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// overlaid by [Load] (file and environment) and finally by [ApplyFlags]
// before being passed (by pointer) to packages that need it.
type Config struct {
	// Spreadsheet.
	SheetID         string   `yaml:"sheet_id"`
	Worksheets      []string `yaml:"worksheets"`       // Scanned in order by make.
	StatusWorksheet string   `yaml:"status_worksheet"` // Used by publish and prune.
	SheetsKeyFile   string   `yaml:"sheets_key_file"`
	DoneMarker      string   `yaml:"done_marker"` // Written to column H after a render.

	// Narration.
	TTSKeyFile      string  `yaml:"tts_key_file"`
	VoiceLanguage   string  `yaml:"voice_language"`
	VoiceName       string  `yaml:"voice_name"`
	SpeakingRate    float64 `yaml:"speaking_rate"`
	SampleRateHz    int     `yaml:"sample_rate_hz"`
	MaxAudioSeconds float64 `yaml:"max_audio_seconds"`
	NarrationCodec  string  `yaml:"narration_codec"` // Fixed: "libmp3lame".

	// Images.
	Width           int           `yaml:"width"`
	Height          int           `yaml:"height"`
	DefaultImageURL string        `yaml:"default_image_url"`
	DownloadTimeout time.Duration `yaml:"download_timeout"`
	CrawlCount      int           `yaml:"crawl_count"`
	CrawlMinSize    int           `yaml:"crawl_min_size"`
	CrawlWorkers    int           `yaml:"crawl_workers"`
	SearchAPIKey    string        `yaml:"search_api_key"`
	SearchEngineID  string        `yaml:"search_engine_id"`
	FallbackRepeat  int           `yaml:"fallback_repeat"` // Cover copies when the crawl yields too little.

	// Title overlay.
	FontFile string  `yaml:"font_file"`
	FontSize float64 `yaml:"font_size"`

	// Video encoding.
	VideoCodec   VideoCodec `yaml:"video_codec"`
	VideoBitrate string     `yaml:"video_bitrate"`
	AudioCodec   string     `yaml:"audio_codec"`
	AudioBitrate string     `yaml:"audio_bitrate"`
	FPS          int        `yaml:"fps"`
	Preset       string     `yaml:"preset"`
	Threads      int        `yaml:"threads"`
	MotionAmount float64    `yaml:"motion_amount"` // Zoom/pan travel as a fraction of the frame.

	// Run behavior.
	OutputDir        string `yaml:"output_dir"`
	VideosPerRun     int    `yaml:"videos_per_run"`
	VideoURLTemplate string `yaml:"video_url_template"` // "{slug}" is replaced.
	JournalPath      string `yaml:"journal_path"`
	KeepWorkFiles    bool   `yaml:"keep_work_files"`
	DryRun           bool   `yaml:"dry_run"`
	StrictMode       bool   `yaml:"strict"` // Disable ffmpeg retry fallbacks.
	Schedule         string `yaml:"schedule"`
	PublishAfterMake bool   `yaml:"publish_after_make"`

	// Display and logging.
	Verbose   bool      `yaml:"verbose"`
	ColorMode ColorMode `yaml:"color"`
	LogFile   string    `yaml:"log_file"`
	CheckOnly bool      `yaml:"-"` // Set by check and history, which need no spreadsheet.
}

// DefaultConfig returns a Config with the production defaults. Used as the
// base before [Load] and [ApplyFlags] apply overrides.
func DefaultConfig() Config {
	return Config{
		SheetID:          "14tqKftTqlesnb0NqJZU-_f1EsWWywYqO36NiuDdmaTo",
		Worksheets:       []string{"Phòng mạch", "Sheet2", "Sheet3"},
		StatusWorksheet:  "Phòng mạch",
		SheetsKeyFile:    "google_sheets_key.json",
		DoneMarker:       "DONE",
		TTSKeyFile:       "google_tts_key.json",
		VoiceLanguage:    "vi-VN",
		VoiceName:        "vi-VN-Wavenet-C",
		SpeakingRate:     1.25,
		SampleRateHz:     44100,
		MaxAudioSeconds:  55,
		NarrationCodec:   "libmp3lame",
		Width:            720,
		Height:           1280,
		DefaultImageURL:  "https://via.placeholder.com/720x1280",
		DownloadTimeout:  10 * time.Second,
		CrawlCount:       9,
		CrawlMinSize:     500,
		CrawlWorkers:     4,
		FallbackRepeat:   10,
		FontSize:         70,
		VideoCodec:       CodecX265,
		VideoBitrate:     "700k",
		AudioCodec:       "aac",
		AudioBitrate:     "96k",
		FPS:              15,
		Preset:           "medium",
		Threads:          4,
		MotionAmount:     0.2,
		OutputDir:        "output",
		VideosPerRun:     1,
		VideoURLTemplate: "https://raw.githubusercontent.com/gx288/shortvideo/main/output/output_video_{slug}.mp4",
		JournalPath:      "~/.reelsmith/journal.db",
		Schedule:         "0 */6 * * *",
		ColorMode:        ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields, numeric ranges, and bitrate syntax. Bitrates
// are canonicalized in place. Outside CheckOnly mode a spreadsheet ID and at
// least one worksheet are required.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	switch c.VideoCodec {
	case CodecX265, CodecX264:
		// valid
	default:
		return errors.New("invalid video codec (use 'libx265' or 'libx264')")
	}

	if c.Width <= 0 || c.Height <= 0 || c.Width%2 != 0 || c.Height%2 != 0 {
		return fmt.Errorf("invalid frame size %dx%d (use positive even dimensions)", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive (got %d)", c.FPS)
	}
	if c.Threads <= 0 {
		return fmt.Errorf("threads must be positive (got %d)", c.Threads)
	}
	if c.MaxAudioSeconds <= 0 {
		return fmt.Errorf("max audio seconds must be positive (got %g)", c.MaxAudioSeconds)
	}
	if c.SpeakingRate < 0.25 || c.SpeakingRate > 4 {
		return fmt.Errorf("speaking rate must be within 0.25-4.0 (got %g)", c.SpeakingRate)
	}
	if c.MotionAmount < 0 || c.MotionAmount >= 1 {
		return fmt.Errorf("motion amount must be within [0, 1) (got %g)", c.MotionAmount)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("font size must be positive (got %g)", c.FontSize)
	}
	if c.VideosPerRun < 1 {
		return fmt.Errorf("videos per run must be at least 1 (got %d)", c.VideosPerRun)
	}
	if c.CrawlCount < 0 {
		return fmt.Errorf("crawl count must not be negative (got %d)", c.CrawlCount)
	}
	if c.CrawlWorkers < 1 {
		c.CrawlWorkers = 1
	}
	if c.FallbackRepeat < 1 {
		return fmt.Errorf("fallback repeat must be at least 1 (got %d)", c.FallbackRepeat)
	}
	if !strings.Contains(c.VideoURLTemplate, "{slug}") {
		return fmt.Errorf("video URL template %q has no {slug} placeholder", c.VideoURLTemplate)
	}

	var err error
	if c.AudioBitrate, err = normalizeBitrate(c.AudioBitrate, "audio"); err != nil {
		return err
	}
	if c.VideoBitrate, err = normalizeBitrate(c.VideoBitrate, "video"); err != nil {
		return err
	}

	if c.CheckOnly {
		return nil
	}
	if c.SheetID == "" {
		return errors.New("sheet ID must not be empty")
	}
	if len(c.Worksheets) == 0 {
		return errors.New("need at least one worksheet")
	}
	if c.OutputDir == "" {
		return errors.New("output directory must not be empty")
	}
	return nil
}

// normalizeBitrate validates and canonicalizes user bitrate input.
// Accepted forms: "96", "96k", "96K", "96kbps". Output is "<n>k".
func normalizeBitrate(raw, kind string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("%s bitrate must not be empty", kind)
	}
	if strings.HasSuffix(s, "kbps") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "kbps"))
	} else if strings.HasSuffix(s, "k") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "k"))
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return "", fmt.Errorf("invalid %s bitrate %q (use positive Kbps value, e.g. 96k)", kind, raw)
	}
	return fmt.Sprintf("%dk", n), nil
}

// ExpandPaths resolves a leading "~" in every path-valued field.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{
		&c.SheetsKeyFile, &c.TTSKeyFile, &c.FontFile,
		&c.OutputDir, &c.JournalPath, &c.LogFile,
	} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand %q: %w", *p, err)
		}
		*p = expanded
	}
	c.OutputDir = NormalizeDirArg(c.OutputDir)
	return nil
}

// VoiceSummary is the one-line narration setting shown in the batch header.
func (c *Config) VoiceSummary() string {
	return fmt.Sprintf("%s (%s) x%.2f @ %d Hz, max %gs", c.VoiceName, c.VoiceLanguage, c.SpeakingRate, c.SampleRateHz, c.MaxAudioSeconds)
}
