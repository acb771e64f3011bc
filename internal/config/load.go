package config

// This file layers the optional YAML config file and the environment over
// DefaultConfig. CLI flags are applied afterwards by ApplyFlags.

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override (REELSMITH_SHEET_ID, ...).
const EnvPrefix = "REELSMITH_"

// Load overlays the YAML file at path (skipped when empty) and then the
// environment onto cfg. envFile, when non-empty, is read with godotenv
// first; a missing env file is not an error.
func Load(cfg *Config, path, envFile string) error {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}
	return applyEnv(cfg, os.LookupEnv)
}

// applyEnv copies recognised REELSMITH_* variables into cfg. lookup is
// injected so tests need not mutate the process environment.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	str("SHEET_ID", &cfg.SheetID)
	str("STATUS_WORKSHEET", &cfg.StatusWorksheet)
	str("SHEETS_KEY_FILE", &cfg.SheetsKeyFile)
	str("TTS_KEY_FILE", &cfg.TTSKeyFile)
	str("SEARCH_API_KEY", &cfg.SearchAPIKey)
	str("SEARCH_ENGINE_ID", &cfg.SearchEngineID)
	str("FONT_FILE", &cfg.FontFile)
	str("OUTPUT_DIR", &cfg.OutputDir)
	str("JOURNAL_PATH", &cfg.JournalPath)
	str("VIDEO_URL_TEMPLATE", &cfg.VideoURLTemplate)
	str("LOG_FILE", &cfg.LogFile)
	str("SCHEDULE", &cfg.Schedule)

	if v, ok := lookup(EnvPrefix + "WORKSHEETS"); ok {
		cfg.Worksheets = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "VIDEOS_PER_RUN"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sVIDEOS_PER_RUN must be a whole number (got %q)", EnvPrefix, v)
		}
		cfg.VideosPerRun = n
	}
	if v, ok := lookup(EnvPrefix + "MAX_AUDIO_SECONDS"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%sMAX_AUDIO_SECONDS must be a number (got %q)", EnvPrefix, v)
		}
		cfg.MaxAudioSeconds = f
	}
	if v, ok := lookup(EnvPrefix + "DOWNLOAD_TIMEOUT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sDOWNLOAD_TIMEOUT: %w", EnvPrefix, err)
		}
		cfg.DownloadTimeout = d
	}
	return nil
}

// splitList splits a comma-separated list, trimming blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
