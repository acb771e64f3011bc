package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Probe runs a single ffprobe JSON call against path.
func Probe(ctx context.Context, path string) (*MediaInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// AudioDuration probes path and returns its duration in seconds. A file
// with no measurable duration is an error.
func AudioDuration(ctx context.Context, path string) (float64, error) {
	info, err := Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	d := info.Duration()
	if d <= 0 {
		return 0, fmt.Errorf("ffprobe %q: no duration", path)
	}
	return d, nil
}

// ParseJSON converts raw ffprobe JSON output into a MediaInfo.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*MediaInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildInfo(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

type ffprobeStream struct {
	Index        int            `json:"index"`
	CodecName    string         `json:"codec_name"`
	CodecType    string         `json:"codec_type"`
	CodecTagStr  string         `json:"codec_tag_string"`
	PixFmt       string         `json:"pix_fmt"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	BitRate      string         `json:"bit_rate"`
	AvgFrameRate string         `json:"avg_frame_rate"`
	Channels     int            `json:"channels"`
	SampleRate   string         `json:"sample_rate"`
	Duration     string         `json:"duration"`
	Disposition  map[string]int `json:"disposition"`
}

// --- Conversion from wire types to domain types ---

func buildInfo(raw *ffprobeOutput) *MediaInfo {
	info := &MediaInfo{
		Filename:       raw.Format.Filename,
		FormatName:     raw.Format.FormatName,
		FormatDuration: parseFloat(raw.Format.Duration),
		Size:           parseInt64(raw.Format.Size),
		BitRate:        parseInt64(raw.Format.BitRate),
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			// Embedded cover art in an MP3 shows up as an attached_pic video stream.
			if s.Disposition["attached_pic"] == 1 || info.Video != nil {
				continue
			}
			info.Video = &VideoStream{
				Index:        s.Index,
				Codec:        s.CodecName,
				CodecTag:     s.CodecTagStr,
				PixFmt:       s.PixFmt,
				Width:        s.Width,
				Height:       s.Height,
				BitRate:      parseInt64(s.BitRate),
				AvgFrameRate: s.AvgFrameRate,
			}
		case "audio":
			if info.Audio != nil {
				continue
			}
			info.Audio = &AudioStream{
				Index:      s.Index,
				Codec:      s.CodecName,
				Channels:   s.Channels,
				SampleRate: parseInt(s.SampleRate),
				BitRate:    parseInt64(s.BitRate),
				Duration:   parseFloat(s.Duration),
			}
		}
	}
	return info
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
