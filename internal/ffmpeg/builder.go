package ffmpeg

import (
	"strconv"

	"github.com/backmassage/reelsmith/internal/config"
	"github.com/backmassage/reelsmith/internal/planner"
)

// TruncateOptions describes the narration re-encode.
type TruncateOptions struct {
	MaxSeconds float64
	Codec      string // libmp3lame
	Bitrate    string // 96k
	SampleRate int    // 44100
}

// BuildTruncate returns the command that re-encodes the narration at in,
// cut to MaxSeconds, into out.
func BuildTruncate(in, out string, o TruncateOptions) []string {
	return []string{
		"ffmpeg", "-hide_banner", "-nostdin", "-loglevel", "error", "-y",
		"-i", in,
		"-t", num(o.MaxSeconds),
		"-c:a", o.Codec,
		"-b:a", o.Bitrate,
		"-ar", strconv.Itoa(o.SampleRate),
		out,
	}
}

// Build constructs the complete ffmpeg argument slice for a render: one
// looped still input per clip, the narration as the last input, the
// filter graph from planner.FilterGraph, and the encoder section.
//
// The retry parameter supplies the current encoder, motion and timestamp
// settings, which may differ from the plan's after retry adjustments.
func Build(plan *planner.RenderPlan, rs *RetryState, verbose bool) []string {
	args := make([]string, 0, 48+6*len(plan.Clips))

	// --- Preamble ---
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-y")
	if verbose {
		args = append(args, "-loglevel", "info", "-stats", "-stats_period", "1")
	} else {
		args = append(args, "-loglevel", "error")
	}

	// --- Pre-input flags (timestamp fix) ---
	if rs.TimestampFix {
		args = append(args, "-fflags", "+genpts")
	}

	// --- Inputs ---
	fps := strconv.Itoa(plan.FPS)
	for _, c := range plan.Clips {
		args = append(args,
			"-loop", "1",
			"-framerate", fps,
			"-t", num(c.Duration),
			"-i", c.Image,
		)
	}
	args = append(args, "-i", plan.AudioPath)

	// --- Graph and maps ---
	args = append(args,
		"-filter_complex", planner.FilterGraph(plan, rs.Static),
		"-map", "[vout]",
		"-map", strconv.Itoa(len(plan.Clips))+":a:0",
	)

	// --- Video codec ---
	args = append(args,
		"-c:v", string(rs.VideoCodec),
		"-b:v", plan.VideoBitrate,
		"-preset", plan.Preset,
		"-threads", strconv.Itoa(plan.Threads),
		"-pix_fmt", "yuv420p",
		"-r", fps,
	)
	if rs.VideoCodec == config.CodecX265 {
		args = append(args, "-tag:v", "hvc1")
	}

	// --- Audio codec ---
	args = append(args,
		"-c:a", plan.AudioCodec,
		"-b:a", plan.AudioBitrate,
		"-ar", strconv.Itoa(plan.SampleRate),
	)

	// --- Post-input timestamp flag ---
	if rs.TimestampFix {
		args = append(args, "-avoid_negative_ts", "make_zero")
	}

	// --- Length, container, output ---
	args = append(args, "-t", num(plan.Total))
	args = append(args, plan.ContainerOpts...)
	args = append(args, plan.OutputPath)
	return args
}

// num formats seconds with millisecond precision and no trailing zeros.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
