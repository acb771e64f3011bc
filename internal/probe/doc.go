// Package probe runs ffprobe against narration audio and rendered shorts and
// parses its JSON into MediaInfo. The render stage needs the narration
// duration to split it across the images; the pipeline re-probes the output
// to confirm it has both a video and an audio stream.
package probe
