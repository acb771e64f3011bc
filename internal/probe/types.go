package probe

import "fmt"

// VideoStream holds the parsed properties of the first video stream.
type VideoStream struct {
	Index        int
	Codec        string
	CodecTag     string
	PixFmt       string
	Width        int
	Height       int
	BitRate      int64
	AvgFrameRate string
}

// AudioStream holds the parsed properties of the first audio stream.
type AudioStream struct {
	Index      int
	Codec      string
	Channels   int
	SampleRate int
	BitRate    int64
	Duration   float64
}

// MediaInfo is the parsed output of a single ffprobe JSON call.
type MediaInfo struct {
	Filename       string
	FormatName     string
	FormatDuration float64
	Size           int64
	BitRate        int64
	Video          *VideoStream
	Audio          *AudioStream
}

// Duration returns the container duration in seconds, falling back to the
// audio stream's duration when the container reports none (raw MP3 written
// by the TTS service sometimes omits it).
func (m *MediaInfo) Duration() float64 {
	if m.FormatDuration > 0 {
		return m.FormatDuration
	}
	if m.Audio != nil {
		return m.Audio.Duration
	}
	return 0
}

// Resolution returns "WxH" for the video stream, or "unknown".
func (m *MediaInfo) Resolution() string {
	if m.Video == nil || m.Video.Width <= 0 || m.Video.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", m.Video.Width, m.Video.Height)
}

// IsPlayableShort reports whether the file has both an audio and a video
// stream with the expected frame size.
func (m *MediaInfo) IsPlayableShort(width, height int) bool {
	return m.Video != nil && m.Audio != nil &&
		m.Video.Width == width && m.Video.Height == height
}
