package planner

import "github.com/backmassage/reelsmith/internal/config"

// Motion is the camera movement applied to one clip.
type Motion int

const (
	MotionZoomIn Motion = iota
	MotionZoomOut
	MotionPanRight
	MotionPanLeft
	MotionPanDown
	MotionPanUp
	MotionStatic
)

// motionCycle is the order clips take their motion in.
var motionCycle = []Motion{
	MotionZoomIn, MotionZoomOut,
	MotionPanRight, MotionPanLeft,
	MotionPanDown, MotionPanUp,
}

var motionNames = map[Motion]string{
	MotionZoomIn:   "zoom-in",
	MotionZoomOut:  "zoom-out",
	MotionPanRight: "pan-right",
	MotionPanLeft:  "pan-left",
	MotionPanDown:  "pan-down",
	MotionPanUp:    "pan-up",
	MotionStatic:   "static",
}

func (m Motion) String() string {
	if s, ok := motionNames[m]; ok {
		return s
	}
	return "unknown"
}

// MotionFor returns the motion of the clip at idx.
func MotionFor(idx int) Motion {
	return motionCycle[idx%len(motionCycle)]
}

// ClipPlan is one still image shown for Duration seconds.
type ClipPlan struct {
	Image    string
	Duration float64
	Frames   int
	Motion   Motion
}

// RenderPlan holds every decision needed to render one short. It is produced
// by BuildPlan and consumed by the ffmpeg package to construct arguments and
// by the retry engine for initial state.
type RenderPlan struct {
	Clips      []ClipPlan
	AudioPath  string
	OutputPath string

	Total   float64 // seconds; min(audio duration, cap)
	PerClip float64

	// Frame.
	Width, Height int
	FPS           int
	MotionAmount  float64

	// Encoding.
	VideoCodec   config.VideoCodec
	VideoBitrate string
	Preset       string
	Threads      int
	AudioCodec   string
	AudioBitrate string
	SampleRate   int

	ContainerOpts []string // -movflags +faststart
}
