package ffmpeg

import (
	"github.com/backmassage/reelsmith/internal/config"
	"github.com/backmassage/reelsmith/internal/planner"
)

// RetryAction identifies which fix was applied (or none).
type RetryAction int

const (
	RetryNone          RetryAction = iota
	RetryFallbackX264              // Switch libx265 → libx264.
	RetryStaticFrames              // Drop zoompan motion.
	RetryFixTimestamps             // Enable +genpts.
)

var retryLabels = map[RetryAction]string{
	RetryNone:          "none",
	RetryFallbackX264:  "fall back to libx264",
	RetryStaticFrames:  "render static frames",
	RetryFixTimestamps: "fix timestamps",
}

func (a RetryAction) String() string { return retryLabels[a] }

const maxAttempts = 4

// RetryState tracks which fallback fixes have been applied across ffmpeg
// attempts for a single render.
type RetryState struct {
	Attempt     int
	MaxAttempts int

	VideoCodec   config.VideoCodec
	Static       bool
	TimestampFix bool
}

// NewRetryState initializes a RetryState from the plan's initial values.
func NewRetryState(plan *planner.RenderPlan) *RetryState {
	return &RetryState{
		MaxAttempts: maxAttempts,
		VideoCodec:  plan.VideoCodec,
	}
}

// Advance inspects stderr from a failed ffmpeg run, finds the first matching
// error pattern whose fix has not yet been applied, applies that fix, and
// returns the action taken. Returns RetryNone when no fixable pattern matches
// or the attempt limit is reached.
//
// Pattern evaluation order: encoder → filter → timestamp.
// Only one fix is applied per call (one fix per retry attempt).
func (s *RetryState) Advance(stderr string) RetryAction {
	s.Attempt++
	if s.Attempt >= s.MaxAttempts {
		return RetryNone
	}

	if s.VideoCodec != config.CodecX264 && MatchEncoderIssue(stderr) {
		s.VideoCodec = config.CodecX264
		return RetryFallbackX264
	}
	if !s.Static && MatchFilterIssue(stderr) {
		s.Static = true
		return RetryStaticFrames
	}
	if !s.TimestampFix && MatchTimestampIssue(stderr) {
		s.TimestampFix = true
		return RetryFixTimestamps
	}

	return RetryNone
}
