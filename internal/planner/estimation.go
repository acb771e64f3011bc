package planner

import (
	"strconv"
	"strings"
)

// containerOverhead is the MP4 muxing overhead assumed by EstimateSize, in
// per-mille of the stream payload.
const containerOverhead = 15

// EstimateSize predicts the output size in bytes from the target bitrates
// and total duration. Shown in dry runs in place of the real size.
func EstimateSize(plan *RenderPlan) int64 {
	kbps := bitrateKbps(plan.VideoBitrate) + bitrateKbps(plan.AudioBitrate)
	payload := int64(float64(kbps) * 1000 / 8 * plan.Total)
	return payload + payload*containerOverhead/1000
}

// bitrateKbps parses a normalized "<n>k" bitrate; anything else is 0.
func bitrateKbps(s string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(s, "k"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
