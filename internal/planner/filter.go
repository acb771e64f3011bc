package planner

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// upscale is applied before zoompan; zoompan rounds its crop window to whole
// input pixels, and a larger input keeps slow motion from stepping.
const upscale = 2

// MotionFilter returns the filter chain for one clip, from the looped input
// image to a w×h yuv420p stream of exactly frames frames.
//
// Zooms run between 1 and 1+amount around the centre. Pans hold a zoom of
// 1/(1-amount), so the visible window is (1-amount) of the image, and slide
// that window across the remaining amount of the width or height.
func MotionFilter(m Motion, frames, w, h, fps int, amount float64) string {
	size := fmt.Sprintf("%dx%d", w, h)
	if m == MotionStatic || amount <= 0 {
		return fmt.Sprintf("scale=%d:%d,setsar=1,fps=%d,format=yuv420p", w, h, fps)
	}

	n := strconv.Itoa(max(frames-1, 1))
	progress := "on/" + n
	const (
		centerX = "iw/2-(iw/zoom/2)"
		centerY = "ih/2-(ih/zoom/2)"
		travelX = "(iw-iw/zoom)"
		travelY = "(ih-ih/zoom)"
	)

	var z, x, y string
	switch m {
	case MotionZoomIn:
		z = fmt.Sprintf("1+%s*%s", num(amount), progress)
		x, y = centerX, centerY
	case MotionZoomOut:
		z = fmt.Sprintf("%s-%s*%s", num(1+amount), num(amount), progress)
		x, y = centerX, centerY
	case MotionPanRight:
		z = num(1 / (1 - amount))
		x, y = travelX+"*(1-"+progress+")", centerY
	case MotionPanLeft:
		z = num(1 / (1 - amount))
		x, y = travelX+"*"+progress, centerY
	case MotionPanDown:
		z = num(1 / (1 - amount))
		x, y = centerX, travelY+"*(1-"+progress+")"
	case MotionPanUp:
		z = num(1 / (1 - amount))
		x, y = centerX, travelY+"*"+progress
	}

	return strings.Join([]string{
		fmt.Sprintf("scale=%d:%d", w*upscale, h*upscale),
		fmt.Sprintf("zoompan=z='%s':x='%s':y='%s':d=1:s=%s:fps=%d", z, x, y, size, fps),
		"setsar=1",
		"format=yuv420p",
	}, ",")
}

// FilterGraph builds the -filter_complex graph: one labelled chain per clip
// input, trimmed to its frame count, then concatenated into [vout]. static
// replaces every motion with a plain scale.
func FilterGraph(plan *RenderPlan, static bool) string {
	parts := make([]string, 0, len(plan.Clips)+1)
	var labels strings.Builder
	for i, c := range plan.Clips {
		m := c.Motion
		if static {
			m = MotionStatic
		}
		chain := MotionFilter(m, c.Frames, plan.Width, plan.Height, plan.FPS, plan.MotionAmount)
		parts = append(parts, fmt.Sprintf("[%d:v]%s,trim=end_frame=%d,setpts=PTS-STARTPTS[v%d]", i, chain, c.Frames, i))
		fmt.Fprintf(&labels, "[v%d]", i)
	}
	parts = append(parts, fmt.Sprintf("%sconcat=n=%d:v=1:a=0[vout]", labels.String(), len(plan.Clips)))
	return strings.Join(parts, ";")
}

// num formats v with at most four decimals and no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}
