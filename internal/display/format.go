// Package display formats sizes and durations for log output and prints the
// startup banner.
package display

import (
	"fmt"
	"time"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// FormatMB renders a size in megabytes with two decimals ("1.53 MB"), the
// unit used in per-video success lines.
func FormatMB(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
}

// FormatSeconds renders a clip or audio length ("54.3s").
func FormatSeconds(sec float64) string {
	return fmt.Sprintf("%.1fs", sec)
}

// FormatElapsed renders a wall-clock duration rounded to whole seconds.
func FormatElapsed(d time.Duration) string {
	return d.Round(time.Second).String()
}
