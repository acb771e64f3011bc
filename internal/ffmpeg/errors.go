package ffmpeg

import "regexp"

// Pre-compiled regexes for classifying ffmpeg stderr output into retryable
// error categories. Checked in order by [RetryState.Advance]; the first
// matching pattern whose fix has not yet been applied wins.
var (
	reEncoderIssue = regexp.MustCompile(
		`(?i)Unknown encoder|Encoder .* not found|` +
			`Error selecting an encoder|` +
			`Error while opening encoder|` +
			`x265 \[error\]`)

	reFilterIssue = regexp.MustCompile(
		`(?i)Error (initializing|configuring|reinitializing) (complex )?filter|` +
			`No such filter|` +
			`Error while filtering|` +
			`Failed to configure (input|output) pad|` +
			`\[Parsed_zoompan_\d+ @`)

	reTimestampIssue = regexp.MustCompile(
		`(?i)Non-monotonous DTS|non monotonically increasing dts|` +
			`invalid, non monotonically increasing dts|` +
			`DTS .*out of order|PTS .*out of order|` +
			`pts has no value|missing PTS|Timestamps are unset`)
)

// MatchEncoderIssue reports whether stderr shows the video encoder is
// missing or failed to open.
func MatchEncoderIssue(stderr string) bool {
	return reEncoderIssue.MatchString(stderr)
}

// MatchFilterIssue reports whether stderr shows a filter graph failure.
func MatchFilterIssue(stderr string) bool {
	return reFilterIssue.MatchString(stderr)
}

// MatchTimestampIssue reports whether stderr contains a timestamp discontinuity.
func MatchTimestampIssue(stderr string) bool {
	return reTimestampIssue.MatchString(stderr)
}
