package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// Runner executes a built command. Execute is the real one; tests swap in
// fakes.
type Runner func(ctx context.Context, args []string, tee io.Writer) ExecResult

// Execute runs args (args[0] is the binary). Stderr is always captured for
// retry classification and, when tee is non-nil, copied there as it arrives.
func Execute(ctx context.Context, args []string, tee io.Writer) ExecResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if tee != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, tee)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}

// Tail returns the last n non-empty lines of stderr.
func Tail(stderr string, n int) []string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
