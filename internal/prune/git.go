package prune

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Git is the subset of git prune drives.
type Git interface {
	Remove(ctx context.Context, path string) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context) error
}

// ExecGit runs the git binary in Dir (the current directory when empty).
type ExecGit struct {
	Dir string
}

func (g ExecGit) Remove(ctx context.Context, path string) error {
	return g.run(ctx, "rm", "--", path)
}

func (g ExecGit) Commit(ctx context.Context, message string) error {
	return g.run(ctx, "commit", "-m", message)
}

func (g ExecGit) Push(ctx context.Context) error {
	return g.run(ctx, "push")
}

func (g ExecGit) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return fmt.Errorf("git %s: %w", args[0], err)
	}
	return nil
}
