package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// CommandRunner defines the interface for running external commands.
// This allows mocking exec.Command in tests.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec.
// Stderr is captured so command failures carry ffmpeg's own diagnostics.
type ExecCommandRunner struct {
	Log *logrus.Logger
}

// Run executes a command and returns any error, with the tail of stderr
// folded into the error message.
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	r.logCommand(name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, tail(stderr.String(), 512))
	}
	return nil
}

// Output executes a command and returns its stdout.
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.logCommand(name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, tail(stderr.String(), 512))
	}
	return stdout.Bytes(), nil
}

func (r *ExecCommandRunner) logCommand(name string, args []string) {
	if r.Log != nil {
		r.Log.Debugln(name, strings.Join(args, " "))
	}
}

// tail returns the last n bytes of s, trimmed.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}
