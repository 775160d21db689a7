package ffmpeg

import (
	"context"
	"strings"
)

// recordedCall captures a single command invocation.
type recordedCall struct {
	name string
	args []string
}

// mockRunner records invocations and serves canned output.
type mockRunner struct {
	calls     []recordedCall
	output    []byte
	runErr    error
	outputErr error
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) error {
	m.calls = append(m.calls, recordedCall{name: name, args: args})
	return m.runErr
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, recordedCall{name: name, args: args})
	if m.outputErr != nil {
		return nil, m.outputErr
	}
	return m.output, nil
}

// argString joins the last call's args for easy substring assertions.
func (m *mockRunner) argString() string {
	if len(m.calls) == 0 {
		return ""
	}
	return strings.Join(m.calls[len(m.calls)-1].args, " ")
}
