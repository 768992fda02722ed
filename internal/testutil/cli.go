package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// Envelope is the shape every command prints under --json
type Envelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data"`
	Error   *EnvelopeError `json:"error"`
}

// EnvelopeError is the error half of an Envelope
type EnvelopeError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// Object returns Data as a JSON object, failing the test otherwise
func (e Envelope) Object(t *testing.T) map[string]any {
	t.Helper()
	obj, ok := e.Data.(map[string]any)
	require.True(t, ok, "envelope data is %T, not an object", e.Data)
	return obj
}

// ParseEnvelope decodes a command's --json output
func ParseEnvelope(t *testing.T, output string) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(output), &env), "output: %s", output)
	return env
}

// PrepareCommand sets args and ctx on cmd and silences cobra's own usage
// and error printing. Commands report failures through the output formatter.
func PrepareCommand(ctx context.Context, cmd *cobra.Command, args ...string) {
	cmd.SetArgs(args)
	cmd.SetContext(ctx)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
}

// RunCommand executes cmd under ctx and returns what it printed to stdout
func RunCommand(t *testing.T, ctx context.Context, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	PrepareCommand(ctx, cmd, args...)

	var err error
	out := CaptureStdout(t, func() { err = cmd.Execute() })
	return out, err
}

// CaptureStdout returns what fn prints. Commands write to os.Stdout
// directly, so the file itself is swapped for the duration of fn.
func CaptureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	// drained concurrently so large outputs do not fill the pipe
	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		done <- buf.String()
	}()

	fn()
	_ = w.Close()
	return <-done
}
