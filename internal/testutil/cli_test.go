package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func TestRunCommand_PassesArgsAndContext(t *testing.T) {
	cmd := &cobra.Command{
		Use: "echo",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(cmd.Context().Value(ctxKey{}), strings.Join(args, ","))
			return nil
		},
	}

	ctx := context.WithValue(context.Background(), ctxKey{}, "ws")
	out, err := RunCommand(t, ctx, cmd, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "ws a,b\n", out)
}

func TestRunCommand_ReturnsError(t *testing.T) {
	cmd := &cobra.Command{
		Use:  "fail",
		RunE: func(*cobra.Command, []string) error { return assert.AnError },
	}

	out, err := RunCommand(t, context.Background(), cmd)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, out, "cobra usage must stay silent")
}

func TestCaptureStdout_LargeOutput(t *testing.T) {
	line := strings.Repeat("x", 1023) + "\n"
	out := CaptureStdout(t, func() {
		for range 256 {
			fmt.Print(line)
		}
	})
	assert.Len(t, out, 256*1024)
}

func TestParseEnvelope(t *testing.T) {
	ok := ParseEnvelope(t, `{"success":true,"data":{"key":"WEB-1"}}`)
	assert.True(t, ok.Success)
	assert.Equal(t, "WEB-1", ok.Object(t)["key"])
	assert.Nil(t, ok.Error)

	failed := ParseEnvelope(t, `{"success":false,"error":{"code":"NOT_FOUND","message":"issue not found"}}`)
	assert.False(t, failed.Success)
	require.NotNil(t, failed.Error)
	assert.Equal(t, "NOT_FOUND", failed.Error.Code)
	assert.Empty(t, failed.Error.Suggestion)
}
