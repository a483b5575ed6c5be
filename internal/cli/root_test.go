package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/batuta/internal/errors"
)

// execRoot runs the root command with args and captures its output.
func execRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BATUTA_HOME", t.TempDir())

	var buf bytes.Buffer
	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{Version: "test"})
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRootCmd_Help(t *testing.T) {
	out, err := execRoot(t)
	require.NoError(t, err)
	assert.Contains(t, out, "batuta")
	assert.Contains(t, out, "apk")
	assert.Contains(t, out, "flutter")
	assert.Contains(t, out, "device")
	assert.Contains(t, out, "analyze")
	assert.Contains(t, out, "config")
}

func TestRootCmd_InvalidOutputFormat(t *testing.T) {
	_, err := execRoot(t, "--output", "xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_VerboseQuietMutuallyExclusive(t *testing.T) {
	_, err := execRoot(t, "--verbose", "--quiet")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	_, err := execRoot(t, "frobnicate")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_InitializesLogger(t *testing.T) {
	_, err := execRoot(t, "--quiet")
	require.NoError(t, err)

	// The global logger is usable after command setup.
	logger := GetLogger()
	logger.Debug().Msg("discarded at quiet level")
}

func TestFormatVersion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dev (commit: none, built: unknown)", formatVersion(BuildInfo{}))
	assert.Equal(t, "1.2.3 (commit: abc123, built: 2026-01-01)",
		formatVersion(BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"}))
}
