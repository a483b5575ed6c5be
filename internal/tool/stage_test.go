package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	batutaerrors "github.com/mrz1836/batuta/internal/errors"
)

// recordingRunner counts Run calls so gate tests can prove no process started.
type recordingRunner struct {
	calls int
	err   error
}

func (r *recordingRunner) Run(_ context.Context, inv Invocation) (Result, error) {
	r.calls++
	if r.err != nil {
		return Result{Args: inv.Args, ExitCode: 1}, r.err
	}
	return Result{Args: inv.Args}, nil
}

func TestRunStage(t *testing.T) {
	ctx := context.Background()

	t.Run("gate failure aborts before any process starts", func(t *testing.T) {
		runner := &recordingRunner{}
		gate := func() error {
			return fmt.Errorf("input missing: %w", batutaerrors.ErrValidation)
		}

		_, err := RunStage(ctx, runner, gate, Command("apktool"), "")
		require.Error(t, err)
		assert.ErrorIs(t, err, batutaerrors.ErrValidation)
		assert.Zero(t, runner.calls)
	})

	t.Run("runner error propagates unchanged", func(t *testing.T) {
		wantErr := fmt.Errorf("exited 1: %w", batutaerrors.ErrToolExecution)
		runner := &recordingRunner{err: wantErr}

		_, err := RunStage(ctx, runner, nil, Command("apktool"), "")
		assert.ErrorIs(t, err, batutaerrors.ErrToolExecution)
	})

	t.Run("missing artifact after success is ErrArtifactMissing", func(t *testing.T) {
		runner := &recordingRunner{}
		missing := filepath.Join(t.TempDir(), "never-created.apk")

		_, err := RunStage(ctx, runner, nil, Command("apktool"), missing)
		require.Error(t, err)
		assert.ErrorIs(t, err, batutaerrors.ErrArtifactMissing)
		assert.ErrorIs(t, err, batutaerrors.ErrToolExecution)
		assert.Equal(t, 1, runner.calls)
	})

	t.Run("existing artifact passes", func(t *testing.T) {
		runner := &recordingRunner{}
		artifact := filepath.Join(t.TempDir(), "out.apk")
		require.NoError(t, os.WriteFile(artifact, []byte("PK\x03\x04"), 0o600))

		result, err := RunStage(ctx, runner, nil, Command("apktool"), artifact)
		require.NoError(t, err)
		assert.True(t, result.Success())
	})

	t.Run("empty artifact path skips the existence check", func(t *testing.T) {
		runner := &recordingRunner{}
		_, err := RunStage(ctx, runner, nil, Command("adb", "install"), "")
		assert.NoError(t, err)
	})
}
