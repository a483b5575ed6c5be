package tool

import (
	"context"
	"fmt"
	"os"

	batutaerrors "github.com/mrz1836/batuta/internal/errors"
)

// Gate is a precondition evaluated before a stage's external process starts.
// A non-nil return aborts the stage; gate failures should wrap ErrValidation.
type Gate func() error

// RunStage executes one pipeline stage: evaluate the gate, run the invocation,
// then assert the declared output artifact exists on disk.
//
// A tool that reports success without producing its artifact is an
// ErrArtifactMissing failure, never silent success. artifact may be empty for
// stages with no file output (e.g. adb install).
func RunStage(ctx context.Context, runner Runner, gate Gate, inv Invocation, artifact string) (Result, error) {
	if gate != nil {
		if err := gate(); err != nil {
			return Result{ExitCode: -1}, err
		}
	}

	result, err := runner.Run(ctx, inv)
	if err != nil {
		return result, err
	}

	if artifact != "" {
		if _, statErr := os.Stat(artifact); statErr != nil {
			return result, fmt.Errorf("%s completed but %s does not exist: %w",
				inv.Args[0], artifact, batutaerrors.ErrArtifactMissing)
		}
	}

	return result, nil
}
