package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	batutaerrors "github.com/mrz1836/batuta/internal/errors"
	"github.com/mrz1836/batuta/internal/logging"
)

// Runner executes external tool invocations. Pipelines depend on this
// interface rather than os/exec so tests can substitute a recording mock.
type Runner interface {
	// Run executes the invocation and returns its result.
	//
	// When inv.CheckExit is true a non-zero exit returns an error wrapping
	// ErrToolExecution alongside the populated Result. A missing executable
	// returns an error wrapping ErrToolNotFound; a timeout or context
	// cancellation wraps ErrToolExecution. The Result is valid whenever the
	// process actually ran.
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct{}

// NewExecRunner creates a Runner backed by the local process table.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the invocation, honoring inv.Timeout and ctx cancellation.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	if len(inv.Args) == 0 {
		return Result{ExitCode: -1}, fmt.Errorf("empty command: %w", batutaerrors.ErrValidation)
	}

	log := zerolog.Ctx(ctx)

	runCtx := ctx
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, inv.Args[0], inv.Args[1:]...) //#nosec G204 -- command vectors are built internally from validated inputs
	cmd.Dir = inv.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().
		Strs("command", logging.FilterCommand(inv.Args)).
		Str("dir", inv.Dir).
		Msg("running external tool")

	err := cmd.Run()

	result := Result{
		Args:     inv.Args,
		ExitCode: exitCode(cmd, err),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if err != nil {
		return result, r.classify(runCtx, inv, result, err)
	}

	if inv.CheckExit && !result.Success() {
		return result, execError(inv, result)
	}

	return result, nil
}

// classify maps an exec failure onto the batuta error taxonomy.
func (r *ExecRunner) classify(ctx context.Context, inv Invocation, result Result, err error) error {
	// Timeout or interrupt takes precedence: the tool did not fail on its own.
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%s timed out after %s: %w", inv.Args[0], inv.Timeout, batutaerrors.ErrToolExecution)
		}
		return fmt.Errorf("%s interrupted: %w", inv.Args[0], ctxErr)
	}

	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%s: %w", inv.Args[0], batutaerrors.ErrToolNotFound)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if !inv.CheckExit {
			// Caller opted to inspect the result instead.
			return nil
		}
		return execError(inv, result)
	}

	return fmt.Errorf("%s failed to start: %v: %w", inv.Args[0], err, batutaerrors.ErrToolExecution)
}

// execError builds the non-zero-exit error, including trimmed stderr when present.
func execError(inv Invocation, result Result) error {
	detail := strings.TrimSpace(result.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(result.Stdout)
	}
	if detail != "" {
		return fmt.Errorf("%s exited %d: %s: %w", inv.Args[0], result.ExitCode, detail, batutaerrors.ErrToolExecution)
	}
	return fmt.Errorf("%s exited %d: %w", inv.Args[0], result.ExitCode, batutaerrors.ErrToolExecution)
}

// exitCode extracts the process exit status, -1 when the process never ran.
func exitCode(cmd *exec.Cmd, err error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

// Ensure ExecRunner implements Runner.
var _ Runner = (*ExecRunner)(nil)
