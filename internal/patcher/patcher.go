// Package patcher rebuilds an apktool project directory into an installable
// APK through a build, align, sign, verify pipeline.
//
// Build is mandatory; align and sign default on and can be skipped
// independently; verify is opt-in. Intermediate artifacts live in a staging
// area that is destroyed on every exit path, so only the final APK at the
// caller's output path survives. Skipping a stage never silently substitutes
// a different one: skip align and the signed output is simply unaligned.
package patcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/batuta/internal/apk"
	"github.com/mrz1836/batuta/internal/constants"
	"github.com/mrz1836/batuta/internal/errors"
	"github.com/mrz1836/batuta/internal/sdk"
	"github.com/mrz1836/batuta/internal/staging"
	"github.com/mrz1836/batuta/internal/tool"
)

// Options selects which pipeline stages run and how signing is performed.
type Options struct {
	// Align runs zipalign between build and sign.
	Align bool

	// Sign signs the final artifact with apksigner.
	Sign bool

	// Verify runs apksigner verify on the signed artifact. Ignored when
	// Sign is false.
	Verify bool

	// Identity is the signing identity to use. Nil means the auto-managed
	// debug identity.
	Identity *SigningIdentity

	// KeystoreDir is where the debug keystore lives (and is generated on
	// first use) when Identity is nil.
	KeystoreDir string

	// Timeout bounds each individual tool invocation. Zero uses the
	// package default.
	Timeout time.Duration
}

// DefaultOptions returns the standard patch configuration: align and sign
// on, verify off.
func DefaultOptions() Options {
	return Options{
		Align:   true,
		Sign:    true,
		Timeout: constants.DefaultToolTimeout,
	}
}

// Result describes a completed patch run.
type Result struct {
	// RunID uniquely identifies this pipeline run in logs.
	RunID string `json:"run_id"`

	// SourceDir is the apktool project directory that was rebuilt.
	SourceDir string `json:"source_dir"`

	// OutputPath is where the final APK was written.
	OutputPath string `json:"output_path"`

	// Aligned reports whether the align stage ran.
	Aligned bool `json:"aligned"`

	// Signed reports whether the sign stage ran.
	Signed bool `json:"signed"`

	// Verified is nil when verification did not run, otherwise the
	// verification verdict.
	Verified *bool `json:"verified,omitempty"`

	// KeystoreGenerated reports whether this run created the debug
	// keystore.
	KeystoreGenerated bool `json:"keystore_generated"`
}

// Patcher runs the build pipeline. Construct with New.
type Patcher struct {
	runner  tool.Runner
	locator *sdk.Locator
}

// New creates a Patcher using the given runner and SDK locator.
func New(runner tool.Runner, locator *sdk.Locator) *Patcher {
	return &Patcher{runner: runner, locator: locator}
}

// Patch rebuilds sourceDir and writes the final APK to outputPath.
func (p *Patcher) Patch(ctx context.Context, sourceDir, outputPath string, opts Options) (*Result, error) {
	if opts.Timeout == 0 {
		opts.Timeout = constants.DefaultToolTimeout
	}

	result := &Result{
		RunID:      uuid.NewString(),
		SourceDir:  sourceDir,
		OutputPath: outputPath,
	}

	logger := zerolog.Ctx(ctx).With().Str("run_id", result.RunID).Logger()
	ctx = logger.WithContext(ctx)

	err := staging.With("patch", func(dir string) error {
		current, buildErr := p.build(ctx, dir, sourceDir, opts)
		if buildErr != nil {
			return buildErr
		}

		if opts.Align {
			aligned, alignErr := p.align(ctx, dir, current, opts)
			if alignErr != nil {
				return alignErr
			}
			current = aligned
			result.Aligned = true
		}

		if !opts.Sign {
			// The staged artifact is the final one; move it out before
			// the staging area is destroyed.
			return staging.CopyOut(current, outputPath)
		}

		return p.sign(ctx, current, outputPath, opts, result)
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("output", outputPath).
		Bool("aligned", result.Aligned).
		Bool("signed", result.Signed).
		Msg("patch pipeline complete")
	return result, nil
}

// build rebuilds the project directory with apktool. The marker gate runs
// before the process starts, so a non-project directory never launches
// apktool at all.
func (p *Patcher) build(ctx context.Context, stagingDir, sourceDir string, opts Options) (string, error) {
	if err := tool.Require(constants.ToolApktool); err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrBuild, err)
	}

	built := filepath.Join(stagingDir, "built.apk")
	inv := tool.Command(constants.ToolApktool, "b", sourceDir, "-o", built)
	inv.Timeout = opts.Timeout

	gate := func() error { return apk.ValidateProjectDir(sourceDir) }
	if _, err := tool.RunStage(ctx, p.runner, gate, inv, built); err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrBuild, err)
	}
	return built, nil
}

// align runs zipalign with 16 KB page alignment, required for installs on
// recent Android releases.
func (p *Patcher) align(ctx context.Context, stagingDir, input string, opts Options) (string, error) {
	zipalign, err := p.locator.Zipalign()
	if err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrAlign, err)
	}

	aligned := filepath.Join(stagingDir, "aligned.apk")
	inv := tool.Command(zipalign, "-P", "16", "4", input, aligned)
	inv.Timeout = opts.Timeout

	if _, err = tool.RunStage(ctx, p.runner, nil, inv, aligned); err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrAlign, err)
	}
	return aligned, nil
}

// sign writes the signed artifact directly to outputPath and optionally
// verifies it.
func (p *Patcher) sign(ctx context.Context, input, outputPath string, opts Options, result *Result) error {
	apksigner, err := p.locator.Apksigner()
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrSign, err)
	}

	identity, err := p.resolveIdentity(ctx, opts, result)
	if err != nil {
		return err
	}

	inv := tool.Command(
		apksigner, "sign",
		"--ks", identity.Keystore,
		"--ks-key-alias", identity.KeyAlias,
		"--ks-pass", "pass:"+identity.StorePass,
		"--key-pass", "pass:"+identity.KeyPass,
		"--out", outputPath,
		input,
	)
	inv.Timeout = opts.Timeout

	if _, err = tool.RunStage(ctx, p.runner, nil, inv, outputPath); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrSign, err)
	}
	result.Signed = true

	if !opts.Verify {
		return nil
	}
	return p.verify(ctx, apksigner, outputPath, opts, result)
}

// resolveIdentity returns the caller's identity, or provisions the debug
// keystore when none was supplied.
func (p *Patcher) resolveIdentity(ctx context.Context, opts Options, result *Result) (SigningIdentity, error) {
	if opts.Identity != nil {
		return *opts.Identity, nil
	}

	identity, generated, err := EnsureDebugKeystore(ctx, p.runner, opts.KeystoreDir)
	if err != nil {
		return SigningIdentity{}, err
	}
	if generated {
		zerolog.Ctx(ctx).Info().
			Str("keystore", identity.Keystore).
			Msg("generated debug keystore")
	}
	result.KeystoreGenerated = generated
	return identity, nil
}

// verify records the apksigner verdict on the signed artifact. A failed
// verification is a recorded outcome, not an error; only failure to run the
// verifier at all is fatal.
func (p *Patcher) verify(ctx context.Context, apksigner, outputPath string, opts Options, result *Result) error {
	inv := tool.Invocation{
		Args:    []string{apksigner, "verify", "--verbose", outputPath},
		Timeout: opts.Timeout,
	}

	verifyResult, err := p.runner.Run(ctx, inv)
	if err != nil {
		return fmt.Errorf("%w: running verification: %w", errors.ErrSign, err)
	}

	verified := verifyResult.Success()
	result.Verified = &verified
	if !verified {
		zerolog.Ctx(ctx).Warn().
			Str("output", outputPath).
			Str("stderr", verifyResult.Stderr).
			Msg("signature verification failed")
	}
	return nil
}
