// Package reflutter instruments Flutter APKs for runtime Dart inspection.
//
// The workflow wraps the reflutter tool: verify the target is actually a
// Flutter app, patch it, re-sign the patched artifact so it installs, push
// it to a device, and finally read the dump the instrumented app writes at
// runtime. The dump step needs the app to have started at least once, so the
// workflow either launches it directly or waits for the operator to.
package reflutter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/batuta/internal/adb"
	"github.com/mrz1836/batuta/internal/apk"
	"github.com/mrz1836/batuta/internal/clock"
	"github.com/mrz1836/batuta/internal/constants"
	"github.com/mrz1836/batuta/internal/errors"
	"github.com/mrz1836/batuta/internal/patcher"
	"github.com/mrz1836/batuta/internal/staging"
	"github.com/mrz1836/batuta/internal/tool"
)

// Prompter blocks until the operator confirms the app is running on the
// device. Implementations decide how to ask (interactive form, plain stdin).
type Prompter interface {
	WaitForAppStart(packageName string) error
}

// Options configures an instrumentation run.
type Options struct {
	// Force skips the Flutter framework check.
	Force bool

	// SkipDump ends the workflow after install, without reading the dump.
	SkipDump bool

	// WaitForUser blocks on the Prompter instead of auto-launching the
	// app. The wait has no timeout; reversing on a hung prompt is the
	// operator's Ctrl-C.
	WaitForUser bool

	// OutputDir receives the signed APK and the dump. Empty means the
	// current directory.
	OutputDir string

	// KeystoreDir is where the debug signing keystore lives.
	KeystoreDir string

	// AaptPath is the aapt binary for package name extraction, optional.
	AaptPath string

	// CheckRoot verifies su works before attempting the dump.
	CheckRoot bool

	// GracePeriod is how long to wait after an automated launch before
	// reading the dump. Zero uses the package default.
	GracePeriod time.Duration

	// Timeout bounds each individual tool invocation.
	Timeout time.Duration
}

// Result describes a completed instrumentation run. Install success with a
// failed dump is still a success; DumpError carries the non-fatal reason.
type Result struct {
	// RunID uniquely identifies this run in logs.
	RunID string `json:"run_id"`

	// PackageName is the instrumented application's package.
	PackageName string `json:"package_name"`

	// OriginalAPK is the input APK.
	OriginalAPK string `json:"original_apk"`

	// SignedAPK is the re-signed instrumented APK written to OutputDir.
	SignedAPK string `json:"signed_apk"`

	// Installed reports whether the instrumented APK reached the device.
	Installed bool `json:"installed"`

	// Dump is the dump outcome, nil when skipped or failed.
	Dump *DumpResult `json:"dump,omitempty"`

	// DumpError is the non-fatal dump failure reason, empty on success.
	DumpError string `json:"dump_error,omitempty"`
}

// Workflow runs the instrumentation pipeline. Construct with NewWorkflow.
type Workflow struct {
	runner   tool.Runner
	device   *adb.Client
	patcher  *patcher.Patcher
	clock    clock.Clock
	prompter Prompter
}

// NewWorkflow creates a Workflow. prompter is consulted whenever the app
// cannot be (or must not be) launched automatically.
func NewWorkflow(runner tool.Runner, device *adb.Client, p *patcher.Patcher, clk clock.Clock, prompter Prompter) *Workflow {
	return &Workflow{runner: runner, device: device, patcher: p, clock: clk, prompter: prompter}
}

// ValidateFlutter verifies the APK carries Flutter's signature files.
func ValidateFlutter(apkPath string) error {
	if err := apk.ValidatePath(apkPath, false); err != nil {
		return err
	}

	detection, err := apk.DetectFrameworks(apkPath, false)
	if err != nil {
		return err
	}
	if detection.Has(apk.FrameworkFlutter) {
		return nil
	}

	detected := "none"
	if names := detection.Names(); len(names) > 0 {
		detected = strings.Join(names, ", ")
	}
	return fmt.Errorf("%w: not a Flutter application (detected frameworks: %s)",
		errors.ErrFrameworkMismatch, detected)
}

// Instrument runs the full workflow: validate, patch, re-sign, install, dump.
func (w *Workflow) Instrument(ctx context.Context, apkPath string, opts Options) (*Result, error) {
	if err := tool.Require(constants.ToolReflutter, constants.ToolApktool, constants.ToolADB); err != nil {
		return nil, err
	}
	if !opts.Force {
		if err := ValidateFlutter(apkPath); err != nil {
			return nil, err
		}
	} else if err := apk.ValidatePath(apkPath, false); err != nil {
		return nil, err
	}

	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.GracePeriod == 0 {
		opts.GracePeriod = constants.DefaultLaunchGracePeriod
	}
	if opts.Timeout == 0 {
		opts.Timeout = constants.DefaultToolTimeout
	}

	packageName, err := apk.PackageName(ctx, w.runner, opts.AaptPath, apkPath)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:       uuid.NewString(),
		PackageName: packageName,
		OriginalAPK: apkPath,
		SignedAPK:   filepath.Join(opts.OutputDir, packageName+"-reflutter-signed.apk"),
	}

	logger := zerolog.Ctx(ctx).With().
		Str("run_id", result.RunID).
		Str("package", packageName).
		Logger()
	ctx = logger.WithContext(ctx)

	err = staging.With("flutter", func(dir string) error {
		patched, patchErr := w.runReflutter(ctx, dir, apkPath, opts)
		if patchErr != nil {
			return patchErr
		}

		if signErr := w.signPatched(ctx, dir, patched, result.SignedAPK, opts); signErr != nil {
			return signErr
		}

		// A previous instrumented install would block this one; failure
		// here just means it was never installed.
		w.device.Uninstall(ctx, packageName)

		return w.device.Install(ctx, result.SignedAPK)
	})
	if err != nil {
		return nil, err
	}
	result.Installed = true

	if opts.SkipDump {
		logger.Info().Str("signed", result.SignedAPK).Msg("instrumented APK installed, dump skipped")
		return result, nil
	}

	autoStarted, startErr := w.ensureAppStarted(ctx, packageName, opts)
	if startErr != nil {
		return nil, startErr
	}

	dumpOpts := DumpOptions{
		OutputPath: filepath.Join(opts.OutputDir, packageName+"_dump.dart"),
		CheckRoot:  opts.CheckRoot,
		FormatJSON: true,
	}
	dump, dumpErr := w.Dump(ctx, packageName, dumpOpts)
	if dumpErr != nil {
		// The install succeeded and stays; the dump can be retried any
		// time with the standalone dump operation.
		logger.Warn().Err(dumpErr).Msg("dump failed, instrumented app remains installed")
		result.DumpError = dumpErr.Error()
		return result, nil
	}
	dump.AutoStarted = autoStarted
	result.Dump = dump

	logger.Info().Str("dump", dump.DumpPath).Msg("instrumentation complete")
	return result, nil
}

// runReflutter patches the APK in the staging area and returns the patched
// artifact path. reflutter writes its fixed output name into its working
// directory.
func (w *Workflow) runReflutter(ctx context.Context, dir, apkPath string, opts Options) (string, error) {
	inv := tool.Command(constants.ToolReflutter, apkPath)
	inv.Dir = dir
	inv.Timeout = opts.Timeout

	patched := filepath.Join(dir, constants.ReflutterOutputFile)
	if _, err := tool.RunStage(ctx, w.runner, nil, inv, patched); err != nil {
		return "", errors.Wrap(err, "reflutter patching failed")
	}
	return patched, nil
}

// signPatched decodes the reflutter output into an apktool project and runs
// the standard build pipeline on it, writing the signed APK to outputPath.
func (w *Workflow) signPatched(ctx context.Context, dir, patched, outputPath string, opts Options) error {
	decoded := filepath.Join(dir, "decoded")
	inv := tool.Command(constants.ToolApktool, "d", "-o", decoded, patched, "-f")
	inv.Timeout = opts.Timeout

	if _, err := tool.RunStage(ctx, w.runner, nil, inv, decoded); err != nil {
		return errors.Wrap(err, "failed to decode patched apk")
	}

	patchOpts := patcher.DefaultOptions()
	patchOpts.KeystoreDir = opts.KeystoreDir
	patchOpts.Timeout = opts.Timeout

	_, err := w.patcher.Patch(ctx, decoded, outputPath, patchOpts)
	return errors.Wrap(err, "failed to re-sign patched apk")
}

// ensureAppStarted gets the instrumented app running so it writes its dump.
// Reports whether the launch was automated.
func (w *Workflow) ensureAppStarted(ctx context.Context, packageName string, opts Options) (bool, error) {
	if opts.WaitForUser {
		return false, w.prompter.WaitForAppStart(packageName)
	}

	if err := w.device.StartApp(ctx, packageName); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("automated launch failed, falling back to manual start")
		return false, w.prompter.WaitForAppStart(packageName)
	}

	// Give the app time to initialize and write its dump.
	if err := w.clock.Sleep(ctx, opts.GracePeriod); err != nil {
		return false, err
	}
	return true, nil
}
