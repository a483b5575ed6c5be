// Package decompiler extracts Java sources and smali/resources from an APK.
//
// Two extractors are supported: jadx for Java sources and apktool for smali
// plus decoded resources. When both are requested their failures are
// independent; the run errors only when every requested extractor fails, so a
// jadx crash on an obfuscated APK still leaves usable smali behind.
package decompiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/batuta/internal/apk"
	"github.com/mrz1836/batuta/internal/constants"
	"github.com/mrz1836/batuta/internal/errors"
	"github.com/mrz1836/batuta/internal/tool"
)

// Options selects which extractors run.
type Options struct {
	// Java runs jadx to produce Java sources under <output>/java.
	Java bool

	// Smali runs apktool to produce smali and resources under
	// <output>/smali.
	Smali bool

	// Timeout bounds each individual tool invocation. Zero uses the
	// package default.
	Timeout time.Duration
}

// DefaultOptions runs both extractors.
func DefaultOptions() Options {
	return Options{Java: true, Smali: true, Timeout: constants.DefaultToolTimeout}
}

// Result reports the outcome of a decompile run. A nil JavaDir or SmaliDir
// means that extractor was skipped or failed; check the matching success flag.
type Result struct {
	// RunID uniquely identifies this run in logs.
	RunID string `json:"run_id"`

	// APKPath is the decompiled APK.
	APKPath string `json:"apk_path"`

	// OutputDir is the root directory holding extractor outputs.
	OutputDir string `json:"output_dir"`

	// JavaDir is where jadx wrote Java sources, empty on skip or failure.
	JavaDir string `json:"java_dir,omitempty"`

	// SmaliDir is where apktool wrote smali/resources, empty on skip or
	// failure.
	SmaliDir string `json:"smali_dir,omitempty"`

	// JavaSuccess reports whether the jadx extractor succeeded.
	JavaSuccess bool `json:"java_success"`

	// SmaliSuccess reports whether the apktool extractor succeeded.
	SmaliSuccess bool `json:"smali_success"`
}

// Decompiler runs the extraction pipeline. Construct with New.
type Decompiler struct {
	runner tool.Runner
}

// New creates a Decompiler using the given runner.
func New(runner tool.Runner) *Decompiler {
	return &Decompiler{runner: runner}
}

// DefaultOutputDir returns the conventional output root for an APK: a
// directory named after the APK (extension stripped) under the current
// working directory.
func DefaultOutputDir(apkPath string) string {
	stem := strings.TrimSuffix(filepath.Base(apkPath), filepath.Ext(apkPath))
	return filepath.Join(".", stem)
}

// Decompile extracts apkPath into outputDir. An empty outputDir uses
// DefaultOutputDir.
func (d *Decompiler) Decompile(ctx context.Context, apkPath, outputDir string, opts Options) (*Result, error) {
	if err := apk.ValidatePath(apkPath, true); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrDecompile, err)
	}
	if !opts.Java && !opts.Smali {
		return nil, fmt.Errorf("%w: at least one of java or smali must be requested", errors.ErrValidation)
	}
	if opts.Timeout == 0 {
		opts.Timeout = constants.DefaultToolTimeout
	}
	if outputDir == "" {
		outputDir = DefaultOutputDir(apkPath)
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", outputDir)
	}

	result := &Result{
		RunID:     uuid.NewString(),
		APKPath:   apkPath,
		OutputDir: outputDir,
	}

	logger := zerolog.Ctx(ctx).With().Str("run_id", result.RunID).Logger()
	ctx = logger.WithContext(ctx)

	var javaErr, smaliErr error

	if opts.Java {
		javaDir := filepath.Join(outputDir, "java")
		if javaErr = d.runJadx(ctx, apkPath, javaDir, opts.Timeout); javaErr == nil {
			result.JavaDir = javaDir
			result.JavaSuccess = true
		} else if opts.Smali {
			logger.Warn().Err(javaErr).Msg("jadx extraction failed, continuing with apktool")
		}
	}

	if opts.Smali {
		smaliDir := filepath.Join(outputDir, "smali")
		if smaliErr = d.runApktool(ctx, apkPath, smaliDir, opts.Timeout); smaliErr == nil {
			result.SmaliDir = smaliDir
			result.SmaliSuccess = true
		} else if opts.Java && result.JavaSuccess {
			logger.Warn().Err(smaliErr).Msg("apktool extraction failed, jadx output kept")
		}
	}

	// Error only when every requested extractor failed.
	if opts.Java && !result.JavaSuccess && (!opts.Smali || !result.SmaliSuccess) {
		if opts.Smali {
			return nil, fmt.Errorf("%w: both jadx and apktool failed (jadx: %v, apktool: %v)",
				errors.ErrDecompile, javaErr, smaliErr)
		}
		return nil, fmt.Errorf("%w: %w", errors.ErrDecompile, javaErr)
	}
	if opts.Smali && !result.SmaliSuccess && !opts.Java {
		return nil, fmt.Errorf("%w: %w", errors.ErrDecompile, smaliErr)
	}

	logger.Info().
		Bool("java", result.JavaSuccess).
		Bool("smali", result.SmaliSuccess).
		Str("output", outputDir).
		Msg("decompile complete")
	return result, nil
}

func (d *Decompiler) runJadx(ctx context.Context, apkPath, output string, timeout time.Duration) error {
	if err := tool.Require(constants.ToolJadx); err != nil {
		return err
	}

	// No -r or -e; plain source extraction.
	inv := tool.Command(constants.ToolJadx, "-d", output, apkPath)
	inv.Timeout = timeout

	_, err := tool.RunStage(ctx, d.runner, nil, inv, output)
	return err
}

func (d *Decompiler) runApktool(ctx context.Context, apkPath, output string, timeout time.Duration) error {
	if err := tool.Require(constants.ToolApktool); err != nil {
		return err
	}

	// -f overwrites a stale output directory from an earlier run.
	inv := tool.Command(constants.ToolApktool, "d", "-o", output, apkPath, "-f")
	inv.Timeout = timeout

	_, err := tool.RunStage(ctx, d.runner, nil, inv, output)
	return err
}
