// Package merger combines a directory of split APKs into one installable APK.
//
// Split-distributed apps pulled from a device arrive as a base APK plus
// configuration splits; APKEditor folds them back into a single artifact
// that apktool and jadx can work on. APKEditor has no fixed install
// location, so it is resolved through an env/config/PATH chain rather than a
// plain PATH lookup.
package merger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/batuta/internal/apk"
	"github.com/mrz1836/batuta/internal/constants"
	"github.com/mrz1836/batuta/internal/errors"
	"github.com/mrz1836/batuta/internal/tool"
)

// Options configures a merge run.
type Options struct {
	// APKEditorPath is the configured jar path, consulted after the
	// APKEDITOR_JAR environment variable. May be empty.
	APKEditorPath string

	// Timeout bounds the merge invocation. Zero uses the package default.
	Timeout time.Duration
}

// Result reports a completed merge.
type Result struct {
	// RunID uniquely identifies this run in logs.
	RunID string `json:"run_id"`

	// SplitDir is the directory of split APKs that was merged.
	SplitDir string `json:"split_dir"`

	// OutputPath is the merged APK.
	OutputPath string `json:"output_path"`

	// SplitCount is how many APK files the split directory held.
	SplitCount int `json:"split_count"`
}

// Merger merges split APK directories. Construct with New.
type Merger struct {
	runner tool.Runner
}

// New creates a Merger using the given runner.
func New(runner tool.Runner) *Merger {
	return &Merger{runner: runner}
}

// DefaultOutputPath returns the conventional merged-APK path for a split
// directory: a sibling file named after the directory.
func DefaultOutputPath(splitDir string) string {
	dir := filepath.Clean(splitDir)
	return filepath.Join(filepath.Dir(dir), filepath.Base(dir)+".merged"+constants.APKExtension)
}

// Merge combines every APK in splitDir into a single APK at outputPath. An
// empty outputPath uses DefaultOutputPath. A pre-existing output file is
// replaced.
func (m *Merger) Merge(ctx context.Context, splitDir, outputPath string, opts Options) (*Result, error) {
	splits, err := apk.ListSplitDir(splitDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrMerge, err)
	}
	if len(splits) == 0 {
		return nil, fmt.Errorf("%w: no APK files in %s (did you pull split APKs?)", errors.ErrMerge, splitDir)
	}

	if outputPath == "" {
		outputPath = DefaultOutputPath(splitDir)
	}
	if opts.Timeout == 0 {
		opts.Timeout = constants.DefaultToolTimeout
	}

	base, ok := tool.APKEditorCommand(opts.APKEditorPath)
	if !ok {
		return nil, fmt.Errorf("%w: %w", errors.ErrMerge, tool.NotFoundError(constants.ToolAPKEditor))
	}

	if err = os.MkdirAll(filepath.Dir(outputPath), 0o750); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory for %s", outputPath)
	}
	// APKEditor refuses to overwrite; clear any stale artifact first.
	if err = os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to remove existing output %s", outputPath)
	}

	result := &Result{
		RunID:      uuid.NewString(),
		SplitDir:   splitDir,
		OutputPath: outputPath,
		SplitCount: len(splits),
	}

	logger := zerolog.Ctx(ctx).With().Str("run_id", result.RunID).Logger()
	ctx = logger.WithContext(ctx)

	args := append(append([]string{}, base...), "merge", "-i", splitDir, "-o", outputPath)
	inv := tool.Command(args...)
	inv.Timeout = opts.Timeout

	if _, err = tool.RunStage(ctx, m.runner, nil, inv, outputPath); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrMerge, err)
	}

	logger.Info().
		Int("splits", result.SplitCount).
		Str("output", outputPath).
		Msg("split APKs merged")
	return result, nil
}
