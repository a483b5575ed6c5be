package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/batuta/internal/merger"
	"github.com/mrz1836/batuta/internal/tool"
	"github.com/mrz1836/batuta/internal/tui"
)

// mergeFlags holds flags specific to the apk merge command.
type mergeFlags struct {
	outputPath string
}

func newAPKMergeCmd(flags *GlobalFlags) *cobra.Command {
	local := &mergeFlags{}

	cmd := &cobra.Command{
		Use:   "merge <split-dir>",
		Short: "Merge a directory of split APKs into a single APK",
		Long: `Merge a split APK set (base + config splits) into one installable APK
using APKEditor.

APKEditor is resolved in priority order: the APKEDITOR_JAR environment
variable, the apkeditor_path config key, then an APKEditor wrapper on
PATH.

Examples:
  batuta apk merge ./com.example.app
  batuta apk merge ./com.example.app --out app-merged.apk`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPKMerge(cmd.Context(), flags, local, args[0], os.Stdout)
		},
	}

	cmd.Flags().StringVar(&local.outputPath, "out", "", "output APK path (default <split-dir>.merged.apk)")

	return cmd
}

func runAPKMerge(ctx context.Context, flags *GlobalFlags, local *mergeFlags, splitDir string, w io.Writer) error {
	tui.CheckNoColor()
	out := tui.NewOutput(w, flags.Output)
	cfg := loadConfigOrDefaults(ctx)

	opts := merger.Options{
		APKEditorPath: cfg.APKEditorPath,
		Timeout:       cfg.Tools.Timeout,
	}

	outputPath := local.outputPath
	if outputPath == "" {
		outputPath = merger.DefaultOutputPath(splitDir)
	}

	spinner := tui.NewSpinner(w)
	if flags.Output == OutputText && !flags.Quiet {
		spinner.Start(ctx, fmt.Sprintf("Merging %s...", splitDir))
	}

	m := merger.New(tool.NewExecRunner())
	result, err := m.Merge(ctx, splitDir, outputPath, opts)
	spinner.Stop()
	if err != nil {
		out.Error(err)
		return err
	}

	if flags.Output == OutputJSON {
		return out.JSON(result)
	}

	out.Success(fmt.Sprintf("Merged %d splits into %s", result.SplitCount, result.OutputPath))
	return nil
}
