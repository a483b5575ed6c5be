package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/batuta/internal/adb"
	"github.com/mrz1836/batuta/internal/constants"
	"github.com/mrz1836/batuta/internal/tool"
	"github.com/mrz1836/batuta/internal/tui"
)

// pullFlags holds flags specific to the apk pull command.
type pullFlags struct {
	outputDir string
	system    bool
}

func newAPKPullCmd(flags *GlobalFlags) *cobra.Command {
	local := &pullFlags{}

	cmd := &cobra.Command{
		Use:   "pull <package>",
		Short: "Pull an installed APK from a connected device",
		Long: `Pull an installed package's APK from a device via adb.

The package may be a full name or a substring; a substring must match
exactly one installed package. Split installations are pulled into a
per-package directory containing the base and every split.

Examples:
  batuta apk pull com.example.app
  batuta apk pull example --out ./pulled
  batuta apk pull com.android.settings --system`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPKPull(cmd.Context(), flags, local, args[0], os.Stdout)
		},
	}

	cmd.Flags().StringVar(&local.outputDir, "out", ".", "directory to pull into")
	cmd.Flags().BoolVar(&local.system, "system", false, "include system packages when matching")

	return cmd
}

func runAPKPull(ctx context.Context, flags *GlobalFlags, local *pullFlags, query string, w io.Writer) error {
	tui.CheckNoColor()
	out := tui.NewOutput(w, flags.Output)

	if err := tool.Require(constants.ToolADB); err != nil {
		out.Error(err)
		return err
	}

	client := adb.NewClient(tool.NewExecRunner(), flags.Device)
	if _, err := client.EnsureDevice(ctx); err != nil {
		out.Error(err)
		return err
	}

	packageName, err := client.FindPackage(ctx, query, local.system)
	if err != nil {
		out.Error(err)
		return err
	}

	spinner := tui.NewSpinner(w)
	if flags.Output == OutputText && !flags.Quiet {
		spinner.Start(ctx, fmt.Sprintf("Pulling %s...", packageName))
	}

	pulled, err := client.Pull(ctx, packageName, local.outputDir)
	spinner.Stop()
	if err != nil {
		out.Error(err)
		return err
	}

	if flags.Output == OutputJSON {
		return out.JSON(pulled)
	}

	if pulled.IsSplit {
		out.Success(fmt.Sprintf("Pulled %d split APKs into %s", len(pulled.SplitPaths), pulled.LocalPath))
		out.Info(fmt.Sprintf("Merge them with: batuta apk merge %s", pulled.LocalPath))
	} else {
		out.Success(fmt.Sprintf("Pulled %s", pulled.LocalPath))
	}
	return nil
}
