package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/batuta/internal/adb"
	"github.com/mrz1836/batuta/internal/clock"
	"github.com/mrz1836/batuta/internal/patcher"
	"github.com/mrz1836/batuta/internal/reflutter"
	"github.com/mrz1836/batuta/internal/sdk"
	"github.com/mrz1836/batuta/internal/tool"
	"github.com/mrz1836/batuta/internal/tui"
)

// flutterDumpFlags holds flags specific to the flutter dump command.
type flutterDumpFlags struct {
	outputPath  string
	noRootCheck bool
}

func newFlutterDumpCmd(flags *GlobalFlags) *cobra.Command {
	local := &flutterDumpFlags{}

	cmd := &cobra.Command{
		Use:   "dump <package>",
		Short: "Read the reflutter runtime dump from a rooted device",
		Long: `Read /data/data/<package>/dump.dart from a rooted device.

The dump only exists after an instrumented app has been started at least
once. The raw dump is written locally; when the content parses as JSON a
pretty-printed copy is written alongside it.

Examples:
  batuta flutter dump com.example.app
  batuta flutter dump com.example.app --out ./dumps/app.dart`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlutterDump(cmd.Context(), flags, local, args[0], os.Stdout)
		},
	}

	cmd.Flags().StringVar(&local.outputPath, "out", "", "dump output path (default ./<package>_dump.dart)")
	cmd.Flags().BoolVar(&local.noRootCheck, "no-root-check", false, "skip the su availability check")

	return cmd
}

func runFlutterDump(ctx context.Context, flags *GlobalFlags, local *flutterDumpFlags, packageName string, w io.Writer) error {
	tui.CheckNoColor()
	out := tui.NewOutput(w, flags.Output)
	cfg := loadConfigOrDefaults(ctx)

	opts := reflutter.DefaultDumpOptions()
	opts.OutputPath = local.outputPath
	opts.CheckRoot = cfg.Dump.CheckRoot && !local.noRootCheck

	runner := tool.NewExecRunner()
	locator := sdk.NewLocator(cfg.SDK.MinBuildTools, cfg.SDK.Home)
	client := adb.NewClient(runner, flags.Device)
	if _, err := client.EnsureDevice(ctx); err != nil {
		out.Error(err)
		return err
	}

	wf := reflutter.NewWorkflow(
		runner,
		client,
		patcher.New(runner, locator),
		clock.RealClock{},
		tui.NewAppStartPrompter(),
	)

	result, err := wf.Dump(ctx, packageName, opts)
	if err != nil {
		out.Error(err)
		return err
	}

	if flags.Output == OutputJSON {
		return out.JSON(result)
	}

	out.Success(fmt.Sprintf("Runtime dump: %s", result.DumpPath))
	if result.FormattedPath != "" {
		out.Info(fmt.Sprintf("Formatted dump: %s", result.FormattedPath))
	}
	return nil
}
