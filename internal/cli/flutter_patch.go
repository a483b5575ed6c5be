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

// flutterPatchFlags holds flags specific to the flutter patch command.
type flutterPatchFlags struct {
	outputDir   string
	force       bool
	skipDump    bool
	waitForUser bool
}

func newFlutterPatchCmd(flags *GlobalFlags) *cobra.Command {
	local := &flutterPatchFlags{}

	cmd := &cobra.Command{
		Use:   "patch <apk>",
		Short: "Instrument a Flutter APK with reflutter and install it",
		Long: `Run the full Flutter instrumentation workflow.

The APK is patched with reflutter, re-signed with the debug keystore,
installed on a connected device, and the app is launched so the runtime
dump at /data/data/<package>/dump.dart can be read back (requires root).

A non-Flutter APK is rejected unless --force is given. With
--wait-for-user the app is not auto-launched; instead the command waits
until you confirm the app is running.

Examples:
  batuta flutter patch app.apk
  batuta flutter patch app.apk --wait-for-user
  batuta flutter patch app.apk --skip-dump --out ./instrumented`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlutterPatch(cmd.Context(), flags, local, args[0], os.Stdout)
		},
	}

	cmd.Flags().StringVar(&local.outputDir, "out", ".", "directory for the signed APK and dump")
	cmd.Flags().BoolVar(&local.force, "force", false, "skip the Flutter framework check")
	cmd.Flags().BoolVar(&local.skipDump, "skip-dump", false, "stop after install, do not read the dump")
	cmd.Flags().BoolVar(&local.waitForUser, "wait-for-user", false, "wait for manual app start instead of auto-launching")

	return cmd
}

func runFlutterPatch(ctx context.Context, flags *GlobalFlags, local *flutterPatchFlags, apkPath string, w io.Writer) error {
	tui.CheckNoColor()
	out := tui.NewOutput(w, flags.Output)
	cfg := loadConfigOrDefaults(ctx)

	keystoreDir, err := cfg.ResolveKeystoreDir()
	if err != nil {
		return err
	}

	opts := reflutter.Options{
		Force:       local.force,
		SkipDump:    local.skipDump,
		WaitForUser: local.waitForUser,
		OutputDir:   local.outputDir,
		KeystoreDir: keystoreDir,
		CheckRoot:   cfg.Dump.CheckRoot,
		GracePeriod: cfg.Dump.GracePeriod,
		Timeout:     cfg.Tools.Timeout,
	}

	runner := tool.NewExecRunner()
	locator := sdk.NewLocator(cfg.SDK.MinBuildTools, cfg.SDK.Home)
	opts.AaptPath = locator.Aapt()

	client := adb.NewClient(runner, flags.Device)
	if _, err = client.EnsureDevice(ctx); err != nil {
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

	result, err := wf.Instrument(ctx, apkPath, opts)
	if err != nil {
		out.Error(err)
		return err
	}

	if flags.Output == OutputJSON {
		return out.JSON(result)
	}

	out.Success(fmt.Sprintf("Instrumented APK installed: %s", result.SignedAPK))
	switch {
	case result.Dump != nil:
		out.Success(fmt.Sprintf("Runtime dump: %s", result.Dump.DumpPath))
		if result.Dump.FormattedPath != "" {
			out.Info(fmt.Sprintf("Formatted dump: %s", result.Dump.FormattedPath))
		}
	case result.DumpError != "":
		out.Warning(fmt.Sprintf("Dump failed: %s", result.DumpError))
		out.Info(fmt.Sprintf("Retry with: batuta flutter dump %s", result.PackageName))
	}
	return nil
}
