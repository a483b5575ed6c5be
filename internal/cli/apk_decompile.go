package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/batuta/internal/decompiler"
	"github.com/mrz1836/batuta/internal/tool"
	"github.com/mrz1836/batuta/internal/tui"
)

// decompileFlags holds flags specific to the apk decompile command.
type decompileFlags struct {
	outputDir string
	noJava    bool
	noSmali   bool
}

func newAPKDecompileCmd(flags *GlobalFlags) *cobra.Command {
	local := &decompileFlags{}

	cmd := &cobra.Command{
		Use:   "decompile <apk>",
		Short: "Decompile an APK to Java sources and smali assembly",
		Long: `Decompile an APK with jadx (Java sources) and apktool (smali assembly).

By default both extractors run and each writes into its own subdirectory
of the output directory. A single extractor failing does not stop the
other; the command fails only when every requested extractor failed.

Examples:
  batuta apk decompile app.apk
  batuta apk decompile app.apk --out ./app-src --no-smali
  batuta apk decompile app.apk --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPKDecompile(cmd.Context(), flags, local, args[0], os.Stdout)
		},
	}

	cmd.Flags().StringVar(&local.outputDir, "out", "", "output directory (default ./<apk name>)")
	cmd.Flags().BoolVar(&local.noJava, "no-java", false, "skip jadx Java decompilation")
	cmd.Flags().BoolVar(&local.noSmali, "no-smali", false, "skip apktool smali decompilation")

	return cmd
}

func runAPKDecompile(ctx context.Context, flags *GlobalFlags, local *decompileFlags, apkPath string, w io.Writer) error {
	tui.CheckNoColor()
	out := tui.NewOutput(w, flags.Output)
	cfg := loadConfigOrDefaults(ctx)

	opts := decompiler.DefaultOptions()
	opts.Java = !local.noJava
	opts.Smali = !local.noSmali
	opts.Timeout = cfg.Tools.Timeout

	outputDir := local.outputDir
	if outputDir == "" {
		outputDir = decompiler.DefaultOutputDir(apkPath)
	}

	spinner := tui.NewSpinner(w)
	if flags.Output == OutputText && !flags.Quiet {
		spinner.Start(ctx, fmt.Sprintf("Decompiling %s...", apkPath))
	}

	d := decompiler.New(tool.NewExecRunner())
	result, err := d.Decompile(ctx, apkPath, outputDir, opts)
	spinner.Stop()
	if err != nil {
		out.Error(err)
		return err
	}

	if flags.Output == OutputJSON {
		return out.JSON(result)
	}

	if result.JavaDir != "" {
		if result.JavaSuccess {
			out.Success(fmt.Sprintf("Java sources: %s", result.JavaDir))
		} else {
			out.Warning("Java decompilation failed, see logs")
		}
	}
	if result.SmaliDir != "" {
		if result.SmaliSuccess {
			out.Success(fmt.Sprintf("Smali sources: %s", result.SmaliDir))
		} else {
			out.Warning("Smali decompilation failed, see logs")
		}
	}
	out.Info(fmt.Sprintf("Output directory: %s", result.OutputDir))
	return nil
}
