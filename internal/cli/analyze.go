package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/batuta/internal/apk"
	"github.com/mrz1836/batuta/internal/tui"
)

// analyzeFlags holds flags specific to the analyze command.
type analyzeFlags struct {
	nativeLibs bool
}

// AddAnalyzeCommand adds the analyze command to the root command.
func AddAnalyzeCommand(root *cobra.Command, flags *GlobalFlags) {
	local := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze <apk>",
		Short: "Detect app frameworks inside an APK",
		Long: `Scan an APK for framework evidence (Flutter, React Native, Xamarin,
Cordova, Unity) by matching known signature files in its zip directory.

Examples:
  batuta analyze app.apk
  batuta analyze app.apk --native-libs --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(flags, local, args[0], os.Stdout)
		},
	}

	cmd.Flags().BoolVar(&local.nativeLibs, "native-libs", false, "also list bundled native libraries")

	root.AddCommand(cmd)
}

func runAnalyze(flags *GlobalFlags, local *analyzeFlags, apkPath string, w io.Writer) error {
	tui.CheckNoColor()
	out := tui.NewOutput(w, flags.Output)

	result, err := apk.DetectFrameworks(apkPath, local.nativeLibs)
	if err != nil {
		out.Error(err)
		return err
	}

	if flags.Output == OutputJSON {
		return out.JSON(result)
	}

	if len(result.Frameworks) == 0 {
		out.Info("No known frameworks detected")
	}
	for _, fw := range result.Frameworks {
		out.Success(fmt.Sprintf("%s (%s)", fw.Name, strings.Join(fw.MatchedFiles, ", ")))
	}
	if local.nativeLibs {
		for _, lib := range result.NativeLibs {
			out.Info(lib)
		}
	}
	return nil
}
