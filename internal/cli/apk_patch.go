package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/batuta/internal/patcher"
	"github.com/mrz1836/batuta/internal/sdk"
	"github.com/mrz1836/batuta/internal/tool"
	"github.com/mrz1836/batuta/internal/tui"
)

// patchFlags holds flags specific to the apk patch command.
type patchFlags struct {
	outputPath string
	noAlign    bool
	noSign     bool
	verify     bool
	keystore   string
	ksAlias    string
	ksPass     string
	keyPass    string
}

func newAPKPatchCmd(flags *GlobalFlags) *cobra.Command {
	local := &patchFlags{}

	cmd := &cobra.Command{
		Use:   "patch <project-dir>",
		Short: "Rebuild, align, and sign a decoded APK project",
		Long: `Rebuild an apktool project directory into an installable APK.

The pipeline runs build (apktool b), zipalign, and apksigner in order.
Align and sign are on by default and can be skipped independently; when
no keystore is supplied a debug keystore is generated on first use and
reused afterwards.

Examples:
  batuta apk patch ./app-decoded
  batuta apk patch ./app-decoded --out app-patched.apk --verify
  batuta apk patch ./app-decoded --keystore release.jks --ks-alias release --ks-pass secret`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPKPatch(cmd.Context(), flags, local, args[0], os.Stdout)
		},
	}

	cmd.Flags().StringVar(&local.outputPath, "out", "", "output APK path (default <project-dir>.patched.apk)")
	cmd.Flags().BoolVar(&local.noAlign, "no-align", false, "skip zipalign")
	cmd.Flags().BoolVar(&local.noSign, "no-sign", false, "skip signing")
	cmd.Flags().BoolVar(&local.verify, "verify", false, "verify the signature after signing")
	cmd.Flags().StringVar(&local.keystore, "keystore", "", "keystore to sign with (default: managed debug keystore)")
	cmd.Flags().StringVar(&local.ksAlias, "ks-alias", "", "key alias inside the keystore")
	cmd.Flags().StringVar(&local.ksPass, "ks-pass", "", "keystore password")
	cmd.Flags().StringVar(&local.keyPass, "key-pass", "", "key password (default: keystore password)")

	return cmd
}

func runAPKPatch(ctx context.Context, flags *GlobalFlags, local *patchFlags, sourceDir string, w io.Writer) error {
	tui.CheckNoColor()
	out := tui.NewOutput(w, flags.Output)
	cfg := loadConfigOrDefaults(ctx)

	opts := patcher.DefaultOptions()
	opts.Align = !local.noAlign
	opts.Sign = !local.noSign
	opts.Verify = local.verify
	opts.Timeout = cfg.Tools.Timeout

	keystoreDir, err := cfg.ResolveKeystoreDir()
	if err != nil {
		return err
	}
	opts.KeystoreDir = keystoreDir

	if local.keystore != "" {
		keyPass := local.keyPass
		if keyPass == "" {
			keyPass = local.ksPass
		}
		opts.Identity = &patcher.SigningIdentity{
			Keystore:  local.keystore,
			KeyAlias:  local.ksAlias,
			StorePass: local.ksPass,
			KeyPass:   keyPass,
		}
	}

	outputPath := local.outputPath
	if outputPath == "" {
		outputPath = defaultPatchOutput(sourceDir)
	}

	spinner := tui.NewSpinner(w)
	if flags.Output == OutputText && !flags.Quiet {
		spinner.Start(ctx, fmt.Sprintf("Patching %s...", sourceDir))
	}

	locator := sdk.NewLocator(cfg.SDK.MinBuildTools, cfg.SDK.Home)
	p := patcher.New(tool.NewExecRunner(), locator)
	result, err := p.Patch(ctx, sourceDir, outputPath, opts)
	spinner.Stop()
	if err != nil {
		out.Error(err)
		return err
	}

	if flags.Output == OutputJSON {
		return out.JSON(result)
	}

	if result.KeystoreGenerated {
		out.Info("Generated new debug keystore")
	}
	if result.Verified != nil && !*result.Verified {
		out.Warning("Signature verification failed")
	}
	out.Success(fmt.Sprintf("Patched APK: %s", result.OutputPath))
	return nil
}

// defaultPatchOutput derives the output APK path from the project directory,
// e.g. ./app-decoded -> ./app-decoded.patched.apk.
func defaultPatchOutput(sourceDir string) string {
	base := strings.TrimSuffix(filepath.Clean(sourceDir), string(filepath.Separator))
	return base + ".patched.apk"
}
