package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrz1836/batuta/internal/config"
)

// AddAPKCommand adds the apk command group to the root command.
func AddAPKCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "apk",
		Short: "Work with APK files (decompile, patch, merge, pull)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newAPKDecompileCmd(flags))
	cmd.AddCommand(newAPKPatchCmd(flags))
	cmd.AddCommand(newAPKMergeCmd(flags))
	cmd.AddCommand(newAPKPullCmd(flags))

	root.AddCommand(cmd)
}

// loadConfigOrDefaults loads the global configuration, falling back to
// defaults when no config file exists or it cannot be read. Commands should
// never fail just because ~/.batuta/config.yaml is absent.
func loadConfigOrDefaults(ctx context.Context) *config.Config {
	cfg, err := config.Load(ctx)
	if err != nil {
		logger := GetLogger()
		logger.Warn().Err(err).Msg("failed to load config, using defaults")
		return config.DefaultConfig()
	}
	return cfg
}
