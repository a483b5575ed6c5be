package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/batuta/internal/config"
	"github.com/mrz1836/batuta/internal/tui"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect batuta configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newConfigShowCmd(flags))

	root.AddCommand(cmd)
}

func newConfigShowCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective batuta configuration.

Values are the merge of built-in defaults, ~/.batuta/config.yaml, and
BATUTA_* environment variable overrides.

Examples:
  batuta config show
  batuta config show --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), flags, os.Stdout)
		},
	}
}

func runConfigShow(ctx context.Context, flags *GlobalFlags, w io.Writer) error {
	tui.CheckNoColor()
	out := tui.NewOutput(w, flags.Output)

	cfg, err := config.Load(ctx)
	if err != nil {
		out.Error(err)
		return err
	}

	if flags.Output == OutputJSON {
		return out.JSON(cfg)
	}

	path, err := config.GlobalConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			out.Info(fmt.Sprintf("Config file: %s", path))
		} else {
			out.Info(fmt.Sprintf("Config file: %s (not present, showing defaults)", path))
		}
	}

	rendered, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	_, err = fmt.Fprint(w, string(rendered))
	return err
}
