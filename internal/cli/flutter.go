package cli

import (
	"github.com/spf13/cobra"
)

// AddFlutterCommand adds the flutter command group to the root command.
func AddFlutterCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "flutter",
		Short: "Instrument Flutter apps (reflutter patch, runtime dump)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newFlutterPatchCmd(flags))
	cmd.AddCommand(newFlutterDumpCmd(flags))

	root.AddCommand(cmd)
}
