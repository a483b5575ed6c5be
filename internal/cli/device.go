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

// AddDeviceCommand adds the device command group to the root command.
func AddDeviceCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Manage connected Android devices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newDeviceListCmd(flags))

	root.AddCommand(cmd)
}

func newDeviceListCmd(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List devices known to adb",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDeviceList(cmd.Context(), flags, os.Stdout)
		},
	}
}

func runDeviceList(ctx context.Context, flags *GlobalFlags, w io.Writer) error {
	tui.CheckNoColor()
	out := tui.NewOutput(w, flags.Output)

	if err := tool.Require(constants.ToolADB); err != nil {
		out.Error(err)
		return err
	}

	client := adb.NewClient(tool.NewExecRunner(), flags.Device)
	devices, err := client.ListDevices(ctx)
	if err != nil {
		out.Error(err)
		return err
	}

	if flags.Output == OutputJSON {
		return out.JSON(devices)
	}

	if len(devices) == 0 {
		out.Warning("No devices found")
		return nil
	}

	for _, d := range devices {
		line := fmt.Sprintf("%s  %s", d.ID, d.State)
		if d.Model != "" {
			line += fmt.Sprintf("  model:%s", d.Model)
		}
		if d.Available() {
			out.Success(line)
		} else {
			out.Warning(line)
		}
	}
	return nil
}
