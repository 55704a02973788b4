package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guidoenr/oscviz/internal/audio"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List audio input devices usable with --input live",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := audio.Initialize(); err != nil {
				return err
			}
			defer audio.Terminate()

			devices, err := audio.ListInputDevices()
			if err != nil {
				return fmt.Errorf("list devices: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, dev := range devices {
				markers := ""
				if dev.IsDefault {
					markers += " (default)"
				}
				if dev.IsLoopback {
					markers += " (loopback)"
				}
				fmt.Fprintf(out, "- %s [%s]%s\n    inputs:%d sample:%.0f Hz\n",
					dev.Name, dev.HostAPI, markers, dev.Channels, dev.DefaultSampleHz)
			}
			return nil
		},
	}
}
