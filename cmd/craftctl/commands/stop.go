package commands

import (
	"github.com/spf13/cobra"

	"github.com/craftctl/craftctl/cmd/craftctl/handlers"
)

// Stop returns the stop command.
func Stop() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "stop VMID",
		Short: "Stop a game server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vmid, err := vmidArg(args)
			if err != nil {
				return err
			}
			return handlers.Stop(cmd.Context(), configPath, vmid)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
