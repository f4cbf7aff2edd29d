package commands

import (
	"github.com/spf13/cobra"

	"github.com/craftctl/craftctl/cmd/craftctl/handlers"
)

// Start returns the start command.
func Start() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "start VMID",
		Short: "Start a game server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vmid, err := vmidArg(args)
			if err != nil {
				return err
			}
			return handlers.Start(cmd.Context(), configPath, vmid)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
