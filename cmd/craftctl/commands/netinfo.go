package commands

import (
	"github.com/spf13/cobra"

	"github.com/craftctl/craftctl/cmd/craftctl/handlers"
)

// NetInfo returns the netinfo command.
//
// The netinfo command reads a guest's network interfaces and their MAC
// addresses, the identity used for DHCP reservations.
func NetInfo() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "netinfo VMID",
		Short: "Show a guest's network interfaces and MAC addresses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vmid, err := vmidArg(args)
			if err != nil {
				return err
			}
			return handlers.NetInfo(cmd.Context(), configPath, vmid)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
