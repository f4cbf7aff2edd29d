package commands

import (
	"github.com/spf13/cobra"

	"github.com/craftctl/craftctl/cmd/craftctl/handlers"
)

// Locate returns the locate command.
//
// The locate command scans the cluster for the node and backend hosting a
// guest. The cluster topology is never cached, so the answer is current.
func Locate() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "locate VMID",
		Short: "Find the node and backend hosting a guest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vmid, err := vmidArg(args)
			if err != nil {
				return err
			}
			return handlers.Locate(cmd.Context(), configPath, vmid)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
