package commands

import (
	"github.com/spf13/cobra"

	"github.com/craftctl/craftctl/cmd/craftctl/handlers"
)

// Delete returns the delete command.
//
// The delete command removes a guest from the cluster. The guest and its
// disks are gone afterwards, so the command refuses to run without --force.
func Delete() *cobra.Command {
	var (
		configPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "delete VMID",
		Short: "Delete a game server and its disks",
		Long: `Delete removes a guest from the cluster.

WARNING: This operation is irreversible. The guest configuration and all
attached disks are destroyed. Stop the guest first; the cluster rejects
deleting a running guest.

Example:
  craftctl delete 103 -c craftctl.yaml --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vmid, err := vmidArg(args)
			if err != nil {
				return err
			}
			return handlers.Delete(cmd.Context(), configPath, vmid, force)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (required)")
	cmd.Flags().BoolVar(&force, "force", false, "Confirm the irreversible deletion")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
