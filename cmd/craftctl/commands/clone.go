package commands

import (
	"github.com/spf13/cobra"

	"github.com/craftctl/craftctl/cmd/craftctl/handlers"
)

// Clone returns the clone command.
//
// The clone command full-clones a template guest into a new game server.
// When no target id is given the cluster assigns one and craftctl recovers
// it from the inventory after the clone task settles.
func Clone() *cobra.Command {
	var opts handlers.CloneOptions

	cmd := &cobra.Command{
		Use:   "clone NAME",
		Short: "Clone a template into a new game server",
		Long: `Clone creates a new game server as a full clone of a template guest.

The source template is taken from --source, falling back to the
defaults.template_id entry of the configuration file. The command waits
for the clone task to finish and reports the new server's identifier.

When --target-id is omitted the cluster picks the next free identifier;
craftctl then looks the new guest up by name. If the name cannot be
matched (for example because another guest already carries it) the clone
still succeeds and the identifier must be read from 'craftctl list'.

Example:
  craftctl clone mc-3 -c craftctl.yaml --reserve-ip 192.168.1.53`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Name = args[0]
			return handlers.Clone(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (required)")
	cmd.Flags().IntVar(&opts.SourceID, "source", 0, "Template VMID to clone (defaults to defaults.template_id)")
	cmd.Flags().IntVar(&opts.TargetID, "target-id", 0, "VMID for the new server (0 lets the cluster assign one)")
	cmd.Flags().DurationVar(&opts.Wait, "wait", 0, "Maximum time to wait for the clone task (0 uses the default)")
	cmd.Flags().StringVar(&opts.ReserveIP, "reserve-ip", "", "Push a DHCP reservation for this address to the router")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
