// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated
// to handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the craftctl CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "craftctl",
		Short: "Provision game servers on a Proxmox VE cluster",
	}

	cmd.AddCommand(Clone())
	cmd.AddCommand(Start())
	cmd.AddCommand(Stop())
	cmd.AddCommand(Delete())
	cmd.AddCommand(Locate())
	cmd.AddCommand(NetInfo())
	cmd.AddCommand(List())
	cmd.AddCommand(Audit())
	cmd.AddCommand(Version())

	return cmd
}
