package commands

import (
	"github.com/spf13/cobra"

	"github.com/craftctl/craftctl/cmd/craftctl/handlers"
)

// Audit returns the audit command.
func Audit() *cobra.Command {
	var (
		configPath string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent provisioning operations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Audit(cmd.Context(), configPath, limit)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (required)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
