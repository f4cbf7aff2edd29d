package handlers

import (
	"context"
	"fmt"

	"github.com/craftctl/craftctl/internal/provisioning"
)

// Start handles the start command.
func Start(ctx context.Context, configPath string, vmid int) error {
	env, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	defer env.close()

	if err := provisioning.NewProvisioner().Start(env.provisioningContext(ctx), actor(), vmid); err != nil {
		return fmt.Errorf("start failed: %w", err)
	}
	fmt.Fprintln(stdout, env.printer.OK("start requested for guest %d", vmid))
	return nil
}

// Stop handles the stop command.
func Stop(ctx context.Context, configPath string, vmid int) error {
	env, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	defer env.close()

	if err := provisioning.NewProvisioner().Stop(env.provisioningContext(ctx), actor(), vmid); err != nil {
		return fmt.Errorf("stop failed: %w", err)
	}
	fmt.Fprintln(stdout, env.printer.OK("stop requested for guest %d", vmid))
	return nil
}

// Delete handles the delete command. Deletion is irreversible, so the
// handler refuses to run unless the caller confirmed with --force.
func Delete(ctx context.Context, configPath string, vmid int, force bool) error {
	if !force {
		return fmt.Errorf("refusing to delete guest %d without --force", vmid)
	}

	env, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	defer env.close()

	if err := provisioning.NewProvisioner().Delete(env.provisioningContext(ctx), actor(), vmid); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	fmt.Fprintln(stdout, env.printer.OK("deleted guest %d", vmid))
	return nil
}
