package proxmox

import (
	"context"
	"fmt"
)

// StartInstance starts a guest. Fire-and-forget: the start task is not
// polled; callers that need the running state poll status separately.
func (c *RealClient) StartInstance(ctx context.Context, vmid int) error {
	inst, err := c.Locate(ctx, vmid)
	if err != nil {
		return err
	}
	if err := c.post(ctx, guestPath(inst, "status/start"), nil, nil); err != nil {
		return fmt.Errorf("start instance %d: %w", vmid, err)
	}
	return nil
}

// StopInstance stops a guest. Fire-and-forget, like StartInstance.
func (c *RealClient) StopInstance(ctx context.Context, vmid int) error {
	inst, err := c.Locate(ctx, vmid)
	if err != nil {
		return err
	}
	if err := c.post(ctx, guestPath(inst, "status/stop"), nil, nil); err != nil {
		return fmt.Errorf("stop instance %d: %w", vmid, err)
	}
	return nil
}

// DeleteInstance removes a guest and its disks. Irreversible. This client
// performs no authorization check of its own: it is a mechanism, and the
// caller's permission gate is the policy.
func (c *RealClient) DeleteInstance(ctx context.Context, vmid int) error {
	inst, err := c.Locate(ctx, vmid)
	if err != nil {
		return err
	}
	if err := c.delete(ctx, guestPath(inst, "")); err != nil {
		return fmt.Errorf("delete instance %d: %w", vmid, err)
	}
	return nil
}
