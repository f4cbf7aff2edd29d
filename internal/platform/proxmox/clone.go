package proxmox

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// Clone submits a full clone of the source guest and resolves the new
// guest's VMID.
//
// With an explicit TargetID the resolved VMID is simply that value and no
// inventory scan happens; the caller may still AwaitTask before treating
// the clone as usable.
//
// With TargetID zero the cluster assigns the VMID and does not report it
// synchronously, so Clone waits for the task, then lists the inventory
// exactly once and matches the new guest by name. When no guest carries the
// requested name (inventory lag), or more than one does (a pre-existing
// guest with the same name), the clone has still succeeded: the result
// comes back with Resolved false rather than an error or a guess, and the
// caller surfaces it as a warning.
func (c *RealClient) Clone(ctx context.Context, opts CloneOpts) (*CloneResult, error) {
	if _, err := c.Authenticate(ctx); err != nil {
		return nil, err
	}

	source, err := c.Locate(ctx, opts.SourceID)
	if err != nil {
		return nil, err
	}

	upid, err := c.submitClone(ctx, source, opts)
	if err != nil {
		return nil, err
	}

	if opts.TargetID != 0 {
		return &CloneResult{TaskID: upid, VMID: opts.TargetID, Resolved: true}, nil
	}

	if _, err := c.AwaitTask(ctx, source.Node, upid, opts.MaxWait); err != nil {
		return nil, err
	}

	vmid, err := c.findByName(ctx, opts.Name)
	if err != nil {
		return nil, err
	}
	if vmid == 0 {
		return &CloneResult{TaskID: upid, Resolved: false}, nil
	}
	return &CloneResult{TaskID: upid, VMID: vmid, Resolved: true}, nil
}

// submitClone issues the clone request and returns the task UPID.
// The clone is always full: linked clones keep a live dependency on the
// source disk, which would make deleting the source unsafe.
func (c *RealClient) submitClone(ctx context.Context, source *Instance, opts CloneOpts) (string, error) {
	form := url.Values{}
	form.Set("name", opts.Name)
	form.Set("full", "1")
	if opts.TargetID != 0 {
		form.Set("newid", strconv.Itoa(opts.TargetID))
	}
	if source.Type == GuestLXC {
		// lxc names the clone via "hostname" and has no "name" field
		form.Del("name")
		form.Set("hostname", opts.Name)
	}

	var upid string
	if err := c.post(ctx, guestPath(source, "clone"), form, &upid); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return "", &CloneError{SourceID: opts.SourceID, Message: apiErr.Message}
		}
		return "", err
	}
	if upid == "" {
		return "", &CloneError{SourceID: opts.SourceID, Message: "no task id in clone response"}
	}
	return upid, nil
}

// findByName scans the cluster inventory for the guest with the given
// name. Returns zero when no guest matches, and also when more than one
// does: with duplicates there is no way to tell the fresh clone from a
// pre-existing guest, and resolving to the wrong VMID would misdirect
// every follow-up action (reservations, deletes). Name matching is the
// only recovery for auto-assigned VMIDs; the cluster offers no atomic
// clone-and-return-id primitive.
func (c *RealClient) findByName(ctx context.Context, name string) (int, error) {
	entries, err := c.ListInstances(ctx)
	if err != nil {
		return 0, fmt.Errorf("resolve clone identity: %w", err)
	}
	vmid := 0
	matches := 0
	for _, entry := range entries {
		if entry.Name == name {
			vmid = entry.VMID
			matches++
		}
	}
	if matches != 1 {
		return 0, nil
	}
	return vmid, nil
}
