package proxmox

import (
	"context"
	"errors"
	"fmt"
)

// ListNodes returns the names of all cluster nodes.
func (c *RealClient) ListNodes(ctx context.Context) ([]string, error) {
	var nodes []struct {
		Node string `json:"node"`
	}
	if err := c.get(ctx, "/nodes", &nodes); err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	names := make([]string, 0, len(nodes))
	for _, n := range nodes {
		names = append(names, n.Node)
	}
	return names, nil
}

// Locate scans all nodes for the given VMID, probing the qemu collection
// then the lxc collection on each node, and returns the first match. The
// cluster guarantees VMID uniqueness across backends, so first match is
// trusted without verifying the rest of the scan.
//
// The result is a point-in-time fact and must not be cached by callers:
// guests migrate between nodes.
func (c *RealClient) Locate(ctx context.Context, vmid int) (*Instance, error) {
	nodes, err := c.ListNodes(ctx)
	if err != nil {
		return nil, err
	}

	for _, node := range nodes {
		for _, gt := range []GuestType{GuestQEMU, GuestLXC} {
			found, err := c.guestExists(ctx, node, gt, vmid)
			if err != nil {
				return nil, err
			}
			if found {
				return &Instance{VMID: vmid, Node: node, Type: gt}, nil
			}
		}
	}
	return nil, &NotFoundError{VMID: vmid}
}

// guestExists probes a single node/backend combination for the VMID.
// An API-level rejection (the node does not own the VMID under that
// backend) counts as a miss; auth and transport failures propagate.
func (c *RealClient) guestExists(ctx context.Context, node string, gt GuestType, vmid int) (bool, error) {
	path := fmt.Sprintf("/nodes/%s/%s/%d/status/current", node, gt, vmid)
	var status struct {
		Status string `json:"status"`
	}
	err := c.get(ctx, path, &status)
	if err == nil {
		return true, nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false, nil
	}
	return false, err
}

// ListInstances returns every guest in the cluster inventory.
func (c *RealClient) ListInstances(ctx context.Context) ([]InventoryEntry, error) {
	var entries []InventoryEntry
	if err := c.get(ctx, "/cluster/resources?type=vm", &entries); err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	return entries, nil
}
