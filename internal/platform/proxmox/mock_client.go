package proxmox

import (
	"context"
	"time"
)

// MockClient is a func-field test double for ClusterManager. Each method
// delegates to the corresponding func when set and otherwise returns a
// benign default, so tests only wire the calls they care about.
type MockClient struct {
	AuthenticateFunc   func(ctx context.Context) (*Ticket, error)
	ListNodesFunc      func(ctx context.Context) ([]string, error)
	LocateFunc         func(ctx context.Context, vmid int) (*Instance, error)
	NetworkConfigFunc  func(ctx context.Context, vmid int) (*NetworkIdentity, error)
	CloneFunc          func(ctx context.Context, opts CloneOpts) (*CloneResult, error)
	AwaitTaskFunc      func(ctx context.Context, node, upid string, maxWait time.Duration) (*TaskStatus, error)
	StartInstanceFunc  func(ctx context.Context, vmid int) error
	StopInstanceFunc   func(ctx context.Context, vmid int) error
	DeleteInstanceFunc func(ctx context.Context, vmid int) error
	ListInstancesFunc  func(ctx context.Context) ([]InventoryEntry, error)
}

var _ ClusterManager = (*MockClient)(nil)

func (m *MockClient) Authenticate(ctx context.Context) (*Ticket, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx)
	}
	return &Ticket{Value: "mock-ticket", CSRF: "mock-csrf", Username: "mock@pam"}, nil
}

func (m *MockClient) ListNodes(ctx context.Context) ([]string, error) {
	if m.ListNodesFunc != nil {
		return m.ListNodesFunc(ctx)
	}
	return []string{"mock-node"}, nil
}

func (m *MockClient) Locate(ctx context.Context, vmid int) (*Instance, error) {
	if m.LocateFunc != nil {
		return m.LocateFunc(ctx, vmid)
	}
	return &Instance{VMID: vmid, Node: "mock-node", Type: GuestQEMU}, nil
}

func (m *MockClient) NetworkConfig(ctx context.Context, vmid int) (*NetworkIdentity, error) {
	if m.NetworkConfigFunc != nil {
		return m.NetworkConfigFunc(ctx, vmid)
	}
	return &NetworkIdentity{}, nil
}

func (m *MockClient) Clone(ctx context.Context, opts CloneOpts) (*CloneResult, error) {
	if m.CloneFunc != nil {
		return m.CloneFunc(ctx, opts)
	}
	return &CloneResult{TaskID: "mock-upid", VMID: 100, Resolved: true}, nil
}

func (m *MockClient) AwaitTask(ctx context.Context, node, upid string, maxWait time.Duration) (*TaskStatus, error) {
	if m.AwaitTaskFunc != nil {
		return m.AwaitTaskFunc(ctx, node, upid, maxWait)
	}
	return &TaskStatus{UPID: upid, Status: TaskStatusStopped, ExitStatus: TaskExitOK}, nil
}

func (m *MockClient) StartInstance(ctx context.Context, vmid int) error {
	if m.StartInstanceFunc != nil {
		return m.StartInstanceFunc(ctx, vmid)
	}
	return nil
}

func (m *MockClient) StopInstance(ctx context.Context, vmid int) error {
	if m.StopInstanceFunc != nil {
		return m.StopInstanceFunc(ctx, vmid)
	}
	return nil
}

func (m *MockClient) DeleteInstance(ctx context.Context, vmid int) error {
	if m.DeleteInstanceFunc != nil {
		return m.DeleteInstanceFunc(ctx, vmid)
	}
	return nil
}

func (m *MockClient) ListInstances(ctx context.Context) ([]InventoryEntry, error) {
	if m.ListInstancesFunc != nil {
		return m.ListInstancesFunc(ctx)
	}
	return nil, nil
}
