package proxmox

import (
	"context"
	"time"
)

// GuestType identifies the virtualization backend of a guest.
type GuestType string

const (
	// GuestQEMU is a full virtual machine.
	GuestQEMU GuestType = "qemu"
	// GuestLXC is a lightweight container.
	GuestLXC GuestType = "lxc"
)

// Instance describes where a guest currently lives in the cluster.
// It is a point-in-time fact: guests migrate, so descriptors must not be
// cached beyond the operation that produced them.
type Instance struct {
	VMID int
	Node string
	Type GuestType
}

// Ticket is a short-lived API credential obtained from /access/ticket.
type Ticket struct {
	Value    string
	CSRF     string
	Username string
}

// NetworkInterface is one virtual NIC extracted from a guest's config.
type NetworkInterface struct {
	Slot int    // net0..net9 slot index
	MAC  string // uppercase hardware address
	Raw  string // raw config value the MAC was extracted from
}

// NetworkIdentity holds the network identity of a guest.
// PrimaryMAC is the first discovered interface's address, or empty when the
// guest has no recognizable interfaces (which is not an error).
type NetworkIdentity struct {
	Interfaces []NetworkInterface
	PrimaryMAC string
}

// CloneOpts holds all parameters for cloning a guest.
type CloneOpts struct {
	// SourceID is the VMID of the guest to clone.
	SourceID int
	// Name is the name assigned to the new guest. When TargetID is zero it
	// is also the key used to recover the auto-assigned VMID afterwards.
	Name string
	// TargetID is the requested VMID for the new guest. Zero lets the
	// cluster pick one.
	TargetID int
	// MaxWait bounds the task wait during identity recovery. Zero means the
	// configured default.
	MaxWait time.Duration
}

// CloneResult is the outcome of a clone operation.
type CloneResult struct {
	// TaskID is the UPID of the clone task.
	TaskID string
	// VMID is the identifier of the new guest. Only meaningful when
	// Resolved is true.
	VMID int
	// Resolved reports whether the new guest's VMID is known. It is false
	// only on the soft path where the clone task succeeded but the
	// inventory re-scan could not match the guest by name.
	Resolved bool
}

// TaskStatus is the state of an asynchronous cluster task.
type TaskStatus struct {
	UPID       string
	Status     string // "running" or "stopped"
	ExitStatus string // set once stopped; "OK" on success
}

// Finished reports whether the task has reached a terminal state.
func (s TaskStatus) Finished() bool { return s.Status == TaskStatusStopped }

// OK reports whether the task finished successfully.
func (s TaskStatus) OK() bool { return s.Finished() && s.ExitStatus == TaskExitOK }

const (
	// TaskStatusRunning is the non-terminal task state.
	TaskStatusRunning = "running"
	// TaskStatusStopped is the terminal task state.
	TaskStatusStopped = "stopped"
	// TaskExitOK is the exit qualifier of a successful task.
	TaskExitOK = "OK"
)

// SessionManager obtains and caches API credentials.
type SessionManager interface {
	// Authenticate returns a valid ticket, reusing the cached one when
	// present. Safe to call before every sensitive operation.
	Authenticate(ctx context.Context) (*Ticket, error)
}

// TopologyResolver discovers which node and backend own a guest.
type TopologyResolver interface {
	// ListNodes returns the names of all cluster nodes.
	ListNodes(ctx context.Context) ([]string, error)
	// Locate scans all nodes for the given VMID, probing qemu then lxc on
	// each, and returns the first match. Returns *NotFoundError when no
	// node owns the VMID.
	Locate(ctx context.Context, vmid int) (*Instance, error)
}

// GuestConfigReader extracts network identity from guest configuration.
type GuestConfigReader interface {
	// NetworkConfig returns the MAC addresses of the guest's virtual NICs.
	// Only slots net0 through net9 are inspected; see package docs.
	NetworkConfig(ctx context.Context, vmid int) (*NetworkIdentity, error)
}

// CloneManager creates new guests from existing ones.
type CloneManager interface {
	// Clone submits a full clone of the source guest and resolves the new
	// guest's VMID. See CloneResult for the unresolved soft path.
	Clone(ctx context.Context, opts CloneOpts) (*CloneResult, error)
}

// TaskWaiter tracks asynchronous tasks to completion.
type TaskWaiter interface {
	// AwaitTask polls the task at a fixed interval until it stops or
	// maxWait elapses. Returns *TaskError when the task stops with a
	// non-OK exit status and *TaskTimeoutError when maxWait elapses while
	// the task is still running. Cancelling ctx stops the wait without
	// affecting the task itself.
	AwaitTask(ctx context.Context, node, upid string, maxWait time.Duration) (*TaskStatus, error)
}

// LifecycleManager starts, stops and deletes guests.
// All three are fire-and-forget: the call is issued and not polled.
// Authorization is entirely the caller's concern.
type LifecycleManager interface {
	StartInstance(ctx context.Context, vmid int) error
	StopInstance(ctx context.Context, vmid int) error
	// DeleteInstance is irreversible.
	DeleteInstance(ctx context.Context, vmid int) error
}

// InventoryLister lists all guests known to the cluster.
type InventoryLister interface {
	// ListInstances returns every guest in the cluster inventory.
	ListInstances(ctx context.Context) ([]InventoryEntry, error)
}

// InventoryEntry is one row of the cluster-wide guest inventory.
type InventoryEntry struct {
	VMID int       `json:"vmid"`
	Name string    `json:"name"`
	Node string    `json:"node"`
	Type GuestType `json:"type"`
}

// ClusterManager combines all cluster-facing interfaces.
type ClusterManager interface {
	SessionManager
	TopologyResolver
	GuestConfigReader
	CloneManager
	TaskWaiter
	LifecycleManager
	InventoryLister
}
