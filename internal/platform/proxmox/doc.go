// Package proxmox provides a wrapper around the Proxmox VE HTTP API.
//
// The package exposes small, focused interfaces (SessionManager,
// TopologyResolver, GuestConfigReader, CloneManager, TaskWaiter,
// LifecycleManager) that are combined into ClusterManager. RealClient
// implements ClusterManager over net/http; MockClient provides a func-field
// test double for callers.
//
// Design constraints carried by this package:
//
//   - Authentication tickets are cached in-memory in a single slot and
//     invalidated on any 401-class response. Concurrent operations may race
//     to re-authenticate; that is safe (each refresh installs an equivalent
//     ticket) and merely wasteful, so the slot is mutex-guarded but the
//     refresh round-trip is not serialized.
//   - Instance topology is never cached. Guests migrate between nodes, so
//     Locate performs a fresh node scan on every call.
//   - Clones are always full clones. A linked clone keeps a live dependency
//     on the source disk, which would make deleting the source unsafe.
//   - When the caller omits the target VMID the API picks one and does not
//     return it synchronously. The only recovery is to wait for the clone
//     task and re-list the cluster inventory, matching the new guest by
//     name. A failed match is reported as an unresolved result, not an
//     error: the clone itself already succeeded.
//   - No operation retries automatically. Blindly resubmitting a clone can
//     create duplicate guests; retry policy belongs to the caller.
//
// TLS verification toward the cluster is configurable because self-signed
// certificates are the norm in private Proxmox deployments. Verification is
// on by default.
package proxmox
