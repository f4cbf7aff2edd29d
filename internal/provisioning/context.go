// Package provisioning orchestrates game-server operations against the
// cluster, recording every attempt in the audit trail.
//
// The split of responsibilities mirrors the narrow contract between the
// orchestrator and its collaborators: the platform client talks to the
// cluster and never touches the audit store; this package owns the audit
// entry lifecycle (pending -> completed/failed) around every operation.
// Authorization is checked by the caller before invoking anything here.
package provisioning

import (
	"context"

	"github.com/craftctl/craftctl/internal/audit"
	"github.com/craftctl/craftctl/internal/config"
	"github.com/craftctl/craftctl/internal/platform/proxmox"
)

// Context wraps all dependencies needed by provisioning operations.
type Context struct {
	context.Context
	Config   *config.Config
	Cluster  proxmox.ClusterManager
	Audit    audit.Recorder
	Observer Observer
	Timeouts *config.Timeouts
}

// NewContext creates a provisioning context with the given dependencies.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	cluster proxmox.ClusterManager,
	recorder audit.Recorder,
	observer Observer,
) *Context {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Context{
		Context:  ctx,
		Config:   cfg,
		Cluster:  cluster,
		Audit:    recorder,
		Observer: observer,
		Timeouts: config.LoadTimeouts(),
	}
}
