package provisioning

import (
	"context"
	"fmt"
	"time"

	"github.com/craftctl/craftctl/internal/audit"
	"github.com/craftctl/craftctl/internal/metrics"
	"github.com/craftctl/craftctl/internal/platform/proxmox"
)

// CloneRequest describes one game-server clone attempt.
type CloneRequest struct {
	Actor    string
	SourceID int
	Name     string
	TargetID int // zero lets the cluster assign one
	MaxWait  time.Duration
}

// CloneOutcome is the settled result of a clone attempt.
type CloneOutcome struct {
	AuditID string
	Result  *proxmox.CloneResult
}

// Provisioner runs provisioning operations with auditing and metrics.
type Provisioner struct{}

// NewProvisioner creates a new provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Clone clones a source guest into a new game server. The audit entry is
// created as pending before submission and settled from the result; on the
// soft path (task succeeded, identity unmatched) the entry completes with a
// null target id and the observer carries the warning.
func (p *Provisioner) Clone(ctx *Context, req CloneRequest) (*CloneOutcome, error) {
	entry, err := ctx.Audit.Begin(ctx, audit.Entry{
		Actor:      req.Actor,
		Action:     audit.ActionClone,
		SourceID:   req.SourceID,
		TargetName: req.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("record clone attempt: %w", err)
	}

	ctx.Observer.Event(Event{
		Type:     EventOperationStarted,
		Action:   string(audit.ActionClone),
		Instance: req.SourceID,
		Message:  fmt.Sprintf("cloning instance %d into %q", req.SourceID, req.Name),
	})

	started := time.Now()
	result, err := ctx.Cluster.Clone(ctx, proxmox.CloneOpts{
		SourceID: req.SourceID,
		Name:     req.Name,
		TargetID: req.TargetID,
		MaxWait:  req.MaxWait,
	})
	if err != nil {
		p.failed(ctx, entry.ID, audit.ActionClone, req.SourceID, err)
		metrics.Clones.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, err
	}
	if req.TargetID == 0 {
		// with an explicit target no task is awaited, so there is no task
		// duration to record
		metrics.TaskDuration.Observe(time.Since(started).Seconds())
	}

	var targetID *int
	outcome := metrics.OutcomeCompleted
	if result.Resolved {
		targetID = &result.VMID
	} else {
		outcome = metrics.OutcomeUnresolved
		ctx.Observer.Event(Event{
			Type:    EventIdentityUnresolved,
			Action:  string(audit.ActionClone),
			Message: fmt.Sprintf("clone of %q succeeded but its new identifier could not be determined automatically - refresh the list", req.Name),
			Fields:  map[string]string{"task": result.TaskID},
		})
	}
	metrics.Clones.WithLabelValues(outcome).Inc()

	if err := ctx.Audit.Complete(ctx, entry.ID, targetID, result.TaskID); err != nil {
		return nil, fmt.Errorf("settle audit entry: %w", err)
	}

	ctx.Observer.Event(Event{
		Type:     EventOperationCompleted,
		Action:   string(audit.ActionClone),
		Instance: result.VMID,
		Message:  fmt.Sprintf("clone task %s settled", result.TaskID),
	})
	return &CloneOutcome{AuditID: entry.ID, Result: result}, nil
}

// Start starts a game server, with auditing.
func (p *Provisioner) Start(ctx *Context, actor string, vmid int) error {
	return p.lifecycle(ctx, actor, audit.ActionStart, vmid, ctx.Cluster.StartInstance)
}

// Stop stops a game server, with auditing.
func (p *Provisioner) Stop(ctx *Context, actor string, vmid int) error {
	return p.lifecycle(ctx, actor, audit.ActionStop, vmid, ctx.Cluster.StopInstance)
}

// Delete removes a game server, with auditing. Irreversible; the caller's
// permission gate must have approved this already.
func (p *Provisioner) Delete(ctx *Context, actor string, vmid int) error {
	return p.lifecycle(ctx, actor, audit.ActionDelete, vmid, ctx.Cluster.DeleteInstance)
}

type lifecycleFunc func(ctx context.Context, vmid int) error

func (p *Provisioner) lifecycle(ctx *Context, actor string, action audit.Action, vmid int, op lifecycleFunc) error {
	entry, err := ctx.Audit.Begin(ctx, audit.Entry{
		Actor:    actor,
		Action:   action,
		SourceID: vmid,
	})
	if err != nil {
		return fmt.Errorf("record %s attempt: %w", action, err)
	}

	ctx.Observer.Event(Event{
		Type:     EventOperationStarted,
		Action:   string(action),
		Instance: vmid,
		Message:  fmt.Sprintf("%s instance %d", action, vmid),
	})

	if err := op(ctx, vmid); err != nil {
		p.failed(ctx, entry.ID, action, vmid, err)
		metrics.LifecycleOps.WithLabelValues(string(action), metrics.OutcomeFailed).Inc()
		return err
	}
	metrics.LifecycleOps.WithLabelValues(string(action), metrics.OutcomeCompleted).Inc()

	if err := ctx.Audit.Complete(ctx, entry.ID, &vmid, ""); err != nil {
		return fmt.Errorf("settle audit entry: %w", err)
	}
	ctx.Observer.Event(Event{
		Type:     EventOperationCompleted,
		Action:   string(action),
		Instance: vmid,
		Message:  fmt.Sprintf("%s of instance %d submitted", action, vmid),
	})
	return nil
}

// failed settles the audit entry with the upstream error preserved
// verbatim and emits the failure event. The original error still propagates
// to the caller unmodified.
func (p *Provisioner) failed(ctx *Context, entryID string, action audit.Action, vmid int, opErr error) {
	if err := ctx.Audit.Fail(ctx, entryID, opErr.Error()); err != nil {
		ctx.Observer.Event(Event{
			Type:    EventOperationFailed,
			Action:  string(action),
			Message: fmt.Sprintf("audit entry %s could not be settled: %v", entryID, err),
		})
	}
	ctx.Observer.Event(Event{
		Type:     EventOperationFailed,
		Action:   string(action),
		Instance: vmid,
		Message:  opErr.Error(),
	})
}
