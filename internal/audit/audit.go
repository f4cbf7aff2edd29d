// Package audit records provisioning and destructive actions.
//
// The orchestrator itself never writes here: it supplies the data (task id,
// resolved VMID, error detail) and the caller owns the entry lifecycle,
// creating it as pending before the operation and settling it to completed
// or failed afterwards.
package audit

import (
	"context"
	"time"
)

// Status is the lifecycle state of an audit entry.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Action identifies the recorded operation.
type Action string

const (
	ActionClone  Action = "clone"
	ActionStart  Action = "start"
	ActionStop   Action = "stop"
	ActionDelete Action = "delete"
)

// Entry is one recorded provisioning attempt.
type Entry struct {
	ID         string
	Actor      string
	Action     Action
	SourceID   int
	TargetID   *int // nil until identity is resolved; stays nil on the soft path
	TargetName string
	TaskID     string
	Status     Status
	Detail     string // upstream error message on failure
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Recorder persists audit entries.
type Recorder interface {
	// Begin stores a new pending entry and returns it with ID and
	// timestamps assigned.
	Begin(ctx context.Context, e Entry) (*Entry, error)
	// Complete settles an entry as completed, recording the resolved
	// target (nil when identity resolution failed softly) and task id.
	Complete(ctx context.Context, id string, targetID *int, taskID string) error
	// Fail settles an entry as failed with the upstream error detail.
	Fail(ctx context.Context, id, detail string) error
	// List returns the most recent entries, newest first.
	List(ctx context.Context, limit int) ([]Entry, error)
}
