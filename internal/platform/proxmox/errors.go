package proxmox

import (
	"errors"
	"fmt"
	"time"
)

// AuthError indicates the cluster rejected our credentials.
// It is fatal for the current operation: a wrong password does not become
// right by retrying immediately.
type AuthError struct {
	Status  int    // upstream HTTP status
	Message string // upstream message, preserved verbatim
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication failed (status %d)", e.Status)
	}
	return fmt.Sprintf("authentication failed (status %d): %s", e.Status, e.Message)
}

// NotFoundError indicates no node/backend combination owns the VMID.
type NotFoundError struct {
	VMID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("instance %d not found on any node", e.VMID)
}

// CloneError indicates the cluster rejected a clone submission, for example
// because the source is locked or storage is insufficient.
type CloneError struct {
	SourceID int
	Message  string // upstream message, preserved verbatim
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("clone of instance %d rejected: %s", e.SourceID, e.Message)
}

// TaskError indicates an asynchronous task reached a terminal state with a
// non-OK exit qualifier: the operation itself failed server-side.
type TaskError struct {
	UPID       string
	ExitStatus string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s failed: %s", e.UPID, e.ExitStatus)
}

// TaskTimeoutError indicates the bounded wait elapsed while the task was
// still running. The final outcome is unknown: the task may yet complete on
// the cluster side. Callers must not treat this as a failure.
type TaskTimeoutError struct {
	UPID    string
	MaxWait time.Duration
}

func (e *TaskTimeoutError) Error() string {
	return fmt.Sprintf("task %s still running after %s", e.UPID, e.MaxWait)
}

// APIError is any other non-2xx response from the cluster API.
type APIError struct {
	Status  int
	Path    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d on %s: %s", e.Status, e.Path, e.Message)
}

// IsAuthFailure checks if an error is an authentication failure.
func IsAuthFailure(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsNotFound checks if an error indicates an unknown instance.
func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

// IsTaskFailure checks if an error indicates a server-side task failure.
func IsTaskFailure(err error) bool {
	var taskErr *TaskError
	return errors.As(err, &taskErr)
}

// IsTaskTimeout checks if an error indicates an expired task wait.
// Distinct from IsTaskFailure: a timed-out task may still complete later.
func IsTaskTimeout(err error) bool {
	var toErr *TaskTimeoutError
	return errors.As(err, &toErr)
}
