package proxmox

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	authErr := &AuthError{Status: 401, Message: "authentication failure"}
	nfErr := &NotFoundError{VMID: 42}
	taskErr := &TaskError{UPID: "UPID:x", ExitStatus: "boom"}
	toErr := &TaskTimeoutError{UPID: "UPID:x", MaxWait: time.Minute}

	assert.True(t, IsAuthFailure(authErr))
	assert.True(t, IsNotFound(nfErr))
	assert.True(t, IsTaskFailure(taskErr))
	assert.True(t, IsTaskTimeout(toErr))

	// predicates are mutually exclusive
	assert.False(t, IsAuthFailure(nfErr))
	assert.False(t, IsNotFound(authErr))
	assert.False(t, IsTaskFailure(toErr))
	assert.False(t, IsTaskTimeout(taskErr))

	// predicates see through wrapping
	wrapped := fmt.Errorf("clone: %w", nfErr)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestErrorMessages_PreserveUpstreamDetail(t *testing.T) {
	t.Parallel()

	authErr := &AuthError{Status: 401, Message: "invalid user or password"}
	assert.Contains(t, authErr.Error(), "invalid user or password")
	assert.Contains(t, authErr.Error(), "401")

	cloneErr := &CloneError{SourceID: 100, Message: "source is locked"}
	assert.Contains(t, cloneErr.Error(), "100")
	assert.Contains(t, cloneErr.Error(), "source is locked")

	taskErr := &TaskError{UPID: "UPID:alpha:1", ExitStatus: "no space left"}
	assert.Contains(t, taskErr.Error(), "no space left")

	toErr := &TaskTimeoutError{UPID: "UPID:alpha:1", MaxWait: 2 * time.Minute}
	assert.Contains(t, toErr.Error(), "still running")
	assert.Contains(t, toErr.Error(), "2m0s")
}
