package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftctl/craftctl/internal/audit"
	"github.com/craftctl/craftctl/internal/platform/proxmox"
)

func TestStart(t *testing.T) {
	var started int
	cluster := &proxmox.MockClient{
		StartInstanceFunc: func(_ context.Context, vmid int) error {
			started = vmid
			return nil
		},
	}
	out, store := swapFactories(t, testConfig(), cluster)

	require.NoError(t, Start(context.Background(), "craftctl.yaml", 103))
	assert.Equal(t, 103, started)
	assert.Contains(t, out.String(), "start requested")
	require.Len(t, store.entries, 1)
	assert.Equal(t, audit.ActionStart, store.entries[0].Action)
	assert.Equal(t, audit.StatusCompleted, store.entries[0].Status)
}

func TestStop(t *testing.T) {
	var stopped int
	cluster := &proxmox.MockClient{
		StopInstanceFunc: func(_ context.Context, vmid int) error {
			stopped = vmid
			return nil
		},
	}
	_, store := swapFactories(t, testConfig(), cluster)

	require.NoError(t, Stop(context.Background(), "craftctl.yaml", 103))
	assert.Equal(t, 103, stopped)
	require.Len(t, store.entries, 1)
	assert.Equal(t, audit.ActionStop, store.entries[0].Action)
}

func TestStart_UnknownGuest(t *testing.T) {
	cluster := &proxmox.MockClient{
		StartInstanceFunc: func(_ context.Context, vmid int) error {
			return &proxmox.NotFoundError{VMID: vmid}
		},
	}
	_, store := swapFactories(t, testConfig(), cluster)

	err := Start(context.Background(), "craftctl.yaml", 999)
	require.Error(t, err)
	assert.True(t, proxmox.IsNotFound(err))
	require.Len(t, store.entries, 1)
	assert.Equal(t, audit.StatusFailed, store.entries[0].Status)
}

func TestDelete_RequiresForce(t *testing.T) {
	t.Parallel()

	err := Delete(context.Background(), "craftctl.yaml", 103, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
}

func TestDelete_Forced(t *testing.T) {
	var deleted int
	cluster := &proxmox.MockClient{
		DeleteInstanceFunc: func(_ context.Context, vmid int) error {
			deleted = vmid
			return nil
		},
	}
	out, store := swapFactories(t, testConfig(), cluster)

	require.NoError(t, Delete(context.Background(), "craftctl.yaml", 103, true))
	assert.Equal(t, 103, deleted)
	assert.Contains(t, out.String(), "deleted guest 103")
	require.Len(t, store.entries, 1)
	assert.Equal(t, audit.ActionDelete, store.entries[0].Action)
}
