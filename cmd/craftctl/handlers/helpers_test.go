package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/craftctl/craftctl/internal/audit"
	"github.com/craftctl/craftctl/internal/config"
	"github.com/craftctl/craftctl/internal/platform/proxmox"
)

// memStore is an in-memory auditStore for handler tests.
type memStore struct {
	entries []audit.Entry
	closed  bool
}

func (m *memStore) Begin(_ context.Context, e audit.Entry) (*audit.Entry, error) {
	e.ID = fmt.Sprintf("entry-%d", len(m.entries)+1)
	e.Status = audit.StatusPending
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	m.entries = append(m.entries, e)
	return &e, nil
}

func (m *memStore) Complete(_ context.Context, id string, targetID *int, taskID string) error {
	return m.settle(id, audit.StatusCompleted, targetID, taskID, "")
}

func (m *memStore) Fail(_ context.Context, id, detail string) error {
	return m.settle(id, audit.StatusFailed, nil, "", detail)
}

func (m *memStore) settle(id string, status audit.Status, targetID *int, taskID, detail string) error {
	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries[i].Status = status
			if targetID != nil {
				m.entries[i].TargetID = targetID
			}
			if taskID != "" {
				m.entries[i].TaskID = taskID
			}
			if detail != "" {
				m.entries[i].Detail = detail
			}
			return nil
		}
	}
	return fmt.Errorf("audit entry %s not found", id)
}

func (m *memStore) List(_ context.Context, limit int) ([]audit.Entry, error) {
	out := make([]audit.Entry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *memStore) Close() error {
	m.closed = true
	return nil
}

// testConfig is the configuration handed out by the swapped loader.
func testConfig() *config.Config {
	return &config.Config{
		Cluster: config.Cluster{
			Host:     "pve.example.com:8006",
			Username: "root",
			Realm:    "pam",
			Password: "secret",
		},
		Audit:    config.Audit{Path: "unused.db"},
		Defaults: config.Defaults{TemplateID: 100},
	}
}

// swapFactories replaces the package factory variables for one test and
// restores them on cleanup. It returns the captured stdout buffer and the
// audit store the handler will use.
func swapFactories(t *testing.T, cfg *config.Config, cluster proxmox.ClusterManager) (*bytes.Buffer, *memStore) {
	t.Helper()

	origLoad := loadConfigFile
	origCluster := newClusterClient
	origStore := openAuditStore
	origStdout := stdout
	t.Cleanup(func() {
		loadConfigFile = origLoad
		newClusterClient = origCluster
		openAuditStore = origStore
		stdout = origStdout
	})

	store := &memStore{}
	var out bytes.Buffer

	loadConfigFile = func(_ string) (*config.Config, error) { return cfg, nil }
	newClusterClient = func(_ *config.Config, _ *config.Timeouts) proxmox.ClusterManager { return cluster }
	openAuditStore = func(_ context.Context, _ string) (auditStore, error) { return store, nil }
	stdout = io.Writer(&out)

	return &out, store
}
