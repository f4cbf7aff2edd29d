// Package handlers implements the execution logic behind the CLI commands.
//
// Handlers load configuration, build the platform client and the audit
// store, and delegate to the provisioning orchestrator. Collaborators are
// created through package-level factory variables so tests can substitute
// mocks without touching a real cluster.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/craftctl/craftctl/internal/audit"
	"github.com/craftctl/craftctl/internal/config"
	"github.com/craftctl/craftctl/internal/platform/proxmox"
	"github.com/craftctl/craftctl/internal/provisioning"
	"github.com/craftctl/craftctl/internal/ui"
)

// auditStore is the audit recorder plus its lifecycle.
type auditStore interface {
	audit.Recorder
	Close() error
}

// Factory function variables - can be replaced in tests.
var (
	loadConfigFile = config.LoadFile

	newClusterClient = func(cfg *config.Config, timeouts *config.Timeouts) proxmox.ClusterManager {
		return proxmox.NewClientFromConfig(cfg.Cluster, proxmox.WithTimeouts(timeouts))
	}

	openAuditStore = func(ctx context.Context, path string) (auditStore, error) {
		return audit.OpenSQLite(ctx, path)
	}

	stdout io.Writer = os.Stdout
)

// newLogger builds the CLI logger. Interactive sessions get the console
// writer; everything else gets JSON lines on stderr.
func newLogger() zerolog.Logger {
	var w io.Writer = os.Stderr
	if ui.IsTerminal() {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// actor names the operator recorded in audit entries.
func actor() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "craftctl"
}

// environment bundles the per-invocation dependencies of a handler.
type environment struct {
	cfg      *config.Config
	timeouts *config.Timeouts
	cluster  proxmox.ClusterManager
	store    auditStore
	printer  *ui.Printer
}

// setup loads configuration and builds the cluster client and audit store.
// The caller must close the returned environment.
func setup(ctx context.Context, configPath string) (*environment, error) {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, err
	}

	timeouts := config.LoadTimeouts()
	store, err := openAuditStore(ctx, cfg.Audit.Path)
	if err != nil {
		return nil, fmt.Errorf("opening audit store: %w", err)
	}

	return &environment{
		cfg:      cfg,
		timeouts: timeouts,
		cluster:  newClusterClient(cfg, timeouts),
		store:    store,
		printer:  ui.NewPrinter(),
	}, nil
}

func (e *environment) close() {
	_ = e.store.Close()
}

// provisioningContext builds the orchestrator context around this
// environment, observing events through the CLI logger.
func (e *environment) provisioningContext(ctx context.Context) *provisioning.Context {
	observer := provisioning.NewZerologObserver(newLogger())
	return provisioning.NewContext(ctx, e.cfg, e.cluster, e.store, observer)
}
