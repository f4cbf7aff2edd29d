package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/craftctl/craftctl/internal/config"
	"github.com/craftctl/craftctl/internal/dhcp"
	"github.com/craftctl/craftctl/internal/provisioning"
)

// CloneOptions carries the clone command's flags and arguments.
type CloneOptions struct {
	ConfigPath string
	Name       string
	SourceID   int
	TargetID   int
	Wait       time.Duration
	ReserveIP  string
}

// reserver pushes DHCP reservations to the router service.
type reserver interface {
	Reserve(ctx context.Context, res dhcp.Reservation) error
}

// newRouterClient creates the router client - can be replaced in tests.
var newRouterClient = func(cfg config.Router, timeouts *config.Timeouts) reserver {
	return dhcp.NewRouterClient(cfg, timeouts)
}

// Clone handles the clone command.
//
// It clones the source template into a new game server, waits for the
// task, and reports the assigned identifier. An unmatched name after an
// auto-assigned clone is reported as a warning, not a failure. When
// --reserve-ip is given and the router integration is enabled, the new
// server's primary MAC is pushed to the router as a DHCP reservation.
func Clone(ctx context.Context, opts CloneOptions) error {
	env, err := setup(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}
	defer env.close()

	source := opts.SourceID
	if source == 0 {
		source = env.cfg.Defaults.TemplateID
	}
	if source == 0 {
		return fmt.Errorf("no source template: pass --source or set defaults.template_id")
	}

	name := env.cfg.Defaults.NamePrefix + opts.Name

	outcome, err := provisioning.NewProvisioner().Clone(env.provisioningContext(ctx), provisioning.CloneRequest{
		Actor:    actor(),
		SourceID: source,
		Name:     name,
		TargetID: opts.TargetID,
		MaxWait:  opts.Wait,
	})
	if err != nil {
		return fmt.Errorf("clone failed: %w", err)
	}

	if outcome.Result.Resolved {
		fmt.Fprintln(stdout, env.printer.OK("cloned %d into %q (VMID %d)", source, name, outcome.Result.VMID))
	} else {
		fmt.Fprintln(stdout, env.printer.Warn("clone of %q succeeded but its identifier could not be determined; run 'craftctl list'", name))
	}

	if opts.ReserveIP != "" {
		reserveAddress(ctx, env, outcome, name, opts.ReserveIP)
	}
	return nil
}

// reserveAddress pushes a DHCP reservation for the cloned server. Failures
// here never fail the clone; the server exists either way.
func reserveAddress(ctx context.Context, env *environment, outcome *provisioning.CloneOutcome, name, ip string) {
	switch {
	case !env.cfg.Router.Enabled:
		fmt.Fprintln(stdout, env.printer.Warn("router integration is disabled; skipping reservation for %s", ip))
		return
	case !outcome.Result.Resolved:
		fmt.Fprintln(stdout, env.printer.Warn("cannot reserve %s: the new server's identifier is unknown", ip))
		return
	}

	identity, err := env.cluster.NetworkConfig(ctx, outcome.Result.VMID)
	if err != nil {
		fmt.Fprintln(stdout, env.printer.Warn("cannot reserve %s: reading network config: %v", ip, err))
		return
	}
	if identity.PrimaryMAC == "" {
		fmt.Fprintln(stdout, env.printer.Warn("cannot reserve %s: guest %d has no network interfaces", ip, outcome.Result.VMID))
		return
	}

	rc := newRouterClient(env.cfg.Router, env.timeouts)
	res := dhcp.Reservation{MAC: identity.PrimaryMAC, IP: ip, Name: name}
	if err := rc.Reserve(ctx, res); err != nil {
		fmt.Fprintln(stdout, env.printer.Warn("reservation for %s failed: %v", ip, err))
		return
	}
	fmt.Fprintln(stdout, env.printer.OK("reserved %s for %s", ip, identity.PrimaryMAC))
}
