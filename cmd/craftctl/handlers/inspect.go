package handlers

import (
	"context"
	"fmt"
	"strconv"
)

// Locate handles the locate command.
func Locate(ctx context.Context, configPath string, vmid int) error {
	env, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	defer env.close()

	inst, err := env.cluster.Locate(ctx, vmid)
	if err != nil {
		return err
	}

	fmt.Fprint(stdout, env.printer.Table(
		[]string{"VMID", "NODE", "TYPE"},
		[][]string{{strconv.Itoa(inst.VMID), inst.Node, string(inst.Type)}},
	))
	return nil
}

// NetInfo handles the netinfo command.
func NetInfo(ctx context.Context, configPath string, vmid int) error {
	env, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	defer env.close()

	identity, err := env.cluster.NetworkConfig(ctx, vmid)
	if err != nil {
		return err
	}
	if len(identity.Interfaces) == 0 {
		fmt.Fprintln(stdout, env.printer.Warn("guest %d has no network interfaces", vmid))
		return nil
	}

	rows := make([][]string, 0, len(identity.Interfaces))
	for _, nic := range identity.Interfaces {
		primary := ""
		if nic.MAC == identity.PrimaryMAC {
			primary = "*"
		}
		rows = append(rows, []string{fmt.Sprintf("net%d", nic.Slot), nic.MAC, primary})
	}
	fmt.Fprint(stdout, env.printer.Table([]string{"SLOT", "MAC", "PRIMARY"}, rows))
	return nil
}

// List handles the list command.
func List(ctx context.Context, configPath string) error {
	env, err := setup(ctx, configPath)
	if err != nil {
		return err
	}
	defer env.close()

	entries, err := env.cluster.ListInstances(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{strconv.Itoa(e.VMID), e.Name, e.Node, string(e.Type)})
	}
	fmt.Fprint(stdout, env.printer.Table([]string{"VMID", "NAME", "NODE", "TYPE"}, rows))
	return nil
}
