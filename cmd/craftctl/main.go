// Package main is the entry point for the craftctl CLI.
//
// craftctl provisions and manages VM-backed game servers on a Proxmox VE
// cluster: cloning template guests, starting and stopping them, reading
// their network identity, and keeping an audit trail of every operation.
//
// Commands: clone, start, stop, delete, locate, netinfo, list, audit.
//
// For detailed usage information, run:
//
//	craftctl --help
package main

import (
	"fmt"
	"os"

	"github.com/craftctl/craftctl/cmd/craftctl/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
