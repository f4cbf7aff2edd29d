package commands

import (
	"fmt"
	"strconv"
)

// vmidArg validates that the positional argument is a positive guest
// identifier and parses it.
func vmidArg(args []string) (int, error) {
	vmid, err := strconv.Atoi(args[0])
	if err != nil || vmid <= 0 {
		return 0, fmt.Errorf("invalid VMID %q: expected a positive integer", args[0])
	}
	return vmid, nil
}
