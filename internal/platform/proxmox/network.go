package proxmox

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// maxNetSlots bounds the interface scan to net0..net9. The bound is carried
// over from the original panel design: guests with more than ten NICs are
// silently truncated. Deliberate simplification, not a protocol limit.
const maxNetSlots = 10

var macPattern = regexp.MustCompile(`(?i)(?:[0-9a-f]{2}:){5}[0-9a-f]{2}`)

// NetworkConfig extracts the MAC address of each virtual NIC from the
// guest's configuration. A guest with no recognizable interfaces yields an
// empty interface list and an empty PrimaryMAC; that is a valid result, not
// an error, since the caller may legitimately not need network identity.
func (c *RealClient) NetworkConfig(ctx context.Context, vmid int) (*NetworkIdentity, error) {
	inst, err := c.Locate(ctx, vmid)
	if err != nil {
		return nil, err
	}

	var cfg map[string]any
	if err := c.get(ctx, guestPath(inst, "config"), &cfg); err != nil {
		return nil, fmt.Errorf("read config of instance %d: %w", vmid, err)
	}

	identity := ExtractNetworkIdentity(cfg)
	return identity, nil
}

// ExtractNetworkIdentity scans a raw guest configuration map for network
// interfaces. Config values look like
//
//	virtio=BC:24:11:AA:1D:29,bridge=vmbr0,firewall=1
//
// for qemu, or
//
//	name=eth0,bridge=vmbr0,hwaddr=BC:24:11:80:18:3D,ip=dhcp
//
// for lxc; in both cases the hardware address is the only MAC-shaped
// substring, so a pattern match recovers it without parsing the full
// key=value grammar.
func ExtractNetworkIdentity(cfg map[string]any) *NetworkIdentity {
	identity := &NetworkIdentity{}

	for slot := 0; slot < maxNetSlots; slot++ {
		raw, ok := cfg[fmt.Sprintf("net%d", slot)]
		if !ok {
			continue
		}
		value, ok := raw.(string)
		if !ok {
			continue
		}
		mac := macPattern.FindString(value)
		if mac == "" {
			continue
		}
		identity.Interfaces = append(identity.Interfaces, NetworkInterface{
			Slot: slot,
			MAC:  strings.ToUpper(mac),
			Raw:  value,
		})
	}

	if len(identity.Interfaces) > 0 {
		identity.PrimaryMAC = identity.Interfaces[0].MAC
	}
	return identity
}
