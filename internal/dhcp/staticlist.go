// Package dhcp manages DHCP reservations for provisioned game servers.
//
// Game servers get stable addresses by pairing the MAC extracted from a
// fresh clone with a reservation on the site router. The router stores
// reservations as a single opaque "staticlist" string whose format has
// drifted across firmware generations; this package parses the known
// variants and, crucially, upserts entries by raw string manipulation so a
// parse failure can never destroy reservations it did not understand.
package dhcp

import (
	"strings"
)

// Reservation maps a hardware address to a fixed IP and display name.
type Reservation struct {
	MAC  string
	IP   string
	Name string
}

// entrySeparator joins entries in the canonical staticlist form.
const entrySeparator = "\t"

// ParseStaticlist parses a router staticlist into reservations.
//
// Two formats are recognized:
//
//	<MAC>IP>name<MAC>IP>name...   (legacy angle-bracket form)
//	MAC:IP:name\tMAC:IP:name...   (canonical, also seen with ";", "\n"
//	                               or space separators)
//
// Unparseable entries are skipped, never fatal: the list may mix firmware
// generations.
func ParseStaticlist(raw string) []Reservation {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.Contains(raw, "<") && strings.Contains(raw, ">") {
		if res := parseAngleForm(raw); len(res) > 0 {
			return res
		}
	}
	return parseColonForm(raw)
}

func parseAngleForm(raw string) []Reservation {
	var reservations []Reservation
	for _, entry := range strings.Split(raw, "<") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		parts := strings.Split(entry, ">")
		if len(parts) < 3 {
			continue
		}
		mac := strings.ToUpper(strings.TrimSpace(parts[0]))
		ip := strings.TrimSpace(parts[1])
		name := strings.TrimSpace(parts[2])
		if mac != "" && ip != "" {
			reservations = append(reservations, Reservation{MAC: mac, IP: ip, Name: name})
		}
	}
	return reservations
}

func parseColonForm(raw string) []Reservation {
	if !strings.Contains(raw, ":") {
		return nil
	}

	var entries []string
	switch {
	case strings.Contains(raw, "\t"):
		entries = strings.Split(raw, "\t")
	case strings.Contains(raw, ";"):
		entries = strings.Split(raw, ";")
	case strings.Contains(raw, "\n"):
		entries = strings.Split(raw, "\n")
	case strings.Count(raw, " ") > strings.Count(raw, ":"):
		entries = strings.Split(raw, " ")
	default:
		entries = []string{raw}
	}

	var reservations []Reservation
	for _, entry := range entries {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		// MAC itself contains colons: the first 6 colon-separated fields
		// are the address, the rest are IP and name
		parts := strings.Split(entry, ":")
		if len(parts) < 7 {
			continue
		}
		mac := strings.ToUpper(strings.TrimSpace(strings.Join(parts[:6], ":")))
		ip := strings.TrimSpace(parts[6])
		name := ""
		if len(parts) > 7 {
			name = strings.TrimSpace(strings.Join(parts[7:], ":"))
		}
		if mac != "" && ip != "" {
			reservations = append(reservations, Reservation{MAC: mac, IP: ip, Name: name})
		}
	}
	return reservations
}

// FormatStaticlist renders reservations in the canonical form the router
// accepts back: MAC:IP:name entries joined by tabs, no trailing separator.
// Entries missing a MAC or IP are dropped.
func FormatStaticlist(reservations []Reservation) string {
	entries := make([]string, 0, len(reservations))
	for _, r := range reservations {
		mac := strings.ToUpper(strings.TrimSpace(r.MAC))
		ip := strings.TrimSpace(r.IP)
		if mac == "" || ip == "" {
			continue
		}
		entries = append(entries, mac+":"+ip+":"+strings.TrimSpace(r.Name))
	}
	return strings.Join(entries, entrySeparator)
}

// UpsertStaticlist inserts or replaces the reservation for res.MAC in the
// raw staticlist and returns the updated raw string.
//
// Existing entries are never re-parsed and re-serialized wholesale: only
// the entry matching the MAC is touched, by direct string surgery on the
// tab-separated form. This keeps reservations in formats we do not fully
// understand intact.
func UpsertStaticlist(raw string, res Reservation) string {
	mac := strings.ToUpper(strings.TrimSpace(res.MAC))
	entry := mac + ":" + strings.TrimSpace(res.IP) + ":" + strings.TrimSpace(res.Name)

	if !strings.Contains(raw, mac+":") {
		if raw == "" {
			return entry
		}
		return raw + entrySeparator + entry
	}

	parts := strings.Split(raw, entrySeparator)
	for i, existing := range parts {
		if strings.HasPrefix(existing, mac+":") {
			parts[i] = entry
			break
		}
	}
	return strings.Join(parts, entrySeparator)
}
