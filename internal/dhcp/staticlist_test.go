package dhcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStaticlist(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []Reservation
	}{
		{
			name: "empty",
			raw:  "",
			want: nil,
		},
		{
			name: "whitespace only",
			raw:  "   \t ",
			want: nil,
		},
		{
			name: "canonical tab separated",
			raw:  "BC:24:11:AA:1D:29:192.168.1.232:minecraft-velocity01\tBC:24:11:80:18:3D:192.168.1.234:minecraft02",
			want: []Reservation{
				{MAC: "BC:24:11:AA:1D:29", IP: "192.168.1.232", Name: "minecraft-velocity01"},
				{MAC: "BC:24:11:80:18:3D", IP: "192.168.1.234", Name: "minecraft02"},
			},
		},
		{
			name: "legacy angle bracket form",
			raw:  "<88:a2:9e:0e:24:cb>192.168.1.225>IceMaker<bc:24:11:b0:04:e0>192.168.1.240>dns01",
			want: []Reservation{
				{MAC: "88:A2:9E:0E:24:CB", IP: "192.168.1.225", Name: "IceMaker"},
				{MAC: "BC:24:11:B0:04:E0", IP: "192.168.1.240", Name: "dns01"},
			},
		},
		{
			name: "semicolon separated",
			raw:  "BC:24:11:AA:1D:29:192.168.1.232:velocity;BC:24:11:80:18:3D:192.168.1.234:mc02",
			want: []Reservation{
				{MAC: "BC:24:11:AA:1D:29", IP: "192.168.1.232", Name: "velocity"},
				{MAC: "BC:24:11:80:18:3D", IP: "192.168.1.234", Name: "mc02"},
			},
		},
		{
			name: "single entry without name",
			raw:  "BC:24:11:AA:1D:29:192.168.1.232",
			want: []Reservation{{MAC: "BC:24:11:AA:1D:29", IP: "192.168.1.232"}},
		},
		{
			name: "lowercase mac is normalized",
			raw:  "bc:24:11:aa:1d:29:192.168.1.232:velocity",
			want: []Reservation{{MAC: "BC:24:11:AA:1D:29", IP: "192.168.1.232", Name: "velocity"}},
		},
		{
			name: "garbage entries are skipped",
			raw:  "notamac\tBC:24:11:AA:1D:29:192.168.1.232:velocity",
			want: []Reservation{{MAC: "BC:24:11:AA:1D:29", IP: "192.168.1.232", Name: "velocity"}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseStaticlist(tt.raw))
		})
	}
}

func TestFormatStaticlist(t *testing.T) {
	t.Parallel()

	got := FormatStaticlist([]Reservation{
		{MAC: "bc:24:11:aa:1d:29", IP: "192.168.1.232", Name: "velocity"},
		{MAC: "", IP: "192.168.1.1", Name: "dropped"},
		{MAC: "BC:24:11:80:18:3D", IP: "192.168.1.234", Name: "mc02"},
	})
	assert.Equal(t, "BC:24:11:AA:1D:29:192.168.1.232:velocity\tBC:24:11:80:18:3D:192.168.1.234:mc02", got)
}

func TestFormatStaticlist_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, FormatStaticlist(nil))
}

func TestUpsertStaticlist_AppendsNewEntry(t *testing.T) {
	t.Parallel()

	raw := "AA:AA:AA:AA:AA:01:192.168.1.10:one"
	got := UpsertStaticlist(raw, Reservation{MAC: "bb:bb:bb:bb:bb:02", IP: "192.168.1.20", Name: "two"})
	assert.Equal(t, "AA:AA:AA:AA:AA:01:192.168.1.10:one\tBB:BB:BB:BB:BB:02:192.168.1.20:two", got)
}

func TestUpsertStaticlist_ReplacesExistingEntry(t *testing.T) {
	t.Parallel()

	raw := "AA:AA:AA:AA:AA:01:192.168.1.10:one\tBB:BB:BB:BB:BB:02:192.168.1.20:two"
	got := UpsertStaticlist(raw, Reservation{MAC: "AA:AA:AA:AA:AA:01", IP: "192.168.1.99", Name: "renamed"})
	assert.Equal(t, "AA:AA:AA:AA:AA:01:192.168.1.99:renamed\tBB:BB:BB:BB:BB:02:192.168.1.20:two", got)
}

func TestUpsertStaticlist_EmptyList(t *testing.T) {
	t.Parallel()

	got := UpsertStaticlist("", Reservation{MAC: "AA:AA:AA:AA:AA:01", IP: "192.168.1.10", Name: "one"})
	assert.Equal(t, "AA:AA:AA:AA:AA:01:192.168.1.10:one", got)
}

func TestUpsertStaticlist_PreservesUnparsedEntries(t *testing.T) {
	t.Parallel()

	// an entry in a format we do not understand must survive the upsert
	raw := "weird-firmware-blob\tAA:AA:AA:AA:AA:01:192.168.1.10:one"
	got := UpsertStaticlist(raw, Reservation{MAC: "AA:AA:AA:AA:AA:01", IP: "192.168.1.11", Name: "one"})
	assert.Contains(t, got, "weird-firmware-blob")
	assert.Contains(t, got, "AA:AA:AA:AA:AA:01:192.168.1.11:one")
}
