package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVMIDArg(t *testing.T) {
	vmid, err := vmidArg([]string{"103"})
	require.NoError(t, err)
	assert.Equal(t, 103, vmid)

	for _, bad := range []string{"abc", "0", "-5", "1.5"} {
		_, err := vmidArg([]string{bad})
		assert.Error(t, err, "input %q should be rejected", bad)
	}
}
