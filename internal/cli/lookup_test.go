package cli

// Test Plan for Lookup Command:
// - executeLookup prints one name per value
// - hex values, including the unsigned 64-bit maximum, resolve against decimal table keys
// - unknown values print <unknown> and return ErrUnresolved
// - a missing table file is an error
// - formatNumber inserts thousand separators

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/enumgen/internal/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) (*lookup.Resolver, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "enums.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"via.gui.Anchor_Fixed": {"0": "TopLeft", "4": "Center", "18446744073709551615": "Max"}}`), 0644))

	r, err := lookup.NewResolver(4)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r, path
}

func TestExecuteLookup(t *testing.T) {
	t.Parallel()

	r, table := newTestResolver(t)

	var out bytes.Buffer
	err := executeLookup(&out, r, table, "via.gui.Anchor_Serializable[]", []string{"0", "0x4", "0xFFFFFFFFFFFFFFFF"})
	require.NoError(t, err)
	assert.Equal(t, "0\tTopLeft\n0x4\tCenter\n0xFFFFFFFFFFFFFFFF\tMax\n", out.String())
}

func TestExecuteLookup_Unknown(t *testing.T) {
	t.Parallel()

	r, table := newTestResolver(t)

	var out bytes.Buffer
	err := executeLookup(&out, r, table, "via.gui.Anchor_Fixed", []string{"9", "4"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolved)
	assert.Equal(t, "9\t<unknown>\n4\tCenter\n", out.String())
}

func TestExecuteLookup_MissingTable(t *testing.T) {
	t.Parallel()

	r, err := lookup.NewResolver(4)
	require.NoError(t, err)
	defer r.Close()

	var out bytes.Buffer
	err = executeLookup(&out, r, filepath.Join(t.TempDir(), "none.json"), "E", []string{"1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnresolved)
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,234", formatNumber(1234))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
	assert.Equal(t, "-12,000", formatNumber(-12000))
}
