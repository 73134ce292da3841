package ledger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traceline/internal/registry"
)

func TestStatusOrdering(t *testing.T) {
	ordered := []Status{
		StatusCreated,
		StatusManufacturingComplete,
		StatusShippedByManufacturer,
		StatusReceivedByDistributor,
		StatusShippedByDistributor,
		StatusReceivedByRetailer,
		StatusAvailable,
	}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1], ordered[i])
	}
	// Available is the maximum: nothing can advance past it.
	for _, s := range ordered {
		assert.LessOrEqual(t, s, StatusAvailable)
	}
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("received_by_distributor")
	require.NoError(t, err)
	assert.Equal(t, StatusReceivedByDistributor, status)

	_, err = ParseStatus("teleported")
	require.Error(t, err)

	_, err = ParseStatus("")
	require.Error(t, err)
}

func TestStatusJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(StatusShippedByDistributor)
	require.NoError(t, err)
	assert.Equal(t, `"shipped_by_distributor"`, string(raw))

	var decoded Status
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, StatusShippedByDistributor, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"warp_speed"`), &decoded))
}

func TestRequiredRole(t *testing.T) {
	cases := []struct {
		target Status
		role   registry.Role
	}{
		{StatusManufacturingComplete, registry.RoleManufacturer},
		{StatusShippedByManufacturer, registry.RoleManufacturer},
		{StatusReceivedByDistributor, registry.RoleDistributor},
		{StatusShippedByDistributor, registry.RoleDistributor},
		{StatusReceivedByRetailer, registry.RoleRetailer},
		{StatusAvailable, registry.RoleRetailer},
	}
	for _, tc := range cases {
		role, ok := RequiredRole(tc.target)
		require.True(t, ok, "target %s", tc.target)
		assert.Equal(t, tc.role, role)
	}

	// Created and out-of-range values have no role mapping and can never be
	// verified.
	_, ok := RequiredRole(StatusCreated)
	assert.False(t, ok)
	_, ok = RequiredRole(Status(42))
	assert.False(t, ok)
}

func TestComputeFingerprint(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a := ComputeFingerprint("mfg-done", 0, "factory-7", ts)
	assert.Equal(t, a, ComputeFingerprint("mfg-done", 0, "factory-7", ts))

	// Any field change produces a different digest.
	assert.NotEqual(t, a, ComputeFingerprint("mfg-done!", 0, "factory-7", ts))
	assert.NotEqual(t, a, ComputeFingerprint("mfg-done", 1, "factory-7", ts))
	assert.NotEqual(t, a, ComputeFingerprint("mfg-done", 0, "factory-8", ts))
	assert.NotEqual(t, a, ComputeFingerprint("mfg-done", 0, "factory-7", ts.Add(time.Nanosecond)))

	// Length prefixes keep adjacent fields from bleeding into each other.
	assert.NotEqual(t,
		ComputeFingerprint("ab", 0, "c", ts),
		ComputeFingerprint("a", 0, "bc", ts))
}

func TestFingerprintHexRoundTrip(t *testing.T) {
	fp := ComputeFingerprint("label", 3, "depot-1", time.Now())

	parsed, err := ParseFingerprint(fp.String())
	require.NoError(t, err)
	assert.Equal(t, fp, parsed)

	_, err = ParseFingerprint("zz")
	require.Error(t, err)
	_, err = ParseFingerprint("abcd")
	require.Error(t, err)
}

func TestCreationLabel(t *testing.T) {
	ts := time.Unix(1772366400, 0)
	assert.Equal(t, "creation:5:1772366400", CreationLabel(5, ts))
}
