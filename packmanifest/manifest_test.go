package packmanifest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/epistemic/pack/digestutil"
)

func TestFinalize_SelfHashContract(t *testing.T) {
	members := []Member{
		{Path: "b.txt", BytesHash: digestutil.FromBytes([]byte("hello")).String(), Type: "other"},
		{Path: "a.json", BytesHash: digestutil.FromBytes([]byte(`{"version":"lock.v0"}`)).String(), Type: "lockfile", ArtifactVersion: strPtr("lock.v0")},
	}

	m, err := Finalize("2026-01-15T00:00:00Z", "0.1.0", nil, members)
	require.NoError(t, err)

	require.Equal(t, FormatVersion, m.Version)
	require.Equal(t, 2, m.MemberCount)
	require.Equal(t, []string{"a.json", "b.txt"}, []string{m.Members[0].Path, m.Members[1].Path})
	require.Regexp(t, `^sha256:[0-9a-f]{64}$`, m.PackID)

	// P1: re-deriving the hash from the finalized manifest's own raw form
	// with pack_id substituted back to "" must reproduce the declared id.
	raw := m.ToRaw()
	raw["pack_id"] = ""
	got, err := SelfHashOfRaw(raw)
	require.NoError(t, err)
	require.Equal(t, m.PackID, got)
}

func TestFinalize_ZeroMembersLegal(t *testing.T) {
	m, err := Finalize("2026-01-15T00:00:00Z", "0.1.0", nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, m.MemberCount)
	require.Len(t, m.Members, 0)
	require.Regexp(t, `^sha256:[0-9a-f]{64}$`, m.PackID)
}

func TestFinalize_Deterministic(t *testing.T) {
	members := []Member{{Path: "a.txt", BytesHash: digestutil.FromBytes([]byte("a")).String(), Type: "other"}}

	m1, err := Finalize("2026-01-15T00:00:00Z", "0.1.0", nil, members)
	require.NoError(t, err)
	m2, err := Finalize("2026-01-15T00:00:00Z", "0.1.0", nil, members)
	require.NoError(t, err)

	require.Equal(t, m1.PackID, m2.PackID)
	if diff := cmp.Diff(m1, m2); diff != "" {
		t.Errorf("two finalizations of identical input produced different manifests (-m1 +m2):\n%s", diff)
	}
}

func TestFinalize_NoteAbsentWhenUnset(t *testing.T) {
	m, err := Finalize("2026-01-15T00:00:00Z", "0.1.0", nil, nil)
	require.NoError(t, err)
	pretty, err := m.MarshalPretty()
	require.NoError(t, err)
	require.NotContains(t, string(pretty), `"note"`)
}

func TestParseRaw_RoundTripsIntegers(t *testing.T) {
	m, err := Finalize("2026-01-15T00:00:00Z", "0.1.0", nil, []Member{
		{Path: "a.txt", BytesHash: digestutil.FromBytes([]byte("a")).String(), Type: "other"},
	})
	require.NoError(t, err)

	pretty, err := m.MarshalPretty()
	require.NoError(t, err)

	raw, err := ParseRaw(pretty)
	require.NoError(t, err)

	hash, err := SelfHashOfRaw(withEmptyPackID(raw))
	require.NoError(t, err)
	require.Equal(t, m.PackID, hash)
}

func withEmptyPackID(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	out["pack_id"] = ""
	return out
}

func strPtr(s string) *string { return &s }
