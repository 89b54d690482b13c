package pack

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/epistemic/pack/digestutil"
	"github.com/epistemic/pack/packmanifest"
)

func writeFile(t *testing.T, p, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func sealS1(t *testing.T, outputDir string) *SealResult {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `{"version":"lock.v0","rows":5}`)
	writeFile(t, filepath.Join(dir, "b.txt"), "hello")

	result, err := Seal([]string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.txt")}, SealOptions{
		Output:      outputDir,
		Created:     "2026-01-15T00:00:00Z",
		ToolVersion: "0.1.0",
	})
	require.NoError(t, err)
	return result
}

// S1 — basic seal.
func TestSeal_Basic(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	result := sealS1(t, out)

	require.FileExists(t, filepath.Join(out, "manifest.json"))
	require.FileExists(t, filepath.Join(out, "a.json"))
	require.FileExists(t, filepath.Join(out, "b.txt"))

	require.Len(t, result.Manifest.Members, 2)
	a, b := result.Manifest.Members[0], result.Manifest.Members[1]
	require.Equal(t, "a.json", a.Path)
	require.Equal(t, "lockfile", a.Type)
	require.NotNil(t, a.ArtifactVersion)
	require.Equal(t, "lock.v0", *a.ArtifactVersion)

	require.Equal(t, "b.txt", b.Path)
	require.Equal(t, "other", b.Type)
	require.Nil(t, b.ArtifactVersion)

	report, err := Verify(out)
	require.NoError(t, err)
	require.Equal(t, "OK", report.Outcome)
	require.Empty(t, report.Findings)
}

// S2 — deterministic pack_id across repeated runs with pinned inputs.
func TestSeal_DeterministicPackID(t *testing.T) {
	out1 := filepath.Join(t.TempDir(), "out1")
	out2 := filepath.Join(t.TempDir(), "out2")

	r1 := sealS1(t, out1)
	r2 := sealS1(t, out2)

	require.Equal(t, r1.Manifest.PackID, r2.Manifest.PackID)

	p1, err := r1.Manifest.MarshalPretty()
	require.NoError(t, err)
	p2, err := r2.Manifest.MarshalPretty()
	require.NoError(t, err)
	require.Equal(t, p1, p2)
}

// S3 — collision refusal before any bytes are written.
func TestSeal_CollisionRefusal(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFile(t, filepath.Join(dirA, "x.json"), `{"a":1}`)
	writeFile(t, filepath.Join(dirB, "x.json"), `{"a":2}`)

	out := filepath.Join(t.TempDir(), "out")
	_, err := Seal([]string{filepath.Join(dirA, "x.json"), filepath.Join(dirB, "x.json")}, SealOptions{
		Output:      out,
		Created:     "2026-01-15T00:00:00Z",
		ToolVersion: "0.1.0",
	})

	require.Error(t, err)
	var refusalErr *RefusalError
	require.ErrorAs(t, err, &refusalErr)
	require.Equal(t, "E_DUPLICATE", string(refusalErr.Envelope.Refusal.Code))
	require.Equal(t, "x.json", refusalErr.Envelope.Refusal.Detail.Path)
	require.Len(t, refusalErr.Envelope.Refusal.Detail.Sources, 2)

	require.NoDirExists(t, out)
}

// S4 — tampered member.
func TestVerify_TamperedMember(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	sealS1(t, out)

	require.NoError(t, os.WriteFile(filepath.Join(out, "a.json"), []byte(`{"version":"lock.v0","rows":6}`), 0o644))

	report, err := Verify(out)
	require.NoError(t, err)
	require.Equal(t, "INVALID", report.Outcome)
	require.False(t, report.Checks.MemberHashes)
	require.Len(t, report.Findings, 1)
	require.Equal(t, "HASH_MISMATCH", string(report.Findings[0].Code))
	require.Equal(t, "a.json", report.Findings[0].Path)
	require.NotEqual(t, report.Findings[0].Expected, report.Findings[0].Actual)
}

// S5 — tampered manifest.
func TestVerify_TamperedManifest(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	sealS1(t, out)

	manifestPath := filepath.Join(out, "manifest.json")
	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)

	raw, err := packmanifest.ParseRaw(data)
	require.NoError(t, err)
	raw["note"] = "tampered"
	tampered, err := json.MarshalIndent(raw, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(manifestPath, tampered, 0o644))

	report, err := Verify(out)
	require.NoError(t, err)
	require.Equal(t, "INVALID", report.Outcome)
	require.False(t, report.Checks.PackID)
	require.Len(t, report.Findings, 1)
	require.Equal(t, "PACK_ID_MISMATCH", string(report.Findings[0].Code))
}

// S6 — diff.
func TestDiff_AddedRemovedUnchanged(t *testing.T) {
	outP := filepath.Join(t.TempDir(), "p")
	outQ := filepath.Join(t.TempDir(), "q")

	dirP := t.TempDir()
	writeFile(t, filepath.Join(dirP, "x.json"), "shared")
	writeFile(t, filepath.Join(dirP, "y.json"), "only-in-p")
	_, err := Seal([]string{filepath.Join(dirP, "x.json"), filepath.Join(dirP, "y.json")}, SealOptions{
		Output: outP, Created: "2026-01-15T00:00:00Z", ToolVersion: "0.1.0",
	})
	require.NoError(t, err)

	dirQ := t.TempDir()
	writeFile(t, filepath.Join(dirQ, "x.json"), "shared")
	writeFile(t, filepath.Join(dirQ, "z.json"), "only-in-q")
	_, err = Seal([]string{filepath.Join(dirQ, "x.json"), filepath.Join(dirQ, "z.json")}, SealOptions{
		Output: outQ, Created: "2026-01-15T00:00:00Z", ToolVersion: "0.1.0",
	})
	require.NoError(t, err)

	report, err := DiffPaths(outP, outQ)
	require.NoError(t, err)
	require.Equal(t, "CHANGES", report.Outcome)
	require.Len(t, report.Added, 1)
	require.Equal(t, "z.json", report.Added[0].Path)
	require.Len(t, report.Removed, 1)
	require.Equal(t, "y.json", report.Removed[0].Path)
	require.Empty(t, report.Changed)
	require.Equal(t, 1, report.Unchanged)
}

// P6 — diff(A,B) and diff(B,A) swap only added/removed.
func TestDiff_Symmetric(t *testing.T) {
	a := packmanifest.Manifest{Members: []packmanifest.Member{
		{Path: "shared.txt", BytesHash: digestutil.FromBytes([]byte("same")).String()},
		{Path: "only-a.txt", BytesHash: digestutil.FromBytes([]byte("a")).String()},
		{Path: "changed.txt", BytesHash: digestutil.FromBytes([]byte("v1")).String()},
	}}
	b := packmanifest.Manifest{Members: []packmanifest.Member{
		{Path: "shared.txt", BytesHash: digestutil.FromBytes([]byte("same")).String()},
		{Path: "only-b.txt", BytesHash: digestutil.FromBytes([]byte("b")).String()},
		{Path: "changed.txt", BytesHash: digestutil.FromBytes([]byte("v2")).String()},
	}}

	ab := Diff(a, b)
	ba := Diff(b, a)

	require.Equal(t, ab.Added[0].Path, ba.Removed[0].Path)
	require.Equal(t, ab.Removed[0].Path, ba.Added[0].Path)
	require.Equal(t, ab.Unchanged, ba.Unchanged)
	require.Len(t, ab.Changed, 1)
	require.Len(t, ba.Changed, 1)
	require.Equal(t, ab.Changed[0].Path, ba.Changed[0].Path)
	require.Equal(t, ab.Changed[0].ExpectedHash, ba.Changed[0].ActualHash)
	require.Equal(t, ab.Changed[0].ActualHash, ba.Changed[0].ExpectedHash)
}

// Boundary: an empty input list refuses with E_EMPTY before any staging
// directory is created.
func TestSeal_EmptyInputRefuses(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	result, err := Seal(nil, SealOptions{Output: out, Created: "2026-01-15T00:00:00Z", ToolVersion: "0.1.0"})
	require.Error(t, err)
	require.Nil(t, result)

	var refusalErr *RefusalError
	require.ErrorAs(t, err, &refusalErr)
	require.Equal(t, "E_EMPTY", string(refusalErr.Envelope.Refusal.Code))
	require.NoDirExists(t, out)
}

// Boundary: a pack with zero members (an input directory containing no
// files) is legal; member_count is 0 and pack_id depends only on the
// caller-supplied created/note/tool_version.
func TestSeal_ZeroMembersLegal(t *testing.T) {
	emptyDir := filepath.Join(t.TempDir(), "empty-bundle")
	require.NoError(t, os.MkdirAll(emptyDir, 0o755))

	out := filepath.Join(t.TempDir(), "out")
	result, err := Seal([]string{emptyDir}, SealOptions{Output: out, Created: "2026-01-15T00:00:00Z", ToolVersion: "0.1.0"})
	require.NoError(t, err)
	require.Equal(t, 0, result.Manifest.MemberCount)
	require.Empty(t, result.Manifest.Members)
	require.Regexp(t, `^sha256:[0-9a-f]{64}$`, result.Manifest.PackID)

	report, err := Verify(out)
	require.NoError(t, err)
	require.Equal(t, "OK", report.Outcome)
}

// Boundary: empty member file hashes to SHA-256 of the empty string.
func TestSeal_EmptyMemberFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "empty.txt"), "")

	out := filepath.Join(t.TempDir(), "out")
	result, err := Seal([]string{filepath.Join(dir, "empty.txt")}, SealOptions{
		Output: out, Created: "2026-01-15T00:00:00Z", ToolVersion: "0.1.0",
	})
	require.NoError(t, err)
	require.Equal(t, digestutil.FromBytes(nil).String(), result.Manifest.Members[0].BytesHash)
}

// P9 — immediate verify of any sealed pack yields OK with every check true.
func TestVerify_RoundTripOK(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	sealS1(t, out)

	report, err := Verify(out)
	require.NoError(t, err)
	require.Equal(t, "OK", report.Outcome)
	require.True(t, report.Checks.ManifestParse)
	require.True(t, report.Checks.MemberCount)
	require.True(t, report.Checks.MemberPaths)
	require.True(t, report.Checks.MemberFiles)
	require.True(t, report.Checks.MemberHashes)
	require.True(t, report.Checks.PackID)
	require.True(t, report.Checks.ExtraMembers)
}

// Extra, undeclared file under the pack root must be flagged.
func TestVerify_ExtraMember(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	sealS1(t, out)

	require.NoError(t, os.WriteFile(filepath.Join(out, "sneaky.txt"), []byte("surprise"), 0o644))

	report, err := Verify(out)
	require.NoError(t, err)
	require.Equal(t, "INVALID", report.Outcome)
	require.False(t, report.Checks.ExtraMembers)
	require.Len(t, report.Findings, 1)
	require.Equal(t, "EXTRA_MEMBER", string(report.Findings[0].Code))
	require.Equal(t, "sneaky.txt", report.Findings[0].Path)
}

// Schema validation: a pack.v0 member whose pack_id is not a string fails.
func TestVerify_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "nested.json"), `{"version":"pack.v0","pack_id":123,"members":[]}`)

	out := filepath.Join(t.TempDir(), "out")
	_, err := Seal([]string{filepath.Join(dir, "nested.json")}, SealOptions{
		Output: out, Created: "2026-01-15T00:00:00Z", ToolVersion: "0.1.0",
	})
	require.NoError(t, err)

	report, err := Verify(out)
	require.NoError(t, err)
	require.Equal(t, SchemaFail, report.Schema)
	require.Equal(t, "INVALID", report.Outcome)
	found := false
	for _, f := range report.Findings {
		if f.Code == "SCHEMA_VIOLATION" {
			found = true
		}
	}
	require.True(t, found)
}

// Schema validation is skipped when no member carries a known version marker.
func TestVerify_SchemaSkippedWithoutMarkers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "hello")

	out := filepath.Join(t.TempDir(), "out")
	_, err := Seal([]string{filepath.Join(dir, "b.txt")}, SealOptions{
		Output: out, Created: "2026-01-15T00:00:00Z", ToolVersion: "0.1.0",
	})
	require.NoError(t, err)

	report, err := Verify(out)
	require.NoError(t, err)
	require.Equal(t, SchemaSkipped, report.Schema)
}
