package collect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, p, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestCollect_EmptyInputFails(t *testing.T) {
	_, err := Collect(nil)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestCollect_SingleFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "a.json")
	writeFile(t, f, `{"version":"lock.v0"}`)

	got, err := Collect([]string{f})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "a.json", got[0].MemberPath)
	require.Equal(t, f, got[0].Source)
}

func TestCollect_DirectorySortedDepthFirst(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "bundle")
	writeFile(t, filepath.Join(root, "z.txt"), "z")
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "sub", "m.txt"), "m")

	got, err := Collect([]string{root})
	require.NoError(t, err)

	var memberPaths []string
	for _, c := range got {
		memberPaths = append(memberPaths, c.MemberPath)
	}
	require.Equal(t, []string{"bundle/a.txt", "bundle/sub/m.txt", "bundle/z.txt"}, memberPaths)
}

func TestCollect_HiddenFileSealedNormally(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "bundle")
	writeFile(t, filepath.Join(root, ".hidden"), "secret")

	got, err := Collect([]string{root})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "bundle/.hidden", got[0].MemberPath)
}

func TestCollect_SymlinkInputRefused(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.txt")
	writeFile(t, target, "a")
	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.Symlink(target, link))

	_, err := Collect([]string{link})
	require.Error(t, err)
	var nre *NonRegularError
	require.ErrorAs(t, err, &nre)
}

func TestCollect_GlobalSortAcrossInputs(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, "zzz.txt")
	f2 := filepath.Join(dir, "aaa.txt")
	writeFile(t, f1, "1")
	writeFile(t, f2, "2")

	got, err := Collect([]string{f1, f2})
	require.NoError(t, err)
	require.Equal(t, "aaa.txt", got[0].MemberPath)
	require.Equal(t, "zzz.txt", got[1].MemberPath)
}

func TestCheckCollisions_BasenameCollision(t *testing.T) {
	candidates := []Candidate{
		{Source: "/a/conflict.txt", MemberPath: "conflict.txt"},
		{Source: "/b/conflict.txt", MemberPath: "conflict.txt"},
	}
	err := CheckCollisions(candidates)
	require.Error(t, err)
	var de *DuplicateError
	require.ErrorAs(t, err, &de)
	require.Equal(t, "conflict.txt", de.MemberPath)
	require.Len(t, de.Sources, 2)
}

func TestCheckCollisions_ReservedManifestPath(t *testing.T) {
	candidates := []Candidate{{Source: "/a/manifest.json", MemberPath: "manifest.json"}}
	err := CheckCollisions(candidates)
	require.Error(t, err)
}

func TestCheckCollisions_NoCollision(t *testing.T) {
	candidates := []Candidate{
		{Source: "/a/a.json", MemberPath: "a.json"},
		{Source: "/b/b.json", MemberPath: "b.json"},
	}
	require.NoError(t, CheckCollisions(candidates))
}

func TestIsSafePath(t *testing.T) {
	cases := map[string]bool{
		"a.json":          true,
		"a/b.json":        true,
		"":                false,
		"/abs.json":       false,
		"a//b.json":       false,
		"../escape.json":  false,
		"a/../b.json":     false,
		"./a.json":        false,
		"manifest.json":   true, // safety and reservation are separate checks
	}
	for p, want := range cases {
		require.Equal(t, want, IsSafePath(p), p)
	}
}
