package pack

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/epistemic/pack/packmanifest"
	"github.com/epistemic/pack/refusal"
)

// Diff compares two already-parsed manifests by member-path, per spec.md
// §4.7. It trusts the declared bytes_hash values and never re-reads
// member bytes; callers wanting byte-level assurance should Verify first.
func Diff(a, b packmanifest.Manifest) *DiffReport {
	aByPath := make(map[string]string, len(a.Members))
	for _, m := range a.Members {
		aByPath[m.Path] = m.BytesHash
	}
	bByPath := make(map[string]string, len(b.Members))
	for _, m := range b.Members {
		bByPath[m.Path] = m.BytesHash
	}

	report := &DiffReport{
		Version:   DiffSchemaVersion,
		Added:     []MemberRef{},
		Removed:   []MemberRef{},
		Changed:   []MemberDiff{},
		Unchanged: 0,
	}

	for path, hashA := range aByPath {
		hashB, inB := bByPath[path]
		switch {
		case !inB:
			report.Removed = append(report.Removed, MemberRef{Path: path, Hash: hashA})
		case hashA != hashB:
			report.Changed = append(report.Changed, MemberDiff{Path: path, ExpectedHash: hashA, ActualHash: hashB})
		default:
			report.Unchanged++
		}
	}
	for path, hashB := range bByPath {
		if _, inA := aByPath[path]; !inA {
			report.Added = append(report.Added, MemberRef{Path: path, Hash: hashB})
		}
	}

	sort.Slice(report.Added, func(i, j int) bool { return report.Added[i].Path < report.Added[j].Path })
	sort.Slice(report.Removed, func(i, j int) bool { return report.Removed[i].Path < report.Removed[j].Path })
	sort.Slice(report.Changed, func(i, j int) bool { return report.Changed[i].Path < report.Changed[j].Path })

	if len(report.Added) > 0 || len(report.Removed) > 0 || len(report.Changed) > 0 {
		report.Outcome = "CHANGES"
	} else {
		report.Outcome = "NO_CHANGES"
	}
	return report
}

// DiffPaths loads the manifest.json at each of two pack directories and
// diffs them, translating load failures into BadPack refusals per
// spec.md §4.7.
func DiffPaths(packDirA, packDirB string) (*DiffReport, error) {
	a, err := loadManifest(packDirA)
	if err != nil {
		return nil, err
	}
	b, err := loadManifest(packDirB)
	if err != nil {
		return nil, err
	}
	return Diff(a, b), nil
}

func loadManifest(packDir string) (packmanifest.Manifest, error) {
	manifestPath := filepath.Join(packDir, packmanifest.ReservedMemberPath)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return packmanifest.Manifest{}, refuse(DiffSchemaVersion, refusal.CodeBadPack, fmt.Sprintf("reading %s: %v", manifestPath, err), &refusal.Detail{Path: packDir})
	}
	manifest, _, err := packmanifest.ParseManifest(data)
	if err != nil {
		return packmanifest.Manifest{}, refuse(DiffSchemaVersion, refusal.CodeBadPack, fmt.Sprintf("%s is not valid JSON: %v", manifestPath, err), &refusal.Detail{Path: packDir})
	}
	if manifest.Version != packmanifest.FormatVersion {
		return packmanifest.Manifest{}, refuse(DiffSchemaVersion, refusal.CodeBadPack, fmt.Sprintf("manifest version %q is not %q", manifest.Version, packmanifest.FormatVersion), &refusal.Detail{Path: packDir})
	}
	return manifest, nil
}
