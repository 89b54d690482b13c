package pack

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/epistemic/pack/collect"
	"github.com/epistemic/pack/digestutil"
	"github.com/epistemic/pack/packmanifest"
	"github.com/epistemic/pack/refusal"
)

// Verify re-parses a pack's manifest.json and runs the seven fixed-order
// checks of spec.md §4.6, plus the tri-state schema-validation check. It
// never modifies the pack.
func Verify(packDir string) (*VerifyReport, error) {
	if _, err := os.ReadDir(packDir); err != nil {
		return nil, refuse(VerifySchemaVersion, refusal.CodeIO, fmt.Sprintf("reading pack directory: %v", err), &refusal.Detail{Path: packDir})
	}

	manifestPath := filepath.Join(packDir, packmanifest.ReservedMemberPath)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, refuse(VerifySchemaVersion, refusal.CodeBadPack, fmt.Sprintf("reading manifest.json: %v", err), nil)
	}

	manifest, raw, err := packmanifest.ParseManifest(data)
	if err != nil {
		return nil, refuse(VerifySchemaVersion, refusal.CodeBadPack, fmt.Sprintf("manifest.json is not valid JSON: %v", err), nil)
	}
	if manifest.Version != packmanifest.FormatVersion {
		return nil, refuse(VerifySchemaVersion, refusal.CodeBadPack, fmt.Sprintf("manifest version %q is not %q", manifest.Version, packmanifest.FormatVersion), nil)
	}

	report := &VerifyReport{
		Version:  VerifySchemaVersion,
		PackID:   manifest.PackID,
		Findings: []refusal.Finding{},
	}
	report.Checks.ManifestParse = true

	report.Checks.MemberCount = manifest.MemberCount == len(manifest.Members)
	if !report.Checks.MemberCount {
		report.Findings = append(report.Findings, refusal.Finding{
			Code:     refusal.FindingMemberCountMismatch,
			Expected: strconv.Itoa(len(manifest.Members)),
			Actual:   strconv.Itoa(manifest.MemberCount),
		})
	}

	pathsOK := true
	seen := make(map[string]bool, len(manifest.Members))
	for _, m := range manifest.Members {
		switch {
		case !collect.IsSafePath(m.Path):
			pathsOK = false
			report.Findings = append(report.Findings, refusal.Finding{Code: refusal.FindingUnsafeMemberPath, Path: m.Path})
		case m.Path == packmanifest.ReservedMemberPath:
			pathsOK = false
			report.Findings = append(report.Findings, refusal.Finding{Code: refusal.FindingReservedMemberPath, Path: m.Path})
		case seen[m.Path]:
			pathsOK = false
			report.Findings = append(report.Findings, refusal.Finding{Code: refusal.FindingDuplicateMemberPath, Path: m.Path})
		default:
			seen[m.Path] = true
		}
	}
	report.Checks.MemberPaths = pathsOK

	type readMember struct {
		member  packmanifest.Member
		content []byte
	}
	readable := make(map[string]readMember, len(manifest.Members))
	visited := make(map[string]bool, len(manifest.Members))

	filesOK := true
	hashesOK := true
	for _, m := range manifest.Members {
		if visited[m.Path] {
			continue // already reported via member_paths
		}
		visited[m.Path] = true

		fullPath := filepath.Join(packDir, filepath.FromSlash(m.Path))
		info, err := os.Lstat(fullPath)
		if err != nil {
			filesOK = false
			report.Findings = append(report.Findings, refusal.Finding{Code: refusal.FindingMissingMember, Path: m.Path})
			continue
		}
		if !info.Mode().IsRegular() {
			filesOK = false
			report.Findings = append(report.Findings, refusal.Finding{Code: refusal.FindingNonRegularMember, Path: m.Path})
			continue
		}

		content, err := os.ReadFile(fullPath)
		if err != nil {
			filesOK = false
			report.Findings = append(report.Findings, refusal.Finding{Code: refusal.FindingMissingMember, Path: m.Path})
			continue
		}

		actualHash := digestutil.FromBytes(content).String()
		if actualHash != m.BytesHash {
			hashesOK = false
			report.Findings = append(report.Findings, refusal.Finding{
				Code:     refusal.FindingHashMismatch,
				Path:     m.Path,
				Expected: m.BytesHash,
				Actual:   actualHash,
			})
		}

		readable[m.Path] = readMember{member: m, content: content}
	}
	report.Checks.MemberFiles = filesOK
	report.Checks.MemberHashes = hashesOK

	recomputed, err := packmanifest.SelfHashOfRaw(raw)
	if err != nil {
		return nil, refuse(VerifySchemaVersion, refusal.CodeBadPack, fmt.Sprintf("recomputing pack_id: %v", err), nil)
	}
	report.Checks.PackID = recomputed == manifest.PackID
	if !report.Checks.PackID {
		report.Findings = append(report.Findings, refusal.Finding{
			Code:     refusal.FindingPackIDMismatch,
			Expected: manifest.PackID,
			Actual:   recomputed,
		})
	}

	declared := make(map[string]bool, len(manifest.Members))
	for _, m := range manifest.Members {
		declared[m.Path] = true
	}
	actualFiles, err := walkRegularFiles(packDir)
	if err != nil {
		return nil, refuse(VerifySchemaVersion, refusal.CodeIO, fmt.Sprintf("walking pack directory: %v", err), nil)
	}
	extrasOK := true
	for _, p := range actualFiles {
		if p == packmanifest.ReservedMemberPath || declared[p] {
			continue
		}
		extrasOK = false
		report.Findings = append(report.Findings, refusal.Finding{Code: refusal.FindingExtraMember, Path: p})
	}
	report.Checks.ExtraMembers = extrasOK

	anyApplicable := false
	schemaOK := true
	for _, m := range manifest.Members {
		if m.ArtifactVersion == nil || *m.ArtifactVersion == "" {
			continue
		}
		rm, ok := readable[m.Path]
		if !ok {
			continue
		}
		anyApplicable = true
		ok2, reason := validateSchema(*m.ArtifactVersion, rm.content)
		if !ok2 {
			schemaOK = false
			report.Findings = append(report.Findings, refusal.Finding{
				Code:   refusal.FindingSchemaViolation,
				Path:   m.Path,
				Actual: reason,
			})
		}
	}
	switch {
	case !anyApplicable:
		report.Schema = SchemaSkipped
	case schemaOK:
		report.Schema = SchemaPass
	default:
		report.Schema = SchemaFail
	}

	if len(report.Findings) > 0 {
		report.Outcome = "INVALID"
	} else {
		report.Outcome = "OK"
	}
	return report, nil
}

// walkRegularFiles returns the POSIX-style relative paths of every regular
// file under root, sorted ascending, skipping symlinks and other
// non-regular entries (they play no part in the closure invariant I6).
func walkRegularFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
