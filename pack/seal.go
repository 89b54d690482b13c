// Package pack orchestrates the three domain operations spec.md names:
// Seal, Verify, and Diff. It wires together collect, copier, classify, and
// packmanifest in the fixed order spec.md §5 mandates, and implements the
// atomic staging-to-final promotion of spec.md §4.5.
package pack

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/epistemic/pack/classify"
	"github.com/epistemic/pack/collect"
	"github.com/epistemic/pack/copier"
	"github.com/epistemic/pack/packmanifest"
	"github.com/epistemic/pack/refusal"
)

// SealSchemaVersion tags refusal envelopes produced during seal.
const SealSchemaVersion = "pack.seal.v0"

// SealOptions are the caller-supplied, injectable parameters spec.md §9
// requires be isolated from direct wall-clock/environment reads: the
// instant to stamp as "created", the builder's own version, and an
// optional output directory and note.
type SealOptions struct {
	Output      string
	Note        *string
	Created     string // RFC3339 UTC
	ToolVersion string
}

// SealResult is the successful outcome of Seal.
type SealResult struct {
	Manifest packmanifest.Manifest
	PackDir  string
}

// Seal builds an evidence pack from inputs, following the fixed sequence
// of spec.md §2/§5: collect → collision-check → copy+hash → classify →
// finalize → write manifest → promote. Any failure before promotion
// leaves no target directory behind (spec.md §4.5/§7).
func Seal(inputs []string, opts SealOptions) (*SealResult, error) {
	candidates, err := collect.Collect(inputs)
	if err != nil {
		return nil, sealRefusalFromCollectError(err)
	}

	if err := collect.CheckCollisions(candidates); err != nil {
		return nil, sealRefusalFromCollectError(err)
	}

	stagingDir, err := os.MkdirTemp("", "pack-staging-*")
	if err != nil {
		return nil, refuse(SealSchemaVersion, refusal.CodeIO, fmt.Sprintf("creating staging directory: %v", err), nil)
	}
	// Staging is only ever consumed by rename or explicitly removed; on
	// any early return below it is cleaned up here so a failed seal never
	// leaves an orphan directory.
	cleanupStaging := true
	defer func() {
		if cleanupStaging {
			os.RemoveAll(stagingDir)
		}
	}()

	members := make([]packmanifest.Member, 0, len(candidates))
	for _, c := range candidates {
		rec, err := copier.CopyOne(c.Source, stagingDir, c.MemberPath)
		if err != nil {
			return nil, refuse(SealSchemaVersion, refusal.CodeIO, fmt.Sprintf("copying %s: %v", c.MemberPath, err), &refusal.Detail{Path: c.MemberPath})
		}

		content, err := os.ReadFile(filepath.Join(stagingDir, filepath.FromSlash(rec.MemberPath)))
		if err != nil {
			return nil, refuse(SealSchemaVersion, refusal.CodeIO, fmt.Sprintf("re-reading %s for classification: %v", c.MemberPath, err), &refusal.Detail{Path: c.MemberPath})
		}

		result := classify.Classify(rec.MemberPath, content)
		member := packmanifest.Member{
			Path:      rec.MemberPath,
			BytesHash: rec.BytesHash,
			Type:      string(result.Type),
		}
		if result.ArtifactVersion != "" {
			av := result.ArtifactVersion
			member.ArtifactVersion = &av
		}
		members = append(members, member)
	}

	manifest, err := packmanifest.Finalize(opts.Created, opts.ToolVersion, opts.Note, members)
	if err != nil {
		return nil, refuse(SealSchemaVersion, refusal.CodeIO, fmt.Sprintf("finalizing manifest: %v", err), nil)
	}

	pretty, err := manifest.MarshalPretty()
	if err != nil {
		return nil, refuse(SealSchemaVersion, refusal.CodeIO, fmt.Sprintf("rendering manifest: %v", err), nil)
	}
	if err := writeManifestAtomically(filepath.Join(stagingDir, "manifest.json"), pretty); err != nil {
		return nil, refuse(SealSchemaVersion, refusal.CodeIO, fmt.Sprintf("writing manifest.json: %v", err), nil)
	}

	targetDir := opts.Output
	if targetDir == "" {
		targetDir = filepath.Join("pack", manifest.PackID)
	}

	nonEmpty, err := targetNonEmpty(targetDir)
	if err != nil {
		return nil, refuse(SealSchemaVersion, refusal.CodeIO, fmt.Sprintf("inspecting target directory: %v", err), &refusal.Detail{Path: targetDir})
	}
	if nonEmpty {
		return nil, refuse(SealSchemaVersion, refusal.CodeIO, fmt.Sprintf("target directory %s already exists and is non-empty", targetDir), &refusal.Detail{Path: targetDir})
	}

	if err := promote(stagingDir, targetDir); err != nil {
		return nil, refuse(SealSchemaVersion, refusal.CodeIO, err.Error(), &refusal.Detail{Path: targetDir})
	}
	cleanupStaging = false // consumed by promote (renamed or copied-then-removed)

	return &SealResult{Manifest: manifest, PackDir: targetDir}, nil
}

// writeManifestAtomically writes manifest.json via renameio's
// pending-file-then-atomic-rename sequence: fsync before rename so a
// crash mid-write never leaves a half-written manifest.json inside
// staging.
func writeManifestAtomically(path string, data []byte) error {
	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("creating pending manifest file: %w", err)
	}
	defer pendingFile.Cleanup()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("writing pending manifest file: %w", err)
	}
	return pendingFile.CloseAtomicallyReplace()
}

func sealRefusalFromCollectError(err error) error {
	switch e := err.(type) {
	case *collect.DuplicateError:
		return refuse(SealSchemaVersion, refusal.CodeDuplicate, e.Error(), &refusal.Detail{
			Path:        e.MemberPath,
			Sources:     e.Sources,
			NextCommand: fmt.Sprintf("rename one of %v so the member paths no longer collide, then re-run seal", e.Sources),
		})
	case *collect.NonRegularError:
		return refuse(SealSchemaVersion, refusal.CodeIO, e.Error(), &refusal.Detail{Path: e.Path})
	default:
		if err == collect.ErrEmpty {
			return refuse(SealSchemaVersion, refusal.CodeEmpty, err.Error(), nil)
		}
		return refuse(SealSchemaVersion, refusal.CodeIO, err.Error(), nil)
	}
}
