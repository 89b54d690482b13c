package pack

import "github.com/epistemic/pack/refusal"

// VerifySchemaVersion tags verify reports, per spec.md §4.8.
const VerifySchemaVersion = "pack.verify.v0"

// DiffSchemaVersion tags diff reports, per spec.md §4.8.
const DiffSchemaVersion = "pack.diff.v0"

// SchemaStatus is the tri-state result of the schema-validation check,
// per spec.md §4.6.
type SchemaStatus string

const (
	SchemaPass    SchemaStatus = "pass"
	SchemaFail    SchemaStatus = "fail"
	SchemaSkipped SchemaStatus = "skipped"
)

// Checks is the per-check boolean vector spec.md §4.6 requires be
// reported individually, in the fixed order the checks run.
type Checks struct {
	ManifestParse bool `json:"manifest_parse"`
	MemberCount   bool `json:"member_count"`
	MemberPaths   bool `json:"member_paths"`
	MemberFiles   bool `json:"member_files"`
	MemberHashes  bool `json:"member_hashes"`
	PackID        bool `json:"pack_id"`
	ExtraMembers  bool `json:"extra_members"`
}

// VerifyReport is the structured outcome of Verify, per spec.md §4.6.
type VerifyReport struct {
	Version  string            `json:"version"`
	Outcome  string            `json:"outcome"` // "OK" | "INVALID"
	PackID   string            `json:"pack_id,omitempty"`
	Checks   Checks            `json:"checks"`
	Schema   SchemaStatus      `json:"schema_validation"`
	Findings []refusal.Finding `json:"findings"`
}

// MemberDiff describes one member-path's change in changed.
type MemberDiff struct {
	Path         string `json:"path"`
	ExpectedHash string `json:"expected_hash"`
	ActualHash   string `json:"actual_hash"`
}

// MemberRef names a member-path and the hash it carries in added/removed.
type MemberRef struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}

// DiffReport is the structured outcome of Diff, per spec.md §4.7.
type DiffReport struct {
	Version   string       `json:"version"`
	Outcome   string       `json:"outcome"` // "NO_CHANGES" | "CHANGES"
	Added     []MemberRef  `json:"added"`
	Removed   []MemberRef  `json:"removed"`
	Changed   []MemberDiff `json:"changed"`
	Unchanged int          `json:"unchanged"`
}
