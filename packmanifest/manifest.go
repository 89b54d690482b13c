// Package packmanifest defines the pack manifest data model and implements
// the self-hash identifier contract of spec.md §3/§4.5: pack_id equals the
// SHA-256 of the canonical manifest encoding in which pack_id is the empty
// string.
//
// Grounded on manifest/schema2/manifest.go's pairing of a typed struct with
// a byte-exact canonical form (DeserializedManifest.canonical), adapted
// from Docker media types to this system's member/manifest shape.
package packmanifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/epistemic/pack/canonjson"
	"github.com/epistemic/pack/digestutil"
)

// FormatVersion is the only manifest format this system produces or
// accepts, per spec.md §3.
const FormatVersion = "pack.v0"

// ReservedMemberPath is the one path no member may declare.
const ReservedMemberPath = "manifest.json"

// Member is one entry in a Manifest's members list.
type Member struct {
	Path            string  `json:"path"`
	BytesHash       string  `json:"bytes_hash"`
	Type            string  `json:"type"`
	ArtifactVersion *string `json:"artifact_version,omitempty"`
}

// Manifest is the pack's self-describing root document, per spec.md §3.
type Manifest struct {
	Version     string   `json:"version"`
	PackID      string   `json:"pack_id"`
	Created     string   `json:"created"`
	Note        *string  `json:"note,omitempty"`
	ToolVersion string   `json:"tool_version"`
	Members     []Member `json:"members"`
	MemberCount int      `json:"member_count"`
}

// ToRaw produces the generic JSON value form of m, matching exactly what
// decoding m's JSON serialization into map[string]any would produce
// (modulo json.Number vs float for integers, which canonjson handles
// directly). This is the shape fed to canonjson for the self-hash.
func (m Manifest) ToRaw() map[string]any {
	raw := map[string]any{
		"version":      m.Version,
		"pack_id":      m.PackID,
		"created":      m.Created,
		"tool_version": m.ToolVersion,
		"members":      membersToRaw(m.Members),
		"member_count": m.MemberCount,
	}
	if m.Note != nil {
		raw["note"] = *m.Note
	}
	return raw
}

func membersToRaw(members []Member) []any {
	out := make([]any, len(members))
	for i, mem := range members {
		v := map[string]any{
			"path":       mem.Path,
			"bytes_hash": mem.BytesHash,
			"type":       mem.Type,
		}
		if mem.ArtifactVersion != nil {
			v["artifact_version"] = *mem.ArtifactVersion
		}
		out[i] = v
	}
	return out
}

// SelfHashOfRaw implements the self-hash contract directly over a generic
// JSON value (as produced by ParseRaw), independent of the typed Manifest
// struct. The verifier uses this form, re-deriving the hash from whatever
// bytes are actually on disk rather than from a reparsed-then-retyped
// struct, so a verify pass can never mask a typed-decode quirk.
func SelfHashOfRaw(raw map[string]any) (string, error) {
	cloned := make(map[string]any, len(raw))
	for k, v := range raw {
		cloned[k] = v
	}
	cloned["pack_id"] = ""

	encoded, err := canonjson.Encode(cloned)
	if err != nil {
		return "", fmt.Errorf("packmanifest: canonical encoding: %w", err)
	}
	return digestutil.FromBytes(encoded).String(), nil
}

// SelfHash computes m's pack_id per the self-hash contract.
func (m Manifest) SelfHash() (string, error) {
	return SelfHashOfRaw(m.ToRaw())
}

// ParseRaw decodes manifest JSON bytes into a generic value, using
// json.Number for numeric fields so integers round-trip exactly through
// canonjson without float precision loss.
func ParseRaw(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ParseManifest decodes manifest JSON bytes into both the typed Manifest
// and the raw json.Number-preserving form SelfHashOfRaw needs, so a single
// read of manifest.json serves both the verifier's field checks and its
// pack_id re-derivation.
func ParseManifest(data []byte) (Manifest, map[string]any, error) {
	raw, err := ParseRaw(data)
	if err != nil {
		return Manifest{}, nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, nil, err
	}
	return m, raw, nil
}

// Finalize assembles a Manifest from already-classified members, sorting a
// copy of them by path (the input order does not matter), and computes its
// pack_id per the self-hash contract (spec.md §4.5 steps 2–3).
func Finalize(created, toolVersion string, note *string, members []Member) (Manifest, error) {
	sorted := make([]Member, len(members))
	copy(sorted, members)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	m := Manifest{
		Version:     FormatVersion,
		PackID:      "",
		Created:     created,
		Note:        note,
		ToolVersion: toolVersion,
		Members:     sorted,
		MemberCount: len(sorted),
	}

	hash, err := m.SelfHash()
	if err != nil {
		return Manifest{}, err
	}
	m.PackID = hash
	return m, nil
}

// MarshalPretty renders m as the human-readable on-disk form. Per spec.md
// §4.5 step 4, pretty-printing is acceptable for the stored copy; only the
// canonical form (ToRaw via canonjson) is load-bearing for the hash.
func (m Manifest) MarshalPretty() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
