// Package classify maps a member's path and bytes to a MemberType and
// optional artifact version marker. It has no I/O beyond the bytes it is
// given and is deterministic: the same (path, bytes) pair always classifies
// identically.
//
// The precedence order mirrors the teacher's media-type dispatch
// (distribution.RegisterManifestSchema: register a marker, look it up) but
// is a closed compile-time table rather than a runtime registry, since
// spec.md §4.2 defines a fixed, exhaustive precedence.
package classify

import (
	"bufio"
	"bytes"
	"encoding/json"
	"path"
	"strings"
	"unicode/utf8"
)

// MemberType is one of the eight classification tags spec.md §3 allows.
type MemberType string

const (
	TypeLockfile MemberType = "lockfile"
	TypeReport   MemberType = "report"
	TypeArtifact MemberType = "artifact"
	TypeRules    MemberType = "rules"
	TypePack     MemberType = "pack"
	TypeProfile  MemberType = "profile"
	TypeRegistry MemberType = "registry"
	TypeOther    MemberType = "other"
)

// markerTable maps a recognized "version" field value to the type it
// asserts. This is the single source of truth for precedence rule 1 in
// spec.md §4.2.
var markerTable = map[string]MemberType{
	"lock.v0":         TypeLockfile,
	"rvl.v0":          TypeReport,
	"shape.v0":        TypeReport,
	"verify.v0":       TypeReport,
	"compare.v0":      TypeReport,
	"canon.v0":        TypeArtifact,
	"assess.v0":       TypeArtifact,
	"verify.rules.v0": TypeRules,
	"pack.v0":         TypePack,
}

// tabularExtensions are the "tabular extension" suffixes rule 4 refers to.
var tabularExtensions = []string{".csv", ".tsv"}

// Result is the outcome of classifying one member.
type Result struct {
	Type            MemberType
	ArtifactVersion string // empty when rule 1 did not match
}

// Classify applies the precedence order of spec.md §4.2 to the given
// member path and bytes.
func Classify(memberPath string, content []byte) Result {
	if r, ok := classifyByVersionMarker(content); ok {
		return r
	}
	if isProfileJSON(content) {
		return Result{Type: TypeProfile}
	}
	if isProfileText(content) {
		return Result{Type: TypeProfile}
	}
	if isRegistryPath(memberPath) {
		return Result{Type: TypeRegistry}
	}
	return Result{Type: TypeOther}
}

func classifyByVersionMarker(content []byte) (Result, bool) {
	var probe struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(content, &probe); err != nil {
		return Result{}, false
	}
	if probe.Version == "" {
		return Result{}, false
	}
	// A JSON object must have been decoded, not an array/string/number —
	// json.Unmarshal into a struct silently ignores non-object top-levels
	// only if they fail entirely, so also confirm the top level is an
	// object.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		return Result{}, false
	}
	if _, hasVersion := raw["version"]; !hasVersion {
		return Result{}, false
	}
	typ, ok := markerTable[probe.Version]
	if !ok {
		return Result{}, false
	}
	return Result{Type: typ, ArtifactVersion: probe.Version}, true
}

func isProfileJSON(content []byte) bool {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		return false
	}
	_, hasSchema := raw["schema_version"]
	_, hasProfile := raw["profile_id"]
	return hasSchema && hasProfile
}

func isProfileText(content []byte) bool {
	if !isUTF8Text(content) {
		return false
	}
	sawSchema, sawProfile := false, false
	sc := bufio.NewScanner(bytes.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "schema_version:"):
			sawSchema = true
		case strings.HasPrefix(line, "profile_id:"):
			sawProfile = true
		}
	}
	return sawSchema && sawProfile
}

func isUTF8Text(content []byte) bool {
	if !utf8.Valid(content) {
		return false
	}
	for _, b := range content {
		if b == 0 {
			return false
		}
	}
	return true
}

func isRegistryPath(memberPath string) bool {
	if path.Base(memberPath) == "registry.json" {
		return true
	}
	segments := strings.Split(memberPath, "/")
	for _, seg := range segments {
		if seg == "registry" {
			return true
		}
	}
	ext := strings.ToLower(path.Ext(memberPath))
	hasTabularExt := false
	for _, e := range tabularExtensions {
		if ext == e {
			hasTabularExt = true
			break
		}
	}
	if !hasTabularExt {
		return false
	}
	for _, seg := range segments {
		if strings.Contains(strings.ToLower(seg), "registry") {
			return true
		}
	}
	return false
}
