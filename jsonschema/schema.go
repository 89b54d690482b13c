// Package jsonschema emits JSON Schema (draft 2020-12) documents for the
// three wire shapes pack's core produces: pack.v0 (a manifest),
// pack.verify.v0 (a verify report), and pack.diff.v0 (a diff report).
// The schemas are hand-built literals that use the same field names
// packmanifest and pack serialize; they are kept in step with those
// structs by hand, and no code derives one from the other.
//
// Grounded on registry/api/v2/descriptors.go's compiled-in, versioned
// route-and-body-description tables, adapted here to JSON Schema bodies
// instead of HTTP route descriptors.
package jsonschema

import "encoding/json"

const draft = "https://json-schema.org/draft/2020-12/schema"

// Document is a single named JSON Schema document.
type Document struct {
	ID     string
	Schema map[string]any
}

// memberSchema is the item schema of pack.v0's members array, inlined
// there; the diff report describes its member references separately.
var memberSchema = map[string]any{
	"type":     "object",
	"required": []any{"path", "bytes_hash", "type"},
	"properties": map[string]any{
		"path":             map[string]any{"type": "string"},
		"bytes_hash":       map[string]any{"type": "string", "pattern": "^sha256:[0-9a-f]{64}$"},
		"type":             map[string]any{"type": "string", "enum": []any{"lockfile", "report", "artifact", "rules", "pack", "profile", "registry", "other"}},
		"artifact_version": map[string]any{"type": "string"},
	},
	"additionalProperties": false,
}

// PackManifest returns the pack.v0 manifest schema.
func PackManifest() Document {
	return Document{
		ID: "pack.v0",
		Schema: map[string]any{
			"$schema": draft,
			"$id":     "pack.v0",
			"title":   "pack.v0 manifest",
			"type":    "object",
			"required": []any{
				"version", "pack_id", "created", "tool_version", "members", "member_count",
			},
			"properties": map[string]any{
				"version":      map[string]any{"const": "pack.v0"},
				"pack_id":      map[string]any{"type": "string", "pattern": "^(sha256:[0-9a-f]{64}|)$"},
				"created":      map[string]any{"type": "string", "format": "date-time"},
				"note":         map[string]any{"type": "string"},
				"tool_version": map[string]any{"type": "string", "minLength": 1},
				"members":      map[string]any{"type": "array", "items": memberSchema},
				"member_count": map[string]any{"type": "integer", "minimum": 0},
			},
			"additionalProperties": false,
		},
	}
}

// VerifyReport returns the pack.verify.v0 report schema.
func VerifyReport() Document {
	return Document{
		ID: "pack.verify.v0",
		Schema: map[string]any{
			"$schema": draft,
			"$id":     "pack.verify.v0",
			"title":   "pack.verify.v0 report",
			"type":    "object",
			"required": []any{
				"version", "outcome", "checks", "schema_validation", "findings",
			},
			"properties": map[string]any{
				"version": map[string]any{"const": "pack.verify.v0"},
				"outcome": map[string]any{"type": "string", "enum": []any{"OK", "INVALID"}},
				"pack_id": map[string]any{"type": "string"},
				"checks": map[string]any{
					"type": "object",
					"required": []any{
						"manifest_parse", "member_count", "member_paths",
						"member_files", "member_hashes", "pack_id", "extra_members",
					},
					"properties": map[string]any{
						"manifest_parse": map[string]any{"type": "boolean"},
						"member_count":   map[string]any{"type": "boolean"},
						"member_paths":   map[string]any{"type": "boolean"},
						"member_files":   map[string]any{"type": "boolean"},
						"member_hashes":  map[string]any{"type": "boolean"},
						"pack_id":        map[string]any{"type": "boolean"},
						"extra_members":  map[string]any{"type": "boolean"},
					},
					"additionalProperties": false,
				},
				"schema_validation": map[string]any{"type": "string", "enum": []any{"pass", "fail", "skipped"}},
				"findings": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []any{"code"},
						"properties": map[string]any{
							"code": map[string]any{
								"type": "string",
								"enum": []any{
									"MEMBER_COUNT_MISMATCH", "MISSING_MEMBER", "HASH_MISMATCH",
									"PACK_ID_MISMATCH", "DUPLICATE_MEMBER_PATH", "RESERVED_MEMBER_PATH",
									"UNSAFE_MEMBER_PATH", "NON_REGULAR_MEMBER", "EXTRA_MEMBER", "SCHEMA_VIOLATION",
								},
							},
							"path":     map[string]any{"type": "string"},
							"expected": map[string]any{"type": "string"},
							"actual":   map[string]any{"type": "string"},
						},
						"additionalProperties": false,
					},
				},
			},
			"additionalProperties": false,
		},
	}
}

// DiffReport returns the pack.diff.v0 report schema.
func DiffReport() Document {
	memberRef := map[string]any{
		"type":                 "object",
		"required":             []any{"path", "hash"},
		"properties":           map[string]any{"path": map[string]any{"type": "string"}, "hash": map[string]any{"type": "string"}},
		"additionalProperties": false,
	}
	memberDiff := map[string]any{
		"type":     "object",
		"required": []any{"path", "expected_hash", "actual_hash"},
		"properties": map[string]any{
			"path":          map[string]any{"type": "string"},
			"expected_hash": map[string]any{"type": "string"},
			"actual_hash":   map[string]any{"type": "string"},
		},
		"additionalProperties": false,
	}

	return Document{
		ID: "pack.diff.v0",
		Schema: map[string]any{
			"$schema": draft,
			"$id":     "pack.diff.v0",
			"title":   "pack.diff.v0 report",
			"type":    "object",
			"required": []any{
				"version", "outcome", "added", "removed", "changed", "unchanged",
			},
			"properties": map[string]any{
				"version":   map[string]any{"const": "pack.diff.v0"},
				"outcome":   map[string]any{"type": "string", "enum": []any{"NO_CHANGES", "CHANGES"}},
				"added":     map[string]any{"type": "array", "items": memberRef},
				"removed":   map[string]any{"type": "array", "items": memberRef},
				"changed":   map[string]any{"type": "array", "items": memberDiff},
				"unchanged": map[string]any{"type": "integer", "minimum": 0},
			},
			"additionalProperties": false,
		},
	}
}

// All returns every document --schema prints, in a stable order.
func All() []Document {
	return []Document{PackManifest(), VerifyReport(), DiffReport()}
}

// MarshalAllIndent renders All as a single pretty-printed JSON array,
// suitable for the CLI's --schema output.
func MarshalAllIndent() ([]byte, error) {
	docs := All()
	out := make([]map[string]any, len(docs))
	for i, d := range docs {
		out[i] = d.Schema
	}
	return json.MarshalIndent(out, "", "  ")
}
