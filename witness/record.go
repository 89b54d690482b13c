// Package witness implements the append-only, process-external operation
// ledger of spec.md §6/§9: one JSON object per line, one record per domain
// operation, surviving its own write failures.
//
// Grounded on internal/dcontext/logger.go's structured, one-record-per-event
// field conventions and original_source/src/witness/ledger.rs's append
// discipline.
package witness

import "time"

// FormatVersion is the witness record schema tag.
const FormatVersion = "witness.v0"

// Outcome is one of the four domain outcomes a witness record may carry.
type Outcome string

const (
	OutcomePackCreated Outcome = "PACK_CREATED"
	OutcomeOK          Outcome = "OK"
	OutcomeInvalid     Outcome = "INVALID"
	OutcomeRefusal     Outcome = "REFUSAL"
)

// Record is a single witness ledger line.
type Record struct {
	Version   string  `json:"version"`
	Tool      string  `json:"tool"`
	Command   string  `json:"command"`
	Outcome   Outcome `json:"outcome"`
	PackID    *string `json:"pack_id"`
	Timestamp string  `json:"timestamp"`
}

// New builds a Record for command/outcome, stamped with ts formatted as
// RFC3339 with millisecond precision in UTC, per spec.md §6. packID is nil
// for operations that have no pack_id to record (a diff, a refusal, or a
// verify whose manifest declares an empty pack_id).
func New(command string, outcome Outcome, packID *string, ts time.Time) Record {
	return Record{
		Version:   FormatVersion,
		Tool:      "pack",
		Command:   command,
		Outcome:   outcome,
		PackID:    packID,
		Timestamp: ts.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
