package witness

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Filter narrows a ledger scan. Zero-valued fields impose no constraint.
// This and the three accessor functions below implement the supplemented
// "witness query|last|count" feature of SPEC_FULL.md §10, left
// unspecified by spec.md itself.
type Filter struct {
	Command string
	Outcome Outcome
	Since   time.Time
}

func (f Filter) matches(r Record) bool {
	if f.Command != "" && r.Command != f.Command {
		return false
	}
	if f.Outcome != "" && r.Outcome != f.Outcome {
		return false
	}
	if !f.Since.IsZero() {
		ts, err := time.Parse("2006-01-02T15:04:05.000Z07:00", r.Timestamp)
		if err != nil || ts.Before(f.Since) {
			return false
		}
	}
	return true
}

// Query reads every record in path matching filter, oldest first (the
// ledger's natural append order).
func Query(path string, filter Filter) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("witness: opening ledger: %w", err)
	}
	defer f.Close()

	var out []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("witness: malformed ledger line: %w", err)
		}
		if filter.matches(rec) {
			out = append(out, rec)
		}
	}
	if err := sc.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("witness: reading ledger: %w", err)
	}
	return out, nil
}

// Last returns the most recently appended record matching filter, or nil
// if the ledger is absent or has no matching record.
func Last(path string, filter Filter) (*Record, error) {
	records, err := Query(path, filter)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[len(records)-1], nil
}

// Count returns the number of records matching filter.
func Count(path string, filter Filter) (int, error) {
	records, err := Query(path, filter)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}
