package witness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/epistemic/pack/dlog"
)

// DefaultRelativePath is appended to the caller's home directory when
// EPISTEMIC_WITNESS is unset, per spec.md §6.
const DefaultRelativePath = ".epistemic/witness.jsonl"

// Append writes one fully-formed record line to path, creating the file
// (and its parent directory) if necessary, and flushing before returning.
// Per spec.md §9, records are never buffered across calls: each Append is
// a single open-write-close cycle.
func Append(path string, rec Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("witness: creating ledger directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("witness: opening ledger: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("witness: encoding record: %w", err)
	}
	line = append(line, '\n')

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("witness: writing record: %w", err)
	}
	return f.Sync()
}

// AppendOrWarn appends rec to path and, on failure, logs a single warning
// instead of propagating the error — per spec.md §7 layer 3, a
// witness-append failure never changes a domain operation's exit code.
// The warning carries rec's command and, when known, its pack_id as
// structured fields, mirroring dcontext.GetLoggerWithField's discipline
// of attaching context at the log call rather than threading it through
// string formatting.
func AppendOrWarn(logger dlog.Logger, path string, rec Record) {
	if err := Append(path, rec); err != nil {
		l := logger.WithField("op", rec.Command)
		if rec.PackID != nil {
			l = l.WithField("pack_id", *rec.PackID)
		}
		l.WithError(err).Warn("witness: failed to append ledger record")
	}
}
