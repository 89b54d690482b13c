package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/epistemic/pack/config"
	"github.com/epistemic/pack/dlog"
	"github.com/epistemic/pack/pack"
	"github.com/epistemic/pack/witness"
)

var logger = dlog.New()

// recordWitness appends an operation outcome to the witness ledger unless
// --no-witness was given, per spec.md §6/§9. A resolution or append
// failure degrades to a warning (spec.md §7 layer 3); it never changes
// the caller's exit code. Every log line from this call stamps "op" (and
// "pack_id" when known) as structured fields, mirroring
// dcontext.GetLoggerWithField's call-site field attachment.
func recordWitness(command string, outcome witness.Outcome, packID *string) {
	if noWitnessFlag {
		return
	}
	opLogger := logger.WithField("op", command)
	if packID != nil {
		opLogger = opLogger.WithField("pack_id", *packID)
	}

	path, err := config.WitnessPath()
	if err != nil {
		opLogger.WithError(err).Warn("witness: resolving ledger path")
		return
	}
	rec := witness.New(command, outcome, packID, time.Now())
	witness.AppendOrWarn(opLogger, path, rec)
}

// handleRefusalAndExit prints a refusal envelope and exits with intent 2.
// It is called in place of a normal result print whenever a core
// operation returns a *pack.RefusalError.
func handleRefusalAndExit(command string, err error) {
	var refusalErr *pack.RefusalError
	if !errors.As(err, &refusalErr) {
		fmt.Fprintf(os.Stderr, "pack: %s: %v\n", command, err)
		os.Exit(2)
	}

	recordWitness(command, witness.OutcomeRefusal, nil)

	data, marshalErr := json.MarshalIndent(refusalErr.Envelope, "", "  ")
	if marshalErr != nil {
		fmt.Fprintln(os.Stderr, refusalErr.Error())
	} else {
		fmt.Fprintln(os.Stderr, string(data))
	}
	os.Exit(2)
}
