// Package config resolves the one piece of runtime environment this
// system reads: the witness ledger path override. Grounded on
// configuration/parser.go's "resolve once, explicit override, pass down"
// discipline, scaled to a single environment variable per spec.md §6/§9
// (isolate wall-clock/environment reads behind a small injectable
// context rather than reading them deep in the call stack).
package config

import (
	"os"
	"path/filepath"

	"github.com/epistemic/pack/witness"
)

// EnvWitnessPath is the environment variable spec.md §6 names for
// overriding the witness ledger location.
const EnvWitnessPath = "EPISTEMIC_WITNESS"

// WitnessPath resolves the ledger path: the EPISTEMIC_WITNESS environment
// variable if set, else <home>/.epistemic/witness.jsonl.
func WitnessPath() (string, error) {
	if p := os.Getenv(EnvWitnessPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, filepath.FromSlash(witness.DefaultRelativePath)), nil
}
