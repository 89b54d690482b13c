// Package operator generates the static operator-description document the
// CLI prints for --describe. It is a thin, table-driven document emitter
// deliberately kept outside the core per spec.md §1 ("out of scope,
// specified only by the interfaces the core uses"): the table here
// describes the command surface, it does not touch packmanifest/pack.
//
// Grounded on registry/api/v2/descriptors.go's table-of-routes-and-methods
// shape, adapted from HTTP route descriptors to CLI sub-command
// descriptors.
package operator

import (
	"fmt"
	"sort"
	"strings"
)

// Flag documents one command-line flag.
type Flag struct {
	Name        string
	Description string
}

// Command documents one sub-command's usage, outcomes, and flags.
type Command struct {
	Use         string
	Description string
	Flags       []Flag
	Success     string
	Failure     string
	Refusals    []string
}

// Commands is the exhaustive, compile-time table describing pack's command
// surface. It is the single source --describe renders from.
var Commands = []Command{
	{
		Use:         "seal <artifacts...> [--output DIR] [--note STR]",
		Description: "Seals the given artifacts into a new, self-verifying evidence pack.",
		Flags: []Flag{
			{Name: "--output DIR", Description: "pack directory to create; default pack/<pack_id>"},
			{Name: "--note STR", Description: "optional free-text annotation stored in the manifest"},
		},
		Success:  "PACK_CREATED",
		Refusals: []string{"E_EMPTY", "E_IO", "E_DUPLICATE"},
	},
	{
		Use:         "verify <pack-dir> [--json]",
		Description: "Re-derives every fact a pack's manifest asserts and reports findings for any mismatch.",
		Flags: []Flag{
			{Name: "--json", Description: "print the verify report as JSON instead of a human summary"},
		},
		Success:  "OK",
		Failure:  "INVALID",
		Refusals: []string{"E_BAD_PACK", "E_IO"},
	},
	{
		Use:         "diff <a> <b> [--json]",
		Description: "Compares two finalized manifests by member-path and reports added/removed/changed/unchanged sets.",
		Flags: []Flag{
			{Name: "--json", Description: "print the diff report as JSON instead of a human summary"},
		},
		Success:  "NO_CHANGES",
		Failure:  "CHANGES",
		Refusals: []string{"E_BAD_PACK"},
	},
	{
		Use:         "witness query|last|count [--json] [--command STR] [--outcome STR] [--since TIME]",
		Description: "Reads the append-only witness ledger: query streams matching records, last prints the most recent, count reports how many match.",
		Flags: []Flag{
			{Name: "--json", Description: "print records as JSON (query/last) or a bare integer (count)"},
			{Name: "--command STR", Description: "filter by recorded command name"},
			{Name: "--outcome STR", Description: "filter by recorded outcome"},
			{Name: "--since TIME", Description: "filter to records at or after this RFC3339 instant"},
		},
		Success: "OK",
	},
}

// GlobalFlags documents the persistent flags registered on the root
// command, outside any sub-command's own flag set.
var GlobalFlags = []Flag{
	{Name: "--describe", Description: "print this document and exit"},
	{Name: "--schema", Description: "print the JSON Schema for pack.v0, pack.verify.v0, and pack.diff.v0 and exit"},
	{Name: "--no-witness", Description: "suppress the witness ledger append for this invocation"},
}

// Describe renders the full operator document as plain text.
func Describe() string {
	var b strings.Builder
	fmt.Fprintln(&b, "pack - seal, verify, and diff content-addressed evidence packs")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Exit codes: 0 domain success, 1 domain failure, 2 refusal.")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Global flags:")
	for _, f := range GlobalFlags {
		fmt.Fprintf(&b, "  %-14s %s\n", f.Name, f.Description)
	}

	for _, c := range Commands {
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "pack %s\n", c.Use)
		fmt.Fprintf(&b, "  %s\n", c.Description)
		if len(c.Flags) > 0 {
			fmt.Fprintln(&b, "  Flags:")
			for _, f := range c.Flags {
				fmt.Fprintf(&b, "    %-14s %s\n", f.Name, f.Description)
			}
		}
		if c.Success != "" {
			fmt.Fprintf(&b, "  Success: %s\n", c.Success)
		}
		if c.Failure != "" {
			fmt.Fprintf(&b, "  Failure: %s\n", c.Failure)
		}
		if len(c.Refusals) > 0 {
			codes := append([]string(nil), c.Refusals...)
			sort.Strings(codes)
			fmt.Fprintf(&b, "  Refusals: %s\n", strings.Join(codes, ", "))
		}
	}
	return b.String()
}
