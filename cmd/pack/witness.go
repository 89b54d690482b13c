package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/epistemic/pack/config"
	w "github.com/epistemic/pack/witness"
)

var (
	witnessJSON    bool
	witnessCommand string
	witnessOutcome string
	witnessSince   string
)

// witnessCmd is the parent for the supplemented query/last/count
// sub-commands of SPEC_FULL.md §10 point 1; spec.md §6 names them but
// leaves their semantics to be filled in here.
var witnessCmd = &cobra.Command{
	Use:   "witness",
	Short: "Reads the append-only witness ledger",
}

var witnessQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Streams every ledger record matching the given filters, oldest first",
	Run: func(cmd *cobra.Command, args []string) {
		records, err := w.Query(resolveWitnessPath(), witnessFilter())
		if err != nil {
			fmt.Fprintf(os.Stderr, "pack: witness query: %v\n", err)
			os.Exit(1)
		}
		for _, rec := range records {
			printWitnessRecord(rec)
		}
		os.Exit(0)
	},
}

var witnessLastCmd = &cobra.Command{
	Use:   "last",
	Short: "Prints the most recent ledger record matching the given filters",
	Run: func(cmd *cobra.Command, args []string) {
		rec, err := w.Last(resolveWitnessPath(), witnessFilter())
		if err != nil {
			fmt.Fprintf(os.Stderr, "pack: witness last: %v\n", err)
			os.Exit(1)
		}
		if rec == nil {
			os.Exit(0)
		}
		printWitnessRecord(*rec)
		os.Exit(0)
	},
}

var witnessCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Prints the number of ledger records matching the given filters",
	Run: func(cmd *cobra.Command, args []string) {
		n, err := w.Count(resolveWitnessPath(), witnessFilter())
		if err != nil {
			fmt.Fprintf(os.Stderr, "pack: witness count: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(n)
		os.Exit(0)
	},
}

func init() {
	for _, c := range []*cobra.Command{witnessQueryCmd, witnessLastCmd, witnessCountCmd} {
		c.Flags().BoolVar(&witnessJSON, "json", false, "print records as JSON instead of one summary line each")
		c.Flags().StringVar(&witnessCommand, "command", "", "filter by recorded command name")
		c.Flags().StringVar(&witnessOutcome, "outcome", "", "filter by recorded outcome")
		c.Flags().StringVar(&witnessSince, "since", "", "filter to records at or after this RFC3339 instant")
	}
	witnessCmd.AddCommand(witnessQueryCmd, witnessLastCmd, witnessCountCmd)
}

func resolveWitnessPath() string {
	path, err := config.WitnessPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pack: witness: resolving ledger path: %v\n", err)
		os.Exit(1)
	}
	return path
}

func witnessFilter() w.Filter {
	filter := w.Filter{
		Command: witnessCommand,
		Outcome: w.Outcome(witnessOutcome),
	}
	if witnessSince != "" {
		since, err := time.Parse(time.RFC3339, witnessSince)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pack: witness: invalid --since %q: %v\n", witnessSince, err)
			os.Exit(1)
		}
		filter.Since = since
	}
	return filter
}

func printWitnessRecord(rec w.Record) {
	if witnessJSON {
		data, err := json.Marshal(rec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pack: witness: rendering record: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}
	packID := "-"
	if rec.PackID != nil {
		packID = *rec.PackID
	}
	fmt.Printf("%s %s %s %s %s\n", rec.Timestamp, rec.Command, rec.Outcome, packID, rec.Version)
}
