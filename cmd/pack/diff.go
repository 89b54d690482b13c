package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/epistemic/pack/pack"
	"github.com/epistemic/pack/witness"
)

var diffJSON bool

var diffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Compares two finalized manifests by member-path",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		report, err := pack.DiffPaths(args[0], args[1])
		if err != nil {
			handleRefusalAndExit("diff", err)
			return
		}

		outcome := witness.OutcomeOK
		if report.Outcome == "CHANGES" {
			outcome = witness.OutcomeInvalid
		}
		recordWitness("diff", outcome, nil)

		if diffJSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "pack: diff: rendering report: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
		} else {
			printDiffHuman(report)
		}

		if report.Outcome == "NO_CHANGES" {
			os.Exit(0)
		}
		os.Exit(1)
	},
}

func init() {
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "print the diff report as JSON")
}

func printDiffHuman(report *pack.DiffReport) {
	fmt.Println(report.Outcome)
	for _, m := range report.Added {
		fmt.Printf("  + %s %s\n", m.Path, m.Hash)
	}
	for _, m := range report.Removed {
		fmt.Printf("  - %s %s\n", m.Path, m.Hash)
	}
	for _, m := range report.Changed {
		fmt.Printf("  ~ %s %s -> %s\n", m.Path, m.ExpectedHash, m.ActualHash)
	}
	fmt.Printf("  unchanged: %d\n", report.Unchanged)
}
