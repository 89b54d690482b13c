package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/epistemic/pack/pack"
	"github.com/epistemic/pack/witness"
)

var verifyJSON bool

var verifyCmd = &cobra.Command{
	Use:   "verify <pack-dir>",
	Short: "Re-derives every fact a pack's manifest asserts and reports findings for any mismatch",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		report, err := pack.Verify(args[0])
		if err != nil {
			handleRefusalAndExit("verify", err)
			return
		}

		outcome := witness.OutcomeOK
		if report.Outcome == "INVALID" {
			outcome = witness.OutcomeInvalid
		}
		var packID *string
		if report.PackID != "" {
			packID = &report.PackID
		}
		recordWitness("verify", outcome, packID)

		if verifyJSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "pack: verify: rendering report: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
		} else {
			printVerifyHuman(report)
		}

		if report.Outcome == "OK" {
			os.Exit(0)
		}
		os.Exit(1)
	},
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "print the verify report as JSON")
}

func printVerifyHuman(report *pack.VerifyReport) {
	fmt.Println(report.Outcome)
	fmt.Printf("schema_validation: %s\n", report.Schema)
	for _, f := range report.Findings {
		fmt.Printf("  %s %s expected=%q actual=%q\n", f.Code, f.Path, f.Expected, f.Actual)
	}
}
