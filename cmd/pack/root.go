package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/epistemic/pack/jsonschema"
	"github.com/epistemic/pack/operator"
)

var (
	describeFlag  bool
	schemaFlag    bool
	noWitnessFlag bool
)

// rootCmd is the main command for the 'pack' binary, grounded on
// registry/root.go's RootCmd shape: a cobra.Command whose own Run handles
// the global, subcommand-less flags, with domain operations registered
// as children.
var rootCmd = &cobra.Command{
	Use:   "pack",
	Short: "`pack` seals, verifies, and diffs content-addressed evidence packs",
	Long:  "`pack` seals, verifies, and diffs content-addressed evidence packs.",
	Run: func(cmd *cobra.Command, args []string) {
		switch {
		case describeFlag:
			fmt.Print(operator.Describe())
		case schemaFlag:
			printSchema()
		default:
			// nolint:errcheck
			cmd.Usage()
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&describeFlag, "describe", false, "print the operator description document and exit")
	rootCmd.PersistentFlags().BoolVar(&schemaFlag, "schema", false, "print the JSON Schema for pack.v0, pack.verify.v0, and pack.diff.v0 and exit")
	rootCmd.PersistentFlags().BoolVar(&noWitnessFlag, "no-witness", false, "suppress the witness ledger append for this invocation")

	rootCmd.AddCommand(sealCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(witnessCmd)
}

func printSchema() {
	data, err := jsonschema.MarshalAllIndent()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pack: rendering schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

// Execute runs the root command and returns the process exit code.
// Sub-command Run functions call os.Exit directly with the mapped domain
// exit intent (0/1/2), so a nonzero return here only covers cobra's own
// argument-parsing failures.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 2
	}
	return 0
}
