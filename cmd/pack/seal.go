package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/epistemic/pack/pack"
	"github.com/epistemic/pack/version"
	"github.com/epistemic/pack/witness"
)

var (
	sealOutput string
	sealNote   string
)

var sealCmd = &cobra.Command{
	Use:   "seal <artifacts...>",
	Short: "Seals the given artifacts into a new evidence pack",
	Run: func(cmd *cobra.Command, args []string) {
		var note *string
		if sealNote != "" {
			note = &sealNote
		}

		result, err := pack.Seal(args, pack.SealOptions{
			Output:      sealOutput,
			Note:        note,
			Created:     time.Now().UTC().Format(time.RFC3339),
			ToolVersion: version.String(),
		})
		if err != nil {
			handleRefusalAndExit("seal", err)
			return
		}

		packID := result.Manifest.PackID
		recordWitness("seal", witness.OutcomePackCreated, &packID)

		fmt.Printf("PACK_CREATED %s\n", result.PackDir)
		fmt.Printf("pack_id: %s\n", result.Manifest.PackID)
		os.Exit(0)
	},
}

func init() {
	sealCmd.Flags().StringVar(&sealOutput, "output", "", "pack directory to create; default pack/<pack_id>")
	sealCmd.Flags().StringVar(&sealNote, "note", "", "optional free-text annotation stored in the manifest")
}
