package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mocodigi",
		Short: "Specimen label digitization reconciliation tool",
		Long: `Mocodigi reconciles the outputs of a specimen label digitization pipeline.

It fuses per-image transcript fragments into a single label text, votes
consensus Darwin Core records from repeated field extractions, and scores
run output against hand-verified ground truth transcriptions.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newReconcileCmd())
	cmd.AddCommand(newEvalCmd())

	return cmd
}
