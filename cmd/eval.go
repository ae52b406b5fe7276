package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mikkohei13/mocodigi/internal/evalcmd"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Digitization accuracy evaluation tools",
		Long: `Evaluation tools for measuring digitization accuracy against ground truth.

Supports scoring a run's text output against hand-verified transcriptions
and generating detailed per-specimen reports.`,
	}

	// Add eval subcommands
	cmd.AddCommand(evalcmd.NewScoreCmd())
	cmd.AddCommand(evalcmd.NewReportCmd())

	return cmd
}
