package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mikkohei13/mocodigi/internal/reconcilecmd"
)

func newReconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Transcript and extraction reconciliation tools",
		Long: `Reconciliation tools for combining the repeated outputs of a digitization run.

Supports seeding specimen folders from a reference dataset, fusing per-image
transcript fragments into one text per specimen, and voting consensus Darwin
Core records from repeated field extractions.`,
	}

	// Add reconcile subcommands
	cmd.AddCommand(reconcilecmd.NewInitCmd())
	cmd.AddCommand(reconcilecmd.NewMergeCmd())
	cmd.AddCommand(reconcilecmd.NewVoteCmd())

	return cmd
}
