package reconcilecmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikkohei13/mocodigi/internal/consensus"
	"github.com/mikkohei13/mocodigi/internal/specimen"
)

// NewVoteCmd creates the vote command for building consensus Darwin Core
// records from repeated extractions
func NewVoteCmd() *cobra.Command {
	var imagesDir string
	var runVersion string
	var listFields []string
	var force bool

	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Vote a consensus record from repeated field extractions",
		Long: `Build a consensus Darwin Core record for each specimen by majority vote
over the run's extraction artifacts (darwin_core*.json).

Values are compared case-insensitively with collector connectors (" et " and
" & ") treated as equal, and missing, null and empty values vote together as
absent. List fields are compared as semicolon-separated sets, so the same
names in a different order still agree. Each field's agreement ratio is
recorded alongside the winning value.`,
		Example: `  # Vote consensus records for run h1
  mocodigi reconcile vote --images-dir ./images --run h1

  # Treat both recordedBy and higherGeography as list fields
  mocodigi reconcile vote --images-dir ./images --run h1 --list-fields recordedBy,higherGeography`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeVote(imagesDir, runVersion, listFields, force)
		},
	}

	cmd.Flags().StringVar(&imagesDir, "images-dir", "./images", "Directory containing specimen folders")
	cmd.Flags().StringVar(&runVersion, "run", "", "Run version whose extractions to vote over (required)")
	cmd.Flags().StringSliceVar(&listFields, "list-fields", []string{"recordedBy"}, "Fields compared as semicolon-separated sets")
	cmd.Flags().BoolVar(&force, "force", false, "Re-vote specimens that already have a consensus")

	_ = cmd.MarkFlagRequired("run")
	return cmd
}

func executeVote(imagesDir, runVersion string, listFields []string, force bool) error {
	slog.Info("Starting vote run", "images", imagesDir, "run", runVersion, "list_fields", strings.Join(listFields, ","))

	specimenDirs, err := specimen.ListSpecimenDirs(imagesDir)
	if err != nil {
		return fmt.Errorf("failed to list specimens: %w", err)
	}

	listFieldSet := make(map[string]bool, len(listFields))
	for _, field := range listFields {
		listFieldSet[field] = true
	}

	settings := specimen.Settings{
		RunVersion: runVersion,
		Model:      "majority-vote",
		Prompt:     "list_fields=" + strings.Join(listFields, ","),
	}

	var voted, skipped, failed int
	for _, dir := range specimenDirs {
		name := filepath.Base(dir)
		runDir := specimen.RunDir(dir, runVersion)

		if !force && specimen.ConsensusExists(runDir) {
			slog.Debug("Consensus exists, skipping", "specimen", name)
			skipped++
			continue
		}

		records, err := specimen.LoadExtractions(runDir)
		if err != nil {
			slog.Error("Failed to load extractions", "specimen", name, "error", err)
			failed++
			continue
		}
		if len(records) == 0 {
			slog.Debug("No extractions to vote over", "specimen", name)
			skipped++
			continue
		}

		report := consensus.Vote(records, listFieldSet)
		if _, err := specimen.SaveConsensus(runDir, report, settings); err != nil {
			slog.Error("Failed to save consensus", "specimen", name, "error", err)
			failed++
			continue
		}

		slog.Info("Voted consensus", "specimen", name, "extractions", len(records), "fields", len(report))
		printAgreement(name, len(records), report)
		voted++
	}

	fmt.Printf("\nVoted %d specimens (%d skipped, %d failed)\n", voted, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d specimens failed to vote", failed)
	}
	return nil
}

func printAgreement(name string, extractions int, report consensus.Report) {
	fmt.Printf("\n%s (%d extractions)\n", name, extractions)

	fields := make([]string, 0, len(report))
	for field := range report {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		fc := report[field]
		value := "<absent>"
		if fc.Value != nil {
			value = *fc.Value
		}
		fmt.Printf("  %-28s %5.1f%%  %s\n", field, fc.Agreement*100, value)
	}
}
