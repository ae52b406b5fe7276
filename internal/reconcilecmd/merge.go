package reconcilecmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mikkohei13/mocodigi/internal/olc"
	"github.com/mikkohei13/mocodigi/internal/specimen"
)

// NewMergeCmd creates the merge command for fusing label transcripts into a
// single aligned text
func NewMergeCmd() *cobra.Command {
	var imagesDir string
	var runVersion string
	var minOverlap int
	var dedup bool
	var force bool

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Fuse per-image transcripts into one text per specimen",
		Long: `Fuse the per-image transcript fragments of each specimen into a single
continuous text using overlap merging.

Fragments that overlap (the suffix of one matching the prefix of another) are
joined at their longest overlap, longest overlaps first. With deduplication
enabled, fragments that duplicate or are contained in another fragment are
dropped before merging, and disjoint leftovers reduce to the longest fragment;
without it, disjoint leftovers are joined with spaces.

Specimens that already have an alignment for the run are skipped unless
--force is given. Specimens with fewer than two transcripts are skipped.`,
		Example: `  # Merge transcripts for run h1
  mocodigi reconcile merge --images-dir ./images --run h1

  # Re-merge everything without deduplication
  mocodigi reconcile merge --images-dir ./images --run h1 --dedup=false --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeMerge(imagesDir, runVersion, minOverlap, dedup, force)
		},
	}

	cmd.Flags().StringVar(&imagesDir, "images-dir", "./images", "Directory containing specimen folders")
	cmd.Flags().StringVar(&runVersion, "run", "", "Run version whose transcripts to merge (required)")
	cmd.Flags().IntVar(&minOverlap, "min-overlap", 3, "Minimum overlap length in characters")
	cmd.Flags().BoolVar(&dedup, "dedup", true, "Drop duplicate and contained fragments before merging")
	cmd.Flags().BoolVar(&force, "force", false, "Re-merge specimens that already have an alignment")

	_ = cmd.MarkFlagRequired("run")
	return cmd
}

func executeMerge(imagesDir, runVersion string, minOverlap int, dedup, force bool) error {
	slog.Info("Starting merge run", "images", imagesDir, "run", runVersion, "min_overlap", minOverlap, "dedup", dedup)

	specimenDirs, err := specimen.ListSpecimenDirs(imagesDir)
	if err != nil {
		return fmt.Errorf("failed to list specimens: %w", err)
	}

	merger := olc.NewMerger()
	merger.MinOverlap = minOverlap
	merger.Dedup = dedup

	settings := specimen.Settings{
		RunVersion: runVersion,
		Model:      "overlap-merge",
		Prompt:     fmt.Sprintf("min_overlap=%d dedup=%t", minOverlap, dedup),
	}

	var merged, skipped, failed int
	for _, dir := range specimenDirs {
		name := filepath.Base(dir)
		runDir := specimen.RunDir(dir, runVersion)

		if !force && specimen.AlignmentExists(runDir) {
			slog.Debug("Alignment exists, skipping", "specimen", name)
			skipped++
			continue
		}

		transcripts, err := specimen.LoadTranscripts(runDir)
		if err != nil {
			slog.Error("Failed to load transcripts", "specimen", name, "error", err)
			failed++
			continue
		}
		if len(transcripts) < 2 {
			slog.Debug("Not enough transcripts to merge", "specimen", name, "count", len(transcripts))
			skipped++
			continue
		}

		alignment := merger.Merge(transcripts)
		if _, err := specimen.SaveAlignment(runDir, alignment, transcripts, settings); err != nil {
			slog.Error("Failed to save alignment", "specimen", name, "error", err)
			failed++
			continue
		}

		slog.Info("Merged transcripts", "specimen", name, "fragments", len(transcripts), "length", len(alignment))
		merged++
	}

	fmt.Printf("\nMerged %d specimens (%d skipped, %d failed)\n", merged, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d specimens failed to merge", failed)
	}
	return nil
}
