package reconcilecmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mikkohei13/mocodigi/internal/specimen"
)

// NewInitCmd creates the init command for seeding specimen folders from a
// reference dataset
func NewInitCmd() *cobra.Command {
	var datasetPath string
	var imagesDir string
	var sampleSize int
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create specimen folders from a reference dataset",
		Long: `Create one folder per specimen under the images directory from a
reference dataset exported from the collection management system.

Folder names are derived from the specimen's document identifier. Records
that carry a hand-verified label transcription get a gt.txt file so the run
can later be scored with eval score. Existing gt.txt files are left alone
unless --force is given.`,
		Example: `  # Seed folders for the first 50 specimens of a parquet export
  mocodigi reconcile init --dataset ./specimens.parquet --images-dir ./images --sample 50

  # Seed every record of a JSONL export
  mocodigi reconcile init --dataset ./specimens.jsonl --images-dir ./images --sample -1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(datasetPath); os.IsNotExist(err) {
				return fmt.Errorf("dataset file not found: %s", datasetPath)
			}
			return executeInit(datasetPath, imagesDir, sampleSize, force)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to a .parquet or .jsonl reference dataset (required)")
	cmd.Flags().StringVar(&imagesDir, "images-dir", "./images", "Directory to create specimen folders in")
	cmd.Flags().IntVar(&sampleSize, "sample", 10, "Number of records to process (-1 for all)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing gt.txt files")

	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}

func executeInit(datasetPath, imagesDir string, sampleSize int, force bool) error {
	slog.Info("Seeding specimen folders", "dataset", datasetPath, "images", imagesDir)

	loader := specimen.NewLoader(datasetPath)

	var records []specimen.Record
	var err error
	if sampleSize < 0 {
		records, err = loader.Load()
	} else {
		records, err = loader.LoadSample(sampleSize)
	}
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	slog.Info("Dataset loaded", "records", len(records))

	var created, groundTruths int
	for i := range records {
		record := &records[i]
		dir := filepath.Join(imagesDir, record.FolderName())
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create specimen folder: %w", err)
		}
		created++

		if record.GroundTruth == "" {
			continue
		}
		if !force && specimen.HasGroundTruth(dir) {
			slog.Debug("gt.txt exists, skipping", "specimen", record.DocumentID)
			continue
		}
		if err := specimen.SaveGroundTruth(dir, record.GroundTruth); err != nil {
			return err
		}
		groundTruths++
	}

	fmt.Printf("\nCreated %d specimen folders (%d with ground truth)\n", created, groundTruths)
	return nil
}
