package evalcmd

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/mikkohei13/mocodigi/internal/eval/results"
	"github.com/mikkohei13/mocodigi/internal/span"
	"github.com/mikkohei13/mocodigi/internal/specimen"
)

// NewScoreCmd creates the score command for scoring run output against
// ground truth transcriptions
func NewScoreCmd() *cobra.Command {
	var imagesDir string
	var runVersion string
	var outputDir string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a digitization run against ground truth transcriptions",
		Long: `Score the free text produced by a digitization run against the gt.txt
ground truth files in the specimen folders.

Each specimen's best available text (consolidation, merged alignment or first
raw transcript) is aligned against the ground truth span by span, and word and
character error rates are calculated over the aligned spans. Specimens without
a gt.txt file are skipped.`,
		Example: `  # Score run h1 with default settings
  mocodigi eval score --images-dir ./images --run h1

  # Score with higher concurrency and a custom output directory
  mocodigi eval score --images-dir ./images --run h1 --concurrency 8 --output ./evals`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeScore(imagesDir, runVersion, outputDir, concurrency)
		},
	}

	cmd.Flags().StringVar(&imagesDir, "images-dir", "./images", "Directory containing specimen folders")
	cmd.Flags().StringVar(&runVersion, "run", "", "Run version to score (required)")
	cmd.Flags().StringVar(&outputDir, "output", "./evals", "Output directory for the results YAML")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Number of specimens to score in parallel")

	_ = cmd.MarkFlagRequired("run")
	return cmd
}

func executeScore(imagesDir, runVersion, outputDir string, concurrency int) error {
	slog.Info("Starting scoring run", "images", imagesDir, "run", runVersion)

	specimenDirs, err := specimen.ListSpecimenDirs(imagesDir)
	if err != nil {
		return fmt.Errorf("failed to list specimens: %w", err)
	}

	var scorable []string
	for _, dir := range specimenDirs {
		if specimen.HasGroundTruth(dir) {
			scorable = append(scorable, dir)
		}
	}
	slog.Info("Specimens found", "total", len(specimenDirs), "with_ground_truth", len(scorable))

	if len(scorable) == 0 {
		return fmt.Errorf("no specimens with ground truth in %s", imagesDir)
	}

	slog.Info("Scoring specimens", "concurrency", concurrency)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)
	resultsChan := make(chan results.SpecimenResult, len(scorable))

	for i, dir := range scorable {
		wg.Add(1)
		go func(idx int, dir string) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			name := filepath.Base(dir)
			slog.Info("Scoring specimen", "specimen", name, "progress", fmt.Sprintf("%d/%d", idx+1, len(scorable)))

			resultsChan <- scoreSpecimen(dir, runVersion)
		}(i, dir)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	report := results.RunReport{
		Config: results.RunConfig{
			ImagesDir:  imagesDir,
			RunVersion: runVersion,
			Specimens:  len(scorable),
			Timestamp:  time.Now().Format("2006-01-02_15-04-05"),
		},
		Results: make([]results.SpecimenResult, 0, len(scorable)),
	}
	for result := range resultsChan {
		report.Results = append(report.Results, result)
	}
	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Specimen < report.Results[j].Specimen
	})

	report.Summary = calculateSummary(report.Results)

	path, err := results.SaveToYAML(outputDir, report)
	if err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	printSummary(report.Summary)

	fmt.Printf("\nResults saved to: %s\n", path)
	fmt.Printf("\nGenerate detailed report with:\n")
	fmt.Printf("  mocodigi eval report --results %s\n", path)

	return nil
}

func scoreSpecimen(specimenDir, runVersion string) results.SpecimenResult {
	result := results.SpecimenResult{
		Specimen: filepath.Base(specimenDir),
	}

	groundTruth, err := specimen.LoadGroundTruth(specimenDir)
	if err != nil {
		result.Error = fmt.Sprintf("failed to load ground truth: %v", err)
		return result
	}

	runDir := specimen.RunDir(specimenDir, runVersion)
	freeText, err := specimen.LoadFreeText(runDir)
	if err != nil {
		result.Error = fmt.Sprintf("failed to load run text: %v", err)
		return result
	}

	alignment := span.Score(groundTruth, freeText)
	result.WordErrorRate = alignment.WordErrorRate
	result.CharErrorRate = alignment.CharErrorRate
	result.MatchedSpans = len(alignment.Matches)
	result.UnmatchedReferenceLines = alignment.UnmatchedReferenceLines
	result.UnmatchedCandidateLines = alignment.UnmatchedCandidateLines

	result.CharMatchPercentage = span.CompareTexts(groundTruth, freeText, false).MatchPercentage
	result.AlnumMatchPercentage = span.CompareTexts(groundTruth, freeText, true).MatchPercentage

	return result
}

func calculateSummary(specimenResults []results.SpecimenResult) results.Summary {
	summary := results.Summary{}

	var wordRates, charRates, charMatches, alnumMatches []float64
	for _, result := range specimenResults {
		if result.Error != "" {
			summary.Failed++
			continue
		}
		summary.Scored++
		wordRates = append(wordRates, result.WordErrorRate)
		charRates = append(charRates, result.CharErrorRate)
		charMatches = append(charMatches, result.CharMatchPercentage)
		alnumMatches = append(alnumMatches, result.AlnumMatchPercentage)
	}

	summary.MeanWordErrorRate = mean(wordRates)
	summary.MedianWordErrorRate = median(wordRates)
	summary.MeanCharErrorRate = mean(charRates)
	summary.MedianCharErrorRate = median(charRates)
	summary.MeanCharMatch = mean(charMatches)
	summary.MeanAlnumMatch = mean(alnumMatches)

	return summary
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func printSummary(summary results.Summary) {
	fmt.Println("\n========================================")
	fmt.Println("Scoring Summary")
	fmt.Println("========================================")
	fmt.Printf("Scored Specimens:   %d\n", summary.Scored)
	fmt.Printf("Failed Specimens:   %d\n", summary.Failed)
	fmt.Println()
	fmt.Printf("Mean WER:           %.2f%%\n", summary.MeanWordErrorRate)
	fmt.Printf("Median WER:         %.2f%%\n", summary.MedianWordErrorRate)
	fmt.Printf("Mean CER:           %.2f%%\n", summary.MeanCharErrorRate)
	fmt.Printf("Median CER:         %.2f%%\n", summary.MedianCharErrorRate)
	fmt.Println()
	fmt.Printf("Mean Char Match:    %.2f%%\n", summary.MeanCharMatch)
	fmt.Printf("Mean Alnum Match:   %.2f%%\n", summary.MeanAlnumMatch)
	fmt.Println("========================================")
}
