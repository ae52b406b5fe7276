package evalcmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mikkohei13/mocodigi/internal/eval/results"
)

// NewReportCmd creates the report command for printing a saved scoring run
func NewReportCmd() *cobra.Command {
	var resultsPath string
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a detailed report for a saved scoring run",
		Example: `  # Print a text report
  mocodigi eval report --results ./evals/h1-2026-08-31_12-00-00.yaml

  # Export as CSV
  mocodigi eval report --results ./evals/h1-2026-08-31_12-00-00.yaml --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeReport(resultsPath, format)
		},
	}

	cmd.Flags().StringVar(&resultsPath, "results", "", "Path to a results YAML file (required)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, or csv)")

	_ = cmd.MarkFlagRequired("results")
	return cmd
}

func executeReport(resultsPath, format string) error {
	report, err := results.LoadFromYAML(resultsPath)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	switch format {
	case "text":
		return printTextReport(report)
	case "json":
		return printJSONReport(report)
	case "csv":
		return printCSVReport(report)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printTextReport(report *results.RunReport) error {
	fmt.Println("========================================")
	fmt.Printf("Digitization Scoring Report\n")
	fmt.Println("========================================")
	fmt.Printf("Run:        %s\n", report.Config.RunVersion)
	fmt.Printf("Images:     %s\n", report.Config.ImagesDir)
	fmt.Printf("Timestamp:  %s\n", report.Config.Timestamp)

	printSummary(report.Summary)

	fmt.Println("\nDetailed Results:")
	fmt.Println("========================================")

	for i, result := range report.Results {
		fmt.Printf("\n[%d] Specimen: %s\n", i+1, result.Specimen)

		if result.Error != "" {
			fmt.Printf("  ❌ Error: %s\n", result.Error)
			continue
		}

		fmt.Printf("  Word Error Rate:    %.2f%%\n", result.WordErrorRate)
		fmt.Printf("  Char Error Rate:    %.2f%%\n", result.CharErrorRate)
		fmt.Printf("  Matched Spans:      %d\n", result.MatchedSpans)
		if result.UnmatchedReferenceLines > 0 {
			fmt.Printf("  Unmatched GT Lines: %d\n", result.UnmatchedReferenceLines)
		}
		if result.UnmatchedCandidateLines > 0 {
			fmt.Printf("  Extra Lines:        %d\n", result.UnmatchedCandidateLines)
		}
		fmt.Printf("  Char Match:         %.2f%% (%.2f%% alphanumeric)\n",
			result.CharMatchPercentage, result.AlnumMatchPercentage)
	}

	return nil
}

func printJSONReport(report *results.RunReport) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func printCSVReport(report *results.RunReport) error {
	writer := csv.NewWriter(os.Stdout)
	defer writer.Flush()

	header := []string{"Specimen", "WER", "CER", "Matched Spans", "Unmatched GT Lines", "Extra Lines", "Char Match", "Alnum Match", "Error"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, result := range report.Results {
		row := []string{result.Specimen}

		if result.Error != "" {
			row = append(row, "", "", "", "", "", "", "", result.Error)
		} else {
			row = append(row,
				fmt.Sprintf("%.2f", result.WordErrorRate),
				fmt.Sprintf("%.2f", result.CharErrorRate),
				strconv.Itoa(result.MatchedSpans),
				strconv.Itoa(result.UnmatchedReferenceLines),
				strconv.Itoa(result.UnmatchedCandidateLines),
				fmt.Sprintf("%.2f", result.CharMatchPercentage),
				fmt.Sprintf("%.2f", result.AlnumMatchPercentage),
				"",
			)
		}

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}
