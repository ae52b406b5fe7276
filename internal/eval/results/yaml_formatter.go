package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// RunConfig represents the configuration section of the scoring YAML
type RunConfig struct {
	ImagesDir  string `yaml:"imagesdir"`
	RunVersion string `yaml:"runversion"`
	Specimens  int    `yaml:"specimens"`
	Timestamp  string `yaml:"timestamp"`
}

// SpecimenResult represents the scores for a single specimen
type SpecimenResult struct {
	Specimen                string  `yaml:"specimen"`
	WordErrorRate           float64 `yaml:"worderrorrate"`
	CharErrorRate           float64 `yaml:"charerrorrate"`
	MatchedSpans            int     `yaml:"matchedspans"`
	UnmatchedReferenceLines int     `yaml:"unmatchedreferencelines"`
	UnmatchedCandidateLines int     `yaml:"unmatchedcandidatelines"`
	CharMatchPercentage     float64 `yaml:"charmatchpercentage"`
	AlnumMatchPercentage    float64 `yaml:"alnummatchpercentage"`
	Error                   string  `yaml:"error,omitempty"`
}

// Summary aggregates scores across every scored specimen
type Summary struct {
	MeanWordErrorRate   float64 `yaml:"meanworderrorrate"`
	MedianWordErrorRate float64 `yaml:"medianworderrorrate"`
	MeanCharErrorRate   float64 `yaml:"meancharerrorrate"`
	MedianCharErrorRate float64 `yaml:"mediancharerrorrate"`
	MeanCharMatch       float64 `yaml:"meancharmatch"`
	MeanAlnumMatch      float64 `yaml:"meanalnummatch"`
	Scored              int     `yaml:"scored"`
	Failed              int     `yaml:"failed"`
}

// RunReport represents the complete scoring report for one run
type RunReport struct {
	Config  RunConfig        `yaml:"config"`
	Summary Summary          `yaml:"summary"`
	Results []SpecimenResult `yaml:"results"`
}

// SaveToYAML saves a scoring report to a YAML file in the output directory
// and returns the path it was written to.
func SaveToYAML(outputDir string, report RunReport) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	if report.Config.Timestamp == "" {
		report.Config.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}

	filename := filepath.Join(outputDir,
		fmt.Sprintf("%s-%s.yaml", report.Config.RunVersion, report.Config.Timestamp))

	data, err := yaml.Marshal(&report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	return filename, nil
}

// LoadFromYAML reads a previously saved scoring report.
func LoadFromYAML(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var report RunReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}
	return &report, nil
}
