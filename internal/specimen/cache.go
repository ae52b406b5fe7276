// Package specimen handles the on-disk layout of a digitization run: one
// folder per specimen holding the photographs, a run_<version> directory
// with the JSON artifacts the pipeline scripts write (transcripts,
// alignment, Darwin Core extractions), and an optional gt.txt with the
// hand-verified label text.
package specimen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mikkohei13/mocodigi/internal/consensus"
)

const artifactFormatVersion = "0.1"

// Artifact file names inside a run directory. Transcripts arrive as
// <image>_transcript.json, extractions as darwin_core*.json.
const (
	alignmentFile     = "alignment.json"
	consolidationFile = "consolidation.json"
	consensusFile     = "consensus.json"
	groundTruthFile   = "gt.txt"
)

// Settings records how an artifact was produced and is persisted next to
// the artifact data for reproducibility.
type Settings struct {
	RunVersion  string  `json:"run_version"`
	Model       string  `json:"model,omitempty"`
	Prompt      string  `json:"prompt,omitempty"`
	Temperature float64 `json:"temperature"`
}

type envelope[T any] struct {
	FormatVersion string   `json:"format_version"`
	Type          string   `json:"type"`
	Datetime      string   `json:"datetime"`
	Settings      Settings `json:"settings"`
	Data          T        `json:"data"`
}

type transcriptData struct {
	Transcript string `json:"transcript"`
}

type alignmentData struct {
	RawAlignment            string `json:"raw_alignment"`
	Alignment               string `json:"alignment"`
	ConcatenatedTranscripts string `json:"concatenated_transcripts"`
}

type consolidationData struct {
	Consolidation string `json:"consolidation"`
}

// RunDir returns the artifact directory for one run version inside a
// specimen folder, e.g. <specimen>/run_h1.
func RunDir(specimenDir, runVersion string) string {
	return filepath.Join(specimenDir, "run_"+runVersion)
}

// ListSpecimenDirs returns the specimen folders under imagesDir, sorted by
// name.
func ListSpecimenDirs(imagesDir string) ([]string, error) {
	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read images directory: %w", err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(imagesDir, entry.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// LoadTranscripts reads every *_transcript.json in the run directory, in
// file-name order, and returns the raw transcript texts. A leading
// "Transcription:" marker from the transcription prompt is stripped.
func LoadTranscripts(runDir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(runDir, "*_transcript.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob transcripts: %w", err)
	}
	sort.Strings(paths)

	var transcripts []string
	for _, path := range paths {
		var file envelope[transcriptData]
		if err := readJSON(path, &file); err != nil {
			return nil, err
		}
		transcript := file.Data.Transcript
		if rest, ok := strings.CutPrefix(transcript, "Transcription:"); ok {
			transcript = strings.TrimLeft(rest, " \t\n")
		}
		transcripts = append(transcripts, transcript)
	}
	return transcripts, nil
}

// AlignmentExists reports whether the run directory already holds a merged
// alignment artifact.
func AlignmentExists(runDir string) bool {
	_, err := os.Stat(filepath.Join(runDir, alignmentFile))
	return err == nil
}

// LoadAlignment returns the merged alignment text from the run directory.
func LoadAlignment(runDir string) (string, error) {
	var file envelope[alignmentData]
	if err := readJSON(filepath.Join(runDir, alignmentFile), &file); err != nil {
		return "", err
	}
	return file.Data.Alignment, nil
}

// SaveAlignment persists a merged alignment along with the transcripts it
// was fused from, and returns the artifact path.
func SaveAlignment(runDir, alignment string, transcripts []string, settings Settings) (string, error) {
	file := envelope[alignmentData]{
		FormatVersion: artifactFormatVersion,
		Type:          "alignment",
		Datetime:      time.Now().Format(time.RFC3339),
		Settings:      settings,
		Data: alignmentData{
			RawAlignment:            alignment,
			Alignment:               alignment,
			ConcatenatedTranscripts: concatenateTranscripts(transcripts),
		},
	}

	path := filepath.Join(runDir, alignmentFile)
	if err := writeJSON(path, file); err != nil {
		return "", err
	}
	return path, nil
}

// LoadConsolidation returns the model-consolidated transcript text, if a
// consolidation artifact exists in the run directory.
func LoadConsolidation(runDir string) (string, error) {
	var file envelope[consolidationData]
	if err := readJSON(filepath.Join(runDir, consolidationFile), &file); err != nil {
		return "", err
	}
	return file.Data.Consolidation, nil
}

// LoadFreeText returns the best available continuous text for a run:
// consolidation first, then the merged alignment, then the first raw
// transcript.
func LoadFreeText(runDir string) (string, error) {
	if text, err := LoadConsolidation(runDir); err == nil {
		return text, nil
	}
	if AlignmentExists(runDir) {
		return LoadAlignment(runDir)
	}

	transcripts, err := LoadTranscripts(runDir)
	if err != nil {
		return "", err
	}
	if len(transcripts) == 0 {
		return "", fmt.Errorf("no consolidation, alignment or transcripts in %s", runDir)
	}
	return transcripts[0], nil
}

// LoadExtractions reads the Darwin Core extraction artifacts
// (darwin_core*.json) from a run directory into voting records. Artifacts
// the extraction script marked malformed are skipped.
func LoadExtractions(runDir string) ([]consensus.Record, error) {
	paths, err := filepath.Glob(filepath.Join(runDir, "darwin_core*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob extractions: %w", err)
	}
	sort.Strings(paths)

	var records []consensus.Record
	for _, path := range paths {
		var file envelope[consensus.Record]
		if err := readJSON(path, &file); err != nil {
			return nil, err
		}
		if file.Data == nil {
			// The extraction script writes {"malformed": ...} when the
			// model response was not valid JSON.
			continue
		}
		records = append(records, file.Data)
	}
	return records, nil
}

// ConsensusExists reports whether the run directory already holds a voted
// consensus artifact.
func ConsensusExists(runDir string) bool {
	_, err := os.Stat(filepath.Join(runDir, consensusFile))
	return err == nil
}

// SaveConsensus persists a voting result, and returns the artifact path.
func SaveConsensus(runDir string, report consensus.Report, settings Settings) (string, error) {
	file := envelope[consensus.Report]{
		FormatVersion: artifactFormatVersion,
		Type:          "consensus",
		Datetime:      time.Now().Format(time.RFC3339),
		Settings:      settings,
		Data:          report,
	}

	path := filepath.Join(runDir, consensusFile)
	if err := writeJSON(path, file); err != nil {
		return "", err
	}
	return path, nil
}

// LoadGroundTruth reads the hand-verified label text for a specimen.
func LoadGroundTruth(specimenDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(specimenDir, groundTruthFile))
	if err != nil {
		return "", fmt.Errorf("failed to read ground truth: %w", err)
	}
	return string(data), nil
}

// SaveGroundTruth writes a hand-verified label transcription into a
// specimen folder.
func SaveGroundTruth(specimenDir, text string) error {
	path := filepath.Join(specimenDir, groundTruthFile)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write ground truth: %w", err)
	}
	return nil
}

// HasGroundTruth reports whether the specimen folder carries a gt.txt.
func HasGroundTruth(specimenDir string) bool {
	_, err := os.Stat(filepath.Join(specimenDir, groundTruthFile))
	return err == nil
}

func concatenateTranscripts(transcripts []string) string {
	var sb strings.Builder
	for i, transcript := range transcripts {
		fmt.Fprintf(&sb, "## Transcript %d:\n\n%s\n\n", i+1, transcript)
	}
	return sb.String()
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
