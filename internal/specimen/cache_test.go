package specimen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mikkohei13/mocodigi/internal/consensus"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestLoadTranscripts(t *testing.T) {
	runDir := RunDir(t.TempDir(), "h1")

	writeFile(t, filepath.Join(runDir, "IMG_002_transcript.json"),
		`{"format_version":"0.1","type":"transcript","data":{"transcript":"second fragment"}}`)
	writeFile(t, filepath.Join(runDir, "IMG_001_transcript.json"),
		`{"format_version":"0.1","type":"transcript","data":{"transcript":"Transcription: first fragment"}}`)
	writeFile(t, filepath.Join(runDir, "unrelated.json"), `{}`)

	transcripts, err := LoadTranscripts(runDir)
	if err != nil {
		t.Fatalf("LoadTranscripts failed: %v", err)
	}

	if len(transcripts) != 2 {
		t.Fatalf("Expected 2 transcripts, got %d", len(transcripts))
	}
	// File-name order, and the prompt marker is stripped.
	if transcripts[0] != "first fragment" {
		t.Errorf("transcripts[0] = %q, want %q", transcripts[0], "first fragment")
	}
	if transcripts[1] != "second fragment" {
		t.Errorf("transcripts[1] = %q, want %q", transcripts[1], "second fragment")
	}
}

func TestAlignmentRoundTrip(t *testing.T) {
	runDir := RunDir(t.TempDir(), "h1")

	if AlignmentExists(runDir) {
		t.Fatal("AlignmentExists true before saving")
	}

	settings := Settings{RunVersion: "h1", Model: "olc", Prompt: "min_overlap=3"}
	transcripts := []string{"abcdef", "defghi"}
	if _, err := SaveAlignment(runDir, "abcdefghi", transcripts, settings); err != nil {
		t.Fatalf("SaveAlignment failed: %v", err)
	}

	if !AlignmentExists(runDir) {
		t.Fatal("AlignmentExists false after saving")
	}

	alignment, err := LoadAlignment(runDir)
	if err != nil {
		t.Fatalf("LoadAlignment failed: %v", err)
	}
	if alignment != "abcdefghi" {
		t.Errorf("alignment = %q, want %q", alignment, "abcdefghi")
	}
}

func TestLoadFreeTextPrecedence(t *testing.T) {
	runDir := RunDir(t.TempDir(), "h1")

	writeFile(t, filepath.Join(runDir, "IMG_001_transcript.json"),
		`{"data":{"transcript":"raw transcript"}}`)

	text, err := LoadFreeText(runDir)
	if err != nil {
		t.Fatalf("LoadFreeText failed: %v", err)
	}
	if text != "raw transcript" {
		t.Errorf("free text = %q, want first transcript", text)
	}

	if _, err := SaveAlignment(runDir, "merged text", nil, Settings{RunVersion: "h1"}); err != nil {
		t.Fatalf("SaveAlignment failed: %v", err)
	}
	text, err = LoadFreeText(runDir)
	if err != nil {
		t.Fatalf("LoadFreeText failed: %v", err)
	}
	if text != "merged text" {
		t.Errorf("free text = %q, want alignment over transcript", text)
	}

	writeFile(t, filepath.Join(runDir, "consolidation.json"),
		`{"data":{"consolidation":"consolidated text"}}`)
	text, err = LoadFreeText(runDir)
	if err != nil {
		t.Fatalf("LoadFreeText failed: %v", err)
	}
	if text != "consolidated text" {
		t.Errorf("free text = %q, want consolidation over alignment", text)
	}
}

func TestLoadExtractions(t *testing.T) {
	runDir := RunDir(t.TempDir(), "h1")

	writeFile(t, filepath.Join(runDir, "darwin_core.json"),
		`{"type":"darwin_core","data":{"country":"Finland","locality":null}}`)
	writeFile(t, filepath.Join(runDir, "darwin_core_2.json"),
		`{"type":"darwin_core","data":{"country":"Finland"}}`)
	writeFile(t, filepath.Join(runDir, "darwin_core_bad.json"),
		`{"malformed":"not json from the model"}`)

	records, err := LoadExtractions(runDir)
	if err != nil {
		t.Fatalf("LoadExtractions failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records (malformed skipped), got %d", len(records))
	}
	if v := records[0]["country"]; v == nil || *v != "Finland" {
		t.Errorf("country = %v, want Finland", v)
	}
	if v, ok := records[0]["locality"]; !ok || v != nil {
		t.Errorf("locality = %v (present %v), want explicit null", v, ok)
	}
}

func TestSaveConsensus(t *testing.T) {
	runDir := RunDir(t.TempDir(), "h1")

	finland := "Finland"
	report := consensus.Report{
		"country": {Value: &finland, Agreement: 2.0 / 3.0},
	}

	path, err := SaveConsensus(runDir, report, Settings{RunVersion: "h1"})
	if err != nil {
		t.Fatalf("SaveConsensus failed: %v", err)
	}
	if filepath.Base(path) != "consensus.json" {
		t.Errorf("consensus written to %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("consensus artifact missing: %v", err)
	}
}

func TestGroundTruth(t *testing.T) {
	specimenDir := t.TempDir()

	if HasGroundTruth(specimenDir) {
		t.Fatal("HasGroundTruth true without gt.txt")
	}

	writeFile(t, filepath.Join(specimenDir, "gt.txt"), "Lapponia inarensis\nleg. Koponen 1923\n")

	if !HasGroundTruth(specimenDir) {
		t.Fatal("HasGroundTruth false with gt.txt present")
	}

	text, err := LoadGroundTruth(specimenDir)
	if err != nil {
		t.Fatalf("LoadGroundTruth failed: %v", err)
	}
	if text != "Lapponia inarensis\nleg. Koponen 1923\n" {
		t.Errorf("ground truth = %q", text)
	}
}

func TestListSpecimenDirs(t *testing.T) {
	imagesDir := t.TempDir()
	for _, name := range []string{"C02", "A01", "B05"} {
		if err := os.Mkdir(filepath.Join(imagesDir, name), 0755); err != nil {
			t.Fatalf("Failed to create specimen dir: %v", err)
		}
	}
	writeFile(t, filepath.Join(imagesDir, "stray.txt"), "not a folder")

	dirs, err := ListSpecimenDirs(imagesDir)
	if err != nil {
		t.Fatalf("ListSpecimenDirs failed: %v", err)
	}

	if len(dirs) != 3 {
		t.Fatalf("Expected 3 dirs, got %d", len(dirs))
	}
	want := []string{"A01", "B05", "C02"}
	for i, dir := range dirs {
		if filepath.Base(dir) != want[i] {
			t.Errorf("dirs[%d] = %s, want %s", i, filepath.Base(dir), want[i])
		}
	}
}
