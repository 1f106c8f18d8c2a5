package stats

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"luxgen/internal/evo"
	"luxgen/internal/model"
)

func sampleArtifacts(runID string) RunArtifacts {
	return RunArtifacts{
		Config: RunConfig{
			RunID:       runID,
			Room:        model.Room{Width: 10, Length: 10, Height: 3},
			Constraints: model.Constraints{MinFixtures: 4, MaxFixtures: 12, TargetPPFD: 600},
			Options:     evo.Options{Seed: 42, PopulationSize: 10, Generations: 5},
			CatalogIDs:  []string{"led-320"},
		},
		Result: model.OptimizationResult{
			Best: model.Individual{
				Genes:   []model.FixtureGene{{X: 5, Y: 5, Z: 2.5, TemplateID: "led-320", Enabled: true}},
				Fitness: 0.8,
			},
			Convergence: []float64{0.6, 0.8},
			Generations: []model.GenerationStats{
				{Generation: 0, BestFitness: 0.6, MeanFitness: 0.4, MinFitness: 0.2},
				{Generation: 1, BestFitness: 0.8, MeanFitness: 0.5, MinFitness: 0.3},
			},
			FinalStats: model.FinalStats{FixtureCount: 1, TotalWattage: 320},
		},
		Recommendations: []string{"layout meets configured targets"},
	}
}

func TestWriteRunArtifacts(t *testing.T) {
	base := t.TempDir()
	runDir, err := WriteRunArtifacts(base, sampleArtifacts("run-a"))
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}
	if runDir != filepath.Join(base, "run-a") {
		t.Fatalf("run dir = %q", runDir)
	}

	for _, name := range []string{"config.json", "result.json", "recommendations.json", "convergence.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); err != nil {
			t.Fatalf("missing artifact %s: %v", name, err)
		}
	}

	f, err := os.Open(filepath.Join(runDir, "convergence.csv"))
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("csv has %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "generation" || rows[2][1] != "0.8" {
		t.Fatalf("unexpected csv contents: %v", rows)
	}
}

func TestWriteRunArtifactsRequiresRunID(t *testing.T) {
	if _, err := WriteRunArtifacts(t.TempDir(), RunArtifacts{}); err == nil {
		t.Fatal("expected error for missing run id")
	}
}

func TestReadRunResult(t *testing.T) {
	base := t.TempDir()
	if _, err := WriteRunArtifacts(base, sampleArtifacts("run-a")); err != nil {
		t.Fatalf("write artifacts: %v", err)
	}

	result, found, err := ReadRunResult(base, "run-a")
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if !found {
		t.Fatal("written result not found")
	}
	if result.Best.Fitness != 0.8 || len(result.Convergence) != 2 {
		t.Fatalf("result mismatch: %+v", result)
	}

	if _, found, err := ReadRunResult(base, "run-b"); err != nil || found {
		t.Fatalf("missing run: found=%v err=%v", found, err)
	}
}

func TestRunIndexAppendAndList(t *testing.T) {
	base := t.TempDir()

	entries := []RunIndexEntry{
		{RunID: "run-a", Seed: 1, FinalBestFitness: 0.7, CreatedAtUTC: "2026-08-30T10:00:00Z"},
		{RunID: "run-b", Seed: 2, FinalBestFitness: 0.8, CreatedAtUTC: "2026-08-30T11:00:00Z"},
		{RunID: "run-c", Seed: 3, FinalBestFitness: 0.9, CreatedAtUTC: "2026-08-30T09:00:00Z"},
	}
	for _, e := range entries {
		if err := AppendRunIndex(base, e); err != nil {
			t.Fatalf("append %s: %v", e.RunID, err)
		}
	}

	listed, err := ListRunIndex(base)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("listed %d entries, want 3", len(listed))
	}
	wantOrder := []string{"run-b", "run-a", "run-c"}
	for i, want := range wantOrder {
		if listed[i].RunID != want {
			t.Fatalf("position %d: got %s, want %s (newest first)", i, listed[i].RunID, want)
		}
	}
}

func TestRunIndexUpsert(t *testing.T) {
	base := t.TempDir()
	entry := RunIndexEntry{RunID: "run-a", FinalBestFitness: 0.5, CreatedAtUTC: "2026-08-30T10:00:00Z"}
	if err := AppendRunIndex(base, entry); err != nil {
		t.Fatalf("append: %v", err)
	}
	entry.FinalBestFitness = 0.9
	if err := AppendRunIndex(base, entry); err != nil {
		t.Fatalf("re-append: %v", err)
	}

	listed, err := ListRunIndex(base)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("upsert duplicated the entry: %d rows", len(listed))
	}
	if listed[0].FinalBestFitness != 0.9 {
		t.Fatalf("upsert kept the stale fitness %v", listed[0].FinalBestFitness)
	}
}

func TestListRunIndexEmpty(t *testing.T) {
	listed, err := ListRunIndex(t.TempDir())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("empty dir listed %d entries", len(listed))
	}
}

func TestExportRunArtifacts(t *testing.T) {
	base := t.TempDir()
	out := t.TempDir()
	if _, err := WriteRunArtifacts(base, sampleArtifacts("run-a")); err != nil {
		t.Fatalf("write artifacts: %v", err)
	}

	dst, err := ExportRunArtifacts(base, "run-a", out)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if dst != filepath.Join(out, "run-a") {
		t.Fatalf("export dir = %q", dst)
	}
	for _, name := range []string{"config.json", "result.json", "recommendations.json", "convergence.csv"} {
		src, err := os.ReadFile(filepath.Join(base, "run-a", name))
		if err != nil {
			t.Fatalf("read source %s: %v", name, err)
		}
		got, err := os.ReadFile(filepath.Join(dst, name))
		if err != nil {
			t.Fatalf("read export %s: %v", name, err)
		}
		if string(got) != string(src) {
			t.Fatalf("export of %s differs from source", name)
		}
	}

	if _, err := ExportRunArtifacts(base, "run-missing", out); err == nil {
		t.Fatal("expected error exporting an unknown run")
	}
}
