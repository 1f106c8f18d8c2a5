// Package stats writes per-run artifact files (config, result, convergence
// series) under a base directory and maintains the append-only run index the
// CLI lists runs from.
package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"luxgen/internal/evo"
	"luxgen/internal/model"
)

const runIndexFile = "run_index.json"

// RunConfig records everything needed to reproduce a run.
type RunConfig struct {
	RunID       string                 `json:"run_id"`
	Room        model.Room             `json:"room"`
	Constraints model.Constraints      `json:"constraints"`
	Weights     model.ObjectiveWeights `json:"weights"`
	Options     evo.Options            `json:"options"`
	CatalogIDs  []string               `json:"catalog_ids"`
}

// RunArtifacts is the full per-run artifact bundle.
type RunArtifacts struct {
	Config          RunConfig                `json:"config"`
	Result          model.OptimizationResult `json:"result"`
	Recommendations []string                 `json:"recommendations"`
}

// RunIndexEntry is one row of the run listing, newest first.
type RunIndexEntry struct {
	RunID            string  `json:"run_id"`
	Seed             int64   `json:"seed"`
	PopulationSize   int     `json:"population_size"`
	Generations      int     `json:"generations"`
	FixtureCount     int     `json:"fixture_count"`
	FinalBestFitness float64 `json:"final_best_fitness"`
	AchievedPPFD     float64 `json:"achieved_ppfd"`
	CreatedAtUTC     string  `json:"created_at_utc"`
}

// WriteRunArtifacts writes the per-run files under baseDir/runID and returns
// the run directory.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "config.json"), artifacts.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "result.json"), artifacts.Result); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "recommendations.json"), artifacts.Recommendations); err != nil {
		return "", err
	}
	if err := writeConvergenceCSV(filepath.Join(runDir, "convergence.csv"), artifacts.Result.Generations); err != nil {
		return "", err
	}

	return runDir, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

// ListRunIndex returns the index sorted newest first.
func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry RunIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Prefer later appended entries for equal timestamps.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

// ExportRunArtifacts copies one run's artifact files into outDir/runID.
func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	files := []string{"config.json", "result.json", "recommendations.json", "convergence.csv"}
	for _, file := range files {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	return dst, nil
}

// ReadRunResult loads a run's result.json if present.
func ReadRunResult(baseDir, runID string) (model.OptimizationResult, bool, error) {
	path := filepath.Join(baseDir, runID, "result.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.OptimizationResult{}, false, nil
		}
		return model.OptimizationResult{}, false, err
	}

	var result model.OptimizationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return model.OptimizationResult{}, false, err
	}
	return result, true, nil
}

func writeConvergenceCSV(path string, generations []model.GenerationStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"generation", "best_fitness", "mean_fitness", "min_fitness"}); err != nil {
		return err
	}
	for _, g := range generations {
		record := []string{
			strconv.Itoa(g.Generation),
			strconv.FormatFloat(g.BestFitness, 'g', -1, 64),
			strconv.FormatFloat(g.MeanFitness, 'g', -1, 64),
			strconv.FormatFloat(g.MinFitness, 'g', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
