// Package luxgen is the caller-facing facade: it wires the catalog, the
// optimizer and the persistence/artifact layers together behind a small
// client API.
package luxgen

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"luxgen/internal/catalog"
	"luxgen/internal/evo"
	"luxgen/internal/model"
	"luxgen/internal/sim"
	"luxgen/internal/stats"
	"luxgen/internal/storage"
)

const (
	defaultRunsDir    = "runs"
	defaultExportsDir = "exports"
	defaultDBPath     = "luxgen.db"
)

type Options struct {
	StoreKind  string
	DBPath     string
	RunsDir    string
	ExportsDir string
}

type Client struct {
	store storage.Store

	runsDir     string
	exportsDir  string
	initialized bool
}

// RunRequest describes one optimization run. Zero-value fields fall back to
// the documented defaults; Templates empty means the built-in catalog.
type RunRequest struct {
	Room        model.Room
	Constraints model.Constraints
	Weights     model.ObjectiveWeights
	Options     evo.Options
	Templates   []model.FixtureTemplate
	Simulators  sim.Factory
	OnProgress  evo.ProgressFunc
}

type RunSummary struct {
	RunID        string
	ArtifactsDir string
	Result       model.OptimizationResult
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	runsDir := opts.RunsDir
	if runsDir == "" {
		runsDir = defaultRunsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:      store,
		runsDir:    runsDir,
		exportsDir: exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

// DefaultRoom is a 10x10x3 grow room with typical reflective surfaces.
func DefaultRoom() model.Room {
	return model.Room{
		Width: 10, Length: 10, Height: 3,
		FloorReflectance:   0.2,
		WallReflectance:    0.35,
		CeilingReflectance: 0.1,
	}
}

// DefaultConstraints match the default room at flowering-stage light levels.
func DefaultConstraints() model.Constraints {
	return model.Constraints{
		MinFixtures:      4,
		MaxFixtures:      12,
		TargetPPFD:       600,
		UniformityTarget: 0.8,
		EnergyBudget:     3000,
		InstallHeightMin: 2.0,
		InstallHeightMax: 2.8,
		MinSpacing:       1,
		MaxSpacing:       5,
	}
}

// DefaultWeights favor uniform coverage over cost.
func DefaultWeights() model.ObjectiveWeights {
	return model.ObjectiveWeights{
		Uniformity:       0.9,
		EnergyEfficiency: 0.7,
		Cost:             0.5,
		Coverage:         0.8,
		Maintenance:      0.3,
	}
}

// Run executes a full optimization and persists its outcome. The run id is
// assigned here, outside OptimizationResult, so seeded results stay
// bit-for-bit reproducible.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if err := c.Init(ctx); err != nil {
		return RunSummary{}, err
	}

	if req.Room == (model.Room{}) {
		req.Room = DefaultRoom()
	}
	if req.Constraints.TargetPPFD == 0 {
		req.Constraints = DefaultConstraints()
	}
	if req.Weights == (model.ObjectiveWeights{}) {
		req.Weights = DefaultWeights()
	}
	if req.Simulators == nil {
		req.Simulators = sim.NewPointSource
	}

	var cat *catalog.Catalog
	var err error
	if len(req.Templates) > 0 {
		cat, err = catalog.New(req.Templates)
	} else {
		cat = catalog.Default()
	}
	if err != nil {
		return RunSummary{}, err
	}

	optimizer, err := evo.New(evo.Config{
		Room:        req.Room,
		Catalog:     cat,
		Constraints: req.Constraints,
		Weights:     req.Weights,
		Options:     req.Options,
		Simulators:  req.Simulators,
		OnProgress:  req.OnProgress,
	})
	if err != nil {
		return RunSummary{}, err
	}

	result, err := optimizer.Optimize(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	runID := uuid.NewString()
	if err := c.store.SaveResult(ctx, runID, result); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveConvergence(ctx, runID, result.Convergence); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveGenerationStats(ctx, runID, result.Generations); err != nil {
		return RunSummary{}, err
	}

	runDir, err := stats.WriteRunArtifacts(c.runsDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:       runID,
			Room:        req.Room,
			Constraints: req.Constraints,
			Weights:     req.Weights,
			Options:     req.Options,
			CatalogIDs:  cat.IDs(),
		},
		Result:          result,
		Recommendations: result.Recommendations,
	})
	if err != nil {
		return RunSummary{}, err
	}

	if err := stats.AppendRunIndex(c.runsDir, stats.RunIndexEntry{
		RunID:            runID,
		Seed:             req.Options.Seed,
		PopulationSize:   req.Options.PopulationSize,
		Generations:      len(result.Generations),
		FixtureCount:     result.FinalStats.FixtureCount,
		FinalBestFitness: result.Best.Fitness,
		AchievedPPFD:     result.FinalStats.AchievedPPFD,
		CreatedAtUTC:     time.Now().UTC().Format(time.RFC3339Nano),
	}); err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:        runID,
		ArtifactsDir: filepath.Clean(runDir),
		Result:       result,
	}, nil
}

// Runs lists recorded runs, newest first.
func (c *Client) Runs(_ context.Context, limit int) ([]stats.RunIndexEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	entries, err := stats.ListRunIndex(c.runsDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Result loads a stored run result by id, or the latest run when id is empty.
func (c *Client) Result(ctx context.Context, runID string) (model.OptimizationResult, error) {
	if err := c.Init(ctx); err != nil {
		return model.OptimizationResult{}, err
	}
	runID, err := c.resolveRunID(runID)
	if err != nil {
		return model.OptimizationResult{}, err
	}

	result, ok, err := c.store.GetResult(ctx, runID)
	if err != nil {
		return model.OptimizationResult{}, err
	}
	if ok {
		return result, nil
	}

	// a fresh client has an empty memory store; fall back to artifacts
	result, ok, err = stats.ReadRunResult(c.runsDir, runID)
	if err != nil {
		return model.OptimizationResult{}, err
	}
	if !ok {
		return model.OptimizationResult{}, fmt.Errorf("result not found for run id: %s", runID)
	}
	return result, nil
}

// History returns the best-fitness-per-generation series for a run.
func (c *Client) History(ctx context.Context, runID string) ([]float64, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	runID, err := c.resolveRunID(runID)
	if err != nil {
		return nil, err
	}

	history, ok, err := c.store.GetConvergence(ctx, runID)
	if err != nil {
		return nil, err
	}
	if ok {
		return history, nil
	}

	result, err := c.Result(ctx, runID)
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), result.Convergence...), nil
}

// Export copies a run's artifact files into the export directory.
func (c *Client) Export(_ context.Context, req ExportRequest) (string, error) {
	if req.RunID != "" && req.Latest {
		return "", errors.New("use either run id or latest")
	}
	if req.RunID == "" && !req.Latest {
		return "", errors.New("export requires run id or latest")
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	runID := req.RunID
	if req.Latest {
		resolved, err := c.resolveRunID("")
		if err != nil {
			return "", err
		}
		runID = resolved
	}

	dir, err := stats.ExportRunArtifacts(c.runsDir, runID, req.OutDir)
	if err != nil {
		return "", err
	}
	return filepath.Clean(dir), nil
}

func (c *Client) resolveRunID(runID string) (string, error) {
	if runID != "" {
		return runID, nil
	}
	entries, err := stats.ListRunIndex(c.runsDir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New("no runs available")
	}
	return entries[0].RunID, nil
}
