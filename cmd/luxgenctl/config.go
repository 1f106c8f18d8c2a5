package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"luxgen/internal/model"
	luxapi "luxgen/pkg/luxgen"
)

// fileConfig is the JSON run-configuration schema. Absent fields keep their
// zero value and fall back to the API defaults.
type fileConfig struct {
	Room        *model.Room             `json:"room,omitempty"`
	Constraints *model.Constraints      `json:"constraints,omitempty"`
	Weights     *model.ObjectiveWeights `json:"weights,omitempty"`
	Options     struct {
		PopulationSize       int     `json:"population_size"`
		Generations          int     `json:"generations"`
		MutationRate         float64 `json:"mutation_rate"`
		CrossoverRate        float64 `json:"crossover_rate"`
		ElitismRate          float64 `json:"elitism_rate"`
		ConvergenceThreshold float64 `json:"convergence_threshold"`
		TournamentSize       int     `json:"tournament_size"`
		Workers              int     `json:"workers"`
		Seed                 int64   `json:"seed"`
		GridResolution       float64 `json:"grid_resolution"`
		RayCount             int     `json:"ray_count"`
		TimeoutMS            int64   `json:"timeout_ms"`
	} `json:"options"`
	Templates []model.FixtureTemplate `json:"templates,omitempty"`
}

func loadRunRequestFromConfig(path string) (luxapi.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return luxapi.RunRequest{}, err
	}

	var cfg fileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return luxapi.RunRequest{}, fmt.Errorf("parse run config %s: %w", path, err)
	}

	var req luxapi.RunRequest
	if cfg.Room != nil {
		req.Room = *cfg.Room
	}
	if cfg.Constraints != nil {
		req.Constraints = *cfg.Constraints
	}
	if cfg.Weights != nil {
		req.Weights = *cfg.Weights
	}
	req.Templates = cfg.Templates

	req.Options.PopulationSize = cfg.Options.PopulationSize
	req.Options.Generations = cfg.Options.Generations
	req.Options.MutationRate = cfg.Options.MutationRate
	req.Options.CrossoverRate = cfg.Options.CrossoverRate
	req.Options.ElitismRate = cfg.Options.ElitismRate
	req.Options.ConvergenceThreshold = cfg.Options.ConvergenceThreshold
	req.Options.TournamentSize = cfg.Options.TournamentSize
	req.Options.Workers = cfg.Options.Workers
	req.Options.Seed = cfg.Options.Seed
	req.Options.GridResolution = cfg.Options.GridResolution
	req.Options.RayCount = cfg.Options.RayCount
	req.Options.Timeout = time.Duration(cfg.Options.TimeoutMS) * time.Millisecond
	return req, nil
}
