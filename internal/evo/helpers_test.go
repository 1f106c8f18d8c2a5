package evo

import (
	"context"
	"errors"
	"time"

	"luxgen/internal/catalog"
	"luxgen/internal/model"
	"luxgen/internal/sim"
)

func testRoom() model.Room {
	return model.Room{Width: 10, Length: 10, Height: 3, FloorReflectance: 0.2, WallReflectance: 0.35, CeilingReflectance: 0.1}
}

func testConstraints() model.Constraints {
	return model.Constraints{
		MinFixtures:      4,
		MaxFixtures:      12,
		TargetPPFD:       600,
		UniformityTarget: 0.8,
		EnergyBudget:     3000,
		InstallHeightMin: 2,
		InstallHeightMax: 2.8,
		MinSpacing:       1,
		MaxSpacing:       5,
	}
}

func testWeights() model.ObjectiveWeights {
	return model.ObjectiveWeights{Uniformity: 0.9, EnergyEfficiency: 0.7, Cost: 0.5, Coverage: 0.8}
}

func testCatalog() *catalog.Catalog {
	return catalog.Default()
}

// stubSimulator returns canned samples (padded with the final value when the
// point grid is larger) or a fixed error. It tracks scene state so tests can
// assert the reset behavior; delay slows each Run down for timeout tests.
type stubSimulator struct {
	samples []float64
	err     error
	delay   time.Duration

	surfaces int
	sources  int
	runs     int
}

func (s *stubSimulator) AddSurface(sim.Surface) { s.surfaces++ }

func (s *stubSimulator) AddLightSource(sim.LightSource) { s.sources++ }

func (s *stubSimulator) ClearScene() {
	s.surfaces = 0
	s.sources = 0
}

func (s *stubSimulator) Run(_ context.Context, points []sim.Point, _ sim.Params) ([]float64, error) {
	s.runs++
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]float64, len(points))
	for i := range out {
		if i < len(s.samples) {
			out[i] = s.samples[i]
		} else if len(s.samples) > 0 {
			out[i] = s.samples[len(s.samples)-1]
		}
	}
	return out, nil
}

var errSimBroken = errors.New("simulator exploded")
