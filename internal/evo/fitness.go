package evo

import (
	"context"
	"errors"
	"fmt"
	"math"

	"luxgen/internal/catalog"
	"luxgen/internal/model"
	"luxgen/internal/sim"
)

const (
	// Fixed combine weights for the guardrail terms. These apply regardless
	// of the user-configurable objective weights so that a zeroed weight
	// configuration cannot make the search ignore constraints or the PPFD
	// target.
	violationsWeight = 0.5
	deviationWeight  = 0.3

	// A point is covered when it reaches this fraction of the target PPFD.
	coverageFraction = 0.7

	// Cost proxy: total fixture cost is normalized against energy budget
	// times a nominal installed cost per watt.
	costBudgetPerWatt = 2.0

	// Reference luminous efficacy (lm/W) that normalizes the efficiency
	// objective to [0,1].
	referenceEfficacy = 200.0

	countPenalty   = 0.5
	wattagePenalty = 0.5
	spacingPenalty = 0.3
)

// Evaluator maps a genotype to a fitness scalar via the simulator. It is
// stateless with respect to individuals; one evaluator is shared by all
// workers while each worker owns its simulator instance.
type Evaluator struct {
	Catalog     *catalog.Catalog
	Room        model.Room
	Constraints model.Constraints
	Weights     model.ObjectiveWeights
	Points      []sim.Point
	Surfaces    []sim.Surface
	Params      sim.Params
}

// Evaluate fills in the individual's fitness, objectives and illuminance
// summary. A simulation failure is recovered locally: fitness is forced to 0
// and the objectives to their worst values so the individual loses out in
// selection while the run continues. Context cancellation and unknown
// template ids are real errors and abort the run.
func (e Evaluator) Evaluate(ctx context.Context, s sim.Simulator, in *model.Individual, seed int64) error {
	sources, totalLumens, totalWatts, totalCost, err := e.lightSources(in)
	if err != nil {
		return err
	}

	s.ClearScene()
	for _, surface := range e.Surfaces {
		s.AddSurface(surface)
	}
	for _, source := range sources {
		s.AddLightSource(source)
	}

	params := e.Params
	params.Seed = seed
	samples, err := s.Run(ctx, e.Points, params)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		in.Fitness = 0
		in.Objectives = model.Objectives{PPFDDeviation: 1, ConstraintViolations: 1}
		in.Illuminance = model.IlluminanceStats{}
		return nil
	}

	stats := summarize(samples)
	in.Illuminance = stats

	target := e.Constraints.TargetPPFD
	obj := model.Objectives{
		Uniformity:           uniformityScore(samples, stats.Mean),
		Coverage:             coverageScore(samples, target),
		PPFDDeviation:        clamp01(1 - math.Abs(stats.Mean-target)/target),
		EnergyEfficiency:     efficiencyScore(totalLumens, totalWatts),
		Cost:                 costScore(totalCost, e.Constraints.EnergyBudget),
		ConstraintViolations: e.violationsScore(in, totalWatts),
	}
	in.Objectives = obj

	w := e.Weights
	weightSum := w.Uniformity + w.EnergyEfficiency + w.Cost + w.Coverage
	in.Fitness = (obj.Uniformity*w.Uniformity +
		obj.EnergyEfficiency*w.EnergyEfficiency +
		obj.Cost*w.Cost +
		obj.Coverage*w.Coverage +
		obj.ConstraintViolations*violationsWeight +
		obj.PPFDDeviation*deviationWeight) / (weightSum + violationsWeight + deviationWeight)
	return nil
}

// lightSources converts enabled genes to light sources pointing straight
// down, with the template as the authoritative power source. An unknown
// template id fails loudly.
func (e Evaluator) lightSources(in *model.Individual) (sources []sim.LightSource, lumens, watts, cost float64, err error) {
	for _, g := range in.Genes {
		if !g.Enabled {
			continue
		}
		t, lookupErr := e.Catalog.Lookup(g.TemplateID)
		if lookupErr != nil {
			return nil, 0, 0, 0, fmt.Errorf("gene references %w", lookupErr)
		}
		sources = append(sources, sim.LightSource{
			Position:  sim.Point{X: g.X, Y: g.Y, Z: g.Z},
			Direction: sim.Vector{Z: -1},
			Lumens:    t.Lumens,
			Wattage:   t.Wattage,
			BeamAngle: t.BeamAngle,
			Rotation:  g.Rotation,
		})
		lumens += t.Lumens
		watts += t.Wattage
		cost += t.Cost
	}
	return sources, lumens, watts, cost, nil
}

func (e Evaluator) violationsScore(in *model.Individual, totalWatts float64) float64 {
	violations := 0.0
	if len(in.Genes) < e.Constraints.MinFixtures {
		violations += countPenalty
	}
	if len(in.Genes) > e.Constraints.MaxFixtures {
		violations += countPenalty
	}
	if totalWatts > e.Constraints.EnergyBudget {
		violations += wattagePenalty
	}
	if e.spacingViolated(in) {
		violations += spacingPenalty
	}
	return clamp01(1 - violations)
}

// spacingViolated reports whether any pair of enabled fixtures sits outside
// the configured spacing band (horizontal distance).
func (e Evaluator) spacingViolated(in *model.Individual) bool {
	minS, maxS := e.Constraints.MinSpacing, e.Constraints.MaxSpacing
	if minS <= 0 && maxS <= 0 {
		return false
	}
	enabled := make([]model.FixtureGene, 0, len(in.Genes))
	for _, g := range in.Genes {
		if g.Enabled {
			enabled = append(enabled, g)
		}
	}
	for i := 0; i < len(enabled); i++ {
		for j := i + 1; j < len(enabled); j++ {
			dx := enabled[i].X - enabled[j].X
			dy := enabled[i].Y - enabled[j].Y
			d := math.Sqrt(dx*dx + dy*dy)
			if minS > 0 && d < minS {
				return true
			}
			if maxS > 0 && d > maxS {
				return true
			}
		}
	}
	return false
}

func summarize(samples []float64) model.IlluminanceStats {
	if len(samples) == 0 {
		return model.IlluminanceStats{}
	}
	total := 0.0
	min, max := samples[0], samples[0]
	for _, v := range samples {
		total += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return model.IlluminanceStats{Mean: total / float64(len(samples)), Min: min, Max: max}
}

// uniformityScore is 1 - coefficient of variation (population standard
// deviation over mean), clamped to [0,1].
func uniformityScore(samples []float64, mean float64) float64 {
	if mean <= 0 {
		return 0
	}
	sumSq := 0.0
	for _, v := range samples {
		d := v - mean
		sumSq += d * d
	}
	std := math.Sqrt(sumSq / float64(len(samples)))
	return clamp01(1 - std/mean)
}

func coverageScore(samples []float64, target float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	covered := 0
	threshold := coverageFraction * target
	for _, v := range samples {
		if v >= threshold {
			covered++
		}
	}
	return float64(covered) / float64(len(samples))
}

func efficiencyScore(lumens, watts float64) float64 {
	if watts <= 0 {
		return 0
	}
	return clamp01(lumens / watts / referenceEfficacy)
}

func costScore(totalCost, energyBudget float64) float64 {
	budget := energyBudget * costBudgetPerWatt
	if budget <= 0 {
		return 0
	}
	return 1 - math.Min(1, totalCost/budget)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
