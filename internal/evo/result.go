package evo

import (
	"fmt"

	"luxgen/internal/catalog"
	"luxgen/internal/model"
)

// Recommendation thresholds. The uniformity ratio here is min/max
// illuminance, distinct from the fitness-internal 1-CV uniformity objective.
const (
	uniformityRatioFloor = 0.7
	ppfdLowFactor        = 0.9
	ppfdHighFactor       = 1.1
	coverageFloor        = 0.9
)

// Aggregate derives final summary statistics and qualitative recommendations
// from the best individual. Pure function of the individual, catalog and
// constraints.
func Aggregate(best model.Individual, cat *catalog.Catalog, c model.Constraints) (model.FinalStats, []string, error) {
	stats := model.FinalStats{
		AchievedPPFD: best.Illuminance.Mean,
		MinPPFD:      best.Illuminance.Min,
		MaxPPFD:      best.Illuminance.Max,
		CoveragePct:  best.Objectives.Coverage * 100,
	}

	var lumens float64
	for _, g := range best.Genes {
		if !g.Enabled {
			continue
		}
		t, err := cat.Lookup(g.TemplateID)
		if err != nil {
			return model.FinalStats{}, nil, fmt.Errorf("aggregate best individual: %w", err)
		}
		stats.FixtureCount++
		stats.TotalWattage += t.Wattage
		stats.TotalCost += t.Cost
		lumens += t.Lumens
	}
	if stats.TotalWattage > 0 {
		stats.Efficiency = lumens / stats.TotalWattage
	}
	if best.Illuminance.Max > 0 {
		stats.UniformityRatio = best.Illuminance.Min / best.Illuminance.Max
	}

	var recs []string
	if stats.UniformityRatio < uniformityRatioFloor {
		recs = append(recs, fmt.Sprintf("uniformity ratio %.2f is below %.2f: add fixtures or adjust placement", stats.UniformityRatio, uniformityRatioFloor))
	}
	if stats.AchievedPPFD < ppfdLowFactor*c.TargetPPFD {
		recs = append(recs, fmt.Sprintf("mean PPFD %.0f is below target %.0f: add fixtures or raise fixture output", stats.AchievedPPFD, c.TargetPPFD))
	}
	if stats.AchievedPPFD > ppfdHighFactor*c.TargetPPFD {
		recs = append(recs, fmt.Sprintf("mean PPFD %.0f overshoots target %.0f: remove fixtures or dim output", stats.AchievedPPFD, c.TargetPPFD))
	}
	if stats.TotalWattage > c.EnergyBudget {
		recs = append(recs, fmt.Sprintf("total wattage %.0fW exceeds energy budget %.0fW", stats.TotalWattage, c.EnergyBudget))
	}
	if best.Objectives.Coverage < coverageFloor {
		recs = append(recs, fmt.Sprintf("only %.0f%% of the canopy reaches %.0f%% of target PPFD: redistribute fixtures toward dark areas", stats.CoveragePct, coverageFraction*100))
	}
	if len(recs) == 0 {
		recs = append(recs, "layout meets configured targets")
	}
	return stats, recs, nil
}
