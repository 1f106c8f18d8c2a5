package evo

import (
	"math/rand"

	"luxgen/internal/model"
)

// UniformCrossover mixes two parents gene-by-gene. For each index up to the
// longer parent's length the genes swap with 50% probability; where only one
// parent has a gene it is probabilistically copied to the other offspring
// instead of dropped, so offspring length can drift from either parent's.
// This drift is how fixture count evolves. With probability 1-rate the
// parents are cloned unchanged.
func UniformCrossover(rng *rand.Rand, p1, p2 model.Individual, rate float64) (model.Individual, model.Individual) {
	if rng.Float64() >= rate {
		return p1.Clone(), p2.Clone()
	}

	longest := len(p1.Genes)
	if len(p2.Genes) > longest {
		longest = len(p2.Genes)
	}

	var g1, g2 []model.FixtureGene
	for i := 0; i < longest; i++ {
		has1 := i < len(p1.Genes)
		has2 := i < len(p2.Genes)
		swap := rng.Float64() < 0.5
		switch {
		case has1 && has2:
			if swap {
				g1 = append(g1, p2.Genes[i])
				g2 = append(g2, p1.Genes[i])
			} else {
				g1 = append(g1, p1.Genes[i])
				g2 = append(g2, p2.Genes[i])
			}
		case has1:
			g1 = append(g1, p1.Genes[i])
			if swap {
				g2 = append(g2, p1.Genes[i])
			}
		case has2:
			g2 = append(g2, p2.Genes[i])
			if swap {
				g1 = append(g1, p2.Genes[i])
			}
		}
	}

	return model.Individual{Genes: g1}, model.Individual{Genes: g2}
}
