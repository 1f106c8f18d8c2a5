package evo

import (
	"math"
	"math/rand"

	"luxgen/internal/catalog"
	"luxgen/internal/model"
)

const (
	positionJitter = 1.0
	heightJitter   = 0.25
	rotationJitter = 45.0

	templateRateFactor   = 0.5
	toggleRateFactor     = 0.3
	structuralRateFactor = 0.2
	structuralAddShare   = 0.7
)

// Mutator applies the per-gene and structural mutations to offspring.
type Mutator struct {
	Catalog     *catalog.Catalog
	Room        model.Room
	Constraints model.Constraints
	Rate        float64
}

// Mutate modifies the individual in place. Each sub-mutation is gated
// independently by the mutation rate (scaled for template, toggle and
// structural mutations); all results are clamped back into room and
// installation bounds, and rotation wraps modulo 360.
func (m Mutator) Mutate(rng *rand.Rand, in *model.Individual) {
	ids := m.Catalog.IDs()
	for i := range in.Genes {
		g := &in.Genes[i]

		if rng.Float64() < m.Rate {
			g.X = clamp(g.X+(rng.Float64()*2-1)*positionJitter, 0, m.Room.Width)
			g.Y = clamp(g.Y+(rng.Float64()*2-1)*positionJitter, 0, m.Room.Length)
		}
		if rng.Float64() < m.Rate {
			g.Z = clamp(g.Z+(rng.Float64()*2-1)*heightJitter, m.Constraints.InstallHeightMin, m.Constraints.InstallHeightMax)
		}
		if rng.Float64() < m.Rate*templateRateFactor {
			g.TemplateID = ids[rng.Intn(len(ids))]
		}
		if rng.Float64() < m.Rate*toggleRateFactor {
			g.Enabled = !g.Enabled
		}
		if rng.Float64() < m.Rate {
			g.Rotation = wrapDegrees(g.Rotation + (rng.Float64()*2-1)*rotationJitter)
		}
	}

	if rng.Float64() < m.Rate*structuralRateFactor {
		if rng.Float64() < structuralAddShare {
			if len(in.Genes) < m.Constraints.MaxFixtures {
				in.Genes = append(in.Genes, RandomGene(rng, m.Catalog, m.Room, m.Constraints))
			}
		} else if len(in.Genes) > m.Constraints.MinFixtures {
			victim := rng.Intn(len(in.Genes))
			in.Genes = append(in.Genes[:victim], in.Genes[victim+1:]...)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
