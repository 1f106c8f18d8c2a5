package evo

import (
	"math/rand"

	"luxgen/internal/catalog"
	"luxgen/internal/model"
)

// placementRetries bounds rejection sampling against excluded zones before
// falling back to the room center. Zones covering the whole floor therefore
// degrade to a defined (center-stacked) layout instead of an error.
const placementRetries = 100

// RandomGene draws a uniformly random placement inside the room, outside
// excluded zones when possible, with height in the installation range and a
// uniformly random template and rotation.
func RandomGene(rng *rand.Rand, cat *catalog.Catalog, room model.Room, c model.Constraints) model.FixtureGene {
	x, y := room.Width/2, room.Length/2
	for attempt := 0; attempt < placementRetries; attempt++ {
		cx := rng.Float64() * room.Width
		cy := rng.Float64() * room.Length
		if !inExcludedZone(cx, cy, c.ExcludedZones) {
			x, y = cx, cy
			break
		}
	}

	z := c.InstallHeightMin + rng.Float64()*(c.InstallHeightMax-c.InstallHeightMin)
	ids := cat.IDs()
	return model.FixtureGene{
		X:          x,
		Y:          y,
		Z:          z,
		TemplateID: ids[rng.Intn(len(ids))],
		Rotation:   rng.Float64() * 360,
		Enabled:    true,
	}
}

// RandomIndividual draws a gene count uniformly in [min, max] fixtures and
// fills it with random genes. Fitness and objectives start neutral.
func RandomIndividual(rng *rand.Rand, cat *catalog.Catalog, room model.Room, c model.Constraints) model.Individual {
	count := c.MinFixtures + rng.Intn(c.MaxFixtures-c.MinFixtures+1)
	genes := make([]model.FixtureGene, 0, count)
	for i := 0; i < count; i++ {
		genes = append(genes, RandomGene(rng, cat, room, c))
	}
	return model.Individual{Genes: genes}
}

// RandomPopulation builds size independent random individuals.
func RandomPopulation(rng *rand.Rand, cat *catalog.Catalog, room model.Room, c model.Constraints, size int) []model.Individual {
	population := make([]model.Individual, 0, size)
	for i := 0; i < size; i++ {
		population = append(population, RandomIndividual(rng, cat, room, c))
	}
	return population
}

func inExcludedZone(x, y float64, zones []model.Zone) bool {
	for _, z := range zones {
		if z.Contains(x, y) {
			return true
		}
	}
	return false
}
