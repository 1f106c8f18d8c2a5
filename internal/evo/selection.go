package evo

import (
	"fmt"
	"math/rand"

	"luxgen/internal/model"
)

// Selector chooses parents from a ranked population for reproduction.
type Selector interface {
	Name() string
	PickParent(rng *rand.Rand, ranked []model.Individual) (model.Individual, error)
}

// TournamentSelector samples candidates uniformly from the whole ranked
// population and returns the fittest. The same individual may be drawn into
// multiple tournaments.
type TournamentSelector struct {
	TournamentSize int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) PickParent(rng *rand.Rand, ranked []model.Individual) (model.Individual, error) {
	if rng == nil {
		return model.Individual{}, fmt.Errorf("random source is required")
	}
	if len(ranked) == 0 {
		return model.Individual{}, fmt.Errorf("empty population")
	}

	size := s.TournamentSize
	if size <= 0 {
		size = 3
	}
	if size > len(ranked) {
		size = len(ranked)
	}

	best := ranked[rng.Intn(len(ranked))]
	for i := 1; i < size; i++ {
		candidate := ranked[rng.Intn(len(ranked))]
		if candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best, nil
}

// EliteSelector picks uniformly from the top elite fraction.
type EliteSelector struct {
	EliteCount int
}

func (EliteSelector) Name() string {
	return "elite"
}

func (s EliteSelector) PickParent(rng *rand.Rand, ranked []model.Individual) (model.Individual, error) {
	if rng == nil {
		return model.Individual{}, fmt.Errorf("random source is required")
	}
	if len(ranked) == 0 {
		return model.Individual{}, fmt.Errorf("empty population")
	}
	count := s.EliteCount
	if count <= 0 || count > len(ranked) {
		count = len(ranked)
	}
	return ranked[rng.Intn(count)], nil
}
