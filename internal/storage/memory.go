package storage

import (
	"context"
	"sync"

	"luxgen/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	results     map[string]model.OptimizationResult
	convergence map[string][]float64
	generations map[string][]model.GenerationStats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.results = make(map[string]model.OptimizationResult)
	s.convergence = make(map[string][]float64)
	s.generations = make(map[string][]model.GenerationStats)
	return nil
}

func (s *MemoryStore) SaveResult(_ context.Context, runID string, result model.OptimizationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[runID] = result
	return nil
}

func (s *MemoryStore) GetResult(_ context.Context, runID string) (model.OptimizationResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[runID]
	return result, ok, nil
}

func (s *MemoryStore) SaveConvergence(_ context.Context, runID string, history []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.convergence[runID] = append([]float64(nil), history...)
	return nil
}

func (s *MemoryStore) GetConvergence(_ context.Context, runID string) ([]float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.convergence[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]float64(nil), history...), true, nil
}

func (s *MemoryStore) SaveGenerationStats(_ context.Context, runID string, stats []model.GenerationStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generations[runID] = append([]model.GenerationStats(nil), stats...)
	return nil
}

func (s *MemoryStore) GetGenerationStats(_ context.Context, runID string) ([]model.GenerationStats, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats, ok := s.generations[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.GenerationStats(nil), stats...), true, nil
}
