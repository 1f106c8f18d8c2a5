package storage

import (
	"context"

	"luxgen/internal/model"
)

// Store persists run outcomes for later inspection and export.
type Store interface {
	Init(ctx context.Context) error
	SaveResult(ctx context.Context, runID string, result model.OptimizationResult) error
	GetResult(ctx context.Context, runID string) (model.OptimizationResult, bool, error)
	SaveConvergence(ctx context.Context, runID string, history []float64) error
	GetConvergence(ctx context.Context, runID string) ([]float64, bool, error)
	SaveGenerationStats(ctx context.Context, runID string, stats []model.GenerationStats) error
	GetGenerationStats(ctx context.Context, runID string) ([]model.GenerationStats, bool, error)
}

// DefaultStoreKind is the backend used when none is configured.
func DefaultStoreKind() string {
	return "memory"
}
