// Package grid derives the measurement grid every fitness evaluation samples
// over. The grid is a pure function of room geometry: same inputs, same
// points, so the optimizer builds it once per run and reuses it.
package grid

import (
	"fmt"
	"math"

	"luxgen/internal/model"
	"luxgen/internal/sim"
)

// WorkingHeight is the canopy height above the floor at which PPFD is
// measured.
const WorkingHeight = 0.75

// MinStep is the lower bound on grid spacing.
const MinStep = 0.5

// Build returns sample points on a uniform 2D grid at WorkingHeight. The
// step along each axis is dimension / floor(dimension/resolution) so an
// integer number of cells spans the axis; points sit at cell centers.
func Build(room model.Room, resolution float64) ([]sim.Point, error) {
	if room.Width <= 0 || room.Length <= 0 {
		return nil, fmt.Errorf("room floor plan must be positive: %gx%g", room.Width, room.Length)
	}
	if resolution <= 0 {
		return nil, fmt.Errorf("grid resolution must be > 0: %g", resolution)
	}

	stepX := axisStep(room.Width, resolution)
	stepY := axisStep(room.Length, resolution)

	nx := int(math.Round(room.Width / stepX))
	ny := int(math.Round(room.Length / stepY))

	points := make([]sim.Point, 0, nx*ny)
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			points = append(points, sim.Point{
				X: (float64(ix) + 0.5) * stepX,
				Y: (float64(iy) + 0.5) * stepY,
				Z: WorkingHeight,
			})
		}
	}
	return points, nil
}

func axisStep(dim, resolution float64) float64 {
	cells := math.Floor(dim / resolution)
	if cells < 1 {
		cells = 1
	}
	step := dim / cells
	if step < MinStep {
		// fall back to the coarsest grid that still honors the minimum
		cells = math.Floor(dim / MinStep)
		if cells < 1 {
			cells = 1
		}
		step = dim / cells
	}
	return step
}
