package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateConstraints rejects statically infeasible constraint sets before a
// run starts. Anything that leaves no constructible individual is fatal here;
// everything else is handled as a fitness penalty during the run.
func ValidateConstraints(room Room, c Constraints) error {
	if room.Width <= 0 || room.Length <= 0 || room.Height <= 0 {
		return fmt.Errorf("room dimensions must be > 0: %gx%gx%g", room.Width, room.Length, room.Height)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("constraints: %w", err)
	}
	if c.MaxFixtures < c.MinFixtures {
		return fmt.Errorf("max fixtures (%d) must be >= min fixtures (%d)", c.MaxFixtures, c.MinFixtures)
	}
	if c.InstallHeightMax < c.InstallHeightMin {
		return fmt.Errorf("install height range inverted: [%g, %g]", c.InstallHeightMin, c.InstallHeightMax)
	}
	if c.InstallHeightMax > room.Height {
		return fmt.Errorf("install height max %g exceeds room height %g", c.InstallHeightMax, room.Height)
	}
	if c.MaxSpacing > 0 && c.MaxSpacing < c.MinSpacing {
		return fmt.Errorf("spacing range inverted: [%g, %g]", c.MinSpacing, c.MaxSpacing)
	}
	return nil
}

// ValidateWeights rejects out-of-range objective weights.
func ValidateWeights(w ObjectiveWeights) error {
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("objective weights: %w", err)
	}
	return nil
}
