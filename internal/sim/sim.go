// Package sim defines the light-transport simulator contract the optimizer
// consumes, plus a built-in point-source reference implementation. The
// optimizer only depends on the interface; a high-fidelity Monte Carlo
// renderer can be swapped in behind the same contract.
package sim

import "context"

// Point is a 3D location in room coordinates (meters).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vector is a direction; consumers treat it as unit length.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Surface is a static room surface registered into the scene. Only the
// photometric essentials cross the contract boundary.
type Surface struct {
	Name        string  `json:"name"`
	Center      Point   `json:"center"`
	Normal      Vector  `json:"normal"`
	Area        float64 `json:"area"`
	Reflectance float64 `json:"reflectance"`
}

// LightSource describes one emitting fixture.
type LightSource struct {
	Position  Point   `json:"position"`
	Direction Vector  `json:"direction"`
	Lumens    float64 `json:"lumens"`
	Wattage   float64 `json:"wattage"`
	BeamAngle float64 `json:"beam_angle"`
	Rotation  float64 `json:"rotation"`
}

// Params controls one simulation pass. Optimization-time calls use a reduced
// ray budget relative to final-render calls. Seed makes stochastic sampling
// reproducible and independent of evaluation scheduling.
type Params struct {
	RayCount             int     `json:"ray_count"`
	MaxBounces           int     `json:"max_bounces"`
	WavelengthMin        float64 `json:"wavelength_min"`
	WavelengthMax        float64 `json:"wavelength_max"`
	WavelengthStep       float64 `json:"wavelength_step"`
	ConvergenceThreshold float64 `json:"convergence_threshold"`
	Stratified           bool    `json:"stratified"`
	Seed                 int64   `json:"seed"`
}

// Simulator is the light-transport collaborator contract. Implementations
// are not safe for concurrent use; every concurrent evaluation must own its
// instance.
type Simulator interface {
	AddSurface(Surface)
	AddLightSource(LightSource)
	ClearScene()
	Run(ctx context.Context, points []Point, params Params) ([]float64, error)
}

// Factory produces an owned Simulator instance per concurrent consumer.
type Factory func() Simulator

// DefaultParams is the reduced-budget parameter set used during optimization.
func DefaultParams(seed int64) Params {
	return Params{
		RayCount:             2000,
		MaxBounces:           2,
		WavelengthMin:        400,
		WavelengthMax:        700,
		WavelengthStep:       10,
		ConvergenceThreshold: 0.05,
		Stratified:           true,
		Seed:                 seed,
	}
}
