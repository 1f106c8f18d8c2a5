package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Room is the growing-room volume fixtures are placed in. Dimensions are in
// meters; reflectances are dimensionless [0,1] and only consumed by the
// simulator when it approximates bounced light.
type Room struct {
	Width              float64 `json:"width"`
	Length             float64 `json:"length"`
	Height             float64 `json:"height"`
	FloorReflectance   float64 `json:"floor_reflectance"`
	WallReflectance    float64 `json:"wall_reflectance"`
	CeilingReflectance float64 `json:"ceiling_reflectance"`
}

// FixtureTemplate is an immutable catalog entry. Many genes may reference the
// same template by id; the optimizer never mutates templates.
type FixtureTemplate struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Lumens    float64 `json:"lumens"`
	Wattage   float64 `json:"wattage"`
	BeamAngle float64 `json:"beam_angle"`
	Cost      float64 `json:"cost"`
	Width     float64 `json:"width"`
	Length    float64 `json:"length"`
	Height    float64 `json:"height"`
}

// FixtureGene is one fixture's placement inside an individual.
type FixtureGene struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	TemplateID string  `json:"template_id"`
	Rotation   float64 `json:"rotation"`
	Enabled    bool    `json:"enabled"`
}

// Objectives holds per-objective scores, each normalized to [0,1] where 1 is
// best. PPFDDeviation and ConstraintViolations additionally carry a
// failure-path sense: a failed simulation pins both to 1 (fully penalized)
// while fitness is forced to 0.
type Objectives struct {
	Uniformity           float64 `json:"uniformity"`
	EnergyEfficiency     float64 `json:"energy_efficiency"`
	Cost                 float64 `json:"cost"`
	Coverage             float64 `json:"coverage"`
	PPFDDeviation        float64 `json:"ppfd_deviation"`
	ConstraintViolations float64 `json:"constraint_violations"`
}

// IlluminanceStats summarizes the simulation samples of one evaluation.
type IlluminanceStats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Individual is one candidate fixture layout. Genes are owned by the
// individual; generations never alias each other's genes.
type Individual struct {
	Genes       []FixtureGene    `json:"genes"`
	Fitness     float64          `json:"fitness"`
	Objectives  Objectives       `json:"objectives"`
	Illuminance IlluminanceStats `json:"illuminance"`
}

// Clone returns a deep copy. Elitism and reproduction always operate on
// clones so that each generation fully owns its individuals.
func (in Individual) Clone() Individual {
	out := in
	out.Genes = append([]FixtureGene(nil), in.Genes...)
	return out
}

// EnabledCount returns the number of enabled genes.
func (in Individual) EnabledCount() int {
	n := 0
	for _, g := range in.Genes {
		if g.Enabled {
			n++
		}
	}
	return n
}

// Zone is an excluded rectangular region of the floor plan.
type Zone struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

func (z Zone) Contains(x, y float64) bool {
	return x >= z.X0 && x <= z.X1 && y >= z.Y0 && y <= z.Y1
}

// Constraints are the hard bounds of a run. Read-only across the whole run;
// violations are expressed as fitness penalties, not rejections.
type Constraints struct {
	MinFixtures      int     `json:"min_fixtures" validate:"gte=1"`
	MaxFixtures      int     `json:"max_fixtures" validate:"gte=1"`
	TargetPPFD       float64 `json:"target_ppfd" validate:"gt=0"`
	UniformityTarget float64 `json:"uniformity_target" validate:"gte=0,lte=1"`
	EnergyBudget     float64 `json:"energy_budget" validate:"gt=0"`
	InstallHeightMin float64 `json:"install_height_min" validate:"gte=0"`
	InstallHeightMax float64 `json:"install_height_max" validate:"gte=0"`
	MinSpacing       float64 `json:"min_spacing" validate:"gte=0"`
	MaxSpacing       float64 `json:"max_spacing" validate:"gte=0"`
	ExcludedZones    []Zone  `json:"excluded_zones,omitempty"`
}

// ObjectiveWeights are the user-configurable relative weights used to combine
// normalized objective scores. The constraint-violation and PPFD-deviation
// penalties are applied with fixed weights regardless of these values, so a
// zeroed configuration cannot disable the guardrails. Maintenance is accepted
// for forward compatibility but does not enter the combine.
type ObjectiveWeights struct {
	Uniformity       float64 `json:"uniformity" validate:"gte=0,lte=1"`
	EnergyEfficiency float64 `json:"energy_efficiency" validate:"gte=0,lte=1"`
	Cost             float64 `json:"cost" validate:"gte=0,lte=1"`
	Coverage         float64 `json:"coverage" validate:"gte=0,lte=1"`
	Maintenance      float64 `json:"maintenance" validate:"gte=0,lte=1"`
}

// GenerationStats is the per-generation diagnostics snapshot.
type GenerationStats struct {
	Generation  int     `json:"generation"`
	BestFitness float64 `json:"best_fitness"`
	MeanFitness float64 `json:"mean_fitness"`
	MinFitness  float64 `json:"min_fitness"`
}

// FinalStats are derived from the best individual after the run completes.
type FinalStats struct {
	FixtureCount    int     `json:"fixture_count"`
	TotalWattage    float64 `json:"total_wattage"`
	TotalCost       float64 `json:"total_cost"`
	AchievedPPFD    float64 `json:"achieved_ppfd"`
	MinPPFD         float64 `json:"min_ppfd"`
	MaxPPFD         float64 `json:"max_ppfd"`
	UniformityRatio float64 `json:"uniformity_ratio"`
	Efficiency      float64 `json:"efficiency"`
	CoveragePct     float64 `json:"coverage_pct"`
}

// OptimizationResult is the serializable outcome of a run.
type OptimizationResult struct {
	VersionedRecord
	Best              Individual        `json:"best"`
	PopulationHistory [][]Individual    `json:"population_history"`
	Convergence       []float64         `json:"convergence"`
	Generations       []GenerationStats `json:"generations"`
	FinalStats        FinalStats        `json:"final_stats"`
	Recommendations   []string          `json:"recommendations"`
}
