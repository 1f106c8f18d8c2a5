package evo

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/exp/slices"

	"luxgen/internal/catalog"
	"luxgen/internal/grid"
	"luxgen/internal/model"
	"luxgen/internal/sim"
)

// stagnationLimit is how many consecutive stagnant generations trigger early
// termination.
const stagnationLimit = 10

// Options tune the search. Zero values are replaced by the documented
// defaults in New.
type Options struct {
	PopulationSize       int           `json:"population_size"`
	Generations          int           `json:"generations"`
	MutationRate         float64       `json:"mutation_rate"`
	CrossoverRate        float64       `json:"crossover_rate"`
	ElitismRate          float64       `json:"elitism_rate"`
	ConvergenceThreshold float64       `json:"convergence_threshold"`
	TournamentSize       int           `json:"tournament_size"`
	Workers              int           `json:"workers"`
	Seed                 int64         `json:"seed"`
	GridResolution       float64       `json:"grid_resolution"`
	RayCount             int           `json:"ray_count"`
	Timeout              time.Duration `json:"timeout"`
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		PopulationSize:       30,
		Generations:          50,
		MutationRate:         0.15,
		CrossoverRate:        0.7,
		ElitismRate:          0.1,
		ConvergenceThreshold: 1e-4,
		TournamentSize:       3,
		Workers:              4,
		GridResolution:       1.0,
		RayCount:             2000,
	}
}

// Progress is reported once per completed generation.
type Progress struct {
	Generation  int
	Generations int
	BestFitness float64
	MeanFitness float64
	Stagnation  float64
	Elapsed     time.Duration
	Remaining   time.Duration
}

type ProgressFunc func(Progress)

// Config wires an optimizer run together. Simulators must produce an owned
// instance per concurrent evaluation; sharing one mutable scene across
// workers is a correctness bug, not just a slowdown.
type Config struct {
	Room        model.Room
	Catalog     *catalog.Catalog
	Constraints model.Constraints
	Weights     model.ObjectiveWeights
	Options     Options
	Simulators  sim.Factory
	Selector    Selector
	OnProgress  ProgressFunc
}

// Optimizer runs the generational loop. The loop is strictly sequential
// across generations; evaluation within a generation fans out to workers.
type Optimizer struct {
	cfg  Config
	rng  *rand.Rand
	eval Evaluator
	mut  Mutator
}

// New validates the configuration and prepares the run. Infeasible static
// configuration is rejected here, before any generation executes.
func New(cfg Config) (*Optimizer, error) {
	if cfg.Catalog == nil || cfg.Catalog.Len() == 0 {
		return nil, fmt.Errorf("fixture catalog is required")
	}
	if cfg.Simulators == nil {
		return nil, fmt.Errorf("simulator factory is required")
	}
	if err := model.ValidateConstraints(cfg.Room, cfg.Constraints); err != nil {
		return nil, err
	}
	if err := model.ValidateWeights(cfg.Weights); err != nil {
		return nil, err
	}

	defaults := DefaultOptions()
	opts := &cfg.Options
	if opts.PopulationSize <= 0 {
		opts.PopulationSize = defaults.PopulationSize
	}
	if opts.Generations <= 0 {
		opts.Generations = defaults.Generations
	}
	if opts.MutationRate == 0 {
		opts.MutationRate = defaults.MutationRate
	}
	if opts.CrossoverRate == 0 {
		opts.CrossoverRate = defaults.CrossoverRate
	}
	if opts.ElitismRate == 0 {
		opts.ElitismRate = defaults.ElitismRate
	}
	if opts.ConvergenceThreshold == 0 {
		opts.ConvergenceThreshold = defaults.ConvergenceThreshold
	}
	if opts.TournamentSize <= 0 {
		opts.TournamentSize = defaults.TournamentSize
	}
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}
	if opts.GridResolution <= 0 {
		opts.GridResolution = defaults.GridResolution
	}
	if opts.RayCount <= 0 {
		opts.RayCount = defaults.RayCount
	}
	if opts.MutationRate < 0 || opts.MutationRate > 1 {
		return nil, fmt.Errorf("mutation rate must be in [0,1]: %g", opts.MutationRate)
	}
	if opts.CrossoverRate < 0 || opts.CrossoverRate > 1 {
		return nil, fmt.Errorf("crossover rate must be in [0,1]: %g", opts.CrossoverRate)
	}
	if opts.ElitismRate < 0 || opts.ElitismRate > 1 {
		return nil, fmt.Errorf("elitism rate must be in [0,1]: %g", opts.ElitismRate)
	}

	points, err := grid.Build(cfg.Room, opts.GridResolution)
	if err != nil {
		return nil, err
	}

	params := sim.DefaultParams(opts.Seed)
	params.RayCount = opts.RayCount

	if cfg.Selector == nil {
		cfg.Selector = TournamentSelector{TournamentSize: opts.TournamentSize}
	}

	return &Optimizer{
		cfg: cfg,
		rng: rand.New(rand.NewSource(opts.Seed)),
		eval: Evaluator{
			Catalog:     cfg.Catalog,
			Room:        cfg.Room,
			Constraints: cfg.Constraints,
			Weights:     cfg.Weights,
			Points:      points,
			Surfaces:    sim.RoomSurfaces(cfg.Room),
			Params:      params,
		},
		mut: Mutator{
			Catalog:     cfg.Catalog,
			Room:        cfg.Room,
			Constraints: cfg.Constraints,
			Rate:        opts.MutationRate,
		},
	}, nil
}

// Optimize runs the loop: initialize, then evaluate / rank / report / evolve
// until the generation cap, convergence, timeout or cancellation. It always
// returns the best-effort result when at least one generation completed.
func (o *Optimizer) Optimize(ctx context.Context) (model.OptimizationResult, error) {
	opts := o.cfg.Options
	start := time.Now()

	population := RandomPopulation(o.rng, o.cfg.Catalog, o.cfg.Room, o.cfg.Constraints, opts.PopulationSize)

	history := make([][]model.Individual, 0, opts.Generations)
	convergence := make([]float64, 0, opts.Generations)
	generations := make([]model.GenerationStats, 0, opts.Generations)

	prevBest := 0.0
	stagnation := 0

	for gen := 0; gen < opts.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return model.OptimizationResult{}, err
		}
		if opts.Timeout > 0 && time.Since(start) > opts.Timeout {
			break
		}

		if err := o.evaluatePopulation(ctx, population); err != nil {
			return model.OptimizationResult{}, err
		}
		slices.SortStableFunc(population, func(a, b model.Individual) int {
			switch {
			case a.Fitness > b.Fitness:
				return -1
			case a.Fitness < b.Fitness:
				return 1
			default:
				return 0
			}
		})

		best := population[0].Fitness
		convergence = append(convergence, best)
		generations = append(generations, summarizeGeneration(population, gen))
		history = append(history, snapshot(population))

		if math.Abs(best-prevBest) < opts.ConvergenceThreshold {
			stagnation++
		} else {
			stagnation = 0
		}
		prevBest = best

		o.reportProgress(gen, population, stagnation, start)

		if stagnation >= stagnationLimit {
			break
		}
		if gen == opts.Generations-1 {
			break
		}

		next, err := o.nextGeneration(population)
		if err != nil {
			return model.OptimizationResult{}, err
		}
		population = next
	}

	if len(history) == 0 {
		return model.OptimizationResult{}, fmt.Errorf("no generation completed within timeout")
	}

	// On a timeout break the population already holds the next, unevaluated
	// generation; the last history snapshot is the last ranked one.
	best := history[len(history)-1][0].Clone()
	stats, recommendations, err := Aggregate(best, o.cfg.Catalog, o.cfg.Constraints)
	if err != nil {
		return model.OptimizationResult{}, err
	}

	return model.OptimizationResult{
		Best:              best,
		PopulationHistory: history,
		Convergence:       convergence,
		Generations:       generations,
		FinalStats:        stats,
		Recommendations:   recommendations,
	}, nil
}

// evaluatePopulation fans individuals out to a worker pool. Each worker owns
// one simulator instance; the per-individual scene reset is therefore never
// visible to another in-flight evaluation. The simulation seed derives from
// the run seed and the genotype itself, so results do not depend on worker
// scheduling and an elite clone re-evaluates to the identical fitness, which
// keeps best fitness monotone under elitism.
func (o *Optimizer) evaluatePopulation(ctx context.Context, population []model.Individual) error {
	type job struct {
		idx int
	}
	type result struct {
		idx int
		err error
	}

	jobs := make(chan job)
	results := make(chan result, len(population))

	workerCount := o.cfg.Options.Workers
	if workerCount > len(population) {
		workerCount = len(population)
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			simulator := o.cfg.Simulators()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}
				seed := o.cfg.Options.Seed ^ int64(genesHash(population[j.idx].Genes))
				err := o.eval.Evaluate(ctx, simulator, &population[j.idx], seed)
				results <- result{idx: j.idx, err: err}
			}
		}()
	}

	for i := range population {
		jobs <- job{idx: i}
	}
	close(jobs)

	wg.Wait()
	close(results)

	for res := range results {
		if res.err != nil {
			return res.err
		}
	}
	return nil
}

// nextGeneration applies elitism then fills the rest with crossover and
// mutation. Population size stays constant.
func (o *Optimizer) nextGeneration(ranked []model.Individual) ([]model.Individual, error) {
	size := o.cfg.Options.PopulationSize
	next := make([]model.Individual, 0, size)

	eliteCount := int(math.Ceil(o.cfg.Options.ElitismRate * float64(size)))
	if eliteCount > size {
		eliteCount = size
	}
	for i := 0; i < eliteCount; i++ {
		next = append(next, ranked[i].Clone())
	}

	for len(next) < size {
		p1, err := o.cfg.Selector.PickParent(o.rng, ranked)
		if err != nil {
			return nil, err
		}
		p2, err := o.cfg.Selector.PickParent(o.rng, ranked)
		if err != nil {
			return nil, err
		}

		c1, c2 := UniformCrossover(o.rng, p1, p2, o.cfg.Options.CrossoverRate)
		o.mut.Mutate(o.rng, &c1)
		o.mut.Mutate(o.rng, &c2)
		c1.Fitness, c1.Objectives = 0, model.Objectives{}
		c2.Fitness, c2.Objectives = 0, model.Objectives{}

		next = append(next, c1)
		if len(next) < size {
			next = append(next, c2)
		}
	}
	return next, nil
}

func (o *Optimizer) reportProgress(gen int, ranked []model.Individual, stagnation int, start time.Time) {
	if o.cfg.OnProgress == nil {
		return
	}
	elapsed := time.Since(start)
	completed := gen + 1
	remaining := time.Duration(float64(elapsed) / float64(completed) * float64(o.cfg.Options.Generations-completed))
	o.cfg.OnProgress(Progress{
		Generation:  gen,
		Generations: o.cfg.Options.Generations,
		BestFitness: ranked[0].Fitness,
		MeanFitness: meanFitness(ranked),
		Stagnation:  float64(stagnation) / float64(stagnationLimit),
		Elapsed:     elapsed,
		Remaining:   remaining,
	})
}

func summarizeGeneration(ranked []model.Individual, generation int) model.GenerationStats {
	return model.GenerationStats{
		Generation:  generation,
		BestFitness: ranked[0].Fitness,
		MeanFitness: meanFitness(ranked),
		MinFitness:  ranked[len(ranked)-1].Fitness,
	}
}

func meanFitness(population []model.Individual) float64 {
	total := 0.0
	for _, in := range population {
		total += in.Fitness
	}
	return total / float64(len(population))
}

// genesHash fingerprints a genotype for seed derivation.
func genesHash(genes []model.FixtureGene) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}
	for _, g := range genes {
		writeFloat(g.X)
		writeFloat(g.Y)
		writeFloat(g.Z)
		writeFloat(g.Rotation)
		_, _ = h.Write([]byte(g.TemplateID))
		if g.Enabled {
			_, _ = h.Write([]byte{1})
		} else {
			_, _ = h.Write([]byte{0})
		}
	}
	return h.Sum64()
}

func snapshot(population []model.Individual) []model.Individual {
	out := make([]model.Individual, 0, len(population))
	for _, in := range population {
		out = append(out, in.Clone())
	}
	return out
}
