package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"luxgen/internal/catalog"
	"luxgen/internal/config"
	"luxgen/internal/evo"
	luxapi "luxgen/pkg/luxgen"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "result":
		return runResult(ctx, args[1:])
	case "history":
		return runHistory(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	case "fixtures":
		return runFixtures(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: luxgenctl <run|runs|result|history|export|fixtures> [flags]", msg)
}

func newClient(env config.Config, storeKind, dbPath, runsDir string) (*luxapi.Client, error) {
	return luxapi.New(luxapi.Options{
		StoreKind:  storeKind,
		DBPath:     dbPath,
		RunsDir:    runsDir,
		ExportsDir: env.Runs.ExportDir,
	})
}

func runRun(ctx context.Context, args []string) error {
	env, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "JSON run configuration file")
	fixturesPath := fs.String("fixtures", "", "JSON fixture catalog file (default: built-in catalog)")
	storeKind := fs.String("store", env.Store.Kind, "store backend: memory|sqlite")
	dbPath := fs.String("db-path", env.Store.DBPath, "sqlite database path")
	runsDir := fs.String("runs-dir", env.Runs.Dir, "run artifacts directory")
	seed := fs.Int64("seed", 0, "random seed (0 uses current time)")
	population := fs.Int("population", 0, "population size")
	generations := fs.Int("generations", 0, "generation cap")
	workers := fs.Int("workers", env.Workers, "parallel fitness evaluations")
	timeout := fs.Duration("timeout", 0, "wall-clock budget, checked between generations")
	quiet := fs.Bool("quiet", false, "suppress per-generation progress")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := luxapi.RunRequest{}
	if *configPath != "" {
		req, err = loadRunRequestFromConfig(*configPath)
		if err != nil {
			return err
		}
	}
	if *fixturesPath != "" {
		cat, err := catalog.LoadFile(*fixturesPath)
		if err != nil {
			return err
		}
		req.Templates = cat.Templates()
	}
	if *seed != 0 {
		req.Options.Seed = *seed
	}
	if req.Options.Seed == 0 {
		req.Options.Seed = time.Now().UnixNano()
	}
	if *population > 0 {
		req.Options.PopulationSize = *population
	}
	if *generations > 0 {
		req.Options.Generations = *generations
	}
	if *workers > 0 {
		req.Options.Workers = *workers
	}
	if *timeout > 0 {
		req.Options.Timeout = *timeout
	}

	interactive := !*quiet && isatty.IsTerminal(os.Stderr.Fd())
	if interactive {
		req.OnProgress = func(p evo.Progress) {
			fmt.Fprintf(os.Stderr, "\rgen %d/%d best=%.4f mean=%.4f stagnation=%.0f%% elapsed=%s eta=%s   ",
				p.Generation+1, p.Generations, p.BestFitness, p.MeanFitness,
				p.Stagnation*100,
				p.Elapsed.Truncate(time.Second),
				p.Remaining.Truncate(time.Second))
		}
	}

	client, err := newClient(env, *storeKind, *dbPath, *runsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if interactive {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	final := summary.Result.FinalStats
	fmt.Printf("run %s completed after %d generations\n", summary.RunID, len(summary.Result.Generations))
	fmt.Printf("  best fitness     %.4f\n", summary.Result.Best.Fitness)
	fmt.Printf("  fixtures         %d enabled\n", final.FixtureCount)
	fmt.Printf("  total wattage    %sW\n", humanize.Commaf(final.TotalWattage))
	fmt.Printf("  total cost       %s\n", humanize.Commaf(final.TotalCost))
	fmt.Printf("  mean PPFD        %.0f (target %.0f)\n", final.AchievedPPFD, constraintTarget(req))
	fmt.Printf("  uniformity ratio %.2f\n", final.UniformityRatio)
	fmt.Printf("  coverage         %.0f%%\n", final.CoveragePct)
	for _, rec := range summary.Result.Recommendations {
		fmt.Printf("  note: %s\n", rec)
	}
	fmt.Printf("artifacts: %s\n", summary.ArtifactsDir)
	return nil
}

func constraintTarget(req luxapi.RunRequest) float64 {
	if req.Constraints.TargetPPFD > 0 {
		return req.Constraints.TargetPPFD
	}
	return luxapi.DefaultConstraints().TargetPPFD
}

func runRuns(ctx context.Context, args []string) error {
	env, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	runsDir := fs.String("runs-dir", env.Runs.Dir, "run artifacts directory")
	limit := fs.Int("limit", 20, "maximum entries to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(env, env.Store.Kind, env.Store.DBPath, *runsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	entries, err := client.Runs(ctx, *limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  gens=%d pop=%d fixtures=%d best=%.4f ppfd=%.0f  %s\n",
			e.RunID, e.Generations, e.PopulationSize, e.FixtureCount, e.FinalBestFitness, e.AchievedPPFD, e.CreatedAtUTC)
	}
	return nil
}

func runResult(ctx context.Context, args []string) error {
	env, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("result", flag.ContinueOnError)
	runsDir := fs.String("runs-dir", env.Runs.Dir, "run artifacts directory")
	runID := fs.String("run-id", "", "run id (default: latest)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(env, env.Store.Kind, env.Store.DBPath, *runsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	result, err := client.Result(ctx, *runID)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result.FinalStats, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	for _, rec := range result.Recommendations {
		fmt.Printf("note: %s\n", rec)
	}
	return nil
}

func runHistory(ctx context.Context, args []string) error {
	env, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	runsDir := fs.String("runs-dir", env.Runs.Dir, "run artifacts directory")
	runID := fs.String("run-id", "", "run id (default: latest)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(env, env.Store.Kind, env.Store.DBPath, *runsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.History(ctx, *runID)
	if err != nil {
		return err
	}
	for gen, best := range history {
		fmt.Printf("%4d  %.6f\n", gen, best)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	env, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runsDir := fs.String("runs-dir", env.Runs.Dir, "run artifacts directory")
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run")
	outDir := fs.String("out-dir", "", "destination directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(env, env.Store.Kind, env.Store.DBPath, *runsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	dir, err := client.Export(ctx, luxapi.ExportRequest{RunID: *runID, Latest: *latest, OutDir: *outDir})
	if err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", dir)
	return nil
}

func runFixtures(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("fixtures", flag.ContinueOnError)
	fixturesPath := fs.String("fixtures", "", "JSON fixture catalog file (default: built-in catalog)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cat := catalog.Default()
	if *fixturesPath != "" {
		loaded, err := catalog.LoadFile(*fixturesPath)
		if err != nil {
			return err
		}
		cat = loaded
	}

	for _, t := range cat.Templates() {
		fmt.Printf("%-10s %-18s %s lm  %4.0fW  beam %3.0f°  $%s\n",
			t.ID, t.Name, humanize.Comma(int64(t.Lumens)), t.Wattage, t.BeamAngle, humanize.Commaf(t.Cost))
	}
	return nil
}
