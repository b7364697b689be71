// Package main provides the CLI entry point for simbench, a
// cross-backend benchmark for time-evolution solvers.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dklyne/simbench/config"
	"github.com/dklyne/simbench/harness"
	"github.com/dklyne/simbench/report"
	"github.com/dklyne/simbench/solver"
	"github.com/dklyne/simbench/workload"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "simbench",
		Short: "Cross-backend benchmark for time-evolution solvers",
		Long: `Simbench runs the same deterministic time-evolution workloads through
several numerical backends (gonum dense, CSR sparse, raw BLAS), times each
invocation, cross-checks the computed states, and compares the results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		configPath   string
		solvers      []string
		dim          int
		coupling     float64
		decay        float64
		disorder     float64
		steps        int
		dt           float64
		trajectories int
		noise        float64
		seed         int64
		count        int
		minSamples   int
		timeBudget   time.Duration
		sampleFloor  time.Duration
		outputJSON   bool
		chartPath    string
	)

	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark suite across solver backends",
		Long: `Construct the relax and traject workloads, adapt them to each selected
backend, time the invocations under the repetition policy, and print a
comparison report. A failed backend is reported and skipped; the remaining
backends still run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := defaults

			if configPath != "" {
				var err error

				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}

			// Explicit flags win over the suite file.
			flags := cmd.Flags()
			if flags.Changed("solvers") {
				cfg.Solvers = solvers
			}
			if flags.Changed("dim") {
				cfg.Workload.Dim = dim
			}
			if flags.Changed("coupling") {
				cfg.Workload.Coupling = coupling
			}
			if flags.Changed("decay") {
				cfg.Workload.Decay = decay
			}
			if flags.Changed("disorder") {
				cfg.Workload.Disorder = disorder
			}
			if flags.Changed("steps") {
				cfg.Workload.Steps = steps
			}
			if flags.Changed("dt") {
				cfg.Workload.Dt = dt
			}
			if flags.Changed("trajectories") {
				cfg.Workload.Trajectories = trajectories
			}
			if flags.Changed("noise") {
				cfg.Workload.Noise = noise
			}
			if flags.Changed("seed") {
				cfg.Workload.Seed = seed
			}
			if flags.Changed("count") {
				cfg.Policy.Count = count
			}
			if flags.Changed("min-samples") {
				cfg.Policy.Count = 0
				cfg.Policy.MinSamples = minSamples
			}
			if flags.Changed("time-budget") {
				cfg.Policy.Count = 0
				cfg.Policy.TimeBudget = config.Duration(timeBudget)
			}
			if flags.Changed("sample-floor") {
				cfg.Policy.SampleFloor = config.Duration(sampleFloor)
			}

			return runSuite(cmd.Context(), logger, cfg, outputJSON, chartPath)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "",
		"Path to a YAML suite file")
	flags.StringSliceVar(&solvers, "solvers", defaults.Solvers,
		"Backends to benchmark (e.g. dense,sparse,blas)")
	flags.IntVar(&dim, "dim", defaults.Workload.Dim,
		"State dimension")
	flags.Float64Var(&coupling, "coupling", defaults.Workload.Coupling,
		"Nearest-neighbour coupling amplitude")
	flags.Float64Var(&decay, "decay", defaults.Workload.Decay,
		"Damping rate")
	flags.Float64Var(&disorder, "disorder", defaults.Workload.Disorder,
		"On-site disorder amplitude")
	flags.IntVar(&steps, "steps", defaults.Workload.Steps,
		"Time steps per invocation")
	flags.Float64Var(&dt, "dt", defaults.Workload.Dt,
		"Time step size")
	flags.IntVar(&trajectories, "trajectories", defaults.Workload.Trajectories,
		"Stochastic trajectories per invocation")
	flags.Float64Var(&noise, "noise", defaults.Workload.Noise,
		"Per-component kick amplitude")
	flags.Int64Var(&seed, "seed", defaults.Workload.Seed,
		"Random seed for problem construction")
	flags.IntVar(&count, "count", defaults.Policy.Count,
		"Fixed number of timed samples per spec")
	flags.IntVar(&minSamples, "min-samples", 3,
		"Adaptive mode: minimum samples per spec")
	flags.DurationVar(&timeBudget, "time-budget", 2*time.Second,
		"Adaptive mode: total wall-clock budget per spec")
	flags.DurationVar(&sampleFloor, "sample-floor", time.Millisecond,
		"Adaptive mode: keep sampling while calls are faster than this")
	flags.BoolVar(&outputJSON, "json", false,
		"Output results as JSON instead of a table")
	flags.StringVar(&chartPath, "chart", "",
		"Write a grouped bar chart HTML page to this path")

	return cmd
}

func runSuite(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.Config,
	outputJSON bool,
	chartPath string,
) error {
	if len(cfg.Solvers) == 0 {
		return fmt.Errorf("at least one solver must be selected")
	}

	policy := cfg.Policy.HarnessPolicy()
	if err := policy.Validate(); err != nil {
		return err
	}

	prob, err := workload.New(cfg.Workload.WorkloadConfig())
	if err != nil {
		return fmt.Errorf("build workload: %w", err)
	}

	logger.InfoContext(ctx, "starting benchmark",
		slog.Int("dim", prob.Dim),
		slog.Int("steps", prob.Steps),
		slog.Int("trajectories", prob.Trajectories),
		slog.Int64("seed", prob.Seed),
		slog.Any("solvers", cfg.Solvers),
	)

	runner := harness.NewRunner(logger)
	entries := make([]report.Entry, 0, 2*len(cfg.Solvers))

	for _, kind := range workload.Kinds() {
		for _, name := range cfg.Solvers {
			entries = append(entries,
				runOne(logger, runner, name, kind, prob, policy))
		}
	}

	if chartPath != "" {
		if err := writeChart(chartPath, entries); err != nil {
			return err
		}

		logger.InfoContext(ctx, "chart written",
			slog.String("path", chartPath))
	}

	if outputJSON {
		if err := report.GenerateJSON(os.Stdout, entries); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	} else {
		if err := report.Generate(os.Stdout, entries); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	}

	logger.InfoContext(ctx, "benchmark complete")

	return nil
}

// runOne benchmarks a single (solver, workload) pair. Failures become
// report entries so sibling specs keep running.
func runOne(
	logger *slog.Logger,
	runner *harness.Runner,
	name, kind string,
	prob *workload.Problem,
	policy harness.Policy,
) report.Entry {
	entry := report.Entry{Solver: name, Workload: kind}

	s, err := solver.New(name)
	if err != nil {
		entry.Err = err

		return entry
	}

	spec, run, err := solver.Adapt(s, kind, prob)
	if err != nil {
		entry.Err = err

		return entry
	}

	result, err := runner.Run(spec, policy)
	if err != nil {
		logger.Warn("spec failed",
			slog.String("solver", name),
			slog.String("workload", kind),
			slog.String("error", err.Error()),
		)

		entry.Err = err

		return entry
	}

	result.Checksum = run.Checksum()
	entry.Result = result

	return entry
}

func writeChart(path string, entries []report.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}

	if err := report.RenderChart(f, entries); err != nil {
		f.Close()

		return fmt.Errorf("render chart: %w", err)
	}

	return f.Close()
}
