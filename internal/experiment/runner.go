// Package experiment runs repeated randomized packing trials and aggregates
// per-algorithm bin counts into summary statistics.
package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eugenenazirov/binpack-bench/internal/binpack"
	"github.com/eugenenazirov/binpack-bench/internal/distribution"
)

const (
	maxItems       = 1_000_000
	maxTrials      = 100_000
	maxParallelism = 256
)

// Config describes one experiment: how sizes are drawn, how many items per
// trial, how many trials, and how the work is seeded and spread.
type Config struct {
	Distribution distribution.Spec `yaml:"distribution" json:"distribution"`
	Items        int               `yaml:"items" json:"items"`
	Trials       int               `yaml:"trials" json:"trials"`
	Seed         int64             `yaml:"seed" json:"seed"`
	Parallelism  int               `yaml:"parallelism" json:"parallelism"`
}

// DefaultConfig returns a moderate experiment over the default distribution.
func DefaultConfig() Config {
	return Config{
		Distribution: distribution.DefaultSpec(),
		Items:        100,
		Trials:       200,
		Seed:         1,
		Parallelism:  0,
	}
}

// Validate checks the numeric ranges of the configuration. Distribution
// parameters are checked separately when the distribution is built.
func (c Config) Validate() error {
	if c.Items < 1 || c.Items > maxItems {
		return fmt.Errorf("items %d outside [1, %d]: %w", c.Items, maxItems, ErrInvalidConfig)
	}
	if c.Trials < 1 || c.Trials > maxTrials {
		return fmt.Errorf("trials %d outside [1, %d]: %w", c.Trials, maxTrials, ErrInvalidConfig)
	}
	if c.Parallelism < 0 || c.Parallelism > maxParallelism {
		return fmt.Errorf("parallelism %d outside [0, %d]: %w", c.Parallelism, maxParallelism, ErrInvalidConfig)
	}
	return nil
}

// AlgorithmSummary aggregates one algorithm's bin counts across all trials.
type AlgorithmSummary struct {
	Algorithm  string  `json:"algorithm"`
	MeanBins   float64 `json:"meanBins"`
	MedianBins float64 `json:"medianBins"`
	StdDevBins float64 `json:"stddevBins"`
	MinBins    int     `json:"minBins"`
	MaxBins    int     `json:"maxBins"`
	P95Bins    float64 `json:"p95Bins"`
}

// Result carries the configuration an experiment ran with and one summary
// per algorithm, in the algorithms' canonical order.
type Result struct {
	Config    Config             `json:"config"`
	Summaries []AlgorithmSummary `json:"summaries"`
	ElapsedMs int64              `json:"elapsedMs"`
}

// Runner executes experiments over the full set of packing heuristics.
type Runner struct {
	packers []binpack.Packer
	logger  *zap.Logger
}

// NewRunner creates a Runner that compares every implemented heuristic.
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{
		packers: binpack.All(),
		logger:  logger,
	}
}

// Run executes cfg.Trials independent trials. Each trial draws cfg.Items
// sizes from the configured distribution using its own generator seeded from
// cfg.Seed and the trial index, so results are reproducible regardless of
// parallelism. Every packing is validated before its bin count is recorded.
func (r *Runner) Run(ctx context.Context, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	dist, err := distribution.New(cfg.Distribution)
	if err != nil {
		return Result{}, err
	}

	parallelism := cfg.Parallelism
	if parallelism == 0 {
		parallelism = runtime.NumCPU()
	}

	r.logger.Debug("starting experiment",
		zap.String("distribution", dist.Name()),
		zap.Int("items", cfg.Items),
		zap.Int("trials", cfg.Trials),
		zap.Int64("seed", cfg.Seed),
		zap.Int("parallelism", parallelism),
	)

	start := time.Now()

	counts := make([][]int, len(r.packers))
	for i := range counts {
		counts[i] = make([]int, cfg.Trials)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for trial := 0; trial < cfg.Trials; trial++ {
		trial := trial
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rng := rand.New(rand.NewSource(cfg.Seed + int64(trial)))
			sizes := distribution.Sizes(dist, rng, cfg.Items)

			for i, p := range r.packers {
				packing, err := p.Pack(sizes)
				if err != nil {
					return fmt.Errorf("trial %d: %s: %w", trial, p.Name(), err)
				}
				verdict, err := binpack.Validate(sizes, packing)
				if err != nil {
					return fmt.Errorf("trial %d: %s: %w", trial, p.Name(), err)
				}
				if !verdict.IsFeasible() {
					return fmt.Errorf("trial %d: %s: %s: %w", trial, p.Name(), verdict, ErrInfeasiblePacking)
				}
				counts[i][trial] = packing.BinCount()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	summaries := make([]AlgorithmSummary, len(r.packers))
	for i, p := range r.packers {
		summary, err := summarize(p.Name(), counts[i])
		if err != nil {
			return Result{}, err
		}
		summaries[i] = summary
	}

	elapsed := time.Since(start)
	r.logger.Info("experiment complete",
		zap.String("distribution", dist.Name()),
		zap.Int("items", cfg.Items),
		zap.Int("trials", cfg.Trials),
		zap.Duration("elapsed", elapsed),
	)

	return Result{
		Config:    cfg,
		Summaries: summaries,
		ElapsedMs: elapsed.Milliseconds(),
	}, nil
}

func summarize(name string, binCounts []int) (AlgorithmSummary, error) {
	data := make(stats.Float64Data, len(binCounts))
	minBins, maxBins := binCounts[0], binCounts[0]
	for i, c := range binCounts {
		data[i] = float64(c)
		if c < minBins {
			minBins = c
		}
		if c > maxBins {
			maxBins = c
		}
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return AlgorithmSummary{}, fmt.Errorf("summarizing %s: %w", name, err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return AlgorithmSummary{}, fmt.Errorf("summarizing %s: %w", name, err)
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return AlgorithmSummary{}, fmt.Errorf("summarizing %s: %w", name, err)
	}
	p95, err := stats.Percentile(data, 95)
	if err != nil {
		return AlgorithmSummary{}, fmt.Errorf("summarizing %s: %w", name, err)
	}

	return AlgorithmSummary{
		Algorithm:  name,
		MeanBins:   mean,
		MedianBins: median,
		StdDevBins: stdDev,
		MinBins:    minBins,
		MaxBins:    maxBins,
		P95Bins:    p95,
	}, nil
}
