package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/binpack-bench/internal/distribution"
	"github.com/eugenenazirov/binpack-bench/internal/experiment"
	"github.com/eugenenazirov/binpack-bench/internal/logging"
	"github.com/eugenenazirov/binpack-bench/internal/render"
	"github.com/eugenenazirov/binpack-bench/internal/storage"
)

func main() {
	kingpinApp := kingpin.New("binpack-bench", "Compares bin packing heuristics over randomized workloads")
	presetFlag := kingpinApp.Flag("preset", "Named preset to run (replaces the other experiment flags)").String()
	distFlag := kingpinApp.Flag("dist", "Item size distribution").Default(distribution.KindUniform).
		Enum(distribution.Kinds()...)
	lowFlag := kingpinApp.Flag("low", "Lower bound for uniform sizes").Default("0").Float64()
	highFlag := kingpinApp.Flag("high", "Upper bound for uniform sizes").Default("1").Float64()
	meanFlag := kingpinApp.Flag("mean", "Mean for normal sizes").Default("0.5").Float64()
	stddevFlag := kingpinApp.Flag("stddev", "Standard deviation for normal sizes").Default("0.15").Float64()
	rateFlag := kingpinApp.Flag("rate", "Rate for exponential sizes").Default("4").Float64()
	itemsFlag := kingpinApp.Flag("items", "Items per trial").Default("100").Int()
	trialsFlag := kingpinApp.Flag("trials", "Number of trials").Default("200").Int()
	seedFlag := kingpinApp.Flag("seed", "Base seed for size generation").Default("1").Int64()
	parallelismFlag := kingpinApp.Flag("parallelism", "Concurrent trials (0 uses all CPUs)").Default("0").Int()
	formatFlag := kingpinApp.Flag("format", "Output format").Default("table").Enum("table", "json")

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	spec := buildSpec(*distFlag, *lowFlag, *highFlag, *meanFlag, *stddevFlag, *rateFlag)
	cfg, err := resolveConfig(*presetFlag, spec, *itemsFlag, *trialsFlag, *seedFlag, *parallelismFlag)
	kingpinApp.FatalIfError(err, "invalid experiment")

	logger, err := logging.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := experiment.NewRunner(logger)
	result, err := runner.Run(ctx, cfg)
	if err != nil {
		logger.Fatal("experiment failed", zap.Error(err))
	}

	switch *formatFlag {
	case "json":
		out, err := render.JSON(result)
		if err != nil {
			logger.Fatal("failed to encode result", zap.Error(err))
		}
		fmt.Print(out)
	default:
		fmt.Print(render.Summary(result))
	}
}

// buildSpec assembles a distribution spec from the flag values relevant to
// the selected kind.
func buildSpec(kind string, low, high, mean, stddev, rate float64) distribution.Spec {
	spec := distribution.Spec{Kind: kind}
	switch kind {
	case distribution.KindNormal:
		spec.Mean = mean
		spec.StdDev = stddev
	case distribution.KindExponential:
		spec.Rate = rate
	default:
		spec.Low = low
		spec.High = high
	}
	return spec
}

// resolveConfig returns the preset's configuration when a preset is named,
// otherwise the configuration assembled from individual flags.
func resolveConfig(preset string, spec distribution.Spec, items, trials int, seed int64, parallelism int) (experiment.Config, error) {
	if preset != "" {
		for _, p := range storage.DefaultPresets() {
			if p.Name == preset {
				return p.Config, nil
			}
		}
		return experiment.Config{}, fmt.Errorf("unknown preset %q", preset)
	}

	return experiment.Config{
		Distribution: spec,
		Items:        items,
		Trials:       trials,
		Seed:         seed,
		Parallelism:  parallelism,
	}, nil
}
