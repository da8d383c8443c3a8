package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/binpack-bench/internal/application"
	"github.com/eugenenazirov/binpack-bench/internal/config"
	"github.com/eugenenazirov/binpack-bench/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("binpack-server", "Bin Packing Benchmark - compares packing heuristics over randomized workloads")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	rateLimitRPS := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurst := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()
	items := kingpinApp.Flag("items", "Default number of items per experiment trial").Default("0").Int()
	trials := kingpinApp.Flag("trials", "Default number of trials per experiment").Default("0").Int()
	seed := kingpinApp.Flag("seed", "Default experiment seed (non-negative)").Default("-1").Int64()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := buildOverrides(*configFile, *port, *rateLimitRPS, *rateLimitBurst, *items, *trials, *seed)

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

// buildOverrides turns parsed flag values into config overrides. Flags left
// at their sentinel defaults (empty, 0, or -1) produce nil fields so the
// configuration file and environment keep their say.
func buildOverrides(configFile, port string, rps float64, burst, items, trials int, seed int64) *config.CLIOverrides {
	overrides := &config.CLIOverrides{ConfigFile: configFile}

	if port != "" {
		overrides.Port = &port
	}
	if rps >= 0 {
		overrides.RateLimitRPS = &rps
	}
	if burst >= 0 {
		overrides.RateLimitBurst = &burst
	}
	if items > 0 {
		overrides.Items = &items
	}
	if trials > 0 {
		overrides.Trials = &trials
	}
	if seed >= 0 {
		overrides.Seed = &seed
	}

	return overrides
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
