package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/binpack-bench/internal/distribution"
	"github.com/eugenenazirov/binpack-bench/internal/experiment"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string            `yaml:"port"`
	ShutdownGracePeriod  time.Duration     `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    time.Duration     `yaml:"read_header_timeout"`
	WriteTimeout         time.Duration     `yaml:"write_timeout"`
	IdleTimeout          time.Duration     `yaml:"idle_timeout"`
	EnableRequestLogging bool              `yaml:"enable_request_logging"`
	RateLimitRPS         float64           `yaml:"-"`
	RateLimitBurst       int               `yaml:"-"`
	Experiment           experiment.Config `yaml:"-"`
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string         `yaml:"port"`
	ShutdownGracePeriod  string         `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string         `yaml:"read_header_timeout"`
	WriteTimeout         string         `yaml:"write_timeout"`
	IdleTimeout          string         `yaml:"idle_timeout"`
	EnableRequestLogging bool           `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit  `yaml:"rate_limit"`
	Experiment           yamlExperiment `yaml:"experiment"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// yamlExperiment represents the default-experiment section in YAML.
type yamlExperiment struct {
	Distribution distribution.Spec `yaml:"distribution"`
	Items        int               `yaml:"items"`
	Trials       int               `yaml:"trials"`
	Seed         int64             `yaml:"seed"`
	Parallelism  int               `yaml:"parallelism"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	RateLimitRPS   *float64
	RateLimitBurst *int
	Items          *int
	Trials         *int
	Seed           *int64
}

// Load resolves configuration in layers: defaults, then the YAML file,
// then environment variables, then CLI overrides. Later layers win.
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Load from YAML file if specified
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	// Apply environment variables (override YAML)
	applyEnvConfig(&cfg)

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	// Validate final configuration
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
		Experiment:           experiment.DefaultConfig(),
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if yamlCfg.ShutdownGracePeriod != "" {
		if d, err := time.ParseDuration(yamlCfg.ShutdownGracePeriod); err == nil {
			cfg.ShutdownGracePeriod = d
		}
	}

	if yamlCfg.ReadHeaderTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.ReadHeaderTimeout); err == nil {
			cfg.ReadHeaderTimeout = d
		}
	}

	if yamlCfg.WriteTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.WriteTimeout); err == nil {
			cfg.WriteTimeout = d
		}
	}

	if yamlCfg.IdleTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.IdleTimeout); err == nil {
			cfg.IdleTimeout = d
		}
	}

	cfg.EnableRequestLogging = yamlCfg.EnableRequestLogging

	if yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = yamlCfg.RateLimit.Burst
	}

	if yamlCfg.Experiment.Distribution.Kind != "" {
		cfg.Experiment.Distribution = yamlCfg.Experiment.Distribution
	}
	if yamlCfg.Experiment.Items > 0 {
		cfg.Experiment.Items = yamlCfg.Experiment.Items
	}
	if yamlCfg.Experiment.Trials > 0 {
		cfg.Experiment.Trials = yamlCfg.Experiment.Trials
	}
	if yamlCfg.Experiment.Seed != 0 {
		cfg.Experiment.Seed = yamlCfg.Experiment.Seed
	}
	if yamlCfg.Experiment.Parallelism > 0 {
		cfg.Experiment.Parallelism = yamlCfg.Experiment.Parallelism
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	if items := strings.TrimSpace(os.Getenv("EXPERIMENT_ITEMS")); items != "" {
		if value, err := strconv.Atoi(items); err == nil && value > 0 {
			cfg.Experiment.Items = value
		}
	}

	if trials := strings.TrimSpace(os.Getenv("EXPERIMENT_TRIALS")); trials != "" {
		if value, err := strconv.Atoi(trials); err == nil && value > 0 {
			cfg.Experiment.Trials = value
		}
	}

	if seed := strings.TrimSpace(os.Getenv("EXPERIMENT_SEED")); seed != "" {
		if value, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.Experiment.Seed = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	if overrides.Items != nil && *overrides.Items > 0 {
		cfg.Experiment.Items = *overrides.Items
	}

	if overrides.Trials != nil && *overrides.Trials > 0 {
		cfg.Experiment.Trials = *overrides.Trials
	}

	if overrides.Seed != nil {
		cfg.Experiment.Seed = *overrides.Seed
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if err := cfg.Experiment.Validate(); err != nil {
		return fmt.Errorf("default experiment: %w", err)
	}
	if _, err := distribution.New(cfg.Experiment.Distribution); err != nil {
		return fmt.Errorf("default experiment: %w", err)
	}
	return nil
}
