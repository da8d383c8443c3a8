// Package config loads runtime configuration for the benchmark service.
// Settings resolve in layers (defaults, then YAML file, then environment
// variables, then CLI flags, later layers winning) and cover both the HTTP
// server and the default experiment used when requests omit parameters.
package config
