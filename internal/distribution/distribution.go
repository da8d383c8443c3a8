// Package distribution provides the random item-size generators that feed
// the packing experiments. Every generator draws from an explicitly passed
// source, so trials stay reproducible and independently seedable.
package distribution

import (
	"fmt"
	"math/rand"
)

// Supported distribution kinds.
const (
	KindUniform     = "uniform"
	KindNormal      = "normal"
	KindExponential = "exponential"
)

// Kinds lists the supported distribution kinds in canonical order.
func Kinds() []string {
	return []string{KindUniform, KindNormal, KindExponential}
}

// Distribution produces item sizes strictly inside (0, 1).
type Distribution interface {
	Sample(rng *rand.Rand) float64
	Name() string
}

// Spec describes a distribution in configuration and request payloads.
// Only the parameters of the selected kind are read; the rest are ignored.
type Spec struct {
	Kind   string  `yaml:"kind" json:"kind"`
	Low    float64 `yaml:"low" json:"low,omitempty"`
	High   float64 `yaml:"high" json:"high,omitempty"`
	Mean   float64 `yaml:"mean" json:"mean,omitempty"`
	StdDev float64 `yaml:"stddev" json:"stddev,omitempty"`
	Rate   float64 `yaml:"rate" json:"rate,omitempty"`
}

// DefaultSpec returns the uniform distribution over the full size range.
func DefaultSpec() Spec {
	return Spec{Kind: KindUniform, Low: 0, High: 1}
}

// New builds the distribution described by spec.
func New(spec Spec) (Distribution, error) {
	switch spec.Kind {
	case KindUniform:
		if spec.Low < 0 || spec.High > 1 || spec.Low >= spec.High {
			return nil, fmt.Errorf("uniform bounds [%g, %g): %w", spec.Low, spec.High, ErrInvalidParameter)
		}
		return uniform{low: spec.Low, high: spec.High}, nil
	case KindNormal:
		if spec.Mean <= 0 || spec.Mean >= 1 {
			return nil, fmt.Errorf("normal mean %g: %w", spec.Mean, ErrInvalidParameter)
		}
		if spec.StdDev <= 0 {
			return nil, fmt.Errorf("normal stddev %g: %w", spec.StdDev, ErrInvalidParameter)
		}
		return normal{mean: spec.Mean, stdDev: spec.StdDev}, nil
	case KindExponential:
		if spec.Rate <= 0 {
			return nil, fmt.Errorf("exponential rate %g: %w", spec.Rate, ErrInvalidParameter)
		}
		return exponential{rate: spec.Rate}, nil
	default:
		return nil, fmt.Errorf("%q: %w", spec.Kind, ErrUnknownDistribution)
	}
}

// Sizes draws n item sizes from d using rng.
func Sizes(d Distribution, rng *rand.Rand, n int) []float64 {
	sizes := make([]float64, n)
	for i := range sizes {
		sizes[i] = d.Sample(rng)
	}
	return sizes
}

// uniform draws from [low, high) within the unit interval, rejecting the
// measure-zero draw of exactly zero so sizes stay strictly positive.
type uniform struct {
	low, high float64
}

func (uniform) Name() string { return KindUniform }

func (u uniform) Sample(rng *rand.Rand) float64 {
	for {
		s := u.low + rng.Float64()*(u.high-u.low)
		if s > 0 {
			return s
		}
	}
}

// normal draws from a truncated normal: values outside (0, 1) are redrawn.
type normal struct {
	mean, stdDev float64
}

func (normal) Name() string { return KindNormal }

func (n normal) Sample(rng *rand.Rand) float64 {
	for {
		s := n.mean + rng.NormFloat64()*n.stdDev
		if s > 0 && s < 1 {
			return s
		}
	}
}

// exponential draws from a truncated exponential with the given rate:
// values outside (0, 1) are redrawn.
type exponential struct {
	rate float64
}

func (exponential) Name() string { return KindExponential }

func (e exponential) Sample(rng *rand.Rand) float64 {
	for {
		s := rng.ExpFloat64() / e.rate
		if s > 0 && s < 1 {
			return s
		}
	}
}
