package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/eugenenazirov/binpack-bench/internal/distribution"
	"github.com/eugenenazirov/binpack-bench/internal/experiment"
)

const (
	maxPresets        = 32
	maxNameLength     = 64
	maxDescriptionLen = 256
)

var (
	// ErrInvalidPreset indicates the provided preset violates validation rules.
	ErrInvalidPreset = errors.New("preset must carry a short name and a valid experiment configuration")
	// ErrPresetNotFound indicates no preset is stored under the requested name.
	ErrPresetNotFound = errors.New("preset not found")
)

// Preset couples a name with a stored experiment configuration.
type Preset struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description"`
	Config      experiment.Config `json:"config" yaml:"config"`
}

var defaultPresets = []Preset{
	{
		Name:        "uniform-small",
		Description: "100 uniform items per trial, the classic comparison setup",
		Config: experiment.Config{
			Distribution: distribution.Spec{Kind: distribution.KindUniform, Low: 0, High: 1},
			Items:        100,
			Trials:       200,
			Seed:         1,
		},
	},
	{
		Name:        "uniform-large",
		Description: "1000 uniform items per trial to expose asymptotic waste",
		Config: experiment.Config{
			Distribution: distribution.Spec{Kind: distribution.KindUniform, Low: 0, High: 1},
			Items:        1000,
			Trials:       100,
			Seed:         1,
		},
	},
	{
		Name:        "uniform-narrow",
		Description: "items concentrated in [0.2, 0.5), two to four per bin",
		Config: experiment.Config{
			Distribution: distribution.Spec{Kind: distribution.KindUniform, Low: 0.2, High: 0.5},
			Items:        300,
			Trials:       150,
			Seed:         4,
		},
	},
	{
		Name:        "normal-midsized",
		Description: "sizes clustered around one half",
		Config: experiment.Config{
			Distribution: distribution.Spec{Kind: distribution.KindNormal, Mean: 0.5, StdDev: 0.15},
			Items:        250,
			Trials:       200,
			Seed:         2,
		},
	},
	{
		Name:        "exponential-light",
		Description: "many small items with a thin tail of large ones",
		Config: experiment.Config{
			Distribution: distribution.Spec{Kind: distribution.KindExponential, Rate: 4},
			Items:        500,
			Trials:       200,
			Seed:         3,
		},
	},
}

// Storage provides access to the named experiment presets.
type Storage interface {
	GetPresets() ([]Preset, error)
	GetPreset(name string) (Preset, error)
	SetPreset(preset Preset) error
}

// MemoryStorage keeps presets in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu      sync.RWMutex
	presets map[string]Preset
}

// NewMemoryStorage initialises storage with a copy of the default presets.
func NewMemoryStorage() *MemoryStorage {
	presets := make(map[string]Preset, len(defaultPresets))
	for _, p := range defaultPresets {
		presets[p.Name] = p
	}
	return &MemoryStorage{presets: presets}
}

// DefaultPresets returns a copy of the default presets sorted by name.
func DefaultPresets() []Preset {
	out := make([]Preset, len(defaultPresets))
	copy(out, defaultPresets)
	sortPresets(out)
	return out
}

// GetPresets returns the currently stored presets sorted by name.
func (s *MemoryStorage) GetPresets() ([]Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Preset, 0, len(s.presets))
	for _, p := range s.presets {
		out = append(out, p)
	}
	sortPresets(out)
	return out, nil
}

// GetPreset returns the preset stored under name.
func (s *MemoryStorage) GetPreset(name string) (Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	preset, ok := s.presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%q: %w", name, ErrPresetNotFound)
	}
	return preset, nil
}

// SetPreset validates and stores the provided preset, replacing any preset
// already stored under the same name.
func (s *MemoryStorage) SetPreset(preset Preset) error {
	if err := validatePreset(preset); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.presets[preset.Name]; !exists && len(s.presets) >= maxPresets {
		return fmt.Errorf("at most %d presets may be stored: %w", maxPresets, ErrInvalidPreset)
	}
	s.presets[preset.Name] = preset
	return nil
}

func sortPresets(presets []Preset) {
	sort.Slice(presets, func(a, b int) bool {
		return presets[a].Name < presets[b].Name
	})
}

func validatePreset(preset Preset) error {
	name := strings.TrimSpace(preset.Name)
	if name == "" || name != preset.Name || len(name) > maxNameLength {
		return fmt.Errorf("name %q: %w", preset.Name, ErrInvalidPreset)
	}
	if len(preset.Description) > maxDescriptionLen {
		return fmt.Errorf("description too long: %w", ErrInvalidPreset)
	}
	if err := preset.Config.Validate(); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidPreset)
	}
	if _, err := distribution.New(preset.Config.Distribution); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidPreset)
	}
	return nil
}
