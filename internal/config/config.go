package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xalanq/mesh-simplification/pkg/simplify"
)

// Config holds the simplifier settings that can be stored in a file.
type Config struct {
	// Squared distance at or above which a vertex pair is never collapsed.
	MaxDistanceSq float64 `json:"max_distance_sq"`
	// Quadric error at or above which a collapse is refused.
	MaxCost float64 `json:"max_cost"`

	// Degenerate is "zero" or "reject".
	Degenerate        string  `json:"degenerate"`
	DegenerateEpsilon float64 `json:"degenerate_epsilon"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	MaxDistance float64
	MaxCost     float64
	Degenerate  string
}

// Resolve applies flags over the file values and fills anything still
// unset with the simplifier defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.MaxDistance > 0 {
		c.MaxDistanceSq = flags.MaxDistance * flags.MaxDistance
	}
	if flags.MaxCost > 0 {
		c.MaxCost = flags.MaxCost
	}
	if flags.Degenerate != "" {
		c.Degenerate = flags.Degenerate
	}

	d := simplify.DefaultOptions()
	if c.MaxDistanceSq <= 0 {
		c.MaxDistanceSq = d.MaxDistanceSq
	}
	if c.MaxCost <= 0 {
		c.MaxCost = d.MaxCost
	}
	if c.Degenerate == "" {
		c.Degenerate = d.Degenerate.String()
	}
	if c.DegenerateEpsilon <= 0 {
		c.DegenerateEpsilon = d.DegenerateEpsilon
	}
}

// Options converts the config into simplifier options.
func (c Config) Options() (simplify.Options, error) {
	policy, err := simplify.ParseDegeneratePolicy(c.Degenerate)
	if err != nil {
		return simplify.Options{}, fmt.Errorf("config: %w", err)
	}
	return simplify.Options{
		MaxDistanceSq:     c.MaxDistanceSq,
		MaxCost:           c.MaxCost,
		Degenerate:        policy,
		DegenerateEpsilon: c.DegenerateEpsilon,
	}, nil
}
