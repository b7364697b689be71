// Package config loads benchmark suite configuration from YAML files.
// A suite file selects the backends to compare, the repetition policy,
// and the workload parameters; command-line flags override individual
// fields.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dklyne/simbench/harness"
	"github.com/dklyne/simbench/solver"
	"github.com/dklyne/simbench/workload"
)

// Config is the root of a suite file.
type Config struct {
	// Solvers lists the backends to benchmark.
	Solvers []string `yaml:"solvers"`

	// Policy controls how many timed samples each spec collects.
	Policy Policy `yaml:"policy"`

	// Workload holds the problem construction parameters shared by
	// all backends.
	Workload Workload `yaml:"workload"`
}

// Policy mirrors harness.Policy. Count > 0 selects fixed mode; the
// remaining fields configure adaptive mode.
type Policy struct {
	Count       int      `yaml:"count"`
	MinSamples  int      `yaml:"min_samples"`
	TimeBudget  Duration `yaml:"time_budget"`
	SampleFloor Duration `yaml:"sample_floor"`
}

// Workload mirrors workload.Config.
type Workload struct {
	Dim          int     `yaml:"dim"`
	Coupling     float64 `yaml:"coupling"`
	Decay        float64 `yaml:"decay"`
	Disorder     float64 `yaml:"disorder"`
	Steps        int     `yaml:"steps"`
	Dt           float64 `yaml:"dt"`
	Trajectories int     `yaml:"trajectories"`
	Noise        float64 `yaml:"noise"`
	Seed         int64   `yaml:"seed"`
}

// Duration decodes YAML strings like "250ms" or "2s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"250ms\": %w", err)
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}

	*d = Duration(parsed)

	return nil
}

// Default returns the suite configuration used when no file is given.
func Default() Config {
	return Config{
		Solvers: solver.Known(),
		Policy: Policy{
			Count: 5,
		},
		Workload: Workload{
			Dim:          64,
			Coupling:     1.0,
			Decay:        0.05,
			Disorder:     0.2,
			Steps:        200,
			Dt:           0.01,
			Trajectories: 50,
			Noise:        0.05,
			Seed:         42,
		},
	}
}

// Load reads a suite file, overlaying it on the defaults. Unknown keys
// are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// HarnessPolicy converts the policy section to its harness form.
func (p Policy) HarnessPolicy() harness.Policy {
	if p.Count > 0 {
		return harness.FixedCount(p.Count)
	}

	return harness.Adaptive(
		p.MinSamples,
		time.Duration(p.TimeBudget),
		time.Duration(p.SampleFloor),
	)
}

// WorkloadConfig converts the workload section to its workload form.
func (w Workload) WorkloadConfig() workload.Config {
	return workload.Config{
		Dim:          w.Dim,
		Coupling:     w.Coupling,
		Decay:        w.Decay,
		Disorder:     w.Disorder,
		Steps:        w.Steps,
		Dt:           w.Dt,
		Trajectories: w.Trajectories,
		Noise:        w.Noise,
		Seed:         w.Seed,
	}
}
