package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/factionsim/faction-sim/sim/trace"
)

// RunConfig represents a run.yaml file. Every field is optional; values set
// on the command line win over values from the file.
// All keys must be listed to satisfy KnownFields(true) strict parsing.
type RunConfig struct {
	Factions int      `yaml:"factions"`
	Warriors int      `yaml:"warriors"`
	Seed     *int64   `yaml:"seed"`
	Names    []string `yaml:"names"`
	Output   string   `yaml:"output"`
	SQLite   string   `yaml:"sqlite"`
	Trace    string   `yaml:"trace"`
}

// runOptions is the resolved configuration of the run command.
type runOptions struct {
	factions   int
	warriors   int
	seed       int64
	names      []string
	outputDir  string
	sqlitePath string
	traceLevel string
}

// LoadRunConfig parses a run configuration file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks value ranges. Faction count is validated later together with
// the interactive prompt, so zero means "not set" here.
func (c *RunConfig) Validate() error {
	if c.Factions < 0 {
		return fmt.Errorf("factions must be >= 2, got %d", c.Factions)
	}
	if c.Warriors < 0 {
		return fmt.Errorf("warriors must be positive, got %d", c.Warriors)
	}
	if !trace.IsValidTraceLevel(c.Trace) {
		return fmt.Errorf("unknown trace level %q; valid: none, ticks", c.Trace)
	}
	return nil
}

// applyTo copies file values into opts for every flag the user did not set.
func (c *RunConfig) applyTo(opts *runOptions, changed func(flag string) bool) {
	if c.Factions != 0 && !changed("factions") {
		opts.factions = c.Factions
	}
	if c.Warriors != 0 && !changed("warriors") {
		opts.warriors = c.Warriors
	}
	if c.Seed != nil && !changed("seed") {
		opts.seed = *c.Seed
	}
	if len(c.Names) > 0 && !changed("names") {
		opts.names = c.Names
	}
	if c.Output != "" && !changed("output") {
		opts.outputDir = c.Output
	}
	if c.SQLite != "" && !changed("sqlite") {
		opts.sqlitePath = c.SQLite
	}
	if c.Trace != "" && !changed("trace") {
		opts.traceLevel = c.Trace
	}
}
