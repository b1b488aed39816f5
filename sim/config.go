package sim

import (
	"fmt"
	"strconv"
)

// DefaultWarriors is the initial warrior count of every faction.
const DefaultWarriors = 100

// CombatConfig groups the parameters of a single combat run.
type CombatConfig struct {
	Factions int      // number of factions at start (must be >= 2)
	Warriors int      // initial warrior count per faction (must be > 0)
	Names    []string // optional faction identifiers; defaults to "0".."Factions-1"
}

// NewCombatConfig creates a CombatConfig with default warrior count and names.
func NewCombatConfig(factions int) CombatConfig {
	return CombatConfig{Factions: factions, Warriors: DefaultWarriors}
}

// Validate checks the configuration against the engine's preconditions.
func (c CombatConfig) Validate() error {
	if c.Factions < 2 {
		return fmt.Errorf("factions must be >= 2, got %d", c.Factions)
	}
	if c.Warriors <= 0 {
		return fmt.Errorf("warriors must be positive, got %d", c.Warriors)
	}
	if len(c.Names) == 0 {
		return nil
	}
	if len(c.Names) != c.Factions {
		return fmt.Errorf("got %d faction names for %d factions", len(c.Names), c.Factions)
	}
	seen := make(map[string]bool, len(c.Names))
	for i, name := range c.Names {
		if name == "" {
			return fmt.Errorf("faction name %d is empty", i)
		}
		if seen[name] {
			return fmt.Errorf("duplicate faction name %q", name)
		}
		seen[name] = true
	}
	return nil
}

// factionNames returns the configured names or the numeric defaults.
func (c CombatConfig) factionNames() []string {
	if len(c.Names) > 0 {
		return append([]string(nil), c.Names...)
	}
	names := make([]string, c.Factions)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return names
}
