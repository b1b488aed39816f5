package sim

import "fmt"

// Faction is a competing party tracked by identifier and warrior count.
type Faction struct {
	ID       string // stable for the faction's lifetime
	Warriors int    // remaining warriors; the faction is eliminated at 0
}

// Eliminated reports whether the faction has no warriors left.
func (f Faction) Eliminated() bool {
	return f.Warriors <= 0
}

// String returns a human-readable representation of a Faction.
func (f Faction) String() string {
	return fmt.Sprintf("Faction: (ID: %s, Warriors: %d)", f.ID, f.Warriors)
}

// NewFactions creates the starting faction set from a validated config.
func NewFactions(cfg CombatConfig) []*Faction {
	names := cfg.factionNames()
	factions := make([]*Faction, len(names))
	for i, name := range names {
		factions[i] = &Faction{ID: name, Warriors: cfg.Warriors}
	}
	return factions
}
