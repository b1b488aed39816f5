package trace

// TickRecord captures a single resolved attack.
type TickRecord struct {
	Tick         int64   `json:"tick"`
	Stage        int     `json:"stage"`
	Attacker     string  `json:"attacker"`
	Defender     string  `json:"defender"`
	Draw         float64 `json:"draw"`          // uniform draw used to pick the defender
	DefenderLeft int     `json:"defender_left"` // defender warriors after the hit
}

// EliminationRecord captures the tick at which a faction lost its last warrior.
type EliminationRecord struct {
	Tick      int64  `json:"tick"`
	Stage     int    `json:"stage"` // stage that the elimination closed
	Faction   string `json:"faction"`
	Attacker  string `json:"attacker"`
	Survivors int    `json:"survivors"` // factions still active afterwards
}
