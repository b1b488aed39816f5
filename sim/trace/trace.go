// Package trace provides per-tick decision recording for combat runs.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelTicks captures every tick and every elimination.
	TraceLevelTicks TraceLevel = "ticks"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:  true,
	TraceLevelTicks: true,
	"":              true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether the config records anything.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelTicks
}

// SimulationTrace collects decision records during a combat run.
type SimulationTrace struct {
	Config       TraceConfig
	Ticks        []TickRecord
	Eliminations []EliminationRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:       config,
		Ticks:        make([]TickRecord, 0),
		Eliminations: make([]EliminationRecord, 0),
	}
}

// RecordTick appends a tick record.
func (st *SimulationTrace) RecordTick(record TickRecord) {
	st.Ticks = append(st.Ticks, record)
}

// RecordElimination appends an elimination record.
func (st *SimulationTrace) RecordElimination(record EliminationRecord) {
	st.Eliminations = append(st.Eliminations, record)
}
