package trace

import "gonum.org/v1/gonum/stat"

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTicks        int
	KillsByFaction    map[string]int // attacker ID → warriors killed
	EliminationOrder  []string
	StageCount        int
	MeanTicksPerStage float64
	MaxTicksPerStage  int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		KillsByFaction: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalTicks = len(st.Ticks)
	stageTicks := make(map[int]int)
	for _, t := range st.Ticks {
		summary.KillsByFaction[t.Attacker]++
		stageTicks[t.Stage]++
	}
	for _, e := range st.Eliminations {
		summary.EliminationOrder = append(summary.EliminationOrder, e.Faction)
	}

	if len(stageTicks) == 0 {
		return summary
	}
	lengths := make([]float64, 0, len(stageTicks))
	for _, n := range stageTicks {
		lengths = append(lengths, float64(n))
		if n > summary.MaxTicksPerStage {
			summary.MaxTicksPerStage = n
		}
	}
	summary.StageCount = len(stageTicks)
	summary.MeanTicksPerStage = stat.Mean(lengths, nil)

	return summary
}
