// Tracks run-wide counters for final reporting: ticks, stages, elimination order and kills.

package sim

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

// Metrics aggregates statistics about a combat run for final reporting.
type Metrics struct {
	Ticks            int64          // Number of resolved attacks
	Stages           int            // Number of stages opened, the survivor's final stage included
	EliminationOrder []string       // Faction IDs in the order they were eliminated
	KillsByFaction   map[string]int // attacker ID -> warriors killed over the whole run
	Survivor         string         // ID of the last faction standing (empty until resolved)
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		KillsByFaction: make(map[string]int),
	}
}

// Print writes aggregated metrics at the end of the run.
func (m *Metrics) Print(w io.Writer, startTime time.Time) {
	fmt.Fprintln(w, "=== Combat Metrics ===")
	fmt.Fprintf(w, "Ticks                : %s\n", humanize.Comma(m.Ticks))
	fmt.Fprintf(w, "Stages               : %d\n", m.Stages)
	fmt.Fprintf(w, "Wall time            : %s\n", time.Since(startTime).Round(time.Millisecond))
	if len(m.EliminationOrder) > 0 {
		fmt.Fprintln(w, "Elimination order    :")
		for i, id := range m.EliminationOrder {
			fmt.Fprintf(w, "  %s %s\n", humanize.Ordinal(i+1), id)
		}
	}

	ids := make([]string, 0, len(m.KillsByFaction))
	for id := range m.KillsByFaction {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) > 0 {
		fmt.Fprintln(w, "Kills by faction     :")
		for _, id := range ids {
			fmt.Fprintf(w, "  %-8s %s\n", id, humanize.Comma(int64(m.KillsByFaction[id])))
		}
	}
	if m.Survivor != "" {
		fmt.Fprintf(w, "Survivor             : %s\n", m.Survivor)
	}
}
