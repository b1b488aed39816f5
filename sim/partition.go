package sim

// Interval maps a half-open slice [Min, Max) of the unit draw onto a target faction index.
type Interval struct {
	Target int     `json:"target"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Contains reports whether d falls in [Min, Max).
func (iv Interval) Contains(d float64) bool {
	return d >= iv.Min && d < iv.Max
}

// Partition is the cumulative-interval encoding of one matrix row,
// ordered by target column.
type Partition []Interval

// NewPartitions converts every row of m into a Partition.
// The attacker's own column is skipped, so each Partition holds Size()-1 intervals.
func NewPartitions(m Matrix) []Partition {
	partitions := make([]Partition, m.Size())
	for attacker, row := range m {
		partitions[attacker] = newPartition(attacker, row)
	}
	return partitions
}

func newPartition(attacker int, row []float64) Partition {
	p := make(Partition, 0, len(row)-1)
	lo := 0.0
	for col, v := range row {
		hi := lo + v
		if col != attacker {
			p = append(p, Interval{Target: col, Min: lo, Max: hi})
		}
		lo = hi
	}
	return p
}

// Sample returns the target whose interval contains d.
// The final interval is closed on its upper bound. A draw that no interval
// covers (row-sum drift, or d == 1.0) resolves to the last interval.
func (p Partition) Sample(d float64) int {
	last := len(p) - 1
	for i, iv := range p {
		if iv.Contains(d) || (i == last && d == iv.Max) {
			return iv.Target
		}
	}
	return p[last].Target
}

// Upper returns the upper bound of the last interval, i.e. the row sum.
func (p Partition) Upper() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].Max
}
