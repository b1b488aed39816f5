// Package testutil provides shared test infrastructure for the faction-sim engine.
// It consolidates scripted draw sources and assertion helpers used across
// sim/ and its sub-package tests. It must not import sim/.
package testutil

import (
	"math"
	"testing"
)

// ScriptedSource replays a fixed sequence of draws, wrapping around when exhausted.
// It satisfies sim.Source.
type ScriptedSource struct {
	draws []float64
	pos   int
}

// NewScriptedSource creates a source that returns draws in order.
// Panics if draws is empty.
func NewScriptedSource(draws ...float64) *ScriptedSource {
	if len(draws) == 0 {
		panic("testutil: ScriptedSource needs at least one draw")
	}
	return &ScriptedSource{draws: draws}
}

// Float64 returns the next scripted draw.
func (s *ScriptedSource) Float64() float64 {
	d := s.draws[s.pos%len(s.draws)]
	s.pos++
	return d
}

// Consumed returns how many draws have been taken.
func (s *ScriptedSource) Consumed() int {
	return s.pos
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertAttackMatrix checks shape, zero diagonal, non-negative cells and row sums
// within absTol of 1.
func AssertAttackMatrix(t *testing.T, m [][]float64, n int, absTol float64) {
	t.Helper()
	if len(m) != n {
		t.Fatalf("matrix has %d rows, want %d", len(m), n)
	}
	for i, row := range m {
		if len(row) != n {
			t.Fatalf("row %d has %d columns, want %d", i, len(row), n)
		}
		if row[i] != 0 {
			t.Errorf("row %d: diagonal = %v, want 0", i, row[i])
		}
		sum := 0.0
		for j, v := range row {
			if v < 0 {
				t.Errorf("row %d col %d: negative probability %v", i, j, v)
			}
			sum += v
		}
		if math.Abs(sum-1) > absTol+1e-9 {
			t.Errorf("row %d: sum = %v, want 1 ± %v", i, sum, absTol)
		}
	}
}
