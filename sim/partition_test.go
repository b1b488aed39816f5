package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourFactionMatrix() Matrix {
	return Matrix{
		{0, 0.2, 0.3, 0.5},
		{0.25, 0, 0.25, 0.5},
		{0.5, 0.25, 0, 0.25},
		{0.125, 0.375, 0.5, 0},
	}
}

func TestNewPartitions_SkipsDiagonalInColumnOrder(t *testing.T) {
	// GIVEN a 4x4 matrix
	parts := NewPartitions(fourFactionMatrix())

	// THEN row 0 maps to targets 1,2,3 with cumulative bounds
	require.Len(t, parts, 4)
	want := Partition{
		{Target: 1, Min: 0, Max: 0.2},
		{Target: 2, Min: 0.2, Max: 0.5},
		{Target: 3, Min: 0.5, Max: 1.0},
	}
	assert.Equal(t, want, parts[0])

	// AND row 2 skips column 2, continuing from the running sum
	assert.Equal(t, Partition{
		{Target: 0, Min: 0, Max: 0.5},
		{Target: 1, Min: 0.5, Max: 0.75},
		{Target: 3, Min: 0.75, Max: 1.0},
	}, parts[2])
}

func TestNewPartitions_SeededMatrices_ContiguousCover(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for n := 2; n <= 10; n++ {
		m := GenerateMatrix(n, rng)
		for attacker, p := range NewPartitions(m) {
			// THEN there are n-1 intervals ordered by column, never the attacker
			require.Len(t, p, n-1)
			assert.Equal(t, 0.0, p[0].Min)
			for i, iv := range p {
				assert.NotEqual(t, attacker, iv.Target)
				assert.LessOrEqual(t, iv.Min, iv.Max)
				if i > 0 {
					assert.Equal(t, p[i-1].Max, iv.Min, "gap or overlap before interval %d", i)
					assert.Greater(t, iv.Target, p[i-1].Target)
				}
			}
			// AND the cover ends at 1
			assert.InDelta(t, 1.0, p.Upper(), 1e-12)
		}
	}
}

func TestPartitionSample_Boundaries(t *testing.T) {
	p := NewPartitions(fourFactionMatrix())[0]

	tests := []struct {
		name string
		draw float64
		want int
	}{
		{"zero hits first interval", 0, 1},
		{"lower bound of second interval", 0.2, 2},
		{"just below upper bound of second interval", math.Nextafter(0.5, 0), 2},
		{"lower bound of last interval", 0.5, 3},
		{"just below one", math.Nextafter(1, 0), 3},
		{"exactly one is absorbed by the last interval", 1.0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Sample(tt.draw))
		})
	}
}

func TestPartitionSample_DriftClampsToLast(t *testing.T) {
	// GIVEN a row whose rounded values sum below 1
	p := NewPartitions(Matrix{
		{0, 0.499, 0.499},
		{0.5, 0, 0.5},
		{0.5, 0.5, 0},
	})[0]

	// WHEN a draw lands above the cover
	got := p.Sample(0.999)

	// THEN the last interval's target is returned
	assert.Equal(t, 2, got)
}

func TestPartitionSample_ZeroWidthIntervalNeverChosen(t *testing.T) {
	p := NewPartitions(Matrix{
		{0, 0, 1},
		{0.5, 0, 0.5},
		{0.5, 0.5, 0},
	})[0]

	assert.Equal(t, 2, p.Sample(0))
	assert.Equal(t, 2, p.Sample(0.5))
}

func TestInterval_Contains_HalfOpen(t *testing.T) {
	iv := Interval{Target: 1, Min: 0.25, Max: 0.5}
	assert.True(t, iv.Contains(0.25))
	assert.True(t, iv.Contains(0.4999))
	assert.False(t, iv.Contains(0.5))
	assert.False(t, iv.Contains(0.2))
}
