// Generates the attack-probability matrix that drives target selection.
// Each row is built by stick-breaking a unit budget, shuffled, and padded with
// a zero on the diagonal.

package sim

import (
	"fmt"
	"math"
)

// probabilityDecimals is the quantization applied to every generated cell.
const probabilityDecimals = 3

// Matrix is a square attack-probability matrix.
// Entry [i][j] is the probability that faction i next attacks faction j.
type Matrix [][]float64

// Size returns the number of factions the matrix was generated for.
func (m Matrix) Size() int {
	return len(m)
}

// RowSum returns the sum of row i, diagonal included (always zero).
func (m Matrix) RowSum(i int) float64 {
	sum := 0.0
	for _, v := range m[i] {
		sum += v
	}
	return sum
}

// RowTolerance is the accepted drift of a row sum away from 1 for a matrix of size n.
// Every one of the n-2 broken-off pieces can carry up to half a unit of rounding.
func RowTolerance(n int) float64 {
	if n <= 2 {
		return 1e-9
	}
	return math.Pow10(-probabilityDecimals) * float64(n-2)
}

// GenerateMatrix builds an n×n attack-probability matrix.
// Rows are generated independently; callers regenerate from scratch whenever
// the faction set changes. Panics if n < 2.
func GenerateMatrix(n int, src Source) Matrix {
	if n < 2 {
		panic(fmt.Sprintf("GenerateMatrix: faction count must be >= 2, got %d", n))
	}
	m := make(Matrix, n)
	for i := 0; i < n; i++ {
		m[i] = generateRow(n, i, src)
	}
	return m
}

// generateRow produces one row of length size with a zero at column position.
func generateRow(size, position int, src Source) []float64 {
	pieces := size - 1
	row := make([]float64, 0, size)

	remaining := 1.0
	for i := 0; i < pieces; i++ {
		var cell float64
		if i == pieces-1 {
			cell = roundTo(remaining, probabilityDecimals)
		} else {
			cell = roundTo(src.Float64()*remaining, probabilityDecimals)
		}
		// Rounding up can overshoot the budget by half a unit; never emit a negative cell.
		if cell < 0 {
			cell = 0
		}
		remaining -= cell
		row = append(row, cell)
	}

	shuffle(row, src)

	row = append(row, 0)
	copy(row[position+1:], row[position:])
	row[position] = 0
	return row
}

// shuffle performs an in-place Fisher-Yates shuffle driven by src.
func shuffle(values []float64, src Source) {
	for i := len(values); i > 1; i-- {
		j := drawIndex(src, i)
		values[i-1], values[j] = values[j], values[i-1]
	}
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, decimals int) float64 {
	factor := math.Pow10(decimals)
	return math.Round(v*factor) / factor
}
