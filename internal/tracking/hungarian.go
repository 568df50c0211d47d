package tracking

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Assignment maps each row of a cost matrix to its column.
type Assignment []int

// Cost sums the assigned entries of cost.
func (a Assignment) Cost(cost mat.Matrix) float64 {
	total := 0.0
	for i, j := range a {
		total += cost.At(i, j)
	}
	return total
}

// Solve returns the minimum-cost perfect matching of a square cost matrix using
// the Kuhn-Munkres method with row and column potentials, in O(n³).
func Solve(cost mat.Matrix) (Assignment, error) {
	n, c := cost.Dims()
	if n != c {
		return nil, errors.New("assignment cost matrix must be square")
	}
	if n == 0 {
		return Assignment{}, nil
	}

	// 1-based: column 0 is a sentinel
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	match := make([]int, n+1) // match[col] = row
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		match[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}
		for {
			used[j0] = true
			i0 := match[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost.At(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			if math.IsInf(delta, 1) || math.IsNaN(delta) {
				return nil, errors.New("assignment cost matrix has non-finite entries")
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if match[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			match[j0] = match[j1]
			j0 = j1
		}
	}

	out := make(Assignment, n)
	for j := 1; j <= n; j++ {
		out[match[j]-1] = j - 1
	}
	return out, nil
}
