package clustering

// AdjustedRandIndex compares two partitions of the stations they share. It is
// invariant to label permutation, so raw labels of different runs may be passed.
// Fewer than two shared stations yields 0.
func AdjustedRandIndex(a, b map[string]int) float64 {
	type pair struct{ x, y int }
	contingency := make(map[pair]int)
	rows := make(map[int]int)
	cols := make(map[int]int)
	n := 0
	for station, la := range a {
		lb, ok := b[station]
		if !ok {
			continue
		}
		contingency[pair{la, lb}]++
		rows[la]++
		cols[lb]++
		n++
	}
	if n < 2 {
		return 0
	}

	comb2 := func(m int) float64 { return float64(m) * float64(m-1) / 2 }

	var index, sumRows, sumCols float64
	for _, c := range contingency {
		index += comb2(c)
	}
	for _, c := range rows {
		sumRows += comb2(c)
	}
	for _, c := range cols {
		sumCols += comb2(c)
	}

	expected := sumRows * sumCols / comb2(n)
	maxIndex := (sumRows + sumCols) / 2
	if maxIndex == expected {
		// both partitions trivial (all singletons or one cluster)
		return 1
	}
	return (index - expected) / (maxIndex - expected)
}
