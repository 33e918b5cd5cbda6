package layout

// LinearPartition splits seq into at most k contiguous, non-empty rows,
// minimizing the largest row sum.
//
// It uses the classic O(n²k) dynamic program: cost[i][j] holds the best
// achievable maximum when the first i+1 elements are split into j+1 rows, and
// split[i-1][j-1] remembers the split point that achieved it. When several
// split points give the same cost the smallest one is kept. Split points are
// never taken below j-1, so every row of the result is non-empty.
//
// k <= 0 returns nil. When k is at least len(seq) every element gets its own
// row.
func LinearPartition(seq []RatioKey, k int) Partition {
	if k <= 0 {
		return nil
	}

	n := len(seq)
	if k > n-1 {
		out := make(Partition, 0, n)
		for _, key := range seq {
			out = append(out, Row{key})
		}
		return out
	}

	cost := make([][]int, n)
	for i := range cost {
		cost[i] = make([]int, k)
	}
	split := make([][]int, n-1)
	for i := range split {
		split[i] = make([]int, k-1)
	}

	// Column 0 is the running prefix sum.
	for i := 0; i < n; i++ {
		cost[i][0] = int(seq[i])
		if i > 0 {
			cost[i][0] += cost[i-1][0]
		}
	}
	for j := 0; j < k; j++ {
		cost[0][j] = int(seq[0])
	}

	for i := 1; i < n; i++ {
		for j := 1; j < k && j <= i; j++ {
			best, bestX := -1, 0
			for x := j - 1; x < i; x++ {
				c := max(cost[x][j-1], cost[i][0]-cost[x][0])
				if best < 0 || c < best {
					best, bestX = c, x
				}
			}
			cost[i][j] = best
			split[i-1][j-1] = bestX
		}
	}

	rows := make(Partition, k)
	last, row := n-1, k-1
	for row > 0 {
		x := split[last-1][row-1]
		rows[row] = cloneRow(seq[x+1 : last+1])
		last = x
		row--
	}
	rows[0] = cloneRow(seq[:last+1])

	return rows
}

func cloneRow(keys []RatioKey) Row {
	return append(Row(nil), keys...)
}
