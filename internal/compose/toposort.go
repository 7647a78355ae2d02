package compose

import (
	"errors"
	"fmt"
	"sort"
)

// topoSortNodes returns node indices in resolution order.
//
// Nodes are by index in [0, n). depsFn(i) yields indices that must be
// resolved before i (a target's sources).
//
// The result is deterministic: when multiple nodes are available, we pick the
// smallest index. If a cycle exists, an error is returned; callers are
// expected to have excluded cycles beforehand.
func topoSortNodes(n int, depsFn func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := 0; i < n; i++ {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	// Deterministic traversal.
	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	sort.Ints(ready)

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				// Insert while keeping ready sorted.
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) != n {
		return nil, errors.New("cycle detected")
	}

	return order, nil
}

// topoLevels groups node indices into dependency levels: level 0 holds nodes
// with no dependencies, and every node sits one level above its deepest
// dependency. Nodes within a level are independent of each other and sorted
// by index. order must be a valid topological order over the same nodes.
func topoLevels(order []int, depsFn func(i int) []int) [][]int {
	if len(order) == 0 {
		return nil
	}

	level := make(map[int]int, len(order))
	maxLevel := 0

	for _, i := range order {
		l := 0
		for _, d := range depsFn(i) {
			if dl, ok := level[d]; ok && dl+1 > l {
				l = dl + 1
			}
		}

		level[i] = l
		if l > maxLevel {
			maxLevel = l
		}
	}

	levels := make([][]int, maxLevel+1)
	for _, i := range order {
		levels[level[i]] = append(levels[level[i]], i)
	}

	for i := range levels {
		sort.Ints(levels[i])
	}

	return levels
}
