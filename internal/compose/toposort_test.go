package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// depsFromMap adapts a literal dependency map to the depsFn signature.
func depsFromMap(deps map[int][]int) func(int) []int {
	return func(i int) []int { return deps[i] }
}

func TestTopoSortNodes_Chain(t *testing.T) {
	// 2 -> 1 -> 0
	order, err := topoSortNodes(3, depsFromMap(map[int][]int{
		1: {0},
		2: {1},
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestTopoSortNodes_PrefersSmallestIndex(t *testing.T) {
	// 0 and 2 depend on 1; 1 is free, then the lower index wins.
	order, err := topoSortNodes(3, depsFromMap(map[int][]int{
		0: {1},
		2: {1},
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2}, order)
}

func TestTopoSortNodes_Diamond(t *testing.T) {
	// 3 depends on 1 and 2, both depend on 0.
	order, err := topoSortNodes(4, depsFromMap(map[int][]int{
		1: {0},
		2: {0},
		3: {1, 2},
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, order)
}

func TestTopoSortNodes_CycleFails(t *testing.T) {
	_, err := topoSortNodes(2, depsFromMap(map[int][]int{
		0: {1},
		1: {0},
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestTopoSortNodes_Empty(t *testing.T) {
	order, err := topoSortNodes(0, depsFromMap(nil))
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestTopoSortNodes_IndexOutOfRange(t *testing.T) {
	_, err := topoSortNodes(1, depsFromMap(map[int][]int{0: {5}}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestTopoLevels(t *testing.T) {
	deps := depsFromMap(map[int][]int{
		1: {0},
		2: {0},
		3: {1, 2},
	})

	order, err := topoSortNodes(4, deps)
	require.NoError(t, err)

	levels := topoLevels(order, deps)
	require.Len(t, levels, 3)

	assert.Equal(t, []int{0}, levels[0])
	assert.Equal(t, []int{1, 2}, levels[1], "independent nodes share a level")
	assert.Equal(t, []int{3}, levels[2])
}

func TestTopoLevels_Empty(t *testing.T) {
	assert.Nil(t, topoLevels(nil, depsFromMap(nil)))
}
