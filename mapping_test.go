package rio_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rioruntime/rio"
)

func TestRoundRobinCyclesThroughWorkers(t *testing.T) {
	m := rio.RoundRobin(3)
	require.Equal(t, rio.WorkerID(0), m(0))
	require.Equal(t, rio.WorkerID(1), m(1))
	require.Equal(t, rio.WorkerID(2), m(2))
	require.Equal(t, rio.WorkerID(0), m(3))
	require.Equal(t, rio.WorkerID(1), m(100))
}

func TestPrecomputedReturnsTableEntries(t *testing.T) {
	m := rio.Precomputed([]rio.WorkerID{2, 0, 1})
	require.Equal(t, rio.WorkerID(2), m(0))
	require.Equal(t, rio.WorkerID(0), m(1))
	require.Equal(t, rio.WorkerID(1), m(2))
}

func TestPrecomputedPanicsPastTableEnd(t *testing.T) {
	m := rio.Precomputed([]rio.WorkerID{0})
	require.Panics(t, func() { m(1) })
}

func TestBlockCyclic1DMatchesFormula(t *testing.T) {
	order := [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	table := rio.BlockCyclic1D(4, 2, order)
	require.Equal(t, []rio.WorkerID{0, 1, 2, 3}, table)
}

func TestBlockCyclic2DMatchesFormula(t *testing.T) {
	order := [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	table := rio.BlockCyclic2D(2, 2, order)
	require.Equal(t, []rio.WorkerID{0, 1, 2, 3}, table)
}

func TestBlockCyclic2DWrapsOnBothAxes(t *testing.T) {
	order := [][2]int{{2, 3}}
	table := rio.BlockCyclic2D(2, 2, order)
	require.Equal(t, []rio.WorkerID{1}, table)
}
