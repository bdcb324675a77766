package rio

// Mapping is a deterministic, total function from a task ID to the worker
// that owns it. It must be fixed for the runtime's lifetime: readiness
// decisions rely on each worker's queue being a deterministic subsequence
// of the global task stream that preserves submission order, which only
// holds if the mapping never changes and never depends on anything but the
// task ID.
type Mapping func(TaskID) WorkerID

// RoundRobin is the canonical mapping: task_id mod numWorkers.
func RoundRobin(numWorkers uint32) Mapping {
	return func(tid TaskID) WorkerID {
		return WorkerID(uint64(tid) % uint64(numWorkers))
	}
}

// Precomputed builds a Mapping from a fixed, caller-supplied table indexed
// by task ID. It is the vehicle for mapping strategies -- such as the
// block-cyclic tile mappings below -- that are naturally expressed over a
// caller's own coordinates (e.g. a tile's row and column) rather than over
// the task ID the runtime assigns at submission time: since a driver
// submitting a statically known task graph knows its exact submission order
// in advance, it can compute the full assignment table before constructing
// the Runtime and before submitting a single task, satisfying the
// mapping-must-be-fixed-in-advance requirement above.
//
// assignments[i] is the worker for the i'th task submitted (TaskID i,
// since task IDs start at zero and are assigned densely). Submitting more
// tasks than len(assignments) panics, since the mapping would otherwise
// silently become undefined for the remainder of the run.
func Precomputed(assignments []WorkerID) Mapping {
	table := append([]WorkerID(nil), assignments...)
	return func(tid TaskID) WorkerID {
		return table[int(tid)]
	}
}

// BlockCyclic1D builds an assignment table for a 1D block-cyclic mapping
// over a two-dimensional index space, following the mapping used by the
// tiled LU factorization driver this runtime's reference implementation
// ships: worker = (row + col*tilesPerCol) mod numWorkers.
//
// order lists the (row, col) coordinate that each successively submitted
// task will touch, in submission order; the returned table is suitable for
// Precomputed.
func BlockCyclic1D(numWorkers uint32, tilesPerCol int, order [][2]int) []WorkerID {
	table := make([]WorkerID, len(order))
	for i, rc := range order {
		row, col := rc[0], rc[1]
		table[i] = WorkerID(uint64(row+col*tilesPerCol) % uint64(numWorkers))
	}
	return table
}

// BlockCyclic2D builds an assignment table for a 2D block-cyclic mapping
// over a grid of workers arranged as rowsOfWorkers x colsOfWorkers:
// worker = (row mod rowsOfWorkers) * colsOfWorkers + (col mod colsOfWorkers).
//
// order lists the (row, col) coordinate that each successively submitted
// task will touch, in submission order; the returned table is suitable for
// Precomputed.
func BlockCyclic2D(rowsOfWorkers, colsOfWorkers int, order [][2]int) []WorkerID {
	table := make([]WorkerID, len(order))
	for i, rc := range order {
		row, col := rc[0], rc[1]
		table[i] = WorkerID((row%rowsOfWorkers)*colsOfWorkers + col%colsOfWorkers)
	}
	return table
}
