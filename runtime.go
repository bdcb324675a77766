// Package rio implements a Run-In-Order Sequential Task Flow runtime: a
// scheduling engine that executes a dynamically submitted stream of tasks
// on a pool of workers under dependency and consistency guarantees, for
// fine-grained task-parallel numeric workloads where task granularity
// approaches the overhead of the scheduler itself.
//
// Each task declares the handles it accesses and the mode (Read or Write)
// it uses them in. Tasks are assigned strictly increasing IDs at
// submission, routed to exactly one worker by a deterministic mapping, and
// executed by that worker in submission order once the dependency resolver
// reports the task's head-of-queue position ready. Two tasks that do not
// conflict on any handle may execute concurrently on different workers;
// tasks that do conflict are ordered by their IDs.
package rio

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rioruntime/rio/internal/metrics"
	"github.com/rioruntime/rio/internal/registry"
	"github.com/rioruntime/rio/internal/rlog"
	"github.com/rioruntime/rio/internal/worker"
)

// Runtime is a Run-In-Order scheduler instance: a fixed pool of workers, a
// data handle registry, and the public entry points that submit work to
// them.
type Runtime struct {
	mapping Mapping
	workers []*worker.Worker
	reg     *registry.Registry
	metrics *metrics.Metrics
	logger  Logger

	group      *errgroup.Group
	shutdownMu sync.Mutex
	shutdown   bool
}

// New starts a Runtime with cfg.NumWorkers worker goroutines. It returns an
// error if cfg.NumWorkers is zero.
func New(cfg Config) (*Runtime, error) {
	if cfg.NumWorkers == 0 {
		return nil, fmt.Errorf("rio: NumWorkers must be greater than zero")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = rlog.Nop{}
	}
	mapping := cfg.Mapping
	if mapping == nil {
		mapping = RoundRobin(cfg.NumWorkers)
	}

	m := metrics.New("rio")
	reg := registry.New(logger)

	rt := &Runtime{
		mapping: mapping,
		reg:     reg,
		metrics: m,
		logger:  logger,
	}

	rt.workers = make([]*worker.Worker, cfg.NumWorkers)
	for i := range rt.workers {
		rt.workers[i] = worker.New(uint32(i), reg, m, logger)
	}

	g := &errgroup.Group{}
	for _, w := range rt.workers {
		w := w
		g.Go(func() error {
			w.Run()
			return nil
		})
	}
	rt.group = g

	return rt, nil
}

// NewFromEnv is New(ConfigFromEnv()), for embedding drivers that want to
// size the pool from the environment without owning a CLI of their own.
func NewFromEnv() (*Runtime, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// NumWorkers returns the number of workers in the pool.
func (rt *Runtime) NumWorkers() int {
	return len(rt.workers)
}

// Metrics returns the runtime's metrics collectors together with the private
// prometheus registry they are registered against, for callers that want to
// export it alongside their own.
func (rt *Runtime) Metrics() *metrics.Metrics {
	return rt.metrics
}

// Register creates a new handle with an empty outstanding-access list.
func (rt *Runtime) Register() Handle {
	return Handle(rt.reg.Register())
}

// Unregister removes a handle. It fails with ErrUnknownHandle if the handle
// does not exist, and ErrHandleBusy if it still has outstanding accesses.
func (rt *Runtime) Unregister(h Handle) error {
	return rt.reg.Unregister(registry.HandleID(h))
}

// Submit assigns the kernel a strictly increasing task ID, routes it to one
// worker via the runtime's mapping, and appends it to that worker's pending
// queue. It fails with ErrUnknownHandle if accesses references a handle
// that is not registered, ErrInvalidAccess if the same handle appears
// twice or an access uses a mode outside {Read, Write}, and
// ErrRuntimeShutdown if Shutdown has already been called.
//
// Submit assumes a single submitter: the runtime does not synchronize
// concurrent calls to Submit against each other, matching the Sequential
// Task Flow paradigm's single control-thread baseline. Concurrent Submit
// calls from multiple goroutines require external synchronization by the
// caller.
func (rt *Runtime) Submit(kernel Kernel, accesses []Access) (TaskID, error) {
	if kernel == nil {
		return 0, fmt.Errorf("rio: kernel must not be nil")
	}

	racc, err := toRegistryAccesses(accesses)
	if err != nil {
		return 0, err
	}

	tid, err := rt.reg.Submit(racc)
	if err != nil {
		return 0, err
	}

	rt.metrics.TasksSubmitted.Inc()
	rt.metrics.TasksOutstanding.Inc()

	wid := rt.mapping(TaskID(tid))
	idx := int(wid) % len(rt.workers)
	rt.workers[idx].Enqueue(worker.Task{
		ID:       tid,
		Kernel:   kernel,
		Accesses: racc,
	})

	return TaskID(tid), nil
}

// WaitForAll blocks until every submitted task has terminated: no worker
// has a pending or active task.
func (rt *Runtime) WaitForAll() {
	rt.reg.WaitForAll()
}

// Shutdown waits for every submitted task to terminate, stops accepting new
// submissions, and joins the worker goroutines. It is idempotent.
func (rt *Runtime) Shutdown() error {
	rt.shutdownMu.Lock()
	if rt.shutdown {
		rt.shutdownMu.Unlock()
		return nil
	}
	rt.shutdown = true
	rt.shutdownMu.Unlock()

	rt.reg.WaitForAll()
	for _, w := range rt.workers {
		w.Stop()
	}
	rt.reg.Close()

	return rt.group.Wait()
}

func toRegistryAccesses(accesses []Access) ([]registry.Access, error) {
	if len(accesses) == 0 {
		return nil, nil
	}
	racc := make([]registry.Access, len(accesses))
	for i, a := range accesses {
		var mode registry.AccessMode
		switch a.Mode {
		case Read:
			mode = registry.Read
		case Write:
			mode = registry.Write
		default:
			return nil, ErrInvalidAccess
		}
		racc[i] = registry.Access{Handle: registry.HandleID(a.Handle), Mode: mode}
	}
	return racc, nil
}
