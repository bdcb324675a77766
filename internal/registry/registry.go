// Package registry implements the data handle registry, the submission
// counter, and the dependency resolver: the pieces of the runtime that
// share a single lock because the termination barrier's outstanding count
// must be updated under the same synchronization that protects handle
// state, to avoid lost wakeups.
//
// Readiness is decided from two aggregates per handle: the minimum task ID
// among its outstanding writes, and the minimum task ID among all of its
// outstanding accesses. A read is ready once no unfinished write has a
// smaller ID; a write is ready once no unfinished access at all has a
// smaller ID.
package registry

import (
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/rioruntime/rio/internal/barrier"
	"github.com/rioruntime/rio/internal/rerr"
	"github.com/rioruntime/rio/internal/rlog"
)

// HandleID identifies a registered handle.
type HandleID uint64

// AccessMode is the mode a task declares on a handle: Read or Write.
type AccessMode uint8

const (
	Read AccessMode = iota
	Write
)

func (m AccessMode) String() string {
	switch m {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return "invalid"
	}
}

// Access pairs a handle with the mode a task uses it in.
type Access struct {
	Handle HandleID
	Mode   AccessMode
}

type handleState struct {
	// accesses maps the ID of every task that has been submitted, but not
	// yet terminated, on this handle to the mode it uses.
	accesses map[uint64]AccessMode
}

func newHandleState() *handleState {
	return &handleState{accesses: make(map[uint64]AccessMode)}
}

func (hs *handleState) minWrite() uint64 {
	min := uint64(math.MaxUint64)
	for id, mode := range hs.accesses {
		if mode == Write && id < min {
			min = id
		}
	}
	return min
}

func (hs *handleState) minAny() uint64 {
	min := uint64(math.MaxUint64)
	for id := range hs.accesses {
		if id < min {
			min = id
		}
	}
	return min
}

// Registry holds every registered handle's outstanding-access state, the
// task ID counter, and the termination barrier, all behind one lock.
type Registry struct {
	mu   sync.Mutex
	cond *sync.Cond

	handles    map[HandleID]*handleState
	nextHandle uint64
	nextTask   uint64

	barrier *barrier.Barrier
	waiters int
	closed  bool

	logger rlog.Logger
}

// New creates an empty Registry.
func New(logger rlog.Logger) *Registry {
	if logger == nil {
		logger = rlog.Nop{}
	}
	r := &Registry{
		handles: make(map[HandleID]*handleState),
		logger:  logger,
	}
	r.cond = sync.NewCond(&r.mu)
	r.barrier = barrier.New(&r.mu)
	return r
}

// Register creates a new handle with an empty outstanding-access list.
func (r *Registry) Register() HandleID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := HandleID(r.nextHandle)
	r.nextHandle++
	r.handles[id] = newHandleState()

	r.logger.Debug("handle registered", zap.Uint64("handle", uint64(id)))
	return id
}

// Unregister removes a handle. It fails with ErrUnknownHandle if the handle
// does not exist, and ErrHandleBusy if it still has outstanding accesses.
func (r *Registry) Unregister(h HandleID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	hs, ok := r.handles[h]
	if !ok {
		return rerr.ErrUnknownHandle
	}
	if len(hs.accesses) > 0 {
		return rerr.ErrHandleBusy
	}

	delete(r.handles, h)
	r.logger.Debug("handle unregistered", zap.Uint64("handle", uint64(h)))
	return nil
}

// Submit validates a task's access list against the registered handles,
// assigns it the next task ID, records its accesses, and increments the
// outstanding-task counter -- all atomically with respect to other
// submissions and terminations. It fails, without consuming a task ID, with
// ErrRuntimeShutdown if shutdown has been requested, ErrUnknownHandle if any
// accessed handle is not registered, or ErrInvalidAccess if the same handle
// appears twice.
//
// Submit is not safe to call concurrently with itself: the runtime assumes
// a single submitter, matching the sequential-order guarantee task IDs must
// provide.
func (r *Registry) Submit(accesses []Access) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, rerr.ErrRuntimeShutdown
	}

	seen := make(map[HandleID]struct{}, len(accesses))
	for _, a := range accesses {
		if _, ok := r.handles[a.Handle]; !ok {
			return 0, rerr.ErrUnknownHandle
		}
		if _, dup := seen[a.Handle]; dup {
			return 0, rerr.ErrInvalidAccess
		}
		seen[a.Handle] = struct{}{}
	}

	tid := r.nextTask
	r.nextTask++

	for _, a := range accesses {
		r.handles[a.Handle].accesses[tid] = a.Mode
	}
	r.barrier.Inc()

	r.logger.Trace("task submitted", zap.Uint64("task", tid), zap.Int("accesses", len(accesses)))
	return tid, nil
}

// isReadyLocked evaluates the minW/minA readiness predicate against a
// task's full access list. Caller must hold r.mu.
func (r *Registry) isReadyLocked(tid uint64, accesses []Access) (bool, error) {
	for _, a := range accesses {
		hs, ok := r.handles[a.Handle]
		if !ok {
			return false, rerr.ErrUnknownHandle
		}
		switch a.Mode {
		case Read:
			if hs.minWrite() < tid {
				return false, nil
			}
		case Write:
			if hs.minAny() < tid {
				return false, nil
			}
		}
	}
	return true, nil
}

// IsReady reports whether the task is currently ready to execute, without
// blocking.
func (r *Registry) IsReady(tid uint64, accesses []Access) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isReadyLocked(tid, accesses)
}

// AwaitReady blocks the calling worker until the task becomes ready, or
// until shutdown has been requested, whichever happens first. It returns
// true if the task is ready to execute, false if the caller should give up
// because the runtime is shutting down.
func (r *Registry) AwaitReady(tid uint64, accesses []Access) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.waiters++
	defer func() { r.waiters-- }()

	for {
		ready, err := r.isReadyLocked(tid, accesses)
		if err != nil {
			return false
		}
		if ready {
			return true
		}
		if r.closed {
			return false
		}
		r.cond.Wait()
	}
}

// Terminate clears a task's access records from every handle it touched and
// decrements the outstanding-task counter, waking any worker parked in
// AwaitReady whose head may have just become ready.
func (r *Registry) Terminate(tid uint64, accesses []Access) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range accesses {
		if hs, ok := r.handles[a.Handle]; ok {
			delete(hs.accesses, tid)
		}
	}
	r.barrier.Dec()

	if r.waiters > 0 {
		r.cond.Broadcast()
	}

	r.logger.Trace("task terminated", zap.Uint64("task", tid))
}

// WaitForAll blocks until every submitted task has terminated.
func (r *Registry) WaitForAll() {
	r.barrier.Wait()
}

// Close marks the registry as shutting down: further Submit calls fail with
// ErrRuntimeShutdown, and any worker parked in AwaitReady is woken up and
// told to give up.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.cond.Broadcast()
}
