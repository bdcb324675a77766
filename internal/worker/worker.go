// Package worker implements the per-worker pending queue and the worker
// thread state machine: pop the head task in order whenever the registry
// reports it ready, invoke its kernel, and publish completion.
package worker

import (
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/rioruntime/rio/internal/metrics"
	"github.com/rioruntime/rio/internal/registry"
	"github.com/rioruntime/rio/internal/rlog"
)

// Task is the worker-local view of a submitted task: its ID, its kernel,
// and the accesses the registry needs to decide readiness and to clear on
// termination.
type Task struct {
	ID       uint64
	Kernel   func()
	Accesses []registry.Access
}

// Kind is the tag of a Worker's sum-typed state.
type Kind uint8

const (
	Idle Kind = iota
	Executing
	Stopped
)

// State is a worker's current state: idle, executing a specific task, or
// stopped.
type State struct {
	Kind   Kind
	TaskID uint64
}

// Worker holds one worker's FIFO pending queue and drives its run loop. Its
// own lock protects only the queue and state; readiness decisions are
// delegated to the shared registry, which owns the lock that protects
// cross-worker handle state. The two are never held at once.
type Worker struct {
	id    uint32
	label string

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Task
	state   State
	stopped bool

	reg     *registry.Registry
	metrics *metrics.Metrics
	logger  rlog.Logger
}

// New creates a worker with an empty queue. Run must be called (typically in
// its own goroutine) to start its run loop.
func New(id uint32, reg *registry.Registry, m *metrics.Metrics, logger rlog.Logger) *Worker {
	if logger == nil {
		logger = rlog.Nop{}
	}
	w := &Worker{
		id:      id,
		label:   strconv.FormatUint(uint64(id), 10),
		reg:     reg,
		metrics: m,
		logger:  logger,
	}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// ID returns the worker's identifier.
func (w *Worker) ID() uint32 { return w.id }

// State returns the worker's current state.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// QueueLen returns the number of tasks currently pending on this worker.
func (w *Worker) QueueLen() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// Enqueue appends a task to the tail of the worker's pending queue. The
// caller (the runtime's single submitter) must only enqueue tasks in
// strictly increasing ID order; the mapping function's determinism
// guarantees this holds automatically for tasks routed to this worker.
func (w *Worker) Enqueue(t Task) {
	w.mu.Lock()
	w.queue = append(w.queue, t)
	w.mu.Unlock()

	if w.metrics != nil {
		w.metrics.WorkerQueueDepth.WithLabelValues(w.label).Inc()
	}

	w.cond.Signal()
}

// Stop requests the run loop to exit once its queue is drained. Callers
// must arrange for the queue to already be empty (by calling WaitForAll on
// the registry first) since a stopped worker abandons any task still
// waiting on its head.
func (w *Worker) Stop() {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()
	w.cond.Broadcast()
}

// Run pops ready tasks from the head of the queue in submission order,
// invokes their kernels with no runtime lock held, and publishes
// completion. It returns once Stop has been called and the queue is empty.
func (w *Worker) Run() {
	for {
		head, ok := w.waitForHead()
		if !ok {
			return
		}

		if !w.reg.AwaitReady(head.ID, head.Accesses) {
			w.logger.Warn("worker stopping with its head never marked ready",
				zap.Uint32("worker", w.id), zap.Uint64("task", head.ID))
			return
		}

		w.beginExecuting(head)
		w.invoke(head)
		w.reg.Terminate(head.ID, head.Accesses)
		w.finishExecuting()
	}
}

// waitForHead blocks until the queue is non-empty or the worker has been
// stopped with an empty queue.
func (w *Worker) waitForHead() (Task, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for len(w.queue) == 0 {
		if w.stopped {
			w.state = State{Kind: Stopped}
			return Task{}, false
		}
		w.cond.Wait()
	}
	return w.queue[0], true
}

func (w *Worker) beginExecuting(t Task) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Drop the closure's references before shrinking the slice, so a long
	// queue does not keep every popped kernel's captures alive.
	w.queue[0] = Task{}
	w.queue = w.queue[1:]
	w.state = State{Kind: Executing, TaskID: t.ID}

	if w.metrics != nil {
		w.metrics.WorkerQueueDepth.WithLabelValues(w.label).Dec()
	}
}

func (w *Worker) finishExecuting() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = State{Kind: Idle}

	if w.metrics != nil {
		w.metrics.TasksCompleted.Inc()
		w.metrics.TasksOutstanding.Dec()
	}
}

// invoke calls the kernel with no runtime lock held. A kernel is assumed
// total; if it panics, the panic is logged and re-raised so the process
// terminates, per the runtime's failure contract.
func (w *Worker) invoke(t Task) {
	w.logger.Verbo("executing task", zap.Uint32("worker", w.id), zap.Uint64("task", t.ID))
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("kernel panicked",
				zap.Uint32("worker", w.id), zap.Uint64("task", t.ID), zap.Any("panic", r))
			panic(r)
		}
		w.logger.Verbo("task terminated", zap.Uint32("worker", w.id), zap.Uint64("task", t.ID))
	}()
	t.Kernel()
}
