// Package barrier implements the termination barrier: a count of tasks
// submitted but not yet terminated, and a way to block until it reaches
// zero.
package barrier

import "sync"

// Barrier tracks the number of outstanding tasks. Inc and Dec assume the
// caller already holds the mutex the barrier was constructed with -- the
// same lock that protects handle state, per the requirement that the
// outstanding counter be updated under that synchronization to avoid lost
// wakeups. Wait is the only method that acquires the lock itself, since it
// is called by the public API rather than from within another critical
// section.
type Barrier struct {
	mu          *sync.Mutex
	cond        *sync.Cond
	outstanding uint64
}

// New creates a Barrier sharing mu with its caller's other critical
// sections.
func New(mu *sync.Mutex) *Barrier {
	return &Barrier{mu: mu, cond: sync.NewCond(mu)}
}

// Inc records a newly submitted task. Caller must hold mu.
func (b *Barrier) Inc() {
	b.outstanding++
}

// Dec records a terminated task, waking any waiter once the count reaches
// zero. Caller must hold mu.
func (b *Barrier) Dec() {
	if b.outstanding == 0 {
		return
	}
	b.outstanding--
	if b.outstanding == 0 {
		b.cond.Broadcast()
	}
}

// Outstanding returns the current count. Caller must hold mu.
func (b *Barrier) Outstanding() uint64 {
	return b.outstanding
}

// Wait blocks until the outstanding count reaches zero.
func (b *Barrier) Wait() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.outstanding > 0 {
		b.cond.Wait()
	}
}
