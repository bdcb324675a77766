// Package rerr defines the sentinel errors shared between the public rio
// package and its internal collaborators, so that both sides can compare
// against the exact same error value with errors.Is.
package rerr

import "errors"

var (
	// ErrUnknownHandle is returned when a task's access list references a
	// handle that has not been registered, or that has already been
	// unregistered.
	ErrUnknownHandle = errors.New("rio: unknown handle")

	// ErrInvalidAccess is returned when a task's access list names the same
	// handle twice, or an access mode outside {Read, Write}.
	ErrInvalidAccess = errors.New("rio: invalid access list")

	// ErrHandleBusy is returned by Unregister when the handle still has
	// outstanding accesses recorded against it.
	ErrHandleBusy = errors.New("rio: handle has outstanding accesses")

	// ErrRuntimeShutdown is returned by Submit once shutdown has been
	// requested.
	ErrRuntimeShutdown = errors.New("rio: runtime is shutting down")
)
