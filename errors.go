package rio

import "github.com/rioruntime/rio/internal/rerr"

// Errors returned by Register, Unregister, and Submit. All are recoverable
// at the caller and never poison the runtime.
var (
	// ErrUnknownHandle is returned when a task's access list references a
	// handle that is not registered, or was already unregistered.
	ErrUnknownHandle = rerr.ErrUnknownHandle

	// ErrInvalidAccess is returned when a task's access list names the same
	// handle twice, or uses an access mode outside {Read, Write}.
	ErrInvalidAccess = rerr.ErrInvalidAccess

	// ErrHandleBusy is returned by Unregister when the handle still has
	// outstanding accesses.
	ErrHandleBusy = rerr.ErrHandleBusy

	// ErrRuntimeShutdown is returned by Submit once Shutdown has been
	// called.
	ErrRuntimeShutdown = rerr.ErrRuntimeShutdown
)
