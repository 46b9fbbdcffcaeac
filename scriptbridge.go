package scriptbridge

// RuntimeHandle identifies one live scripting-runtime instance.
//
// The handle is borrowed, never owned: the bridge keeps no reference to it
// beyond the call it was passed into. Identity is the handle value itself, so
// implementations must be comparable (in practice, a pointer type). Two
// handles are the same runtime iff they are the same value; RuntimeID is a
// stable label for logs and lookups, not an alternate identity.
type RuntimeHandle interface {
	// RuntimeID returns a stable, non-empty identifier for the runtime.
	// It must not change for the lifetime of the runtime instance.
	RuntimeID() string
}

// CallInvoker schedules work onto the thread that exclusively owns a runtime.
//
// Schedule enqueues work and returns immediately: it never blocks the caller
// and never runs work inline. Work scheduled through the same invoker runs in
// FIFO order. Once the owning runtime is torn down, Schedule reports an error
// and queued work is dropped with a report, never executed silently late.
type CallInvoker interface {
	Schedule(work func()) error
}
