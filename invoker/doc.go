// Package invoker provides schedulers that own a runtime's thread.
//
// A scripting runtime instance is only safe to touch from the one thread that
// owns it. SerialInvoker models that thread as a dedicated goroutine: work
// scheduled through it runs there, in FIFO order, and never inline on the
// caller.
//
// The teardown policy is fixed, not per-call-site: when the invoker is closed
// because its runtime is going away, every accepted unit either completes
// before Close returns (it was already started, alone or in a dequeued batch)
// or is dropped with a report (Warn log plus the Dropped counter). Schedule
// calls after Close fail with a closed error. Silent loss and late execution
// are both ruled out.
package invoker
