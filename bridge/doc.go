// Package bridge installs capability modules into scripting runtimes and
// tears them down again.
//
// A Bridge pairs one Delegate (the capability module, opaque to the bridge)
// with one host-owned HandleRegistry. Install registers the runtime handle,
// forwards handle and invoker to the delegate unchanged, and rolls the
// registration back if the delegate fails. Cleanup unregisters first, then
// forwards, so double-cleanup is structurally impossible.
//
// All outcomes are reported as Status codes at the call boundary. Caller
// sequencing mistakes (double install, cleanup without install) and bad
// arguments are recoverable and leave the registry untouched; delegate
// failures are surfaced without corrupting bridge state.
package bridge
