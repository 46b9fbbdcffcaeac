package bridge

import (
	scriptbridge "github.com/veloq/script-bridge"
)

// AliasDelegate publishes an existing delegate under a different ID.
//
// Build systems sometimes fix the public module name before the capability
// module's own name is known, leaving a mismatch between the name the host
// asks for and the name the implementation carries. AliasDelegate closes
// that gap as configuration: every call forwards unchanged to the underlying
// delegate, only the ID differs.
type AliasDelegate struct {
	id   string
	next Delegate
}

// Alias wraps next under the given ID.
func Alias(id string, next Delegate) *AliasDelegate {
	return &AliasDelegate{id: id, next: next}
}

func (a *AliasDelegate) ID() string {
	return a.id
}

func (a *AliasDelegate) InstallInto(handle scriptbridge.RuntimeHandle, inv scriptbridge.CallInvoker) error {
	return a.next.InstallInto(handle, inv)
}

func (a *AliasDelegate) CleanupFrom(handle scriptbridge.RuntimeHandle) error {
	return a.next.CleanupFrom(handle)
}

// Unwrap returns the underlying delegate.
func (a *AliasDelegate) Unwrap() Delegate {
	return a.next
}
