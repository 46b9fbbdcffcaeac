package bridge

import (
	scriptbridge "github.com/veloq/script-bridge"
)

// Delegate is the opaque capability module the bridge installs into
// runtimes. What the capabilities do is no concern of the bridge: the bridge
// forwards the handle and invoker unchanged and translates nothing else.
//
// InstallInto may retain the invoker for its own later scheduling; once
// handed over, the delegate owns that use. It must not retain the handle
// beyond the installed period.
type Delegate interface {
	// ID returns the unique identifier for the capability module.
	//
	// The identifier must:
	//   - Be no more than 255 characters long.
	//   - Start with an alphanumeric character [a-zA-Z0-9].
	//   - Contain only alphanumeric characters, hyphens (-), or underscores (_) thereafter.
	ID() string

	// InstallInto attaches the module's capabilities to the runtime.
	InstallInto(handle scriptbridge.RuntimeHandle, inv scriptbridge.CallInvoker) error

	// CleanupFrom detaches the module's capabilities from the runtime.
	CleanupFrom(handle scriptbridge.RuntimeHandle) error
}

const maxDelegateIDLength = 255

// validDelegateID reports whether id satisfies the Delegate.ID constraints.
func validDelegateID(id string) bool {
	if id == "" || len(id) > maxDelegateIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case (c == '-' || c == '_') && i > 0:
		default:
			return false
		}
	}
	return true
}
