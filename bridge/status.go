package bridge

import "github.com/veloq/script-bridge/errors"

// Status is the synchronous result of an Install or Cleanup call.
// Zero means success; each failure kind has a distinct nonzero value.
// Statuses are returned, never panicked, across the host boundary.
type Status uint8

const (
	StatusSuccess Status = iota
	StatusInvalidArgument
	StatusAlreadyInstalled
	StatusNotInstalled
	StatusDelegateInstallFailed
	StatusDelegateCleanupFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusInvalidArgument:
		return "invalid_argument"
	case StatusAlreadyInstalled:
		return "already_installed"
	case StatusNotInstalled:
		return "not_installed"
	case StatusDelegateInstallFailed:
		return "delegate_install_failed"
	case StatusDelegateCleanupFailed:
		return "delegate_cleanup_failed"
	default:
		return "unknown"
	}
}

// OK reports whether the status is success.
func (s Status) OK() bool {
	return s == StatusSuccess
}

// Err maps a status to a structured error, or nil for success. For hosts
// that prefer error plumbing over status codes.
func (s Status) Err() error {
	switch s {
	case StatusSuccess:
		return nil
	case StatusInvalidArgument:
		return errors.InvalidInput(errors.PhaseInstall, "malformed handle or invoker")
	case StatusAlreadyInstalled:
		return errors.AlreadyInstalled("")
	case StatusNotInstalled:
		return errors.NotInstalled("")
	case StatusDelegateInstallFailed:
		return errors.DelegateFailed(errors.PhaseInstall, "", "", nil)
	case StatusDelegateCleanupFailed:
		return errors.DelegateFailed(errors.PhaseCleanup, "", "", nil)
	default:
		return errors.InvalidInput(errors.PhaseInstall, "unknown status")
	}
}
