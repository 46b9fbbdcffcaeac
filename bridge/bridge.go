package bridge

import (
	"reflect"

	"go.uber.org/zap"

	scriptbridge "github.com/veloq/script-bridge"
	"github.com/veloq/script-bridge/errors"
	"github.com/veloq/script-bridge/registry"
)

// Bridge is the install/cleanup entry point the host module loader calls.
//
// Install and Cleanup run synchronously on the caller's goroutine and never
// block. The registry decides exclusivity; the delegate does the actual
// work; the bridge only translates between the two and keeps them
// consistent. A runtime cycles Uninstalled -> Installed -> Uninstalled any
// number of times.
type Bridge struct {
	registry *registry.HandleRegistry
	delegate Delegate
	profile  HostProfile
	log      *zap.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithProfile sets the host environment description.
func WithProfile(p HostProfile) Option {
	return func(b *Bridge) {
		b.profile = p
	}
}

// WithLogger overrides the package logger for this bridge.
func WithLogger(log *zap.Logger) Option {
	return func(b *Bridge) {
		if log != nil {
			b.log = log
		}
	}
}

// New creates a Bridge over a host-owned registry and a capability module.
func New(reg *registry.HandleRegistry, d Delegate, opts ...Option) (*Bridge, error) {
	if reg == nil {
		return nil, errors.InvalidInput(errors.PhaseHost, "registry cannot be nil")
	}
	if d == nil {
		return nil, errors.InvalidInput(errors.PhaseHost, "delegate cannot be nil")
	}
	if !validDelegateID(d.ID()) {
		return nil, errors.New(errors.PhaseHost, errors.KindInvalidInput).
			Delegate(d.ID()).
			Detail("delegate ID must be 1-255 chars, alphanumeric start, [a-zA-Z0-9_-] after").
			Build()
	}

	b := &Bridge{
		registry: reg,
		delegate: d,
		profile:  DefaultProfile(),
		log:      Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.log.Debug("bridge created",
		zap.String("delegate", d.ID()),
		zap.String("profile", b.profile.Name))
	return b, nil
}

// Install attaches the capability module to the runtime behind handle.
//
// Exactly one installation can be active per handle: a second Install
// without an intervening Cleanup returns StatusAlreadyInstalled and is fully
// inert, the delegate is never touched. If the delegate itself fails, the
// registry entry is rolled back so the registry never claims a runtime whose
// installation did not actually happen, and StatusDelegateInstallFailed is
// returned.
//
// A Cleanup racing an in-flight Install loses deterministically: the handle
// becomes visible to Cleanup only once the delegate's installation has
// completed, so teardown is never forwarded for work still in flight.
func (b *Bridge) Install(handle scriptbridge.RuntimeHandle, inv scriptbridge.CallInvoker) Status {
	if !validHandle(handle) || inv == nil {
		return StatusInvalidArgument
	}

	// Begin claims the handle without committing it: rival installs are
	// rejected from here on, but a cleanup racing this install cannot see
	// the claim and so can never forward a teardown for work still in
	// flight.
	if !b.registry.Begin(handle) {
		b.log.Debug("install rejected, already installed",
			zap.String("delegate", b.delegate.ID()),
			zap.String("runtime", handle.RuntimeID()))
		return StatusAlreadyInstalled
	}

	if err := b.delegate.InstallInto(handle, inv); err != nil {
		b.registry.Abort(handle)
		b.log.Warn("delegate install failed, rolled back",
			zap.String("delegate", b.delegate.ID()),
			zap.String("runtime", handle.RuntimeID()),
			zap.Error(err))
		return StatusDelegateInstallFailed
	}

	b.registry.Commit(handle)
	b.log.Info("installed",
		zap.String("delegate", b.delegate.ID()),
		zap.String("runtime", handle.RuntimeID()))
	return StatusSuccess
}

// Cleanup detaches the capability module from the runtime behind handle.
//
// The registry entry is removed before the delegate runs, so a second
// Cleanup is never possible even if the delegate's teardown is slow or
// fails. Cleanup on a handle with no active installation returns
// StatusNotInstalled without forwarding. A delegate teardown failure is
// surfaced as StatusDelegateCleanupFailed but the handle is uninstalled
// either way.
func (b *Bridge) Cleanup(handle scriptbridge.RuntimeHandle) Status {
	if !validHandle(handle) {
		return StatusInvalidArgument
	}

	if !b.registry.Unregister(handle) {
		return StatusNotInstalled
	}

	if err := b.delegate.CleanupFrom(handle); err != nil {
		b.log.Warn("delegate cleanup failed",
			zap.String("delegate", b.delegate.ID()),
			zap.String("runtime", handle.RuntimeID()),
			zap.Error(err))
		return StatusDelegateCleanupFailed
	}

	b.log.Info("cleaned up",
		zap.String("delegate", b.delegate.ID()),
		zap.String("runtime", handle.RuntimeID()))
	return StatusSuccess
}

// validHandle reports whether handle is well-formed: non-nil, a non-empty
// runtime ID, and a comparable type so it can key the registry.
func validHandle(handle scriptbridge.RuntimeHandle) bool {
	if handle == nil || handle.RuntimeID() == "" {
		return false
	}
	return reflect.TypeOf(handle).Comparable()
}

// IsInstalled reports whether handle currently has an active installation.
func (b *Bridge) IsInstalled(handle scriptbridge.RuntimeHandle) bool {
	if handle == nil {
		return false
	}
	return b.registry.IsRegistered(handle)
}

// Delegate returns the capability module this bridge forwards to.
func (b *Bridge) Delegate() Delegate {
	return b.delegate
}

// Profile returns the host environment description.
func (b *Bridge) Profile() HostProfile {
	return b.profile
}
