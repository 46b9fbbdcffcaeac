package wazerohost

import (
	"context"
	"reflect"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	scriptbridge "github.com/veloq/script-bridge"
	"github.com/veloq/script-bridge/errors"
)

// Delegate is a capability module backed by wazero host functions.
//
// Installing into a runtime instantiates a host module named after the
// delegate ID, exporting every registered function; guest modules loaded
// into that runtime can then import them. Cleanup closes the host module.
type Delegate struct {
	id  string
	log *zap.Logger

	mu        sync.Mutex
	funcs     map[string]any
	installed map[scriptbridge.RuntimeHandle]*installation
}

type installation struct {
	module  api.Module
	invoker scriptbridge.CallInvoker
}

// New creates an empty delegate. Register capability functions with
// RegisterFunc before installing.
func New(id string, opts ...Option) *Delegate {
	d := &Delegate{
		id:        id,
		log:       zap.NewNop(),
		funcs:     make(map[string]any),
		installed: make(map[scriptbridge.RuntimeHandle]*installation),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Option configures a Delegate.
type Option func(*Delegate)

// WithLogger sets the delegate's logger.
func WithLogger(log *zap.Logger) Option {
	return func(d *Delegate) {
		if log != nil {
			d.log = log
		}
	}
}

func (d *Delegate) ID() string {
	return d.id
}

// RegisterFunc adds a capability function under the given export name.
// fn must be a Go function with a wazero-compatible signature, e.g.
// func(context.Context, uint32, uint32) uint32. Registrations after an
// install affect later installs only.
func (d *Delegate) RegisterFunc(name string, fn any) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseHost, "function name cannot be empty")
	}
	if fn == nil || reflect.ValueOf(fn).Kind() != reflect.Func {
		return errors.New(errors.PhaseHost, errors.KindRegistration).
			Delegate(d.id).
			Detail("handler for %q must be a function", name).
			Build()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.funcs[name] = fn
	return nil
}

// InstallInto instantiates the host module in the runtime behind handle.
// The invoker is retained for the installed period so capability functions
// can schedule follow-up work onto the runtime's owning thread via Notify.
func (d *Delegate) InstallInto(handle scriptbridge.RuntimeHandle, inv scriptbridge.CallInvoker) error {
	wr, ok := handle.(*Runtime)
	if !ok {
		return errors.New(errors.PhaseInstall, errors.KindInvalidInput).
			Delegate(d.id).
			Runtime(handle.RuntimeID()).
			Detail("handle is not a wazerohost runtime").
			Build()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.installed[handle]; exists {
		return errors.AlreadyInstalled(handle.RuntimeID())
	}

	// Instantiation is in-process and prompt; no caller deadline applies.
	ctx := context.Background()
	builder := wr.Wazero().NewHostModuleBuilder(d.id)
	for name, fn := range d.funcs {
		builder = builder.NewFunctionBuilder().WithFunc(fn).Export(name)
	}
	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return errors.DelegateFailed(errors.PhaseInstall, d.id, handle.RuntimeID(), err)
	}

	d.installed[handle] = &installation{module: mod, invoker: inv}
	d.log.Debug("host module instantiated",
		zap.String("delegate", d.id),
		zap.String("runtime", handle.RuntimeID()),
		zap.Int("functions", len(d.funcs)))
	return nil
}

// CleanupFrom closes the host module previously installed into handle.
func (d *Delegate) CleanupFrom(handle scriptbridge.RuntimeHandle) error {
	d.mu.Lock()
	inst, ok := d.installed[handle]
	delete(d.installed, handle)
	d.mu.Unlock()

	if !ok {
		return errors.NotInstalled(handle.RuntimeID())
	}

	if err := inst.module.Close(context.Background()); err != nil {
		return errors.DelegateFailed(errors.PhaseCleanup, d.id, handle.RuntimeID(), err)
	}
	return nil
}

// Notify schedules work onto the owning thread of an installed runtime.
// It fails if the runtime has no active installation from this delegate.
func (d *Delegate) Notify(handle scriptbridge.RuntimeHandle, work func()) error {
	d.mu.Lock()
	inst, ok := d.installed[handle]
	d.mu.Unlock()

	if !ok {
		return errors.NotFound(errors.PhaseSchedule, "installation", handle.RuntimeID())
	}
	return inst.invoker.Schedule(work)
}
