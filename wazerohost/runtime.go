package wazerohost

import (
	"context"

	"github.com/tetratelabs/wazero"

	"github.com/veloq/script-bridge/errors"
)

// Runtime adapts a wazero runtime to the bridge's RuntimeHandle. The wazero
// runtime plays the scripting-engine instance; its lifetime stays with the
// host, the bridge only borrows the handle per call.
type Runtime struct {
	id string
	rt wazero.Runtime
}

// NewRuntime creates a wazero runtime wrapped as a RuntimeHandle.
// id must be non-empty and stable for the runtime's lifetime.
func NewRuntime(ctx context.Context, id string) (*Runtime, error) {
	if id == "" {
		return nil, errors.InvalidInput(errors.PhaseHost, "runtime id cannot be empty")
	}
	return &Runtime{
		id: id,
		rt: wazero.NewRuntime(ctx),
	}, nil
}

func (r *Runtime) RuntimeID() string {
	return r.id
}

// Wazero exposes the underlying wazero runtime for loading guest modules.
func (r *Runtime) Wazero() wazero.Runtime {
	return r.rt
}

// Close destroys the runtime. The host must run cleanup through the bridge
// before calling this.
func (r *Runtime) Close(ctx context.Context) error {
	return r.rt.Close(ctx)
}
