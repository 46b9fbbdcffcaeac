// Package scriptbridge attaches natively-implemented capability modules to
// live scripting-runtime instances, and detaches them again before the
// runtime is destroyed.
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	scriptbridge/        Root package with RuntimeHandle and CallInvoker interfaces
//	├── bridge/          Install/cleanup entry points and the Delegate contract
//	├── registry/        At-most-one installation record per runtime handle
//	├── invoker/         Serial scheduler that owns a runtime's thread
//	├── wazerohost/      Delegate that installs host functions into a wazero runtime
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Wire a registry, a delegate, and a bridge, then install against a runtime:
//
//	reg := registry.New()
//	br, err := bridge.New(reg, delegate)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inv := invoker.NewSerial("my-runtime")
//	defer inv.Close()
//
//	if st := br.Install(handle, inv); st != bridge.StatusSuccess {
//	    log.Fatal(st.Err())
//	}
//	defer br.Cleanup(handle)
//
// Install and Cleanup are synchronous and return status codes, never panic
// across the boundary. At most one installation is active per runtime handle;
// a second Install returns StatusAlreadyInstalled without touching the
// delegate, and Cleanup on a handle that was never installed returns
// StatusNotInstalled without forwarding.
package scriptbridge
