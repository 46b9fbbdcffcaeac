// Package errors provides structured error types for the script-bridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category), and carry the delegate and runtime IDs involved when known.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseInstall, errors.KindDelegateFailed).
//		Delegate("geo-capabilities").
//		Runtime("rt-7").
//		Detail("host module instantiation rejected").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.AlreadyInstalled("rt-7")
//	err := errors.DelegateFailed(errors.PhaseCleanup, "geo-capabilities", "rt-7", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
