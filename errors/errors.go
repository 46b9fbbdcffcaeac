package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseInstall  Phase = "install"  // capability installation
	PhaseCleanup  Phase = "cleanup"  // capability teardown
	PhaseRegistry Phase = "registry" // installation record tracking
	PhaseSchedule Phase = "schedule" // call invoker scheduling
	PhaseHost     Phase = "host"     // host-side wiring (delegates, runtimes)
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidInput     Kind = "invalid_input"
	KindAlreadyInstalled Kind = "already_installed"
	KindNotInstalled     Kind = "not_installed"
	KindDelegateFailed   Kind = "delegate_failed"
	KindClosed           Kind = "closed"
	KindNotFound         Kind = "not_found"
	KindRegistration     Kind = "registration"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Delegate string // capability module ID, when known
	Runtime  string // runtime handle ID, when known
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Delegate != "" || e.Runtime != "" {
		b.WriteString(": ")
		if e.Delegate != "" && e.Runtime != "" {
			b.WriteString("delegate ")
			b.WriteString(e.Delegate)
			b.WriteString(", runtime ")
			b.WriteString(e.Runtime)
		} else if e.Delegate != "" {
			b.WriteString("delegate ")
			b.WriteString(e.Delegate)
		} else {
			b.WriteString("runtime ")
			b.WriteString(e.Runtime)
		}
	}

	if e.Detail != "" {
		if e.Delegate != "" || e.Runtime != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Delegate sets the capability module ID
func (b *Builder) Delegate(id string) *Builder {
	b.err.Delegate = id
	return b
}

// Runtime sets the runtime handle ID
func (b *Builder) Runtime(id string) *Builder {
	b.err.Runtime = id
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// AlreadyInstalled creates an error for a second install without cleanup
func AlreadyInstalled(runtimeID string) *Error {
	return &Error{
		Phase:   PhaseInstall,
		Kind:    KindAlreadyInstalled,
		Runtime: runtimeID,
		Detail:  "an installation is already active for this runtime",
	}
}

// NotInstalled creates an error for cleanup without a preceding install
func NotInstalled(runtimeID string) *Error {
	return &Error{
		Phase:   PhaseCleanup,
		Kind:    KindNotInstalled,
		Runtime: runtimeID,
		Detail:  "no installation is active for this runtime",
	}
}

// DelegateFailed creates an error surfacing a capability module failure
func DelegateFailed(phase Phase, delegateID, runtimeID string, cause error) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindDelegateFailed,
		Delegate: delegateID,
		Runtime:  runtimeID,
		Detail:   "capability module reported failure",
		Cause:    cause,
	}
}

// Closed creates an error for operations on a torn-down component
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Registration creates a registration error
func Registration(phase Phase, delegateID, name string, cause error) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindRegistration,
		Delegate: delegateID,
		Detail:   fmt.Sprintf("register %q", name),
		Cause:    cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
