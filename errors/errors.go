package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates which handle operation produced the error
type Phase string

const (
	PhaseAcquire Phase = "acquire" // construct, clone, assign
	PhaseRelease Phase = "release" // release, reset
	PhasePromote Phase = "promote" // weak to strong
	PhaseAccess  Phase = "access"  // dereference
	PhaseEnroll  Phase = "enroll"  // self-handle registration
	PhaseTable   Phase = "table"   // resource table operations
	PhaseEngine  Phase = "engine"  // shared wasm engine
	PhaseStress  Phase = "stress"  // concurrency harness
)

// Kind categorizes the error
type Kind string

const (
	KindEmptyHandle    Kind = "empty_handle"
	KindExpired        Kind = "expired"
	KindNotEnrolled    Kind = "not_enrolled"
	KindCountUnderflow Kind = "count_underflow"
	KindInvalidHandle  Kind = "invalid_handle"
	KindClosed         Kind = "closed"
	KindInvalidInput   Kind = "invalid_input"
	KindTornRead       Kind = "torn_read"
	KindNotFound       Kind = "not_found"
	KindCloseFailed    Kind = "close_failed"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Detail string
	Handle uint64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Handle != 0 {
		b.WriteString(" #")
		b.WriteString(strconv.FormatUint(e.Handle, 10))
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
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

// Type sets the payload type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Handle sets the control block id or table handle
func (b *Builder) Handle(h uint64) *Builder {
	b.err.Handle = h
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
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

// EmptyHandle creates an error for an operation that needs a non-empty handle
func EmptyHandle(phase Phase, typeName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindEmptyHandle,
		Type:   typeName,
		Detail: "handle does not own an object",
	}
}

// Expired creates an error for a promotion attempted after the last owner released
func Expired(phase Phase, typeName string, block uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindExpired,
		Type:   typeName,
		Handle: block,
		Detail: "object already destroyed",
	}
}

// NotEnrolled creates an error for a self-handle request on an object never wrapped by a shared handle
func NotEnrolled(typeName string) *Error {
	return &Error{
		Phase:  PhaseEnroll,
		Kind:   KindNotEnrolled,
		Type:   typeName,
		Detail: "object is not owned by a shared handle",
	}
}

// CountUnderflow creates an error for a reference count decremented below zero
func CountUnderflow(phase Phase, block uint64, count int64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCountUnderflow,
		Handle: block,
		Detail: fmt.Sprintf("reference count dropped to %d", count),
		Value:  count,
	}
}

// InvalidHandle creates an error for an unknown or released table handle
func InvalidHandle(phase Phase, handle uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Handle: handle,
		Detail: "handle not found",
	}
}

// Closed creates an error for an operation on a closed container
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s closed", what),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// TornRead creates an error describing a value observed through a concurrently mutated handle
func TornRead(goroutine, iteration int, observed, expected any) *Error {
	return &Error{
		Phase:  PhaseStress,
		Kind:   KindTornRead,
		Detail: fmt.Sprintf("goroutine %d iteration %d observed %v, want %v", goroutine, iteration, observed, expected),
		Value:  observed,
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

// CloseFailed wraps an error returned while releasing an owned resource
func CloseFailed(phase Phase, what string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCloseFailed,
		Detail: fmt.Sprintf("close %s", what),
		Cause:  cause,
	}
}
