// Package errors provides structured error types for the ownership library.
//
// Errors are categorized by Phase (which handle operation was running) and
// Kind (error category). The Error type carries the payload type name, the
// control block or table handle involved, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhasePromote, errors.KindExpired).
//		Type("*main.node").
//		Handle(42).
//		Detail("all owners released").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.EmptyHandle(errors.PhaseAccess, "*main.node")
//	err := errors.InvalidHandle(errors.PhaseTable, 7)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
