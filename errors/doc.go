// Package errors provides structured error types for the stepmesh library.
//
// Errors are categorized by Phase (where in the pipeline the error occurred)
// and Kind (error category). The Error type includes rich context: the byte
// offset into the source file, the owning entity id, the attribute index, and
// a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidAttribute).
//		Entity(42).
//		Index(3).
//		Detail("expected entity reference, got enum").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MalformedRecord(1024, "missing '=' after entity id")
//	err := errors.EntityNotFound(42)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
