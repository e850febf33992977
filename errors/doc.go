// Package errors provides structured error types for the wit-codec library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Kind set is closed: every failure a codec operation can
// report maps to exactly one Kind, and callers can rely on the set not
// growing behind their backs. The Error type includes rich context: field
// path, Go/WIT type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLower, errors.KindTypeMismatch).
//		Path("user", "age").
//		GoType("string").
//		WitType("u32").
//		Detail("cannot convert string to integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseLower, path, "string", "u32")
//	err := errors.BufferTooSmall(path, 8, 4)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
