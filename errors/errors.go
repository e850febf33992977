package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile Phase = "compile" // type descriptor construction
	PhaseLower   Phase = "lower"   // value to bytes
	PhaseLift    Phase = "lift"    // bytes to value
)

// Kind categorizes the error. The set is closed; codec operations never
// surface a Kind outside this list.
type Kind string

const (
	KindBufferTooSmall       Kind = "buffer_too_small"
	KindInvalidUTF8          Kind = "invalid_utf8"
	KindInvalidDiscriminant  Kind = "invalid_discriminant"
	KindInvalidBool          Kind = "invalid_bool"
	KindInvalidChar          Kind = "invalid_char"
	KindTypeMismatch         Kind = "type_mismatch"
	KindUnsupported          Kind = "unsupported"
	KindLinearMemoryRequired Kind = "linear_memory_required"
	KindInvalidMemoryPointer Kind = "invalid_memory_pointer"
	KindFieldMissing         Kind = "field_missing"
	KindOverflow             Kind = "overflow"
	KindInvalidType          Kind = "invalid_type"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	GoType  string
	WitType string
	Detail  string
	Path    []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.WitType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.WitType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", WIT type ")
			b.WriteString(e.WitType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("WIT type ")
			b.WriteString(e.WitType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.WitType != "" {
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

// IsKind reports whether err is a codec Error of the given kind, regardless
// of phase.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WitType sets the WIT type name
func (b *Builder) WitType(t string) *Builder {
	b.err.WitType = t
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

// Convenience constructors for the closed taxonomy

// BufferTooSmall reports a fixed-buffer access past its end.
func BufferTooSmall(phase Phase, path []string, needed, available uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBufferTooSmall,
		Path:   path,
		Detail: fmt.Sprintf("need %d bytes, have %d", needed, available),
		Value:  needed,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// InvalidDiscriminant reports a variant/enum/option/result tag that selects
// no case.
func InvalidDiscriminant(phase Phase, path []string, disc uint32, numCases int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidDiscriminant,
		Path:   path,
		Detail: fmt.Sprintf("discriminant %d out of range for %d cases", disc, numCases),
		Value:  disc,
	}
}

// UnknownCase reports a case name absent from a variant/enum declaration.
// Surfaced with the invalid-discriminant kind: the name resolves to no tag.
func UnknownCase(phase Phase, path []string, name string, numCases int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidDiscriminant,
		Path:   path,
		Detail: fmt.Sprintf("case %q not found among %d cases", name, numCases),
		Value:  name,
	}
}

// InvalidBool reports a lifted bool byte that is neither 0 nor 1.
func InvalidBool(path []string, b uint8) *Error {
	return &Error{
		Phase:  PhaseLift,
		Kind:   KindInvalidBool,
		Path:   path,
		Detail: fmt.Sprintf("bool byte must be 0 or 1, got %d", b),
		Value:  b,
	}
}

// InvalidChar reports a code point that is not a Unicode scalar value.
func InvalidChar(phase Phase, path []string, code uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidChar,
		Path:   path,
		Detail: fmt.Sprintf("invalid Unicode scalar value: 0x%X", code),
		Value:  code,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, witType string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindTypeMismatch,
		Path:    path,
		GoType:  goType,
		WitType: witType,
	}
}

// Unsupported reports a type kind the codec cannot represent.
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// LinearMemoryRequired reports use of the memory-less entry point on a type
// that carries variable-length data.
func LinearMemoryRequired(phase Phase, typeName string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindLinearMemoryRequired,
		WitType: typeName,
		Detail:  "type contains strings or lists; use the memory-aware entry point",
	}
}

// InvalidMemoryPointer reports a linear-memory read outside the arena.
func InvalidMemoryPointer(phase Phase, path []string, ptr, length, memorySize uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidMemoryPointer,
		Path:   path,
		Detail: fmt.Sprintf("pointer %d with length %d exceeds memory size %d", ptr, length, memorySize),
		Value:  ptr,
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not found", fieldName),
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: detail,
	}
}

// InvalidType reports a malformed descriptor or resolver input at compile time.
func InvalidType(detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindInvalidType,
		Detail: detail,
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
