package codec

import "strconv"

// Kind identifies the shape of a compiled type. The order matters: kinds up
// to KindChar are fixed-width primitives, KindOwn and later are terminal
// kinds that the codec recognizes but cannot encode.
type Kind uint8

const (
	KindBool Kind = iota
	KindU8
	KindU16
	KindU32
	KindU64
	KindS8
	KindS16
	KindS32
	KindS64
	KindF32
	KindF64
	KindChar
	KindString
	KindRecord
	KindTuple
	KindList
	KindFixedList
	KindOption
	KindResult
	KindVariant
	KindEnum
	KindFlags
	KindOwn
	KindBorrow
	KindFuture
	KindStream
)

var kindNames = [...]string{
	KindBool:      "bool",
	KindU8:        "u8",
	KindU16:       "u16",
	KindU32:       "u32",
	KindU64:       "u64",
	KindS8:        "s8",
	KindS16:       "s16",
	KindS32:       "s32",
	KindS64:       "s64",
	KindF32:       "f32",
	KindF64:       "f64",
	KindChar:      "char",
	KindString:    "string",
	KindRecord:    "record",
	KindTuple:     "tuple",
	KindList:      "list",
	KindFixedList: "fixed-list",
	KindOption:    "option",
	KindResult:    "result",
	KindVariant:   "variant",
	KindEnum:      "enum",
	KindFlags:     "flags",
	KindOwn:       "own",
	KindBorrow:    "borrow",
	KindFuture:    "future",
	KindStream:    "stream",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether k is a fixed-width scalar.
func (k Kind) IsPrimitive() bool {
	return k <= KindChar
}

// Supported reports whether the codec can lower and lift values of this
// kind. Resource handles and async types are recognized but terminal.
func (k Kind) Supported() bool {
	return k < KindOwn
}

// Field is one named slot of a record (or positional slot of a tuple, with
// a synthesized name). Offset is the byte position inside the parent,
// computed at construction.
type Field struct {
	Name   string
	Type   *Type
	Offset uint32
}

// Case is one alternative of a variant. Type is nil for payload-less cases.
type Case struct {
	Name string
	Type *Type
}

// Type is an immutable compiled type descriptor. All layout facts (size,
// alignment, field offsets, tag width, payload offset) are precomputed at
// construction so lowering and lifting never recompute them. Descriptors
// are safe for concurrent use.
type Type struct {
	kind Kind
	name string

	size  uint32
	align uint32

	fields    []Field  // record, tuple
	cases     []Case   // variant, enum
	flagNames []string // flags
	elem      *Type    // list, fixed-list, option
	okType    *Type    // result, may be nil
	errType   *Type    // result, may be nil
	length    uint32   // fixed-list element count

	tagWidth      uint32 // option, result, variant, enum
	payloadOffset uint32 // option, result, variant

	needsMemory bool
}

// Kind returns the shape of the type.
func (t *Type) Kind() Kind { return t.kind }

// Name returns the declared name, or "" for anonymous types.
func (t *Type) Name() string { return t.name }

// Size returns the flat byte size of one value of this type.
func (t *Type) Size() uint32 { return t.size }

// Align returns the required alignment in bytes.
func (t *Type) Align() uint32 { return t.align }

// Fields returns the fields of a record or tuple, nil otherwise.
func (t *Type) Fields() []Field { return t.fields }

// Cases returns the cases of a variant or enum, nil otherwise.
func (t *Type) Cases() []Case { return t.cases }

// FlagNames returns the declared flag names in order, nil otherwise.
func (t *Type) FlagNames() []string { return t.flagNames }

// Elem returns the element type of a list, fixed-list or option.
func (t *Type) Elem() *Type { return t.elem }

// OK returns the ok payload type of a result, nil if absent.
func (t *Type) OK() *Type { return t.okType }

// Err returns the err payload type of a result, nil if absent.
func (t *Type) Err() *Type { return t.errType }

// Length returns the element count of a fixed-list, 0 otherwise.
func (t *Type) Length() uint32 { return t.length }

// TagWidth returns the discriminant width in bytes for tagged types.
func (t *Type) TagWidth() uint32 { return t.tagWidth }

// PayloadOffset returns the byte offset of the payload slot for tagged
// types.
func (t *Type) PayloadOffset() uint32 { return t.payloadOffset }

// NeedsMemory reports whether any value of this type spills into linear
// memory (it contains a string or list anywhere in its graph).
func (t *Type) NeedsMemory() bool { return t.needsMemory }

// String renders the type in WIT-like notation. Named types render as
// their name, anonymous compounds structurally.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.name != "" {
		return t.name
	}
	switch t.kind {
	case KindList:
		return "list<" + t.elem.String() + ">"
	case KindFixedList:
		return "list<" + t.elem.String() + ", " + strconv.FormatUint(uint64(t.length), 10) + ">"
	case KindOption:
		return "option<" + t.elem.String() + ">"
	case KindResult:
		switch {
		case t.okType == nil && t.errType == nil:
			return "result"
		case t.errType == nil:
			return "result<" + t.okType.String() + ">"
		case t.okType == nil:
			return "result<_, " + t.errType.String() + ">"
		default:
			return "result<" + t.okType.String() + ", " + t.errType.String() + ">"
		}
	case KindTuple:
		s := "tuple<"
		for i, f := range t.fields {
			if i > 0 {
				s += ", "
			}
			s += f.Type.String()
		}
		return s + ">"
	default:
		return t.kind.String()
	}
}
