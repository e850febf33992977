package codec

import (
	"strconv"

	"github.com/wippyai/wit-codec/codec/internal/layout"
)

// Primitive type descriptors. These are shared singletons; a compiled u32
// is always this exact pointer.
var (
	Bool   = &Type{kind: KindBool, size: 1, align: 1}
	U8     = &Type{kind: KindU8, size: 1, align: 1}
	U16    = &Type{kind: KindU16, size: 2, align: 2}
	U32    = &Type{kind: KindU32, size: 4, align: 4}
	U64    = &Type{kind: KindU64, size: 8, align: 8}
	S8     = &Type{kind: KindS8, size: 1, align: 1}
	S16    = &Type{kind: KindS16, size: 2, align: 2}
	S32    = &Type{kind: KindS32, size: 4, align: 4}
	S64    = &Type{kind: KindS64, size: 8, align: 8}
	F32    = &Type{kind: KindF32, size: 4, align: 4}
	F64    = &Type{kind: KindF64, size: 8, align: 8}
	Char   = &Type{kind: KindChar, size: 4, align: 4}
	String = &Type{kind: KindString, size: 8, align: 4, needsMemory: true}
)

// NewRecord builds a record descriptor. Field offsets are computed in
// declaration order; the Offset of the input fields is ignored.
func NewRecord(name string, fields []Field) *Type {
	elems := make([]layout.Elem, len(fields))
	for i, f := range fields {
		elems[i] = layout.Elem{Size: f.Type.size, Align: f.Type.align}
	}
	l := layout.FieldsOf(elems)
	out := make([]Field, len(fields))
	needsMemory := false
	for i, f := range fields {
		out[i] = Field{Name: f.Name, Type: f.Type, Offset: l.Offsets[i]}
		needsMemory = needsMemory || f.Type.needsMemory
	}
	return &Type{
		kind:        KindRecord,
		name:        name,
		size:        l.Size,
		align:       l.Align,
		fields:      out,
		needsMemory: needsMemory,
	}
}

// NewTuple builds an anonymous tuple descriptor. A tuple is laid out
// exactly like a record with positional field names "0", "1", ...
func NewTuple(elems ...*Type) *Type {
	fields := make([]Field, len(elems))
	for i, e := range elems {
		fields[i] = Field{Name: strconv.Itoa(i), Type: e}
	}
	t := NewRecord("", fields)
	t.kind = KindTuple
	return t
}

// NewList builds a list descriptor: ptr+len pair in the flat buffer,
// elements in linear memory.
func NewList(elem *Type) *Type {
	return &Type{
		kind:        KindList,
		size:        8,
		align:       4,
		elem:        elem,
		needsMemory: true,
	}
}

// NewFixedList builds a fixed-length list descriptor: a bare pointer in
// the flat buffer (the length is static), elements in linear memory.
func NewFixedList(elem *Type, length uint32) *Type {
	return &Type{
		kind:        KindFixedList,
		size:        4,
		align:       4,
		elem:        elem,
		length:      length,
		needsMemory: true,
	}
}

// NewOption builds an option descriptor: a one-byte presence tag followed
// by an aligned payload slot.
func NewOption(inner *Type) *Type {
	l := layout.VariantOf(2, []layout.Elem{{Size: inner.size, Align: inner.align}})
	return &Type{
		kind:          KindOption,
		size:          l.Size,
		align:         l.Align,
		elem:          inner,
		tagWidth:      l.TagWidth,
		payloadOffset: l.PayloadOffset,
		needsMemory:   inner.needsMemory,
	}
}

// NewResult builds a result descriptor. Either payload type may be nil for
// a bare ok/err case.
func NewResult(okType, errType *Type) *Type {
	var payloads []layout.Elem
	needsMemory := false
	for _, p := range []*Type{okType, errType} {
		if p == nil {
			payloads = append(payloads, layout.Elem{Size: 0, Align: 1})
			continue
		}
		payloads = append(payloads, layout.Elem{Size: p.size, Align: p.align})
		needsMemory = needsMemory || p.needsMemory
	}
	l := layout.VariantOf(2, payloads)
	return &Type{
		kind:          KindResult,
		size:          l.Size,
		align:         l.Align,
		okType:        okType,
		errType:       errType,
		tagWidth:      l.TagWidth,
		payloadOffset: l.PayloadOffset,
		needsMemory:   needsMemory,
	}
}

// NewVariant builds a variant descriptor. Cases keep declaration order;
// the discriminant width follows the case count.
func NewVariant(name string, cases []Case) *Type {
	payloads := make([]layout.Elem, len(cases))
	needsMemory := false
	for i, c := range cases {
		if c.Type == nil {
			payloads[i] = layout.Elem{Size: 0, Align: 1}
			continue
		}
		payloads[i] = layout.Elem{Size: c.Type.size, Align: c.Type.align}
		needsMemory = needsMemory || c.Type.needsMemory
	}
	l := layout.VariantOf(len(cases), payloads)
	return &Type{
		kind:          KindVariant,
		name:          name,
		size:          l.Size,
		align:         l.Align,
		cases:         append([]Case(nil), cases...),
		tagWidth:      l.TagWidth,
		payloadOffset: l.PayloadOffset,
		needsMemory:   needsMemory,
	}
}

// NewEnum builds an enum descriptor: a variant with no payloads, so the
// value is just the discriminant.
func NewEnum(name string, caseNames ...string) *Type {
	cases := make([]Case, len(caseNames))
	for i, n := range caseNames {
		cases[i] = Case{Name: n}
	}
	l := layout.VariantOf(len(caseNames), nil)
	return &Type{
		kind:     KindEnum,
		name:     name,
		size:     l.Size,
		align:    l.Align,
		cases:    cases,
		tagWidth: l.TagWidth,
	}
}

// NewFlags builds a flags descriptor: a bitset packed per the flag count.
func NewFlags(name string, flagNames ...string) *Type {
	size, align := layout.FlagsOf(len(flagNames))
	return &Type{
		kind:      KindFlags,
		name:      name,
		size:      size,
		align:     align,
		flagNames: append([]string(nil), flagNames...),
	}
}
