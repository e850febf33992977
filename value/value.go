// Package value defines an explicit tagged tree representation for
// component values. Unlike the dynamic map-and-slice form, every node
// carries its own kind, so a tree is unambiguous without a type
// descriptor next to it: none and an absent record field are distinct,
// and nested options keep their structure.
//
// Values are immutable once built and safe to share across goroutines.
package value

import (
	"fmt"
	"strings"
)

// Kind tags a tree node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
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
	KindOption
	KindResult
	KindVariant
	KindEnum
	KindFlags
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindU8:      "u8",
	KindU16:     "u16",
	KindU32:     "u32",
	KindU64:     "u64",
	KindS8:      "s8",
	KindS16:     "s16",
	KindS32:     "s32",
	KindS64:     "s64",
	KindF32:     "f32",
	KindF64:     "f64",
	KindChar:    "char",
	KindString:  "string",
	KindRecord:  "record",
	KindTuple:   "tuple",
	KindList:    "list",
	KindOption:  "option",
	KindResult:  "result",
	KindVariant: "variant",
	KindEnum:    "enum",
	KindFlags:   "flags",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Value is one node of the tree. The zero Value has KindInvalid.
type Value struct {
	kind  Kind
	num   uint64   // bool, integers (two's complement), char
	f     float64  // f32, f64
	str   string   // string payload, variant/enum case name
	items []Value  // record field values, tuple and list elements
	names []string // record field names, active flag names
	inner *Value   // option / result / variant payload
	flag  bool     // option present, result is-err
}

// Field pairs a record field name with its value.
type Field struct {
	Name  string
	Value Value
}

func Bool(b bool) Value {
	var n uint64
	if b {
		n = 1
	}
	return Value{kind: KindBool, num: n}
}

func U8(v uint8) Value   { return Value{kind: KindU8, num: uint64(v)} }
func U16(v uint16) Value { return Value{kind: KindU16, num: uint64(v)} }
func U32(v uint32) Value { return Value{kind: KindU32, num: uint64(v)} }
func U64(v uint64) Value { return Value{kind: KindU64, num: v} }
func S8(v int8) Value    { return Value{kind: KindS8, num: uint64(v)} }
func S16(v int16) Value  { return Value{kind: KindS16, num: uint64(v)} }
func S32(v int32) Value  { return Value{kind: KindS32, num: uint64(v)} }
func S64(v int64) Value  { return Value{kind: KindS64, num: uint64(v)} }
func F32(v float32) Value {
	return Value{kind: KindF32, f: float64(v)}
}
func F64(v float64) Value { return Value{kind: KindF64, f: v} }
func Char(r rune) Value   { return Value{kind: KindChar, num: uint64(uint32(r))} }
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Record builds a record node. Field order is preserved.
func Record(fields ...Field) Value {
	names := make([]string, len(fields))
	items := make([]Value, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		items[i] = f.Value
	}
	return Value{kind: KindRecord, names: names, items: items}
}

// Tuple builds a positional tuple node.
func Tuple(elems ...Value) Value {
	return Value{kind: KindTuple, items: append([]Value(nil), elems...)}
}

// List builds a list node.
func List(elems ...Value) Value {
	return Value{kind: KindList, items: append([]Value(nil), elems...)}
}

// Some builds a present option.
func Some(v Value) Value {
	return Value{kind: KindOption, flag: true, inner: &v}
}

// None builds an absent option.
func None() Value {
	return Value{kind: KindOption}
}

// Ok builds a result success. Pass nil for a payload-less ok.
func Ok(payload *Value) Value {
	return Value{kind: KindResult, inner: payload}
}

// Err builds a result failure. Pass nil for a payload-less err.
func Err(payload *Value) Value {
	return Value{kind: KindResult, flag: true, inner: payload}
}

// Variant builds a variant case. Pass nil for a payload-less case.
func Variant(caseName string, payload *Value) Value {
	return Value{kind: KindVariant, str: caseName, inner: payload}
}

// Enum builds an enum case by name.
func Enum(caseName string) Value {
	return Value{kind: KindEnum, str: caseName}
}

// Flags builds a flags node from the active flag names.
func Flags(active ...string) Value {
	return Value{kind: KindFlags, names: append([]string(nil), active...)}
}

// Kind returns the node's tag.
func (v Value) Kind() Kind { return v.kind }

// AsBool returns the boolean payload. Valid only for KindBool.
func (v Value) AsBool() bool { return v.num == 1 }

// Uint returns the unsigned integer payload, also used for char bits.
func (v Value) Uint() uint64 { return v.num }

// Int returns the signed integer payload.
func (v Value) Int() int64 { return int64(v.num) }

// Float returns the floating point payload.
func (v Value) Float() float64 { return v.f }

// Rune returns the char payload.
func (v Value) Rune() rune { return rune(uint32(v.num)) }

// Str returns the string payload, or the case name for variants and enums.
func (v Value) Str() string { return v.str }

// Len returns the number of fields or elements.
func (v Value) Len() int { return len(v.items) }

// Elem returns the i-th field value or element.
func (v Value) Elem(i int) Value { return v.items[i] }

// FieldName returns the i-th record field name.
func (v Value) FieldName(i int) string { return v.names[i] }

// FieldByName returns the named record field.
func (v Value) FieldByName(name string) (Value, bool) {
	for i, n := range v.names {
		if n == name {
			return v.items[i], true
		}
	}
	return Value{}, false
}

// IsSome reports option presence.
func (v Value) IsSome() bool { return v.kind == KindOption && v.flag }

// IsErr reports whether a result holds the error case.
func (v Value) IsErr() bool { return v.kind == KindResult && v.flag }

// Payload returns the option, result or variant payload, nil if absent.
func (v Value) Payload() *Value { return v.inner }

// ActiveFlags returns the active flag names.
func (v Value) ActiveFlags() []string { return v.names }

// Equal reports deep structural equality. Floats compare bitwise on their
// stored float64, so NaN equals NaN.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool, KindU8, KindU16, KindU32, KindU64,
		KindS8, KindS16, KindS32, KindS64, KindChar:
		return v.num == o.num
	case KindF32, KindF64:
		return v.f == o.f || (v.f != v.f && o.f != o.f)
	case KindString, KindEnum:
		return v.str == o.str
	case KindRecord:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if v.names[i] != o.names[i] || !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindTuple, KindList:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindOption, KindResult:
		return v.flag == o.flag && payloadEqual(v.inner, o.inner)
	case KindVariant:
		return v.str == o.str && payloadEqual(v.inner, o.inner)
	case KindFlags:
		// Active flag order is not significant: a hand-built node and a
		// lifted declaration-ordered node compare equal.
		if len(v.names) != len(o.names) {
			return false
		}
		counts := make(map[string]int, len(v.names))
		for _, n := range v.names {
			counts[n]++
		}
		for _, n := range o.names {
			counts[n]--
			if counts[n] < 0 {
				return false
			}
		}
		return true
	}
	return false
}

func payloadEqual(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// String renders the tree in a compact debug form.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		if v.num == 1 {
			return "true"
		}
		return "false"
	case KindU8, KindU16, KindU32, KindU64:
		return fmt.Sprintf("%d", v.num)
	case KindS8, KindS16, KindS32, KindS64:
		return fmt.Sprintf("%d", int64(v.num))
	case KindF32, KindF64:
		return fmt.Sprintf("%g", v.f)
	case KindChar:
		return fmt.Sprintf("%q", v.Rune())
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindRecord:
		var b strings.Builder
		b.WriteString("{")
		for i := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %s", v.names[i], v.items[i])
		}
		b.WriteString("}")
		return b.String()
	case KindTuple, KindList:
		var b strings.Builder
		b.WriteString("[")
		for i := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(v.items[i].String())
		}
		b.WriteString("]")
		return b.String()
	case KindOption:
		if !v.flag {
			return "none"
		}
		return fmt.Sprintf("some(%s)", v.inner)
	case KindResult:
		name := "ok"
		if v.flag {
			name = "err"
		}
		if v.inner == nil {
			return name
		}
		return fmt.Sprintf("%s(%s)", name, v.inner)
	case KindVariant:
		if v.inner == nil {
			return v.str
		}
		return fmt.Sprintf("%s(%s)", v.str, v.inner)
	case KindEnum:
		return v.str
	case KindFlags:
		return "{" + strings.Join(v.names, ", ") + "}"
	}
	return "<invalid>"
}
