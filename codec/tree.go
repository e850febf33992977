package codec

import (
	"github.com/wippyai/wit-codec/codec/internal/abi"
	"github.com/wippyai/wit-codec/errors"
	"github.com/wippyai/wit-codec/value"
)

// Tree is the explicit-tree adapter: values are value.Value nodes, so
// every node carries its own kind and nested options stay unambiguous.
// Lowering the same logical value through Tree or Dyn produces identical
// bytes.
type Tree struct{}

var _ Adapter = Tree{}

func treeVal(v any, want value.Kind, t string, path []string) (value.Value, error) {
	tv, ok := v.(value.Value)
	if !ok {
		return value.Value{}, errors.TypeMismatch(errors.PhaseLower, path, abi.TypeName(v), t)
	}
	if want != value.KindInvalid && tv.Kind() != want {
		return value.Value{}, errors.TypeMismatch(errors.PhaseLower, path, tv.Kind().String(), t)
	}
	return tv, nil
}

func (Tree) AsBool(v any, path []string) (bool, error) {
	tv, err := treeVal(v, value.KindBool, "bool", path)
	if err != nil {
		return false, err
	}
	return tv.AsBool(), nil
}

func (Tree) AsUnsigned(v any, t *Type, path []string) (uint64, error) {
	tv, err := treeVal(v, value.KindInvalid, t.kind.String(), path)
	if err != nil {
		return 0, err
	}
	switch tv.Kind() {
	case value.KindU8, value.KindU16, value.KindU32, value.KindU64:
		return tv.Uint(), nil
	}
	return 0, errors.TypeMismatch(errors.PhaseLower, path, tv.Kind().String(), t.kind.String())
}

func (Tree) AsSigned(v any, t *Type, path []string) (int64, error) {
	tv, err := treeVal(v, value.KindInvalid, t.kind.String(), path)
	if err != nil {
		return 0, err
	}
	switch tv.Kind() {
	case value.KindS8, value.KindS16, value.KindS32, value.KindS64:
		return tv.Int(), nil
	}
	return 0, errors.TypeMismatch(errors.PhaseLower, path, tv.Kind().String(), t.kind.String())
}

func (Tree) AsFloat(v any, t *Type, path []string) (float64, error) {
	tv, err := treeVal(v, value.KindInvalid, t.kind.String(), path)
	if err != nil {
		return 0, err
	}
	switch tv.Kind() {
	case value.KindF32, value.KindF64:
		return tv.Float(), nil
	}
	return 0, errors.TypeMismatch(errors.PhaseLower, path, tv.Kind().String(), t.kind.String())
}

func (Tree) AsChar(v any, path []string) (rune, error) {
	tv, err := treeVal(v, value.KindChar, "char", path)
	if err != nil {
		return 0, err
	}
	return tv.Rune(), nil
}

func (Tree) AsString(v any, path []string) (string, error) {
	tv, err := treeVal(v, value.KindString, "string", path)
	if err != nil {
		return "", err
	}
	return tv.Str(), nil
}

func (Tree) AsFields(v any, t *Type, path []string) ([]any, error) {
	want := value.KindRecord
	if t.kind == KindTuple {
		want = value.KindTuple
	}
	tv, err := treeVal(v, want, t.String(), path)
	if err != nil {
		return nil, err
	}
	if t.kind == KindTuple {
		fields := make([]any, tv.Len())
		for i := range fields {
			fields[i] = tv.Elem(i)
		}
		return fields, nil
	}
	fields := make([]any, len(t.fields))
	for i, f := range t.fields {
		fv, ok := tv.FieldByName(f.Name)
		if !ok {
			return nil, errors.FieldMissing(errors.PhaseLower, path, f.Name)
		}
		fields[i] = fv
	}
	return fields, nil
}

func (Tree) AsList(v any, t *Type, path []string) ([]any, error) {
	tv, err := treeVal(v, value.KindList, t.String(), path)
	if err != nil {
		return nil, err
	}
	elems := make([]any, tv.Len())
	for i := range elems {
		elems[i] = tv.Elem(i)
	}
	return elems, nil
}

func (Tree) AsOption(v any, t *Type, path []string) (bool, any, error) {
	tv, err := treeVal(v, value.KindOption, t.String(), path)
	if err != nil {
		return false, nil, err
	}
	if !tv.IsSome() {
		return false, nil, nil
	}
	return true, *tv.Payload(), nil
}

func (Tree) AsResult(v any, t *Type, path []string) (bool, any, error) {
	tv, err := treeVal(v, value.KindResult, t.String(), path)
	if err != nil {
		return false, nil, err
	}
	var payload any
	if p := tv.Payload(); p != nil {
		payload = *p
	}
	return tv.IsErr(), payload, nil
}

func (Tree) AsVariant(v any, t *Type, path []string) (int, any, error) {
	tv, err := treeVal(v, value.KindVariant, t.String(), path)
	if err != nil {
		return 0, nil, err
	}
	name := tv.Str()
	for i, c := range t.cases {
		if c.Name == name {
			var payload any
			if p := tv.Payload(); p != nil {
				payload = *p
			}
			return i, payload, nil
		}
	}
	return 0, nil, errors.UnknownCase(errors.PhaseLower, path, name, len(t.cases))
}

func (Tree) AsEnum(v any, t *Type, path []string) (int, error) {
	tv, err := treeVal(v, value.KindEnum, t.String(), path)
	if err != nil {
		return 0, err
	}
	name := tv.Str()
	for i, c := range t.cases {
		if c.Name == name {
			return i, nil
		}
	}
	return 0, errors.UnknownCase(errors.PhaseLower, path, name, len(t.cases))
}

func (Tree) AsFlags(v any, t *Type, path []string) ([]string, error) {
	tv, err := treeVal(v, value.KindFlags, t.String(), path)
	if err != nil {
		return nil, err
	}
	return tv.ActiveFlags(), nil
}

func (Tree) MakeBool(b bool) any { return value.Bool(b) }

func (Tree) MakeUnsigned(u uint64, t *Type) any {
	switch t.kind {
	case KindU8:
		return value.U8(uint8(u))
	case KindU16:
		return value.U16(uint16(u))
	case KindU32:
		return value.U32(uint32(u))
	default:
		return value.U64(u)
	}
}

func (Tree) MakeSigned(s int64, t *Type) any {
	switch t.kind {
	case KindS8:
		return value.S8(int8(s))
	case KindS16:
		return value.S16(int16(s))
	case KindS32:
		return value.S32(int32(s))
	default:
		return value.S64(s)
	}
}

func (Tree) MakeFloat(f float64, t *Type) any {
	if t.kind == KindF32 {
		return value.F32(float32(f))
	}
	return value.F64(f)
}

func (Tree) MakeChar(r rune) any { return value.Char(r) }

func (Tree) MakeString(s string) any { return value.String(s) }

func (Tree) MakeRecord(t *Type, fields []any) any {
	vf := make([]value.Field, len(fields))
	for i, f := range t.fields {
		vf[i] = value.Field{Name: f.Name, Value: fields[i].(value.Value)}
	}
	return value.Record(vf...)
}

func (Tree) MakeTuple(t *Type, elems []any) any {
	return value.Tuple(treeElems(elems)...)
}

func (Tree) MakeList(t *Type, elems []any) any {
	return value.List(treeElems(elems)...)
}

func (Tree) MakeOption(t *Type, present bool, inner any) any {
	if !present {
		return value.None()
	}
	return value.Some(inner.(value.Value))
}

func (Tree) MakeResult(t *Type, isErr bool, payload any) any {
	var pv *value.Value
	if payload != nil {
		v := payload.(value.Value)
		pv = &v
	}
	if isErr {
		return value.Err(pv)
	}
	return value.Ok(pv)
}

func (Tree) MakeVariant(t *Type, caseIndex int, payload any) any {
	var pv *value.Value
	if payload != nil {
		v := payload.(value.Value)
		pv = &v
	}
	return value.Variant(t.cases[caseIndex].Name, pv)
}

func (Tree) MakeEnum(t *Type, caseIndex int) any {
	return value.Enum(t.cases[caseIndex].Name)
}

func (Tree) MakeFlags(t *Type, active []string) any {
	return value.Flags(active...)
}

func treeElems(elems []any) []value.Value {
	out := make([]value.Value, len(elems))
	for i, e := range elems {
		out[i] = e.(value.Value)
	}
	return out
}
