package codec

import (
	"reflect"

	"github.com/wippyai/wit-codec/codec/internal/abi"
	"github.com/wippyai/wit-codec/errors"
)

// Dyn is the dynamic adapter: values are plain Go data of the shape
// encoding/json produces, so JSON round-trips through it directly.
//
//   - bool, numeric types (float64 from JSON is coerced losslessly)
//   - string for strings, chars (single rune) and enum cases
//   - map[string]any for records, variants ({case: payload}) and
//     results ({"ok": v} or {"err": v})
//   - []any for tuples and lists; []byte for list<u8>
//   - nil / value for options
//   - map[string]bool for flags
type Dyn struct{}

var _ Adapter = Dyn{}

func (Dyn) AsBool(v any, path []string) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, errors.TypeMismatch(errors.PhaseLower, path, abi.TypeName(v), "bool")
	}
	return b, nil
}

func (Dyn) AsUnsigned(v any, t *Type, path []string) (uint64, error) {
	u, ok := abi.CoerceToUint64(v)
	if !ok {
		return 0, errors.TypeMismatch(errors.PhaseLower, path, abi.TypeName(v), t.kind.String())
	}
	return u, nil
}

func (Dyn) AsSigned(v any, t *Type, path []string) (int64, error) {
	s, ok := abi.CoerceToInt64(v)
	if !ok {
		return 0, errors.TypeMismatch(errors.PhaseLower, path, abi.TypeName(v), t.kind.String())
	}
	return s, nil
}

func (Dyn) AsFloat(v any, t *Type, path []string) (float64, error) {
	f, ok := abi.CoerceToFloat64(v)
	if !ok {
		return 0, errors.TypeMismatch(errors.PhaseLower, path, abi.TypeName(v), t.kind.String())
	}
	return f, nil
}

func (Dyn) AsChar(v any, path []string) (rune, error) {
	switch c := v.(type) {
	case rune:
		return c, nil
	case string:
		runes := []rune(c)
		if len(runes) == 1 {
			return runes[0], nil
		}
	}
	return 0, errors.TypeMismatch(errors.PhaseLower, path, abi.TypeName(v), "char")
}

func (Dyn) AsString(v any, path []string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.TypeMismatch(errors.PhaseLower, path, abi.TypeName(v), "string")
	}
	return s, nil
}

func (Dyn) AsFields(v any, t *Type, path []string) ([]any, error) {
	if t.kind == KindTuple {
		elems, ok := anySlice(v)
		if !ok {
			return nil, errors.TypeMismatch(errors.PhaseLower, path, abi.TypeName(v), t.String())
		}
		return elems, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseLower, path, abi.TypeName(v), t.String())
	}
	fields := make([]any, len(t.fields))
	for i, f := range t.fields {
		fv, ok := m[f.Name]
		if !ok {
			// Optional fields may be omitted entirely.
			if f.Type.kind == KindOption {
				fields[i] = nil
				continue
			}
			return nil, errors.FieldMissing(errors.PhaseLower, path, f.Name)
		}
		fields[i] = fv
	}
	return fields, nil
}

func (Dyn) AsList(v any, t *Type, path []string) ([]any, error) {
	elems, ok := anySlice(v)
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseLower, path, abi.TypeName(v), t.String())
	}
	return elems, nil
}

func (Dyn) AsOption(v any, t *Type, path []string) (bool, any, error) {
	if v == nil {
		return false, nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return false, nil, nil
		}
		return true, rv.Elem().Interface(), nil
	}
	return true, v, nil
}

func (Dyn) AsResult(v any, t *Type, path []string) (bool, any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return false, nil, errors.TypeMismatch(errors.PhaseLower, path, abi.TypeName(v), t.String())
	}
	if payload, ok := m["ok"]; ok {
		return false, payload, nil
	}
	if payload, ok := m["err"]; ok {
		return true, payload, nil
	}
	return false, nil, errors.New(errors.PhaseLower, errors.KindTypeMismatch).
		Path(path...).
		WitType(t.String()).
		Detail(`result map needs an "ok" or "err" key`).
		Build()
}

func (Dyn) AsVariant(v any, t *Type, path []string) (int, any, error) {
	switch val := v.(type) {
	case string:
		// Bare case name, valid only for payload-less cases.
		for i, c := range t.cases {
			if c.Name == val {
				if c.Type != nil {
					return 0, nil, errors.New(errors.PhaseLower, errors.KindTypeMismatch).
						Path(path...).
						WitType(t.String()).
						Detail("case %q requires a payload", val).
						Build()
				}
				return i, nil, nil
			}
		}
		return 0, nil, errors.UnknownCase(errors.PhaseLower, path, val, len(t.cases))
	case map[string]any:
		if len(val) != 1 {
			return 0, nil, errors.New(errors.PhaseLower, errors.KindTypeMismatch).
				Path(path...).
				WitType(t.String()).
				Detail("variant map needs exactly one key, got %d", len(val)).
				Build()
		}
		for name, payload := range val {
			for i, c := range t.cases {
				if c.Name == name {
					return i, payload, nil
				}
			}
			return 0, nil, errors.UnknownCase(errors.PhaseLower, path, name, len(t.cases))
		}
	}
	return 0, nil, errors.TypeMismatch(errors.PhaseLower, path, abi.TypeName(v), t.String())
}

func (Dyn) AsEnum(v any, t *Type, path []string) (int, error) {
	switch val := v.(type) {
	case string:
		for i, c := range t.cases {
			if c.Name == val {
				return i, nil
			}
		}
		return 0, errors.UnknownCase(errors.PhaseLower, path, val, len(t.cases))
	default:
		if u, ok := abi.CoerceToUint64(v); ok {
			if u >= uint64(len(t.cases)) {
				return 0, errors.InvalidDiscriminant(errors.PhaseLower, path, uint32(u), len(t.cases))
			}
			return int(u), nil
		}
	}
	return 0, errors.TypeMismatch(errors.PhaseLower, path, abi.TypeName(v), t.String())
}

func (Dyn) AsFlags(v any, t *Type, path []string) ([]string, error) {
	switch val := v.(type) {
	case map[string]bool:
		var active []string
		for _, name := range t.flagNames {
			if val[name] {
				active = append(active, name)
			}
		}
		return active, nil
	case map[string]any:
		var active []string
		for _, name := range t.flagNames {
			if b, ok := val[name].(bool); ok && b {
				active = append(active, name)
			}
		}
		return active, nil
	case []string:
		return val, nil
	}
	return nil, errors.TypeMismatch(errors.PhaseLower, path, abi.TypeName(v), t.String())
}

func (Dyn) MakeBool(b bool) any { return b }

func (Dyn) MakeUnsigned(u uint64, t *Type) any {
	switch t.kind {
	case KindU8:
		return uint8(u)
	case KindU16:
		return uint16(u)
	case KindU32:
		return uint32(u)
	default:
		return u
	}
}

func (Dyn) MakeSigned(s int64, t *Type) any {
	switch t.kind {
	case KindS8:
		return int8(s)
	case KindS16:
		return int16(s)
	case KindS32:
		return int32(s)
	default:
		return s
	}
}

func (Dyn) MakeFloat(f float64, t *Type) any {
	if t.kind == KindF32 {
		return float32(f)
	}
	return f
}

func (Dyn) MakeChar(r rune) any { return r }

func (Dyn) MakeString(s string) any { return s }

func (Dyn) MakeRecord(t *Type, fields []any) any {
	m := make(map[string]any, len(fields))
	for i, f := range t.fields {
		m[f.Name] = fields[i]
	}
	return m
}

func (Dyn) MakeTuple(t *Type, elems []any) any { return elems }

func (Dyn) MakeList(t *Type, elems []any) any {
	// list<u8> round-trips as []byte so raw payloads stay raw.
	if t.elem.kind == KindU8 {
		data := make([]byte, len(elems))
		for i, e := range elems {
			data[i] = e.(uint8)
		}
		return data
	}
	if elems == nil {
		return []any{}
	}
	return elems
}

func (Dyn) MakeOption(t *Type, present bool, inner any) any {
	if !present {
		return nil
	}
	return inner
}

func (Dyn) MakeResult(t *Type, isErr bool, payload any) any {
	if isErr {
		return map[string]any{"err": payload}
	}
	return map[string]any{"ok": payload}
}

func (Dyn) MakeVariant(t *Type, caseIndex int, payload any) any {
	return map[string]any{t.cases[caseIndex].Name: payload}
}

func (Dyn) MakeEnum(t *Type, caseIndex int) any {
	return t.cases[caseIndex].Name
}

func (Dyn) MakeFlags(t *Type, active []string) any {
	m := make(map[string]bool, len(t.flagNames))
	for _, name := range t.flagNames {
		m[name] = false
	}
	for _, name := range active {
		m[name] = true
	}
	return m
}

// anySlice boxes any slice or array into []any. []any passes through
// untouched.
func anySlice(v any) ([]any, bool) {
	if elems, ok := v.([]any); ok {
		return elems, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	elems := make([]any, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	return elems, true
}
