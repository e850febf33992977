package codec

// Adapter binds a value representation to the codec's single traversal.
// The As* methods decompose a representation during lowering; the Make*
// methods build one up during lifting. The traversal owns all byte layout
// and validation; adapters only translate between Go values and the
// abstract shape of each type, so the byte output of Lower is identical
// for any two correct adapters.
//
// As* methods return structured errors (TypeMismatch, FieldMissing,
// UnknownCase) when the representation does not match the type. Make*
// methods cannot fail: by the time they run the bytes are validated.
type Adapter interface {
	// Lowering side.

	AsBool(v any, path []string) (bool, error)
	// AsUnsigned handles KindU8 through KindU64; the result is range
	// checked against the type's width by the caller's contract.
	AsUnsigned(v any, t *Type, path []string) (uint64, error)
	AsSigned(v any, t *Type, path []string) (int64, error)
	AsFloat(v any, t *Type, path []string) (float64, error)
	AsChar(v any, path []string) (rune, error)
	AsString(v any, path []string) (string, error)
	// AsFields returns record or tuple members in declaration order.
	AsFields(v any, t *Type, path []string) ([]any, error)
	// AsList returns list or fixed-list elements.
	AsList(v any, t *Type, path []string) ([]any, error)
	AsOption(v any, t *Type, path []string) (present bool, inner any, err error)
	AsResult(v any, t *Type, path []string) (isErr bool, payload any, err error)
	// AsVariant returns the declared case index and its payload (nil for
	// payload-less cases).
	AsVariant(v any, t *Type, path []string) (caseIndex int, payload any, err error)
	AsEnum(v any, t *Type, path []string) (caseIndex int, err error)
	// AsFlags returns the set of active flag names. Names not declared on
	// the type are ignored by the traversal.
	AsFlags(v any, t *Type, path []string) ([]string, error)

	// Lifting side.

	MakeBool(b bool) any
	MakeUnsigned(u uint64, t *Type) any
	MakeSigned(s int64, t *Type) any
	MakeFloat(f float64, t *Type) any
	MakeChar(r rune) any
	MakeString(s string) any
	MakeRecord(t *Type, fields []any) any
	MakeTuple(t *Type, elems []any) any
	MakeList(t *Type, elems []any) any
	MakeOption(t *Type, present bool, inner any) any
	MakeResult(t *Type, isErr bool, payload any) any
	MakeVariant(t *Type, caseIndex int, payload any) any
	MakeEnum(t *Type, caseIndex int) any
	MakeFlags(t *Type, active []string) any
}
