package codec

import (
	"fmt"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wit-codec/errors"
)

// Compile translates a wit type graph into an immutable Type descriptor
// with all layout facts precomputed. Type aliases (a TypeDef whose kind is
// another type) are unwrapped recursively; the innermost name wins for
// anonymous compounds, so `type meters = u32` compiles to the shared U32
// descriptor. Resource handles and async types compile to an error.
func Compile(t wit.Type) (*Type, error) {
	switch typ := t.(type) {
	case wit.Bool:
		return Bool, nil
	case wit.U8:
		return U8, nil
	case wit.U16:
		return U16, nil
	case wit.U32:
		return U32, nil
	case wit.U64:
		return U64, nil
	case wit.S8:
		return S8, nil
	case wit.S16:
		return S16, nil
	case wit.S32:
		return S32, nil
	case wit.S64:
		return S64, nil
	case wit.F32:
		return F32, nil
	case wit.F64:
		return F64, nil
	case wit.Char:
		return Char, nil
	case wit.String:
		return String, nil
	case *wit.TypeDef:
		return compileTypeDef(typ)
	case nil:
		return nil, errors.InvalidType("nil wit type")
	default:
		return nil, errors.Unsupported(errors.PhaseCompile, fmt.Sprintf("wit type %T", t))
	}
}

func compileTypeDef(td *wit.TypeDef) (*Type, error) {
	name := ""
	if td.Name != nil {
		name = *td.Name
	}

	switch kind := td.Kind.(type) {
	case *wit.Record:
		fields := make([]Field, len(kind.Fields))
		for i, f := range kind.Fields {
			ft, err := Compile(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = Field{Name: f.Name, Type: ft}
		}
		return NewRecord(name, fields), nil

	case *wit.Tuple:
		elems := make([]*Type, len(kind.Types))
		for i, et := range kind.Types {
			ct, err := Compile(et)
			if err != nil {
				return nil, err
			}
			elems[i] = ct
		}
		return NewTuple(elems...), nil

	case *wit.List:
		elem, err := Compile(kind.Type)
		if err != nil {
			return nil, err
		}
		return NewList(elem), nil

	case *wit.Option:
		inner, err := Compile(kind.Type)
		if err != nil {
			return nil, err
		}
		return NewOption(inner), nil

	case *wit.Result:
		var okType, errType *Type
		var err error
		if kind.OK != nil {
			if okType, err = Compile(kind.OK); err != nil {
				return nil, err
			}
		}
		if kind.Err != nil {
			if errType, err = Compile(kind.Err); err != nil {
				return nil, err
			}
		}
		return NewResult(okType, errType), nil

	case *wit.Variant:
		cases := make([]Case, len(kind.Cases))
		for i, c := range kind.Cases {
			var ct *Type
			if c.Type != nil {
				var err error
				if ct, err = Compile(c.Type); err != nil {
					return nil, err
				}
			}
			cases[i] = Case{Name: c.Name, Type: ct}
		}
		return NewVariant(name, cases), nil

	case *wit.Enum:
		names := make([]string, len(kind.Cases))
		for i, c := range kind.Cases {
			names[i] = c.Name
		}
		return NewEnum(name, names...), nil

	case *wit.Flags:
		names := make([]string, len(kind.Flags))
		for i, f := range kind.Flags {
			names[i] = f.Name
		}
		return NewFlags(name, names...), nil

	case *wit.Own:
		return nil, errors.Unsupported(errors.PhaseCompile, "own handle")

	case *wit.Borrow:
		return nil, errors.Unsupported(errors.PhaseCompile, "borrow handle")

	case wit.Type:
		// Type alias: unwrap to the aliased type.
		return Compile(kind)

	case nil:
		return nil, errors.InvalidType("typedef %q has nil kind", name)

	default:
		return nil, errors.Unsupported(errors.PhaseCompile, fmt.Sprintf("wit typedef kind %T", td.Kind))
	}
}
