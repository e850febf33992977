package codec

import (
	"math"
	"strconv"
	"unicode/utf8"

	witcodec "github.com/wippyai/wit-codec"
	"github.com/wippyai/wit-codec/codec/internal/abi"
	"github.com/wippyai/wit-codec/errors"
)

// Lift reconstructs a value from a flat buffer. The number of bytes
// consumed is always exactly t.Size(). Types with indirect parts need
// LiftWith and the memory the buffer's pointers refer to.
func Lift(buf []byte, t *Type, a Adapter) (any, uint32, error) {
	if t.needsMemory {
		return nil, 0, errors.LinearMemoryRequired(errors.PhaseLift, t.String())
	}
	return LiftWith(buf, t, a, nil)
}

// LiftWith reconstructs a value from buf, following pointers into mem.
// Every discriminant, char, bool, pointer and string is validated; lifting
// never fabricates a value from malformed bytes.
func LiftWith(buf []byte, t *Type, a Adapter, mem witcodec.Memory) (any, uint32, error) {
	v, err := liftFrom(buf, 0, t, a, mem, nil)
	if err != nil {
		return nil, 0, err
	}
	return v, t.size, nil
}

// LiftEncoded reconstructs a value from both regions of an Encoded.
func LiftEncoded(enc Encoded, t *Type, a Adapter) (any, uint32, error) {
	return LiftWith(enc.Buffer, t, a, LinearMemoryOf(enc.Memory))
}

func liftFrom(buf []byte, off uint32, t *Type, a Adapter, mem witcodec.Memory, path []string) (any, error) {
	switch t.kind {
	case KindBool:
		b, err := loadU8(buf, off, path)
		if err != nil {
			return nil, err
		}
		if b > 1 {
			return nil, errors.InvalidBool(path, b)
		}
		return a.MakeBool(b == 1), nil

	case KindU8:
		v, err := loadU8(buf, off, path)
		if err != nil {
			return nil, err
		}
		return a.MakeUnsigned(uint64(v), t), nil

	case KindU16:
		v, err := loadU16(buf, off, path)
		if err != nil {
			return nil, err
		}
		return a.MakeUnsigned(uint64(v), t), nil

	case KindU32:
		v, err := loadU32(buf, off, path)
		if err != nil {
			return nil, err
		}
		return a.MakeUnsigned(uint64(v), t), nil

	case KindU64:
		v, err := loadU64(buf, off, path)
		if err != nil {
			return nil, err
		}
		return a.MakeUnsigned(v, t), nil

	case KindS8:
		v, err := loadU8(buf, off, path)
		if err != nil {
			return nil, err
		}
		return a.MakeSigned(int64(int8(v)), t), nil

	case KindS16:
		v, err := loadU16(buf, off, path)
		if err != nil {
			return nil, err
		}
		return a.MakeSigned(int64(int16(v)), t), nil

	case KindS32:
		v, err := loadU32(buf, off, path)
		if err != nil {
			return nil, err
		}
		return a.MakeSigned(int64(int32(v)), t), nil

	case KindS64:
		v, err := loadU64(buf, off, path)
		if err != nil {
			return nil, err
		}
		return a.MakeSigned(int64(v), t), nil

	case KindF32:
		bits, err := loadU32(buf, off, path)
		if err != nil {
			return nil, err
		}
		return a.MakeFloat(float64(math.Float32frombits(bits)), t), nil

	case KindF64:
		bits, err := loadU64(buf, off, path)
		if err != nil {
			return nil, err
		}
		return a.MakeFloat(math.Float64frombits(bits), t), nil

	case KindChar:
		code, err := loadU32(buf, off, path)
		if err != nil {
			return nil, err
		}
		if !abi.ValidateChar(rune(code)) {
			return nil, errors.InvalidChar(errors.PhaseLift, path, code)
		}
		return a.MakeChar(rune(code)), nil

	case KindString:
		s, err := liftString(buf, off, mem, path)
		if err != nil {
			return nil, err
		}
		return a.MakeString(s), nil

	case KindRecord, KindTuple:
		fields := make([]any, len(t.fields))
		for i, f := range t.fields {
			v, err := liftFrom(buf, off+f.Offset, f.Type, a, mem, append(path, f.Name))
			if err != nil {
				return nil, err
			}
			fields[i] = v
		}
		if t.kind == KindTuple {
			return a.MakeTuple(t, fields), nil
		}
		return a.MakeRecord(t, fields), nil

	case KindList:
		ptr, err := loadU32(buf, off, path)
		if err != nil {
			return nil, err
		}
		count, err := loadU32(buf, off+4, path)
		if err != nil {
			return nil, err
		}
		elems, err := liftElems(ptr, count, t.elem, a, mem, path)
		if err != nil {
			return nil, err
		}
		return a.MakeList(t, elems), nil

	case KindFixedList:
		ptr, err := loadU32(buf, off, path)
		if err != nil {
			return nil, err
		}
		elems, err := liftElems(ptr, t.length, t.elem, a, mem, path)
		if err != nil {
			return nil, err
		}
		return a.MakeList(t, elems), nil

	case KindOption:
		disc, err := loadU8(buf, off, path)
		if err != nil {
			return nil, err
		}
		if disc > 1 {
			return nil, errors.InvalidDiscriminant(errors.PhaseLift, path, uint32(disc), 2)
		}
		if disc == 0 {
			return a.MakeOption(t, false, nil), nil
		}
		inner, err := liftFrom(buf, off+t.payloadOffset, t.elem, a, mem, append(path, "some"))
		if err != nil {
			return nil, err
		}
		return a.MakeOption(t, true, inner), nil

	case KindResult:
		disc, err := loadU8(buf, off, path)
		if err != nil {
			return nil, err
		}
		if disc > 1 {
			return nil, errors.InvalidDiscriminant(errors.PhaseLift, path, uint32(disc), 2)
		}
		side, name := t.okType, "ok"
		if disc == 1 {
			side, name = t.errType, "err"
		}
		var payload any
		if side != nil {
			if payload, err = liftFrom(buf, off+t.payloadOffset, side, a, mem, append(path, name)); err != nil {
				return nil, err
			}
		}
		return a.MakeResult(t, disc == 1, payload), nil

	case KindVariant:
		disc, err := loadDisc(buf, off, t.tagWidth, path)
		if err != nil {
			return nil, err
		}
		if int(disc) >= len(t.cases) {
			return nil, errors.InvalidDiscriminant(errors.PhaseLift, path, disc, len(t.cases))
		}
		c := t.cases[disc]
		var payload any
		if c.Type != nil {
			if payload, err = liftFrom(buf, off+t.payloadOffset, c.Type, a, mem, append(path, c.Name)); err != nil {
				return nil, err
			}
		}
		return a.MakeVariant(t, int(disc), payload), nil

	case KindEnum:
		disc, err := loadDisc(buf, off, t.tagWidth, path)
		if err != nil {
			return nil, err
		}
		if int(disc) >= len(t.cases) {
			return nil, errors.InvalidDiscriminant(errors.PhaseLift, path, disc, len(t.cases))
		}
		return a.MakeEnum(t, int(disc)), nil

	case KindFlags:
		active, err := liftFlags(buf, off, t, path)
		if err != nil {
			return nil, err
		}
		return a.MakeFlags(t, active), nil

	default:
		return nil, errors.Unsupported(errors.PhaseLift, t.kind.String())
	}
}

func liftString(buf []byte, off uint32, mem witcodec.Memory, path []string) (string, error) {
	ptr, err := loadU32(buf, off, path)
	if err != nil {
		return "", err
	}
	length, err := loadU32(buf, off+4, path)
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}
	if length > abi.MaxStringSize {
		return "", errors.Overflow(errors.PhaseLift, path, "string of %d bytes exceeds limit %d", length, abi.MaxStringSize)
	}
	if mem == nil {
		return "", errors.LinearMemoryRequired(errors.PhaseLift, "string")
	}
	data, err := mem.Read(ptr, length)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.InvalidUTF8(errors.PhaseLift, path, data)
	}
	return string(data), nil
}

// liftElems reads count contiguous elements starting at ptr. The whole
// element region is bounds checked with a single read before any element
// is decoded.
func liftElems(ptr, count uint32, elem *Type, a Adapter, mem witcodec.Memory, path []string) ([]any, error) {
	if count == 0 {
		return nil, nil
	}
	if count > abi.MaxListLength {
		return nil, errors.Overflow(errors.PhaseLift, path, "list of %d elements exceeds limit %d", count, abi.MaxListLength)
	}
	total, ok := abi.SafeMulU32(count, elem.size)
	if !ok {
		return nil, errors.Overflow(errors.PhaseLift, path, "list of %d elements of %d bytes overflows", count, elem.size)
	}
	if mem == nil {
		return nil, errors.LinearMemoryRequired(errors.PhaseLift, "list")
	}
	region, err := mem.Read(ptr, total)
	if err != nil {
		return nil, err
	}
	elems := make([]any, count)
	for i := uint32(0); i < count; i++ {
		v, err := liftFrom(region, i*elem.size, elem, a, mem, append(path, "["+strconv.Itoa(int(i))+"]"))
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return elems, nil
}

func liftFlags(buf []byte, off uint32, t *Type, path []string) ([]string, error) {
	if t.size == 0 {
		return nil, nil
	}
	words := make([]uint32, (len(t.flagNames)+31)/32)
	switch t.size {
	case 1:
		v, err := loadU8(buf, off, path)
		if err != nil {
			return nil, err
		}
		words[0] = uint32(v)
	case 2:
		v, err := loadU16(buf, off, path)
		if err != nil {
			return nil, err
		}
		words[0] = uint32(v)
	default:
		for w := range words {
			v, err := loadU32(buf, off+uint32(w)*4, path)
			if err != nil {
				return nil, err
			}
			words[w] = v
		}
	}
	var active []string
	for i, name := range t.flagNames {
		if words[i/32]&(1<<uint(i%32)) != 0 {
			active = append(active, name)
		}
	}
	return active, nil
}
