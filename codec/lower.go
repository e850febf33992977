package codec

import (
	"math"
	"strconv"
	"unicode/utf8"

	witcodec "github.com/wippyai/wit-codec"
	"github.com/wippyai/wit-codec/codec/internal/abi"
	"github.com/wippyai/wit-codec/errors"
)

// Lower flattens v into a fresh buffer of exactly t.Size() bytes. It only
// works for types without indirect parts; types containing strings or
// lists need LowerWith and a Memory.
func Lower(v any, t *Type, a Adapter) ([]byte, error) {
	if t.needsMemory {
		return nil, errors.LinearMemoryRequired(errors.PhaseLower, t.String())
	}
	return LowerWith(v, t, a, nil)
}

// LowerWith flattens v into a fresh buffer, spilling string bytes and list
// elements into mem. The buffer is exactly t.Size() bytes; on error it is
// nil and mem may hold partial allocations.
func LowerWith(v any, t *Type, a Adapter, mem witcodec.Memory) ([]byte, error) {
	buf := make([]byte, t.size)
	if err := lowerInto(v, t, a, buf, 0, mem, nil); err != nil {
		return nil, err
	}
	return buf, nil
}

// LowerEncoded flattens v and captures both regions in one call, using a
// private arena for the indirect bytes.
func LowerEncoded(v any, t *Type, a Adapter) (Encoded, error) {
	if !t.needsMemory {
		buf, err := LowerWith(v, t, a, nil)
		return Encoded{Buffer: buf}, err
	}
	mem := NewLinearMemory()
	buf, err := LowerWith(v, t, a, mem)
	if err != nil {
		return Encoded{}, err
	}
	enc := Encoded{Buffer: buf}
	if mem.Size() > 0 {
		enc.Memory = mem.Bytes()
	}
	return enc, nil
}

// lowerInto writes one value at buf[off:off+t.size]. All multi-byte writes
// are little-endian and bounds checked.
func lowerInto(v any, t *Type, a Adapter, buf []byte, off uint32, mem witcodec.Memory, path []string) error {
	switch t.kind {
	case KindBool:
		b, err := a.AsBool(v, path)
		if err != nil {
			return err
		}
		var byt uint8
		if b {
			byt = 1
		}
		return putU8(buf, off, byt, path)

	case KindU8, KindU16, KindU32, KindU64:
		u, err := a.AsUnsigned(v, t, path)
		if err != nil {
			return err
		}
		return lowerUnsigned(buf, off, u, t, path)

	case KindS8, KindS16, KindS32, KindS64:
		s, err := a.AsSigned(v, t, path)
		if err != nil {
			return err
		}
		return lowerSigned(buf, off, s, t, path)

	case KindF32:
		f, err := a.AsFloat(v, t, path)
		if err != nil {
			return err
		}
		return putU32(buf, off, abi.CanonicalizeF32(math.Float32bits(float32(f))), path)

	case KindF64:
		f, err := a.AsFloat(v, t, path)
		if err != nil {
			return err
		}
		return putU64(buf, off, abi.CanonicalizeF64(math.Float64bits(f)), path)

	case KindChar:
		r, err := a.AsChar(v, path)
		if err != nil {
			return err
		}
		if !abi.ValidateChar(r) {
			return errors.InvalidChar(errors.PhaseLower, path, uint32(r))
		}
		return putU32(buf, off, uint32(r), path)

	case KindString:
		s, err := a.AsString(v, path)
		if err != nil {
			return err
		}
		return lowerString(s, buf, off, mem, path)

	case KindRecord, KindTuple:
		vals, err := a.AsFields(v, t, path)
		if err != nil {
			return err
		}
		if len(vals) != len(t.fields) {
			return errors.New(errors.PhaseLower, errors.KindTypeMismatch).
				Path(path...).
				WitType(t.String()).
				Detail("expected %d fields, got %d", len(t.fields), len(vals)).
				Build()
		}
		for i, f := range t.fields {
			if err := lowerInto(vals[i], f.Type, a, buf, off+f.Offset, mem, append(path, f.Name)); err != nil {
				return err
			}
		}
		return nil

	case KindList:
		elems, err := a.AsList(v, t, path)
		if err != nil {
			return err
		}
		if len(elems) == 0 {
			if err := putU32(buf, off, 0, path); err != nil {
				return err
			}
			return putU32(buf, off+4, 0, path)
		}
		base, err := lowerElems(elems, t.elem, a, mem, path)
		if err != nil {
			return err
		}
		if err := putU32(buf, off, base, path); err != nil {
			return err
		}
		return putU32(buf, off+4, uint32(len(elems)), path)

	case KindFixedList:
		elems, err := a.AsList(v, t, path)
		if err != nil {
			return err
		}
		if uint32(len(elems)) != t.length {
			return errors.New(errors.PhaseLower, errors.KindTypeMismatch).
				Path(path...).
				WitType(t.String()).
				Detail("expected %d elements, got %d", t.length, len(elems)).
				Build()
		}
		if len(elems) == 0 {
			return putU32(buf, off, 0, path)
		}
		base, err := lowerElems(elems, t.elem, a, mem, path)
		if err != nil {
			return err
		}
		return putU32(buf, off, base, path)

	case KindOption:
		present, inner, err := a.AsOption(v, t, path)
		if err != nil {
			return err
		}
		if !present {
			return putU8(buf, off, 0, path)
		}
		if err := putU8(buf, off, 1, path); err != nil {
			return err
		}
		return lowerInto(inner, t.elem, a, buf, off+t.payloadOffset, mem, append(path, "some"))

	case KindResult:
		isErr, payload, err := a.AsResult(v, t, path)
		if err != nil {
			return err
		}
		side, name, disc := t.okType, "ok", uint8(0)
		if isErr {
			side, name, disc = t.errType, "err", 1
		}
		if err := putU8(buf, off, disc, path); err != nil {
			return err
		}
		if side == nil {
			return nil
		}
		return lowerInto(payload, side, a, buf, off+t.payloadOffset, mem, append(path, name))

	case KindVariant:
		idx, payload, err := a.AsVariant(v, t, path)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(t.cases) {
			return errors.InvalidDiscriminant(errors.PhaseLower, path, uint32(idx), len(t.cases))
		}
		if err := putDisc(buf, off, t.tagWidth, uint32(idx), path); err != nil {
			return err
		}
		c := t.cases[idx]
		if c.Type == nil {
			return nil
		}
		return lowerInto(payload, c.Type, a, buf, off+t.payloadOffset, mem, append(path, c.Name))

	case KindEnum:
		idx, err := a.AsEnum(v, t, path)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(t.cases) {
			return errors.InvalidDiscriminant(errors.PhaseLower, path, uint32(idx), len(t.cases))
		}
		return putDisc(buf, off, t.tagWidth, uint32(idx), path)

	case KindFlags:
		active, err := a.AsFlags(v, t, path)
		if err != nil {
			return err
		}
		return lowerFlags(active, t, buf, off, path)

	default:
		return errors.Unsupported(errors.PhaseLower, t.kind.String())
	}
}

func lowerUnsigned(buf []byte, off uint32, u uint64, t *Type, path []string) error {
	var limit uint64
	switch t.kind {
	case KindU8:
		limit = math.MaxUint8
	case KindU16:
		limit = math.MaxUint16
	case KindU32:
		limit = math.MaxUint32
	default:
		return putU64(buf, off, u, path)
	}
	if u > limit {
		return errors.Overflow(errors.PhaseLower, path, "value %d does not fit %s", u, t.kind)
	}
	switch t.kind {
	case KindU8:
		return putU8(buf, off, uint8(u), path)
	case KindU16:
		return putU16(buf, off, uint16(u), path)
	default:
		return putU32(buf, off, uint32(u), path)
	}
}

func lowerSigned(buf []byte, off uint32, s int64, t *Type, path []string) error {
	var lo, hi int64
	switch t.kind {
	case KindS8:
		lo, hi = math.MinInt8, math.MaxInt8
	case KindS16:
		lo, hi = math.MinInt16, math.MaxInt16
	case KindS32:
		lo, hi = math.MinInt32, math.MaxInt32
	default:
		return putU64(buf, off, uint64(s), path)
	}
	if s < lo || s > hi {
		return errors.Overflow(errors.PhaseLower, path, "value %d does not fit %s", s, t.kind)
	}
	switch t.kind {
	case KindS8:
		return putU8(buf, off, uint8(s), path)
	case KindS16:
		return putU16(buf, off, uint16(s), path)
	default:
		return putU32(buf, off, uint32(s), path)
	}
}

func lowerString(s string, buf []byte, off uint32, mem witcodec.Memory, path []string) error {
	if len(s) > abi.MaxStringSize {
		return errors.Overflow(errors.PhaseLower, path, "string of %d bytes exceeds limit %d", len(s), abi.MaxStringSize)
	}
	if !utf8.ValidString(s) {
		return errors.InvalidUTF8(errors.PhaseLower, path, []byte(s))
	}
	if len(s) == 0 {
		if err := putU32(buf, off, 0, path); err != nil {
			return err
		}
		return putU32(buf, off+4, 0, path)
	}
	if mem == nil {
		return errors.LinearMemoryRequired(errors.PhaseLower, "string")
	}
	ptr, err := mem.Alloc(uint32(len(s)), 1)
	if err != nil {
		return errors.Wrap(errors.PhaseLower, errors.KindOverflow, err, "string allocation failed")
	}
	if err := mem.Write(ptr, []byte(s)); err != nil {
		return err
	}
	if err := putU32(buf, off, ptr, path); err != nil {
		return err
	}
	return putU32(buf, off+4, uint32(len(s)), path)
}

// lowerElems writes elements contiguously into mem and returns the base
// pointer. Each element is lowered into a scratch buffer first so nested
// allocations never interleave with the element region.
func lowerElems(elems []any, elem *Type, a Adapter, mem witcodec.Memory, path []string) (uint32, error) {
	if mem == nil {
		return 0, errors.LinearMemoryRequired(errors.PhaseLower, "list")
	}
	count := uint32(len(elems))
	if count > abi.MaxListLength {
		return 0, errors.Overflow(errors.PhaseLower, path, "list of %d elements exceeds limit %d", count, abi.MaxListLength)
	}
	total, ok := abi.SafeMulU32(count, elem.size)
	if !ok || total > abi.MaxAlloc {
		return 0, errors.Overflow(errors.PhaseLower, path, "list of %d elements of %d bytes overflows", count, elem.size)
	}
	base, err := mem.Alloc(total, elem.align)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseLower, errors.KindOverflow, err, "list allocation failed")
	}
	scratch := make([]byte, elem.size)
	for i, e := range elems {
		clear(scratch)
		if err := lowerInto(e, elem, a, scratch, 0, mem, append(path, "["+strconv.Itoa(i)+"]")); err != nil {
			return 0, err
		}
		if err := mem.Write(base+uint32(i)*elem.size, scratch); err != nil {
			return 0, err
		}
	}
	return base, nil
}

func lowerFlags(active []string, t *Type, buf []byte, off uint32, path []string) error {
	if t.size == 0 {
		return nil
	}
	// Unknown names are ignored; only declared flags contribute bits.
	words := make([]uint32, (len(t.flagNames)+31)/32)
	for _, name := range active {
		for i, declared := range t.flagNames {
			if name == declared {
				words[i/32] |= 1 << uint(i%32)
				break
			}
		}
	}
	switch t.size {
	case 1:
		return putU8(buf, off, uint8(words[0]), path)
	case 2:
		return putU16(buf, off, uint16(words[0]), path)
	default:
		for w, word := range words {
			if err := putU32(buf, off+uint32(w)*4, word, path); err != nil {
				return err
			}
		}
		return nil
	}
}
