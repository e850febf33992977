// Package layout computes Canonical ABI memory layouts: record field
// offsets, variant tag and payload placement, and flags packing. It is a
// pure function of child sizes and alignments and knows nothing about
// values or type descriptors.
package layout

import "github.com/wippyai/wit-codec/codec/internal/abi"

// Elem is the size/alignment pair of one child type.
type Elem struct {
	Size  uint32
	Align uint32
}

// Fields is the computed layout of a record or tuple.
type Fields struct {
	Size    uint32
	Align   uint32
	Offsets []uint32
}

// FieldsOf lays out a sequence of fields in declaration order: each field
// starts at its own alignment, the total is padded to the max alignment.
// An empty sequence has size 0 and alignment 1.
func FieldsOf(elems []Elem) Fields {
	offsets := make([]uint32, len(elems))
	var offset uint32
	var maxAlign uint32 = 1
	for i, e := range elems {
		offset = abi.AlignTo(offset, e.Align)
		offsets[i] = offset
		offset += e.Size
		if e.Align > maxAlign {
			maxAlign = e.Align
		}
	}
	return Fields{
		Size:    abi.AlignTo(offset, maxAlign),
		Align:   maxAlign,
		Offsets: offsets,
	}
}

// Variant is the computed layout of a tagged union. Option, result and enum
// are special cases of the same shape: a discriminant followed by an
// aligned payload slot wide enough for the largest case.
type Variant struct {
	Size          uint32
	Align         uint32
	TagWidth      uint32
	PayloadOffset uint32
}

// VariantOf lays out a discriminant of DiscriminantSize(numCases) bytes
// followed by the maximal payload. Cases without payload contribute a zero
// Elem. The payload starts at the tag width rounded up to the overall
// alignment.
func VariantOf(numCases int, payloads []Elem) Variant {
	tag := abi.DiscriminantSize(numCases)
	maxAlign := tag
	var maxSize uint32
	for _, p := range payloads {
		if p.Align > maxAlign {
			maxAlign = p.Align
		}
		if p.Size > maxSize {
			maxSize = p.Size
		}
	}
	payloadOffset := abi.AlignTo(tag, maxAlign)
	return Variant{
		Size:          abi.AlignTo(payloadOffset+maxSize, maxAlign),
		Align:         maxAlign,
		TagWidth:      tag,
		PayloadOffset: payloadOffset,
	}
}

// FlagsOf returns the size and alignment of a flags value: one byte up to
// 8 flags, two bytes up to 16, then one little-endian u32 word per 32
// flags. Zero flags occupy no space.
func FlagsOf(numFlags int) (size, align uint32) {
	switch {
	case numFlags == 0:
		return 0, 1
	case numFlags <= 8:
		return 1, 1
	case numFlags <= 16:
		return 2, 2
	default:
		return uint32((numFlags + 31) / 32 * 4), 4
	}
}
