package codec

import (
	witcodec "github.com/wippyai/wit-codec"
	"github.com/wippyai/wit-codec/codec/internal/abi"
	"github.com/wippyai/wit-codec/errors"
)

// LinearMemory is a growable in-process byte arena with bump allocation.
// It backs the indirect parts of lowered values (string bytes, list
// elements) when no guest instance is involved. The zero offset is a valid
// allocation target; empty strings and lists encode ptr=0 and never touch
// the arena.
//
// A LinearMemory is not safe for concurrent use.
type LinearMemory struct {
	data []byte
}

// NewLinearMemory returns an empty arena.
func NewLinearMemory() *LinearMemory {
	return &LinearMemory{}
}

// LinearMemoryOf wraps data without copying. The arena takes ownership;
// the caller must not alias the slice afterwards. A nil slice is a valid
// empty arena.
func LinearMemoryOf(data []byte) *LinearMemory {
	return &LinearMemory{data: data}
}

// LinearMemoryCopy copies data into a fresh arena.
func LinearMemoryCopy(data []byte) *LinearMemory {
	return &LinearMemory{data: append([]byte(nil), data...)}
}

var _ witcodec.Memory = (*LinearMemory)(nil)

// Alloc reserves size bytes at the given alignment and returns the offset.
// The arena pads to the alignment and grows as needed; allocation only
// fails when size exceeds the single-allocation limit.
func (m *LinearMemory) Alloc(size, align uint32) (uint32, error) {
	if size > abi.MaxAlloc {
		return 0, errors.Overflow(errors.PhaseLower, nil, "allocation of %d bytes exceeds limit %d", size, abi.MaxAlloc)
	}
	ptr := abi.AlignTo(uint32(len(m.data)), align)
	end := uint64(ptr) + uint64(size)
	m.grow(end)
	return ptr, nil
}

// Write copies data at offset, growing and zero-filling the arena if the
// range extends past the current end. Writes into an arena never fail.
func (m *LinearMemory) Write(offset uint32, data []byte) error {
	end := uint64(offset) + uint64(len(data))
	m.grow(end)
	copy(m.data[offset:end], data)
	return nil
}

// Read returns a view of length bytes at offset. The range must lie
// entirely inside the arena; the returned slice aliases the arena and must
// not be modified.
func (m *LinearMemory) Read(offset uint32, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(m.data)) {
		return nil, errors.InvalidMemoryPointer(errors.PhaseLift, nil, offset, length, uint32(len(m.data)))
	}
	return m.data[offset:end], nil
}

// Size returns the current arena length in bytes.
func (m *LinearMemory) Size() uint32 {
	return uint32(len(m.data))
}

// Bytes returns the arena contents without copying. Nil when nothing was
// allocated.
func (m *LinearMemory) Bytes() []byte {
	return m.data
}

func (m *LinearMemory) grow(end uint64) {
	if end <= uint64(len(m.data)) {
		return
	}
	if end <= uint64(cap(m.data)) {
		old := len(m.data)
		m.data = m.data[:end]
		clear(m.data[old:]) // cap may hold stale bytes from an owned slice
		return
	}
	grown := make([]byte, end, max(end*2, 64))
	copy(grown, m.data)
	m.data = grown
}
