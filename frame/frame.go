package frame

import (
	"github.com/wippyai/wit-codec/codec"
	"github.com/wippyai/wit-codec/errors"
)

// HeaderSize is the flat size of the wrapper record
// {buffer: list<u8>, memory: option<list<u8>>}: 8 bytes of list ptr+len,
// padding to 8, then a 12-byte option slot.
const HeaderSize = 20

// wrapperType describes the frame wrapper. The codec dogfoods itself: the
// wrapper is lowered and lifted like any other record, with the flattened
// tail as its linear memory.
var wrapperType = codec.NewRecord("frame", []codec.Field{
	{Name: "buffer", Type: codec.NewList(codec.U8)},
	{Name: "memory", Type: codec.NewOption(codec.NewList(codec.U8))},
})

// Flatten serializes an Encoded pair into one contiguous byte slice: the
// 20-byte wrapper followed by the wrapper's linear memory. Pointers inside
// the wrapper are relative to the tail.
func Flatten(enc codec.Encoded) ([]byte, error) {
	buffer := enc.Buffer
	if buffer == nil {
		buffer = []byte{}
	}
	var memory any
	if enc.Memory != nil {
		memory = enc.Memory
	}
	val := map[string]any{
		"buffer": buffer,
		"memory": memory,
	}

	mem := codec.NewLinearMemory()
	header, err := codec.LowerWith(val, wrapperType, codec.Dyn{}, mem)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, HeaderSize+int(mem.Size()))
	out = append(out, header...)
	return append(out, mem.Bytes()...), nil
}

// Unflatten parses a flattened slice back into an Encoded pair. The input
// must be at least HeaderSize bytes; the wrapper's pointers are validated
// against the tail.
func Unflatten(data []byte) (codec.Encoded, error) {
	if len(data) < HeaderSize {
		return codec.Encoded{}, errors.BufferTooSmall(errors.PhaseLift, nil, HeaderSize, uint32(len(data)))
	}
	mem := codec.LinearMemoryOf(data[HeaderSize:])
	v, _, err := codec.LiftWith(data[:HeaderSize], wrapperType, codec.Dyn{}, mem)
	if err != nil {
		return codec.Encoded{}, err
	}
	m := v.(map[string]any)
	enc := codec.Encoded{Buffer: m["buffer"].([]byte)}
	if mb, ok := m["memory"].([]byte); ok {
		enc.Memory = mb
	}
	return enc, nil
}
