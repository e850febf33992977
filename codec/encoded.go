package codec

// Encoded bundles the two byte regions a lowered value occupies: the flat
// buffer (exactly Type.Size bytes) and the linear memory the buffer's
// pointers refer to. Memory is nil when the type has no indirect parts,
// which is equivalent to an empty arena.
type Encoded struct {
	Buffer []byte
	Memory []byte
}

// HasMemory reports whether any indirect bytes were produced.
func (e Encoded) HasMemory() bool {
	return len(e.Memory) > 0
}
