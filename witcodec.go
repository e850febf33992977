package witcodec

// Memory is the backing store for variable-length Canonical ABI payloads.
// Codec traversals allocate string and list storage through it and address
// the result by 32-bit offset.
//
// codec.LinearMemory implements it as an owned, growable arena whose Alloc
// never fails; wasmmem.Guest implements it over a live WASM instance's
// linear memory and cabi_realloc export.
type Memory interface {
	// Alloc reserves size bytes at the given alignment and returns the
	// start offset.
	Alloc(size, align uint32) (uint32, error)
	// Read returns length bytes starting at offset. It is the only read
	// path and must be bounds-checked by implementations.
	Read(offset uint32, length uint32) ([]byte, error)
	// Write copies data to offset.
	Write(offset uint32, data []byte) error
}
