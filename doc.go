// Package witcodec provides Canonical ABI encoding and decoding for WIT types.
//
// This library converts between structured values described by the WIT type
// system and their flat Canonical ABI byte representation: a fixed-size buffer
// plus a linear memory region holding variable-length payloads. The produced
// bytes are byte-for-byte compatible with the Component Model's canonical
// lowering.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	witcodec/            Root package with the shared Memory interface
//	├── codec/           The codec engine: type descriptors, lowering, lifting
//	├── value/           Generic tagged value tree for text-facing consumers
//	├── frame/           Persisted container format for encoded values
//	├── wasmmem/         wazero guest-memory bridge for host calls
//	├── errors/          Structured error types for debugging
//	└── cmd/witcodec/    Command-line encode/decode/inspect tool
//
// # Quick Start
//
// Compile a WIT type and lower a value:
//
//	t, err := codec.Compile(witType)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mem := codec.NewLinearMemory()
//	buf, err := codec.LowerWith(map[string]any{"name": "wasm"}, t, codec.Dyn{}, mem)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// buf holds the fixed-size part, mem the string payload
//
// # Type System Support
//
// The codec supports:
//
//   - Primitives: bool, u8-u64, s8-s64, f32, f64, char, string
//   - Compound: list<T>, fixed-size lists, option<T>, result<T, E>, tuple<...>
//   - Named: record, variant, enum, flags
//
// Resource handles, futures and streams require live runtime identity and are
// rejected with a typed unsupported error.
//
// # Value Representations
//
// The same traversal serves two value representations through the
// codec.Adapter interface: codec.Dyn works on plain Go values (the shape host
// calls produce), codec.Tree works on the tagged value.Value tree used by
// text-facing consumers. Both produce identical bytes for the same logical
// value.
//
// # Thread Safety
//
// Compiled type descriptors are immutable and safe for concurrent use. Each
// Lower/Lift call owns its buffers exclusively; concurrent calls must not
// share a LinearMemory.
package witcodec
