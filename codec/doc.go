// Package codec implements the flat Canonical ABI encoding: compiled type
// descriptors, lowering Go values into little-endian byte buffers plus
// linear memory, and lifting them back with full validation.
//
// The package has a single traversal for both directions, parametrized by
// an Adapter that binds a value representation. Two adapters ship with it:
// Dyn for JSON-shaped dynamic values and Tree for explicit value.Value
// trees. Because the traversal owns all layout and byte work, both
// adapters produce byte-identical encodings.
//
// Compile turns a wit type graph into a *Type with sizes, alignments,
// field offsets and discriminant layout precomputed; descriptors for the
// same structure can also be built directly with NewRecord, NewList and
// friends. Descriptors are immutable and safe to share.
package codec
