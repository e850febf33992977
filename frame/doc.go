// Package frame persists encoded values. It has two layers:
//
// Flatten/Unflatten convert a codec.Encoded pair to and from the
// contiguous wire convention: a fixed 20-byte wrapper followed by the
// linear-memory bytes. The wrapper is the record
// {buffer: list<u8>, memory: option<list<u8>>} lowered with the codec
// itself, so the container format is an instance of the format it
// contains.
//
// Encode/Decode wrap a flattened payload in a self-describing file
// envelope: magic, version, compression codec, payload size and an
// xxhash64 checksum over the uncompressed payload. Supported codecs are
// none, s2, zstd and lz4.
package frame
