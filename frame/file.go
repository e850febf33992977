package frame

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/wippyai/wit-codec/codec"
)

// File envelope: a fixed header followed by the (possibly compressed)
// flattened payload.
//
//	offset  size  field
//	0       4     magic "WITF"
//	4       1     format version (1)
//	5       1     compression codec
//	6       2     reserved, zero
//	8       4     uncompressed payload length, u32 LE
//	12      8     xxhash64 of the uncompressed payload, u64 LE
const fileHeaderSize = 20

var magic = [4]byte{'W', 'I', 'T', 'F'}

const formatVersion = 1

var (
	ErrBadMagic           = errors.New("frame: bad magic")
	ErrUnsupportedVersion = errors.New("frame: unsupported format version")
	ErrUnknownCompression = errors.New("frame: unknown compression codec")
	ErrChecksumMismatch   = errors.New("frame: checksum mismatch")
	ErrTruncated          = errors.New("frame: truncated file")
)

// Encode flattens enc and wraps it in the file envelope using the given
// compression. When compression does not shrink the payload the frame is
// stored uncompressed regardless of the requested codec.
func Encode(enc codec.Encoded, comp Compression) ([]byte, error) {
	payload, err := Flatten(enc)
	if err != nil {
		return nil, err
	}
	sum := xxhash.Sum64(payload)

	compressed, err := comp.compress(payload)
	if err != nil {
		return nil, err
	}
	stored := comp
	if compressed == nil || len(compressed) >= len(payload) {
		compressed, stored = payload, None
	}

	out := make([]byte, fileHeaderSize, fileHeaderSize+len(compressed))
	copy(out, magic[:])
	out[4] = formatVersion
	out[5] = byte(stored)
	binary.LittleEndian.PutUint32(out[8:], uint32(len(payload)))
	binary.LittleEndian.PutUint64(out[12:], sum)
	return append(out, compressed...), nil
}

// FileInfo is the parsed file header plus derived sizes.
type FileInfo struct {
	Version        uint8
	Compression    Compression
	RawSize        uint32
	CompressedSize int
	Checksum       uint64
}

// Info parses and validates the envelope header without decompressing the
// payload.
func Info(data []byte) (FileInfo, error) {
	if len(data) < fileHeaderSize {
		return FileInfo{}, ErrTruncated
	}
	if [4]byte(data[:4]) != magic {
		return FileInfo{}, ErrBadMagic
	}
	if data[4] != formatVersion {
		return FileInfo{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[4])
	}
	return FileInfo{
		Version:        data[4],
		Compression:    Compression(data[5]),
		RawSize:        binary.LittleEndian.Uint32(data[8:]),
		CompressedSize: len(data) - fileHeaderSize,
		Checksum:       binary.LittleEndian.Uint64(data[12:]),
	}, nil
}

// Decode parses a file envelope, decompresses and verifies the payload,
// and returns the Encoded pair.
func Decode(data []byte) (codec.Encoded, error) {
	if len(data) < fileHeaderSize {
		return codec.Encoded{}, ErrTruncated
	}
	if [4]byte(data[:4]) != magic {
		return codec.Encoded{}, ErrBadMagic
	}
	if data[4] != formatVersion {
		return codec.Encoded{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[4])
	}
	comp := Compression(data[5])
	rawLen := binary.LittleEndian.Uint32(data[8:])
	sum := binary.LittleEndian.Uint64(data[12:])

	payload, err := comp.decompress(data[fileHeaderSize:], int(rawLen))
	if err != nil {
		return codec.Encoded{}, err
	}
	if uint32(len(payload)) != rawLen {
		return codec.Encoded{}, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrTruncated, len(payload), rawLen)
	}
	if xxhash.Sum64(payload) != sum {
		return codec.Encoded{}, ErrChecksumMismatch
	}
	return Unflatten(payload)
}
