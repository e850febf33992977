package codec

import (
	"encoding/binary"

	"github.com/wippyai/wit-codec/errors"
)

// Bounds-checked little-endian buffer primitives. Every multi-byte access
// goes through these; nothing in the traversal slices a buffer without a
// check. Stores are lowering errors, loads are lifting errors.

func checkBounds(phase errors.Phase, path []string, buf []byte, off, width uint32) error {
	if uint64(off)+uint64(width) > uint64(len(buf)) {
		return errors.BufferTooSmall(phase, path, off+width, uint32(len(buf)))
	}
	return nil
}

func putU8(buf []byte, off uint32, v uint8, path []string) error {
	if err := checkBounds(errors.PhaseLower, path, buf, off, 1); err != nil {
		return err
	}
	buf[off] = v
	return nil
}

func putU16(buf []byte, off uint32, v uint16, path []string) error {
	if err := checkBounds(errors.PhaseLower, path, buf, off, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(buf[off:], v)
	return nil
}

func putU32(buf []byte, off uint32, v uint32, path []string) error {
	if err := checkBounds(errors.PhaseLower, path, buf, off, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(buf[off:], v)
	return nil
}

func putU64(buf []byte, off uint32, v uint64, path []string) error {
	if err := checkBounds(errors.PhaseLower, path, buf, off, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(buf[off:], v)
	return nil
}

func loadU8(buf []byte, off uint32, path []string) (uint8, error) {
	if err := checkBounds(errors.PhaseLift, path, buf, off, 1); err != nil {
		return 0, err
	}
	return buf[off], nil
}

func loadU16(buf []byte, off uint32, path []string) (uint16, error) {
	if err := checkBounds(errors.PhaseLift, path, buf, off, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[off:]), nil
}

func loadU32(buf []byte, off uint32, path []string) (uint32, error) {
	if err := checkBounds(errors.PhaseLift, path, buf, off, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[off:]), nil
}

func loadU64(buf []byte, off uint32, path []string) (uint64, error) {
	if err := checkBounds(errors.PhaseLift, path, buf, off, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[off:]), nil
}

// putDisc writes a discriminant of the given width.
func putDisc(buf []byte, off, width, disc uint32, path []string) error {
	switch width {
	case 1:
		return putU8(buf, off, uint8(disc), path)
	case 2:
		return putU16(buf, off, uint16(disc), path)
	default:
		return putU32(buf, off, disc, path)
	}
}

// loadDisc reads a discriminant of the given width.
func loadDisc(buf []byte, off, width uint32, path []string) (uint32, error) {
	switch width {
	case 1:
		v, err := loadU8(buf, off, path)
		return uint32(v), err
	case 2:
		v, err := loadU16(buf, off, path)
		return uint32(v), err
	default:
		return loadU32(buf, off, path)
	}
}
