package frame

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the payload codec of a frame file.
type Compression uint8

const (
	None Compression = iota
	S2
	Zstd
	LZ4
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case S2:
		return "s2"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	}
	return "unknown"
}

// ParseCompression maps a codec name to its Compression value.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "none", "":
		return None, nil
	case "s2":
		return S2, nil
	case "zstd":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownCompression, s)
}

// Pooled zstd coders: the library is designed for reuse and operates
// without allocations after warmup.
var zstdEncoderPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("frame: zstd encoder init: %v", err))
		}
		return enc
	},
}

var zstdDecoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
		)
		if err != nil {
			panic(fmt.Sprintf("frame: zstd decoder init: %v", err))
		}
		return dec
	},
}

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// compress returns nil when the codec cannot shrink the input; the caller
// then stores the payload uncompressed.
func (c Compression) compress(data []byte) ([]byte, error) {
	switch c {
	case None:
		return data, nil
	case S2:
		return s2.Encode(nil, data), nil
	case Zstd:
		enc := zstdEncoderPool.Get().(*zstd.Encoder)
		defer zstdEncoderPool.Put(enc)
		return enc.EncodeAll(data, nil), nil
	case LZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		lc := lz4CompressorPool.Get().(*lz4.Compressor)
		defer lz4CompressorPool.Put(lc)
		n, err := lc.CompressBlock(data, dst)
		if err != nil {
			return nil, err
		}
		if n == 0 { // incompressible
			return nil, nil
		}
		return dst[:n], nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
}

// decompress inflates data; rawLen is the exact uncompressed size from the
// file header, which lets lz4 decode into a single right-sized buffer.
func (c Compression) decompress(data []byte, rawLen int) ([]byte, error) {
	switch c {
	case None:
		return data, nil
	case S2:
		return s2.Decode(nil, data)
	case Zstd:
		dec := zstdDecoderPool.Get().(*zstd.Decoder)
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("frame: zstd decompression failed: %w", err)
		}
		return out, nil
	case LZ4:
		buf := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			return nil, fmt.Errorf("frame: lz4 decompression failed: %w", err)
		}
		return buf[:n], nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, c)
}
