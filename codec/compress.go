package codec

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/collgo"
)

var (
	// None stores payloads uncompressed.
	None Compressor = noneCompressor{}
	// LZ4 compresses payloads with LZ4 blocks. It is fast and suits hot data.
	LZ4 Compressor = lz4Compressor{}
	// Zstd compresses payloads with zstd. It trades speed for ratio.
	Zstd Compressor = zstdCompressor{}
)

type noneCompressor struct{}

func (noneCompressor) Name() string { return "none" }
func (noneCompressor) ID() ID       { return IDNone }

func (noneCompressor) Compress(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

func (noneCompressor) Decompress(dst, src []byte, size int) ([]byte, error) {
	if len(src) != size {
		return nil, fmt.Errorf("codec: stored payload of %d bytes, want %d: %w", len(src), size, collgo.ErrCorrupt)
	}
	return append(dst, src...), nil
}

type lz4Compressor struct{}

func (lz4Compressor) Name() string { return "lz4" }
func (lz4Compressor) ID() ID       { return IDLZ4 }

func (lz4Compressor) Compress(dst, src []byte) ([]byte, error) {
	start := len(dst)
	dst = grow(dst, lz4.CompressBlockBound(len(src)))
	n, err := lz4.CompressBlock(src, dst[start:], nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // Incompressible
	}
	return dst[:start+n], nil
}

func (lz4Compressor) Decompress(dst, src []byte, size int) ([]byte, error) {
	start := len(dst)
	dst = grow(dst, size)
	n, err := lz4.UncompressBlock(src, dst[start:])
	if err != nil {
		return nil, fmt.Errorf("codec: lz4: %v: %w", err, collgo.ErrCorrupt)
	}
	if n != size {
		return nil, fmt.Errorf("codec: lz4 produced %d bytes, want %d: %w", n, size, collgo.ErrCorrupt)
	}
	return dst, nil
}

// zstd encoders and decoders are expensive to create, so they are pooled.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return newZstdDecoder(MaxPayload)
}

func newZstdDecoder(maxMemory uint64) (*zstd.Decoder, error) {
	return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(maxMemory))
}

type zstdCompressor struct{}

func (zstdCompressor) Name() string { return "zstd" }
func (zstdCompressor) ID() ID       { return IDZstd }

func (zstdCompressor) Compress(dst, src []byte) ([]byte, error) {
	enc, err := getZstdEncoder()
	if err != nil {
		return nil, err
	}
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(src, dst), nil
}

func (zstdCompressor) Decompress(dst, src []byte, size int) ([]byte, error) {
	dec, err := getZstdDecoder()
	if err != nil {
		return nil, err
	}
	defer zstdDecoderPool.Put(dec)

	start := len(dst)
	out, err := dec.DecodeAll(src, dst)
	if err != nil {
		return nil, errors.Join(collgo.ErrCorrupt, err)
	}
	if len(out)-start != size {
		return nil, fmt.Errorf("codec: zstd produced %d bytes, want %d: %w", len(out)-start, size, collgo.ErrCorrupt)
	}
	return out, nil
}

// grow extends b by n bytes.
func grow(b []byte, n int) []byte {
	if cap(b)-len(b) < n {
		nb := make([]byte, len(b), len(b)+n)
		copy(nb, b)
		b = nb
	}
	return b[:len(b)+n]
}
