// Package codec writes and reads the contents of containers of pointer-free
// elements as self-describing, checksummed byte streams.
//
// A stream is a fixed header followed by the payload:
//
//	magic    [4]byte "CLGO"
//	version  uint8
//	codec    uint8   compressor ID of the payload
//	reserved uint16
//	elemSize uint32
//	count    uint64
//	length   uint64  payload bytes
//	crc      uint32  CRC32C of the uncompressed element bytes
//
// All integers are little-endian. Changing the layout requires a new version.
package codec

import "github.com/hupe1980/collgo"

// ID identifies a compressor in a stream header.
type ID uint8

const (
	IDNone ID = 0
	IDLZ4  ID = 1
	IDZstd ID = 2
)

// Compressor compresses element payloads.
// Implementations must be safe for concurrent use.
type Compressor interface {
	// Name returns the stable name of the compressor.
	Name() string
	// ID returns the identifier recorded in stream headers.
	ID() ID
	// Compress appends the compressed form of src to dst. It returns nil when
	// src does not compress.
	Compress(dst, src []byte) ([]byte, error)
	// Decompress appends the size decompressed bytes of src to dst.
	Decompress(dst, src []byte, size int) ([]byte, error)
}

// ByName returns a built-in compressor by its stable name.
func ByName(name string) (Compressor, bool) {
	switch name {
	case "none", "":
		return None, true
	case "lz4":
		return LZ4, true
	case "zstd":
		return Zstd, true
	default:
		return nil, false
	}
}

// ByID returns the built-in compressor recorded under id.
func ByID(id ID) (Compressor, error) {
	switch id {
	case IDNone:
		return None, nil
	case IDLZ4:
		return LZ4, nil
	case IDZstd:
		return Zstd, nil
	default:
		return nil, collgo.ErrCodecUnknown
	}
}
