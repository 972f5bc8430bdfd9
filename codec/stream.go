package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unsafe"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/alloc"
	"github.com/hupe1980/collgo/array"
	"github.com/hupe1980/collgo/container"
	"github.com/hupe1980/collgo/internal/conv"
	"github.com/hupe1980/collgo/internal/hash"
	"github.com/hupe1980/collgo/span"
)

const (
	// Version is the stream format version written by Encode.
	Version = 1

	headerSize = 32

	// MaxPayload bounds the payload size Decode accepts.
	MaxPayload = 1 << 30
)

var magic = [4]byte{'C', 'L', 'G', 'O'}

// Header describes an encoded stream.
type Header struct {
	Version  uint8
	Codec    ID
	ElemSize uint32
	Count    uint64
	Length   uint64
	CRC      uint32
}

func (h Header) marshal() []byte {
	b := make([]byte, headerSize)
	copy(b, magic[:])
	b[4] = h.Version
	b[5] = byte(h.Codec)
	binary.LittleEndian.PutUint32(b[8:], h.ElemSize)
	binary.LittleEndian.PutUint64(b[12:], h.Count)
	binary.LittleEndian.PutUint64(b[20:], h.Length)
	binary.LittleEndian.PutUint32(b[28:], h.CRC)
	return b
}

func unmarshalHeader(b []byte) (Header, error) {
	if [4]byte(b[:4]) != magic {
		return Header{}, fmt.Errorf("codec: bad magic %q: %w", b[:4], collgo.ErrCorrupt)
	}
	h := Header{
		Version:  b[4],
		Codec:    ID(b[5]),
		ElemSize: binary.LittleEndian.Uint32(b[8:]),
		Count:    binary.LittleEndian.Uint64(b[12:]),
		Length:   binary.LittleEndian.Uint64(b[20:]),
		CRC:      binary.LittleEndian.Uint32(b[28:]),
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("codec: unsupported version %d: %w", h.Version, collgo.ErrCorrupt)
	}
	return h, nil
}

// ReadHeader reads and validates a stream header.
func ReadHeader(r io.Reader) (Header, error) {
	b := make([]byte, headerSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return Header{}, err
	}
	return unmarshalHeader(b)
}

func checkPlain[T any]() error {
	if alloc.LayoutOf[T]().Pointers {
		var zero T
		return fmt.Errorf("codec: element type %T holds pointers: %w", zero, collgo.ErrInvalidArgument)
	}
	return nil
}

func rawBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(s[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*size)
}

// Encode writes the elements of s to w, compressed with c. T must not hold
// pointers. When c does not shrink the payload it is stored uncompressed.
func Encode[T any](w io.Writer, s span.Span[T], c Compressor) (int64, error) {
	if err := checkPlain[T](); err != nil {
		return 0, err
	}
	if c == nil {
		c = None
	}

	raw := rawBytes(s.Values())
	payload, err := c.Compress(nil, raw)
	if err != nil {
		return 0, fmt.Errorf("codec: %s compress: %w", c.Name(), err)
	}
	id := c.ID()
	if payload == nil || len(payload) >= len(raw) {
		payload, id = raw, IDNone
	}

	var zero T
	elemSize, err := conv.IntToUint32(int(unsafe.Sizeof(zero)))
	if err != nil {
		return 0, fmt.Errorf("codec: element size: %w", err)
	}
	h := Header{
		Version:  Version,
		Codec:    id,
		ElemSize: elemSize,
		Count:    uint64(s.Len()),
		Length:   uint64(len(payload)),
		CRC:      hash.CRC32C(raw),
	}
	n, err := w.Write(h.marshal())
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(payload)
	return int64(n + m), err
}

// Decode reads a stream written by Encode for the same element type.
func Decode[T any](r io.Reader) ([]T, error) {
	if err := checkPlain[T](); err != nil {
		return nil, err
	}
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	var zero T
	if uintptr(h.ElemSize) != unsafe.Sizeof(zero) {
		return nil, fmt.Errorf("codec: element size %d, want %d: %w", h.ElemSize, unsafe.Sizeof(zero), collgo.ErrCorrupt)
	}
	c, err := ByID(h.Codec)
	if err != nil {
		return nil, fmt.Errorf("codec: id %d: %w", h.Codec, err)
	}
	count, err := conv.Uint64ToInt(h.Count)
	if err != nil {
		return nil, errors.Join(collgo.ErrCorrupt, err)
	}
	size, ok := conv.MulInt(count, max(int(h.ElemSize), 1))
	if !ok || size > MaxPayload || h.Length > MaxPayload {
		return nil, fmt.Errorf("codec: payload of %d elements too large: %w", count, collgo.ErrCorrupt)
	}

	payload := make([]byte, h.Length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	out := make([]T, count)
	dst := rawBytes(out)
	if len(dst) > 0 {
		dec, err := c.Decompress(dst[:0], payload, len(dst))
		if err != nil {
			return nil, err
		}
		if len(dec) != len(dst) {
			return nil, fmt.Errorf("codec: decoded %d bytes, want %d: %w", len(dec), len(dst), collgo.ErrCorrupt)
		}
		if &dec[0] != &dst[0] {
			copy(dst, dec)
		}
	}
	if got := hash.CRC32C(dst); got != h.CRC {
		return nil, fmt.Errorf("codec: checksum %08x, want %08x: %w", got, h.CRC, collgo.ErrCorrupt)
	}
	return out, nil
}

// EncodeArray writes the live elements of a.
func EncodeArray[T any](w io.Writer, a *array.Array[T], c Compressor) (int64, error) {
	return Encode(w, a.AsSpan(), c)
}

// DecodeArray reads a stream into a new array configured by opts.
func DecodeArray[T any](r io.Reader, opts ...container.Option) (*array.Array[T], error) {
	values, err := Decode[T](r)
	if err != nil {
		return nil, err
	}
	a := array.New[T](opts...)
	if err := a.TryReserve(len(values)); err != nil {
		return nil, err
	}
	a.AddElements(values)
	return a, nil
}
