package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/array"
	"github.com/hupe1980/collgo/span"
	"github.com/hupe1980/collgo/testutil"
)

type point struct {
	X, Y int32
	Tag  uint16
}

func compressors() []Compressor { return []Compressor{None, LZ4, Zstd} }

func TestByName(t *testing.T) {
	for _, c := range compressors() {
		got, ok := ByName(c.Name())
		require.True(t, ok)
		assert.Equal(t, c.ID(), got.ID())

		byID, err := ByID(c.ID())
		require.NoError(t, err)
		assert.Equal(t, c.Name(), byID.Name())
	}
	_, ok := ByName("brotli")
	assert.False(t, ok)
	_, err := ByID(9)
	assert.ErrorIs(t, err, collgo.ErrCodecUnknown)
}

func TestRoundTrip(t *testing.T) {
	values := lo.Map(lo.Range(4096), func(i, _ int) point {
		return point{X: int32(i), Y: int32(i % 7), Tag: uint16(i % 3)}
	})

	for _, c := range compressors() {
		t.Run(c.Name(), func(t *testing.T) {
			var buf bytes.Buffer
			n, err := Encode(&buf, span.Of(values), c)
			require.NoError(t, err)
			assert.Equal(t, int64(buf.Len()), n)

			h, err := ReadHeader(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, c.ID(), h.Codec)
			assert.Equal(t, uint64(len(values)), h.Count)
			assert.Equal(t, uint32(12), h.ElemSize)

			got, err := Decode[point](&buf)
			require.NoError(t, err)
			if diff := cmp.Diff(values, got); diff != "" {
				t.Errorf("decoded mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIncompressibleIsStoredRaw(t *testing.T) {
	rng := testutil.NewRNG(5)
	values := make([]uint64, 512)
	for i := range values {
		values[i] = rng.Uint64()
	}

	var buf bytes.Buffer
	_, err := Encode(&buf, span.Of(values), LZ4)
	require.NoError(t, err)

	h, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, IDNone, h.Codec)
	assert.Equal(t, uint64(512*8), h.Length)

	got, err := Decode[uint64](&buf)
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestEmpty(t *testing.T) {
	var buf bytes.Buffer
	_, err := Encode(&buf, span.Of[int64](nil), Zstd)
	require.NoError(t, err)
	assert.Equal(t, headerSize, buf.Len())

	got, err := Decode[int64](&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRejectsPointers(t *testing.T) {
	var buf bytes.Buffer
	_, err := Encode(&buf, span.Of([]string{"a"}), None)
	assert.ErrorIs(t, err, collgo.ErrInvalidArgument)

	_, err = Decode[*int](&buf)
	assert.ErrorIs(t, err, collgo.ErrInvalidArgument)
}

func TestCorruption(t *testing.T) {
	var buf bytes.Buffer
	_, err := Encode(&buf, span.Of(lo.Range(100)), LZ4)
	require.NoError(t, err)
	good := buf.Bytes()

	mutate := func(f func(b []byte) []byte) []byte {
		return f(bytes.Clone(good))
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"magic", mutate(func(b []byte) []byte { b[0] = 'X'; return b }), collgo.ErrCorrupt},
		{"version", mutate(func(b []byte) []byte { b[4] = 9; return b }), collgo.ErrCorrupt},
		{"codec", mutate(func(b []byte) []byte { b[5] = 7; return b }), collgo.ErrCodecUnknown},
		{"elem size", mutate(func(b []byte) []byte { b[8] = 3; return b }), collgo.ErrCorrupt},
		{"checksum", mutate(func(b []byte) []byte { b[28] ^= 0xff; return b }), collgo.ErrCorrupt},
		{"truncated", good[:len(good)-1], io.ErrUnexpectedEOF},
		{"short header", good[:10], io.ErrUnexpectedEOF},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode[int](bytes.NewReader(tc.data))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestZstdDecoderBoundsMemory(t *testing.T) {
	raw := make([]byte, 4096)
	payload, err := Zstd.Compress(nil, raw)
	require.NoError(t, err)

	dec, err := newZstdDecoder(1024)
	require.NoError(t, err)
	defer dec.Close()
	_, err = dec.DecodeAll(payload, nil)
	assert.Error(t, err)

	dec, err = newZstdDecoder(MaxPayload)
	require.NoError(t, err)
	defer dec.Close()
	out, err := dec.DecodeAll(payload, nil)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestArrayRoundTrip(t *testing.T) {
	a := array.Of(lo.Range(1000)...)
	var buf bytes.Buffer
	_, err := EncodeArray(&buf, a, Zstd)
	require.NoError(t, err)

	b, err := DecodeArray[int](&buf)
	require.NoError(t, err)
	assert.Equal(t, a.Values(), b.Values())
}

func BenchmarkEncode(b *testing.B) {
	values := lo.Range(1 << 14)
	for _, c := range compressors() {
		b.Run(c.Name(), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(values) * 8))
			for b.Loop() {
				if _, err := Encode(io.Discard, span.Of(values), c); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
