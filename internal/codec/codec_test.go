package codec

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/almanac/pkg/types"
)

type sampleLengths struct {
	Full  string `json:"full"`
	Short string `json:"short"`
}

func TestStructuredRoundTrip(t *testing.T) {
	original := sampleLengths{Full: "EEEE, MMMM d, y", Short: "M/d/yy"}

	for _, format := range []types.BufferFormat{types.BufferFormatJSON, types.BufferFormatCBOR} {
		t.Run(format.String(), func(t *testing.T) {
			data, err := Marshal(format, original)
			require.NoError(t, err)

			decoded, err := Structured[sampleLengths]()(format, data)
			require.NoError(t, err)
			assert.Equal(t, original, decoded)
		})
	}
}

func TestCBORIsDeterministic(t *testing.T) {
	value := map[string]string{"b": "2", "a": "1", "c": "3"}
	first, err := Marshal(types.BufferFormatCBOR, value)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Marshal(types.BufferFormatCBOR, value)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestStructuredRejectsCorruptData(t *testing.T) {
	_, err := Structured[sampleLengths]()(types.BufferFormatJSON, []byte("{not json"))
	assert.ErrorIs(t, err, types.ErrInvalidState)

	_, err = Structured[sampleLengths]()(types.BufferFormatBlob, []byte("raw"))
	assert.ErrorIs(t, err, types.ErrUnavailableBufferFormat)

	_, err = Marshal(types.BufferFormatBlob, sampleLengths{})
	assert.ErrorIs(t, err, types.ErrUnavailableBufferFormat)
}

func TestBlobDecoder(t *testing.T) {
	build := func(b []byte) (int, error) {
		if len(b) == 0 {
			return 0, errors.New("empty")
		}
		return len(b), nil
	}
	dec := Blob(build)

	n, err := dec(types.BufferFormatBlob, []byte("abcd"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = dec(types.BufferFormatJSON, []byte("abcd"))
	assert.ErrorIs(t, err, types.ErrUnavailableBufferFormat)

	_, err = dec(types.BufferFormatBlob, nil)
	assert.EqualError(t, err, "empty")
}

func TestCompressRoundTrip(t *testing.T) {
	compressible := bytes.Repeat([]byte("meiji taisho showa heisei reiwa "), 64)

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(string(c), func(t *testing.T) {
			out, used, err := Compress(compressible, c)
			require.NoError(t, err)
			assert.Equal(t, c, used)
			if c != CompressionNone {
				assert.Less(t, len(out), len(compressible))
			}

			back, err := Decompress(out, used, len(compressible))
			require.NoError(t, err)
			assert.Equal(t, compressible, back)
		})
	}
}

func TestCompressFallsBackForIncompressibleData(t *testing.T) {
	random := make([]byte, 256)
	_, err := rand.Read(random)
	require.NoError(t, err)

	for _, c := range []Compression{CompressionLZ4, CompressionZstd} {
		out, used, err := Compress(random, c)
		require.NoError(t, err)
		assert.Equal(t, CompressionNone, used)
		assert.Equal(t, random, out)
	}
}

func TestDecompressSizeMismatch(t *testing.T) {
	_, err := Decompress([]byte("abc"), CompressionNone, 4)
	assert.Error(t, err)

	_, err = Decompress([]byte("abc"), Compression("brotli"), 3)
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	for name, want := range map[string]Compression{"": CompressionNone, "none": CompressionNone, "lz4": CompressionLZ4, "zstd": CompressionZstd} {
		got, err := ParseCompression(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCompression("gzip")
	assert.Error(t, err)
}
