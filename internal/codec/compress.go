package codec

import (
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the algorithm applied to a stored buffer. The
// names are persisted in the buffer store.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionLZ4  Compression = "lz4"
	CompressionZstd Compression = "zstd"
)

// ParseCompression accepts the persisted names; the empty string means none.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", string(CompressionNone):
		return CompressionNone, nil
	case string(CompressionLZ4):
		return CompressionLZ4, nil
	case string(CompressionZstd):
		return CompressionZstd, nil
	default:
		return "", fmt.Errorf("unknown compression: %q", name)
	}
}

// errIncompressible is returned internally when compressing does not make
// the data smaller.
var errIncompressible = errors.New("data is incompressible")

// Compress compresses data with the requested algorithm and returns the
// algorithm actually used. Incompressible data is returned unchanged with
// CompressionNone.
func Compress(data []byte, c Compression) ([]byte, Compression, error) {
	var (
		out []byte
		err error
	)
	switch c {
	case CompressionNone, "":
		return data, CompressionNone, nil
	case CompressionLZ4:
		out, err = compressLZ4(data)
	case CompressionZstd:
		out, err = compressZstd(data)
	default:
		return nil, "", fmt.Errorf("unsupported compression: %q", c)
	}
	if errors.Is(err, errIncompressible) {
		return data, CompressionNone, nil
	}
	if err != nil {
		return nil, "", err
	}
	return out, c, nil
}

// Decompress reverses Compress. rawSize must match the original length.
func Decompress(data []byte, c Compression, rawSize int) ([]byte, error) {
	switch c {
	case CompressionNone, "":
		if len(data) != rawSize {
			return nil, fmt.Errorf("uncompressed buffer: size %d does not match expected %d", len(data), rawSize)
		}
		return data, nil
	case CompressionLZ4:
		return decompressLZ4(data, rawSize)
	case CompressionZstd:
		return decompressZstd(data, rawSize)
	default:
		return nil, fmt.Errorf("unsupported compression: %q", c)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	destination := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// CompressBlock returns 0 for incompressible input.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}
	return destination[:written], nil
}

func decompressLZ4(compressed []byte, rawSize int) ([]byte, error) {
	destination := make([]byte, rawSize)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if read != rawSize {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, rawSize)
	}
	return destination, nil
}

// zstd.Encoder and zstd.Decoder are safe for concurrent use and reused.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("codec: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("codec: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(compressed []byte, rawSize int) ([]byte, error) {
	result, err := zstdDecoder.DecodeAll(compressed, make([]byte, 0, rawSize))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(result) != rawSize {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), rawSize)
	}
	return result, nil
}
