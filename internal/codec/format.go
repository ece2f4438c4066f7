package codec

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/almanac/pkg/types"
)

// Decoder builds a view of type T from a buffer in the given format. The
// view may keep references into buf; callers pass buffers they own.
type Decoder[T any] func(format types.BufferFormat, buf []byte) (T, error)

// Structured returns a decoder for JSON and CBOR buffers. Structured
// decoding copies, so the resulting view does not borrow from buf.
func Structured[T any]() Decoder[T] {
	return func(format types.BufferFormat, buf []byte) (T, error) {
		var v T
		if err := Unmarshal(format, buf, &v); err != nil {
			return v, err
		}
		return v, nil
	}
}

// Blob returns a decoder that only accepts BufferFormatBlob and hands the
// bytes to build unchanged.
func Blob[T any](build func([]byte) (T, error)) Decoder[T] {
	return func(format types.BufferFormat, buf []byte) (T, error) {
		if format != types.BufferFormatBlob {
			var zero T
			return zero, types.ErrUnavailableBufferFormat.WithContext(
				fmt.Sprintf("%s data cannot be read as blob", format))
		}
		return build(buf)
	}
}

// Marshal encodes v in a structured format. BufferFormatBlob is not
// structured and returns ErrUnavailableBufferFormat.
func Marshal(format types.BufferFormat, v any) ([]byte, error) {
	switch format {
	case types.BufferFormatJSON:
		return json.Marshal(v)
	case types.BufferFormatCBOR:
		return marshalCBOR(v)
	default:
		return nil, types.ErrUnavailableBufferFormat.WithContext(
			fmt.Sprintf("cannot encode structured data as %s", format))
	}
}

// Unmarshal decodes a structured buffer into v. Decoding failures are
// reported as ErrInvalidState: the bytes do not hold what the key says.
func Unmarshal(format types.BufferFormat, buf []byte, v any) error {
	var err error
	switch format {
	case types.BufferFormatJSON:
		err = json.Unmarshal(buf, v)
	case types.BufferFormatCBOR:
		err = unmarshalCBOR(buf, v)
	default:
		return types.ErrUnavailableBufferFormat.WithContext(
			fmt.Sprintf("cannot decode %s as structured data", format))
	}
	if err != nil {
		return types.ErrInvalidState.Wrap(fmt.Errorf("decoding %s: %w", format, err))
	}
	return nil
}
