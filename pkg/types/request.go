package types

import "fmt"

// BufferFormat identifies how a raw buffer is encoded.
type BufferFormat uint8

const (
	BufferFormatJSON BufferFormat = iota + 1
	BufferFormatCBOR
	// BufferFormatBlob is a fixed-width binary layout read in place by the
	// shape that owns the key.
	BufferFormatBlob
)

// String returns the lowercase name of the format.
func (f BufferFormat) String() string {
	switch f {
	case BufferFormatJSON:
		return "json"
	case BufferFormatCBOR:
		return "cbor"
	case BufferFormatBlob:
		return "blob"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(f))
	}
}

// ParseBufferFormat parses the name written by String.
// Returns ErrUnavailableBufferFormat for unknown names.
func ParseBufferFormat(name string) (BufferFormat, error) {
	switch name {
	case "json":
		return BufferFormatJSON, nil
	case "cbor":
		return BufferFormatCBOR, nil
	case "blob":
		return BufferFormatBlob, nil
	default:
		return 0, ErrUnavailableBufferFormat.WithContext(fmt.Sprintf("%q", name))
	}
}

// DataRequestMetadata tunes how a request is served.
type DataRequestMetadata struct {
	// SilentFail turns ErrMissingLocale into an empty response.
	SilentFail bool
	// AllowRoot permits an empty locale for locale-dependent keys. Fallback
	// sets it on its final step.
	AllowRoot bool
}

// DataRequest is the locale half of a load; the key is passed alongside.
type DataRequest struct {
	Locale   Locale
	Metadata DataRequestMetadata
}

// NewRequest builds a request for locale with default metadata.
func NewRequest(locale Locale) DataRequest {
	return DataRequest{Locale: locale}
}

// ValidateRequest checks that the request's locale-dependence matches the
// key's. Singleton keys reject any locale with ErrExtraneousLocale;
// locale-dependent keys reject an empty locale with ErrNeedsLocale unless
// AllowRoot is set.
func ValidateRequest(key DataKey, req DataRequest) error {
	md := key.Metadata()
	if md.Singleton {
		if !req.Locale.IsEmpty() {
			return ErrExtraneousLocale.WithRequest(key, req)
		}
		return nil
	}
	if req.Locale.IsEmpty() && !req.Metadata.AllowRoot {
		return ErrNeedsLocale.WithRequest(key, req)
	}
	return nil
}

// DataResponseMetadata describes how a response was produced.
type DataResponseMetadata struct {
	// Locale is the locale the data was found under, when it differs from
	// or refines the requested one.
	Locale       *Locale
	BufferFormat *BufferFormat
}

// DataResponse is a typed response. A nil Payload is a valid outcome that
// is distinct from an error.
type DataResponse[T any] struct {
	Metadata DataResponseMetadata
	Payload  *Payload[T]
}

// TakePayload returns the payload or ErrMissingPayload when there is none.
func (r DataResponse[T]) TakePayload() (Payload[T], error) {
	if r.Payload == nil {
		return Payload[T]{}, ErrMissingPayload.WithContext(typeName[T]())
	}
	return *r.Payload, nil
}

// AnyResponse is a response whose payload type has been erased.
type AnyResponse struct {
	Metadata DataResponseMetadata
	Payload  *ErasedPayload
}

// UpcastResponse erases the payload type of r.
func UpcastResponse[T any](r DataResponse[T]) AnyResponse {
	out := AnyResponse{Metadata: r.Metadata}
	if r.Payload != nil {
		erased := Upcast(*r.Payload)
		out.Payload = &erased
	}
	return out
}

// DowncastResponse recovers a typed response. An empty payload stays empty.
func DowncastResponse[T any](r AnyResponse) (DataResponse[T], error) {
	out := DataResponse[T]{Metadata: r.Metadata}
	if r.Payload == nil {
		return out, nil
	}
	p, err := Downcast[T](*r.Payload)
	if err != nil {
		return DataResponse[T]{}, err
	}
	out.Payload = &p
	return out, nil
}

// BufferResponse carries raw bytes from a byte source. Bytes is nil when
// the source reports the data as validly absent.
type BufferResponse struct {
	Metadata DataResponseMetadata
	Bytes    []byte
}
