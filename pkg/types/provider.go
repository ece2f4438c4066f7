package types

// AnyProvider serves any key, returning erased payloads. The registry and
// the fallback adapter implement it; typed callers go through Load.
type AnyProvider interface {
	// LoadAny returns the data for key and req.
	// Returns ErrMissingDataKey if key is unknown and ErrMissingLocale if
	// the key has no data for the locale.
	LoadAny(key DataKey, req DataRequest) (AnyResponse, error)
}

// BufferProvider is a byte source. It knows nothing of data shapes; a
// deserializing adapter turns its buffers into payloads.
type BufferProvider interface {
	// LoadBuffer returns the raw bytes stored for key and req, with the
	// buffer format recorded in the response metadata.
	LoadBuffer(key DataKey, req DataRequest) (BufferResponse, error)
}

// DataProvider serves a single statically known shape.
type DataProvider[T any] interface {
	Load(req DataRequest) (DataResponse[T], error)
}

// DataMarker binds a key to the view type stored under it.
type DataMarker[T any] struct {
	key DataKey
}

// NewMarker declares that key holds views of type T.
func NewMarker[T any](key DataKey) DataMarker[T] {
	return DataMarker[T]{key: key}
}

// Key returns the bound key.
func (m DataMarker[T]) Key() DataKey { return m.key }

// TypeName returns the name of T for diagnostics.
func (m DataMarker[T]) TypeName() string { return typeName[T]() }

// Load issues a typed request against an erased provider and downcasts the
// result. A mismatch between the marker type and what the provider stored
// under the key yields ErrMismatchedType.
func Load[T any](p AnyProvider, m DataMarker[T], req DataRequest) (DataResponse[T], error) {
	resp, err := p.LoadAny(m.key, req)
	if err != nil {
		return DataResponse[T]{}, err
	}
	return DowncastResponse[T](resp)
}

// Request loads m for locale with default request metadata.
func Request[T any](p AnyProvider, m DataMarker[T], locale Locale) (DataResponse[T], error) {
	return Load(p, m, NewRequest(locale))
}

// Bound adapts an AnyProvider and a marker to DataProvider[T].
func Bound[T any](p AnyProvider, m DataMarker[T]) DataProvider[T] {
	return boundProvider[T]{provider: p, marker: m}
}

type boundProvider[T any] struct {
	provider AnyProvider
	marker   DataMarker[T]
}

func (b boundProvider[T]) Load(req DataRequest) (DataResponse[T], error) {
	return Load(b.provider, b.marker, req)
}
