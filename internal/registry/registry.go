// Package registry maps data keys to loader functions. A Registry is built
// at initialization, one Register call per key, and then serves loads for
// any key through types.AnyProvider.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/almanac/internal/codec"
	"github.com/mesh-intelligence/almanac/pkg/types"
)

// Loader serves one key. It receives requests that already passed
// types.ValidateRequest.
type Loader func(req types.DataRequest) (types.AnyResponse, error)

type entry struct {
	key    types.DataKey
	loader Loader
}

// Registry implements types.AnyProvider over registered loaders.
type Registry struct {
	mu      sync.RWMutex
	entries map[types.KeyHash]entry
	hash    func(types.DataKey) types.KeyHash
	logger  zerolog.Logger
}

// New creates an empty registry.
func New(logger zerolog.Logger) *Registry {
	return &Registry{
		entries: make(map[types.KeyHash]entry),
		hash:    types.DataKey.Hash,
		logger:  logger.With().Str("component", "registry").Logger(),
	}
}

// Register adds a loader for key. Registering a second path with the same
// hash returns ErrHashCollision; registering the same path twice returns
// ErrInvalidState. Neither case ever silently replaces an entry.
func (r *Registry) Register(key types.DataKey, loader Loader) error {
	if key.IsZero() {
		return types.ErrInvalidState.WithContext("cannot register the zero key")
	}
	if loader == nil {
		return types.ErrInvalidState.WithKey(key).WithContext("nil loader")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.hash(key)
	if existing, ok := r.entries[h]; ok {
		if existing.key.Equal(key) {
			return types.ErrInvalidState.WithKey(key).WithContext("key registered twice")
		}
		return types.ErrHashCollision.WithKey(key).WithContext(
			fmt.Sprintf("hash %s already used by %s", h, existing.key.Path()))
	}
	r.entries[h] = entry{key: key, loader: loader}
	r.logger.Debug().Str("key", key.Path()).Str("hash", h.String()).Msg("registered data key")
	return nil
}

// MustRegister is Register for initialization code; it panics on error.
func (r *Registry) MustRegister(key types.DataKey, loader Loader) {
	if err := r.Register(key, loader); err != nil {
		panic(err)
	}
}

// LoadAny implements types.AnyProvider. With SilentFail set, a missing
// locale yields an empty response instead of an error.
func (r *Registry) LoadAny(key types.DataKey, req types.DataRequest) (types.AnyResponse, error) {
	r.mu.RLock()
	e, ok := r.entries[r.hash(key)]
	r.mu.RUnlock()

	// The path check guards against a colliding key that was never
	// registered itself.
	if !ok || !e.key.Equal(key) {
		return types.AnyResponse{}, types.ErrMissingDataKey.WithRequest(key, req)
	}
	if err := types.ValidateRequest(e.key, req); err != nil {
		return types.AnyResponse{}, err
	}

	resp, err := e.loader(req)
	if err != nil {
		if req.Metadata.SilentFail && errors.Is(err, types.ErrMissingLocale) {
			r.logger.Debug().Str("key", key.Path()).Str("locale", req.Locale.String()).Msg("silent miss")
			return types.AnyResponse{}, nil
		}
		return types.AnyResponse{}, err
	}
	return resp, nil
}

// Lookup returns the registered key with the given hash.
func (r *Registry) Lookup(hash types.KeyHash) (types.DataKey, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[hash]
	return e.key, ok
}

// LookupPath returns the registered key with the given path.
func (r *Registry) LookupPath(path string) (types.DataKey, bool) {
	key, ok := r.Lookup(types.HashPath(path))
	if !ok || key.Path() != path {
		return types.DataKey{}, false
	}
	return key, true
}

// Keys returns the registered keys sorted by path.
func (r *Registry) Keys() []types.DataKey {
	r.mu.RLock()
	keys := make([]types.DataKey, 0, len(r.entries))
	for _, e := range r.entries {
		keys = append(keys, e.key)
	}
	r.mu.RUnlock()
	sort.Slice(keys, func(i, j int) bool { return keys[i].Compare(keys[j]) < 0 })
	return keys
}

// RegisterStatic registers per-locale static data for m. The payloads have
// no backing buffer. A locale missing from data yields ErrMissingLocale.
func RegisterStatic[T any](r *Registry, m types.DataMarker[T], data map[types.Locale]T) error {
	payloads := make(map[types.Locale]types.ErasedPayload, len(data))
	for loc, v := range data {
		payloads[loc] = types.Upcast(types.FromStatic(v))
	}
	key := m.Key()
	return r.Register(key, func(req types.DataRequest) (types.AnyResponse, error) {
		p, ok := payloads[req.Locale]
		if !ok {
			return types.AnyResponse{}, types.ErrMissingLocale.WithRequest(key, req)
		}
		loc := req.Locale
		return types.AnyResponse{Metadata: types.DataResponseMetadata{Locale: &loc}, Payload: &p}, nil
	})
}

// RegisterBuffer registers m as served by a byte source. Each buffer is
// handed to decode and the resulting view owns the buffer, so views that
// borrow from it stay valid for the payload's lifetime. A source response
// without bytes is passed through as an empty response.
func RegisterBuffer[T any](r *Registry, m types.DataMarker[T], src types.BufferProvider, decode codec.Decoder[T]) error {
	key := m.Key()
	return r.Register(key, func(req types.DataRequest) (types.AnyResponse, error) {
		buf, err := src.LoadBuffer(key, req)
		if err != nil {
			return types.AnyResponse{}, err
		}
		if buf.Bytes == nil {
			return types.AnyResponse{Metadata: buf.Metadata}, nil
		}
		if buf.Metadata.BufferFormat == nil {
			return types.AnyResponse{}, types.ErrUnavailableBufferFormat.WithRequest(key, req).
				WithContext("byte source did not report a buffer format")
		}
		format := *buf.Metadata.BufferFormat
		p, err := types.FromOwnedBuffer(buf.Bytes, func(b []byte) (T, error) {
			return decode(format, b)
		})
		if err != nil {
			var de *types.DataError
			if errors.As(err, &de) && de.Key.IsZero() {
				return types.AnyResponse{}, de.WithRequest(key, req)
			}
			return types.AnyResponse{}, err
		}
		return types.UpcastResponse(types.DataResponse[T]{Metadata: buf.Metadata, Payload: &p}), nil
	})
}
