package seed

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mesh-intelligence/almanac/internal/codec"
	"github.com/mesh-intelligence/almanac/internal/registry"
	"github.com/mesh-intelligence/almanac/pkg/calendar"
	"github.com/mesh-intelligence/almanac/pkg/types"
)

// binding is everything the tools need to know about one key: how to
// register a buffer-backed loader for it and how to turn a decoded
// document into stored bytes.
type binding struct {
	key      types.DataKey
	register func(r *registry.Registry, src types.BufferProvider) error
	encode   func(format types.BufferFormat, value any) ([]byte, error)
	// view recovers the typed value of an erased response for display.
	view func(resp types.AnyResponse) (any, error)
}

// convert maps a generic decoded document (from JSON or TOML) onto a typed
// value by round-tripping through JSON.
func convert(value any, out any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func structured[T any](m types.DataMarker[T], validate func(T) error) binding {
	return binding{
		key: m.Key(),
		register: func(r *registry.Registry, src types.BufferProvider) error {
			return registry.RegisterBuffer(r, m, src, codec.Structured[T]())
		},
		encode: func(format types.BufferFormat, value any) ([]byte, error) {
			var v T
			if err := convert(value, &v); err != nil {
				return nil, types.ErrInvalidState.Wrap(err).WithKey(m.Key())
			}
			if validate != nil {
				if err := validate(v); err != nil {
					return nil, err
				}
			}
			return codec.Marshal(format, v)
		},
		view: func(resp types.AnyResponse) (any, error) {
			p, err := takeErased[T](resp)
			if err != nil {
				return nil, err
			}
			return p.Get(), nil
		},
	}
}

// takeErased recovers the typed payload held by resp.
func takeErased[T any](resp types.AnyResponse) (types.Payload[T], error) {
	typed, err := types.DowncastResponse[T](resp)
	if err != nil {
		return types.Payload[T]{}, err
	}
	return typed.TakePayload()
}

func eraTable() binding {
	return binding{
		key: calendar.JapaneseErasKey,
		register: func(r *registry.Registry, src types.BufferProvider) error {
			return registry.RegisterBuffer(r, calendar.JapaneseErasMarker, src, codec.Blob(calendar.ParseEraTable))
		},
		encode: func(format types.BufferFormat, value any) ([]byte, error) {
			if format != types.BufferFormatBlob {
				return nil, types.ErrUnavailableBufferFormat.WithKey(calendar.JapaneseErasKey).
					WithContext(fmt.Sprintf("era tables are stored as blob, not %s", format))
			}
			var eras []calendar.Era
			if err := convert(value, &eras); err != nil {
				return nil, types.ErrInvalidState.Wrap(err).WithKey(calendar.JapaneseErasKey)
			}
			table, err := calendar.NewEraTable(eras...)
			if err != nil {
				return nil, err
			}
			return table.Bytes(), nil
		},
		view: func(resp types.AnyResponse) (any, error) {
			p, err := takeErased[calendar.EraTable](resp)
			if err != nil {
				return nil, err
			}
			return p.Get().Eras(), nil
		},
	}
}

// bindings returns one binding per calendar key, sorted by path.
func bindings() []binding {
	out := []binding{
		eraTable(),
		structured(calendar.WeekDataMarker, calendar.WeekData.Validate),
	}
	for _, kind := range calendar.AllKinds() {
		b, _ := kind.Binding()
		out = append(out, structured(b.Symbols, nil), structured(b.Lengths, nil))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key.Compare(out[j].key) < 0 })
	return out
}

// Register registers every calendar key on r, served from src.
func Register(r *registry.Registry, src types.BufferProvider) error {
	for _, b := range bindings() {
		if err := b.register(r, src); err != nil {
			return err
		}
	}
	return nil
}

// Encode turns a decoded document for the key with the given path into
// bytes in format, validating it against the key's shape.
func Encode(path string, format types.BufferFormat, value any) (types.DataKey, []byte, error) {
	for _, b := range bindings() {
		if b.key.Path() == path {
			data, err := b.encode(format, value)
			return b.key, data, err
		}
	}
	return types.DataKey{}, nil, types.ErrMissingDataKey.WithContext(path)
}

// View returns the decoded value held by resp, which must have been
// loaded for key. Era tables are expanded into their list of eras.
func View(key types.DataKey, resp types.AnyResponse) (any, error) {
	for _, b := range bindings() {
		if b.key.Equal(key) {
			return b.view(resp)
		}
	}
	return nil, types.ErrMissingDataKey.WithKey(key)
}

// Key returns the calendar key with the given path.
func Key(path string) (types.DataKey, bool) {
	for _, b := range bindings() {
		if b.key.Path() == path {
			return b.key, true
		}
	}
	return types.DataKey{}, false
}
