// Package seed holds the built-in calendar data set and the table that
// binds each calendar key to its decoder. A new buffer store is seeded
// with Records; Register wires any byte source into a registry.
package seed

import (
	"fmt"

	"github.com/mesh-intelligence/almanac/internal/codec"
	"github.com/mesh-intelligence/almanac/pkg/calendar"
	"github.com/mesh-intelligence/almanac/pkg/types"
)

// Formats used for the built-in records. Symbols are JSON so they stay
// readable in buffers.jsonl; the rest use CBOR.
const (
	symbolsFormat  = types.BufferFormatJSON
	lengthsFormat  = types.BufferFormatCBOR
	weekDataFormat = types.BufferFormatCBOR
)

// Records returns the built-in data as buffer records.
func Records() ([]types.BufferRecord, error) {
	var out []types.BufferRecord
	add := func(key types.DataKey, locale string, format types.BufferFormat, v any) error {
		loc, err := types.ParseLocale(locale)
		if err != nil {
			return err
		}
		data, err := codec.Marshal(format, v)
		if err != nil {
			return fmt.Errorf("encoding %s/%s: %w", key.Path(), locale, err)
		}
		out = append(out, types.BufferRecord{Key: key, Locale: loc, Format: format, Bytes: data})
		return nil
	}

	table, err := calendar.NewEraTable(japaneseEras...)
	if err != nil {
		return nil, err
	}
	out = append(out, types.BufferRecord{
		Key:    calendar.JapaneseErasKey,
		Locale: types.Root,
		Format: types.BufferFormatBlob,
		Bytes:  table.Bytes(),
	})

	for locale, wd := range weekData {
		if err := add(calendar.WeekDataKey, locale, weekDataFormat, wd); err != nil {
			return nil, err
		}
	}

	syms := symbols()
	lens := lengths()
	for _, kind := range calendar.AllKinds() {
		b, _ := kind.Binding()
		for locale, s := range syms[b.DefaultIdentifier] {
			if err := add(b.Symbols.Key(), locale, symbolsFormat, s); err != nil {
				return nil, err
			}
		}
		for locale, l := range lens[b.DefaultIdentifier] {
			if err := add(b.Lengths.Key(), locale, lengthsFormat, l); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
