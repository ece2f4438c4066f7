package calendar

import "github.com/mesh-intelligence/almanac/pkg/types"

// SymbolsKey returns the key of the date symbols of the calendar with
// identifier id, e.g. "datetime/symbols/buddhist@1".
func SymbolsKey(id string) types.DataKey {
	return types.MustDataKey(types.TaggedPath("datetime/symbols/"+id+"@1"),
		types.KeyMetadata{Fallback: types.FallbackLanguage})
}

// LengthsKey returns the key of the date patterns of the calendar with
// identifier id.
func LengthsKey(id string) types.DataKey {
	return types.MustDataKey(types.TaggedPath("datetime/lengths/"+id+"@1"),
		types.KeyMetadata{Fallback: types.FallbackLanguage})
}

var (
	// JapaneseErasKey holds every Japanese era, including those before
	// Meiji. Era boundaries do not depend on the locale.
	JapaneseErasKey = types.MustDataKey(types.TaggedPath("calendar/japanext@1"),
		types.KeyMetadata{Singleton: true})

	// WeekDataKey holds week rules, which follow the region.
	WeekDataKey = types.MustDataKey(types.TaggedPath("datetime/week_data@1"),
		types.KeyMetadata{Fallback: types.FallbackRegion})
)

var (
	JapaneseErasMarker = types.NewMarker[EraTable](JapaneseErasKey)
	WeekDataMarker     = types.NewMarker[WeekData](WeekDataKey)
)

// Keys lists every key this package defines, for registration and
// listing.
func Keys() []types.DataKey {
	keys := []types.DataKey{JapaneseErasKey, WeekDataKey}
	for _, k := range AllKinds() {
		b, _ := k.Binding()
		keys = append(keys, b.Symbols.Key(), b.Lengths.Key())
	}
	return keys
}
