package calendar

import (
	"fmt"

	"github.com/mesh-intelligence/almanac/pkg/types"
)

// MeijiStart is the first day of the Meiji era. The modern Japanese
// calendar only recognizes eras from this date on.
var MeijiStart = EraStartDate{Year: 1868, Month: 10, Day: 23}

// LoadEras returns the era table of kind. Japanese reuses the extended
// table's bytes, restricted to eras from Meiji on.
func LoadEras(p types.AnyProvider, kind Kind) (types.Payload[EraTable], error) {
	if !kind.HasEraTable() {
		return types.Payload[EraTable]{}, types.ErrMissingDataKey.WithContext(
			fmt.Sprintf("calendar %s has no era table", kind))
	}
	resp, err := types.Load(p, JapaneseErasMarker, types.NewRequest(types.Root))
	if err != nil {
		return types.Payload[EraTable]{}, err
	}
	extended, err := resp.TakePayload()
	if err != nil {
		return types.Payload[EraTable]{}, err
	}
	if kind == JapaneseExtended {
		return extended, nil
	}
	return types.MapPayload(extended, func(t EraTable) (EraTable, error) {
		return t.Since(MeijiStart), nil
	})
}

// EraForDate loads the era table of kind and resolves date against it.
func EraForDate(p types.AnyProvider, kind Kind, date EraStartDate) (EraCode, error) {
	eras, err := LoadEras(p, kind)
	if err != nil {
		return EraCode{}, err
	}
	return ResolveEra(eras.Get(), date)
}

// LoadWeekData returns the week rules for loc.
func LoadWeekData(p types.AnyProvider, loc types.Locale) (types.Payload[WeekData], error) {
	resp, err := types.Request(p, WeekDataMarker, loc)
	if err != nil {
		return types.Payload[WeekData]{}, err
	}
	return resp.TakePayload()
}
