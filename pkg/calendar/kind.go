package calendar

import (
	"fmt"

	"github.com/mesh-intelligence/almanac/pkg/types"
)

// Kind is the closed set of calendars with their own data bindings.
type Kind uint8

const (
	Gregorian Kind = iota + 1
	Buddhist
	Japanese
	JapaneseExtended
	Coptic
	Indian
	Ethiopian
	Persian
	Hebrew
	Roc
)

// AllKinds returns every kind in declaration order.
func AllKinds() []Kind {
	return []Kind{Gregorian, Buddhist, Japanese, JapaneseExtended, Coptic, Indian, Ethiopian, Persian, Hebrew, Roc}
}

// CalendarKeyword is the -u- keyword selecting a calendar.
const CalendarKeyword = "ca"

// Binding ties a calendar to its identifiers and data markers.
type Binding struct {
	Kind Kind
	// DefaultIdentifier is the -u-ca- value for the calendar.
	DefaultIdentifier string
	// aliases are other identifiers accepted for the same calendar.
	aliases []string
	Symbols types.DataMarker[DateSymbols]
	Lengths types.DataMarker[DateLengths]
}

// IsIdentifierAllowed reports whether id selects this calendar. The
// default identifier is always accepted; some calendars also accept
// historical synonyms.
func (b Binding) IsIdentifierAllowed(id string) bool {
	if id == b.DefaultIdentifier {
		return true
	}
	for _, alias := range b.aliases {
		if id == alias {
			return true
		}
	}
	return false
}

func newBinding(kind Kind, id string, aliases ...string) Binding {
	return Binding{
		Kind:              kind,
		DefaultIdentifier: id,
		aliases:           aliases,
		Symbols:           types.NewMarker[DateSymbols](SymbolsKey(id)),
		Lengths:           types.NewMarker[DateLengths](LengthsKey(id)),
	}
}

var (
	gregorianBinding        = newBinding(Gregorian, "gregory", "gregorian")
	buddhistBinding         = newBinding(Buddhist, "buddhist")
	japaneseBinding         = newBinding(Japanese, "japanese")
	japaneseExtendedBinding = newBinding(JapaneseExtended, "japanext")
	copticBinding           = newBinding(Coptic, "coptic")
	indianBinding           = newBinding(Indian, "indian")
	// Amete Alem dates use the same calendar with a different era.
	ethiopianBinding = newBinding(Ethiopian, "ethiopic", "ethioaa")
	persianBinding   = newBinding(Persian, "persian")
	hebrewBinding    = newBinding(Hebrew, "hebrew")
	rocBinding       = newBinding(Roc, "roc")
)

// Binding returns the binding of k. Adding a calendar means adding a kind
// and one case here.
func (k Kind) Binding() (Binding, bool) {
	switch k {
	case Gregorian:
		return gregorianBinding, true
	case Buddhist:
		return buddhistBinding, true
	case Japanese:
		return japaneseBinding, true
	case JapaneseExtended:
		return japaneseExtendedBinding, true
	case Coptic:
		return copticBinding, true
	case Indian:
		return indianBinding, true
	case Ethiopian:
		return ethiopianBinding, true
	case Persian:
		return persianBinding, true
	case Hebrew:
		return hebrewBinding, true
	case Roc:
		return rocBinding, true
	default:
		return Binding{}, false
	}
}

// String returns the default identifier of k.
func (k Kind) String() string {
	if b, ok := k.Binding(); ok {
		return b.DefaultIdentifier
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// HasEraTable reports whether k reads its eras from a data table rather
// than having them fixed by the calendar.
func (k Kind) HasEraTable() bool {
	return k == Japanese || k == JapaneseExtended
}

// ParseKind returns the kind whose binding accepts id.
func ParseKind(id string) (Kind, bool) {
	for _, k := range AllKinds() {
		if b, _ := k.Binding(); b.IsIdentifierAllowed(id) {
			return k, true
		}
	}
	return 0, false
}

// KindFromLocale reads the -u-ca- keyword of loc. Locales without one, or
// with an unknown one, use Gregorian.
func KindFromLocale(loc types.Locale) Kind {
	if id, ok := loc.Keyword(CalendarKeyword); ok {
		if k, ok := ParseKind(id); ok {
			return k
		}
	}
	return Gregorian
}

func bindingFor(kind Kind) (Binding, error) {
	b, ok := kind.Binding()
	if !ok {
		return Binding{}, types.ErrInvalidState.WithContext(fmt.Sprintf("unknown calendar kind %d", uint8(kind)))
	}
	return b, nil
}

// calendarRequest strips the calendar keyword: the calendar is already
// encoded in the key.
func calendarRequest(loc types.Locale) types.DataRequest {
	return types.NewRequest(loc.WithoutKeyword(CalendarKeyword))
}

// loadErased performs the statically typed load for one binding and erases
// the result.
func loadErased[T any](p types.AnyProvider, m types.DataMarker[T], req types.DataRequest) (types.AnyResponse, error) {
	resp, err := types.Load(p, m, req)
	if err != nil {
		return types.AnyResponse{}, err
	}
	return types.UpcastResponse(resp), nil
}

// LoadErasedSymbols loads the date symbols of kind for loc and erases
// them. Every kind yields an erased DateSymbols payload, so callers
// recover it with types.Downcast[DateSymbols] whichever calendar was used.
func LoadErasedSymbols(p types.AnyProvider, kind Kind, loc types.Locale) (types.AnyResponse, error) {
	b, err := bindingFor(kind)
	if err != nil {
		return types.AnyResponse{}, err
	}
	return loadErased(p, b.Symbols, calendarRequest(loc))
}

// LoadErasedLengths is LoadErasedSymbols for date patterns.
func LoadErasedLengths(p types.AnyProvider, kind Kind, loc types.Locale) (types.AnyResponse, error) {
	b, err := bindingFor(kind)
	if err != nil {
		return types.AnyResponse{}, err
	}
	return loadErased(p, b.Lengths, calendarRequest(loc))
}

// LoadSymbols is the typed convenience form of LoadErasedSymbols.
func LoadSymbols(p types.AnyProvider, kind Kind, loc types.Locale) (types.Payload[DateSymbols], error) {
	resp, err := LoadErasedSymbols(p, kind, loc)
	if err != nil {
		return types.Payload[DateSymbols]{}, err
	}
	typed, err := types.DowncastResponse[DateSymbols](resp)
	if err != nil {
		return types.Payload[DateSymbols]{}, err
	}
	return typed.TakePayload()
}

// LoadLengths is the typed convenience form of LoadErasedLengths.
func LoadLengths(p types.AnyProvider, kind Kind, loc types.Locale) (types.Payload[DateLengths], error) {
	resp, err := LoadErasedLengths(p, kind, loc)
	if err != nil {
		return types.Payload[DateLengths]{}, err
	}
	typed, err := types.DowncastResponse[DateLengths](resp)
	if err != nil {
		return types.Payload[DateLengths]{}, err
	}
	return typed.TakePayload()
}
