package calendar

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/almanac/internal/codec"
	"github.com/mesh-intelligence/almanac/internal/registry"
	"github.com/mesh-intelligence/almanac/pkg/types"
)

// blobSource serves one byte slice for one key, counting loads.
type blobSource struct {
	key   types.DataKey
	bytes []byte
	loads int
}

func (s *blobSource) LoadBuffer(key types.DataKey, req types.DataRequest) (types.BufferResponse, error) {
	if !key.Equal(s.key) {
		return types.BufferResponse{}, types.ErrMissingDataKey.WithRequest(key, req)
	}
	s.loads++
	format := types.BufferFormatBlob
	return types.BufferResponse{
		Metadata: types.DataResponseMetadata{BufferFormat: &format},
		Bytes:    s.bytes,
	}, nil
}

func extendedEras() []Era {
	return []Era{
		{Start: date(-660, 2, 11), Code: MustEraCode("jimmu")},
		{Start: date(1868, 10, 23), Code: MustEraCode("meiji")},
		{Start: date(1912, 7, 30), Code: MustEraCode("taisho")},
		{Start: date(1926, 12, 25), Code: MustEraCode("showa")},
		{Start: date(1989, 1, 8), Code: MustEraCode("heisei")},
		{Start: date(2019, 5, 1), Code: MustEraCode("reiwa")},
	}
}

func testRegistry(t *testing.T) (*registry.Registry, *blobSource) {
	t.Helper()
	reg := registry.New(zerolog.Nop())

	src := &blobSource{key: JapaneseErasKey, bytes: EncodeEras(extendedEras())}
	require.NoError(t, registry.RegisterBuffer(reg, JapaneseErasMarker, src, codec.Blob(ParseEraTable)))

	en := types.MustParseLocale("en")
	for _, kind := range AllKinds() {
		b, ok := kind.Binding()
		require.True(t, ok)
		require.NoError(t, registry.RegisterStatic(reg, b.Symbols, map[types.Locale]DateSymbols{
			en: {Months: []string{kind.String() + "-month-1"}},
		}))
		require.NoError(t, registry.RegisterStatic(reg, b.Lengths, map[types.Locale]DateLengths{
			en: {Short: kind.String()},
		}))
	}
	return reg, src
}

func TestEveryKindHasABinding(t *testing.T) {
	seen := map[string]Kind{}
	for _, kind := range AllKinds() {
		b, ok := kind.Binding()
		require.True(t, ok, "kind %d", kind)
		assert.Equal(t, kind, b.Kind)
		assert.True(t, b.IsIdentifierAllowed(b.DefaultIdentifier))
		assert.Equal(t, "datetime/symbols/"+b.DefaultIdentifier+"@1", b.Symbols.Key().Path())
		assert.Equal(t, "datetime/lengths/"+b.DefaultIdentifier+"@1", b.Lengths.Key().Path())

		prev, dup := seen[b.DefaultIdentifier]
		assert.False(t, dup, "%s reused by %s", b.DefaultIdentifier, prev)
		seen[b.DefaultIdentifier] = kind
	}

	_, ok := Kind(0).Binding()
	assert.False(t, ok)
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestIdentifierAliases(t *testing.T) {
	tests := []struct {
		kind    Kind
		id      string
		allowed bool
	}{
		{kind: Ethiopian, id: "ethiopic", allowed: true},
		{kind: Ethiopian, id: "ethioaa", allowed: true},
		{kind: Ethiopian, id: "coptic", allowed: false},
		{kind: Ethiopian, id: "", allowed: false},
		{kind: Gregorian, id: "gregory", allowed: true},
		{kind: Gregorian, id: "gregorian", allowed: true},
		{kind: Japanese, id: "japanext", allowed: false},
		{kind: JapaneseExtended, id: "japanese", allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.id, func(t *testing.T) {
			b, ok := tt.kind.Binding()
			require.True(t, ok)
			assert.Equal(t, tt.allowed, b.IsIdentifierAllowed(tt.id))
		})
	}
}

func TestParseKindAndKindFromLocale(t *testing.T) {
	k, ok := ParseKind("ethioaa")
	require.True(t, ok)
	assert.Equal(t, Ethiopian, k)

	_, ok = ParseKind("lunar")
	assert.False(t, ok)

	assert.Equal(t, Japanese, KindFromLocale(types.MustParseLocale("ja-JP-u-ca-japanese")))
	assert.Equal(t, Buddhist, KindFromLocale(types.MustParseLocale("th-u-ca-buddhist")))
	assert.Equal(t, Gregorian, KindFromLocale(types.MustParseLocale("en-US")))
	assert.Equal(t, Gregorian, KindFromLocale(types.MustParseLocale("en-u-ca-lunar")))
}

func TestErasedDispatchYieldsOneShape(t *testing.T) {
	reg, _ := testRegistry(t)
	loc := types.MustParseLocale("en-u-ca-buddhist")

	for _, kind := range AllKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			resp, err := LoadErasedSymbols(reg, kind, loc)
			require.NoError(t, err)
			require.NotNil(t, resp.Payload)

			typed, err := types.DowncastResponse[DateSymbols](resp)
			require.NoError(t, err)
			p, err := typed.TakePayload()
			require.NoError(t, err)
			assert.Equal(t, []string{kind.String() + "-month-1"}, p.Get().Months)

			_, err = types.DowncastResponse[DateLengths](resp)
			assert.ErrorIs(t, err, types.ErrMismatchedType)

			lengths, err := LoadLengths(reg, kind, loc)
			require.NoError(t, err)
			assert.Equal(t, kind.String(), lengths.Get().Short)
		})
	}
}

func TestDispatchUnknownKind(t *testing.T) {
	reg, _ := testRegistry(t)
	_, err := LoadErasedSymbols(reg, Kind(42), types.MustParseLocale("en"))
	assert.ErrorIs(t, err, types.ErrInvalidState)
}

func TestDispatchMissingLocale(t *testing.T) {
	reg, _ := testRegistry(t)
	_, err := LoadSymbols(reg, Coptic, types.MustParseLocale("fr"))
	assert.ErrorIs(t, err, types.ErrMissingLocale)
}

func TestLoadErasShareOneBuffer(t *testing.T) {
	reg, src := testRegistry(t)

	extended, err := LoadEras(reg, JapaneseExtended)
	require.NoError(t, err)
	assert.Equal(t, 6, extended.Get().Len())

	modern, err := LoadEras(reg, Japanese)
	require.NoError(t, err)
	require.Equal(t, 5, modern.Get().Len())
	assert.Equal(t, "meiji", modern.Get().At(0).Code.String())
	assert.Equal(t, 2, src.loads)

	// A derived view keeps the bytes of the load it came from.
	derived, err := types.MapPayload(extended, func(tbl EraTable) (EraTable, error) { return tbl.Since(MeijiStart), nil })
	require.NoError(t, err)
	assert.True(t, types.SharesBacking(extended, derived))
	assert.Same(t, &extended.Get().Bytes()[eraRecordSize], &derived.Get().Bytes()[0])

	_, err = LoadEras(reg, Gregorian)
	assert.ErrorIs(t, err, types.ErrMissingDataKey)
}

func TestEraForDate(t *testing.T) {
	reg, _ := testRegistry(t)

	code, err := EraForDate(reg, Japanese, date(2019, 5, 1))
	require.NoError(t, err)
	assert.Equal(t, "reiwa", code.String())

	_, err = EraForDate(reg, Japanese, date(1700, 1, 1))
	assert.ErrorIs(t, err, ErrEraNotFound)

	code, err = EraForDate(reg, JapaneseExtended, date(1700, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, "jimmu", code.String())
}

func TestErasAreOwnedAfterDetach(t *testing.T) {
	reg, src := testRegistry(t)
	p, err := LoadEras(reg, Japanese)
	require.NoError(t, err)

	owned, err := p.IntoOwned()
	require.NoError(t, err)
	src.bytes[len(src.bytes)-eraRecordSize+6] = 'X'
	assert.Equal(t, "reiwa", owned.At(owned.Len()-1).Code.String())
}

func TestWeekData(t *testing.T) {
	assert.NoError(t, WeekData{FirstWeekday: Monday, MinWeekDays: 4}.Validate())
	assert.ErrorIs(t, WeekData{FirstWeekday: 0, MinWeekDays: 4}.Validate(), types.ErrInvalidState)
	assert.ErrorIs(t, WeekData{FirstWeekday: Sunday, MinWeekDays: 8}.Validate(), types.ErrInvalidState)

	data, err := json.Marshal(WeekData{FirstWeekday: Sunday, MinWeekDays: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"first_weekday":"sun","min_week_days":1}`, string(data))

	var back WeekData
	require.NoError(t, json.Unmarshal([]byte(`{"first_weekday":"MON","min_week_days":4}`), &back))
	assert.Equal(t, WeekData{FirstWeekday: Monday, MinWeekDays: 4}, back)

	_, err = ParseWeekday("someday")
	assert.Error(t, err)
}

func TestEraName(t *testing.T) {
	s := DateSymbols{Eras: map[string]string{"reiwa": "令和"}}
	assert.Equal(t, "令和", s.EraName(MustEraCode("reiwa")))
	assert.Equal(t, "heisei", s.EraName(MustEraCode("heisei")))
}

func TestKeysAreDistinct(t *testing.T) {
	seen := map[types.KeyHash]string{}
	for _, k := range Keys() {
		prev, dup := seen[k.Hash()]
		assert.False(t, dup, "%s collides with %s", k.Path(), prev)
		seen[k.Hash()] = k.Path()
	}
	assert.Len(t, seen, 2+2*len(AllKinds()))
}
