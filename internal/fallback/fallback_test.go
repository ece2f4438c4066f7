package fallback

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/almanac/internal/registry"
	"github.com/mesh-intelligence/almanac/pkg/types"
)

func localeStrings(chain []types.Locale) []string {
	out := make([]string, len(chain))
	for i, l := range chain {
		out[i] = l.String()
	}
	return out
}

func TestChain(t *testing.T) {
	tests := []struct {
		name   string
		md     types.KeyMetadata
		locale string
		want   []string
	}{
		{
			name:   "language",
			md:     types.KeyMetadata{Fallback: types.FallbackLanguage},
			locale: "de-CH",
			want:   []string{"de-CH", "de", "und"},
		},
		{
			name:   "script",
			md:     types.KeyMetadata{Fallback: types.FallbackLanguage},
			locale: "zh-Hant-TW",
			want:   []string{"zh-Hant-TW", "zh-Hant", "zh", "und"},
		},
		{
			name:   "variant",
			md:     types.KeyMetadata{Fallback: types.FallbackLanguage},
			locale: "ca-ES-valencia",
			want:   []string{"ca-ES-valencia", "ca-ES", "ca", "und"},
		},
		{
			name:   "unrelated keywords are dropped",
			md:     types.KeyMetadata{Fallback: types.FallbackLanguage},
			locale: "ja-JP-u-nu-latn",
			want:   []string{"ja-JP-u-nu-latn", "ja-JP", "ja", "und"},
		},
		{
			name:   "extension keyword kept at each step",
			md:     types.KeyMetadata{Fallback: types.FallbackCollation, ExtensionKey: "co"},
			locale: "de-AT-u-co-phonebk-nu-latn",
			want: []string{
				"de-AT-u-co-phonebk-nu-latn",
				"de-AT-u-co-phonebk", "de-AT",
				"de-u-co-phonebk", "de",
				"und-u-co-phonebk", "und",
			},
		},
		{
			name:   "region",
			md:     types.KeyMetadata{Fallback: types.FallbackRegion},
			locale: "de-CH",
			want:   []string{"de-CH", "und-CH", "und"},
		},
		{
			name:   "region inferred from language",
			md:     types.KeyMetadata{Fallback: types.FallbackRegion},
			locale: "fr",
			want:   []string{"fr", "und-FR", "und"},
		},
		{
			name:   "region inferred with script",
			md:     types.KeyMetadata{Fallback: types.FallbackRegion},
			locale: "zh-Hant",
			want:   []string{"zh-Hant", "und-TW", "und"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chain(tt.md, types.MustParseLocale(tt.locale))
			assert.Equal(t, tt.want, localeStrings(got))
			assert.True(t, got[len(got)-1].IsRoot())
		})
	}
}

type label struct{ Text string }

func newProvider(t *testing.T, md types.KeyMetadata, data map[string]string) (*Provider, types.DataMarker[label]) {
	t.Helper()
	key := types.MustDataKey(types.TaggedPath("test/label@1"), md)
	marker := types.NewMarker[label](key)

	static := make(map[types.Locale]label, len(data))
	for loc, text := range data {
		static[types.MustParseLocale(loc)] = label{Text: text}
	}
	reg := registry.New(zerolog.Nop())
	require.NoError(t, registry.RegisterStatic(reg, marker, static))
	return New(reg, zerolog.Nop()), marker
}

func TestProviderFallsBack(t *testing.T) {
	p, marker := newProvider(t, types.KeyMetadata{Fallback: types.FallbackLanguage}, map[string]string{
		"de":  "Kalender",
		"und": "calendar",
	})

	tests := []struct {
		locale   string
		want     string
		resolved string
	}{
		{locale: "de", want: "Kalender", resolved: "de"},
		{locale: "de-CH", want: "Kalender", resolved: "de"},
		{locale: "de-CH-u-ca-buddhist", want: "Kalender", resolved: "de"},
		{locale: "fr-FR", want: "calendar", resolved: "und"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			resp, err := types.Request(p, marker, types.MustParseLocale(tt.locale))
			require.NoError(t, err)
			payload, err := resp.TakePayload()
			require.NoError(t, err)
			assert.Equal(t, tt.want, payload.Get().Text)
			require.NotNil(t, resp.Metadata.Locale)
			assert.Equal(t, tt.resolved, resp.Metadata.Locale.String())
		})
	}
}

func TestProviderExhausted(t *testing.T) {
	p, marker := newProvider(t, types.KeyMetadata{Fallback: types.FallbackLanguage}, map[string]string{
		"ja": "暦",
	})

	_, err := types.Request(p, marker, types.MustParseLocale("en-GB"))
	assert.ErrorIs(t, err, types.ErrMissingLocale)

	req := types.NewRequest(types.MustParseLocale("en-GB"))
	req.Metadata.SilentFail = true
	resp, err := types.Load(p, marker, req)
	require.NoError(t, err)
	assert.Nil(t, resp.Payload)

	// An empty locale is not rewritten.
	_, err = types.Request(p, marker, types.Root)
	assert.ErrorIs(t, err, types.ErrNeedsLocale)
}

func TestProviderRegionPriority(t *testing.T) {
	p, marker := newProvider(t, types.KeyMetadata{Fallback: types.FallbackRegion}, map[string]string{
		"und-CH": "mon",
		"und":    "mon",
		"und-US": "sun",
	})

	resp, err := types.Request(p, marker, types.MustParseLocale("en-US"))
	require.NoError(t, err)
	assert.Equal(t, "und-US", resp.Metadata.Locale.String())

	resp, err = types.Request(p, marker, types.MustParseLocale("es-MX"))
	require.NoError(t, err)
	assert.Equal(t, "und", resp.Metadata.Locale.String())

	resp, err = types.Request(p, marker, types.MustParseLocale("en"))
	require.NoError(t, err)
	assert.Equal(t, "und-US", resp.Metadata.Locale.String())
	assert.Equal(t, "sun", resp.Payload.Get().Text)
}

func TestProviderSingletonPassThrough(t *testing.T) {
	p, marker := newProvider(t, types.KeyMetadata{Singleton: true}, map[string]string{"und": "v"})

	_, err := types.Request(p, marker, types.MustParseLocale("en"))
	assert.ErrorIs(t, err, types.ErrExtraneousLocale)

	resp, err := types.Request(p, marker, types.Root)
	require.NoError(t, err)
	require.NotNil(t, resp.Payload)
}
