package types

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testLocaleKey    = MustDataKey(TaggedPath("test/localized@1"), KeyMetadata{})
	testSingletonKey = MustDataKey(TaggedPath("test/singleton@1"), KeyMetadata{Singleton: true})
)

func TestValidateRequest(t *testing.T) {
	en := MustParseLocale("en")
	tests := []struct {
		name    string
		key     DataKey
		req     DataRequest
		wantErr error
	}{
		{name: "localized key with locale", key: testLocaleKey, req: NewRequest(en)},
		{name: "localized key without locale", key: testLocaleKey, req: NewRequest(Root), wantErr: ErrNeedsLocale},
		{
			name: "localized key at root during fallback",
			key:  testLocaleKey,
			req:  DataRequest{Locale: Root, Metadata: DataRequestMetadata{AllowRoot: true}},
		},
		{name: "singleton key without locale", key: testSingletonKey, req: NewRequest(Root)},
		{name: "singleton key with locale", key: testSingletonKey, req: NewRequest(en), wantErr: ErrExtraneousLocale},
		{
			name:    "singleton key with keywords only",
			key:     testSingletonKey,
			req:     NewRequest(Root.WithKeyword("ca", "coptic")),
			wantErr: ErrExtraneousLocale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.key, tt.req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBufferFormatNames(t *testing.T) {
	for _, f := range []BufferFormat{BufferFormatJSON, BufferFormatCBOR, BufferFormatBlob} {
		parsed, err := ParseBufferFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}
	_, err := ParseBufferFormat("postcard")
	assert.ErrorIs(t, err, ErrUnavailableBufferFormat)
}

// staticProvider serves one erased payload per locale for a single key.
type staticProvider struct {
	key  DataKey
	data map[Locale]ErasedPayload
}

func (p staticProvider) LoadAny(key DataKey, req DataRequest) (AnyResponse, error) {
	if !key.Equal(p.key) {
		return AnyResponse{}, ErrMissingDataKey.WithRequest(key, req)
	}
	e, ok := p.data[req.Locale]
	if !ok {
		if req.Metadata.SilentFail {
			return AnyResponse{}, nil
		}
		return AnyResponse{}, ErrMissingLocale.WithRequest(key, req)
	}
	return AnyResponse{Payload: &e}, nil
}

func TestLoadThroughMarker(t *testing.T) {
	en := MustParseLocale("en")
	provider := staticProvider{
		key:  testLocaleKey,
		data: map[Locale]ErasedPayload{en: Upcast(FromStatic(weekRule{First: 7, MinDay: 1}))},
	}
	marker := NewMarker[weekRule](testLocaleKey)
	assert.Equal(t, "types.weekRule", marker.TypeName())

	resp, err := Request(provider, marker, en)
	require.NoError(t, err)
	p, err := resp.TakePayload()
	require.NoError(t, err)
	assert.Equal(t, 7, p.Get().First)

	bound := Bound(provider, marker)
	resp, err = bound.Load(NewRequest(en))
	require.NoError(t, err)
	assert.NotNil(t, resp.Payload)

	_, err = Request(provider, NewMarker[monthNames](testLocaleKey), en)
	assert.ErrorIs(t, err, ErrMismatchedType)

	_, err = Request(provider, marker, MustParseLocale("fr"))
	assert.ErrorIs(t, err, ErrMissingLocale)

	_, err = Request(provider, NewMarker[weekRule](testSingletonKey), Root)
	assert.ErrorIs(t, err, ErrMissingDataKey)
}

func TestLoadSilentFailReturnsEmptyResponse(t *testing.T) {
	provider := staticProvider{key: testLocaleKey}
	req := DataRequest{Locale: MustParseLocale("fr"), Metadata: DataRequestMetadata{SilentFail: true}}

	resp, err := Load(provider, NewMarker[weekRule](testLocaleKey), req)
	require.NoError(t, err)
	assert.Nil(t, resp.Payload)
}

func TestDataErrorFormattingAndMatching(t *testing.T) {
	loc := MustParseLocale("ja")
	err := ErrMissingLocale.WithRequest(testLocaleKey, NewRequest(loc))
	assert.Equal(t, "almanac data error: missing locale (key: test/localized@1, locale: ja)", err.Error())
	assert.ErrorIs(t, err, ErrMissingLocale)
	assert.NotErrorIs(t, err, ErrMissingDataKey)
	assert.Equal(t, ErrMissingLocale, KindOf(err))

	ioErr := IoError(fs.ErrNotExist)
	assert.ErrorIs(t, ioErr, ErrIo)
	assert.ErrorIs(t, ioErr, fs.ErrNotExist)

	custom := CustomError("calendar backend offline")
	assert.ErrorIs(t, custom, ErrCustom)
	assert.Contains(t, custom.Error(), "calendar backend offline")

	withCtx := ErrInvalidState.WithKey(testLocaleKey).WithContext("duplicate era")
	assert.Contains(t, withCtx.Error(), "duplicate era")
	assert.Contains(t, withCtx.Error(), "test/localized@1")

	assert.Equal(t, ErrorKind(0), KindOf(errors.New("plain")))
	assert.Equal(t, ErrMismatchedType, KindOf(&MismatchError{Requested: "x"}))
	assert.Contains(t, ErrorKind(200).Error(), "unknown")
}
