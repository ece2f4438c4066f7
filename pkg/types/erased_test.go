package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type weekRule struct {
	First  int
	MinDay uint8
}

type monthNames []string

func TestUpcastDowncastRoundTrip(t *testing.T) {
	t.Run("static payload", func(t *testing.T) {
		original := FromStatic(weekRule{First: 1, MinDay: 4})
		erased := Upcast(original)
		assert.True(t, erased.IsStatic())
		assert.Equal(t, "types.weekRule", erased.TypeName())

		back, err := Downcast[weekRule](erased)
		require.NoError(t, err)
		assert.Equal(t, original.Get(), back.Get())
	})

	t.Run("buffer-backed payload", func(t *testing.T) {
		original, err := FromOwnedBuffer([]byte("jan feb mar"), buildWords)
		require.NoError(t, err)
		erased := Upcast(original)
		assert.False(t, erased.IsStatic())

		back, err := Downcast[wordView](erased)
		require.NoError(t, err)
		assert.Equal(t, original.Get(), back.Get())
		assert.True(t, SharesBacking(original, back))
	})
}

func TestDowncastRejectsMismatch(t *testing.T) {
	erased := Upcast(FromStatic(weekRule{First: 7, MinDay: 1}))

	_, err := Downcast[monthNames](erased)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMismatchedType)

	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "types.monthNames", mismatch.Requested)
	assert.Equal(t, "types.weekRule", mismatch.Erased.TypeName())
	assert.Contains(t, err.Error(), "types.monthNames")

	// The erased value survives the failed attempt.
	back, err := Downcast[weekRule](mismatch.Erased)
	require.NoError(t, err)
	assert.Equal(t, weekRule{First: 7, MinDay: 1}, back.Get())

	back, err = Downcast[weekRule](erased)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), back.Get().MinDay)
}

func TestDowncastDistinguishesNamedTypesWithSameLayout(t *testing.T) {
	type other weekRule
	erased := Upcast(FromStatic(weekRule{}))
	_, err := Downcast[other](erased)
	assert.ErrorIs(t, err, ErrMismatchedType)

	_, err = Downcast[*weekRule](erased)
	assert.ErrorIs(t, err, ErrMismatchedType)
}

func TestDowncastZeroErased(t *testing.T) {
	var erased ErasedPayload
	assert.True(t, erased.IsZero())
	_, err := Downcast[weekRule](erased)
	assert.ErrorIs(t, err, ErrMismatchedType)
}

func TestResponseErasure(t *testing.T) {
	loc := MustParseLocale("en-US")
	p := FromStatic(weekRule{First: 7, MinDay: 1})
	typed := DataResponse[weekRule]{Metadata: DataResponseMetadata{Locale: &loc}, Payload: &p}

	anyResp := UpcastResponse(typed)
	require.NotNil(t, anyResp.Payload)

	back, err := DowncastResponse[weekRule](anyResp)
	require.NoError(t, err)
	assert.Equal(t, &loc, back.Metadata.Locale)
	got, err := back.TakePayload()
	require.NoError(t, err)
	assert.Equal(t, p.Get(), got.Get())

	_, err = DowncastResponse[monthNames](anyResp)
	assert.ErrorIs(t, err, ErrMismatchedType)

	empty, err := DowncastResponse[monthNames](AnyResponse{})
	require.NoError(t, err, "an absent payload downcasts to any type")
	assert.Nil(t, empty.Payload)
	_, err = empty.TakePayload()
	assert.ErrorIs(t, err, ErrMissingPayload)
}
