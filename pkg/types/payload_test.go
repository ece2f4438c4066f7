package types

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordView borrows its words from the buffer it was built from.
type wordView struct {
	words []string
}

func buildWords(buf []byte) (wordView, error) {
	if len(buf) == 0 {
		return wordView{}, errors.New("empty buffer")
	}
	var words []string
	for _, field := range bytes.Fields(buf) {
		words = append(words, BorrowString(field))
	}
	return wordView{words: words}, nil
}

// detachableView can copy itself out of its buffer.
type detachableView struct {
	name string
}

func (v detachableView) Detach() detachableView {
	return detachableView{name: strings.Clone(v.name)}
}

func TestFromStatic(t *testing.T) {
	p := FromStatic(wordView{words: []string{"meiji", "taisho"}})
	assert.True(t, p.IsStatic())
	assert.Nil(t, p.Backing())
	assert.Equal(t, []string{"meiji", "taisho"}, p.Get().words)

	owned, err := p.IntoOwned()
	require.NoError(t, err)
	assert.Equal(t, p.Get(), owned)
}

func TestFromOwnedBufferBorrowsWithoutCopy(t *testing.T) {
	buf := []byte("meiji taisho showa")
	p, err := FromOwnedBuffer(buf, buildWords)
	require.NoError(t, err)

	assert.False(t, p.IsStatic())
	require.NotNil(t, p.Backing())
	assert.Equal(t, len(buf), p.Backing().Len())
	assert.Equal(t, []string{"meiji", "taisho", "showa"}, p.Get().words)

	// The first word points into the owned buffer.
	assert.Same(t, unsafe.SliceData(buf), unsafe.StringData(p.Get().words[0]))
}

func TestFromOwnedBufferPropagatesBuildError(t *testing.T) {
	_, err := FromOwnedBuffer(nil, buildWords)
	require.Error(t, err)
	assert.EqualError(t, err, "empty buffer")
}

func TestPayloadCloneSharesBacking(t *testing.T) {
	p, err := FromOwnedBuffer([]byte("a b c"), buildWords)
	require.NoError(t, err)

	clone := p.Clone()
	assert.True(t, SharesBacking(p, clone))
	assert.Same(t, p.Backing(), clone.Backing())
	assert.Same(t,
		unsafe.SliceData(p.Backing().Bytes()),
		unsafe.SliceData(clone.Backing().Bytes()),
		"clone must not copy the backing bytes")

	other, err := FromOwnedBuffer([]byte("a b c"), buildWords)
	require.NoError(t, err)
	assert.False(t, SharesBacking(p, other), "equal bytes in another buffer are not shared")

	static := FromStatic(wordView{})
	assert.False(t, SharesBacking(static, static.Clone()))
}

func TestIntoOwned(t *testing.T) {
	t.Run("buffer-backed view without Detach fails", func(t *testing.T) {
		p, err := FromOwnedBuffer([]byte("a b"), buildWords)
		require.NoError(t, err)
		_, err = p.IntoOwned()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingPayload)
	})

	t.Run("buffer-backed view with Detach succeeds", func(t *testing.T) {
		buf := []byte("gregory")
		p, err := FromOwnedBuffer(buf, func(b []byte) (detachableView, error) {
			return detachableView{name: BorrowString(b)}, nil
		})
		require.NoError(t, err)

		owned, err := p.IntoOwned()
		require.NoError(t, err)
		assert.Equal(t, "gregory", owned.name)
		assert.NotSame(t, unsafe.SliceData(buf), unsafe.StringData(owned.name))
	})
}

func TestMapPayloadKeepsBacking(t *testing.T) {
	p, err := FromOwnedBuffer([]byte("meiji taisho showa"), buildWords)
	require.NoError(t, err)

	last, err := MapPayload(p, func(v wordView) (string, error) {
		return v.words[len(v.words)-1], nil
	})
	require.NoError(t, err)
	assert.Equal(t, "showa", last.Get())
	assert.True(t, SharesBacking(p, last))

	_, err = MapPayload(p, func(wordView) (int, error) {
		return 0, ErrInvalidState.WithContext("boom")
	})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestBorrowStringEmpty(t *testing.T) {
	assert.Equal(t, "", BorrowString(nil))
	assert.Equal(t, "", BorrowString([]byte{}))
}
