package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCursor(t *testing.T) {
	v, err := ParseCursor("")
	require.NoError(t, err)
	assert.EqualValues(t, 0, v)

	v, err = ParseCursor("42")
	require.NoError(t, err)
	assert.EqualValues(t, 42, v)

	for _, raw := range []string{"abc", "12x", "-1", "0", "1.5", " 7"} {
		_, err := ParseCursor(raw)
		assert.ErrorIs(t, err, ErrMalformedCursor, "cursor %q", raw)
	}
}

func TestNewPage(t *testing.T) {
	keyOf := func(v int64) int64 { return v }

	// overfetched: extra row trimmed, cursor is the new last key
	p := New([]int64{9, 8, 7, 6}, 3, keyOf)
	assert.Equal(t, []int64{9, 8, 7}, p.Items)
	require.NotNil(t, p.NextCursor)
	assert.Equal(t, "7", *p.NextCursor)

	// exactly limit: end of stream
	p = New([]int64{3, 2, 1}, 3, keyOf)
	assert.Len(t, p.Items, 3)
	assert.Nil(t, p.NextCursor)

	// empty result is a valid empty page
	p = New(nil, 3, keyOf)
	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
	assert.Nil(t, p.NextCursor)
}
