package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSliceValue(t *testing.T) {
	v, err := StringSlice{"Jupiter", "Uranus", "Neptune"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["Jupiter","Uranus","Neptune"]`, v)

	v, err = StringSlice(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v, "nil slices are stored as an empty JSON array")
}

func TestStringSliceScan(t *testing.T) {
	var s StringSlice
	require.NoError(t, s.Scan(`["Atlantic","Indian","Arctic"]`))
	assert.Equal(t, StringSlice{"Atlantic", "Indian", "Arctic"}, s)

	require.NoError(t, s.Scan([]byte(`["a"]`)))
	assert.Equal(t, StringSlice{"a"}, s)

	require.NoError(t, s.Scan(nil))
	assert.Empty(t, s)

	require.NoError(t, s.Scan("null"))
	assert.Empty(t, s)

	assert.Error(t, s.Scan(42))
}
