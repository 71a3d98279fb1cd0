package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProducesStrictlyOrderedIDs(t *testing.T) {
	prev := New()
	for i := 0; i < 500; i++ {
		next := New()
		assert.True(t, prev.Less(next), "expected %s < %s", prev, next)
		prev = next
	}
}

func TestNewNeverProducesNil(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.False(t, New().IsNil())
	}
}

func TestParseRoundTrip(t *testing.T) {
	original := New()
	parsed, err := Parse(original.String())
	assert.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestMarshalUnmarshalText(t *testing.T) {
	original := New()
	text, err := original.MarshalText()
	assert.NoError(t, err)

	var decoded ID
	assert.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, original, decoded)
}

func TestNilIsZeroValue(t *testing.T) {
	var zero ID
	assert.True(t, zero.IsNil())
	assert.True(t, zero.IsNil() == Nil.IsNil())
}
