package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyStringIsZero(t *testing.T) {
	assert.Equal(t, uint32(0), Estimate(""))
	assert.Equal(t, uint32(0), Estimate("   "))
}

func TestSingleWord(t *testing.T) {
	assert.GreaterOrEqual(t, Estimate("hello"), uint32(1))
}

func TestTypicalSentence(t *testing.T) {
	text := "The Wolf's ear flicks, a small involuntary motion."
	got := Estimate(text)
	assert.True(t, got >= 8 && got <= 20, "got %d", got)
}

func TestLongerPassage(t *testing.T) {
	text := "Literary fiction, present tense, close third person. " +
		"Your reference is Marilynne Robinson, not Dungeons and Dragons. " +
		"Compression: every sentence earns its place."
	got := Estimate(text)
	assert.True(t, got >= 20 && got <= 50, "got %d", got)
}

func TestExactDivisionRoundsUp(t *testing.T) {
	// 3 words -> 3*4/3 = 4 exactly, no rounding needed.
	assert.Equal(t, uint32(4), Estimate("one two three"))
	// 1 word -> ceil(4/3) = 2.
	assert.Equal(t, uint32(2), Estimate("one"))
}
