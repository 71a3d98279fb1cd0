package engineerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesKind(t *testing.T) {
	err := New(KindBusy, "pipeline not awaiting input")
	assert.True(t, Is(err, KindBusy))
	assert.False(t, Is(err, KindConfig))
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := errors.New("network timeout")
	err := Wrap(KindProvider, "anthropic", "render failed", cause)

	assert.True(t, Is(err, KindProvider))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "anthropic")
	assert.Contains(t, err.Error(), "network timeout")
}

func TestIsFalseForPlainError(t *testing.T) {
	assert.False(t, Is(errors.New("plain"), KindBusy))
}

func TestKindStringNames(t *testing.T) {
	assert.Equal(t, "Config", KindConfig.String())
	assert.Equal(t, "EntityNotFound", KindEntityNotFound.String())
}
