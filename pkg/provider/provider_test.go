package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopReturnsEmptyResultNoError(t *testing.T) {
	var p Noop
	res, err := p.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Zero(t, res)
}

type fakeProvider struct {
	res Result
	err error
}

func (f fakeProvider) Complete(context.Context, Request) (Result, error) {
	return f.res, f.err
}

func TestLoggingForwardsResultAndRecordsSink(t *testing.T) {
	var gotChars int
	var gotTokens uint32
	var gotErr error

	l := Logging{
		Inner: fakeProvider{res: Result{Text: "hi", TokensUsed: 5}},
		Sink: func(chars int, tokens uint32, err error) {
			gotChars = chars
			gotTokens = tokens
			gotErr = err
		},
	}

	res, err := l.Complete(context.Background(), Request{SystemPrompt: "sys", Messages: []Message{{Content: "abc"}}})
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Text)
	assert.Equal(t, uint32(5), gotTokens)
	assert.Equal(t, 6, gotChars) // "sys"(3) + "abc"(3)
	assert.NoError(t, gotErr)
}

func TestLoggingRecordsErrorFromInner(t *testing.T) {
	wantErr := errors.New("boom")
	l := Logging{Inner: fakeProvider{err: wantErr}}
	var gotErr error
	l.Sink = func(_ int, _ uint32, err error) { gotErr = err }

	_, err := l.Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, wantErr)
	assert.ErrorIs(t, gotErr, wantErr)
}
