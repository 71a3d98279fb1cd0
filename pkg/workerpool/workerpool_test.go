package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClampsNonPositiveToOne(t *testing.T) {
	p := New(0)
	assert.Equal(t, 1, p.workers)

	p = New(-5)
	assert.Equal(t, 1, p.workers)
}

func TestRunExecutesAllTasks(t *testing.T) {
	p := New(4)
	var count int32
	tasks := make([]func(context.Context) error, 10)
	for i := range tasks {
		tasks[i] = func(context.Context) error {
			atomic.AddInt32(&count, 1)
			return nil
		}
	}

	err := p.Run(context.Background(), tasks)
	require.NoError(t, err)
	assert.Equal(t, int32(10), count)
}

func TestRunPropagatesFirstError(t *testing.T) {
	p := New(2)
	wantErr := errors.New("boom")
	tasks := []func(context.Context) error{
		func(context.Context) error { return nil },
		func(context.Context) error { return wantErr },
	}

	err := p.Run(context.Background(), tasks)
	assert.ErrorIs(t, err, wantErr)
}

func TestMapPreservesInputOrder(t *testing.T) {
	p := New(3)
	items := []int{1, 2, 3, 4, 5}

	results, err := Map(context.Background(), p, items, func(_ context.Context, n int) (int, error) {
		return n * n, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 4, 9, 16, 25}, results)
}

func TestMapPropagatesError(t *testing.T) {
	p := New(3)
	items := []int{1, 2, 3}
	wantErr := errors.New("bad item")

	_, err := Map(context.Background(), p, items, func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, wantErr
		}
		return n, nil
	})

	assert.ErrorIs(t, err, wantErr)
}
