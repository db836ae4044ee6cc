package async

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for load to settle")
	}
}

func TestLoadableLoaded(t *testing.T) {
	done := make(chan struct{}, 1)
	l := NewLoadable[int](func() { done <- struct{}{} })

	assert.Equal(t, Loading, l.State())

	l.Start(context.Background(), func(context.Context) (int, error) {
		return 42, nil
	})
	waitFor(t, done)

	v, state, err := l.Get()
	require.NoError(t, err)
	assert.Equal(t, Loaded, state)
	assert.Equal(t, 42, v)
}

func TestLoadableFailed(t *testing.T) {
	done := make(chan struct{}, 1)
	l := NewLoadable[string](func() { done <- struct{}{} })
	boom := errors.New("boom")

	l.Start(context.Background(), func(context.Context) (string, error) {
		return "ignored", boom
	})
	waitFor(t, done)

	v, state, err := l.Get()
	assert.Equal(t, Failed, state)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, v)
}

func TestLoadableSupersedesStaleLoad(t *testing.T) {
	done := make(chan struct{}, 2)
	l := NewLoadable[int](func() { done <- struct{}{} })

	release := make(chan struct{})
	cancelled := make(chan struct{})
	l.Start(context.Background(), func(ctx context.Context) (int, error) {
		<-release
		if ctx.Err() != nil {
			close(cancelled)
		}
		return 1, nil
	})
	l.Start(context.Background(), func(context.Context) (int, error) {
		return 2, nil
	})
	waitFor(t, done)
	close(release)
	waitFor(t, cancelled)

	v, state, _ := l.Get()
	assert.Equal(t, Loaded, state)
	assert.Equal(t, 2, v, "the stale result must not overwrite the newer one")

	select {
	case <-done:
		t.Error("Superseded load should not notify")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLoadableReset(t *testing.T) {
	done := make(chan struct{}, 1)
	l := NewLoadable[int](func() { done <- struct{}{} })
	l.Start(context.Background(), func(context.Context) (int, error) { return 7, nil })
	waitFor(t, done)

	l.Reset()
	v, state, err := l.Get()
	assert.Equal(t, Loading, state)
	assert.Zero(t, v)
	assert.NoError(t, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "loaded", Loaded.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", State(9).String())
}
