// Package async holds values that are fetched in the background so views
// can render around them instead of blocking.
package async

import (
	"context"
	"sync"
)

// State is the lifecycle of a Loadable
type State int

const (
	Loading State = iota
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Loadable is a value that is loading, loaded or failed. Each Start
// supersedes the previous one: results of older loads are dropped and their
// context is cancelled.
type Loadable[T any] struct {
	mu     sync.Mutex
	state  State
	value  T
	err    error
	gen    uint64
	cancel context.CancelFunc
	notify func()
}

// NewLoadable creates a Loadable in the Loading state. notify is called from
// the loading goroutine whenever a load settles; it must not block.
func NewLoadable[T any](notify func()) *Loadable[T] {
	return &Loadable[T]{notify: notify}
}

// Start runs fn in a new goroutine
func (l *Loadable[T]) Start(ctx context.Context, fn func(context.Context) (T, error)) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.state = Loading
	l.err = nil
	l.mu.Unlock()

	go func() {
		defer cancel()
		value, err := fn(ctx)

		l.mu.Lock()
		if gen != l.gen {
			l.mu.Unlock()
			return
		}
		if err != nil {
			var zero T
			l.value, l.err, l.state = zero, err, Failed
		} else {
			l.value, l.err, l.state = value, nil, Loaded
		}
		l.cancel = nil
		notify := l.notify
		l.mu.Unlock()

		if notify != nil {
			notify()
		}
	}()
}

// Get returns the current value, state and error. The value is only
// meaningful in the Loaded state.
func (l *Loadable[T]) Get() (T, State, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.state, l.err
}

// State returns the current state
func (l *Loadable[T]) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Reset cancels any load in flight and returns to Loading
func (l *Loadable[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
	var zero T
	l.value, l.err, l.state = zero, nil, Loading
}

// Value returns the loaded value and whether it is available
func (l *Loadable[T]) Value() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.state == Loaded
}

// Err returns the error of a failed load
func (l *Loadable[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
