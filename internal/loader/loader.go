// Package loader models "fetch on demand, refetch when the key changes" as an
// explicit Idle -> Loading -> Loaded | Failed state machine.
package loader

import (
	"context"
	"fmt"
	"sync"
)

type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Loading:
		return "Loading"
	case Loaded:
		return "Loaded"
	case Failed:
		return "Failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// FetchFunc retrieves the data for key.
type FetchFunc[T any] func(ctx context.Context, key string) (T, error)

// Snapshot is a consistent view of a Loader.
type Snapshot[T any] struct {
	State State
	Key   string
	Data  T
	Err   error
}

// Loader caches one fetched value. A result that arrives after Reset or a key
// change is discarded.
type Loader[T any] struct {
	mu    sync.Mutex
	fetch FetchFunc[T]
	key   string
	state State
	data  T
	err   error
	gen   uint64
}

func New[T any](fetch FetchFunc[T]) *Loader[T] {
	return &Loader[T]{fetch: fetch}
}

// Load returns the cached value when Loaded and fetches otherwise.
func (l *Loader[T]) Load(ctx context.Context) (T, error) {
	l.mu.Lock()
	if l.state == Loaded {
		data := l.data
		l.mu.Unlock()
		return data, nil
	}
	l.mu.Unlock()
	return l.Reload(ctx)
}

// Reload always fetches. The previous data stays visible in Snapshot while Loading.
func (l *Loader[T]) Reload(ctx context.Context) (T, error) {
	l.mu.Lock()
	l.gen++
	gen, key := l.gen, l.key
	l.state = Loading
	l.err = nil
	l.mu.Unlock()

	data, err := l.fetch(ctx, key)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		var zero T
		return zero, context.Canceled
	}
	if err != nil {
		l.state = Failed
		l.err = err
		var zero T
		return zero, err
	}
	l.state = Loaded
	l.data = data
	return data, nil
}

// SetKey changes the dependency key; a different key resets to Idle.
func (l *Loader[T]) SetKey(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if key == l.key {
		return
	}
	l.key = key
	l.resetLocked()
}

// Reset drops cached data and any in-flight result.
func (l *Loader[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resetLocked()
}

func (l *Loader[T]) resetLocked() {
	var zero T
	l.gen++
	l.state = Idle
	l.data = zero
	l.err = nil
}

func (l *Loader[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot[T]{State: l.state, Key: l.key, Data: l.data, Err: l.err}
}

func (l *Loader[T]) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}
