package cache

import "sync"

// Lazy holds a single value built on first use and reused until Reset.
// A failed build is not cached; the next Get tries again.
type Lazy[T any] struct {
	mu    sync.Mutex
	build func() (T, error)
	value T
	ready bool
}

func NewLazy[T any](build func() (T, error)) *Lazy[T] {
	return &Lazy[T]{build: build}
}

func (l *Lazy[T]) Get() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ready {
		return l.value, nil
	}

	v, err := l.build()
	if err != nil {
		var zero T
		return zero, err
	}
	l.value = v
	l.ready = true
	return v, nil
}

// Loaded returns the held value without building it.
func (l *Lazy[T]) Loaded() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.ready
}

// Reset drops the held value. Intended for tests and for swapping backends.
func (l *Lazy[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	l.value = zero
	l.ready = false
}

// Keyed holds one lazily built value per key.
type Keyed[K comparable, V any] struct {
	mu      sync.Mutex
	build   func(K) (V, error)
	entries map[K]V
}

func NewKeyed[K comparable, V any](build func(K) (V, error)) *Keyed[K, V] {
	return &Keyed[K, V]{
		build:   build,
		entries: make(map[K]V),
	}
}

func (k *Keyed[K, V]) Get(key K) (V, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if v, ok := k.entries[key]; ok {
		return v, nil
	}

	v, err := k.build(key)
	if err != nil {
		var zero V
		return zero, err
	}
	k.entries[key] = v
	return v, nil
}

func (k *Keyed[K, V]) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

func (k *Keyed[K, V]) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.entries = make(map[K]V)
}
