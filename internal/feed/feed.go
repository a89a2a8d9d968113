// Package feed provides a latest-value publish/subscribe primitive. Every
// mutation in the core publishes a fully-formed snapshot; subscribers read
// the most recent one and are never able to observe a torn state.
package feed

import "sync"

// Feed fans a value out to any number of subscribers. Each subscriber owns
// a buffered channel that always holds the newest published value: a slow
// reader is skipped ahead, never blocks the publisher.
type Feed[T any] struct {
	mu     sync.Mutex
	subs   map[int]chan T
	nextID int
	last   T
	seeded bool
}

func New[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[int]chan T)}
}

// Publish replaces the current value for every subscriber.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = v
	f.seeded = true
	for _, ch := range f.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

// Subscribe returns a channel primed with the latest value (if any) and a
// cancel function. Cancel is idempotent.
func (f *Feed[T]) Subscribe() (<-chan T, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	ch := make(chan T, 1)
	if f.seeded {
		ch <- f.last
	}
	f.subs[id] = ch

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.subs[id]; ok {
			delete(f.subs, id)
		}
	}
	return ch, cancel
}

// Latest returns the most recently published value.
func (f *Feed[T]) Latest() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last, f.seeded
}
