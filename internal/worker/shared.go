package worker

import "sync"

// Shared is a value written by a worker and read by a render path.
// Writers hold the lock only for the duration of fn; readers never block.
type Shared[T any] struct {
	mu    sync.Mutex
	value T
}

// NewShared returns a Shared holding v.
func NewShared[T any](v T) *Shared[T] {
	return &Shared[T]{value: v}
}

// Update runs fn with exclusive access to the value.
func (s *Shared[T]) Update(fn func(v *T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.value)
}

// TryRead runs fn with the value if the lock is free and reports whether it
// did. Used on render paths that must not wait on a worker.
func (s *Shared[T]) TryRead(fn func(v T)) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	fn(s.value)
	return true
}
