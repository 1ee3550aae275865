package ui

import "sync"

// Sender is the producer side of the action queue.
type Sender interface {
	Send(a Action)
}

// Queue is an unbounded multi-producer, single-consumer action queue.
// Send never blocks, so workers cannot deadlock against the app loop.
type Queue struct {
	mu    sync.Mutex
	items []Action
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Send appends an action.
func (q *Queue) Send(a Action) {
	q.mu.Lock()
	q.items = append(q.items, a)
	q.mu.Unlock()
}

// TryRecv pops the oldest action without waiting.
func (q *Queue) TryRecv() (Action, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	a := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return a, true
}

// Len returns the number of pending actions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
