// Package worker supervises the background goroutines owned by a screen.
//
// A Task pairs a cancellation signal with the goroutine it runs. Cancel is
// cooperative and idempotent; Stop cancels and then waits, bounded by a
// timeout, for the goroutine to return. Workers blocked in I/O are expected
// to tie the I/O to the task context (for example with context.AfterFunc
// closing a stream) so that cancellation also unblocks them.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/pyaillet/doggy/internal/logging"
)

// StopTimeout bounds how long Stop waits for a cancelled task.
const StopTimeout = 2 * time.Second

// Task is a supervised, cancellable goroutine.
type Task struct {
	name   string
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Spawn starts fn in a new goroutine with a context derived from parent.
func Spawn(parent context.Context, name string, fn func(ctx context.Context)) *Task {
	ctx, cancel := context.WithCancel(parent)
	t := &Task{
		name:   name,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	logging.Debug("Worker", "starting %s", name)
	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				logging.Error("Worker", nil, "%s panicked: %v", name, r)
			}
		}()
		fn(ctx)
	}()

	return t
}

// Name returns the label the task was spawned with.
func (t *Task) Name() string {
	return t.name
}

// Cancel signals the task to stop. Safe to call any number of times.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.once.Do(func() {
		logging.Debug("Worker", "cancelling %s", t.name)
		t.cancel()
	})
}

// Done is closed once the task's goroutine has returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Running reports whether the goroutine has not returned yet.
func (t *Task) Running() bool {
	if t == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Wait blocks until the task returns or the timeout elapses. It reports
// whether the task finished.
func (t *Task) Wait(timeout time.Duration) bool {
	if t == nil {
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-t.done:
		return true
	case <-timer.C:
		return false
	}
}

// Stop cancels the task and waits for it with StopTimeout.
func (t *Task) Stop() bool {
	if t == nil {
		return true
	}
	t.Cancel()
	if !t.Wait(StopTimeout) {
		logging.Warn("Worker", "%s did not stop within %s", t.name, StopTimeout)
		return false
	}
	logging.Debug("Worker", "%s stopped", t.name)
	return true
}

// Sleep waits for d or until ctx is done. It reports false when ctx ended first.
func Sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
