package task

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrBusy is returned when a task is already running
var ErrBusy = errors.New("another operation is already running")

// Func is the body of a task. It should return promptly once ctx is cancelled.
type Func func(ctx context.Context)

// Info describes a running task
type Info struct {
	ID   string
	Name string
}

// Runner runs at most one task at a time
type Runner struct {
	mu       sync.Mutex
	parent   context.Context
	current  *Info
	cancel   context.CancelFunc
	done     chan struct{}
	onChange func(busy bool)
}

// NewRunner creates a runner whose tasks derive from parent
func NewRunner(parent context.Context) *Runner {
	if parent == nil {
		parent = context.Background()
	}
	return &Runner{parent: parent}
}

// OnChange registers fn to be called when the runner becomes busy or idle.
// fn runs on the goroutine that caused the change.
func (r *Runner) OnChange(fn func(busy bool)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Start launches fn in its own goroutine, or returns ErrBusy
func (r *Runner) Start(name string, fn Func) (Info, error) {
	r.mu.Lock()
	if r.current != nil {
		r.mu.Unlock()
		return Info{}, ErrBusy
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	info := Info{ID: id.String(), Name: name}
	ctx, cancel := context.WithCancel(r.parent)
	done := make(chan struct{})

	r.current = &info
	r.cancel = cancel
	r.done = done
	notify := r.onChange
	r.mu.Unlock()

	if notify != nil {
		notify(true)
	}

	go func() {
		defer func() {
			cancel()

			r.mu.Lock()
			r.current = nil
			r.cancel = nil
			r.done = nil
			notify := r.onChange
			r.mu.Unlock()

			if notify != nil {
				notify(false)
			}
			close(done)
		}()
		fn(ctx)
	}()

	return info, nil
}

// Busy reports whether a task is running
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil
}

// Current returns the running task, if any
func (r *Runner) Current() (Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return Info{}, false
	}
	return *r.current, true
}

// Cancel cancels the running task without waiting for it
func (r *Runner) Cancel() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the running task finishes or ctx is done
func (r *Runner) Wait(ctx context.Context) error {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown cancels the running task and waits for it to return
func (r *Runner) Shutdown(ctx context.Context) error {
	r.Cancel()
	return r.Wait(ctx)
}
