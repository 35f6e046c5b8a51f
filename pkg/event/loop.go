// Package event provides the single-threaded cooperative loop that owns all
// painting state.
//
// Every mutation of a studio happens inside a task run by [Loop.Run]. Work
// that would suspend (image decoding, stencil fetching) runs on its own
// goroutine via [Go] and posts its continuation back to the loop, so state
// is never touched concurrently and needs no locks.
//
// There is no cancellation: a continuation posted by background work always
// runs, even if a later request superseded it. Once Run returns the loop is
// stopped for good: queued and later tasks are dropped, and Do reports false.
package event

import (
	"context"
	"sync"
)

// Loop is an unbounded FIFO task queue drained by a single goroutine.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	pending sync.WaitGroup

	closed  bool
	stopped chan struct{}
}

// NewLoop creates an idle loop. Call Run to start draining it.
func NewLoop() *Loop {
	return &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

// Post enqueues fn. It never blocks and may be called from any goroutine,
// including from inside a running task. It reports false, dropping fn, once
// the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.pending.Add(1)
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Run drains the queue until ctx is done. Tasks still queued when ctx ends
// are dropped, and the loop cannot be run again.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()
	for {
		for fn := l.next(); fn != nil; fn = l.next() {
			l.exec(fn)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Do runs fn on the loop and waits for it to return. It reports false
// without running fn if the loop stops first. It must not be called from a
// loop task.
func (l *Loop) Do(fn func()) bool {
	done := make(chan struct{})
	ok := l.Post(func() {
		defer close(done)
		fn()
	})
	if !ok {
		return false
	}
	select {
	case <-done:
		return true
	case <-l.stopped:
		// fn may have finished just as the loop stopped.
		select {
		case <-done:
			return true
		default:
			return false
		}
	}
}

// Settle blocks until no task is queued and no background work started
// with Go is outstanding, or until the loop stops. Continuations posted by
// that work are included.
func (l *Loop) Settle() {
	idle := make(chan struct{})
	go func() {
		l.pending.Wait()
		close(idle)
	}()
	select {
	case <-idle:
	case <-l.stopped:
	}
}

// Stopped is closed when Run returns.
func (l *Loop) Stopped() <-chan struct{} { return l.stopped }

// stop drops whatever is still queued and wakes every waiter.
func (l *Loop) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for range l.queue {
		l.pending.Done()
	}
	l.queue = nil
	close(l.stopped)
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn
}

func (l *Loop) exec(fn func()) {
	defer l.pending.Done()
	fn()
}

// Go runs work on a new goroutine and posts done(result, err) to the loop
// when it returns.
func Go[T any](l *Loop, work func() (T, error), done func(T, error)) {
	l.pending.Add(1)
	go func() {
		defer l.pending.Done()
		v, err := work()
		l.Post(func() { done(v, err) })
	}()
}
