// Package async provides a single-value asynchronous handle.
//
// A Future holds work that produces one value or one error. Nothing runs until the
// future is started, either explicitly with Start or implicitly by Done, Await, or a
// chained stage being started. Once started the work runs on its own goroutine and the
// starter returns immediately.
package async

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
)

// PanicError is returned when the work behind a Future panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("async work panicked: %v", p.Value)
}

// Future is a lazily started, single-value result.
type Future[T any] struct {
	once sync.Once
	run  func() (T, error)
	done chan struct{}
	val  T
	err  error
}

// New wraps run in a Future. run executes at most once, on first start.
func New[T any](run func() (T, error)) *Future[T] {
	return &Future[T]{run: run, done: make(chan struct{})}
}

// Resolved returns a completed Future holding v.
func Resolved[T any](v T) *Future[T] {
	return completed(v, nil)
}

// Failed returns a completed Future holding err.
func Failed[T any](err error) *Future[T] {
	var zero T
	return completed(zero, err)
}

func completed[T any](v T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), val: v, err: err}
	f.once.Do(func() {})
	close(f.done)
	return f
}

// Start begins the work if it has not started yet and returns f.
func (f *Future[T]) Start() *Future[T] {
	f.once.Do(func() {
		go f.execute()
	})
	return f
}

func (f *Future[T]) execute() {
	defer close(f.done)
	defer func() {
		if r := recover(); r != nil {
			var zero T
			f.val = zero
			f.err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	f.val, f.err = f.run()
}

// Done starts the future and returns a channel closed on completion.
func (f *Future[T]) Done() <-chan struct{} {
	f.Start()
	return f.done
}

// Await starts the future and waits for its outcome or for ctx to end.
// Leaving early does not stop the underlying work.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-f.Done():
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// wait blocks until completion; used by chained stages.
func (f *Future[T]) wait() (T, error) {
	<-f.Done()
	return f.val, f.err
}

// Then chains fn onto a successful outcome of f. Errors from f skip fn.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	return New(func() (U, error) {
		v, err := f.wait()
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v)
	})
}

// Catch replaces an error outcome of f with the error returned by fn.
func Catch[T any](f *Future[T], fn func(error) error) *Future[T] {
	return New(func() (T, error) {
		v, err := f.wait()
		if err != nil {
			var zero T
			return zero, fn(err)
		}
		return v, nil
	})
}

// OnSuccess runs fn for a successful outcome without changing it.
func OnSuccess[T any](f *Future[T], fn func(T)) *Future[T] {
	return New(func() (T, error) {
		v, err := f.wait()
		if err == nil {
			fn(v)
		}
		return v, err
	})
}
