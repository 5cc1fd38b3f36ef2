package alerts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Fanout delivers each alert to every sink concurrently.
type Fanout struct {
	sinks []Sink
}

// NewFanout ignores nil sinks.
func NewFanout(sinks []Sink) *Fanout {
	f := &Fanout{}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// Send waits for every sink and reports how many accepted the alert. Failures are
// joined in sink order.
func (f *Fanout) Send(ctx context.Context, a Alert) (int, error) {
	if f == nil || len(f.sinks) == 0 {
		return 0, nil
	}

	results := make([]error, len(f.sinks))
	var wg sync.WaitGroup
	for i, s := range f.sinks {
		wg.Add(1)
		go func(i int, s Sink) {
			defer wg.Done()
			if err := s.Send(ctx, a); err != nil {
				results[i] = fmt.Errorf("%s sink %q: %w", s.Type(), s.ID(), err)
			}
		}(i, s)
	}
	wg.Wait()

	ok := 0
	for _, err := range results {
		if err == nil {
			ok++
		}
	}
	return ok, errors.Join(results...)
}

// Size is the number of sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

// Close releases sinks that hold connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	return closeAll(f.sinks)
}

func closeAll(sinks []Sink) error {
	var errs []error
	for _, s := range sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s sink %q: %w", s.Type(), s.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}
