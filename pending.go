package md2cards

import (
	"context"
	"time"
)

// Pending is a conversion scheduled to start after a quiet period. Callers
// that reschedule on every edit keep only the newest Pending and cancel the
// one it replaces, so only the last edit is converted.
type Pending struct {
	cancel context.CancelFunc
	done   chan struct{}

	result *Result
	err    error
}

// Schedule starts Convert on input once delay has elapsed, unless the
// returned Pending is cancelled or ctx is done first.
func (c *Converter) Schedule(ctx context.Context, input Input, delay time.Duration) *Pending {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pending{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		defer cancel()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			p.err = ctx.Err()
			return
		case <-timer.C:
		}
		p.result, p.err = c.Convert(ctx, input)
	}()

	return p
}

// Cancel stops the conversion. A run that already started is interrupted at
// its next context check. Cancel may be called more than once.
func (p *Pending) Cancel() {
	p.cancel()
}

// Done is closed when the conversion has finished or was cancelled.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the conversion finishes and returns its outcome. A
// cancelled Pending returns context.Canceled.
func (p *Pending) Wait() (*Result, error) {
	<-p.done
	return p.result, p.err
}
