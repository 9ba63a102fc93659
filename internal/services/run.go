package services

import (
	"context"
	"time"
)

// Run is the real-time driver: it sleeps until the earliest queued step
// is due, fires everything due, and goes back to sleep. Commands that
// change the queue poke the wake channel so the loop re-reads the head.
// Run returns when ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	for {
		var timerC <-chan time.Time
		var timer *time.Timer

		if due, ok := e.nextDue(); ok {
			wait := due.Sub(e.clock.Now())
			if wait < 0 {
				wait = 0
			}
			timer = time.NewTimer(wait)
			timerC = timer.C
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-e.wake:
			if timer != nil {
				timer.Stop()
			}
		case <-timerC:
			e.Advance(e.clock.Now())
		}
	}
}
