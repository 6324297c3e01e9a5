package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Ticker is the attempt clock driven by ClockWorker. Tick reports whether
// the clock is still running after the tick.
type Ticker interface {
	Tick(ctx context.Context) bool
}

// ClockWorker delivers one tick per interval to an attempt until the
// attempt stops its clock or the context is cancelled.
type ClockWorker struct {
	target   Ticker
	interval time.Duration
	log      zerolog.Logger
}

// NewClockWorker creates a new ClockWorker. A non-positive interval means one second.
func NewClockWorker(target Ticker, interval time.Duration, log zerolog.Logger) *ClockWorker {
	if interval <= 0 {
		interval = time.Second
	}
	return &ClockWorker{
		target:   target,
		interval: interval,
		log:      log.With().Str("component", "clock_worker").Logger(),
	}
}

// Start runs the tick loop and returns when the clock stops. Call in a goroutine.
func (w *ClockWorker) Start(ctx context.Context) {
	w.log.Debug().Dur("interval", w.interval).Msg("Worker started")

	t := time.NewTicker(w.interval)
	defer t.Stop()

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			w.log.Debug().Int("ticks", ticks).Msg("Worker cancelled")
			return
		case <-t.C:
			ticks++
			if !w.target.Tick(ctx) {
				w.log.Debug().Int("ticks", ticks).Msg("Clock stopped, worker exiting")
				return
			}
		}
	}
}
