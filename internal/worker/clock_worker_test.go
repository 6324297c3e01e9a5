package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type countingTicker struct {
	ticks atomic.Int32
	limit int32
}

func (c *countingTicker) Tick(context.Context) bool {
	return c.ticks.Add(1) < c.limit
}

func TestClockWorker_StopsWhenClockStops(t *testing.T) {
	target := &countingTicker{limit: 5}
	w := NewClockWorker(target, time.Millisecond, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not exit after the clock stopped")
	}
	time.Sleep(10 * time.Millisecond)
	if got := target.ticks.Load(); got != 5 {
		t.Errorf("ticks = %d, want 5", got)
	}
}

func TestClockWorker_StopsOnCancel(t *testing.T) {
	target := &countingTicker{limit: 1 << 30}
	w := NewClockWorker(target, time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker ignored cancellation")
	}
	after := target.ticks.Load()
	time.Sleep(10 * time.Millisecond)
	if target.ticks.Load() != after {
		t.Error("ticks delivered after cancellation")
	}
}

func TestNewClockWorker_DefaultInterval(t *testing.T) {
	w := NewClockWorker(&countingTicker{}, 0, zerolog.Nop())
	if w.interval != time.Second {
		t.Errorf("interval = %v, want 1s", w.interval)
	}
}
