package kernel

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestClockTickToIgnoresStale(t *testing.T) {
	c := NewClock()
	c.TickTo(5)
	c.TickTo(3)
	c.TickTo(5)
	if got := c.Now(); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := c.Tick(); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
}

func TestClockDelayWaitsForTicks(t *testing.T) {
	c := NewClock()
	c.TickTo(100)

	done := make(chan uint64, 1)
	go func() {
		c.Delay(3)
		done <- c.Now()
	}()

	// Let the goroutine start waiting, then feed two of the three ticks.
	time.Sleep(5 * time.Millisecond)
	c.Tick()
	c.Tick()
	select {
	case <-done:
		t.Fatal("Delay(3) returned after 2 ticks")
	case <-time.After(10 * time.Millisecond):
	}

	c.Tick()
	select {
	case now := <-done:
		if now < 103 {
			t.Fatalf("expected Delay to end at tick >= 103, got %d", now)
		}
	case <-time.After(time.Second):
		t.Fatal("Delay(3) did not return after 3 ticks")
	}
}

func TestClockDelayZeroReturns(t *testing.T) {
	c := NewClock()
	done := make(chan struct{})
	go func() {
		c.Delay(0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Delay(0) blocked")
	}
}

func TestClockYieldNeedsOneTick(t *testing.T) {
	c := NewClock()
	done := make(chan struct{})
	go func() {
		c.Yield()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Yield returned without a tick")
	case <-time.After(10 * time.Millisecond):
	}
	c.TickTo(1)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Yield did not return after a tick")
	}
}

func TestClockWaitTick(t *testing.T) {
	c := NewClock()
	go func() {
		time.Sleep(2 * time.Millisecond)
		c.TickTo(7)
	}()
	if got := c.WaitTick(0); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestClockIsMonotonicUnderConcurrentTicks(t *testing.T) {
	c := NewClock()
	stop := make(chan struct{})
	go func() {
		for i := uint64(1); ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			c.TickTo(i)
			c.TickTo(i / 2)
		}
	}()
	defer close(stop)

	var last uint64
	for i := 0; i < 10_000; i++ {
		now := c.Now()
		if now < last {
			t.Fatalf("clock went backward: %d after %d", now, last)
		}
		last = now
	}
}

func TestClockWaitForAbort(t *testing.T) {
	c := NewClock()
	var stop atomic.Bool
	done := make(chan bool, 1)
	go func() {
		done <- c.waitFor(10, stop.Load)
	}()

	time.Sleep(5 * time.Millisecond)
	stop.Store(true)
	c.wake()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("expected waitFor to report abort")
		}
	case <-time.After(time.Second):
		t.Fatal("waitFor did not observe abort")
	}
}
