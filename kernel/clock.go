package kernel

import "sync"

// Clock is a monotonic tick counter. One tick is one period of the external
// tick source (1 ms on both HALs).
//
// Only the tick source advances it, through Tick or TickTo. Everything else
// reads it or waits on it.
type Clock struct {
	mu    sync.Mutex
	cond  *sync.Cond
	ticks uint64
}

// NewClock returns a clock at tick zero.
func NewClock() *Clock {
	c := &Clock{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Now returns the current tick count.
func (c *Clock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// Tick advances the counter by one and returns the new value.
func (c *Clock) Tick() uint64 {
	c.mu.Lock()
	c.ticks++
	now := c.ticks
	c.mu.Unlock()
	c.cond.Broadcast()
	return now
}

// TickTo advances the counter to seq. Values at or below the current count
// are ignored, so a lagging or repeated sequence never moves time backward.
func (c *Clock) TickTo(seq uint64) {
	c.mu.Lock()
	if seq <= c.ticks {
		c.mu.Unlock()
		return
	}
	c.ticks = seq
	c.mu.Unlock()
	c.cond.Broadcast()
}

// WaitTick blocks until the counter moves past after and returns the new value.
func (c *Clock) WaitTick(after uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.ticks <= after {
		c.cond.Wait()
	}
	return c.ticks
}

// Delay blocks the caller until at least ticks increments have been observed
// since the call began.
//
// There is one execution context: a Delay inside a thread entry also holds
// up the dispatcher, and nothing can cut a pending Delay short.
func (c *Clock) Delay(ticks uint32) {
	if ticks == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	target := c.ticks + uint64(ticks)
	for c.ticks < target {
		c.cond.Wait()
	}
}

// Yield gives up one tick. With no other context to switch to it is a
// one-tick Delay.
func (c *Clock) Yield() {
	c.Delay(1)
}

// waitFor waits for ticks increments or until abort reports true. abort is
// evaluated with the clock lock held and re-checked after every wake.
func (c *Clock) waitFor(ticks uint64, abort func() bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	target := c.ticks + ticks
	for c.ticks < target {
		if abort() {
			return false
		}
		c.cond.Wait()
	}
	return true
}

// wake releases every waiter so it can re-check its abort condition.
func (c *Clock) wake() {
	c.mu.Lock()
	c.cond.Broadcast()
	c.mu.Unlock()
}
