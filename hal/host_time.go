//go:build !tinygo

package hal

import "time"

// hostTime converts elapsed wall time into 1 ms ticks. The runner calls step
// from its loop; that loop is the host's tick interrupt.
type hostTime struct {
	ch  chan uint64
	seq uint64

	last time.Time
	acc  time.Duration

	// onTick observes every sequence number before it is published.
	onTick func(seq uint64)
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

func (t *hostTime) step(now time.Time) {
	if t.last.IsZero() {
		t.last = now
		t.acc = 0
		t.stepN(1)
		return
	}

	t.acc += now.Sub(t.last)
	t.last = now

	const tickDur = time.Millisecond
	ticks := uint64(t.acc / tickDur)
	if ticks == 0 {
		return
	}
	t.acc = t.acc % tickDur
	t.stepN(ticks)
}

func (t *hostTime) stepN(n uint64) {
	for i := uint64(0); i < n; i++ {
		t.seq++
		if t.onTick != nil {
			t.onTick(t.seq)
		}
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}
