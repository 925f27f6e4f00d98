//go:build !tinygo

package hal

import (
	"context"
	"sync/atomic"

	"github.com/mattn/go-tty"
)

const ctrlC = 0x03

type hostButton struct {
	latched atomic.Bool
}

func (b *hostButton) Pressed() bool {
	return b.latched.Swap(false)
}

func (b *hostButton) press() {
	b.latched.Store(true)
}

// watchTTY turns key presses on the controlling terminal into button
// presses until ctx ends. The terminal is in raw mode meanwhile, so Ctrl-C
// is read as a key and reported through interrupt.
func (b *hostButton) watchTTY(ctx context.Context, logger Logger, interrupt func()) {
	t, err := tty.Open()
	if err != nil {
		logger.WriteLineString("button: no tty: " + err.Error())
		return
	}

	go func() {
		<-ctx.Done()
		t.Close()
	}()

	go func() {
		for {
			r, err := t.ReadRune()
			if err != nil {
				return
			}
			if r == ctrlC {
				interrupt()
				return
			}
			b.press()
		}
	}()
}
