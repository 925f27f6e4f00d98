//go:build !tinygo

package hal

import "sync"

// hostFramebuffer is the LCD panel as seen by the window runner. Threads
// draw into buf directly; Present publishes a copy for the window to show.
type hostFramebuffer struct {
	*MemFramebuffer

	mu       sync.Mutex
	shown    []byte
	presents uint64
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	mem := NewMemFramebuffer(width, height)
	return &hostFramebuffer{
		MemFramebuffer: mem,
		shown:          make([]byte, len(mem.buf)),
	}
}

func (f *hostFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(f.shown, f.buf)
	f.presents++
	return nil
}

func (f *hostFramebuffer) snapshotRGB565(dst []byte) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.shown)
	return f.presents
}
