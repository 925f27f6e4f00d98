package hal

import (
	"bytes"
	"errors"
	"io"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a single output pin driving an indicator.
type LED interface {
	High()
	Low()
	Toggle()
	On() bool
}

// Serial is the board UART.
type Serial interface {
	io.ReadWriter
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Time provides a base tick stream, one tick per millisecond.
//
// Each value is the absolute tick sequence number, so a consumer that misses
// values can still catch up.
type Time interface {
	Ticks() <-chan uint64
}

// RTC is the real-time clock. The alarm callback runs in tick context and
// must only set flags.
type RTC interface {
	Now() TimeOfDay
	SetTime(t TimeOfDay)
	SetAlarm(at TimeOfDay, fn func())
	ClearAlarm()
}

// Button is the user push button. Pressed reports and clears a latched press.
type Button interface {
	Pressed() bool
}

// HAL provides the only contact point between the kernel's threads and the
// outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	Serial() Serial
	Display() Display
	Time() Time
	RTC() RTC
	Button() Button
}

// LineWriter adapts a Logger to io.Writer, emitting one log line per
// newline-terminated chunk.
type LineWriter struct {
	Logger Logger
	buf    []byte
}

func (w *LineWriter) Write(p []byte) (int, error) {
	if w.Logger == nil {
		return len(p), nil
	}
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.Logger.WriteLineBytes(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	if len(w.buf) == 0 {
		w.buf = nil
	}
	return len(p), nil
}
