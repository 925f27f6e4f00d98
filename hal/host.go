//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// LCD panel geometry (STM32F429I Discovery).
const (
	LCDWidth  = 240
	LCDHeight = 320
)

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	serial *hostSerial
	fb     *hostFramebuffer
	t      *hostTime
	rtc    *SoftRTC
	button *hostButton
}

// New returns a host HAL implementation. Log lines go to stderr and the UART
// to stdout.
func New() HAL {
	return newHost(os.Stderr, os.Stdout)
}

func newHost(logOut, serialOut io.Writer) *hostHAL {
	logger := &hostLogger{w: logOut}
	t := newHostTime()
	rtc := NewSoftRTC(TimeOfDay{}, 1000)
	t.onTick = rtc.Observe
	return &hostHAL{
		logger: logger,
		led:    &hostLED{logger: logger},
		serial: &hostSerial{r: os.Stdin, w: serialOut},
		fb:     newHostFramebuffer(LCDWidth, LCDHeight),
		t:      t,
		rtc:    rtc,
		button: &hostButton{},
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) Serial() Serial   { return h.serial }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) RTC() RTC         { return h.rtc }
func (h *hostHAL) Button() Button   { return h.button }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() { l.set(true) }
func (l *hostLED) Low()  { l.set(false) }

func (l *hostLED) Toggle() {
	l.mu.Lock()
	on := !l.on
	l.mu.Unlock()
	l.set(on)
}

func (l *hostLED) On() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}

func (l *hostLED) set(on bool) {
	l.mu.Lock()
	l.on = on
	l.mu.Unlock()
	if on {
		l.logger.WriteLineString("led: HIGH")
	} else {
		l.logger.WriteLineString("led: LOW")
	}
}
