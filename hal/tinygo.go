//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

// LCD panel geometry (STM32F429I Discovery).
const (
	LCDWidth  = 240
	LCDHeight = 320
)

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	serial *machine.UART
	fb     Framebuffer
	t      *tinyGoTime
	rtc    *SoftRTC
	button *pinButton
}

// New returns a board HAL. UART0 runs at 115200 8N1; the on-board LED is the
// alarm indicator and the BUTTON pin, where the board has one, the user
// button. The panel is an in-memory framebuffer; pushing it to the glass
// belongs to the board's display driver.
func New() HAL {
	uart := machine.DefaultUART
	uart.Configure(machine.UARTConfig{BaudRate: 115200})

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	ledPin.Low()

	rtc := NewSoftRTC(TimeOfDay{}, 1000)
	return &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		led:    &pinLED{pin: ledPin},
		serial: uart,
		fb:     NewMemFramebuffer(LCDWidth, LCDHeight),
		t:      newTinyGoTime(rtc.Observe),
		rtc:    rtc,
		button: newPinButton(),
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LED() LED         { return h.led }
func (h *tinyGoHAL) Serial() Serial   { return h.serial }
func (h *tinyGoHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *tinyGoHAL) Time() Time       { return h.t }
func (h *tinyGoHAL) RTC() RTC         { return h.rtc }
func (h *tinyGoHAL) Button() Button   { return h.button }

type tinyGoDisplay struct {
	fb Framebuffer
}

func (d tinyGoDisplay) Framebuffer() Framebuffer { return d.fb }

type tinyGoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoTime(onTick func(uint64)) *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(1 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			onTick(t.seq)
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
	on  bool
}

func (l *pinLED) High()    { l.pin.High(); l.on = true }
func (l *pinLED) Low()     { l.pin.Low(); l.on = false }
func (l *pinLED) On() bool { return l.on }

func (l *pinLED) Toggle() {
	if l.on {
		l.Low()
	} else {
		l.High()
	}
}

// pinButton samples the button pin on each Pressed call and latches the
// released-to-pressed edge.
type pinButton struct {
	pin  machine.Pin
	last bool
}

func newPinButton() *pinButton {
	pin := machine.BUTTON
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return &pinButton{pin: pin}
}

func (b *pinButton) Pressed() bool {
	down := !b.pin.Get()
	edge := down && !b.last
	b.last = down
	return edge
}
