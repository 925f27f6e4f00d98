// Package timedisplay is the thread that reports the RTC time on the serial
// port and the LCD.
package timedisplay

import (
	"image/color"
	"io"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"chronos/hal"
)

// DefaultPeriod is the number of ticks between reports.
const DefaultPeriod = 1000

// Clock is the kernel tick counter.
type Clock interface {
	Now() uint64
}

// Printer draws one text line. *lcd.Driver satisfies it.
type Printer interface {
	PrintLine(x, y int16, msg string, c color.RGBA) error
}

// Config wires a Task. LCD and Log may be nil.
type Config struct {
	RTC    hal.RTC
	Serial io.Writer
	LCD    Printer
	Clock  Clock
	Period uint64

	// LineX, LineY and Color place the LCD line.
	LineX, LineY int16
	Color        color.RGBA

	Log log.FieldLogger
}

// Task reports the time once per Period ticks. Each invocation returns
// immediately when the next report is not due yet.
type Task struct {
	cfg     Config
	next    uint64
	armed   bool
	reports atomic.Uint64
}

func New(cfg Config) *Task {
	if cfg.Period == 0 {
		cfg.Period = DefaultPeriod
	}
	if cfg.Log == nil {
		cfg.Log = log.StandardLogger()
	}
	if cfg.Color == (color.RGBA{}) {
		cfg.Color = color.RGBA{G: 0xFF, A: 0xFF}
	}
	return &Task{cfg: cfg}
}

// Entry is the kernel entry point; arg must be the *Task.
func Entry(arg any) {
	arg.(*Task).Step()
}

// Format renders the report line.
func Format(t hal.TimeOfDay) string {
	return "Time: " + t.String() + "\r\n"
}

// Step runs one invocation and reports whether a report was written.
func (t *Task) Step() bool {
	now := t.cfg.Clock.Now()
	if t.armed && now < t.next {
		return false
	}
	t.armed = true
	t.next = now + t.cfg.Period

	msg := Format(t.cfg.RTC.Now())
	if _, err := io.WriteString(t.cfg.Serial, msg); err != nil {
		t.cfg.Log.WithError(err).Warn("[timedisplay] serial write failed")
	}
	if t.cfg.LCD != nil {
		if err := t.cfg.LCD.PrintLine(t.cfg.LineX, t.cfg.LineY, msg[:len(msg)-2], t.cfg.Color); err != nil {
			t.cfg.Log.WithError(err).Warn("[timedisplay] lcd update failed")
		}
	}
	t.reports.Add(1)
	return true
}

// Reports returns the number of reports written.
func (t *Task) Reports() uint64 { return t.reports.Load() }
