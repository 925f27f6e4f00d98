// Package alarm is the thread that reacts to the RTC alarm.
//
// The RTC alarm callback runs in tick context, so it only sets a flag
// (Trigger). The thread polls that flag and does the work.
package alarm

import (
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"chronos/hal"
)

// DefaultPeriod is the number of ticks between polls.
const DefaultPeriod = 100

type Clock interface {
	Now() uint64
}

// Config wires a Task. Button and Log may be nil.
type Config struct {
	LED    hal.LED
	Button hal.Button
	Clock  Clock
	Period uint64
	Log    log.FieldLogger
}

type Task struct {
	cfg   Config
	next  uint64
	armed bool

	triggered atomic.Bool
	handled   atomic.Uint64
}

func New(cfg Config) *Task {
	if cfg.Period == 0 {
		cfg.Period = DefaultPeriod
	}
	if cfg.Log == nil {
		cfg.Log = log.StandardLogger()
	}
	return &Task{cfg: cfg}
}

// Entry is the kernel entry point; arg must be the *Task.
func Entry(arg any) {
	arg.(*Task).Step()
}

// Trigger records an alarm. It is safe to call from tick context.
func (t *Task) Trigger() {
	t.triggered.Store(true)
}

// Pending reports whether an alarm is waiting to be handled.
func (t *Task) Pending() bool {
	return t.triggered.Load()
}

// Handled returns the number of alarms handled so far.
func (t *Task) Handled() uint64 {
	return t.handled.Load()
}

// Step runs one invocation. When a poll is due it handles a pending alarm
// by toggling the LED and clearing the flag, and turns the LED off on a
// button press. It reports whether an alarm was handled.
func (t *Task) Step() bool {
	now := t.cfg.Clock.Now()
	if t.armed && now < t.next {
		return false
	}
	t.armed = true
	t.next = now + t.cfg.Period

	if b := t.cfg.Button; b != nil && b.Pressed() {
		t.cfg.LED.Low()
		t.cfg.Log.WithField("tick", now).Info("[alarm] acknowledged")
	}

	if !t.triggered.Swap(false) {
		return false
	}
	t.cfg.LED.Toggle()
	n := t.handled.Add(1)
	t.cfg.Log.WithFields(log.Fields{
		"tick":  now,
		"count": n,
		"led":   t.cfg.LED.On(),
	}).Info("[alarm] triggered")
	return true
}
