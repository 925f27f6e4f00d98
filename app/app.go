// Package app is the RTC alarm firmware: it wires the HAL, the kernel, the
// LCD driver and the two application threads, and pumps HAL ticks into the
// kernel clock.
package app

import (
	"fmt"
	"io"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"chronos/hal"
	"chronos/internal/buildinfo"
	"chronos/internal/config"
	"chronos/kernel"
	"chronos/services/lcd"
	"chronos/tasks/alarm"
	"chronos/tasks/timedisplay"
)

// Banner is written to the serial port before the dispatcher starts.
const Banner = "RTC Alarm System Started!\r\n"

const (
	titleY = 0
	timeX  = 10
	timeY  = 20
)

// App is one running firmware instance.
type App struct {
	h   hal.HAL
	cfg config.Config
	log *log.Logger

	k       *kernel.Kernel
	lcd     *lcd.Driver
	display *timedisplay.Task
	alarm   *alarm.Task

	stopping atomic.Bool
}

var _ hal.App = (*App)(nil)

// New builds the kernel and registers the TimeDisplay and AlarmHandler
// threads. The dispatcher does not run until Run.
func New(h hal.HAL, cfg config.Config) (*App, error) {
	logger := log.New()
	logger.Out = &hal.LineWriter{Logger: h.Logger()}
	logger.Formatter = &log.TextFormatter{DisableColors: true, DisableTimestamp: true}
	logger.Level = cfg.LogLevel

	a := &App{h: h, cfg: cfg, log: logger}

	a.k = kernel.New(
		kernel.WithCapacity(cfg.Capacity),
		kernel.WithLogger(logger),
		kernel.WithPanicHandler(a.onPanic),
	)
	if err := a.k.Initialize(); err != nil {
		return nil, err
	}

	var fb hal.Framebuffer
	if d := h.Display(); d != nil {
		fb = d.Framebuffer()
	}
	a.lcd = lcd.New(fb, a.k)

	a.display = timedisplay.New(timedisplay.Config{
		RTC:    h.RTC(),
		Serial: h.Serial(),
		LCD:    a.lcd,
		Clock:  a.k.Clock(),
		Period: uint64(cfg.DisplayPeriod),
		LineX:  timeX,
		LineY:  timeY,
		Color:  lcd.Green,
		Log:    logger,
	})
	a.alarm = alarm.New(alarm.Config{
		LED:    h.LED(),
		Button: h.Button(),
		Clock:  a.k.Clock(),
		Period: uint64(cfg.AlarmPollPeriod),
		Log:    logger,
	})

	rtc := h.RTC()
	rtc.SetTime(cfg.StartTime)
	rtc.SetAlarm(cfg.AlarmTime, a.alarm.Trigger)

	if _, err := io.WriteString(h.Serial(), Banner); err != nil {
		logger.WithError(err).Warn("[app] banner write failed")
	}
	a.bootScreen()

	threads := []struct {
		entry kernel.Entry
		arg   any
		name  string
	}{
		{timedisplay.Entry, a.display, "TimeDisplay"},
		{alarm.Entry, a.alarm, "AlarmHandler"},
	}
	for _, t := range threads {
		if _, err := a.k.RegisterThread(t.entry, t.arg, &kernel.ThreadAttr{Name: t.name}); err != nil {
			return nil, fmt.Errorf("app: %s: %w", t.name, err)
		}
	}

	logger.WithFields(log.Fields{
		"build": buildinfo.Short(),
		"time":  cfg.StartTime.String(),
		"alarm": cfg.AlarmTime.String(),
	}).Info("[app] ready")
	return a, nil
}

// Run pumps HAL ticks into the kernel clock and runs the dispatcher until
// Stop.
func (a *App) Run() error {
	quit := make(chan struct{})
	defer close(quit)
	if ht := a.h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go a.pump(ch, quit)
		}
	}
	err := a.k.Start()
	a.stopping.Store(false)
	return err
}

// Stop asks Run to return. A Stop that lands before the dispatcher has
// started is repeated on the next tick.
func (a *App) Stop() {
	a.stopping.Store(true)
	a.k.RequestStop()
}

// Kernel returns the dispatcher.
func (a *App) Kernel() *kernel.Kernel { return a.k }

// Alarm returns the AlarmHandler thread state.
func (a *App) Alarm() *alarm.Task { return a.alarm }

// Display returns the TimeDisplay thread state.
func (a *App) Display() *timedisplay.Task { return a.display }

func (a *App) pump(ch <-chan uint64, quit <-chan struct{}) {
	clock := a.k.Clock()
	for {
		select {
		case seq := <-ch:
			clock.TickTo(seq)
			if a.stopping.Load() && a.k.Running() {
				a.k.RequestStop()
			}
		case <-quit:
			return
		}
	}
}
