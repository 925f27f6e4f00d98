//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	// Hz is the rate of the runner loop. Each iteration converts elapsed
	// wall time into 1 ms ticks, so Hz only sets the tick batching.
	Hz int
	// Ticks stops the run after that many kernel ticks (0 = run forever).
	Ticks uint64
	// Button reads key presses from the terminal as the user button.
	Button bool
}

// RunHeadless runs the app without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) (App, error), cfg HeadlessConfig) error {
	return runHeadless(ctx, New().(*hostHAL), newApp, cfg)
}

func runHeadless(ctx context.Context, h *hostHAL, newApp func(HAL) (App, error), cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 250
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app, err := newApp(h)
	if err != nil {
		return err
	}

	if cfg.Button {
		h.button.watchTTY(ctx, h.logger, cancel)
	}

	runErr := make(chan error, 1)
	go func() { runErr <- app.Run() }()

	t := time.NewTicker(d)
	defer t.Stop()

	// Ticks keep flowing after Stop: a thread may be inside Delay, and the
	// dispatcher only returns once that invocation does.
	done := ctx.Done()
	var stopErr error
	stopping := false
	for {
		select {
		case err := <-runErr:
			if err != nil {
				return err
			}
			return stopErr
		case <-done:
			done = nil
			stopErr = ctx.Err()
			if !stopping {
				stopping = true
				app.Stop()
			}
		case now := <-t.C:
			h.t.step(now)
			if !stopping && cfg.Ticks > 0 && h.t.seq >= cfg.Ticks {
				stopping = true
				app.Stop()
			}
		}
	}
}

// IsCanceled reports whether err is the context error of an interrupted run.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
