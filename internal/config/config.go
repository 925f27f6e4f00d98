// Package config loads the application configuration from a Starlark file.
//
// The file is an ordinary Starlark module; after it runs, these globals
// are read (all optional):
//
//	start_time        = "16:00:00"     # RTC time at boot
//	alarm_time        = hms(16, 0, 5)  # RTC alarm, matched every day
//	display_period    = 1000           # ticks between time displays
//	alarm_poll_period = 100            # ticks between alarm flag polls
//	capacity          = 8              # thread table capacity
//	log_level         = "info"
//
// The predeclared names are hms(h, m, s) and ticks_per_second.
package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"chronos/hal"
)

// TicksPerSecond is the HAL tick rate.
const TicksPerSecond = 1000

// Config is the application configuration.
type Config struct {
	StartTime       hal.TimeOfDay
	AlarmTime       hal.TimeOfDay
	DisplayPeriod   uint32
	AlarmPollPeriod uint32
	Capacity        int
	LogLevel        log.Level
}

// Default mirrors the firmware's fixed setup: boot at 16:00:00 with the
// alarm five seconds later.
func Default() Config {
	return Config{
		StartTime:       hal.TimeOfDay{Hours: 16},
		AlarmTime:       hal.TimeOfDay{Hours: 16, Seconds: 5},
		DisplayPeriod:   1000,
		AlarmPollPeriod: 100,
		Capacity:        8,
		LogLevel:        log.InfoLevel,
	}
}

// Load reads and evaluates a configuration file. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(path, src)
}

// Parse evaluates src as a configuration module named filename.
func Parse(filename string, src []byte) (Config, error) {
	cfg := Default()

	thread := &starlark.Thread{Name: "config"}
	predeclared := starlark.StringDict{
		"hms":              starlark.NewBuiltin("hms", hms),
		"ticks_per_second": starlark.MakeInt(TicksPerSecond),
	}
	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, filename, src, predeclared)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := timeOfDay(globals, "start_time", &cfg.StartTime); err != nil {
		return Config{}, err
	}
	if err := timeOfDay(globals, "alarm_time", &cfg.AlarmTime); err != nil {
		return Config{}, err
	}
	if err := period(globals, "display_period", &cfg.DisplayPeriod); err != nil {
		return Config{}, err
	}
	if err := period(globals, "alarm_poll_period", &cfg.AlarmPollPeriod); err != nil {
		return Config{}, err
	}
	if v, ok := globals["capacity"]; ok {
		n, err := starlark.AsInt32(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("config: capacity: want positive int, got %s", v)
		}
		cfg.Capacity = n
	}
	if v, ok := globals["log_level"]; ok {
		s, ok := starlark.AsString(v)
		if !ok {
			return Config{}, fmt.Errorf("config: log_level: want string, got %s", v.Type())
		}
		lvl, err := log.ParseLevel(s)
		if err != nil {
			return Config{}, fmt.Errorf("config: log_level: %w", err)
		}
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

func timeOfDay(globals starlark.StringDict, key string, dst *hal.TimeOfDay) error {
	v, ok := globals[key]
	if !ok {
		return nil
	}
	s, ok := starlark.AsString(v)
	if !ok {
		return fmt.Errorf("config: %s: want \"HH:MM:SS\", got %s", key, v.Type())
	}
	tod, err := hal.ParseTimeOfDay(s)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = tod
	return nil
}

func period(globals starlark.StringDict, key string, dst *uint32) error {
	v, ok := globals[key]
	if !ok {
		return nil
	}
	n, err := starlark.AsInt32(v)
	if err != nil || n <= 0 {
		return fmt.Errorf("config: %s: want positive tick count, got %s", key, v)
	}
	*dst = uint32(n)
	return nil
}

func hms(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var h, m, s int
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &h, &m, &s); err != nil {
		return nil, err
	}
	tod := hal.TimeOfDay{Hours: uint8(h), Minutes: uint8(m), Seconds: uint8(s)}
	if h < 0 || m < 0 || s < 0 || !tod.Valid() {
		return nil, fmt.Errorf("%s: %d:%d:%d out of range", b.Name(), h, m, s)
	}
	return starlark.String(tod.String()), nil
}
