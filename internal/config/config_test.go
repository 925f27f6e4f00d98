package config

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronos/hal"
)

func TestLoadEmptyPathIsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "16:00:05", cfg.AlarmTime.String())
}

func TestParseOverrides(t *testing.T) {
	src := `
start_time = "07:59:50"
alarm_time = hms(8, 0)
display_period = ticks_per_second // 2
alarm_poll_period = 50
capacity = 4
log_level = "debug"
`
	cfg, err := Parse("test.star", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, hal.TimeOfDay{Hours: 7, Minutes: 59, Seconds: 50}, cfg.StartTime)
	assert.Equal(t, hal.TimeOfDay{Hours: 8}, cfg.AlarmTime)
	assert.Equal(t, uint32(500), cfg.DisplayPeriod)
	assert.Equal(t, uint32(50), cfg.AlarmPollPeriod)
	assert.Equal(t, 4, cfg.Capacity)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel)
}

func TestParseKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Parse("test.star", []byte(`alarm_time = "16:00:30"`))
	require.NoError(t, err)
	want := Default()
	want.AlarmTime = hal.TimeOfDay{Hours: 16, Seconds: 30}
	assert.Equal(t, want, cfg)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"syntax":        `start_time = `,
		"time type":     `start_time = 5`,
		"time value":    `alarm_time = "25:00:00"`,
		"hms range":     `alarm_time = hms(12, 61)`,
		"period":        `display_period = 0`,
		"period type":   `alarm_poll_period = "fast"`,
		"capacity":      `capacity = -1`,
		"log level":     `log_level = "loud"`,
		"log type":      `log_level = 3`,
		"runtime error": `x = 1 // 0`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse("bad.star", []byte(src))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clock.star")
	require.NoError(t, os.WriteFile(path, []byte(`capacity = 3`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Capacity)

	_, err = Load(filepath.Join(t.TempDir(), "missing.star"))
	assert.Error(t, err)
}
