package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftRTCCountsSeconds(t *testing.T) {
	r := NewSoftRTC(TimeOfDay{Hours: 16}, 1000)
	r.Observe(999)
	assert.Equal(t, "16:00:00", r.Now().String())
	r.Observe(1000)
	assert.Equal(t, "16:00:01", r.Now().String())
	r.Observe(61_000)
	assert.Equal(t, "16:01:01", r.Now().String())
}

func TestSoftRTCWrapsAtMidnight(t *testing.T) {
	r := NewSoftRTC(TimeOfDay{Hours: 23, Minutes: 59, Seconds: 59}, 1)
	r.Observe(1)
	assert.Equal(t, TimeOfDay{}, r.Now())
}

func TestSoftRTCAlarmFiresOnce(t *testing.T) {
	r := NewSoftRTC(TimeOfDay{Hours: 16}, 1000)
	fired := 0
	r.SetAlarm(TimeOfDay{Hours: 16, Seconds: 5}, func() { fired++ })

	for seq := uint64(1); seq <= 10_000; seq++ {
		r.Observe(seq)
		if seq < 5000 {
			require.Zero(t, fired, "alarm fired early at tick %d", seq)
		}
	}
	assert.Equal(t, 1, fired)
}

func TestSoftRTCAlarmFiresAcrossSkippedTicks(t *testing.T) {
	r := NewSoftRTC(TimeOfDay{Hours: 16}, 1000)
	fired := 0
	r.SetAlarm(TimeOfDay{Hours: 16, Seconds: 5}, func() { fired++ })

	r.Observe(3000)
	r.Observe(9000)
	assert.Equal(t, 1, fired)
}

func TestSoftRTCClearAlarm(t *testing.T) {
	r := NewSoftRTC(TimeOfDay{}, 1)
	fired := false
	r.SetAlarm(TimeOfDay{Seconds: 2}, func() { fired = true })
	r.ClearAlarm()
	r.Observe(5)
	assert.False(t, fired)
}

func TestSoftRTCSetTime(t *testing.T) {
	r := NewSoftRTC(TimeOfDay{}, 1000)
	r.Observe(5000)
	r.SetTime(TimeOfDay{Hours: 8, Minutes: 30})
	assert.Equal(t, "08:30:00", r.Now().String())
	r.Observe(7000)
	assert.Equal(t, "08:30:02", r.Now().String())
	r.Observe(6000)
	assert.Equal(t, "08:30:02", r.Now().String(), "stale ticks are ignored")
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("16:00:05")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hours: 16, Seconds: 5}, tod)

	tod, err = ParseTimeOfDay(" 7:15 ")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hours: 7, Minutes: 15}, tod)

	for _, bad := range []string{"", "16", "24:00:00", "12:60", "aa:bb", "1:2:3:4"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}
