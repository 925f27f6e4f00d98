package hal

import "sync"

// SoftRTC is a time-of-day clock counted from the HAL tick stream.
//
// Observe is the tick interrupt: it advances the clock and fires the alarm
// when the time of day crosses it. The alarm matches every day (the date
// is masked).
type SoftRTC struct {
	mu sync.Mutex

	ticksPerSecond uint64

	base     uint32 // seconds of day at baseTick
	baseTick uint64
	tick     uint64
	lastSec  uint32

	alarmSet bool
	alarm    uint32
	alarmFn  func()
}

// NewSoftRTC returns an RTC at start, counting ticksPerSecond ticks per second.
func NewSoftRTC(start TimeOfDay, ticksPerSecond uint64) *SoftRTC {
	if ticksPerSecond == 0 {
		ticksPerSecond = 1000
	}
	sec := start.SecondOfDay() % secondsPerDay
	return &SoftRTC{ticksPerSecond: ticksPerSecond, base: sec, lastSec: sec}
}

func (r *SoftRTC) secondLocked() uint32 {
	elapsed := (r.tick - r.baseTick) / r.ticksPerSecond
	return uint32((uint64(r.base) + elapsed) % secondsPerDay)
}

// Now returns the current time of day.
func (r *SoftRTC) Now() TimeOfDay {
	r.mu.Lock()
	defer r.mu.Unlock()
	return timeOfDayFromSeconds(r.secondLocked())
}

// SetTime sets the time of day. It does not fire the alarm.
func (r *SoftRTC) SetTime(t TimeOfDay) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.base = t.SecondOfDay() % secondsPerDay
	r.baseTick = r.tick
	r.lastSec = r.base
}

// SetAlarm arms the alarm. fn runs on the goroutine calling Observe.
func (r *SoftRTC) SetAlarm(at TimeOfDay, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alarmSet = fn != nil
	r.alarm = at.SecondOfDay() % secondsPerDay
	r.alarmFn = fn
}

// ClearAlarm disarms the alarm.
func (r *SoftRTC) ClearAlarm() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alarmSet = false
	r.alarmFn = nil
}

// Observe advances the RTC to tick seq. Stale values are ignored.
func (r *SoftRTC) Observe(seq uint64) {
	r.mu.Lock()
	if seq <= r.tick {
		r.mu.Unlock()
		return
	}
	r.tick = seq
	sec := r.secondLocked()
	passed := (sec + secondsPerDay - r.lastSec) % secondsPerDay
	var fire func()
	if r.alarmSet && passed > 0 {
		until := (r.alarm + secondsPerDay - r.lastSec) % secondsPerDay
		if until > 0 && until <= passed {
			fire = r.alarmFn
		}
	}
	r.lastSec = sec
	r.mu.Unlock()

	if fire != nil {
		fire()
	}
}
