package hal

import (
	"fmt"
	"strconv"
	"strings"
)

const secondsPerDay = 24 * 60 * 60

// TimeOfDay is a 24-hour wall-clock time as kept by the RTC.
type TimeOfDay struct {
	Hours   uint8
	Minutes uint8
	Seconds uint8
}

// ParseTimeOfDay parses "HH:MM:SS" (or "HH:MM").
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("time of day %q: want HH:MM[:SS]", s)
	}
	limits := []int{23, 59, 59}
	var v [3]uint8
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return TimeOfDay{}, fmt.Errorf("time of day %q: bad field %q", s, p)
		}
		v[i] = uint8(n)
	}
	return TimeOfDay{Hours: v[0], Minutes: v[1], Seconds: v[2]}, nil
}

func timeOfDayFromSeconds(sec uint32) TimeOfDay {
	sec %= secondsPerDay
	return TimeOfDay{
		Hours:   uint8(sec / 3600),
		Minutes: uint8(sec / 60 % 60),
		Seconds: uint8(sec % 60),
	}
}

// SecondOfDay returns the number of seconds since midnight.
func (t TimeOfDay) SecondOfDay() uint32 {
	return uint32(t.Hours)*3600 + uint32(t.Minutes)*60 + uint32(t.Seconds)
}

// Valid reports whether every field is in range.
func (t TimeOfDay) Valid() bool {
	return t.Hours < 24 && t.Minutes < 60 && t.Seconds < 60
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}
