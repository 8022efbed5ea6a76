package reservation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OpeningHours is the inclusive [Start, End] time-of-day window during which
// a reservation time is acceptable. Values are "HH:MM" strings and come from
// configuration, never from code.
type OpeningHours struct {
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

// Validate checks that both bounds parse and that Start does not come after End.
func (h OpeningHours) Validate() error {
	start, ok := TimeToMinutes(h.Start)
	if !ok {
		return fmt.Errorf("invalid opening hours start: %q", h.Start)
	}
	end, ok := TimeToMinutes(h.End)
	if !ok {
		return fmt.Errorf("invalid opening hours end: %q", h.End)
	}
	if start > end {
		return fmt.Errorf("opening hours start %q after end %q", h.Start, h.End)
	}
	return nil
}

// TimeToMinutes converts "HH:MM" to minutes since midnight.
func TimeToMinutes(value string) (int, bool) {
	hourStr, minuteStr, found := strings.Cut(value, ":")
	if !found || hourStr == "" || minuteStr == "" {
		return 0, false
	}
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil {
		return 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// MinutesToTime formats minutes since midnight back to "HH:MM".
func MinutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinSelectableTime returns the earliest time-of-day the date picker should
// offer for the given date: max(opening start, current time of day) when the
// date is today, otherwise the opening start. The result is clamped to the
// closing time.
func MinSelectableTime(now time.Time, date string, hours OpeningHours) string {
	start, ok := TimeToMinutes(hours.Start)
	if !ok {
		return hours.Start
	}
	end, ok := TimeToMinutes(hours.End)
	if !ok {
		return hours.Start
	}

	if date != now.Format("2006-01-02") {
		return hours.Start
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	min := start
	if nowMinutes > min {
		min = nowMinutes
	}
	if min > end {
		min = end
	}
	return MinutesToTime(min)
}
