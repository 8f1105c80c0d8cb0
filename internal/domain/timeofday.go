package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a simulated wall-clock reading, stored as the offset since midnight.
// Routing never crosses midnight, so no date component is carried.
type TimeOfDay time.Duration

// EndOfDay is the deadline used for packages marked "EOD".
const EndOfDay = TimeOfDay(23*time.Hour + 59*time.Minute)

// At builds a TimeOfDay from hour and minute.
func At(hour, minute int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func (t TimeOfDay) Add(d time.Duration) TimeOfDay { return t + TimeOfDay(d) }

func (t TimeOfDay) Before(o TimeOfDay) bool { return t < o }

func (t TimeOfDay) After(o TimeOfDay) bool { return t > o }

// String renders the time as HH:MM:SS.
func (t TimeOfDay) String() string {
	secs := int64(time.Duration(t) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// Short renders the time as HH:MM.
func (t TimeOfDay) Short() string {
	mins := int64(time.Duration(t) / time.Minute)
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// MarshalText lets TimeOfDay travel as "HH:MM:SS" through JSON and YAML.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseTimeOfDay accepts "15:04", "15:04:05", "9:05 am", "10:30 AM" and "EOD".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, fmt.Errorf("parse time of day: empty value")
	}
	if strings.EqualFold(raw, "EOD") {
		return EndOfDay, nil
	}

	lower := strings.ToLower(raw)
	meridiem := ""
	for _, suffix := range []string{"am", "pm"} {
		if strings.HasSuffix(lower, suffix) {
			meridiem = suffix
			lower = strings.TrimSpace(strings.TrimSuffix(lower, suffix))
			break
		}
	}

	parts := strings.Split(lower, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("parse time of day %q: want HH:MM", s)
	}

	fields := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("parse time of day %q: invalid field %q", s, p)
		}
		fields[i] = n
	}
	hour, minute, second := fields[0], fields[1], fields[2]

	switch meridiem {
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("parse time of day %q: hour out of range", s)
		}
		if hour == 12 {
			hour = 0
		}
		if meridiem == "pm" {
			hour += 12
		}
	}

	if hour > 23 || minute > 59 || second > 59 {
		return 0, fmt.Errorf("parse time of day %q: out of range", s)
	}

	return TimeOfDay(time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second), nil
}

// TravelTime converts miles at an average speed into a duration rounded to the second.
func TravelTime(miles, speedMPH float64) time.Duration {
	if speedMPH <= 0 {
		return 0
	}
	return time.Duration(math.Round(miles/speedMPH*3600)) * time.Second
}
