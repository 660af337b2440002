package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay bounds a TimeOfDay; schedules never wrap past midnight.
const MinutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time with minute resolution, stored as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" (00:00 to 23:59).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("parse time of day %q: expected HH:MM", s)
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("parse time of day %q: invalid hour", s)
	}

	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || len(mm) != 2 {
		return 0, fmt.Errorf("parse time of day %q: invalid minute", s)
	}

	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) Minutes() int { return int(t) }

// String formats as HH:MM. Values past midnight are shown modulo 24h.
func (t TimeOfDay) String() string {
	m := int(t)
	return fmt.Sprintf("%02d:%02d", (m/60)%24, m%60)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("time of day must be a HH:MM string: %w", err)
	}

	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
