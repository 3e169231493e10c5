package timeslot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the number of minutes in a wall-clock day.
const MinutesPerDay = 24 * 60

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

// Parse parses a "HH:MM" or "HH:MM:SS" string into a TimeOfDay.
// Seconds are accepted but discarded. Every field must be pure digits;
// trailing characters are rejected.
func Parse(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	fields := make([]int, len(parts))
	for i, part := range parts {
		n, err := parseField(part)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
		}
		fields[i] = n
	}

	h, m := fields[0], fields[1]
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	if len(fields) == 3 && fields[2] > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return TimeOfDay(h*60 + m), nil
}

func parseField(s string) (int, error) {
	if len(s) < 1 || len(s) > 2 {
		return 0, ErrInvalidTimeOfDay
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidTimeOfDay
		}
	}
	return strconv.Atoi(s)
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Valid reports whether t falls within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t <= MinutesPerDay
}

// Interval is a half-open time range [Start, End) within one day.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

func NewInterval(start, end TimeOfDay) Interval {
	return Interval{Start: start, End: end}
}

// Valid reports whether the interval is well-formed: both endpoints inside
// the day and End strictly after Start.
func (iv Interval) Valid() bool {
	return iv.Start.Valid() && iv.End.Valid() && iv.End > iv.Start
}

func (iv Interval) Duration() int {
	return int(iv.End - iv.Start)
}

// Overlaps reports whether two half-open intervals intersect. An interval
// ending exactly when another starts does not overlap it. The check is
// symmetric: Overlaps(a, b) == Overlaps(b, a).
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// Contains reports whether the instant t falls inside the interval.
func (iv Interval) Contains(t TimeOfDay) bool {
	return t >= iv.Start && t < iv.End
}
