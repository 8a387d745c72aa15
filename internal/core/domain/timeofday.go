package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time expressed in minutes since midnight.
// 24:00 is accepted so a facility may close at midnight.
type TimeOfDay int

const (
	EndOfDay    TimeOfDay = 24 * 60
	minutesHour           = 60
)

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*minutesHour + minute)
}

// TimeOfDayOf returns the wall-clock time of t, truncated to the minute.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute())
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	// tolerate "HH:MM:SS" as sent by SQL TIME columns
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	t := NewTimeOfDay(h, m)
	if h < 0 || m < 0 || m > 59 || t > EndOfDay {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return t, nil
}

func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Hour() int   { return int(t) / minutesHour }
func (t TimeOfDay) Minute() int { return int(t) % minutesHour }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

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

// On places t on date d in loc.
func (t TimeOfDay) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, t.Hour(), t.Minute(), 0, 0, loc)
}

// TimeRange is a wall-clock booking window repeated on every booked date.
type TimeRange struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

func (r TimeRange) Duration() time.Duration {
	return time.Duration(r.End-r.Start) * time.Minute
}

func (r TimeRange) Hours() float64 {
	return r.Duration().Hours()
}

func (r TimeRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}
