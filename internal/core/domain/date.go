package domain

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Date is a calendar date without a time zone.
type Date = civil.Date

// DateIn returns the calendar date of t in loc.
func DateIn(t time.Time, loc *time.Location) Date {
	return civil.DateOf(t.In(loc))
}

func ParseDate(s string) (Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

func Weekday(d Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// DaysInMonth returns the number of days of month m in year y.
func DaysInMonth(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsClamped moves d by n months keeping day-of-month, clamped to the
// last day of the target month.
func AddMonthsClamped(d Date, n int) Date {
	first := time.Date(d.Year, d.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	day := d.Day
	if last := DaysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return Date{Year: first.Year(), Month: first.Month(), Day: day}
}

func MinDate(a, b Date) Date {
	if b.Before(a) {
		return b
	}
	return a
}
