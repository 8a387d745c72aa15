package services

import (
	"fmt"
	"time"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
)

const (
	MinBookingDuration = 30 * time.Minute
	StartBuffer        = 15 * time.Minute
)

// TimeWindowValidator gates user-entered booking windows. It has no side
// effects and never calls the reservation service.
type TimeWindowValidator struct {
	clock ports.Clock
	loc   *time.Location
}

func NewTimeWindowValidator(clock ports.Clock, loc *time.Location) *TimeWindowValidator {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &TimeWindowValidator{clock: clock, loc: loc}
}

// Validate checks, in order, the minimum duration, the start buffer when the
// date is today, and that the window lies within one operating shift. A
// window ending exactly at closing time is valid. Dates before today are
// rejected as too soon, and dates more than CeilingDays ahead as beyond the
// booking horizon.
func (v *TimeWindowValidator) Validate(start, end domain.TimeOfDay, selectedDate domain.Date, hours domain.OperatingHours) error {
	window := domain.TimeRange{Start: start, End: end}
	if window.Duration() < MinBookingDuration {
		return fmt.Errorf("%w: %s is shorter than %s", domain.ErrDurationTooShort, window, MinBookingDuration)
	}

	now := v.clock.Now().In(v.loc)
	today := domain.DateIn(now, v.loc)
	if selectedDate.Before(today) {
		return fmt.Errorf("%w: %s is in the past", domain.ErrTooSoon, selectedDate)
	}
	if last := today.AddDays(CeilingDays); selectedDate.After(last) {
		return fmt.Errorf("%w: %s is after %s", domain.ErrBeyondHorizon, selectedDate, last)
	}
	if selectedDate == today {
		earliest := now.Add(StartBuffer)
		if start.On(selectedDate, v.loc).Before(earliest) {
			return fmt.Errorf("%w: earliest start is %s", domain.ErrTooSoon, domain.TimeOfDayOf(earliest))
		}
	}

	if len(hours.Shifts) == 0 {
		return nil
	}
	for _, shift := range hours.Shifts {
		if shift.Contains(window) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrOutsideOperatingHours, window)
}

func (v *TimeWindowValidator) ValidateRange(r domain.TimeRange, selectedDate domain.Date, hours domain.OperatingHours) error {
	return v.Validate(r.Start, r.End, selectedDate, hours)
}

// Today returns the current date in the facility location.
func (v *TimeWindowValidator) Today() domain.Date {
	return domain.DateIn(v.clock.Now(), v.loc)
}
