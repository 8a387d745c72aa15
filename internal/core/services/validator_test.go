package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
	"github.com/tuananh0303/DATN-sub000/internal/core/services"
)

func newValidator() *services.TimeWindowValidator {
	clock := newFakeClock(time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC))
	return services.NewTimeWindowValidator(clock, time.UTC)
}

var dayShift = domain.OperatingHours{Shifts: []domain.Shift{{Open: tod("06:00"), Close: tod("22:00")}}}

func TestValidate_StartBufferToday(t *testing.T) {
	v := newValidator()
	today := date("2024-01-10")

	err := v.Validate(tod("10:10"), tod("11:10"), today, dayShift)
	assert.ErrorIs(t, err, domain.ErrTooSoon)

	err = v.Validate(tod("10:16"), tod("11:16"), today, dayShift)
	assert.NoError(t, err)

	err = v.Validate(tod("10:15"), tod("11:15"), today, dayShift)
	assert.NoError(t, err)
}

func TestValidate_BufferOnlyAppliesToday(t *testing.T) {
	v := newValidator()

	err := v.Validate(tod("07:00"), tod("08:00"), date("2024-01-11"), dayShift)
	assert.NoError(t, err)
}

func TestValidate_PastDate(t *testing.T) {
	v := newValidator()

	err := v.Validate(tod("18:00"), tod("19:00"), date("2024-01-09"), dayShift)
	assert.ErrorIs(t, err, domain.ErrTooSoon)
}

func TestValidate_DurationTooShort(t *testing.T) {
	v := newValidator()
	tomorrow := date("2024-01-11")

	assert.ErrorIs(t, v.Validate(tod("18:00"), tod("18:20"), tomorrow, dayShift), domain.ErrDurationTooShort)
	assert.ErrorIs(t, v.Validate(tod("18:00"), tod("17:00"), tomorrow, dayShift), domain.ErrDurationTooShort)
	assert.NoError(t, v.Validate(tod("18:00"), tod("18:30"), tomorrow, dayShift))
}

func TestValidate_DurationCheckedBeforeBuffer(t *testing.T) {
	v := newValidator()

	err := v.Validate(tod("10:05"), tod("10:20"), date("2024-01-10"), dayShift)
	assert.ErrorIs(t, err, domain.ErrDurationTooShort)
}

func TestValidate_OperatingHours(t *testing.T) {
	v := newValidator()
	tomorrow := date("2024-01-11")

	assert.NoError(t, v.Validate(tod("20:00"), tod("22:00"), tomorrow, dayShift), "closing time is inclusive")
	assert.ErrorIs(t, v.Validate(tod("21:00"), tod("22:30"), tomorrow, dayShift), domain.ErrOutsideOperatingHours)
	assert.ErrorIs(t, v.Validate(tod("05:30"), tod("07:00"), tomorrow, dayShift), domain.ErrOutsideOperatingHours)
}

func TestValidate_MultipleShifts(t *testing.T) {
	v := newValidator()
	tomorrow := date("2024-01-11")
	hours := domain.OperatingHours{Shifts: []domain.Shift{
		{Open: tod("06:00"), Close: tod("11:00")},
		{Open: tod("14:00"), Close: tod("24:00")},
	}}

	assert.NoError(t, v.Validate(tod("15:00"), tod("17:00"), tomorrow, hours))
	assert.NoError(t, v.Validate(tod("22:00"), tod("24:00"), tomorrow, hours))
	assert.ErrorIs(t, v.Validate(tod("10:00"), tod("15:00"), tomorrow, hours), domain.ErrOutsideOperatingHours)
}

func TestValidate_NoOperatingHours(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.Validate(tod("02:00"), tod("03:00"), date("2024-01-11"), domain.OperatingHours{}))
}

func TestValidate_FacilityTimeZone(t *testing.T) {
	loc := time.FixedZone("ICT", 7*60*60)
	// 03:00 UTC is 10:00 in the facility.
	clock := newFakeClock(time.Date(2024, 1, 10, 3, 0, 0, 0, time.UTC))
	v := services.NewTimeWindowValidator(clock, loc)

	assert.Equal(t, date("2024-01-10"), v.Today())
	assert.ErrorIs(t, v.Validate(tod("10:10"), tod("11:10"), date("2024-01-10"), dayShift), domain.ErrTooSoon)
	assert.NoError(t, v.Validate(tod("10:20"), tod("11:20"), date("2024-01-10"), dayShift))
}

func TestValidate_BookingHorizon(t *testing.T) {
	v := newValidator()

	// 2024-01-10 plus 60 days.
	assert.NoError(t, v.Validate(tod("18:00"), tod("19:00"), date("2024-03-10"), dayShift))
	assert.ErrorIs(t, v.Validate(tod("18:00"), tod("19:00"), date("2024-03-11"), dayShift), domain.ErrBeyondHorizon)
	assert.ErrorIs(t, v.Validate(tod("18:00"), tod("19:00"), date("2030-12-31"), dayShift), domain.ErrBeyondHorizon)
}
