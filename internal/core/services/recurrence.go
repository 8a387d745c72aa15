package services

import (
	"time"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
)

const (
	// DefaultWindowDays bounds a series that never ends.
	DefaultWindowDays = 30
	// CeilingDays bounds every series, counted from today.
	CeilingDays = 60
	// AfterNHorizonMonths is the provisional boundary of an AFTER_N series
	// before it is truncated to its occurrence count.
	AfterNHorizonMonths = 3
)

// RecurrenceEngine expands a base date and a recurrence rule into a date series.
type RecurrenceEngine struct {
	clock ports.Clock
	loc   *time.Location
}

func NewRecurrenceEngine(clock ports.Clock, loc *time.Location) *RecurrenceEngine {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &RecurrenceEngine{clock: clock, loc: loc}
}

// Generate returns the dates of the rule starting at base. The result is
// strictly ascending, has no duplicates and always starts with base. Under
// AFTER_N it holds at most EndOccurrences dates.
func (e *RecurrenceEngine) Generate(base domain.Date, rule domain.RecurrenceRule) (domain.DateSeries, error) {
	rule = rule.Normalize(base)
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	today := domain.DateIn(e.clock.Now(), e.loc)
	boundary := Boundary(base, rule, today)

	var generated []domain.Date
	switch rule.Kind {
	case domain.RecurDaily:
		generated = stepDays(base, rule.Frequency, boundary)
	case domain.RecurWeekly:
		generated = weekly(base, rule.Frequency, rule.AnchorWeekdays, boundary)
	case domain.RecurMonthlyByWeekday:
		generated = monthlyByWeekday(base, rule.Frequency, boundary)
	case domain.RecurMonthlyByDate:
		generated = monthlyByDate(base, rule.Frequency, boundary)
	case domain.RecurSameWeek:
		generated = sameWeek(base, boundary)
	}

	dates := make([]domain.Date, 0, len(generated)+1)
	dates = append(dates, base)
	for _, d := range generated {
		if d.After(base) {
			dates = append(dates, d)
		}
	}
	series := domain.SortedUnique(dates)

	if rule.EndPolicy == domain.EndAfterN && len(series) > rule.EndOccurrences {
		series = series[:rule.EndOccurrences]
	}
	return series, nil
}

// Boundary is the last date a series may reach. The absolute ceiling of
// today + CeilingDays wins over every end policy.
func Boundary(base domain.Date, rule domain.RecurrenceRule, today domain.Date) domain.Date {
	var end domain.Date
	switch rule.EndPolicy {
	case domain.EndOnDate:
		end = *rule.EndDate
	case domain.EndAfterN:
		end = domain.AddMonthsClamped(base, AfterNHorizonMonths)
	default:
		end = base.AddDays(DefaultWindowDays)
	}
	return domain.MinDate(end, today.AddDays(CeilingDays))
}

func stepDays(start domain.Date, step int, boundary domain.Date) []domain.Date {
	var out []domain.Date
	for d := start.AddDays(step); !d.After(boundary); d = d.AddDays(step) {
		out = append(out, d)
	}
	return out
}

// weekly walks one series per anchor weekday, each starting at the first
// occurrence of that weekday on or after base.
func weekly(base domain.Date, frequency int, anchors []time.Weekday, boundary domain.Date) []domain.Date {
	baseWd := domain.Weekday(base)
	var out []domain.Date
	for _, wd := range anchors {
		start := base.AddDays((int(wd) - int(baseWd) + 7) % 7)
		if start.Before(base) {
			start = start.AddDays(7)
		}
		for d := start; !d.After(boundary); d = d.AddDays(7 * frequency) {
			out = append(out, d)
		}
	}
	return out
}

// monthlyByWeekday keeps the "Nth weekday of the month" of base. Months
// without an Nth occurrence of the weekday are skipped.
func monthlyByWeekday(base domain.Date, frequency int, boundary domain.Date) []domain.Date {
	weekOfMonth := (base.Day + 6) / 7
	wd := domain.Weekday(base)

	var out []domain.Date
	for k := frequency; ; k += frequency {
		first := domain.AddMonthsClamped(domain.Date{Year: base.Year, Month: base.Month, Day: 1}, k)
		if first.After(boundary) {
			return out
		}
		d, ok := nthWeekday(first.Year, first.Month, wd, weekOfMonth)
		if !ok {
			continue
		}
		if d.After(boundary) {
			return out
		}
		out = append(out, d)
	}
}

func nthWeekday(year int, month time.Month, wd time.Weekday, n int) (domain.Date, bool) {
	firstWd := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	day := 1 + (int(wd)-int(firstWd)+7)%7 + 7*(n-1)
	if day > domain.DaysInMonth(year, month) {
		return domain.Date{}, false
	}
	return domain.Date{Year: year, Month: month, Day: day}, true
}

func monthlyByDate(base domain.Date, frequency int, boundary domain.Date) []domain.Date {
	var out []domain.Date
	for k := frequency; ; k += frequency {
		d := domain.AddMonthsClamped(base, k)
		if d.After(boundary) {
			return out
		}
		out = append(out, d)
	}
}

// sameWeek returns the days after base up to Sunday, weeks starting Monday.
func sameWeek(base domain.Date, boundary domain.Date) []domain.Date {
	remaining := 7 - isoWeekday(domain.Weekday(base))
	var out []domain.Date
	for i := 1; i <= remaining; i++ {
		d := base.AddDays(i)
		if d.After(boundary) {
			break
		}
		out = append(out, d)
	}
	return out
}

// isoWeekday numbers Monday 1 through Sunday 7.
func isoWeekday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}
