package domain

import (
	"fmt"
	"sort"
	"time"
)

type RecurrenceKind string

const (
	RecurNone             RecurrenceKind = "NONE"
	RecurDaily            RecurrenceKind = "DAILY"
	RecurWeekly           RecurrenceKind = "WEEKLY"
	RecurMonthlyByWeekday RecurrenceKind = "MONTHLY_BY_WEEKDAY"
	RecurMonthlyByDate    RecurrenceKind = "MONTHLY_BY_DATE"
	RecurSameWeek         RecurrenceKind = "SAME_WEEK"
)

type EndPolicy string

const (
	EndNever  EndPolicy = "NEVER"
	EndOnDate EndPolicy = "ON_DATE"
	EndAfterN EndPolicy = "AFTER_N"
)

// RecurrenceRule expands one base date into a series of dates.
// EndDate is read only for ON_DATE, EndOccurrences only for AFTER_N.
type RecurrenceRule struct {
	Kind           RecurrenceKind `json:"kind"`
	Frequency      int            `json:"frequency"`
	AnchorWeekdays []time.Weekday `json:"anchor_weekdays,omitempty"`
	EndPolicy      EndPolicy      `json:"end_policy"`
	EndDate        *Date          `json:"end_date,omitempty"`
	EndOccurrences int            `json:"end_occurrences,omitempty"`
}

// Normalize returns a copy of the rule whose anchor weekdays contain the
// weekday of base exactly once, sorted Sunday first. A zero frequency
// becomes 1 and an empty kind or policy becomes NONE / NEVER.
func (r RecurrenceRule) Normalize(base Date) RecurrenceRule {
	out := r
	if out.Kind == "" {
		out.Kind = RecurNone
	}
	if out.EndPolicy == "" {
		out.EndPolicy = EndNever
	}
	if out.Frequency == 0 {
		out.Frequency = 1
	}

	seen := map[time.Weekday]bool{Weekday(base): true}
	days := []time.Weekday{Weekday(base)}
	for _, wd := range r.AnchorWeekdays {
		if wd < time.Sunday || wd > time.Saturday || seen[wd] {
			continue
		}
		seen[wd] = true
		days = append(days, wd)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	out.AnchorWeekdays = days
	return out
}

func (r RecurrenceRule) Validate() error {
	switch r.Kind {
	case RecurNone, RecurDaily, RecurWeekly, RecurMonthlyByWeekday, RecurMonthlyByDate, RecurSameWeek:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, r.Kind)
	}
	if r.Frequency < 1 {
		return fmt.Errorf("%w: frequency must be >= 1", ErrInvalidRule)
	}
	switch r.EndPolicy {
	case EndNever:
	case EndOnDate:
		if r.EndDate == nil || !r.EndDate.IsValid() {
			return fmt.Errorf("%w: end date required", ErrInvalidRule)
		}
	case EndAfterN:
		if r.EndOccurrences < 1 {
			return fmt.Errorf("%w: end occurrences must be >= 1", ErrInvalidRule)
		}
	default:
		return fmt.Errorf("%w: unknown end policy %q", ErrInvalidRule, r.EndPolicy)
	}
	return nil
}

// DateSeries is an ascending list of distinct dates starting with the base date.
type DateSeries []Date

func (s DateSeries) Contains(d Date) bool {
	for _, x := range s {
		if x == d {
			return true
		}
	}
	return false
}

// SortedUnique sorts the dates ascending and drops duplicates in place.
func SortedUnique(dates []Date) DateSeries {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	out := dates[:0]
	for i, d := range dates {
		if i > 0 && d == out[len(out)-1] {
			continue
		}
		out = append(out, d)
	}
	return DateSeries(out)
}
