// Package timeutil resolves relative period names to absolute date ranges.
package timeutil

import (
	"fmt"
	"time"
)

// Period names accepted from the extraction capability. Resolving them
// locally keeps date arithmetic deterministic and testable.
const (
	PeriodToday     = "today"
	PeriodYesterday = "yesterday"
	PeriodThisWeek  = "this_week"
	PeriodLastWeek  = "last_week"
	PeriodThisMonth = "this_month"
	PeriodLastMonth = "last_month"
)

// DateRange is an inclusive calendar-day interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// StartISO returns the start day as YYYY-MM-DD.
func (r DateRange) StartISO() string { return r.Start.Format("2006-01-02") }

// EndISO returns the end day as YYYY-MM-DD.
func (r DateRange) EndISO() string { return r.End.Format("2006-01-02") }

// Shift moves the range backwards or forwards by whole periods of its own
// length. A week shifted by -1 is the previous week; a calendar month is
// shifted month-wise so "last month" stays aligned to month boundaries.
func (r DateRange) Shift(periods int) DateRange {
	if isCalendarMonth(r) {
		start := time.Date(r.Start.Year(), r.Start.Month()+time.Month(periods), 1, 0, 0, 0, 0, r.Start.Location())
		return MonthOf(start)
	}
	days := int(r.End.Sub(r.Start).Hours()/24) + 1
	delta := time.Duration(periods*days) * 24 * time.Hour
	return DateRange{Start: r.Start.Add(delta), End: r.End.Add(delta)}
}

func isCalendarMonth(r DateRange) bool {
	if r.Start.Day() != 1 {
		return false
	}
	lastDay := time.Date(r.Start.Year(), r.Start.Month()+1, 0, 0, 0, 0, 0, r.Start.Location())
	return r.End.Equal(lastDay)
}

// Resolve converts a relative period name to an absolute range anchored
// at the given reference time. Weeks start on Monday.
func Resolve(period string, ref time.Time) (DateRange, error) {
	day := truncateToDay(ref)
	switch period {
	case PeriodToday:
		return DateRange{Start: day, End: day}, nil
	case PeriodYesterday:
		y := day.AddDate(0, 0, -1)
		return DateRange{Start: y, End: y}, nil
	case PeriodThisWeek:
		return WeekOf(day), nil
	case PeriodLastWeek:
		return WeekOf(day.AddDate(0, 0, -7)), nil
	case PeriodThisMonth:
		return MonthOf(day), nil
	case PeriodLastMonth:
		return MonthOf(day.AddDate(0, -1, -(day.Day() - 1))), nil
	default:
		return DateRange{}, fmt.Errorf("unknown period %q", period)
	}
}

// WeekOf returns the Monday-to-Sunday week containing t.
func WeekOf(t time.Time) DateRange {
	day := truncateToDay(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started 6 days ago
	}
	start := day.AddDate(0, 0, -(weekday - 1))
	return DateRange{Start: start, End: start.AddDate(0, 0, 6)}
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) DateRange {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, -1)
	return DateRange{Start: start, End: end}
}

// ParseISO parses a YYYY-MM-DD day in UTC.
func ParseISO(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
