package recurring

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const (
	PatternDaily   = "daily"
	PatternWeekly  = "weekly"
	PatternMonthly = "monthly"
)

func ValidatePattern(p models.RecurrencePattern) error {
	switch p.Type {
	case PatternDaily, PatternWeekly, PatternMonthly:
	default:
		return httperr.ValidationErr("invalid_pattern", "pattern type must be daily, weekly or monthly")
	}

	if p.Interval < 1 || p.Interval > 12 {
		return httperr.ValidationErr("invalid_interval", "interval must be between 1 and 12")
	}

	for _, d := range p.DaysOfWeek {
		if d < 0 || d > 6 {
			return httperr.ValidationErr("invalid_days_of_week", "days of week must be 0-6")
		}
	}

	if p.DayOfMonth < 0 || p.DayOfMonth > 31 {
		return httperr.ValidationErr("invalid_day_of_month", "day of month must be 1-31")
	}
	return nil
}

func interval(p models.RecurrencePattern) int {
	if p.Interval < 1 {
		return 1
	}
	return p.Interval
}

func sortedDays(p models.RecurrencePattern) []int {
	days := append([]int(nil), p.DaysOfWeek...)
	sort.Ints(days)
	return days
}

// NextOccurrence computes the occurrence after from.
//
// Weekly rules with explicit days move to the next listed weekday later in
// the same week; past the last one they wrap to the first listed weekday
// interval weeks on. Monthly rules clamp the day to the end of short months.
func NextOccurrence(p models.RecurrencePattern, from time.Time) time.Time {
	n := interval(p)

	switch p.Type {
	case PatternDaily:
		return from.AddDate(0, 0, n)

	case PatternWeekly:
		days := sortedDays(p)
		if len(days) == 0 {
			return from.AddDate(0, 0, 7*n)
		}

		cur := int(from.Weekday())
		for _, d := range days {
			if d > cur {
				return from.AddDate(0, 0, d-cur)
			}
		}
		return from.AddDate(0, 0, 7*n+days[0]-cur)

	case PatternMonthly:
		day := p.DayOfMonth
		if day == 0 {
			day = from.Day()
		}
		first := time.Date(from.Year(), from.Month()+time.Month(n), 1,
			from.Hour(), from.Minute(), 0, 0, from.Location())
		if last := daysIn(first); day > last {
			day = last
		}
		return first.AddDate(0, 0, day-1)
	}

	return from.AddDate(0, 0, n)
}

func daysIn(monthStart time.Time) int {
	return monthStart.AddDate(0, 1, -1).Day()
}

// AlignStart moves start forward to the first date the pattern actually
// fires on. Only weekly rules with explicit days need it.
func AlignStart(p models.RecurrencePattern, start time.Time) time.Time {
	if p.Type != PatternWeekly || len(p.DaysOfWeek) == 0 {
		return start
	}

	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		for _, wd := range p.DaysOfWeek {
			if int(d.Weekday()) == wd {
				return d
			}
		}
	}
	return start
}
