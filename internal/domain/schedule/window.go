package schedule

import "time"

// DayWindow is the bookable part of one stylist day.
type DayWindow struct {
	Open  bool
	Work  Interval
	Lunch *Interval
}

var (
	defaultOpen  = MustClock("09:00")
	defaultClose = MustClock("17:00")
)

// DefaultWindow is the shop schedule used when a stylist has no row for
// the weekday: 09:00-17:00 Monday to Saturday, closed on Sunday.
func DefaultWindow(day time.Weekday) DayWindow {
	if day == time.Sunday {
		return DayWindow{}
	}
	return DayWindow{
		Open: true,
		Work: Interval{Start: defaultOpen, End: defaultClose},
	}
}

// Busy returns the lunch break as a busy interval, if any.
func (w DayWindow) Busy() []Interval {
	if w.Lunch == nil || w.Lunch.Empty() {
		return nil
	}
	return []Interval{*w.Lunch}
}

// Fits reports whether the candidate lies within working hours and clear of
// the lunch break.
func (w DayWindow) Fits(candidate Interval) bool {
	if !w.Open || !candidate.Within(w.Work) {
		return false
	}
	return FirstConflict(candidate, w.Busy()) < 0
}
