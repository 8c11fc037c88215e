package booking

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// BookingInterval uses the duration captured in the snapshot, never the
// live catalog value.
func BookingInterval(b *models.Booking) (schedule.Interval, error) {
	start, err := schedule.ParseClock(b.Time)
	if err != nil {
		return schedule.Interval{}, fmt.Errorf("booking %d: %w", b.ID, err)
	}
	return schedule.Span(start, b.ServiceSnapshot.Duration), nil
}

// FindConflict scans existing bookings of one stylist-day and returns the
// first one overlapping candidate. Released bookings and excludeID are
// skipped. A nil result means the slot is free.
func FindConflict(
	candidate schedule.Interval,
	existing []models.Booking,
	excludeID uint,
) (*models.Booking, error) {

	for i := range existing {
		b := &existing[i]
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if !Status(b.Status).Blocks() {
			continue
		}

		iv, err := BookingInterval(b)
		if err != nil {
			return nil, err
		}
		if candidate.Overlaps(iv) {
			return b, nil
		}
	}
	return nil, nil
}

// BusyIntervals converts blocking bookings to intervals for slot generation.
func BusyIntervals(existing []models.Booking) ([]schedule.Interval, error) {
	out := make([]schedule.Interval, 0, len(existing))
	for i := range existing {
		if !Status(existing[i].Status).Blocks() {
			continue
		}
		iv, err := BookingInterval(&existing[i])
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, nil
}

// ResolveWindow picks the working window for one date. An override wins
// over the weekly row; without either the shop default applies.
func ResolveWindow(
	day time.Weekday,
	wh *models.WorkingHours,
	ov *models.AvailabilityOverride,
) (schedule.DayWindow, error) {

	w := schedule.DefaultWindow(day)

	if wh != nil {
		if !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
			w = schedule.DayWindow{}
		} else {
			work, err := parseRange(wh.StartTime, wh.EndTime)
			if err != nil {
				return schedule.DayWindow{}, err
			}
			w = schedule.DayWindow{Open: true, Work: work}

			if wh.LunchStart != "" && wh.LunchEnd != "" {
				lunch, err := parseRange(wh.LunchStart, wh.LunchEnd)
				if err != nil {
					return schedule.DayWindow{}, err
				}
				w.Lunch = &lunch
			}
		}
	}

	if ov != nil {
		if !ov.Available {
			return schedule.DayWindow{}, nil
		}
		if ov.StartTime != "" && ov.EndTime != "" {
			work, err := parseRange(ov.StartTime, ov.EndTime)
			if err != nil {
				return schedule.DayWindow{}, err
			}
			w.Open = true
			w.Work = work
		}
	}

	if w.Work.Empty() {
		w.Open = false
	}
	return w, nil
}

func parseRange(start, end string) (schedule.Interval, error) {
	s, err := schedule.ParseClock(start)
	if err != nil {
		return schedule.Interval{}, err
	}
	e, err := schedule.ParseClock(end)
	if err != nil {
		return schedule.Interval{}, err
	}
	return schedule.Interval{Start: s, End: e}, nil
}
