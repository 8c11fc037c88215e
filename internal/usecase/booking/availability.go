package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// dayWindow resolves the working window of a stylist on one date.
func (d Deps) dayWindow(ctx context.Context, stylistID uint, date time.Time) (schedule.DayWindow, error) {
	wh, err := d.Repo.GetWorkingHours(ctx, stylistID, int(date.Weekday()))
	if err != nil {
		return schedule.DayWindow{}, err
	}
	ov, err := d.Repo.GetOverride(ctx, stylistID, date)
	if err != nil {
		return schedule.DayWindow{}, err
	}
	return domain.ResolveWindow(date.Weekday(), wh, ov)
}

// findConflict runs the overlap scan against the stored bookings.
func (d Deps) findConflict(
	ctx context.Context,
	stylistID uint,
	date time.Time,
	candidate schedule.Interval,
	excludeID uint,
) (*models.Booking, error) {

	existing, err := d.Repo.ListBlockingBookings(ctx, stylistID, date)
	if err != nil {
		return nil, err
	}
	return domain.FindConflict(candidate, existing, excludeID)
}

// ======================================================
// CHECK AVAILABILITY
// ======================================================

type AvailabilityInput struct {
	StylistID        uint
	Date             time.Time
	Time             string
	Duration         int
	ExcludeBookingID uint
}

type CheckAvailability struct {
	d Deps
}

func NewCheckAvailability(d Deps) *CheckAvailability {
	return &CheckAvailability{d: d}
}

// Execute answers whether [time, time+duration) is clear of every
// blocking booking of the stylist on that date.
func (uc *CheckAvailability) Execute(ctx context.Context, in AvailabilityInput) (bool, error) {
	start, err := schedule.ParseClock(in.Time)
	if err != nil {
		return false, httperr.ValidationErr("invalid_time", err.Error())
	}
	if in.Duration <= 0 {
		return false, httperr.ValidationErr("invalid_duration", "duration must be positive")
	}

	hit, err := uc.d.findConflict(
		ctx,
		in.StylistID,
		timezone.DateOnly(in.Date),
		schedule.Span(start, in.Duration),
		in.ExcludeBookingID,
	)
	if err != nil {
		return false, err
	}
	return hit == nil, nil
}

// ======================================================
// AVAILABLE SLOTS
// ======================================================

type SlotsInput struct {
	StylistID uint
	Date      time.Time
	Step      int

	// Duration, when set, also drops starts whose whole appointment would
	// not fit before closing or before the next busy interval.
	Duration int
}

type GetAvailableSlots struct {
	d Deps
}

func NewGetAvailableSlots(d Deps) *GetAvailableSlots {
	return &GetAvailableSlots{d: d}
}

func (uc *GetAvailableSlots) Execute(ctx context.Context, in SlotsInput) ([]string, error) {
	if _, err := uc.d.loadStylist(ctx, in.StylistID); err != nil {
		return nil, err
	}

	date := timezone.DateOnly(in.Date)
	window, err := uc.d.dayWindow(ctx, in.StylistID, date)
	if err != nil {
		return nil, err
	}
	if !window.Open {
		return []string{}, nil
	}

	existing, err := uc.d.Repo.ListBlockingBookings(ctx, in.StylistID, date)
	if err != nil {
		return nil, err
	}
	busy, err := domain.BusyIntervals(existing)
	if err != nil {
		return nil, err
	}
	busy = append(busy, window.Busy()...)

	step := in.Step
	if step <= 0 {
		step = schedule.DefaultStep
	}

	slots := schedule.GenerateSlots(window.Work.Start, window.Work.End, busy, step)

	if in.Duration > 0 {
		fitting := slots[:0]
		for _, s := range slots {
			span := schedule.Span(s, in.Duration)
			if span.Within(window.Work) && schedule.FirstConflict(span, busy) < 0 {
				fitting = append(fitting, s)
			}
		}
		slots = fitting
	}

	return schedule.Strings(slots), nil
}
