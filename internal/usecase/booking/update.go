package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/events"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type UpdateInput struct {
	Date  *time.Time
	Time  *string
	Notes *string
}

type UpdateBooking struct {
	d Deps
}

func NewUpdateBooking(d Deps) *UpdateBooking {
	return &UpdateBooking{d: d}
}

func (uc *UpdateBooking) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
	in UpdateInput,
) (*models.Booking, error) {

	b, err := uc.d.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.RequireCanUpdate(actor, b); err != nil {
		return nil, err
	}

	notes := b.Notes
	if in.Notes != nil {
		notes = strings.TrimSpace(*in.Notes)
		if len([]rune(notes)) > 500 {
			return nil, httperr.ValidationErr("notes_too_long", "notes must be at most 500 characters")
		}
	}

	newDate, newTime := b.Date, b.Time
	if in.Date != nil {
		newDate = timezone.DateOnly(*in.Date)
	}
	if in.Time != nil {
		newTime = *in.Time
	}

	moved := !timezone.SameDay(newDate, b.Date) || newTime != b.Time
	if !moved {
		b.Notes = notes
		if err := uc.d.Repo.RescheduleBooking(ctx, b); err != nil {
			return nil, staleWrite(err)
		}
		return b, nil
	}

	// --------------------------------------------------
	// Reschedule
	// --------------------------------------------------
	if err := domain.CanReschedule(domain.Status(b.Status)); err != nil {
		return nil, err
	}

	start, err := schedule.ParseClock(newTime)
	if err != nil {
		return nil, httperr.ValidationErr("invalid_time", "time must be HH:MM")
	}
	if !newDate.After(timezone.DateOnly(uc.d.now())) {
		return nil, httperr.ValidationErr("date_in_past", "booking date must be after today")
	}

	unlock, err := uc.d.Locker.Lock(ctx, lock.StylistKey(b.StylistID))
	if err != nil {
		return nil, fmt.Errorf("lock stylist %d: %w", b.StylistID, err)
	}
	defer unlock()

	// the first read may predate a cancel or a completion
	b, err = uc.d.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.CanReschedule(domain.Status(b.Status)); err != nil {
		return nil, err
	}

	candidate := schedule.Span(start, b.ServiceSnapshot.Duration)

	window, err := uc.d.dayWindow(ctx, b.StylistID, newDate)
	if err != nil {
		return nil, err
	}
	if !window.Fits(candidate) {
		return nil, httperr.ValidationErr("outside_working_hours", "stylist is not working at that time")
	}

	hit, err := uc.d.findConflict(ctx, b.StylistID, newDate, candidate, b.ID)
	if err != nil {
		return nil, err
	}
	if hit != nil {
		uc.d.Metrics.BookingConflict("check")
		return nil, httperr.ConflictErr("slot_unavailable")
	}

	prevDate, prevTime := timezone.DateKey(b.Date), b.Time
	b.Date = newDate
	b.Time = start.String()
	b.Notes = notes

	if err := uc.d.Repo.RescheduleBooking(ctx, b); err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			uc.d.Metrics.BookingConflict("index")
			return nil, httperr.ConflictErr("slot_unavailable")
		}
		return nil, staleWrite(err)
	}

	uc.d.dispatch(actor, "booking_rescheduled", b, map[string]any{
		"from": prevDate + " " + prevTime,
		"to":   timezone.DateKey(b.Date) + " " + b.Time,
	})
	uc.d.publish(ctx, events.BookingRescheduled, b)

	return b, nil
}

// ======================================================
// GET
// ======================================================

type GetBooking struct {
	d Deps
}

func NewGetBooking(d Deps) *GetBooking {
	return &GetBooking{d: d}
}

func (uc *GetBooking) Execute(ctx context.Context, actor domain.Actor, id uint) (*models.Booking, error) {
	b, err := uc.d.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.RequireCanView(actor, b); err != nil {
		return nil, err
	}
	return b, nil
}
