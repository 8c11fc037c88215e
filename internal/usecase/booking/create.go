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
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	Customer   models.CustomerInfo
	CustomerID *uint

	ServiceID uint
	StylistID uint

	Date  time.Time
	Time  string
	Notes string

	PaymentMethod string
	Source        string

	// Status overrides the initial pending status; recurring rules with
	// auto-confirm create confirmed bookings.
	Status domain.Status

	RecurringBookingID *uint
	WaitlistEntryID    *uint

	Actor domain.Actor
}

func (in *CreateInput) normalize() error {
	in.Customer.Name = strings.TrimSpace(in.Customer.Name)
	in.Customer.Email = strings.ToLower(strings.TrimSpace(in.Customer.Email))
	in.Customer.Phone = strings.TrimSpace(in.Customer.Phone)
	in.Customer.Location = strings.TrimSpace(in.Customer.Location)
	in.Customer.Gender = strings.ToLower(strings.TrimSpace(in.Customer.Gender))
	in.Notes = strings.TrimSpace(in.Notes)

	if in.Customer.Name == "" || in.Customer.Email == "" || in.Customer.Phone == "" {
		return httperr.ValidationErr("invalid_customer", "customer name, email and phone are required")
	}
	if len([]rune(in.Notes)) > 500 {
		return httperr.ValidationErr("notes_too_long", "notes must be at most 500 characters")
	}
	if !schedule.ValidClock(in.Time) {
		return httperr.ValidationErr("invalid_time", "time must be HH:MM")
	}

	if in.Source == "" {
		in.Source = domain.SourceWebsite
	}
	if !domain.ValidSource(in.Source) {
		return httperr.ValidationErr("invalid_source", "unknown booking source")
	}

	if in.PaymentMethod == "" {
		in.PaymentMethod = domain.PaymentPending
	}
	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		return httperr.ValidationErr("invalid_payment_method", "unknown payment method")
	}

	if in.Status == "" {
		in.Status = domain.InitialStatus()
	}
	if in.Status != domain.StatusPending && in.Status != domain.StatusConfirmed {
		return httperr.ValidationErr("invalid_status", "bookings start pending or confirmed")
	}
	return nil
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	d Deps
}

func NewCreateBooking(d Deps) *CreateBooking {
	return &CreateBooking{d: d}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateInput,
) (*models.Booking, error) {

	if err := in.normalize(); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1️⃣ Date in the shop calendar
	// --------------------------------------------------
	now := uc.d.now()
	date := timezone.DateOnly(in.Date)
	today := timezone.DateOnly(now)

	if domain.RequiresFutureDate(in.Source) {
		if !date.After(today) {
			return nil, httperr.ValidationErr("date_in_past", "booking date must be after today")
		}
	} else if date.Before(today) {
		return nil, httperr.ValidationErr("date_in_past", "booking date is in the past")
	}

	// --------------------------------------------------
	// 2️⃣ Service and stylist
	// --------------------------------------------------
	svc, err := uc.d.loadService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	stylist, err := uc.d.loadStylist(ctx, in.StylistID)
	if err != nil {
		return nil, err
	}

	start, _ := schedule.ParseClock(in.Time)
	candidate := schedule.Span(start, svc.DurationMin)

	// --------------------------------------------------
	// 3️⃣ Per-stylist critical section
	// --------------------------------------------------
	unlock, err := uc.d.Locker.Lock(ctx, lock.StylistKey(stylist.ID))
	if err != nil {
		return nil, fmt.Errorf("lock stylist %d: %w", stylist.ID, err)
	}
	defer unlock()

	// --------------------------------------------------
	// 4️⃣ Working hours + lunch
	// --------------------------------------------------
	window, err := uc.d.dayWindow(ctx, stylist.ID, date)
	if err != nil {
		return nil, err
	}
	if !window.Fits(candidate) {
		return nil, httperr.ValidationErr("outside_working_hours", "stylist is not working at that time")
	}

	// --------------------------------------------------
	// 5️⃣ Conflict check (snapshotted durations)
	// --------------------------------------------------
	hit, err := uc.d.findConflict(ctx, stylist.ID, date, candidate, 0)
	if err != nil {
		return nil, err
	}
	if hit != nil {
		uc.d.Metrics.BookingConflict("check")
		return nil, httperr.ConflictErr("slot_unavailable")
	}

	// --------------------------------------------------
	// 6️⃣ Snapshot + insert (code retried on collision)
	// --------------------------------------------------
	b := &models.Booking{
		CustomerID:         in.CustomerID,
		Customer:           in.Customer,
		ServiceID:          svc.ID,
		ServiceSnapshot:    domain.SnapshotService(svc),
		StylistID:          stylist.ID,
		StylistSnapshot:    domain.SnapshotStylist(stylist),
		Date:               date,
		Time:               start.String(),
		Status:             string(in.Status),
		Notes:              in.Notes,
		PaymentMethod:      in.PaymentMethod,
		PaymentStatus:      domain.PaymentPending,
		TotalAmount:        svc.Price,
		Source:             in.Source,
		RecurringBookingID: in.RecurringBookingID,
		WaitlistEntryID:    in.WaitlistEntryID,
	}
	if in.Status == domain.StatusConfirmed {
		b.ConfirmedAt = &now
	}

	if err := uc.insert(ctx, b); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 7️⃣ Side effects (never roll back the booking)
	// --------------------------------------------------
	uc.d.Metrics.BookingCreated(b.Source)
	uc.d.dispatch(in.Actor, "booking_created", b, map[string]any{
		"source": b.Source,
		"date":   timezone.DateKey(b.Date),
		"time":   b.Time,
	})
	uc.d.publish(ctx, events.BookingCreated, b)
	uc.d.notify(
		notify.BookingReceived(b),
		notify.NewBookingForStylist(b, stylist.Email),
	)

	return b, nil
}

func (uc *CreateBooking) insert(ctx context.Context, b *models.Booking) error {
	for attempt := 0; attempt < domain.MaxCodeAttempts; attempt++ {
		code, err := domain.NewConfirmationCode()
		if err != nil {
			return err
		}
		b.ConfirmationCode = code

		err = uc.d.Repo.CreateBooking(ctx, b)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, domain.ErrDuplicateCode):
			uc.d.Logger.Warn().Str("code", code).Msg("confirmation code collision, retrying")
			continue
		case errors.Is(err, domain.ErrSlotTaken):
			uc.d.Metrics.BookingConflict("index")
			return httperr.ConflictErr("slot_unavailable")
		default:
			return err
		}
	}
	return httperr.ConflictErr("confirmation_code_exhausted")
}
