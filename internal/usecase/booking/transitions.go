package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/events"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
)

type transition struct {
	authorize func(domain.Actor, *models.Booking) error
	apply     func(*models.Booking, time.Time) error
	action    string
	event     string
	notice    func(*models.Booking) notify.Message
}

func (d Deps) run(
	ctx context.Context,
	actor domain.Actor,
	id uint,
	t transition,
) (*models.Booking, error) {

	b, err := d.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := t.authorize(actor, b); err != nil {
		return nil, err
	}

	from := b.Status
	if err := t.apply(b, d.now()); err != nil {
		return nil, err
	}

	if err := d.Repo.TransitionBooking(ctx, b, from); err != nil {
		return nil, staleWrite(err)
	}

	d.Metrics.BookingTransition(b.Status)
	d.dispatch(actor, t.action, b, map[string]any{"from": from, "to": b.Status})
	d.publish(ctx, t.event, b)
	if t.notice != nil {
		d.notify(t.notice(b))
	}

	return b, nil
}

// ======================================================
// CONFIRM
// ======================================================

type ConfirmBooking struct {
	d Deps
}

func NewConfirmBooking(d Deps) *ConfirmBooking {
	return &ConfirmBooking{d: d}
}

func (uc *ConfirmBooking) Execute(ctx context.Context, actor domain.Actor, id uint) (*models.Booking, error) {
	return uc.d.run(ctx, actor, id, transition{
		authorize: domain.RequireAssignedStylist,
		apply:     domain.Confirm,
		action:    "booking_confirmed",
		event:     events.BookingConfirmed,
		notice:    notify.BookingConfirmed,
	})
}

// ======================================================
// START
// ======================================================

type StartBooking struct {
	d Deps
}

func NewStartBooking(d Deps) *StartBooking {
	return &StartBooking{d: d}
}

func (uc *StartBooking) Execute(ctx context.Context, actor domain.Actor, id uint) (*models.Booking, error) {
	return uc.d.run(ctx, actor, id, transition{
		authorize: domain.RequireAssignedStylist,
		apply:     domain.Start,
		action:    "booking_started",
		event:     events.BookingStarted,
	})
}

// ======================================================
// COMPLETE
// ======================================================

type CompleteBooking struct {
	d Deps
}

func NewCompleteBooking(d Deps) *CompleteBooking {
	return &CompleteBooking{d: d}
}

func (uc *CompleteBooking) Execute(ctx context.Context, actor domain.Actor, id uint) (*models.Booking, error) {
	return uc.d.run(ctx, actor, id, transition{
		authorize: domain.RequireAssignedStylist,
		apply:     domain.Complete,
		action:    "booking_completed",
		event:     events.BookingCompleted,
	})
}

// ======================================================
// CANCEL / NO-SHOW (release the slot)
// ======================================================

type CancelBooking struct {
	d        Deps
	backfill Backfiller
}

// NewCancelBooking accepts a nil backfiller when no waitlist is wired.
func NewCancelBooking(d Deps, backfill Backfiller) *CancelBooking {
	return &CancelBooking{d: d, backfill: backfill}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
	reason string,
) (*models.Booking, error) {

	b, err := uc.d.run(ctx, actor, id, transition{
		authorize: domain.RequireCanCancel,
		apply: func(b *models.Booking, now time.Time) error {
			return domain.Cancel(b, reason, actor.Role, now)
		},
		action: "booking_cancelled",
		event:  events.BookingCancelled,
		notice: notify.BookingCancelled,
	})
	if err != nil {
		return nil, err
	}

	offerReleased(ctx, uc.d, uc.backfill, b)
	return b, nil
}

type MarkNoShow struct {
	d        Deps
	backfill Backfiller
}

func NewMarkNoShow(d Deps, backfill Backfiller) *MarkNoShow {
	return &MarkNoShow{d: d, backfill: backfill}
}

func (uc *MarkNoShow) Execute(ctx context.Context, actor domain.Actor, id uint) (*models.Booking, error) {
	b, err := uc.d.run(ctx, actor, id, transition{
		authorize: domain.RequireAssignedStylist,
		apply: func(b *models.Booking, _ time.Time) error {
			return domain.MarkNoShow(b)
		},
		action: "booking_no_show",
		event:  events.BookingNoShow,
	})
	if err != nil {
		return nil, err
	}

	offerReleased(ctx, uc.d, uc.backfill, b)
	return b, nil
}

// offerReleased hands a freed slot to the waitlist. Failures are logged;
// the status change has already been stored.
func offerReleased(ctx context.Context, d Deps, backfill Backfiller, b *models.Booking) {
	if backfill == nil {
		return
	}

	slot := ReleasedSlot{
		ServiceID: b.ServiceID,
		StylistID: b.StylistID,
		Date:      b.Date,
		Time:      b.Time,
	}

	notified, err := backfill.OfferReleasedSlot(ctx, slot)
	if err != nil {
		d.Logger.Error().Err(err).Uint("booking_id", b.ID).Msg("waitlist backfill failed")
		return
	}
	d.Logger.Debug().Uint("booking_id", b.ID).Bool("notified", notified).Msg("waitlist backfill")
}
