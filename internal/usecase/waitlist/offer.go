package waitlist

import (
	"context"
	"errors"
	"time"

	bookingdomain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barber-booking/internal/events"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	bookinguc "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

const (
	MethodEmail = "email"
	MethodInApp = "in_app"
)

type OfferInput struct {
	ServiceID uint
	StylistID uint
	Date      time.Time
	Time      string
}

// NotifyWaitlist offers one freed slot to the best ranked matching entry.
type NotifyWaitlist struct {
	d Deps
}

func NewNotifyWaitlist(d Deps) *NotifyWaitlist {
	return &NotifyWaitlist{d: d}
}

// OfferReleasedSlot lets the booking lifecycle hand cancelled and no-show
// slots to the waitlist.
func (uc *NotifyWaitlist) OfferReleasedSlot(ctx context.Context, slot bookinguc.ReleasedSlot) (bool, error) {
	return uc.Execute(ctx, OfferInput{
		ServiceID: slot.ServiceID,
		StylistID: slot.StylistID,
		Date:      slot.Date,
		Time:      slot.Time,
	})
}

// Execute reports whether an entry was notified. Entries are tried in rank
// order; a failed delivery is recorded and the next candidate is tried.
func (uc *NotifyWaitlist) Execute(ctx context.Context, in OfferInput) (bool, error) {
	if !schedule.ValidClock(in.Time) {
		return false, httperr.ValidationErr("invalid_time", "time must be HH:MM")
	}

	svc, err := uc.d.Catalog.GetService(ctx, in.ServiceID)
	if errors.Is(err, bookingdomain.ErrNotFound) {
		return false, httperr.NotFoundErr("service_not_found")
	}
	if err != nil {
		return false, err
	}

	stylistID := in.StylistID
	slot := domain.Slot{
		Date:      timezone.DateOnly(in.Date),
		Time:      in.Time,
		StylistID: &stylistID,
	}

	candidates, err := uc.d.Repo.ListCandidates(ctx, in.ServiceID, in.StylistID, domain.MaxCandidates)
	if err != nil {
		return false, err
	}

	for i := range candidates {
		if !domain.Matches(&candidates[i], slot) {
			continue
		}

		sent, err := uc.offer(ctx, candidates[i].ID, svc, slot)
		if err != nil {
			return false, err
		}
		if sent {
			return true, nil
		}
	}

	uc.d.Metrics.WaitlistNotification("no_match")
	return false, nil
}

// offer re-reads the entry under its group lock so two freed slots cannot
// land on the same entry.
func (uc *NotifyWaitlist) offer(
	ctx context.Context,
	id uint,
	svc *models.Service,
	slot domain.Slot,
) (bool, error) {

	e, err := uc.d.load(ctx, id)
	if err != nil {
		return false, err
	}

	unlock, err := uc.d.lockGroup(ctx, e.ServiceID, e.StylistID)
	if err != nil {
		return false, err
	}
	defer unlock()

	if e, err = uc.d.load(ctx, id); err != nil {
		return false, err
	}
	if domain.Status(e.Status) != domain.StatusActive {
		return false, nil
	}

	now := uc.d.now()
	method, sendErr := uc.deliver(ctx, e, svc, slot)
	sent := sendErr == nil
	domain.RecordAttempt(e, slot.Offered(), method, sent, now)

	if err := uc.d.Repo.Update(ctx, e); err != nil {
		return false, err
	}

	if !sent {
		uc.d.Metrics.WaitlistNotification("failed")
		uc.d.Logger.Warn().Err(sendErr).Uint("entry_id", e.ID).Msg("waitlist offer not delivered")
		return false, nil
	}

	// the entry left the active pool
	if _, err := uc.d.rerank(ctx, e.ServiceID, e.StylistID); err != nil {
		uc.d.Logger.Error().Err(err).Uint("entry_id", e.ID).Msg("waitlist rerank failed")
	}

	uc.d.Metrics.WaitlistNotification("sent")
	uc.d.dispatch(systemActor, "waitlist_notified", e, map[string]any{
		"date":   timezone.DateKey(slot.Date),
		"time":   slot.Time,
		"method": method,
	})
	uc.d.publish(ctx, events.WaitlistNotified, e)
	return true, nil
}

func (uc *NotifyWaitlist) deliver(
	ctx context.Context,
	e *models.WaitlistEntry,
	svc *models.Service,
	slot domain.Slot,
) (string, error) {

	if !e.Notifications.Email || uc.d.Notifier == nil {
		return MethodInApp, nil
	}

	msg := notify.WaitlistOffer(e, svc.Name, slot.Offered(), int(domain.ResponseWindow/time.Hour))
	return MethodEmail, uc.d.Notifier.SendNow(ctx, msg)
}

var _ bookinguc.Backfiller = (*NotifyWaitlist)(nil)

// RequireCanOffer limits manual offers to staff.
func RequireCanOffer(actor bookingdomain.Actor) error {
	if actor.IsAdmin() || actor.IsStylist() {
		return nil
	}
	return httperr.ForbiddenErr("forbidden")
}
