package waitlist

import (
	"context"

	bookingdomain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barber-booking/internal/events"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	bookinguc "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// ======================================================
// ACCEPT
// ======================================================

type AcceptResult struct {
	Entry   *models.WaitlistEntry `json:"entry"`
	Booking *models.Booking       `json:"booking"`
}

type AcceptOffer struct {
	d Deps
}

func NewAcceptOffer(d Deps) *AcceptOffer {
	return &AcceptOffer{d: d}
}

func (uc *AcceptOffer) Execute(ctx context.Context, actor bookingdomain.Actor, id uint) (*AcceptResult, error) {
	e, unlock, err := uc.d.lockEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := requireOwner(actor, e); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1️⃣ Offer still open
	// --------------------------------------------------
	offer, err := domain.PendingOffer(e, uc.d.now())
	if httperr.IsBusiness(err, "offer_expired") {
		return nil, uc.d.release(ctx, e, "expired", err)
	}
	if err != nil {
		return nil, err
	}
	slot := offer.OfferedSlot

	stylistID := e.StylistID
	if slot.StylistID != nil {
		stylistID = slot.StylistID
	}
	if stylistID == nil {
		return nil, httperr.InvalidStateErr("offer_without_stylist")
	}

	// --------------------------------------------------
	// 2️⃣ Book through the regular create path
	// --------------------------------------------------
	customerID := e.CustomerID
	entryID := e.ID
	b, err := uc.d.Bookings.Execute(ctx, bookinguc.CreateInput{
		Customer:        e.Customer,
		CustomerID:      &customerID,
		ServiceID:       e.ServiceID,
		StylistID:       *stylistID,
		Date:            slot.Date,
		Time:            slot.Time,
		Notes:           e.Notes,
		Source:          bookingdomain.SourceWaitlist,
		WaitlistEntryID: &entryID,
		Actor:           actor,
	})
	if err != nil {
		switch httperr.KindOf(err) {
		case httperr.KindConflict, httperr.KindValidation:
			return nil, uc.d.release(ctx, e, "slot_unavailable", err)
		}
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Close the entry + rerank the group
	// --------------------------------------------------
	domain.MarkBooked(e, b.ID, slot)
	if err := uc.d.Repo.Update(ctx, e); err != nil {
		return nil, err
	}
	if _, err := uc.d.rerank(ctx, e.ServiceID, e.StylistID); err != nil {
		return nil, err
	}

	uc.d.Metrics.WaitlistNotification("accepted")
	uc.d.dispatch(actor, "waitlist_booked", e, map[string]any{"booking_id": b.ID})
	uc.d.publish(ctx, events.WaitlistBooked, e)

	return &AcceptResult{Entry: e, Booking: b}, nil
}

// release puts the entry back in the pool and returns cause so the caller
// still sees why the offer failed.
func (d Deps) release(ctx context.Context, e *models.WaitlistEntry, response string, cause error) error {
	domain.ReleaseOffer(e, response)
	if err := d.Repo.Update(ctx, e); err != nil {
		return err
	}
	if _, err := d.rerank(ctx, e.ServiceID, e.StylistID); err != nil {
		return err
	}
	return cause
}

// lockEntry loads the entry, takes its group lock and reads it again.
func (d Deps) lockEntry(ctx context.Context, id uint) (*models.WaitlistEntry, func(), error) {
	e, err := d.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	unlock, err := d.lockGroup(ctx, e.ServiceID, e.StylistID)
	if err != nil {
		return nil, nil, err
	}

	e, err = d.load(ctx, id)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return e, unlock, nil
}

// ======================================================
// DECLINE / CANCEL
// ======================================================

type DeclineOffer struct {
	d Deps
}

func NewDeclineOffer(d Deps) *DeclineOffer {
	return &DeclineOffer{d: d}
}

func (uc *DeclineOffer) Execute(ctx context.Context, actor bookingdomain.Actor, id uint) (*models.WaitlistEntry, error) {
	return uc.d.mutate(ctx, actor, id, "waitlist_declined", func(e *models.WaitlistEntry) error {
		if err := domain.Decline(e); err != nil {
			return err
		}
		uc.d.Metrics.WaitlistNotification("declined")
		return nil
	})
}

type CancelEntry struct {
	d Deps
}

func NewCancelEntry(d Deps) *CancelEntry {
	return &CancelEntry{d: d}
}

func (uc *CancelEntry) Execute(ctx context.Context, actor bookingdomain.Actor, id uint) (*models.WaitlistEntry, error) {
	return uc.d.mutate(ctx, actor, id, "waitlist_cancelled", domain.Cancel)
}

func (d Deps) mutate(
	ctx context.Context,
	actor bookingdomain.Actor,
	id uint,
	action string,
	apply func(*models.WaitlistEntry) error,
) (*models.WaitlistEntry, error) {

	e, unlock, err := d.lockEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := requireOwner(actor, e); err != nil {
		return nil, err
	}
	if err := apply(e); err != nil {
		return nil, err
	}
	if err := d.Repo.Update(ctx, e); err != nil {
		return nil, err
	}

	group, err := d.rerank(ctx, e.ServiceID, e.StylistID)
	if err != nil {
		return nil, err
	}
	for _, g := range group {
		if g.ID == e.ID {
			e.Position = g.Position
			e.EstimatedWaitHours = g.EstimatedWaitHours
		}
	}

	d.dispatch(actor, action, e, map[string]any{"status": e.Status})
	return e, nil
}
