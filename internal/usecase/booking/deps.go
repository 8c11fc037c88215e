package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/events"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ReleasedSlot describes a slot given back by a cancellation or no-show.
type ReleasedSlot struct {
	ServiceID uint
	StylistID uint
	Date      time.Time
	Time      string
}

// Backfiller offers a released slot to the waitlist.
type Backfiller interface {
	OfferReleasedSlot(ctx context.Context, slot ReleasedSlot) (bool, error)
}

// Deps is shared by every booking use case. Only Repo and Locker are
// required; the rest are skipped when nil.
type Deps struct {
	Repo     domain.Repository
	Locker   lock.Locker
	Audit    *audit.Dispatcher
	Notifier *notify.Dispatcher
	Events   events.Publisher
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return timezone.Now()
}

func (d Deps) dispatch(actor domain.Actor, action string, b *models.Booking, meta any) {
	if d.Audit == nil {
		return
	}

	ev := audit.Event{
		ActorRole: actor.Role,
		Action:    action,
		Entity:    "booking",
		EntityID:  &b.ID,
		Metadata:  meta,
	}
	if actor.ID != 0 {
		id := actor.ID
		ev.ActorID = &id
	}
	d.Audit.Dispatch(ev)
}

func (d Deps) publish(ctx context.Context, eventType string, b *models.Booking) {
	if d.Events == nil {
		return
	}
	d.Events.Publish(ctx, eventType, BookingKey(b.ID), b)
}

func (d Deps) notify(msgs ...notify.Message) {
	if d.Notifier == nil {
		return
	}
	d.Notifier.Enqueue(msgs...)
}

func BookingKey(id uint) string {
	return fmt.Sprintf("booking:%d", id)
}

// loadBooking maps the repository miss to a NotFound business error.
func (d Deps) loadBooking(ctx context.Context, id uint) (*models.Booking, error) {
	b, err := d.Repo.GetBooking(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFoundErr("booking_not_found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// staleWrite turns a lost compare-and-set into the same answer a late
// caller would get from the status guard.
func staleWrite(err error) error {
	if errors.Is(err, domain.ErrStatusChanged) {
		return httperr.InvalidStateErr("status_changed")
	}
	return err
}

func (d Deps) loadStylist(ctx context.Context, id uint) (*models.User, error) {
	u, err := d.Repo.GetStylist(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFoundErr("stylist_not_found")
	}
	if err != nil {
		return nil, err
	}
	if !u.IsBookableStylist() {
		return nil, httperr.NotFoundErr("stylist_not_found")
	}
	return u, nil
}

func (d Deps) loadService(ctx context.Context, id uint) (*models.Service, error) {
	svc, err := d.Repo.GetService(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFoundErr("service_not_found")
	}
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, httperr.NotFoundErr("service_not_found")
	}
	return svc, nil
}
