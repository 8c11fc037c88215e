package waitlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	bookingdomain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barber-booking/internal/events"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	bookinguc "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// Deps is shared by the waitlist use cases. Offers are sent through
// Notifier.SendNow so the attempt records the real outcome.
type Deps struct {
	Repo     domain.Repository
	Catalog  bookingdomain.Repository
	Bookings *bookinguc.CreateBooking
	Locker   lock.Locker
	Audit    *audit.Dispatcher
	Notifier *notify.Dispatcher
	Events   events.Publisher
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
	Now      func() time.Time
}

var systemActor = bookingdomain.Actor{Role: "system"}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return timezone.Now()
}

func (d Deps) dispatch(actor bookingdomain.Actor, action string, e *models.WaitlistEntry, meta any) {
	if d.Audit == nil {
		return
	}

	ev := audit.Event{
		ActorRole: actor.Role,
		Action:    action,
		Entity:    "waitlist_entry",
		EntityID:  &e.ID,
		Metadata:  meta,
	}
	if actor.ID != 0 {
		id := actor.ID
		ev.ActorID = &id
	}
	d.Audit.Dispatch(ev)
}

func (d Deps) publish(ctx context.Context, eventType string, e *models.WaitlistEntry) {
	if d.Events == nil {
		return
	}
	d.Events.Publish(ctx, eventType, EntryKey(e.ID), e)
}

func EntryKey(id uint) string {
	return fmt.Sprintf("waitlist:%d", id)
}

func (d Deps) load(ctx context.Context, id uint) (*models.WaitlistEntry, error) {
	e, err := d.Repo.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFoundErr("waitlist_entry_not_found")
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (d Deps) lockGroup(ctx context.Context, serviceID uint, stylistID *uint) (func(), error) {
	key := lock.WaitlistKey(serviceID, stylistID)
	unlock, err := d.Locker.Lock(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	return unlock, nil
}

// rerank recomputes positions for one group. The caller holds the group
// lock.
func (d Deps) rerank(ctx context.Context, serviceID uint, stylistID *uint) ([]models.WaitlistEntry, error) {
	group, err := d.Repo.ListGroup(ctx, serviceID, stylistID)
	if err != nil {
		return nil, err
	}

	duration := 0
	if svc, err := d.Catalog.GetService(ctx, serviceID); err == nil {
		duration = svc.DurationMin
	} else if !errors.Is(err, bookingdomain.ErrNotFound) {
		return nil, err
	}

	changed := domain.Rerank(group, duration)
	if err := d.Repo.UpdatePositions(ctx, changed); err != nil {
		return nil, err
	}
	return group, nil
}

// canView: the owner, an admin, or the stylist the entry asks for.
func canView(actor bookingdomain.Actor, e *models.WaitlistEntry) bool {
	switch {
	case actor.IsAdmin():
		return true
	case actor.Role == models.RoleCustomer:
		return actor.ID == e.CustomerID
	case actor.IsStylist():
		return e.StylistID != nil && *e.StylistID == actor.ID
	}
	return false
}

func requireOwner(actor bookingdomain.Actor, e *models.WaitlistEntry) error {
	if actor.IsAdmin() || (actor.Role == models.RoleCustomer && actor.ID == e.CustomerID) {
		return nil
	}
	return httperr.ForbiddenErr("not_entry_owner")
}
