package recurring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	bookingdomain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/recurring"
	"github.com/BruksfildServices01/barber-booking/internal/events"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	bookinguc "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// Deps is shared by the recurring use cases.
type Deps struct {
	Repo     domain.Repository
	Catalog  bookingdomain.Repository
	Bookings *bookinguc.CreateBooking
	Locker   lock.Locker
	Audit    *audit.Dispatcher
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

func (d Deps) dispatch(actor bookingdomain.Actor, action string, r *models.RecurringBooking, meta any) {
	if d.Audit == nil {
		return
	}

	ev := audit.Event{
		ActorRole: actor.Role,
		Action:    action,
		Entity:    "recurring_booking",
		EntityID:  &r.ID,
		Metadata:  meta,
	}
	if actor.ID != 0 {
		id := actor.ID
		ev.ActorID = &id
	}
	d.Audit.Dispatch(ev)
}

func (d Deps) publish(ctx context.Context, eventType string, r *models.RecurringBooking, data any) {
	if d.Events == nil {
		return
	}
	d.Events.Publish(ctx, eventType, RuleKey(r.ID), data)
}

func RuleKey(id uint) string {
	return fmt.Sprintf("recurring:%d", id)
}

func (d Deps) load(ctx context.Context, id uint) (*models.RecurringBooking, error) {
	r, err := d.Repo.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFoundErr("recurring_booking_not_found")
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// requireOwner lets the owning customer or an admin manage a rule.
func requireOwner(actor bookingdomain.Actor, r *models.RecurringBooking) error {
	if actor.IsAdmin() || (actor.Role == models.RoleCustomer && actor.ID == r.CustomerID) {
		return nil
	}
	return httperr.ForbiddenErr("not_rule_owner")
}
