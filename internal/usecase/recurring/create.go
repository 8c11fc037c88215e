package recurring

import (
	"context"
	"errors"
	"strings"
	"time"

	bookingdomain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/recurring"
	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/events"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type CreateInput struct {
	Actor    bookingdomain.Actor
	Customer models.CustomerInfo

	ServiceID uint
	StylistID *uint

	Title       string
	Description string

	Pattern models.RecurrencePattern

	StartDate      time.Time
	EndDate        *time.Time
	Time           string
	Duration       int
	MaxOccurrences int
	AutoConfirm    bool
}

type CreateRule struct {
	d Deps
}

func NewCreateRule(d Deps) *CreateRule {
	return &CreateRule{d: d}
}

func (uc *CreateRule) Execute(ctx context.Context, in CreateInput) (*models.RecurringBooking, error) {
	if in.Actor.Role != models.RoleCustomer && !in.Actor.IsAdmin() {
		return nil, httperr.ForbiddenErr("customers_only")
	}

	if in.Pattern.Interval == 0 {
		in.Pattern.Interval = 1
	}
	if err := domain.ValidatePattern(in.Pattern); err != nil {
		return nil, err
	}
	if !schedule.ValidClock(in.Time) {
		return nil, httperr.ValidationErr("invalid_time", "time must be HH:MM")
	}
	if in.MaxOccurrences < 0 {
		return nil, httperr.ValidationErr("invalid_max_occurrences", "max occurrences cannot be negative")
	}
	in.Customer.Name = strings.TrimSpace(in.Customer.Name)
	in.Customer.Email = strings.ToLower(strings.TrimSpace(in.Customer.Email))
	in.Customer.Phone = strings.TrimSpace(in.Customer.Phone)
	if in.Customer.Name == "" || in.Customer.Email == "" || in.Customer.Phone == "" {
		return nil, httperr.ValidationErr("invalid_customer", "customer name, email and phone are required")
	}

	today := timezone.DateOnly(uc.d.now())
	start := timezone.DateOnly(in.StartDate)
	if start.Before(today) {
		return nil, httperr.ValidationErr("date_in_past", "start date is in the past")
	}

	var end *time.Time
	if in.EndDate != nil {
		e := timezone.DateOnly(*in.EndDate)
		if e.Before(start) {
			return nil, httperr.ValidationErr("invalid_end_date", "end date is before start date")
		}
		end = &e
	}

	svc, err := uc.d.Catalog.GetService(ctx, in.ServiceID)
	if errors.Is(err, bookingdomain.ErrNotFound) || (err == nil && !svc.Active) {
		return nil, httperr.NotFoundErr("service_not_found")
	}
	if err != nil {
		return nil, err
	}

	if in.StylistID != nil {
		u, err := uc.d.Catalog.GetStylist(ctx, *in.StylistID)
		if errors.Is(err, bookingdomain.ErrNotFound) || (err == nil && !u.IsBookableStylist()) {
			return nil, httperr.NotFoundErr("stylist_not_found")
		}
		if err != nil {
			return nil, err
		}
	}

	duration := in.Duration
	if duration <= 0 {
		duration = svc.DurationMin
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = svc.Name
	}

	next := domain.AlignStart(in.Pattern, start)

	r := &models.RecurringBooking{
		CustomerID:     in.Actor.ID,
		Customer:       in.Customer,
		ServiceID:      svc.ID,
		StylistID:      in.StylistID,
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		Pattern:        in.Pattern,
		StartDate:      start,
		EndDate:        end,
		Time:           in.Time,
		Duration:       duration,
		MaxOccurrences: in.MaxOccurrences,
		Status:         string(domain.StatusActive),
		AutoConfirm:    in.AutoConfirm,
		NextOccurrence: &next,
	}

	if err := uc.d.Repo.Create(ctx, r); err != nil {
		return nil, err
	}

	uc.d.dispatch(in.Actor, "recurring_created", r, map[string]any{"pattern": r.Pattern.Type})
	uc.d.publish(ctx, events.RecurringCreated, r, r)

	return r, nil
}
