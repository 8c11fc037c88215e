package waitlist

import (
	"context"
	"errors"
	"strings"

	bookingdomain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barber-booking/internal/events"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type AddInput struct {
	Actor    bookingdomain.Actor
	Customer models.CustomerInfo
	Notes    string

	// CustomerID lets an admin file the entry for a customer account.
	CustomerID uint

	ServiceID uint
	StylistID *uint

	PreferredDates []models.PreferredDate
	Flexible       models.FlexibleDates
	Priority       string

	// Notifications defaults to email and in-app with 24h notice.
	Notifications *models.NotificationPreferences
}

func (in *AddInput) normalize(today string) error {
	in.Customer.Name = strings.TrimSpace(in.Customer.Name)
	in.Customer.Email = strings.ToLower(strings.TrimSpace(in.Customer.Email))
	in.Customer.Phone = strings.TrimSpace(in.Customer.Phone)
	in.Notes = strings.TrimSpace(in.Notes)

	if in.Customer.Name == "" || in.Customer.Email == "" || in.Customer.Phone == "" {
		return httperr.ValidationErr("invalid_customer", "customer name, email and phone are required")
	}

	if in.Priority == "" {
		in.Priority = domain.PriorityNormal
	}
	if !domain.ValidPriority(in.Priority) {
		return httperr.ValidationErr("invalid_priority", "priority must be low, normal, high or urgent")
	}

	if len(in.PreferredDates) == 0 && !in.Flexible.Enabled {
		return httperr.ValidationErr("invalid_preferences", "give preferred dates or enable flexible dates")
	}

	for i := range in.PreferredDates {
		pd := &in.PreferredDates[i]
		pd.Date = timezone.DateOnly(pd.Date)
		if timezone.DateKey(pd.Date) < today {
			return httperr.ValidationErr("date_in_past", "preferred dates cannot be in the past")
		}
		if len(pd.TimeSlots) == 0 {
			return httperr.ValidationErr("time_slots_required", "each preferred date needs at least one time window")
		}
		for _, w := range pd.TimeSlots {
			if !schedule.ValidClock(w.StartTime) || !schedule.ValidClock(w.EndTime) || w.StartTime > w.EndTime {
				return httperr.ValidationErr("invalid_time_window", "time windows are HH:MM ranges")
			}
		}
	}

	for _, d := range in.Flexible.DaysOfWeek {
		if d < 0 || d > 6 {
			return httperr.ValidationErr("invalid_days_of_week", "days of week must be 0-6")
		}
	}

	if in.Notifications == nil {
		in.Notifications = &models.NotificationPreferences{Email: true, InApp: true, AdvanceNotice: 24}
	}
	return nil
}

// ======================================================
// ADD
// ======================================================

type AddEntry struct {
	d Deps
}

func NewAddEntry(d Deps) *AddEntry {
	return &AddEntry{d: d}
}

func (uc *AddEntry) Execute(ctx context.Context, in AddInput) (*models.WaitlistEntry, error) {
	if in.Actor.Role != models.RoleCustomer && !in.Actor.IsAdmin() {
		return nil, httperr.ForbiddenErr("customers_only")
	}

	customerID := in.Actor.ID
	if in.Actor.IsAdmin() && in.CustomerID != 0 {
		customerID = in.CustomerID
	}

	now := uc.d.now()
	if err := in.normalize(timezone.DateKey(now)); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1️⃣ Service and stylist
	// --------------------------------------------------
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

	// --------------------------------------------------
	// 2️⃣ Group critical section
	// --------------------------------------------------
	unlock, err := uc.d.lockGroup(ctx, svc.ID, in.StylistID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	group, err := uc.d.Repo.ListGroup(ctx, svc.ID, in.StylistID)
	if err != nil {
		return nil, err
	}
	for _, e := range group {
		if e.CustomerID == customerID {
			return nil, httperr.ConflictErr("already_on_waitlist")
		}
	}

	// --------------------------------------------------
	// 3️⃣ Insert + rank
	// --------------------------------------------------
	e := &models.WaitlistEntry{
		CustomerID:     customerID,
		Customer:       in.Customer,
		Notes:          in.Notes,
		ServiceID:      svc.ID,
		StylistID:      in.StylistID,
		PreferredDates: in.PreferredDates,
		Flexible:       in.Flexible,
		Priority:       in.Priority,
		Status:         string(domain.StatusActive),
		Notifications:  *in.Notifications,
		ExpiresAt:      now.Add(domain.TTL),
	}
	if err := uc.d.Repo.Create(ctx, e); err != nil {
		return nil, err
	}

	ranked, err := uc.d.rerank(ctx, svc.ID, in.StylistID)
	if err != nil {
		return nil, err
	}
	for _, r := range ranked {
		if r.ID == e.ID {
			e.Position = r.Position
			e.EstimatedWaitHours = r.EstimatedWaitHours
		}
	}

	uc.d.dispatch(in.Actor, "waitlist_added", e, map[string]any{
		"priority": e.Priority,
		"position": e.Position,
	})
	uc.d.publish(ctx, events.WaitlistAdded, e)

	return e, nil
}

// ======================================================
// GET
// ======================================================

type GetEntry struct {
	d Deps
}

func NewGetEntry(d Deps) *GetEntry {
	return &GetEntry{d: d}
}

func (uc *GetEntry) Execute(ctx context.Context, actor bookingdomain.Actor, id uint) (*models.WaitlistEntry, error) {
	e, err := uc.d.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, e) {
		return nil, httperr.ForbiddenErr("not_entry_owner")
	}
	return e, nil
}
