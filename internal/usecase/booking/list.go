package booking

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

const maxPageSize = 100

type ListInput struct {
	Actor domain.Actor

	// StylistID and CustomerEmail are honoured for admins only; other
	// callers are pinned to their own bookings.
	StylistID     *uint
	CustomerEmail string
	Status        string
	From          *time.Time
	To            *time.Time

	Page  int
	Limit int
}

type ListResult struct {
	Items []models.Booking
	Page  int
	Limit int
	Total int64
}

type ListBookings struct {
	d Deps
}

func NewListBookings(d Deps) *ListBookings {
	return &ListBookings{d: d}
}

func (uc *ListBookings) Execute(ctx context.Context, in ListInput) (*ListResult, error) {
	f, err := uc.d.scope(ctx, in.Actor, in.StylistID, in.CustomerEmail)
	if err != nil {
		return nil, err
	}

	if in.Status != "" && !domain.ValidStatus(in.Status) {
		return nil, httperr.ValidationErr("invalid_status", "unknown booking status")
	}
	if in.From != nil && in.To != nil && !in.To.After(*in.From) {
		return nil, httperr.ValidationErr("invalid_range", "end date must be after start date")
	}

	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > maxPageSize {
		in.Limit = 10
	}

	f.Status = in.Status
	f.From, f.To = in.From, in.To
	f.Limit = in.Limit
	f.Offset = (in.Page - 1) * in.Limit

	// stylists read their calendar forwards
	f.Ascending = in.Actor.IsStylist()

	items, total, err := uc.d.Repo.ListBookings(ctx, f)
	if err != nil {
		return nil, err
	}

	return &ListResult{Items: items, Page: in.Page, Limit: in.Limit, Total: total}, nil
}

// ======================================================
// CALENDAR (day / month)
// ======================================================

type ListBookingsByDate struct {
	d Deps
}

func NewListBookingsByDate(d Deps) *ListBookingsByDate {
	return &ListBookingsByDate{d: d}
}

func (uc *ListBookingsByDate) Execute(
	ctx context.Context,
	actor domain.Actor,
	stylistID *uint,
	date time.Time,
) ([]models.Booking, error) {

	start := timezone.DateOnly(date)
	end := start.AddDate(0, 0, 1)

	return uc.d.calendar(ctx, actor, stylistID, start, end)
}

type ListBookingsByMonth struct {
	d Deps
}

func NewListBookingsByMonth(d Deps) *ListBookingsByMonth {
	return &ListBookingsByMonth{d: d}
}

func (uc *ListBookingsByMonth) Execute(
	ctx context.Context,
	actor domain.Actor,
	stylistID *uint,
	year int,
	month int,
) ([]models.Booking, error) {

	if year < 2000 || year > 2100 {
		return nil, httperr.ValidationErr("invalid_year", "year must be between 2000 and 2100")
	}
	if month < 1 || month > 12 {
		return nil, httperr.ValidationErr("invalid_month", "month must be between 1 and 12")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, timezone.Shop())
	end := start.AddDate(0, 1, 0)

	return uc.d.calendar(ctx, actor, stylistID, start, end)
}

func (d Deps) calendar(
	ctx context.Context,
	actor domain.Actor,
	stylistID *uint,
	start, end time.Time,
) ([]models.Booking, error) {

	f, err := d.scope(ctx, actor, stylistID, "")
	if err != nil {
		return nil, err
	}
	f.From, f.To = &start, &end
	f.Ascending = true

	items, _, err := d.Repo.ListBookings(ctx, f)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// scope pins a listing to what the caller may see.
func (d Deps) scope(
	ctx context.Context,
	actor domain.Actor,
	stylistID *uint,
	customerEmail string,
) (domain.ListFilter, error) {

	switch {
	case actor.IsAdmin():
		return domain.ListFilter{StylistID: stylistID, CustomerEmail: customerEmail}, nil

	case actor.IsStylist():
		u, err := d.Repo.GetStylist(ctx, actor.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ListFilter{}, httperr.ForbiddenErr("stylist_not_approved")
		}
		if err != nil {
			return domain.ListFilter{}, err
		}
		if u.RegistrationStatus != models.RegistrationApproved {
			return domain.ListFilter{}, httperr.ForbiddenErr("stylist_not_approved")
		}
		id := actor.ID
		return domain.ListFilter{StylistID: &id}, nil

	case actor.Role == models.RoleCustomer && actor.Email != "":
		return domain.ListFilter{CustomerEmail: actor.Email, StylistID: stylistID}, nil
	}

	return domain.ListFilter{}, httperr.ForbiddenErr("not_allowed")
}
