package booking

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateCode is returned by CreateBooking when the confirmation
	// code is already taken.
	ErrDuplicateCode = errors.New("duplicate confirmation code")

	// ErrSlotTaken is returned by CreateBooking and RescheduleBooking when
	// the database rejects a second blocking booking on the same start time.
	ErrSlotTaken = errors.New("slot already taken")

	// ErrStatusChanged is returned when the stored status no longer matches
	// the one the write was based on.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)

// ListFilter selects bookings for calendars and listings. Zero fields do
// not filter. The date range is [From, To).
type ListFilter struct {
	StylistID     *uint
	CustomerEmail string
	Status        string
	From          *time.Time
	To            *time.Time

	// Newest first unless Ascending. Limit 0 returns every match.
	Ascending bool
	Limit     int
	Offset    int
}

type Repository interface {
	// -------- Catalog --------
	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	GetStylist(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	ListBookableStylists(
		ctx context.Context,
	) ([]models.User, error)

	SetStylistRegistration(
		ctx context.Context,
		stylistID uint,
		status string,
		active bool,
	) error

	// GetWorkingHours returns nil, nil when the stylist has no row.
	GetWorkingHours(
		ctx context.Context,
		stylistID uint,
		weekday int,
	) (*models.WorkingHours, error)

	// GetOverride returns nil, nil when the date has no override.
	GetOverride(
		ctx context.Context,
		stylistID uint,
		date time.Time,
	) (*models.AvailabilityOverride, error)

	// -------- Booking --------
	ListBlockingBookings(
		ctx context.Context,
		stylistID uint,
		date time.Time,
	) ([]models.Booking, error)

	// ListBookings returns the page and the total number of matches.
	ListBookings(
		ctx context.Context,
		f ListFilter,
	) ([]models.Booking, int64, error)

	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	// TransitionBooking stores the lifecycle columns of b only while the
	// stored status is still from.
	TransitionBooking(
		ctx context.Context,
		b *models.Booking,
		from string,
	) error

	// RescheduleBooking stores date, time and notes only while the stored
	// status is still b.Status.
	RescheduleBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Review --------

	// SaveReview stores the review only if the booking has none yet and
	// reports whether it did.
	SaveReview(
		ctx context.Context,
		bookingID uint,
		review models.Review,
	) (bool, error)

	ListReviewRatings(
		ctx context.Context,
		stylistID uint,
	) ([]int, error)

	UpdateStylistRating(
		ctx context.Context,
		stylistID uint,
		rating float64,
		total int,
	) error
}
