package waitlist

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

var ErrNotFound = errors.New("waitlist entry not found")

type Repository interface {
	Create(
		ctx context.Context,
		e *models.WaitlistEntry,
	) error

	Get(
		ctx context.Context,
		id uint,
	) (*models.WaitlistEntry, error)

	Update(
		ctx context.Context,
		e *models.WaitlistEntry,
	) error

	// ListGroup returns the active and notified entries of one
	// (service, stylist) group. A nil stylist is its own group.
	ListGroup(
		ctx context.Context,
		serviceID uint,
		stylistID *uint,
	) ([]models.WaitlistEntry, error)

	// ListCandidates returns active entries for the service that either
	// want this stylist or have no stylist preference, best ranked first.
	ListCandidates(
		ctx context.Context,
		serviceID uint,
		stylistID uint,
		limit int,
	) ([]models.WaitlistEntry, error)

	ListExpired(
		ctx context.Context,
		now time.Time,
	) ([]models.WaitlistEntry, error)

	// ListLapsedOffers returns notified entries last notified at or before
	// the cutoff.
	ListLapsedOffers(
		ctx context.Context,
		notifiedBefore time.Time,
	) ([]models.WaitlistEntry, error)

	UpdatePositions(
		ctx context.Context,
		entries []*models.WaitlistEntry,
	) error
}
