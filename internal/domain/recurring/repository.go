package recurring

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

var ErrNotFound = errors.New("recurring booking not found")

type Repository interface {
	Create(
		ctx context.Context,
		r *models.RecurringBooking,
	) error

	Get(
		ctx context.Context,
		id uint,
	) (*models.RecurringBooking, error)

	Update(
		ctx context.Context,
		r *models.RecurringBooking,
	) error

	// ListDue returns active rules whose next occurrence is on or before day.
	ListDue(
		ctx context.Context,
		day time.Time,
	) ([]models.RecurringBooking, error)

	ListActiveForCustomer(
		ctx context.Context,
		customerID uint,
	) ([]models.RecurringBooking, error)
}
