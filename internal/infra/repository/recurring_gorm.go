package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/recurring"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type RecurringGormRepository struct {
	db *gorm.DB
}

func NewRecurringGormRepository(db *gorm.DB) *RecurringGormRepository {
	return &RecurringGormRepository{db: db}
}

func (r *RecurringGormRepository) Create(
	ctx context.Context,
	rb *models.RecurringBooking,
) error {
	return r.db.WithContext(ctx).Create(rb).Error
}

func (r *RecurringGormRepository) Get(
	ctx context.Context,
	id uint,
) (*models.RecurringBooking, error) {

	var rb models.RecurringBooking
	if err := r.db.WithContext(ctx).First(&rb, id).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &rb, nil
}

func (r *RecurringGormRepository) Update(
	ctx context.Context,
	rb *models.RecurringBooking,
) error {
	return r.db.WithContext(ctx).Save(rb).Error
}

func (r *RecurringGormRepository) ListDue(
	ctx context.Context,
	day time.Time,
) ([]models.RecurringBooking, error) {

	var rules []models.RecurringBooking
	if err := r.db.WithContext(ctx).
		Where(
			"status = ? AND next_occurrence IS NOT NULL AND next_occurrence <= ?",
			string(domain.StatusActive), timezone.DateKey(day),
		).
		Order("next_occurrence ASC, id ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *RecurringGormRepository) ListActiveForCustomer(
	ctx context.Context,
	customerID uint,
) ([]models.RecurringBooking, error) {

	var rules []models.RecurringBooking
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID, string(domain.StatusActive)).
		Order("id ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

var _ domain.Repository = (*RecurringGormRepository)(nil)
