package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type WaitlistGormRepository struct {
	db *gorm.DB
}

func NewWaitlistGormRepository(db *gorm.DB) *WaitlistGormRepository {
	return &WaitlistGormRepository{db: db}
}

const priorityOrder = `CASE priority
	WHEN 'urgent' THEN 3
	WHEN 'high' THEN 2
	WHEN 'normal' THEN 1
	ELSE 0 END DESC, created_at ASC, id ASC`

var openStatuses = []string{string(domain.StatusActive), string(domain.StatusNotified)}

func (r *WaitlistGormRepository) Create(
	ctx context.Context,
	e *models.WaitlistEntry,
) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *WaitlistGormRepository) Get(
	ctx context.Context,
	id uint,
) (*models.WaitlistEntry, error) {

	var e models.WaitlistEntry
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &e, nil
}

func (r *WaitlistGormRepository) Update(
	ctx context.Context,
	e *models.WaitlistEntry,
) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *WaitlistGormRepository) ListGroup(
	ctx context.Context,
	serviceID uint,
	stylistID *uint,
) ([]models.WaitlistEntry, error) {

	q := r.db.WithContext(ctx).
		Where("service_id = ? AND status IN ?", serviceID, openStatuses)
	if stylistID == nil {
		q = q.Where("stylist_id IS NULL")
	} else {
		q = q.Where("stylist_id = ?", *stylistID)
	}

	var entries []models.WaitlistEntry
	if err := q.Order(priorityOrder).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *WaitlistGormRepository) ListCandidates(
	ctx context.Context,
	serviceID uint,
	stylistID uint,
	limit int,
) ([]models.WaitlistEntry, error) {

	var entries []models.WaitlistEntry
	if err := r.db.WithContext(ctx).
		Where(
			"service_id = ? AND status = ? AND (stylist_id = ? OR stylist_id IS NULL)",
			serviceID, string(domain.StatusActive), stylistID,
		).
		Order(priorityOrder).
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *WaitlistGormRepository) ListExpired(
	ctx context.Context,
	now time.Time,
) ([]models.WaitlistEntry, error) {

	var entries []models.WaitlistEntry
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND expires_at <= ?", openStatuses, now).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *WaitlistGormRepository) ListLapsedOffers(
	ctx context.Context,
	notifiedBefore time.Time,
) ([]models.WaitlistEntry, error) {

	var entries []models.WaitlistEntry
	if err := r.db.WithContext(ctx).
		Where("status = ? AND last_notified_at <= ?", string(domain.StatusNotified), notifiedBefore).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *WaitlistGormRepository) UpdatePositions(
	ctx context.Context,
	entries []*models.WaitlistEntry,
) error {
	if len(entries) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			if err := tx.Model(&models.WaitlistEntry{}).
				Where("id = ?", e.ID).
				UpdateColumns(map[string]any{
					"position":             e.Position,
					"estimated_wait_hours": e.EstimatedWaitHours,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

var _ domain.Repository = (*WaitlistGormRepository)(nil)
