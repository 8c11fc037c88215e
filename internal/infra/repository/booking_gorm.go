package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

const (
	// Created by db.NewDB next to AutoMigrate.
	SlotIndexName = "ux_bookings_stylist_slot"
	codeIndexName = "idx_bookings_confirmation_code"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &svc, nil
}

func (r *BookingGormRepository) GetStylist(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, models.RoleBarber).
		First(&u).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &u, nil
}

func (r *BookingGormRepository) ListBookableStylists(
	ctx context.Context,
) ([]models.User, error) {

	var users []models.User
	if err := r.db.WithContext(ctx).
		Where(
			"role = ? AND registration_status = ? AND is_active = ?",
			models.RoleBarber, models.RegistrationApproved, true,
		).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *BookingGormRepository) SetStylistRegistration(
	ctx context.Context,
	stylistID uint,
	status string,
	active bool,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND role = ?", stylistID, models.RoleBarber).
		Updates(map[string]any{
			"registration_status": status,
			"is_active":           active,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BookingGormRepository) GetWorkingHours(
	ctx context.Context,
	stylistID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("stylist_id = ? AND weekday = ?", stylistID, weekday).
		First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *BookingGormRepository) GetOverride(
	ctx context.Context,
	stylistID uint,
	date time.Time,
) (*models.AvailabilityOverride, error) {

	var ov models.AvailabilityOverride
	err := r.db.WithContext(ctx).
		Where("stylist_id = ? AND date = ?", stylistID, timezone.DateKey(date)).
		First(&ov).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ov, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) ListBlockingBookings(
	ctx context.Context,
	stylistID uint,
	date time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where(
			"stylist_id = ? AND date = ? AND status NOT IN ?",
			stylistID, timezone.DateKey(date), domain.ReleasedStatuses,
		).
		Order("time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Booking, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Booking{})
	if f.StylistID != nil {
		q = q.Where("stylist_id = ?", *f.StylistID)
	}
	if f.CustomerEmail != "" {
		q = q.Where("LOWER(customer_email) = LOWER(?)", f.CustomerEmail)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("date >= ?", timezone.DateKey(*f.From))
	}
	if f.To != nil {
		q = q.Where("date < ?", timezone.DateKey(*f.To))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "date DESC, time DESC"
	if f.Ascending {
		order = "date ASC, time ASC"
	}
	q = q.Order(order)
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func classifyWrite(err error) error {
	switch {
	case err == nil:
		return nil
	case httperr.IsUniqueViolationOn(err, codeIndexName):
		return domain.ErrDuplicateCode
	case httperr.IsUniqueViolationOn(err, SlotIndexName), httperr.IsExclusionConflict(err):
		return domain.ErrSlotTaken
	default:
		return err
	}
}

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return classifyWrite(r.db.WithContext(ctx).Create(b).Error)
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &b, nil
}

var lifecycleColumns = []string{
	"status", "payment_status",
	"cancellation_reason", "cancelled_by", "cancelled_at",
	"confirmed_at", "started_at", "completed_at",
	"updated_at",
}

var scheduleColumns = []string{"date", "time", "notes", "updated_at"}

// guardedUpdate writes cols of b with WHERE id = b.ID AND status = status.
func (r *BookingGormRepository) guardedUpdate(
	ctx context.Context,
	b *models.Booking,
	status string,
	cols []string,
) error {

	res := r.db.WithContext(ctx).
		Model(b).
		Where("status = ?", status).
		Select(cols).
		Updates(b)
	if res.Error != nil {
		return classifyWrite(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrStatusChanged
	}
	return nil
}

func (r *BookingGormRepository) TransitionBooking(
	ctx context.Context,
	b *models.Booking,
	from string,
) error {
	return r.guardedUpdate(ctx, b, from, lifecycleColumns)
}

func (r *BookingGormRepository) RescheduleBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.guardedUpdate(ctx, b, b.Status, scheduleColumns)
}

// --------------------------------------------------
// Review
// --------------------------------------------------

func (r *BookingGormRepository) SaveReview(
	ctx context.Context,
	bookingID uint,
	review models.Review,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND review_rating IS NULL", bookingID).
		Updates(map[string]any{
			"review_rating":  review.Rating,
			"review_comment": review.Comment,
			"review_date":    review.Date,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *BookingGormRepository) ListReviewRatings(
	ctx context.Context,
	stylistID uint,
) ([]int, error) {

	var ratings []int
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("stylist_id = ? AND review_rating IS NOT NULL", stylistID).
		Pluck("review_rating", &ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *BookingGormRepository) UpdateStylistRating(
	ctx context.Context,
	stylistID uint,
	rating float64,
	total int,
) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", stylistID).
		Updates(map[string]any{
			"rating":        rating,
			"total_reviews": total,
		}).Error
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
