// Package memstore keeps repositories in process memory. It mirrors the
// unique indexes of the Postgres schema and backs the use case tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type BookingStore struct {
	mu sync.Mutex

	services  map[uint]models.Service
	users     map[uint]models.User
	hours     map[string]models.WorkingHours
	overrides map[string]models.AvailabilityOverride
	bookings  map[uint]models.Booking
	nextID    uint

	// ForcedCollisions makes that many CreateBooking calls fail with
	// ErrDuplicateCode.
	ForcedCollisions int
}

func NewBookingStore() *BookingStore {
	return &BookingStore{
		services:  map[uint]models.Service{},
		users:     map[uint]models.User{},
		hours:     map[string]models.WorkingHours{},
		overrides: map[string]models.AvailabilityOverride{},
		bookings:  map[uint]models.Booking{},
	}
}

func hoursKey(stylistID uint, weekday int) string {
	return fmt.Sprintf("%d:%d", stylistID, weekday)
}

func overrideKey(stylistID uint, date time.Time) string {
	return fmt.Sprintf("%d:%s", stylistID, timezone.DateKey(date))
}

// -------- seeding --------

func (s *BookingStore) PutService(svc models.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = svc
}

func (s *BookingStore) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *BookingStore) PutWorkingHours(wh models.WorkingHours) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hours[hoursKey(wh.StylistID, wh.Weekday)] = wh
}

func (s *BookingStore) PutOverride(ov models.AvailabilityOverride) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[overrideKey(ov.StylistID, ov.Date)] = ov
}

func (s *BookingStore) User(id uint) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *BookingStore) Bookings() []models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// -------- catalog --------

func (s *BookingStore) GetService(_ context.Context, id uint) (*models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, ok := s.services[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &svc, nil
}

func (s *BookingStore) GetStylist(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || u.Role != models.RoleBarber {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (s *BookingStore) ListBookableStylists(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.User
	for _, u := range s.users {
		if u.IsBookableStylist() {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *BookingStore) SetStylistRegistration(_ context.Context, stylistID uint, status string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[stylistID]
	if !ok || u.Role != models.RoleBarber {
		return domain.ErrNotFound
	}
	u.RegistrationStatus = status
	u.IsActive = active
	s.users[stylistID] = u
	return nil
}

func (s *BookingStore) GetWorkingHours(_ context.Context, stylistID uint, weekday int) (*models.WorkingHours, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wh, ok := s.hours[hoursKey(stylistID, weekday)]
	if !ok {
		return nil, nil
	}
	return &wh, nil
}

func (s *BookingStore) GetOverride(_ context.Context, stylistID uint, date time.Time) (*models.AvailabilityOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ov, ok := s.overrides[overrideKey(stylistID, date)]
	if !ok {
		return nil, nil
	}
	return &ov, nil
}

// -------- bookings --------

func (s *BookingStore) ListBlockingBookings(_ context.Context, stylistID uint, date time.Time) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := timezone.DateKey(date)
	var out []models.Booking
	for _, b := range s.bookings {
		if b.StylistID == stylistID && timezone.DateKey(b.Date) == key && domain.Status(b.Status).Blocks() {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (s *BookingStore) ListBookings(_ context.Context, f domain.ListFilter) ([]models.Booking, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Booking
	for _, b := range s.bookings {
		key := timezone.DateKey(b.Date)
		switch {
		case f.StylistID != nil && b.StylistID != *f.StylistID,
			f.CustomerEmail != "" && !strings.EqualFold(b.Customer.Email, f.CustomerEmail),
			f.Status != "" && b.Status != f.Status,
			f.From != nil && key < timezone.DateKey(*f.From),
			f.To != nil && key >= timezone.DateKey(*f.To):
			continue
		}
		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool {
		a := timezone.DateKey(out[i].Date) + out[i].Time
		b := timezone.DateKey(out[j].Date) + out[j].Time
		if f.Ascending {
			return a < b
		}
		return a > b
	})

	total := int64(len(out))
	if f.Limit > 0 {
		if f.Offset >= len(out) {
			return []models.Booking{}, total, nil
		}
		end := f.Offset + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[f.Offset:end]
	}
	return out, total, nil
}

// violates mirrors the unique indexes; the caller holds s.mu.
func (s *BookingStore) violates(b *models.Booking) error {
	for _, o := range s.bookings {
		if o.ID == b.ID {
			continue
		}
		if o.ConfirmationCode == b.ConfirmationCode {
			return domain.ErrDuplicateCode
		}
		if domain.Status(b.Status).Blocks() && domain.Status(o.Status).Blocks() &&
			o.StylistID == b.StylistID &&
			timezone.DateKey(o.Date) == timezone.DateKey(b.Date) &&
			o.Time == b.Time {
			return domain.ErrSlotTaken
		}
	}
	return nil
}

func (s *BookingStore) CreateBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ForcedCollisions > 0 {
		s.ForcedCollisions--
		return domain.ErrDuplicateCode
	}
	if err := s.violates(b); err != nil {
		return err
	}

	s.nextID++
	b.ID = s.nextID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	s.bookings[b.ID] = *b
	return nil
}

func (s *BookingStore) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (s *BookingStore) TransitionBooking(_ context.Context, b *models.Booking, from string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.bookings[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Status != from {
		return domain.ErrStatusChanged
	}

	next := stored
	next.Status = b.Status
	next.PaymentStatus = b.PaymentStatus
	next.CancellationReason = b.CancellationReason
	next.CancelledBy = b.CancelledBy
	next.CancelledAt = b.CancelledAt
	next.ConfirmedAt = b.ConfirmedAt
	next.StartedAt = b.StartedAt
	next.CompletedAt = b.CompletedAt
	if err := s.violates(&next); err != nil {
		return err
	}

	next.UpdatedAt = time.Now()
	s.bookings[b.ID] = next
	return nil
}

func (s *BookingStore) RescheduleBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.bookings[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Status != b.Status {
		return domain.ErrStatusChanged
	}

	next := stored
	next.Date = b.Date
	next.Time = b.Time
	next.Notes = b.Notes
	if err := s.violates(&next); err != nil {
		return err
	}

	next.UpdatedAt = time.Now()
	s.bookings[b.ID] = next
	return nil
}

// -------- review --------

func (s *BookingStore) SaveReview(_ context.Context, bookingID uint, review models.Review) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok || b.Review.Rating != nil {
		return false, nil
	}
	b.Review = review
	s.bookings[bookingID] = b
	return true, nil
}

func (s *BookingStore) ListReviewRatings(_ context.Context, stylistID uint) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []int
	for _, b := range s.bookings {
		if b.StylistID == stylistID && b.Review.Rating != nil {
			out = append(out, *b.Review.Rating)
		}
	}
	return out, nil
}

func (s *BookingStore) UpdateStylistRating(_ context.Context, stylistID uint, rating float64, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[stylistID]
	if !ok {
		return domain.ErrNotFound
	}
	u.Rating = rating
	u.TotalReviews = total
	s.users[stylistID] = u
	return nil
}

var _ domain.Repository = (*BookingStore)(nil)
