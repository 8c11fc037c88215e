package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/recurring"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type RecurringStore struct {
	mu     sync.Mutex
	rules  map[uint]models.RecurringBooking
	nextID uint
}

func NewRecurringStore() *RecurringStore {
	return &RecurringStore{rules: map[uint]models.RecurringBooking{}}
}

func cloneRule(r models.RecurringBooking) models.RecurringBooking {
	r.Pattern.DaysOfWeek = append([]int(nil), r.Pattern.DaysOfWeek...)
	r.GeneratedBookings = append([]models.GeneratedOccurrence(nil), r.GeneratedBookings...)
	r.Exceptions = append([]models.RecurrenceException(nil), r.Exceptions...)
	if r.NextOccurrence != nil {
		n := *r.NextOccurrence
		r.NextOccurrence = &n
	}
	return r
}

func (s *RecurringStore) Create(_ context.Context, r *models.RecurringBooking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	r.ID = s.nextID
	r.CreatedAt = time.Now()
	s.rules[r.ID] = cloneRule(*r)
	return nil
}

func (s *RecurringStore) Get(_ context.Context, id uint) (*models.RecurringBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rules[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := cloneRule(r)
	return &c, nil
}

func (s *RecurringStore) Update(_ context.Context, r *models.RecurringBooking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[r.ID]; !ok {
		return domain.ErrNotFound
	}
	s.rules[r.ID] = cloneRule(*r)
	return nil
}

func (s *RecurringStore) ListDue(_ context.Context, day time.Time) ([]models.RecurringBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := timezone.DateKey(day)
	var out []models.RecurringBooking
	for _, r := range s.rules {
		if r.Status == string(domain.StatusActive) && r.NextOccurrence != nil &&
			timezone.DateKey(*r.NextOccurrence) <= key {
			out = append(out, cloneRule(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *RecurringStore) ListActiveForCustomer(_ context.Context, customerID uint) ([]models.RecurringBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.RecurringBooking
	for _, r := range s.rules {
		if r.CustomerID == customerID && r.Status == string(domain.StatusActive) {
			out = append(out, cloneRule(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var _ domain.Repository = (*RecurringStore)(nil)
