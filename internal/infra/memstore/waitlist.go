package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type WaitlistStore struct {
	mu      sync.Mutex
	entries map[uint]models.WaitlistEntry
	nextID  uint

	// Clock stamps CreatedAt; tests set it to control FIFO order.
	Clock func() time.Time
}

func NewWaitlistStore() *WaitlistStore {
	return &WaitlistStore{entries: map[uint]models.WaitlistEntry{}}
}

func cloneEntry(e models.WaitlistEntry) models.WaitlistEntry {
	e.PreferredDates = append([]models.PreferredDate(nil), e.PreferredDates...)
	e.Attempts = append([]models.WaitlistAttempt(nil), e.Attempts...)
	return e
}

func sameStylist(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func isOpen(e models.WaitlistEntry) bool {
	return e.Status == string(domain.StatusActive) || e.Status == string(domain.StatusNotified)
}

func (s *WaitlistStore) Create(_ context.Context, e *models.WaitlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	e.ID = s.nextID
	if s.Clock != nil {
		e.CreatedAt = s.Clock()
	} else {
		e.CreatedAt = time.Now()
	}
	s.entries[e.ID] = cloneEntry(*e)
	return nil
}

func (s *WaitlistStore) Get(_ context.Context, id uint) (*models.WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := cloneEntry(e)
	return &c, nil
}

func (s *WaitlistStore) Update(_ context.Context, e *models.WaitlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[e.ID]; !ok {
		return domain.ErrNotFound
	}
	s.entries[e.ID] = cloneEntry(*e)
	return nil
}

func (s *WaitlistStore) sorted(keep func(models.WaitlistEntry) bool) []models.WaitlistEntry {
	var out []models.WaitlistEntry
	for _, e := range s.entries {
		if keep(e) {
			out = append(out, cloneEntry(e))
		}
	}
	domain.Sort(out)
	return out
}

func (s *WaitlistStore) ListGroup(_ context.Context, serviceID uint, stylistID *uint) ([]models.WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sorted(func(e models.WaitlistEntry) bool {
		return e.ServiceID == serviceID && sameStylist(e.StylistID, stylistID) && isOpen(e)
	}), nil
}

func (s *WaitlistStore) ListCandidates(_ context.Context, serviceID uint, stylistID uint, limit int) ([]models.WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.sorted(func(e models.WaitlistEntry) bool {
		return e.ServiceID == serviceID &&
			e.Status == string(domain.StatusActive) &&
			(e.StylistID == nil || *e.StylistID == stylistID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *WaitlistStore) ListExpired(_ context.Context, now time.Time) ([]models.WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.sorted(func(e models.WaitlistEntry) bool {
		return isOpen(e) && !e.ExpiresAt.After(now)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *WaitlistStore) ListLapsedOffers(_ context.Context, notifiedBefore time.Time) ([]models.WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.sorted(func(e models.WaitlistEntry) bool {
		return e.Status == string(domain.StatusNotified) &&
			e.LastNotifiedAt != nil && !e.LastNotifiedAt.After(notifiedBefore)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *WaitlistStore) UpdatePositions(_ context.Context, entries []*models.WaitlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		stored, ok := s.entries[e.ID]
		if !ok {
			return domain.ErrNotFound
		}
		stored.Position = e.Position
		stored.EstimatedWaitHours = e.EstimatedWaitHours
		s.entries[e.ID] = stored
	}
	return nil
}

var _ domain.Repository = (*WaitlistStore)(nil)
