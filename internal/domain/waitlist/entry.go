package waitlist

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusNotified  Status = "notified"
	StatusBooked    Status = "booked"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	TTL            = 30 * 24 * time.Hour
	ResponseWindow = 2 * time.Hour

	// MaxCandidates is how many entries one freed slot is matched against.
	MaxCandidates = 5

	workdayMinutes = 480
)

const (
	AttemptPending  = "pending"
	AttemptFailed   = "failed"
	AttemptAccepted = "accepted"
	AttemptDeclined = "declined"
)

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func Rank(p string) int {
	switch p {
	case PriorityUrgent:
		return 3
	case PriorityHigh:
		return 2
	case PriorityNormal:
		return 1
	default:
		return 0
	}
}

// Ahead reports whether a is served before b: higher priority first, then
// earlier creation inside the same tier.
func Ahead(a, b *models.WaitlistEntry) bool {
	ra, rb := Rank(a.Priority), Rank(b.Priority)
	if ra != rb {
		return ra > rb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func Sort(entries []models.WaitlistEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return Ahead(&entries[i], &entries[j])
	})
}

// Position is 1 + the number of active entries in the group ahead of e.
func Position(e *models.WaitlistEntry, group []models.WaitlistEntry) int {
	pos := 1
	for i := range group {
		o := &group[i]
		if o.ID == e.ID || Status(o.Status) != StatusActive {
			continue
		}
		if Ahead(o, e) {
			pos++
		}
	}
	return pos
}

// EstimateWaitHours assumes an eight hour day filled with back to back
// appointments of the service's duration.
func EstimateWaitHours(position int, serviceDuration int) int {
	if serviceDuration <= 0 {
		serviceDuration = 60
	}
	perDay := workdayMinutes / serviceDuration
	if perDay < 1 {
		perDay = 1
	}
	days := (position + perDay - 1) / perDay
	return days * 24
}

// Rerank assigns consecutive positions to the active entries of one group
// and returns the entries whose position or estimate changed.
func Rerank(group []models.WaitlistEntry, serviceDuration int) []*models.WaitlistEntry {
	active := make([]models.WaitlistEntry, 0, len(group))
	for _, e := range group {
		if Status(e.Status) == StatusActive {
			active = append(active, e)
		}
	}
	Sort(active)

	byID := make(map[uint]int, len(active))
	for i := range active {
		byID[active[i].ID] = i + 1
	}

	var changed []*models.WaitlistEntry
	for i := range group {
		e := &group[i]
		pos, ok := byID[e.ID]
		if !ok {
			continue
		}
		est := EstimateWaitHours(pos, serviceDuration)
		if e.Position != pos || e.EstimatedWaitHours != est {
			e.Position = pos
			e.EstimatedWaitHours = est
			changed = append(changed, e)
		}
	}
	return changed
}

// ===============================
// Transitions
// ===============================

var errInvalidState = httperr.InvalidStateErr("invalid_state")

func RecordAttempt(e *models.WaitlistEntry, slot models.OfferedSlot, method string, sent bool, now time.Time) {
	a := models.WaitlistAttempt{
		Date:             now,
		Method:           method,
		Status:           AttemptPending,
		OfferedSlot:      slot,
		ResponseDeadline: now.Add(ResponseWindow),
	}
	if !sent {
		a.Status = AttemptFailed
	}
	e.Attempts = append(e.Attempts, a)

	if sent {
		e.Status = string(StatusNotified)
		e.LastNotifiedAt = &now
	}
}

// PendingOffer returns the latest attempt while it can still be answered.
func PendingOffer(e *models.WaitlistEntry, now time.Time) (*models.WaitlistAttempt, error) {
	if Status(e.Status) != StatusNotified || len(e.Attempts) == 0 {
		return nil, httperr.InvalidStateErr("no_pending_offer")
	}
	last := &e.Attempts[len(e.Attempts)-1]
	if last.Status != AttemptPending {
		return nil, httperr.InvalidStateErr("no_pending_offer")
	}
	if now.After(last.ResponseDeadline) {
		return nil, httperr.InvalidStateErr("offer_expired")
	}
	return last, nil
}

func MarkBooked(e *models.WaitlistEntry, bookingID uint, slot models.OfferedSlot) {
	if n := len(e.Attempts); n > 0 {
		e.Attempts[n-1].Status = AttemptAccepted
		e.Attempts[n-1].Response = "accepted"
	}
	id := bookingID
	d := slot.Date
	e.Status = string(StatusBooked)
	e.BookedBookingID = &id
	e.BookedDate = &d
	e.BookedTime = slot.Time
	e.Position = 0
	e.EstimatedWaitHours = 0
}

// Decline returns the entry to the pool.
func Decline(e *models.WaitlistEntry) error {
	if Status(e.Status) != StatusNotified {
		return errInvalidState
	}
	if n := len(e.Attempts); n > 0 {
		e.Attempts[n-1].Status = AttemptDeclined
		e.Attempts[n-1].Response = "declined"
	}
	e.Status = string(StatusActive)
	return nil
}

// ReleaseOffer closes an offer that can no longer be taken and puts the
// entry back in the pool.
func ReleaseOffer(e *models.WaitlistEntry, response string) {
	if Status(e.Status) != StatusNotified {
		return
	}
	if n := len(e.Attempts); n > 0 && e.Attempts[n-1].Status == AttemptPending {
		e.Attempts[n-1].Status = AttemptFailed
		e.Attempts[n-1].Response = response
	}
	e.Status = string(StatusActive)
}

// OfferLapsed reports whether a notified entry let its offer run out.
func OfferLapsed(e *models.WaitlistEntry, now time.Time) bool {
	if Status(e.Status) != StatusNotified || len(e.Attempts) == 0 {
		return false
	}
	return now.After(e.Attempts[len(e.Attempts)-1].ResponseDeadline)
}

func Cancel(e *models.WaitlistEntry) error {
	switch Status(e.Status) {
	case StatusActive, StatusNotified:
	default:
		return errInvalidState
	}
	e.Status = string(StatusCancelled)
	e.Position = 0
	return nil
}

func Expired(e *models.WaitlistEntry, now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
