package recurring

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

const (
	OccurrenceScheduled = "scheduled"
	OccurrenceSkipped   = "skipped"

	ActionSkip       = "skip"
	ActionReschedule = "reschedule"

	SkipReasonException       = "exception"
	SkipReasonSlotUnavailable = "slot_unavailable"
)

var errInvalidState = httperr.InvalidStateErr("invalid_state")

func Pause(r *models.RecurringBooking) error {
	if Status(r.Status) != StatusActive {
		return errInvalidState
	}
	r.Status = string(StatusPaused)
	return nil
}

func Resume(r *models.RecurringBooking) error {
	if Status(r.Status) != StatusPaused {
		return errInvalidState
	}
	r.Status = string(StatusActive)
	return nil
}

func Cancel(r *models.RecurringBooking) error {
	switch Status(r.Status) {
	case StatusCancelled, StatusCompleted:
		return errInvalidState
	}
	r.Status = string(StatusCancelled)
	r.NextOccurrence = nil
	return nil
}

// ===============================
// Generation bookkeeping
// ===============================

// CompleteIfDone checks the end conditions and marks the rule completed
// when one of them holds.
func CompleteIfDone(r *models.RecurringBooking) bool {
	done := r.NextOccurrence == nil ||
		(r.MaxOccurrences > 0 && r.TotalOccurrences >= r.MaxOccurrences) ||
		(r.EndDate != nil && timezone.DateKey(*r.NextOccurrence) > timezone.DateKey(*r.EndDate))

	if done {
		r.Status = string(StatusCompleted)
		r.NextOccurrence = nil
	}
	return done
}

func Advance(r *models.RecurringBooking) {
	if r.NextOccurrence == nil {
		return
	}
	next := timezone.DateOnly(NextOccurrence(r.Pattern, *r.NextOccurrence))
	r.NextOccurrence = &next
}

func FindException(r *models.RecurringBooking, date time.Time) *models.RecurrenceException {
	key := timezone.DateKey(date)
	for i := range r.Exceptions {
		if timezone.DateKey(r.Exceptions[i].Date) == key {
			return &r.Exceptions[i]
		}
	}
	return nil
}

func RecordSkip(r *models.RecurringBooking, date time.Time, reason string, now time.Time) {
	r.GeneratedBookings = append(r.GeneratedBookings, models.GeneratedOccurrence{
		ScheduledDate: date,
		Status:        OccurrenceSkipped,
		Reason:        reason,
		CreatedAt:     now,
	})
	Advance(r)
}

// RecordGenerated links a materialized booking, moves the pointer on and
// completes the rule once maxOccurrences is reached.
func RecordGenerated(r *models.RecurringBooking, bookingID uint, date time.Time, now time.Time) {
	id := bookingID
	r.GeneratedBookings = append(r.GeneratedBookings, models.GeneratedOccurrence{
		BookingID:     &id,
		ScheduledDate: date,
		Status:        OccurrenceScheduled,
		CreatedAt:     now,
	})
	r.TotalOccurrences++
	Advance(r)

	if r.MaxOccurrences > 0 && r.TotalOccurrences >= r.MaxOccurrences {
		r.Status = string(StatusCompleted)
		r.NextOccurrence = nil
	}
}

func AddException(r *models.RecurringBooking, ex models.RecurrenceException) error {
	switch ex.Action {
	case ActionSkip:
	case ActionReschedule:
		if ex.RescheduleDate == nil || ex.RescheduleTime == "" {
			return httperr.ValidationErr("invalid_exception", "reschedule needs a new date and time")
		}
	default:
		return httperr.ValidationErr("invalid_exception", "action must be skip or reschedule")
	}

	if Status(r.Status) == StatusCancelled || Status(r.Status) == StatusCompleted {
		return errInvalidState
	}

	if existing := FindException(r, ex.Date); existing != nil {
		*existing = ex
		return nil
	}
	r.Exceptions = append(r.Exceptions, ex)
	return nil
}

// ===============================
// Preview
// ===============================

type Occurrence struct {
	Date time.Time `json:"date"`
	Time string    `json:"time"`
}

// Upcoming lists the occurrences the rule will produce until the horizon,
// applying exceptions and end conditions. It does not touch r.
func Upcoming(r *models.RecurringBooking, horizon time.Time) []Occurrence {
	if Status(r.Status) != StatusActive || r.NextOccurrence == nil {
		return nil
	}

	remaining := -1
	if r.MaxOccurrences > 0 {
		remaining = r.MaxOccurrences - r.TotalOccurrences
	}

	var out []Occurrence
	cur := *r.NextOccurrence
	for guard := 0; guard < 1000 && remaining != 0; guard++ {
		if timezone.DateKey(cur) > timezone.DateKey(horizon) {
			break
		}
		if r.EndDate != nil && timezone.DateKey(cur) > timezone.DateKey(*r.EndDate) {
			break
		}

		occ := Occurrence{Date: cur, Time: r.Time}
		ex := FindException(r, cur)
		switch {
		case ex != nil && ex.Action == ActionSkip:
			cur = timezone.DateOnly(NextOccurrence(r.Pattern, cur))
			continue
		case ex != nil && ex.Action == ActionReschedule:
			occ = Occurrence{Date: timezone.DateOnly(*ex.RescheduleDate), Time: ex.RescheduleTime}
		}

		out = append(out, occ)
		if remaining > 0 {
			remaining--
		}
		cur = timezone.DateOnly(NextOccurrence(r.Pattern, cur))
	}
	return out
}
