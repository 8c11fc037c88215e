package booking

import "github.com/BruksfildServices01/barber-booking/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no-show"
)

func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func InitialStatus() Status {
	return StatusPending
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// Blocks reports whether a booking in this status still holds its slot.
func (s Status) Blocks() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// ReleasedStatuses are left out of every availability query.
var ReleasedStatuses = []string{string(StatusCancelled), string(StatusNoShow)}

// ===============================
// Transitions
// ===============================

var errInvalidState = httperr.InvalidStateErr("invalid_state")

func CanConfirm(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return errInvalidState
	}
	return nil
}

func CanStart(current Status) error {
	if current != StatusConfirmed {
		return errInvalidState
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed && current != StatusInProgress {
		return errInvalidState
	}
	return nil
}

func CanCancel(current Status) error {
	if current.IsTerminal() {
		return errInvalidState
	}
	return nil
}

func CanMarkNoShow(current Status) error {
	if current.IsTerminal() {
		return errInvalidState
	}
	return nil
}

func CanReview(current Status) error {
	if current != StatusCompleted {
		return httperr.InvalidStateErr("booking_not_completed")
	}
	return nil
}

// CanReschedule allows moving bookings that have not started yet.
func CanReschedule(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return errInvalidState
	}
	return nil
}
