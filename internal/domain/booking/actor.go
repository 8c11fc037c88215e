package booking

import (
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Actor is the authenticated caller as seen by the use cases.
type Actor struct {
	ID    uint
	Role  string
	Email string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

func (a Actor) IsStylist() bool {
	return a.Role == models.RoleBarber
}

// IsAssignedStylist is true only for the stylist the booking belongs to.
func (a Actor) IsAssignedStylist(b *models.Booking) bool {
	return a.IsStylist() && a.ID == b.StylistID
}

// IsOwner matches customers by the e-mail copied onto the booking.
func (a Actor) IsOwner(b *models.Booking) bool {
	if a.Role != models.RoleCustomer || a.Email == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(a.Email), strings.TrimSpace(b.Customer.Email))
}

func RequireAssignedStylist(a Actor, b *models.Booking) error {
	if !a.IsAssignedStylist(b) {
		return httperr.ForbiddenErr("not_assigned_stylist")
	}
	return nil
}

func RequireCanCancel(a Actor, b *models.Booking) error {
	if a.IsAdmin() || a.IsAssignedStylist(b) || a.IsOwner(b) {
		return nil
	}
	return httperr.ForbiddenErr("not_allowed_to_cancel")
}

func RequireCanView(a Actor, b *models.Booking) error {
	if a.IsAdmin() || a.IsAssignedStylist(b) || a.IsOwner(b) {
		return nil
	}
	return httperr.ForbiddenErr("not_allowed")
}

// RequireCanUpdate keeps edits and reschedules with the shop side.
func RequireCanUpdate(a Actor, b *models.Booking) error {
	if a.IsAdmin() || a.IsAssignedStylist(b) {
		return nil
	}
	return httperr.ForbiddenErr("not_allowed_to_update")
}

func RequireOwner(a Actor, b *models.Booking) error {
	if !a.IsOwner(b) {
		return httperr.ForbiddenErr("not_booking_owner")
	}
	return nil
}
