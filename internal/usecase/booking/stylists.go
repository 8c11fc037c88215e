package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/events"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
)

// ======================================================
// STYLIST MODERATION (admin)
// ======================================================

type ApproveStylist struct {
	d Deps
}

func NewApproveStylist(d Deps) *ApproveStylist {
	return &ApproveStylist{d: d}
}

func (uc *ApproveStylist) Execute(ctx context.Context, actor domain.Actor, stylistID uint) (*models.User, error) {
	return uc.d.moderate(ctx, actor, stylistID, models.RegistrationApproved, "")
}

type RejectStylist struct {
	d Deps
}

func NewRejectStylist(d Deps) *RejectStylist {
	return &RejectStylist{d: d}
}

func (uc *RejectStylist) Execute(
	ctx context.Context,
	actor domain.Actor,
	stylistID uint,
	reason string,
) (*models.User, error) {

	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) > 500 {
		return nil, httperr.ValidationErr("reason_too_long", "reason must be at most 500 characters")
	}
	return uc.d.moderate(ctx, actor, stylistID, models.RegistrationRejected, reason)
}

func (d Deps) moderate(
	ctx context.Context,
	actor domain.Actor,
	stylistID uint,
	status string,
	reason string,
) (*models.User, error) {

	if !actor.IsAdmin() {
		return nil, httperr.ForbiddenErr("admin_only")
	}

	u, err := d.Repo.GetStylist(ctx, stylistID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFoundErr("stylist_not_found")
	}
	if err != nil {
		return nil, err
	}

	from := u.RegistrationStatus
	if from == status {
		return u, nil
	}

	// an approved stylist becomes bookable straight away
	active := u.IsActive
	if status == models.RegistrationApproved {
		active = true
	}

	if err := d.Repo.SetStylistRegistration(ctx, stylistID, status, active); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.NotFoundErr("stylist_not_found")
		}
		return nil, fmt.Errorf("set registration of stylist %d: %w", stylistID, err)
	}
	u.RegistrationStatus = status
	u.IsActive = active

	meta := map[string]any{"from": from, "to": status}
	if reason != "" {
		meta["reason"] = reason
	}

	action, event, msg := "stylist_approved", events.StylistApproved, notify.StylistApproved(u)
	if status == models.RegistrationRejected {
		action, event, msg = "stylist_rejected", events.StylistRejected, notify.StylistRejected(u, reason)
	}

	if d.Audit != nil {
		ev := audit.Event{
			ActorRole: actor.Role,
			Action:    action,
			Entity:    "stylist",
			EntityID:  &u.ID,
			Metadata:  meta,
		}
		if actor.ID != 0 {
			id := actor.ID
			ev.ActorID = &id
		}
		d.Audit.Dispatch(ev)
	}
	if d.Events != nil {
		d.Events.Publish(ctx, event, fmt.Sprintf("stylist:%d", u.ID), map[string]any{
			"stylist_id":          u.ID,
			"registration_status": status,
		})
	}
	if u.Email != "" {
		d.notify(msg)
	}

	return u, nil
}
