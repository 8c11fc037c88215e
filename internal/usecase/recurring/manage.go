package recurring

import (
	"context"
	"fmt"
	"sort"
	"time"

	bookingdomain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/recurring"
	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// STATUS CHANGES
// ======================================================

type ManageRule struct {
	d Deps
}

func NewManageRule(d Deps) *ManageRule {
	return &ManageRule{d: d}
}

func (uc *ManageRule) Get(ctx context.Context, actor bookingdomain.Actor, id uint) (*models.RecurringBooking, error) {
	r, err := uc.d.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (uc *ManageRule) Pause(ctx context.Context, actor bookingdomain.Actor, id uint) (*models.RecurringBooking, error) {
	return uc.mutate(ctx, actor, id, "recurring_paused", domain.Pause)
}

// Resume reactivates a paused rule. Occurrences that fell due while it was
// paused are not generated; the pointer moves to the first date from today.
func (uc *ManageRule) Resume(ctx context.Context, actor bookingdomain.Actor, id uint) (*models.RecurringBooking, error) {
	today := timezone.DateOnly(uc.d.now())
	return uc.mutate(ctx, actor, id, "recurring_resumed", func(r *models.RecurringBooking) error {
		if err := domain.Resume(r); err != nil {
			return err
		}
		for i := 0; i < 1000 && r.NextOccurrence != nil && r.NextOccurrence.Before(today); i++ {
			domain.Advance(r)
		}
		domain.CompleteIfDone(r)
		return nil
	})
}

func (uc *ManageRule) Cancel(ctx context.Context, actor bookingdomain.Actor, id uint) (*models.RecurringBooking, error) {
	return uc.mutate(ctx, actor, id, "recurring_cancelled", domain.Cancel)
}

type ExceptionInput struct {
	Date           time.Time
	Reason         string
	Action         string
	RescheduleDate *time.Time
	RescheduleTime string
}

func (uc *ManageRule) AddException(
	ctx context.Context,
	actor bookingdomain.Actor,
	id uint,
	in ExceptionInput,
) (*models.RecurringBooking, error) {

	if in.RescheduleTime != "" && !schedule.ValidClock(in.RescheduleTime) {
		return nil, httperr.ValidationErr("invalid_time", "reschedule time must be HH:MM")
	}

	ex := models.RecurrenceException{
		Date:           timezone.DateOnly(in.Date),
		Reason:         in.Reason,
		Action:         in.Action,
		RescheduleTime: in.RescheduleTime,
	}
	if in.RescheduleDate != nil {
		d := timezone.DateOnly(*in.RescheduleDate)
		ex.RescheduleDate = &d
	}

	return uc.mutate(ctx, actor, id, "recurring_exception_added", func(r *models.RecurringBooking) error {
		return domain.AddException(r, ex)
	})
}

// mutate loads, authorizes and saves the rule under its lock so it never
// races a generation run.
func (uc *ManageRule) mutate(
	ctx context.Context,
	actor bookingdomain.Actor,
	id uint,
	action string,
	apply func(*models.RecurringBooking) error,
) (*models.RecurringBooking, error) {

	unlock, err := uc.d.Locker.Lock(ctx, lock.RecurringKey(id))
	if err != nil {
		return nil, fmt.Errorf("lock rule %d: %w", id, err)
	}
	defer unlock()

	r, err := uc.d.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, r); err != nil {
		return nil, err
	}

	if err := apply(r); err != nil {
		return nil, err
	}
	if err := uc.d.Repo.Update(ctx, r); err != nil {
		return nil, err
	}

	uc.d.dispatch(actor, action, r, map[string]any{"status": r.Status})
	return r, nil
}

// ======================================================
// PREVIEW
// ======================================================

type UpcomingOccurrence struct {
	RuleID    uint      `json:"recurring_booking_id"`
	Title     string    `json:"title"`
	ServiceID uint      `json:"service_id"`
	StylistID *uint     `json:"stylist_id,omitempty"`
	Date      time.Time `json:"date"`
	Time      string    `json:"time"`
}

// Upcoming lists what the customer's active rules will generate within
// the next days days, ordered by date and time.
func (uc *ManageRule) Upcoming(ctx context.Context, customerID uint, days int) ([]UpcomingOccurrence, error) {
	if days <= 0 {
		days = 30
	}
	horizon := timezone.DateOnly(uc.d.now()).AddDate(0, 0, days)

	rules, err := uc.d.Repo.ListActiveForCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	out := []UpcomingOccurrence{}
	for i := range rules {
		r := &rules[i]
		for _, occ := range domain.Upcoming(r, horizon) {
			out = append(out, UpcomingOccurrence{
				RuleID:    r.ID,
				Title:     r.Title,
				ServiceID: r.ServiceID,
				StylistID: r.StylistID,
				Date:      occ.Date,
				Time:      occ.Time,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ki, kj := timezone.DateKey(out[i].Date), timezone.DateKey(out[j].Date)
		if ki != kj {
			return ki < kj
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}
