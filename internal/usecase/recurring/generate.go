package recurring

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingdomain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/recurring"
	"github.com/BruksfildServices01/barber-booking/internal/events"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	bookinguc "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// maxSkips bounds the walk over consecutive skip exceptions.
const maxSkips = 64

type GenerateBooking struct {
	d Deps
}

func NewGenerateBooking(d Deps) *GenerateBooking {
	return &GenerateBooking{d: d}
}

// Execute materializes the next occurrence of a rule. It returns nil, nil
// when the rule is not active, has run its course, or the occurrence had to
// be skipped.
func (uc *GenerateBooking) Execute(ctx context.Context, ruleID uint) (*models.Booking, error) {
	return uc.generate(ctx, ruleID, nil)
}

// generate holds the rule lock. When dueBy is set the rule is only
// advanced if its next occurrence is on or before that day, so two
// overlapping ticks cannot generate the same rule twice.
func (uc *GenerateBooking) generate(ctx context.Context, ruleID uint, dueBy *time.Time) (*models.Booking, error) {
	unlock, err := uc.d.Locker.Lock(ctx, lock.RecurringKey(ruleID))
	if err != nil {
		return nil, fmt.Errorf("lock rule %d: %w", ruleID, err)
	}
	defer unlock()

	r, err := uc.d.load(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	if domain.Status(r.Status) != domain.StatusActive {
		return nil, nil
	}
	if dueBy != nil && (r.NextOccurrence == nil ||
		timezone.DateKey(*r.NextOccurrence) > timezone.DateKey(*dueBy)) {
		return nil, nil
	}

	now := uc.d.now()

	for i := 0; i < maxSkips; i++ {
		if domain.CompleteIfDone(r) {
			return nil, uc.finish(ctx, r)
		}

		date := *r.NextOccurrence
		bookDate, bookTime := date, r.Time

		if ex := domain.FindException(r, date); ex != nil {
			if ex.Action == domain.ActionSkip {
				domain.RecordSkip(r, date, domain.SkipReasonException, now)
				uc.d.Metrics.RecurringOutcome("skipped")
				continue
			}
			bookDate, bookTime = timezone.DateOnly(*ex.RescheduleDate), ex.RescheduleTime
		}

		b, err := uc.materialize(ctx, r, bookDate, bookTime)
		if err != nil {
			var be httperr.BusinessError
			if !errors.As(err, &be) {
				uc.d.Metrics.RecurringOutcome("error")
				return nil, err
			}

			reason := domain.SkipReasonSlotUnavailable
			if be.Kind != httperr.KindConflict {
				reason = be.Code
			}
			domain.RecordSkip(r, date, reason, now)
			domain.CompleteIfDone(r)
			if err := uc.d.Repo.Update(ctx, r); err != nil {
				return nil, err
			}

			uc.d.Metrics.RecurringOutcome("skipped")
			uc.d.Logger.Info().
				Uint("rule_id", r.ID).
				Str("date", timezone.DateKey(date)).
				Str("reason", reason).
				Msg("recurring occurrence skipped")
			uc.d.publish(ctx, events.RecurringSkipped, r, map[string]any{
				"rule_id": r.ID,
				"date":    timezone.DateKey(date),
				"reason":  reason,
			})
			return nil, nil
		}

		domain.RecordGenerated(r, b.ID, date, now)
		if domain.Status(r.Status) == domain.StatusActive {
			domain.CompleteIfDone(r)
		}
		if err := uc.d.Repo.Update(ctx, r); err != nil {
			return nil, err
		}

		uc.d.Metrics.RecurringOutcome("generated")
		uc.d.dispatch(systemActor, "recurring_generated", r, map[string]any{"booking_id": b.ID})
		uc.d.publish(ctx, events.RecurringGenerated, r, map[string]any{
			"rule_id":    r.ID,
			"booking_id": b.ID,
		})
		if domain.Status(r.Status) == domain.StatusCompleted {
			uc.d.publish(ctx, events.RecurringCompleted, r, r)
		}
		return b, nil
	}

	// only skip exceptions in range; persist the progress made
	return nil, uc.d.Repo.Update(ctx, r)
}

func (uc *GenerateBooking) finish(ctx context.Context, r *models.RecurringBooking) error {
	if err := uc.d.Repo.Update(ctx, r); err != nil {
		return err
	}
	uc.d.Metrics.RecurringOutcome("completed")
	uc.d.publish(ctx, events.RecurringCompleted, r, r)
	return nil
}

// materialize books the occurrence with the rule's stylist or, when the
// rule has none, with the first approved stylist free at that time.
func (uc *GenerateBooking) materialize(
	ctx context.Context,
	r *models.RecurringBooking,
	date time.Time,
	at string,
) (*models.Booking, error) {

	status := bookingdomain.StatusPending
	if r.AutoConfirm {
		status = bookingdomain.StatusConfirmed
	}

	customerID := r.CustomerID
	ruleID := r.ID
	in := bookinguc.CreateInput{
		Customer:           r.Customer,
		CustomerID:         &customerID,
		ServiceID:          r.ServiceID,
		Date:               date,
		Time:               at,
		Notes:              r.Description,
		Source:             bookingdomain.SourceRecurring,
		Status:             status,
		RecurringBookingID: &ruleID,
		Actor:              systemActor,
	}

	if r.StylistID != nil {
		in.StylistID = *r.StylistID
		return uc.d.Bookings.Execute(ctx, in)
	}

	stylists, err := uc.d.Catalog.ListBookableStylists(ctx)
	if err != nil {
		return nil, err
	}

	for _, s := range stylists {
		in.StylistID = s.ID
		b, err := uc.d.Bookings.Execute(ctx, in)
		if err == nil {
			return b, nil
		}
		switch httperr.KindOf(err) {
		case httperr.KindConflict, httperr.KindValidation:
			continue
		default:
			return nil, err
		}
	}
	return nil, httperr.ConflictErr("no_stylist_available")
}

// ======================================================
// BATCH DRIVER
// ======================================================

type GenerateDueBookings struct {
	d   Deps
	gen *GenerateBooking
}

func NewGenerateDueBookings(d Deps) *GenerateDueBookings {
	return &GenerateDueBookings{d: d, gen: NewGenerateBooking(d)}
}

// Execute generates at most one booking per due rule. A failing rule is
// logged and left for the next tick.
func (uc *GenerateDueBookings) Execute(ctx context.Context) ([]*models.Booking, error) {
	today := timezone.DateOnly(uc.d.now())

	rules, err := uc.d.Repo.ListDue(ctx, today)
	if err != nil {
		return nil, err
	}

	created := make([]*models.Booking, 0, len(rules))
	for _, r := range rules {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		b, err := uc.gen.generate(ctx, r.ID, &today)
		if err != nil {
			uc.d.Logger.Error().Err(err).Uint("rule_id", r.ID).Msg("recurring generation failed")
			continue
		}
		if b != nil {
			created = append(created, b)
		}
	}

	uc.d.Logger.Info().
		Int("due", len(rules)).
		Int("created", len(created)).
		Msg("recurring tick")

	return created, nil
}
