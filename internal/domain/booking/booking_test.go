package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

var now = time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

func booked(id uint, at string, duration int, status Status) models.Booking {
	return models.Booking{
		ID:              id,
		Time:            at,
		Status:          string(status),
		ServiceSnapshot: models.ServiceSnapshot{Duration: duration},
	}
}

func TestLifecycle_HappyPath(t *testing.T) {
	b := &models.Booking{Status: string(InitialStatus())}

	require.NoError(t, Confirm(b, now))
	require.NoError(t, Confirm(b, now), "confirm is idempotent")
	require.NoError(t, Start(b, now))
	require.NoError(t, Complete(b, now))

	assert.Equal(t, string(StatusCompleted), b.Status)
	assert.NotNil(t, b.ConfirmedAt)
	assert.NotNil(t, b.StartedAt)
	assert.NotNil(t, b.CompletedAt)
}

func TestLifecycle_TerminalStatesAreFinal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		b := &models.Booking{Status: string(s)}

		assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(Cancel(b, "x", "customer", now)), s)
		assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(MarkNoShow(b)), s)
		assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(Confirm(b, now)), s)
	}
}

func TestCancel_RecordsReasonAndActor(t *testing.T) {
	b := &models.Booking{Status: string(StatusInProgress)}

	require.NoError(t, Cancel(b, "  running late ", models.RoleBarber, now))

	assert.Equal(t, string(StatusCancelled), b.Status)
	assert.Equal(t, "running late", b.CancellationReason)
	assert.Equal(t, models.RoleBarber, b.CancelledBy)
	assert.Equal(t, now, *b.CancelledAt)
}

func TestComplete_RequiresConfirmedOrStarted(t *testing.T) {
	b := &models.Booking{Status: string(StatusPending)}
	assert.Error(t, Complete(b, now))

	b.Status = string(StatusConfirmed)
	assert.NoError(t, Complete(b, now))
}

func TestNewReview(t *testing.T) {
	b := &models.Booking{Status: string(StatusConfirmed)}
	_, err := NewReview(b, 5, "", now)
	assert.True(t, httperr.IsBusiness(err, "booking_not_completed"))

	b.Status = string(StatusCompleted)
	_, err = NewReview(b, 6, "", now)
	assert.Equal(t, httperr.KindValidation, httperr.KindOf(err))

	r, err := NewReview(b, 4, " great fade ", now)
	require.NoError(t, err)
	assert.Equal(t, 4, *r.Rating)
	assert.Equal(t, "great fade", r.Comment)

	b.Review = r
	_, err = NewReview(b, 2, "", now)
	assert.ErrorIs(t, err, httperr.ErrAlreadyReviewed)
}

func TestFindConflict(t *testing.T) {
	existing := []models.Booking{
		booked(1, "10:00", 30, StatusPending),
		booked(2, "11:00", 60, StatusCancelled),
		booked(3, "13:00", 45, StatusNoShow),
	}

	hit, err := FindConflict(schedule.Span(schedule.MustClock("10:15"), 30), existing, 0)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, uint(1), hit.ID)

	hit, err = FindConflict(schedule.Span(schedule.MustClock("10:30"), 30), existing, 0)
	require.NoError(t, err)
	assert.Nil(t, hit, "touching end is free")

	hit, err = FindConflict(schedule.Span(schedule.MustClock("11:00"), 30), existing, 0)
	require.NoError(t, err)
	assert.Nil(t, hit, "cancelled bookings release the slot")

	hit, err = FindConflict(schedule.Span(schedule.MustClock("10:00"), 30), existing, 1)
	require.NoError(t, err)
	assert.Nil(t, hit, "excluded booking is ignored")
}

func TestFindConflict_UsesSnapshotDuration(t *testing.T) {
	// catalog duration may have grown since; the snapshot still says 30
	existing := []models.Booking{booked(1, "09:00", 30, StatusConfirmed)}

	hit, err := FindConflict(schedule.Span(schedule.MustClock("09:30"), 30), existing, 0)
	require.NoError(t, err)
	assert.Nil(t, hit)
}

func TestBusyIntervals(t *testing.T) {
	busy, err := BusyIntervals([]models.Booking{
		booked(1, "09:00", 30, StatusConfirmed),
		booked(2, "10:00", 30, StatusCancelled),
	})
	require.NoError(t, err)
	require.Len(t, busy, 1)
	assert.Equal(t, "09:30", busy[0].End.String())
}

func TestResolveWindow(t *testing.T) {
	w, err := ResolveWindow(time.Sunday, nil, nil)
	require.NoError(t, err)
	assert.False(t, w.Open)

	wh := &models.WorkingHours{
		Active:     true,
		StartTime:  "08:00",
		EndTime:    "16:00",
		LunchStart: "12:00",
		LunchEnd:   "12:30",
	}
	w, err = ResolveWindow(time.Tuesday, wh, nil)
	require.NoError(t, err)
	assert.True(t, w.Open)
	assert.Equal(t, "08:00", w.Work.Start.String())
	require.NotNil(t, w.Lunch)

	w, err = ResolveWindow(time.Tuesday, wh, &models.AvailabilityOverride{Available: false})
	require.NoError(t, err)
	assert.False(t, w.Open, "override closes the day")

	w, err = ResolveWindow(time.Tuesday, wh, &models.AvailabilityOverride{
		Available: true, StartTime: "10:00", EndTime: "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "10:00", w.Work.Start.String())
	assert.Equal(t, "14:00", w.Work.End.String())

	w, err = ResolveWindow(time.Wednesday, &models.WorkingHours{Active: false}, nil)
	require.NoError(t, err)
	assert.False(t, w.Open)
}

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 4.3, AverageRating([]int{5, 4, 4}))
	assert.Equal(t, 4.5, AverageRating([]int{5, 4}))
}

func TestConfirmationCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := NewConfirmationCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[A-Z0-9]{8,9}$`, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestActorRules(t *testing.T) {
	b := &models.Booking{StylistID: 7, Customer: models.CustomerInfo{Email: "Ana@Example.com"}}

	assert.NoError(t, RequireAssignedStylist(Actor{ID: 7, Role: models.RoleBarber}, b))
	assert.Error(t, RequireAssignedStylist(Actor{ID: 8, Role: models.RoleBarber}, b))
	assert.Error(t, RequireAssignedStylist(Actor{ID: 7, Role: models.RoleCustomer}, b))

	assert.NoError(t, RequireCanCancel(Actor{Role: models.RoleCustomer, Email: "ana@example.com"}, b))
	assert.NoError(t, RequireCanCancel(Actor{Role: models.RoleAdmin}, b))
	assert.Equal(t, httperr.KindForbidden,
		httperr.KindOf(RequireCanCancel(Actor{Role: models.RoleCustomer, Email: "bob@example.com"}, b)))
}
