package waitlist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingdomain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/infra/memstore"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	bookinguc "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

const (
	serviceID = uint(1)
	stylistID = uint(10)
)

var (
	ana   = bookingdomain.Actor{ID: 50, Role: models.RoleCustomer, Email: "ana@example.com"}
	bo    = bookingdomain.Actor{ID: 51, Role: models.RoleCustomer, Email: "bo@example.com"}
	cy    = bookingdomain.Actor{ID: 52, Role: models.RoleCustomer, Email: "cy@example.com"}
	admin = bookingdomain.Actor{ID: 1, Role: models.RoleAdmin}
)

type recordingSender struct {
	mu   sync.Mutex
	sent []notify.Message
	fail map[string]bool
}

func (s *recordingSender) Send(_ context.Context, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	if s.fail[msg.To] {
		return errors.New("mailbox unavailable")
	}
	return nil
}

type fixture struct {
	bookings *memstore.BookingStore
	entries  *memstore.WaitlistStore
	sender   *recordingSender
	deps     Deps
	now      time.Time
	created  time.Time
}

// tuesday is the day after the fixture's "now".
var tuesday = time.Date(2025, 6, 3, 0, 0, 0, 0, timezone.Shop())

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.NewBookingStore()
	store.PutService(models.Service{ID: serviceID, Name: "Classic Cut", DurationMin: 30, Price: 25, Active: true})
	store.PutUser(models.User{
		ID: stylistID, FirstName: "Marco", LastName: "Rossi", Email: "marco@shop.test",
		Role: models.RoleBarber, RegistrationStatus: models.RegistrationApproved, IsActive: true,
	})

	f := &fixture{
		bookings: store,
		entries:  memstore.NewWaitlistStore(),
		sender:   &recordingSender{fail: map[string]bool{}},
		now:      time.Date(2025, 6, 2, 8, 0, 0, 0, timezone.Shop()),
	}
	f.created = f.now

	// each entry is created one minute after the previous one
	f.entries.Clock = func() time.Time {
		f.created = f.created.Add(time.Minute)
		return f.created
	}

	notifier := notify.NewDispatcher(f.sender, zerolog.Nop())
	t.Cleanup(notifier.Close)

	clock := func() time.Time { return f.now }
	locker := lock.NewKeyedMutex()

	f.deps = Deps{
		Repo:    f.entries,
		Catalog: store,
		Bookings: bookinguc.NewCreateBooking(bookinguc.Deps{
			Repo:   store,
			Locker: locker,
			Logger: zerolog.Nop(),
			Now:    clock,
		}),
		Locker:   locker,
		Notifier: notifier,
		Logger:   zerolog.Nop(),
		Now:      clock,
	}
	return f
}

func (f *fixture) add(t *testing.T, actor bookingdomain.Actor, priority string, mod func(*AddInput)) *models.WaitlistEntry {
	t.Helper()

	id := stylistID
	in := AddInput{
		Actor: actor,
		Customer: models.CustomerInfo{
			Name:  "Customer",
			Email: actor.Email,
			Phone: "+1 555 0100",
		},
		ServiceID: serviceID,
		StylistID: &id,
		Priority:  priority,
		PreferredDates: []models.PreferredDate{{
			Date:      tuesday,
			TimeSlots: []models.TimeWindow{{StartTime: "09:00", EndTime: "11:00"}},
		}},
	}
	if mod != nil {
		mod(&in)
	}

	e, err := NewAddEntry(f.deps).Execute(context.Background(), in)
	require.NoError(t, err)
	return e
}

func (f *fixture) entry(t *testing.T, id uint) *models.WaitlistEntry {
	t.Helper()
	e, err := f.entries.Get(context.Background(), id)
	require.NoError(t, err)
	return e
}

func (f *fixture) offer(t *testing.T, at string) bool {
	t.Helper()
	ok, err := NewNotifyWaitlist(f.deps).Execute(context.Background(), OfferInput{
		ServiceID: serviceID, StylistID: stylistID, Date: tuesday, Time: at,
	})
	require.NoError(t, err)
	return ok
}

// ======================================================
// ADD
// ======================================================

func TestAdd_PriorityOutranksArrival(t *testing.T) {
	f := newFixture(t)

	first := f.add(t, ana, domain.PriorityNormal, nil)
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 24, first.EstimatedWaitHours)
	assert.Equal(t, f.now.Add(domain.TTL), first.ExpiresAt)
	assert.True(t, first.Notifications.Email)

	second := f.add(t, bo, domain.PriorityHigh, nil)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, 2, f.entry(t, first.ID).Position)

	third := f.add(t, cy, "", nil)
	assert.Equal(t, domain.PriorityNormal, third.Priority)
	assert.Equal(t, 3, third.Position, "FIFO inside the normal tier")
}

func TestAdd_Rejections(t *testing.T) {
	f := newFixture(t)
	f.add(t, ana, domain.PriorityNormal, nil)
	uc := NewAddEntry(f.deps)

	id := stylistID
	base := func() AddInput {
		return AddInput{
			Actor:     bo,
			Customer:  models.CustomerInfo{Name: "Bo", Email: "bo@example.com", Phone: "555"},
			ServiceID: serviceID,
			StylistID: &id,
			Flexible:  models.FlexibleDates{Enabled: true},
		}
	}

	cases := []struct {
		name string
		mod  func(*AddInput)
		code string
	}{
		{"no preferences", func(in *AddInput) { in.Flexible.Enabled = false }, "invalid_preferences"},
		{"bad priority", func(in *AddInput) { in.Priority = "vip" }, "invalid_priority"},
		{"missing email", func(in *AddInput) { in.Customer.Email = "" }, "invalid_customer"},
		{"past date", func(in *AddInput) {
			in.PreferredDates = []models.PreferredDate{{Date: tuesday.AddDate(0, 0, -5)}}
		}, "date_in_past"},
		{"inverted window", func(in *AddInput) {
			in.PreferredDates = []models.PreferredDate{{
				Date: tuesday, TimeSlots: []models.TimeWindow{{StartTime: "12:00", EndTime: "10:00"}},
			}}
		}, "invalid_time_window"},
		{"date without windows", func(in *AddInput) {
			in.PreferredDates = []models.PreferredDate{{Date: tuesday}}
		}, "time_slots_required"},
		{"unknown service", func(in *AddInput) { in.ServiceID = 9 }, "service_not_found"},
		{"already queued", func(in *AddInput) { in.Actor = ana }, "already_on_waitlist"},
		{"stylist actor", func(in *AddInput) { in.Actor = bookingdomain.Actor{ID: stylistID, Role: models.RoleBarber} }, "customers_only"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base()
			tc.mod(&in)

			_, err := uc.Execute(context.Background(), in)
			require.Error(t, err)
			assert.True(t, httperr.IsBusiness(err, tc.code), err.Error())
		})
	}
}

// ======================================================
// OFFER
// ======================================================

func TestNotify_FirstMatchingEntryOnly(t *testing.T) {
	f := newFixture(t)

	elsewhere := f.add(t, ana, domain.PriorityHigh, func(in *AddInput) {
		in.PreferredDates = []models.PreferredDate{{
			Date:      tuesday.AddDate(0, 0, 2),
			TimeSlots: []models.TimeWindow{{StartTime: "09:00", EndTime: "17:00"}},
		}}
	})
	matching := f.add(t, bo, domain.PriorityNormal, nil)
	flexible := f.add(t, cy, domain.PriorityLow, func(in *AddInput) {
		in.PreferredDates = nil
		in.Flexible = models.FlexibleDates{Enabled: true}
	})

	assert.True(t, f.offer(t, "10:00"))

	got := f.entry(t, matching.ID)
	assert.Equal(t, string(domain.StatusNotified), got.Status)
	require.Len(t, got.Attempts, 1)
	assert.Equal(t, MethodEmail, got.Attempts[0].Method)
	assert.Equal(t, "10:00", got.Attempts[0].OfferedSlot.Time)
	assert.Equal(t, f.now.Add(domain.ResponseWindow), got.Attempts[0].ResponseDeadline)

	assert.Equal(t, string(domain.StatusActive), f.entry(t, elsewhere.ID).Status)
	assert.Equal(t, string(domain.StatusActive), f.entry(t, flexible.ID).Status)
	assert.Equal(t, 2, f.entry(t, flexible.ID).Position, "notified entry left the ranking")

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "bo@example.com", f.sender.sent[0].To)
}

func TestNotify_FallsThroughFailedDelivery(t *testing.T) {
	f := newFixture(t)
	f.sender.fail["ana@example.com"] = true

	failing := f.add(t, ana, domain.PriorityUrgent, nil)
	next := f.add(t, bo, domain.PriorityNormal, nil)

	assert.True(t, f.offer(t, "09:30"))

	got := f.entry(t, failing.ID)
	assert.Equal(t, string(domain.StatusActive), got.Status)
	require.Len(t, got.Attempts, 1)
	assert.Equal(t, domain.AttemptFailed, got.Attempts[0].Status)

	assert.Equal(t, string(domain.StatusNotified), f.entry(t, next.ID).Status)
}

func TestNotify_NoMatch(t *testing.T) {
	f := newFixture(t)
	f.add(t, ana, domain.PriorityNormal, nil)

	assert.False(t, f.offer(t, "15:00"), "outside the preferred window")
	assert.Empty(t, f.sender.sent)
}

func TestNotify_BackfillsCancelledBooking(t *testing.T) {
	f := newFixture(t)
	entry := f.add(t, ana, domain.PriorityNormal, nil)

	bdeps := bookinguc.Deps{
		Repo:   f.bookings,
		Locker: lock.NewKeyedMutex(),
		Logger: zerolog.Nop(),
		Now:    func() time.Time { return f.now },
	}
	b, err := bookinguc.NewCreateBooking(bdeps).Execute(context.Background(), bookinguc.CreateInput{
		Customer:  models.CustomerInfo{Name: "Dee", Email: "dee@example.com", Phone: "555"},
		ServiceID: serviceID,
		StylistID: stylistID,
		Date:      tuesday,
		Time:      "10:30",
	})
	require.NoError(t, err)

	_, err = bookinguc.NewCancelBooking(bdeps, NewNotifyWaitlist(f.deps)).
		Execute(context.Background(), admin, b.ID, "sick")
	require.NoError(t, err)

	got := f.entry(t, entry.ID)
	assert.Equal(t, string(domain.StatusNotified), got.Status)
	assert.Equal(t, "10:30", got.Attempts[0].OfferedSlot.Time)
}

// ======================================================
// RESPOND
// ======================================================

func TestAccept_BooksAndReranks(t *testing.T) {
	f := newFixture(t)
	winner := f.add(t, ana, domain.PriorityHigh, nil)
	rest := f.add(t, bo, domain.PriorityNormal, nil)
	require.True(t, f.offer(t, "10:00"))

	_, err := NewAcceptOffer(f.deps).Execute(context.Background(), bo, winner.ID)
	assert.Equal(t, httperr.KindForbidden, httperr.KindOf(err))

	res, err := NewAcceptOffer(f.deps).Execute(context.Background(), ana, winner.ID)
	require.NoError(t, err)

	assert.Equal(t, bookingdomain.SourceWaitlist, res.Booking.Source)
	assert.Equal(t, "10:00", res.Booking.Time)
	require.NotNil(t, res.Booking.WaitlistEntryID)
	assert.Equal(t, winner.ID, *res.Booking.WaitlistEntryID)
	assert.Equal(t, "ana@example.com", res.Booking.Customer.Email)

	got := f.entry(t, winner.ID)
	assert.Equal(t, string(domain.StatusBooked), got.Status)
	assert.Equal(t, res.Booking.ID, *got.BookedBookingID)
	assert.Equal(t, domain.AttemptAccepted, got.Attempts[0].Status)

	assert.Equal(t, 1, f.entry(t, rest.ID).Position)

	_, err = NewAcceptOffer(f.deps).Execute(context.Background(), ana, winner.ID)
	assert.True(t, httperr.IsBusiness(err, "no_pending_offer"))
}

func TestAccept_ExpiredOfferReturnsToPool(t *testing.T) {
	f := newFixture(t)
	e := f.add(t, ana, domain.PriorityNormal, nil)
	require.True(t, f.offer(t, "10:00"))

	f.now = f.now.Add(3 * time.Hour)
	_, err := NewAcceptOffer(f.deps).Execute(context.Background(), ana, e.ID)
	assert.True(t, httperr.IsBusiness(err, "offer_expired"))

	got := f.entry(t, e.ID)
	assert.Equal(t, string(domain.StatusActive), got.Status)
	assert.Equal(t, 1, got.Position)
	assert.Empty(t, f.bookings.Bookings())
}

func TestAccept_SlotTakenMeanwhile(t *testing.T) {
	f := newFixture(t)
	e := f.add(t, ana, domain.PriorityNormal, nil)
	require.True(t, f.offer(t, "10:00"))

	_, err := f.deps.Bookings.Execute(context.Background(), bookinguc.CreateInput{
		Customer:  models.CustomerInfo{Name: "Dee", Email: "dee@example.com", Phone: "555"},
		ServiceID: serviceID,
		StylistID: stylistID,
		Date:      tuesday,
		Time:      "10:00",
	})
	require.NoError(t, err)

	_, err = NewAcceptOffer(f.deps).Execute(context.Background(), ana, e.ID)
	assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))

	got := f.entry(t, e.ID)
	assert.Equal(t, string(domain.StatusActive), got.Status)
	assert.Equal(t, "slot_unavailable", got.Attempts[0].Response)
}

func TestDeclineAndCancel(t *testing.T) {
	f := newFixture(t)
	first := f.add(t, ana, domain.PriorityNormal, nil)
	second := f.add(t, bo, domain.PriorityNormal, nil)
	ctx := context.Background()

	_, err := NewDeclineOffer(f.deps).Execute(ctx, ana, first.ID)
	assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(err), "nothing offered yet")

	require.True(t, f.offer(t, "10:00"))
	got, err := NewDeclineOffer(f.deps).Execute(ctx, ana, first.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusActive), got.Status)
	assert.Equal(t, 1, got.Position)
	assert.Equal(t, domain.AttemptDeclined, got.Attempts[0].Status)

	_, err = NewCancelEntry(f.deps).Execute(ctx, bo, first.ID)
	assert.Equal(t, httperr.KindForbidden, httperr.KindOf(err))

	got, err = NewCancelEntry(f.deps).Execute(ctx, ana, first.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), got.Status)
	assert.Equal(t, 1, f.entry(t, second.ID).Position)

	_, err = NewCancelEntry(f.deps).Execute(ctx, admin, first.ID)
	assert.Equal(t, httperr.KindInvalidState, httperr.KindOf(err))
}

func TestGet_AccessRules(t *testing.T) {
	f := newFixture(t)
	e := f.add(t, ana, domain.PriorityNormal, nil)
	uc := NewGetEntry(f.deps)
	ctx := context.Background()

	_, err := uc.Execute(ctx, ana, e.ID)
	assert.NoError(t, err)
	_, err = uc.Execute(ctx, bookingdomain.Actor{ID: stylistID, Role: models.RoleBarber}, e.ID)
	assert.NoError(t, err)
	_, err = uc.Execute(ctx, bo, e.ID)
	assert.Equal(t, httperr.KindForbidden, httperr.KindOf(err))
	_, err = uc.Execute(ctx, admin, 404)
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))
}

// ======================================================
// CLEANUP
// ======================================================

func TestCleanup(t *testing.T) {
	f := newFixture(t)
	offered := f.add(t, ana, domain.PriorityNormal, nil)
	require.True(t, f.offer(t, "10:00"))

	f.now = f.now.Add(domain.ResponseWindow + time.Minute)
	res, err := NewCleanup(f.deps).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CleanupResult{Expired: 0, Released: 1}, res)

	got := f.entry(t, offered.ID)
	assert.Equal(t, string(domain.StatusActive), got.Status)
	assert.Equal(t, "no_response", got.Attempts[0].Response)

	f.now = f.now.Add(domain.TTL)
	res, err = NewCleanup(f.deps).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CleanupResult{Expired: 1, Released: 0}, res)
	assert.Equal(t, string(domain.StatusExpired), f.entry(t, offered.ID).Status)

	res, err = NewCleanup(f.deps).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CleanupResult{}, res, "second pass is a no-op")
}

func TestCleanup_LogsOneSummary(t *testing.T) {
	f := newFixture(t)
	f.add(t, ana, domain.PriorityNormal, nil)
	require.True(t, f.offer(t, "10:00"))

	var buf bytes.Buffer
	deps := f.deps
	deps.Logger = zerolog.New(&buf)

	f.now = f.now.Add(domain.ResponseWindow + time.Minute)
	_, err := NewCleanup(deps).Execute(context.Background())
	require.NoError(t, err)

	var summaries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var ev map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		if ev["message"] == "waitlist cleanup" {
			summaries = append(summaries, ev)
		}
	}
	require.Len(t, summaries, 1)
	assert.EqualValues(t, 1, summaries[0]["released"])
	assert.EqualValues(t, 0, summaries[0]["expired"])
}
