package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/infra/memstore"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
	ucRecurring "github.com/BruksfildServices01/barber-booking/internal/usecase/recurring"
	ucWaitlist "github.com/BruksfildServices01/barber-booking/internal/usecase/waitlist"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
	if err := validators.Register(); err != nil {
		panic(err)
	}
}

type server struct {
	router   *gin.Engine
	bookings *memstore.BookingStore
}

func newServer(t *testing.T) *server {
	t.Helper()

	store := memstore.NewBookingStore()
	store.PutService(models.Service{ID: 1, Name: "Classic Cut", DurationMin: 30, Price: 25, Active: true})
	store.PutUser(models.User{
		ID: 10, FirstName: "Marco", LastName: "Rossi", Email: "marco@shop.test",
		Role: models.RoleBarber, RegistrationStatus: models.RegistrationApproved, IsActive: true,
	})
	store.PutUser(models.User{
		ID: 11, FirstName: "Lia", LastName: "Costa", Email: "lia@shop.test",
		Role: models.RoleBarber, RegistrationStatus: models.RegistrationPending, IsActive: true,
	})

	// Monday 08:00; 2025-06-03 is the next working day.
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, timezone.Shop())
	clock := func() time.Time { return now }
	locker := lock.NewKeyedMutex()

	bd := ucBooking.Deps{Repo: store, Locker: locker, Logger: zerolog.Nop(), Now: clock}
	create := ucBooking.NewCreateBooking(bd)

	wd := ucWaitlist.Deps{
		Repo: memstore.NewWaitlistStore(), Catalog: store, Bookings: create,
		Locker: locker, Logger: zerolog.Nop(), Now: clock,
	}
	notifier := ucWaitlist.NewNotifyWaitlist(wd)

	rd := ucRecurring.Deps{
		Repo: memstore.NewRecurringStore(), Catalog: store, Bookings: create,
		Locker: locker, Logger: zerolog.Nop(), Now: clock,
	}

	r := gin.New()
	RegisterRoutes(r, Deps{
		Config: &config.Config{JWTSecret: secret, SlotStepMinutes: 30, MetricsPath: "/metrics"},
		Bookings: handlers.BookingUseCases{
			Create:       create,
			Availability: ucBooking.NewCheckAvailability(bd),
			Slots:        ucBooking.NewGetAvailableSlots(bd),
			Get:          ucBooking.NewGetBooking(bd),
			Update:       ucBooking.NewUpdateBooking(bd),
			Confirm:      ucBooking.NewConfirmBooking(bd),
			Start:        ucBooking.NewStartBooking(bd),
			Complete:     ucBooking.NewCompleteBooking(bd),
			Cancel:       ucBooking.NewCancelBooking(bd, notifier),
			NoShow:       ucBooking.NewMarkNoShow(bd, notifier),
			Review:       ucBooking.NewAddReview(bd),
			List:         ucBooking.NewListBookings(bd),
			ByDate:       ucBooking.NewListBookingsByDate(bd),
			ByMonth:      ucBooking.NewListBookingsByMonth(bd),
		},
		Waitlist: handlers.WaitlistUseCases{
			Add:     ucWaitlist.NewAddEntry(wd),
			Get:     ucWaitlist.NewGetEntry(wd),
			Accept:  ucWaitlist.NewAcceptOffer(wd),
			Decline: ucWaitlist.NewDeclineOffer(wd),
			Cancel:  ucWaitlist.NewCancelEntry(wd),
			Notify:  notifier,
			Cleanup: ucWaitlist.NewCleanup(wd),
		},
		CreateRecurring:   ucRecurring.NewCreateRule(rd),
		ManageRecurring:   ucRecurring.NewManageRule(rd),
		GenerateRecurring: ucRecurring.NewGenerateDueBookings(rd),
		ApproveStylist:    ucBooking.NewApproveStylist(bd),
		RejectStylist:     ucBooking.NewRejectStylist(bd),
	})

	return &server{router: r, bookings: store}
}

func token(t *testing.T, id uint, role, email string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   id,
		"role":  role,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

var (
	customerToken = func(t *testing.T) string { return token(t, 50, models.RoleCustomer, "ana@example.com") }
	stylistToken  = func(t *testing.T) string { return token(t, 10, models.RoleBarber, "marco@shop.test") }
	adminToken    = func(t *testing.T) string { return token(t, 1, models.RoleAdmin, "admin@shop.test") }
)

func (s *server) do(t *testing.T, method, path, bearer string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func bookingBody(at string) map[string]any {
	return map[string]any{
		"customer_info": map[string]any{"name": "Ana Silva", "email": "ana@example.com", "phone": "+1 555 0100"},
		"service_id":    1,
		"stylist_id":    10,
		"date":          "2025-06-03",
		"time":          at,
	}
}

// ======================================================
// PUBLIC
// ======================================================

func TestHealth(t *testing.T) {
	s := newServer(t)
	w, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestCreateBooking_Anonymous(t *testing.T) {
	s := newServer(t)

	w, body := s.do(t, http.MethodPost, "/api/bookings", "", bookingBody("10:00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "website", body["source"])

	w, body = s.do(t, http.MethodPost, "/api/bookings", "", bookingBody("10:15"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_unavailable", body["error_code"])
}

func TestCreateBooking_RejectsBadInput(t *testing.T) {
	s := newServer(t)

	bad := bookingBody("9:00")
	w, body := s.do(t, http.MethodPost, "/api/bookings", "", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", body["error_code"])

	w, _ = s.do(t, http.MethodPost, "/api/bookings", "not-a-token", bookingBody("10:00"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// staff may set the channel but not the generated ones
	internal := bookingBody("10:00")
	internal["source"] = "recurring"
	w, body = s.do(t, http.MethodPost, "/api/bookings", stylistToken(t), internal)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_source", body["error_code"])

	phone := bookingBody("10:00")
	phone["source"] = "phone"
	w, body = s.do(t, http.MethodPost, "/api/bookings", stylistToken(t), phone)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "phone", body["source"])
}

func TestCreateBooking_KeepsFullCustomerInfo(t *testing.T) {
	s := newServer(t)

	body := bookingBody("10:00")
	body["customer_info"] = map[string]any{
		"name": "Ana Silva", "email": "ana@example.com", "phone": "+1 555 0100",
		"location": "Downtown", "gender": "Female", "age": 34,
	}
	w, _ := s.do(t, http.MethodPost, "/api/bookings", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	stored := s.bookings.Bookings()
	require.Len(t, stored, 1)
	assert.Equal(t, "Downtown", stored[0].Customer.Location)
	assert.Equal(t, "female", stored[0].Customer.Gender)
	assert.Equal(t, 34, stored[0].Customer.Age)

	body = bookingBody("11:00")
	body["customer_info"] = map[string]any{
		"name": "Ana Silva", "email": "ana@example.com", "phone": "+1 555 0100", "age": 300,
	}
	w, resp := s.do(t, http.MethodPost, "/api/bookings", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", resp["error_code"])
}

func TestAvailabilityAndSlots(t *testing.T) {
	s := newServer(t)
	s.do(t, http.MethodPost, "/api/bookings", "", bookingBody("10:00"))

	w, body := s.do(t, http.MethodGet, "/api/bookings/availability?stylistId=10&date=2025-06-03&time=10:00&duration=30", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, body["available"])

	w, body = s.do(t, http.MethodGet, "/api/bookings/availability?stylistId=10&date=2025-06-03&time=11:00&duration=30", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["available"])

	w, body = s.do(t, http.MethodGet, "/api/stylists/10/availability?date=2025-06-03", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	slots, ok := body["slots"].([]any)
	require.True(t, ok)
	assert.Contains(t, slots, "09:30")
	assert.NotContains(t, slots, "10:00")

	w, body = s.do(t, http.MethodGet, "/api/stylists/99/availability?date=2025-06-03", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "stylist_not_found", body["error_code"])
}

// ======================================================
// BOOKING LIFECYCLE
// ======================================================

func TestBookingLifecycle(t *testing.T) {
	s := newServer(t)

	_, created := s.do(t, http.MethodPost, "/api/bookings", customerToken(t), bookingBody("10:00"))
	id := int(created["id"].(float64))
	path := func(suffix string) string { return fmt.Sprintf("/api/bookings/%d%s", id, suffix) }

	w, _ := s.do(t, http.MethodGet, path(""), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := s.do(t, http.MethodGet, path(""), customerToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10:00", body["time"])

	w, _ = s.do(t, http.MethodPatch, path("/confirm"), customerToken(t), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	for _, step := range []string{"/confirm", "/start", "/complete"} {
		w, _ = s.do(t, http.MethodPatch, path(step), stylistToken(t), nil)
		require.Equal(t, http.StatusOK, w.Code, step+": "+w.Body.String())
	}

	w, body = s.do(t, http.MethodPatch, path("/cancel"), customerToken(t), map[string]any{"reason": "late"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "invalid_state", body["error_code"])

	w, _ = s.do(t, http.MethodPut, path("/review"), customerToken(t), map[string]any{"rating": 5, "comment": "great"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = s.do(t, http.MethodPut, path("/review"), customerToken(t), map[string]any{"rating": 4})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, body = s.do(t, http.MethodGet, "/api/bookings/abc", customerToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_id", body["error_code"])
}

func TestUpdateBooking_StaffOnly(t *testing.T) {
	s := newServer(t)

	_, created := s.do(t, http.MethodPost, "/api/bookings", customerToken(t), bookingBody("10:00"))
	path := fmt.Sprintf("/api/bookings/%d", int(created["id"].(float64)))

	w, _ := s.do(t, http.MethodPut, path, customerToken(t), map[string]any{"time": "12:00"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body := s.do(t, http.MethodPut, path, stylistToken(t), map[string]any{"time": "12:00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "12:00", body["time"])
}

// ======================================================
// LISTINGS / MODERATION
// ======================================================

func TestBookingListings(t *testing.T) {
	s := newServer(t)
	for _, at := range []string{"11:00", "09:00"} {
		w, _ := s.do(t, http.MethodPost, "/api/bookings", customerToken(t), bookingBody(at))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	other := bookingBody("10:00")
	other["customer_info"] = map[string]any{"name": "Bo", "email": "bo@example.com", "phone": "+1 555 0101"}
	s.do(t, http.MethodPost, "/api/bookings", "", other)

	w, body := s.do(t, http.MethodGet, "/api/bookings/my-bookings", customerToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 2, body["total"])

	w, body = s.do(t, http.MethodGet, "/api/bookings/stylist/my-bookings?date=2025-06-03", stylistToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := body["data"].([]any)
	require.Len(t, data, 3)
	assert.Equal(t, "09:00", data[0].(map[string]any)["time"])

	w, body = s.do(t, http.MethodGet, "/api/bookings/stylist/my-bookings?year=2025&month=6", stylistToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 3, body["total"])

	w, _ = s.do(t, http.MethodGet, "/api/bookings/stylist/my-bookings", customerToken(t), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/bookings", customerToken(t), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = s.do(t, http.MethodGet, "/api/bookings?stylistId=10&limit=2", adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 3, body["total"])
	assert.EqualValues(t, 2, body["limit"])
	assert.Len(t, body["data"], 2)
}

func TestStylistModeration(t *testing.T) {
	s := newServer(t)

	w, _ := s.do(t, http.MethodPut, "/api/stylists/11/approve", stylistToken(t), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	pending := bookingBody("10:00")
	pending["stylist_id"] = 11
	w, _ = s.do(t, http.MethodPost, "/api/bookings", "", pending)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body := s.do(t, http.MethodPut, "/api/stylists/11/approve", adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "approved", body["registration_status"])

	w, _ = s.do(t, http.MethodPost, "/api/bookings", "", pending)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, body = s.do(t, http.MethodPut, "/api/stylists/11/reject", adminToken(t), map[string]any{"reason": "left the shop"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "rejected", body["registration_status"])

	w, body = s.do(t, http.MethodPut, "/api/stylists/99/approve", adminToken(t), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "stylist_not_found", body["error_code"])
}

// ======================================================
// RECURRING
// ======================================================

func TestRecurringRoutes(t *testing.T) {
	s := newServer(t)

	rule := map[string]any{
		"customer_info": map[string]any{"name": "Ana Silva", "email": "ana@example.com", "phone": "+1 555 0100"},
		"service_id":    1,
		"stylist_id":    10,
		"pattern":       map[string]any{"type": "weekly", "days_of_week": []int{2}},
		"start_date":    "2025-06-03",
		"time":          "10:00",
	}

	w, _ := s.do(t, http.MethodPost, "/api/recurring-bookings", stylistToken(t), rule)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, created := s.do(t, http.MethodPost, "/api/recurring-bookings", customerToken(t), rule)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "active", created["status"])
	id := int(created["id"].(float64))

	w, body := s.do(t, http.MethodGet, "/api/recurring-bookings/upcoming?days=14", customerToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 2, body["total"])

	w, _ = s.do(t, http.MethodGet, "/api/recurring-bookings/upcoming?days=0", customerToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/recurring-bookings/generate", customerToken(t), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// first occurrence is tomorrow, nothing due yet
	w, body = s.do(t, http.MethodPost, "/api/recurring-bookings/generate", adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 0, body["total"])

	w, body = s.do(t, http.MethodPost, fmt.Sprintf("/api/recurring-bookings/%d/exceptions", id), customerToken(t),
		map[string]any{"date": "2025-06-10", "action": "skip", "reason": "holiday"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, body["exceptions"], 1)

	w, body = s.do(t, http.MethodPatch, fmt.Sprintf("/api/recurring-bookings/%d/pause", id), customerToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "paused", body["status"])

	w, body = s.do(t, http.MethodPatch, fmt.Sprintf("/api/recurring-bookings/%d/cancel", id), adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", body["status"])
}

// ======================================================
// WAITLIST
// ======================================================

func TestWaitlistRoutes(t *testing.T) {
	s := newServer(t)

	entry := map[string]any{
		"customer_info":  map[string]any{"name": "Ana Silva", "email": "ana@example.com", "phone": "+1 555 0100"},
		"service_id":     1,
		"flexible_dates": map[string]any{"enabled": true, "days_of_week": []int{2}, "morning": true},
	}

	w, created := s.do(t, http.MethodPost, "/api/waitlist", customerToken(t), entry)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.EqualValues(t, 1, created["position"])
	id := int(created["id"].(float64))

	w, body := s.do(t, http.MethodPost, "/api/waitlist", customerToken(t), entry)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_on_waitlist", body["error_code"])

	offer := map[string]any{"service_id": 1, "stylist_id": 10, "date": "2025-06-03", "time": "10:00"}

	w, _ = s.do(t, http.MethodPost, "/api/waitlist/offers", customerToken(t), offer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = s.do(t, http.MethodPost, "/api/waitlist/offers", stylistToken(t), offer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, body["notified"])

	w, body = s.do(t, http.MethodGet, fmt.Sprintf("/api/waitlist/%d", id), customerToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "notified", body["status"])

	w, body = s.do(t, http.MethodPost, fmt.Sprintf("/api/waitlist/%d/accept", id), customerToken(t), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booking := body["booking"].(map[string]any)
	assert.Equal(t, "waitlist", booking["source"])
	assert.Equal(t, "10:00", booking["time"])

	w, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/waitlist/%d", id), customerToken(t), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/waitlist/cleanup", stylistToken(t), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = s.do(t, http.MethodPost, "/api/waitlist/cleanup", adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, body["expired"])
}
