package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	bookingdomain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingUseCases struct {
	Create       *ucBooking.CreateBooking
	Availability *ucBooking.CheckAvailability
	Slots        *ucBooking.GetAvailableSlots
	Get          *ucBooking.GetBooking
	Update       *ucBooking.UpdateBooking
	Confirm      *ucBooking.ConfirmBooking
	Start        *ucBooking.StartBooking
	Complete     *ucBooking.CompleteBooking
	Cancel       *ucBooking.CancelBooking
	NoShow       *ucBooking.MarkNoShow
	Review       *ucBooking.AddReview

	List    *ucBooking.ListBookings
	ByDate  *ucBooking.ListBookingsByDate
	ByMonth *ucBooking.ListBookingsByMonth
}

type BookingHandler struct {
	uc       BookingUseCases
	slotStep int
}

// NewBookingHandler uses slotStep when a slots query sends no step.
func NewBookingHandler(uc BookingUseCases, slotStep int) *BookingHandler {
	return &BookingHandler{uc: uc, slotStep: slotStep}
}

// ======================================================
// CREATE (public, token optional)
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	actor := actorFrom(c)

	// only staff pick the channel; generated sources are internal
	source := bookingdomain.SourceWebsite
	if (actor.IsAdmin() || actor.IsStylist()) && req.Source != "" {
		source = req.Source
	}
	if source == bookingdomain.SourceRecurring || source == bookingdomain.SourceWaitlist {
		httperr.BadRequest(c, "invalid_source", "source is set by the system")
		return
	}

	in := ucBooking.CreateInput{
		Customer: customerInfo(req.Customer),
		ServiceID:     req.ServiceID,
		StylistID:     req.StylistID,
		Date:          date,
		Time:          req.Time,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
		Source:        source,
		Actor:         actor,
	}
	if actor.Role == models.RoleCustomer {
		id := actor.ID
		in.CustomerID = &id
	}

	b, err := h.uc.Create.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, b)
}

// ======================================================
// AVAILABILITY (public)
// ======================================================

func (h *BookingHandler) Availability(c *gin.Context) {
	var q dto.AvailabilityQuery
	if !bindQuery(c, &q) {
		return
	}

	date, err := parseDate(q.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	ok, err := h.uc.Availability.Execute(c.Request.Context(), ucBooking.AvailabilityInput{
		StylistID: q.StylistID,
		Date:      date,
		Time:      q.Time,
		Duration:  q.Duration,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{"available": ok})
}

func (h *BookingHandler) Slots(c *gin.Context) {
	stylistID, ok := idParam(c)
	if !ok {
		return
	}

	var q dto.SlotsQuery
	if !bindQuery(c, &q) {
		return
	}

	date, err := parseDate(q.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	step := q.Step
	if step == 0 {
		step = h.slotStep
	}

	slots, err := h.uc.Slots.Execute(c.Request.Context(), ucBooking.SlotsInput{
		StylistID: stylistID,
		Date:      date,
		Step:      step,
		Duration:  q.Duration,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"stylist_id": stylistID,
		"date":       q.Date,
		"slots":      slots,
	})
}

// ======================================================
// READ / UPDATE
// ======================================================

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	b, err := h.uc.Get.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req dto.UpdateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := parseOptionalDate(req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	b, err := h.uc.Update.Execute(c.Request.Context(), actorFrom(c), id, ucBooking.UpdateInput{
		Date:  date,
		Time:  req.Time,
		Notes: req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, b)
}

// ======================================================
// LISTINGS / CALENDAR
// ======================================================

// List is the admin view over every booking.
func (h *BookingHandler) List(c *gin.Context) {
	h.list(c, true)
}

// Mine lists the caller's bookings: customers by e-mail, stylists their
// own calendar.
func (h *BookingHandler) Mine(c *gin.Context) {
	h.list(c, false)
}

func (h *BookingHandler) list(c *gin.Context, filters bool) {
	var q dto.BookingListQuery
	if !bindQuery(c, &q) {
		return
	}

	ctx := c.Request.Context()
	actor := actorFrom(c)

	var stylistID *uint
	if filters {
		stylistID = q.StylistID
	}

	// --------------------------------------------------
	// Calendar: one day or one month
	// --------------------------------------------------
	if q.Date != "" && q.Status == "" {
		date, err := parseDate(q.Date)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		items, err := h.uc.ByDate.Execute(ctx, actor, stylistID, date)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		httpresp.List(c, items)
		return
	}

	if q.Year != 0 || q.Month != 0 {
		if q.Year == 0 || q.Month == 0 {
			httperr.BadRequest(c, "missing_year_or_month", "year and month go together")
			return
		}
		items, err := h.uc.ByMonth.Execute(ctx, actor, stylistID, q.Year, q.Month)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		httpresp.List(c, items)
		return
	}

	// --------------------------------------------------
	// Paged listing
	// --------------------------------------------------
	in := ucBooking.ListInput{
		Actor:     actor,
		StylistID: stylistID,
		Status:    q.Status,
		Page:      q.Page,
		Limit:     q.Limit,
	}
	if filters {
		in.CustomerEmail = q.Customer
	}

	from, to := q.StartDate, q.EndDate
	if q.Date != "" {
		from, to = q.Date, q.Date
	}
	if from != "" {
		d, err := parseDate(from)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "startDate must be YYYY-MM-DD")
			return
		}
		in.From = &d
	}
	if to != "" {
		d, err := parseDate(to)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "endDate must be YYYY-MM-DD")
			return
		}
		// inclusive end day
		next := d.AddDate(0, 0, 1)
		in.To = &next
	}

	res, err := h.uc.List.Execute(ctx, in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Page(c, res.Items, res.Page, res.Limit, res.Total)
}

// ======================================================
// LIFECYCLE
// ======================================================

type transitionFunc func(ctx context.Context, actor bookingdomain.Actor, id uint) (*models.Booking, error)

func (h *BookingHandler) transition(c *gin.Context, fn transitionFunc) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	b, err := fn(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, b)
}

func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.uc.Confirm.Execute)
}

func (h *BookingHandler) Start(c *gin.Context) {
	h.transition(c, h.uc.Start.Execute)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, h.uc.Complete.Execute)
}

func (h *BookingHandler) NoShow(c *gin.Context) {
	h.transition(c, h.uc.NoShow.Execute)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	var req dto.CancelBookingRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	h.transition(c, func(ctx context.Context, a bookingdomain.Actor, id uint) (*models.Booking, error) {
		return h.uc.Cancel.Execute(ctx, a, id, req.Reason)
	})
}

func (h *BookingHandler) Review(c *gin.Context) {
	var req dto.ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	h.transition(c, func(ctx context.Context, a bookingdomain.Actor, id uint) (*models.Booking, error) {
		return h.uc.Review.Execute(ctx, a, id, ucBooking.ReviewInput{
			Rating:  req.Rating,
			Comment: req.Comment,
		})
	})
}
