package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	bookingdomain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	ucRecurring "github.com/BruksfildServices01/barber-booking/internal/usecase/recurring"
)

type RecurringHandler struct {
	create   *ucRecurring.CreateRule
	manage   *ucRecurring.ManageRule
	generate *ucRecurring.GenerateDueBookings
}

func NewRecurringHandler(
	create *ucRecurring.CreateRule,
	manage *ucRecurring.ManageRule,
	generate *ucRecurring.GenerateDueBookings,
) *RecurringHandler {
	return &RecurringHandler{create: create, manage: manage, generate: generate}
}

func (h *RecurringHandler) Create(c *gin.Context) {
	var req dto.CreateRecurringRequest
	if !bindJSON(c, &req) {
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "start_date must be YYYY-MM-DD")
		return
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "end_date must be YYYY-MM-DD")
		return
	}

	r, err := h.create.Execute(c.Request.Context(), ucRecurring.CreateInput{
		Actor: actorFrom(c),
		Customer: customerInfo(req.Customer),
		ServiceID:   req.ServiceID,
		StylistID:   req.StylistID,
		Title:       req.Title,
		Description: req.Description,
		Pattern: models.RecurrencePattern{
			Type:       req.Pattern.Type,
			Interval:   req.Pattern.Interval,
			DaysOfWeek: req.Pattern.DaysOfWeek,
			DayOfMonth: req.Pattern.DayOfMonth,
		},
		StartDate:      start,
		EndDate:        end,
		Time:           req.Time,
		Duration:       req.Duration,
		MaxOccurrences: req.MaxOccurrences,
		AutoConfirm:    req.AutoConfirm,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, r)
}

func (h *RecurringHandler) Get(c *gin.Context) {
	h.rule(c, h.manage.Get)
}

func (h *RecurringHandler) Pause(c *gin.Context) {
	h.rule(c, h.manage.Pause)
}

func (h *RecurringHandler) Resume(c *gin.Context) {
	h.rule(c, h.manage.Resume)
}

func (h *RecurringHandler) Cancel(c *gin.Context) {
	h.rule(c, h.manage.Cancel)
}

func (h *RecurringHandler) AddException(c *gin.Context) {
	var req dto.ExceptionRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD")
		return
	}
	moved, err := parseOptionalDate(req.RescheduleDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "reschedule_date must be YYYY-MM-DD")
		return
	}

	h.rule(c, func(ctx context.Context, a bookingdomain.Actor, id uint) (*models.RecurringBooking, error) {
		return h.manage.AddException(ctx, a, id, ucRecurring.ExceptionInput{
			Date:           date,
			Reason:         req.Reason,
			Action:         req.Action,
			RescheduleDate: moved,
			RescheduleTime: req.RescheduleTime,
		})
	})
}

// Upcoming lists the caller's next occurrences; ?days= defaults to 30.
func (h *RecurringHandler) Upcoming(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 || days > 365 {
		httperr.BadRequest(c, "invalid_days", "days must be between 1 and 365")
		return
	}

	actor := actorFrom(c)
	customerID := actor.ID
	if actor.IsAdmin() {
		if v := c.Query("customerId"); v != "" {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				httperr.BadRequest(c, "invalid_customer_id", "customerId must be numeric")
				return
			}
			customerID = uint(n)
		}
	}

	occ, err := h.manage.Upcoming(c.Request.Context(), customerID, days)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, occ)
}

// Generate runs one tick of the batch driver on demand.
func (h *RecurringHandler) Generate(c *gin.Context) {
	created, err := h.generate.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, created)
}

type ruleFunc func(ctx context.Context, actor bookingdomain.Actor, id uint) (*models.RecurringBooking, error)

func (h *RecurringHandler) rule(c *gin.Context, fn ruleFunc) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	r, err := fn(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, r)
}
