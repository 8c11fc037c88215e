package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	bookingdomain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	ucWaitlist "github.com/BruksfildServices01/barber-booking/internal/usecase/waitlist"
)

type WaitlistUseCases struct {
	Add     *ucWaitlist.AddEntry
	Get     *ucWaitlist.GetEntry
	Accept  *ucWaitlist.AcceptOffer
	Decline *ucWaitlist.DeclineOffer
	Cancel  *ucWaitlist.CancelEntry
	Notify  *ucWaitlist.NotifyWaitlist
	Cleanup *ucWaitlist.Cleanup
}

type WaitlistHandler struct {
	uc WaitlistUseCases
}

func NewWaitlistHandler(uc WaitlistUseCases) *WaitlistHandler {
	return &WaitlistHandler{uc: uc}
}

func (h *WaitlistHandler) Add(c *gin.Context) {
	var req dto.AddWaitlistRequest
	if !bindJSON(c, &req) {
		return
	}

	in := ucWaitlist.AddInput{
		Actor: actorFrom(c),
		Customer: customerInfo(req.Customer),
		CustomerID: req.CustomerID,
		Notes:      req.Notes,
		ServiceID:  req.ServiceID,
		StylistID:  req.StylistID,
		Priority:   req.Priority,
		Flexible: models.FlexibleDates{
			Enabled:    req.Flexible.Enabled,
			DaysOfWeek: req.Flexible.DaysOfWeek,
			Morning:    req.Flexible.Morning,
			Afternoon:  req.Flexible.Afternoon,
			Evening:    req.Flexible.Evening,
		},
	}

	var err error
	if in.Flexible.RangeStart, err = parseOptionalDate(req.Flexible.RangeStart); err != nil {
		httperr.BadRequest(c, "invalid_date", "range_start must be YYYY-MM-DD")
		return
	}
	if in.Flexible.RangeEnd, err = parseOptionalDate(req.Flexible.RangeEnd); err != nil {
		httperr.BadRequest(c, "invalid_date", "range_end must be YYYY-MM-DD")
		return
	}

	for _, pd := range req.PreferredDates {
		date, err := parseDate(pd.Date)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "preferred dates must be YYYY-MM-DD")
			return
		}
		windows := make([]models.TimeWindow, 0, len(pd.TimeSlots))
		for _, w := range pd.TimeSlots {
			windows = append(windows, models.TimeWindow{StartTime: w.StartTime, EndTime: w.EndTime})
		}
		in.PreferredDates = append(in.PreferredDates, models.PreferredDate{Date: date, TimeSlots: windows})
	}

	if n := req.Notifications; n != nil {
		in.Notifications = &models.NotificationPreferences{
			Email:         n.Email,
			SMS:           n.SMS,
			InApp:         n.InApp,
			AdvanceNotice: n.AdvanceNotice,
		}
	}

	e, err := h.uc.Add.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, e)
}

func (h *WaitlistHandler) Get(c *gin.Context) {
	h.entry(c, h.uc.Get.Execute)
}

func (h *WaitlistHandler) Decline(c *gin.Context) {
	h.entry(c, h.uc.Decline.Execute)
}

func (h *WaitlistHandler) Cancel(c *gin.Context) {
	h.entry(c, h.uc.Cancel.Execute)
}

func (h *WaitlistHandler) Accept(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	res, err := h.uc.Accept.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, res)
}

// Offer hands a freed slot to the waitlist by hand.
func (h *WaitlistHandler) Offer(c *gin.Context) {
	if err := ucWaitlist.RequireCanOffer(actorFrom(c)); err != nil {
		httperr.Respond(c, err)
		return
	}

	var req dto.OfferSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	notified, err := h.uc.Notify.Execute(c.Request.Context(), ucWaitlist.OfferInput{
		ServiceID: req.ServiceID,
		StylistID: req.StylistID,
		Date:      date,
		Time:      req.Time,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{"notified": notified})
}

func (h *WaitlistHandler) Cleanup(c *gin.Context) {
	res, err := h.uc.Cleanup.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, res)
}

type entryFunc func(ctx context.Context, actor bookingdomain.Actor, id uint) (*models.WaitlistEntry, error)

func (h *WaitlistHandler) entry(c *gin.Context, fn entryFunc) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	e, err := fn(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, e)
}
