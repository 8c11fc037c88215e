package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// StylistHandler moderates stylist registrations.
type StylistHandler struct {
	approve *ucBooking.ApproveStylist
	reject  *ucBooking.RejectStylist
}

func NewStylistHandler(approve *ucBooking.ApproveStylist, reject *ucBooking.RejectStylist) *StylistHandler {
	return &StylistHandler{approve: approve, reject: reject}
}

func (h *StylistHandler) Approve(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	u, err := h.approve.Execute(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, u)
}

func (h *StylistHandler) Reject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req dto.RejectStylistRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	u, err := h.reject.Execute(c.Request.Context(), actorFrom(c), id, req.Reason)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, u)
}
