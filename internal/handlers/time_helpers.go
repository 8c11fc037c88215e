package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	bookingdomain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// --------------------------------------------------
// Dates are calendar days in the shop zone
// --------------------------------------------------

func parseDate(s string) (time.Time, error) {
	return timezone.ParseDate(s)
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// --------------------------------------------------
// Request plumbing
// --------------------------------------------------

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return false
	}
	return true
}

func actorFrom(c *gin.Context) bookingdomain.Actor {
	actor, _ := middleware.ActorFrom(c)
	return actor
}

func customerInfo(in dto.CustomerInfo) models.CustomerInfo {
	return models.CustomerInfo{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Location: in.Location,
		Gender:   in.Gender,
		Age:      in.Age,
	}
}
