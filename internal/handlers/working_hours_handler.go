package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type WorkingHoursHandler struct {
	db *gorm.DB
}

func NewWorkingHoursHandler(db *gorm.DB) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db}
}

type WorkingDayConfig struct {
	Weekday    *int   `json:"weekday" binding:"required,min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time" binding:"omitempty,hhmm"`
	EndTime    string `json:"end_time" binding:"omitempty,hhmm"`
	LunchStart string `json:"lunch_start" binding:"omitempty,hhmm"`
	LunchEnd   string `json:"lunch_end" binding:"omitempty,hhmm"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

type OverrideRequest struct {
	Date      string `json:"date" binding:"required,ymd"`
	Available bool   `json:"available"`
	StartTime string `json:"start_time" binding:"omitempty,hhmm"`
	EndTime   string `json:"end_time" binding:"omitempty,hhmm"`
	Reason    string `json:"reason" binding:"max=100"`
}

// stylistParam resolves :id and allows only the stylist themself or an admin.
func stylistParam(c *gin.Context) (uint, bool) {
	id, ok := idParam(c)
	if !ok {
		return 0, false
	}

	actor := actorFrom(c)
	if !actor.IsAdmin() && !(actor.IsStylist() && actor.ID == id) {
		httperr.Forbidden(c, "not_your_schedule", "only the stylist or an admin may change this schedule")
		return 0, false
	}
	return id, true
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	stylistID, ok := idParam(c)
	if !ok {
		return
	}

	var hours []models.WorkingHours
	if err := h.db.WithContext(c.Request.Context()).
		Where("stylist_id = ?", stylistID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		httperr.Internal(c, "failed_to_get_working_hours", "could not load working hours")
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	stylistID, ok := stylistParam(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	seen := map[int]bool{}
	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[*d.Weekday] {
			httperr.BadRequest(c, "duplicate_weekday", "each weekday may appear once")
			return
		}
		seen[*d.Weekday] = true

		if d.Active && d.EndTime <= d.StartTime {
			httperr.BadRequest(c, "invalid_time_window", "end_time must be after start_time")
			return
		}
		if (d.LunchStart == "") != (d.LunchEnd == "") || (d.LunchStart != "" && d.LunchEnd <= d.LunchStart) {
			httperr.BadRequest(c, "invalid_lunch_break", "lunch_start and lunch_end must form a window")
			return
		}

		toCreate = append(toCreate, models.WorkingHours{
			StylistID:  stylistID,
			Weekday:    *d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			LunchStart: d.LunchStart,
			LunchEnd:   d.LunchEnd,
		})
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("stylist_id = ?", stylistID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "could not save working hours")
		return
	}

	c.JSON(http.StatusOK, toCreate)
}

// PutOverride upserts the override for one calendar date.
func (h *WorkingHoursHandler) PutOverride(c *gin.Context) {
	stylistID, ok := stylistParam(c)
	if !ok {
		return
	}

	var req OverrideRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD")
		return
	}
	if (req.StartTime == "") != (req.EndTime == "") || (req.StartTime != "" && req.EndTime <= req.StartTime) {
		httperr.BadRequest(c, "invalid_time_window", "start_time and end_time must form a window")
		return
	}

	ov := models.AvailabilityOverride{
		StylistID: stylistID,
		Date:      date,
		Available: req.Available,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}

	if err := h.db.WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stylist_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"available", "start_time", "end_time", "reason", "updated_at"}),
		}).
		Create(&ov).Error; err != nil {

		httperr.Internal(c, "failed_to_save_override", "could not save override")
		return
	}

	c.JSON(http.StatusOK, ov)
}

func (h *WorkingHoursHandler) DeleteOverride(c *gin.Context) {
	stylistID, ok := stylistParam(c)
	if !ok {
		return
	}

	date, err := parseDate(c.Param("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Where("stylist_id = ? AND date = ?", stylistID, date).
		Delete(&models.AvailabilityOverride{}).Error; err != nil {

		httperr.Internal(c, "failed_to_delete_override", "could not delete override")
		return
	}

	c.Status(http.StatusNoContent)
}

