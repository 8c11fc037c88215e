package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	actor := actorFrom(c)
	if actor.ID == 0 {
		httperr.Unauthorized(c, "user_not_in_context", "authentication required")
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).First(&user, actor.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "user_not_found", "user not found")
		return
	}
	if err != nil {
		httperr.Internal(c, "user_lookup_failed", "could not load user")
		return
	}

	out := gin.H{
		"id":    user.ID,
		"name":  user.FullName(),
		"email": user.Email,
		"phone": user.Phone,
		"role":  user.Role,
	}
	if user.Role == models.RoleBarber {
		out["title"] = user.Title
		out["registration_status"] = user.RegistrationStatus
		out["rating"] = user.Rating
		out["total_reviews"] = user.TotalReviews
	}

	c.JSON(http.StatusOK, gin.H{"user": out})
}
