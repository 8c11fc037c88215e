package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// CatalogHandler exposes the read side of services and stylists.
type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

type StylistView struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Title        string  `json:"title"`
	Experience   int     `json:"experience"`
	Rating       float64 `json:"rating"`
	TotalReviews int     `json:"total_reviews"`
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Service{}).
		Where("active = ?", true)

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		q = q.Where("category = ?", category)
	}

	if search := strings.TrimSpace(c.Query("q")); search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "could not load services")
		return
	}

	httpresp.List(c, services)
}

func (h *CatalogHandler) ListStylists(c *gin.Context) {
	var users []models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("role = ? AND registration_status = ? AND is_active = ?",
			models.RoleBarber, models.RegistrationApproved, true).
		Order("rating DESC, id ASC").
		Find(&users).Error; err != nil {

		httperr.Internal(c, "failed_to_list_stylists", "could not load stylists")
		return
	}

	out := make([]StylistView, 0, len(users))
	for _, u := range users {
		out = append(out, StylistView{
			ID:           u.ID,
			Name:         u.FullName(),
			Title:        u.Title,
			Experience:   u.Experience,
			Rating:       u.Rating,
			TotalReviews: u.TotalReviews,
		})
	}

	httpresp.List(c, out)
}
