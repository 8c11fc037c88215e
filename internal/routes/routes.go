package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
	ucRecurring "github.com/BruksfildServices01/barber-booking/internal/usecase/recurring"
)

// Deps is everything the HTTP layer needs; use cases are built by main so
// the scheduler can share them.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Metrics  http.Handler
	Bookings handlers.BookingUseCases
	Waitlist handlers.WaitlistUseCases

	CreateRecurring   *ucRecurring.CreateRule
	ManageRecurring   *ucRecurring.ManageRule
	GenerateRecurring *ucRecurring.GenerateDueBookings

	ApproveStylist *ucBooking.ApproveStylist
	RejectStylist  *ucBooking.RejectStylist

	Middleware []gin.HandlerFunc
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(d.Config.CORSOrigins))
	r.Use(d.Middleware...)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	bookingHandler := handlers.NewBookingHandler(d.Bookings, d.Config.SlotStepMinutes)
	recurringHandler := handlers.NewRecurringHandler(d.CreateRecurring, d.ManageRecurring, d.GenerateRecurring)
	waitlistHandler := handlers.NewWaitlistHandler(d.Waitlist)
	stylistHandler := handlers.NewStylistHandler(d.ApproveStylist, d.RejectStylist)

	catalogHandler := handlers.NewCatalogHandler(d.DB)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.DB)
	meHandler := handlers.NewMeHandler(d.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	auth := middleware.AuthMiddleware(d.Config)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	staffOnly := middleware.RequireRole(models.RoleAdmin, models.RoleBarber)
	stylistOnly := middleware.RequireRole(models.RoleBarber)

	// ======================================================
	// 🔧 OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if d.Config.MetricsEnabled && d.Metrics != nil {
		r.GET(d.Config.MetricsPath, gin.WrapH(d.Metrics))
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PUBLIC
		// ------------------------------
		api.GET("/services", catalogHandler.ListServices)
		api.GET("/stylists", catalogHandler.ListStylists)
		api.GET("/stylists/:id/availability", bookingHandler.Slots)
		api.GET("/stylists/:id/working-hours", workingHoursHandler.Get)

		api.GET("/bookings/availability", bookingHandler.Availability)
		api.POST("/bookings", middleware.OptionalAuth(d.Config), bookingHandler.Create)

		// ------------------------------
		// 🔐 AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(auth)
		{
			secured.GET("/me", meHandler.GetMe)

			secured.PUT("/stylists/:id/working-hours", staffOnly, workingHoursHandler.Update)
			secured.PUT("/stylists/:id/overrides", staffOnly, workingHoursHandler.PutOverride)
			secured.DELETE("/stylists/:id/overrides/:date", staffOnly, workingHoursHandler.DeleteOverride)
			secured.PUT("/stylists/:id/approve", adminOnly, stylistHandler.Approve)
			secured.PUT("/stylists/:id/reject", adminOnly, stylistHandler.Reject)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			bookings := secured.Group("/bookings")
			{
				bookings.GET("", adminOnly, bookingHandler.List)
				bookings.GET("/my-bookings", bookingHandler.Mine)
				bookings.GET("/stylist/my-bookings", stylistOnly, bookingHandler.Mine)
				bookings.GET("/:id", bookingHandler.Get)
				bookings.PUT("/:id", staffOnly, bookingHandler.Update)
				bookings.PATCH("/:id/confirm", bookingHandler.Confirm)
				bookings.PATCH("/:id/start", bookingHandler.Start)
				bookings.PATCH("/:id/complete", bookingHandler.Complete)
				bookings.PATCH("/:id/no-show", bookingHandler.NoShow)
				bookings.PATCH("/:id/cancel", bookingHandler.Cancel)
				bookings.PUT("/:id/review", bookingHandler.Review)
			}

			// ------------------------------
			// RECURRING
			// ------------------------------
			recurring := secured.Group("/recurring-bookings")
			{
				recurring.POST("", recurringHandler.Create)
				recurring.GET("/upcoming", recurringHandler.Upcoming)
				recurring.POST("/generate", adminOnly, recurringHandler.Generate)
				recurring.GET("/:id", recurringHandler.Get)
				recurring.PATCH("/:id/pause", recurringHandler.Pause)
				recurring.PATCH("/:id/resume", recurringHandler.Resume)
				recurring.PATCH("/:id/cancel", recurringHandler.Cancel)
				recurring.POST("/:id/exceptions", recurringHandler.AddException)
			}

			// ------------------------------
			// WAITLIST
			// ------------------------------
			waitlist := secured.Group("/waitlist")
			{
				waitlist.POST("", waitlistHandler.Add)
				waitlist.POST("/offers", staffOnly, waitlistHandler.Offer)
				waitlist.POST("/cleanup", adminOnly, waitlistHandler.Cleanup)
				waitlist.GET("/:id", waitlistHandler.Get)
				waitlist.POST("/:id/accept", waitlistHandler.Accept)
				waitlist.POST("/:id/decline", waitlistHandler.Decline)
				waitlist.DELETE("/:id", waitlistHandler.Cancel)
			}

			secured.GET("/audit-logs", adminOnly, auditLogsHandler.List)
		}
	}
}
