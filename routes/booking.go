package routes

import (
	"salonbook/handlers"
	"salonbook/middleware"
	"salonbook/models"

	"github.com/gin-gonic/gin"
)

// RegisterHoldRoutes registers the hold endpoints. Holds are session-scoped
// and available to guests, so authentication is optional.
func RegisterHoldRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	holds := r.Group("/api/holds")
	{
		holds.Use(middleware.OptionalAuthMiddleware())
		holds.POST("", hb.Hold.CreateHoldHandler)
		holds.POST("/check", hb.Hold.CheckAvailabilityHandler)
		holds.GET("", hb.Hold.ListActiveHoldsHandler)
		holds.GET("/watch", hb.Hold.WatchHoldsHandler)
		holds.DELETE("/:holdID", hb.Hold.ReleaseHoldHandler)
		holds.DELETE("", hb.Hold.ReleaseAllHoldsHandler)
	}
}

// RegisterBookingRoutes registers the booking endpoints. Creation and reads
// accept guest sessions; workflow transitions require a staff-side actor.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookings := r.Group("/api/bookings")
	{
		bookings.Use(middleware.OptionalAuthMiddleware())
		bookings.POST("", hb.Booking.CreateBookingHandler)
		bookings.GET("", hb.Booking.ListBookingsHandler)
		bookings.GET("/:bookingID", hb.Booking.GetBookingHandler)
		bookings.GET("/code/:code", hb.Booking.GetBookingByCodeHandler)

		workflow := bookings.Group("")
		workflow.Use(middleware.AuthMiddleware(), middleware.RequireRoles(
			models.RecipientStaff, models.RecipientAdmin, models.RecipientOwner))
		workflow.POST("/:bookingID/transition", hb.Booking.TransitionBookingHandler)
	}
}
