package handlers

import (
	"net/http"

	"salonbook/middleware"
	"salonbook/models"
	bookingSvc "salonbook/services/booking"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes booking creation, reads and workflow transitions.
type BookingHandler struct {
	Service bookingSvc.BookingWorkflowService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(service bookingSvc.BookingWorkflowService) *BookingHandler {
	return &BookingHandler{Service: service}
}

// CreateBookingHandler handles POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	booking, _, err := h.Service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	getLogger(c).Info("booking accepted",
		zap.String("bookingId", booking.ID), zap.String("code", booking.Code))
	c.JSON(http.StatusCreated, gin.H{
		"bookingId":   booking.ID,
		"bookingCode": booking.Code,
		"status":      booking.Status.CustomerVisible(),
	})
}

// TransitionBookingHandler handles POST /api/bookings/:bookingID/transition.
// Staff and admin actors only; the route group enforces the role.
func (h *BookingHandler) TransitionBookingHandler(c *gin.Context) {
	bookingID := c.Param("bookingID")
	var req models.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	actor := middleware.ActorFromContext(c)
	booking, err := h.Service.TransitionBooking(c.Request.Context(), bookingID, req, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// GetBookingHandler handles GET /api/bookings/:bookingID. Customers receive
// the projected view; staff-side actors see the raw workflow status.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	bookingID := c.Param("bookingID")
	booking, err := h.Service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondBooking(c, booking)
}

// GetBookingByCodeHandler handles GET /api/bookings/code/:code.
func (h *BookingHandler) GetBookingByCodeHandler(c *gin.Context) {
	code := c.Param("code")
	booking, err := h.Service.GetBookingByCode(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondBooking(c, booking)
}

// ListBookingsHandler handles GET /api/bookings for one salon/branch/date.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	salonID := c.Query("salonId")
	branchID := c.Query("branchId")
	date := c.Query("date")

	bookings, err := h.Service.ListBookings(c.Request.Context(), salonID, branchID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	actor := middleware.ActorFromContext(c)
	if actor.Role == models.RecipientCustomer {
		public := make([]models.PublicBookingData, 0, len(bookings))
		for _, b := range bookings {
			public = append(public, models.ToPublicBookingData(b))
		}
		c.JSON(http.StatusOK, gin.H{"bookings": public})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) respondBooking(c *gin.Context, booking *models.Booking) {
	actor := middleware.ActorFromContext(c)
	if actor.Role == models.RecipientCustomer {
		c.JSON(http.StatusOK, models.ToPublicBookingData(*booking))
		return
	}
	c.JSON(http.StatusOK, booking)
}
