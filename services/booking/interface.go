package booking

import (
	"context"

	bookingRepo "salonbook/database/repository/booking"
	holdRepo "salonbook/database/repository/hold"
	"salonbook/models"
	"salonbook/services/notification"
	"salonbook/services/tenant"
)

// BookingWorkflowService is the mutating entry point of the engine: it
// creates bookings against the live hold/booking universe and moves them
// through the approval workflow.
type BookingWorkflowService interface {
	// CreateBooking validates, re-checks availability, persists and returns
	// the booking together with the notification intents it emitted.
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, []models.NotificationIntent, error)
	// TransitionBooking applies a whole-booking status move or a per-service
	// action (accept/reject/assign/complete) validated by the state machine.
	TransitionBooking(ctx context.Context, bookingID string, req models.TransitionRequest, actor models.Actor) (*models.Booking, error)
	// CheckSlots is the advisory, read-only availability check run while a
	// customer is still selecting slots.
	CheckSlots(ctx context.Context, salonID, branchID, date, sessionID string, candidates []models.SlotCandidate) ([]models.SlotCheckResult, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	GetBookingByCode(ctx context.Context, code string) (*models.Booking, error)
	ListBookings(ctx context.Context, salonID, branchID, date string) ([]models.Booking, error)
}

// DefaultBookingWorkflowService implements BookingWorkflowService.
type DefaultBookingWorkflowService struct {
	Repo            bookingRepo.BookingRepository
	LockRepo        bookingRepo.BookingLockRepository
	Holds           holdRepo.HoldRepository
	TenantSvc       tenant.TenantService
	NotificationSvc notification.NotificationService
	CodePrefix      string
}
