package models

// BookingServiceInput is one requested service line on a create request.
type BookingServiceInput struct {
	ServiceID     string          `json:"serviceId" binding:"required"`
	ServiceName   string          `json:"serviceName"`
	Staff         StaffAssignment `json:"staff,omitempty"`
	Start         int             `json:"start"`
	Duration      int             `json:"duration" binding:"required"`
	Price         float64         `json:"price"`
	EligibleStaff []string        `json:"eligibleStaff,omitempty"`
}

// CreateBookingRequest is the payload accepted by the booking creation API.
type CreateBookingRequest struct {
	SalonID   string                `json:"salonId" binding:"required"`
	BranchID  string                `json:"branchId" binding:"required"`
	Date      string                `json:"date" binding:"required"` // "2006-01-02"
	Customer  CustomerInfo          `json:"customer" binding:"required"`
	Services  []BookingServiceInput `json:"services" binding:"required"`
	SessionID string                `json:"sessionId,omitempty"` // reservation session whose holds are released on success
	Source    string                `json:"source,omitempty"`
}

// CreateHoldRequest is the payload accepted by the hold creation API.
type CreateHoldRequest struct {
	SessionID  string        `json:"sessionId" binding:"required"`
	SalonID    string        `json:"salonId" binding:"required"`
	BranchID   string        `json:"branchId" binding:"required"`
	Date       string        `json:"date" binding:"required"`
	Services   []HeldService `json:"services" binding:"required"`
	CustomerID string        `json:"customerId,omitempty"`
}

// TransitionRequest asks the workflow to move a booking to a new status, or
// to apply a per-service action which is folded into an aggregate transition.
type TransitionRequest struct {
	Status    BookingStatus   `json:"status,omitempty"`
	ServiceID string          `json:"serviceId,omitempty"`
	Action    string          `json:"action,omitempty"` // "accept", "reject", "assign", "complete"
	Staff     StaffAssignment `json:"staff,omitempty"`  // for "assign"
}

// Per-service transition actions.
const (
	ActionAccept   = "accept"
	ActionReject   = "reject"
	ActionAssign   = "assign"
	ActionComplete = "complete"
)

// Actor is the authenticated identity performing a workflow action.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"` // "customer", "staff", "admin", "owner"
}
