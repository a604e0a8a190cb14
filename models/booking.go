package models

import "time"

// BookingStatus is the aggregate workflow status of a booking.
type BookingStatus string

const (
	StatusPending               BookingStatus = "pending"
	StatusAwaitingStaffApproval BookingStatus = "awaiting_staff_approval"
	StatusPartiallyApproved     BookingStatus = "partially_approved"
	StatusStaffRejected         BookingStatus = "staff_rejected"
	StatusConfirmed             BookingStatus = "confirmed"
	StatusCompleted             BookingStatus = "completed"
	StatusCanceled              BookingStatus = "canceled"
)

// Blocks reports whether a booking in this status still occupies its slot for
// availability purposes. Only a rejected, canceled or finished booking frees
// its slot; every workflow-in-progress status keeps blocking.
func (s BookingStatus) Blocks() bool {
	switch s {
	case StatusCanceled, StatusCompleted, StatusStaffRejected:
		return false
	}
	return true
}

// Terminal reports whether the status admits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// CustomerVisible maps internal workflow statuses to labels safe to show a
// customer. Internal states must never leak as raw text.
func (s BookingStatus) CustomerVisible() string {
	switch s {
	case StatusStaffRejected:
		return "Being Rescheduled"
	case StatusConfirmed:
		return "Confirmed"
	case StatusCompleted:
		return "Completed"
	case StatusCanceled:
		return "Canceled"
	}
	return "Processing"
}

// ApprovalStatus is the per-service approval state.
type ApprovalStatus string

const (
	ApprovalPending         ApprovalStatus = "pending"
	ApprovalAccepted        ApprovalStatus = "accepted"
	ApprovalRejected        ApprovalStatus = "rejected"
	ApprovalNeedsAssignment ApprovalStatus = "needs_assignment"
)

// CustomerInfo identifies the customer on a booking.
type CustomerInfo struct {
	Name      string `bson:"name" json:"name"`
	AccountID string `bson:"account_id,omitempty" json:"accountId,omitempty"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// BookingService is one service line on a booking. Service identity and time
// are immutable once persisted; only approval/completion metadata mutates.
type BookingService struct {
	ServiceID   string          `bson:"service_id" json:"serviceId"`
	ServiceName string          `bson:"service_name" json:"serviceName"`
	Staff       StaffAssignment `bson:"staff,omitempty" json:"staff,omitempty"`
	Start       int             `bson:"start" json:"start"`       // minutes from midnight
	Duration    int             `bson:"duration" json:"duration"` // minutes
	Price       float64         `bson:"price" json:"price"`
	Approval    ApprovalStatus  `bson:"approval" json:"approval"`
	Completed   bool            `bson:"completed,omitempty" json:"completed,omitempty"`
	ActedBy     string          `bson:"acted_by,omitempty" json:"actedBy,omitempty"`
	ActedAt     *time.Time      `bson:"acted_at,omitempty" json:"actedAt,omitempty"`
	CompletedBy string          `bson:"completed_by,omitempty" json:"completedBy,omitempty"`
	CompletedAt *time.Time      `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
}

// Range returns the minute interval occupied by the service.
func (bs BookingService) Range() TimeRange {
	return TimeRange{Start: bs.Start, Duration: bs.Duration}
}

// Booking is a persisted request for one or more services at a branch/date.
// Bookings are never physically deleted; cancellation is a terminal status.
type Booking struct {
	ID        string           `bson:"id" json:"id"`
	Code      string           `bson:"code" json:"code"`
	SalonID   string           `bson:"salon_id" json:"salonId"`
	BranchID  string           `bson:"branch_id" json:"branchId"`
	Customer  CustomerInfo     `bson:"customer" json:"customer"`
	Date      string           `bson:"date" json:"date"` // "2006-01-02"
	Services  []BookingService `bson:"services" json:"services"`
	Status    BookingStatus    `bson:"status" json:"status"`
	Source    string           `bson:"source,omitempty" json:"source,omitempty"`
	CreatedAt time.Time        `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time        `bson:"updated_at" json:"updatedAt"`
}

// AssignedStaff returns the distinct concrete staff ids on the booking.
func (b Booking) AssignedStaff() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, svc := range b.Services {
		if svc.Staff.IsAny() {
			continue
		}
		id := string(svc.Staff)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// PublicBookingData is the customer-facing projection of a booking.
type PublicBookingData struct {
	ID       string           `json:"id"`
	Code     string           `json:"code"`
	SalonID  string           `json:"salonId"`
	BranchID string           `json:"branchId"`
	Date     string           `json:"date"`
	Services []BookingService `json:"services"`
	Status   string           `json:"status"`
}

// ToPublicBookingData applies the customer-visible status projection.
func ToPublicBookingData(b Booking) PublicBookingData {
	return PublicBookingData{
		ID:       b.ID,
		Code:     b.Code,
		SalonID:  b.SalonID,
		BranchID: b.BranchID,
		Date:     b.Date,
		Services: b.Services,
		Status:   b.Status.CustomerVisible(),
	}
}
