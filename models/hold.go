package models

import "time"

// Hold statuses.
const (
	HoldStatusActive   = "active"
	HoldStatusReleased = "released"
	HoldStatusExpired  = "expired"
)

// HeldService is one (service, staff, time) tuple claimed by a hold.
type HeldService struct {
	ServiceID string          `json:"serviceId"`
	Staff     StaffAssignment `json:"staff,omitempty"`
	Start     int             `json:"start"`    // minutes from midnight
	Duration  int             `json:"duration"` // minutes
}

// Range returns the minute interval claimed by the held service.
func (hs HeldService) Range() TimeRange {
	return TimeRange{Start: hs.Start, Duration: hs.Duration}
}

// Hold is a session-scoped, time-limited claim on one or more slots for a
// branch and date. It precedes a Booking and expires on its own; readers must
// treat a hold past ExpiresAt as non-blocking even if still present in storage.
type Hold struct {
	ID         string        `json:"id"`
	SalonID    string        `json:"salonId"`
	BranchID   string        `json:"branchId"`
	Date       string        `json:"date"` // "2006-01-02"
	SessionID  string        `json:"sessionId"`
	Services   []HeldService `json:"services"`
	Status     string        `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
	ExpiresAt  time.Time     `json:"expiresAt"`
	CustomerID string        `json:"customerId,omitempty"`
}

// Live reports whether the hold still blocks slots at the given instant.
func (h Hold) Live(now time.Time) bool {
	return h.Status == HoldStatusActive && h.ExpiresAt.After(now)
}
