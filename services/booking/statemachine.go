package booking

import "salonbook/models"

// allowedTransitions is the complete transition table. Any (current, next)
// pair not listed here is rejected, including self-transitions.
var allowedTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.StatusPending: {
		models.StatusAwaitingStaffApproval, // admin assigns/confirms staff
		models.StatusCanceled,
	},
	models.StatusAwaitingStaffApproval: {
		models.StatusPartiallyApproved, // some but not all assigned staff accept
		models.StatusConfirmed,         // all assigned staff accept
		models.StatusStaffRejected,     // any assigned staff rejects
		models.StatusCanceled,
	},
	models.StatusPartiallyApproved: {
		models.StatusConfirmed,
		models.StatusStaffRejected,
		models.StatusCanceled,
	},
	models.StatusStaffRejected: {
		models.StatusAwaitingStaffApproval, // admin reassigns rejected service(s)
		models.StatusPartiallyApproved,     // reassigned while some already accepted
		models.StatusCanceled,
	},
	models.StatusConfirmed: {
		models.StatusCompleted,
		models.StatusCanceled,
	},
	// Completed and Canceled are terminal.
}

// CanTransition reports whether the workflow allows moving a booking from one
// status to another.
func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// InitialApproval classifies one service's approval state at creation time:
// pending when a concrete staff member is assigned, needs_assignment otherwise.
func InitialApproval(staff models.StaffAssignment) models.ApprovalStatus {
	if staff.IsAny() {
		return models.ApprovalNeedsAssignment
	}
	return models.ApprovalPending
}

// InitialStatus computes the booking-level status at creation. With no
// concrete assignment anywhere the booking routes to the admin for staffing;
// with at least one assigned service the assigned staff are approached
// directly while unassigned services are flagged to the admin in parallel.
func InitialStatus(services []models.BookingService) models.BookingStatus {
	for _, svc := range services {
		if !svc.Staff.IsAny() {
			return models.StatusAwaitingStaffApproval
		}
	}
	return models.StatusPending
}

// AggregateStatus derives the booking-level status implied by the per-service
// approval states. A single rejection dominates; otherwise the booking is
// confirmed only once every service is accepted, and partially approved when
// at least one acceptance exists alongside work still pending.
func AggregateStatus(services []models.BookingService) models.BookingStatus {
	var accepted, pendingWork int
	for _, svc := range services {
		switch svc.Approval {
		case models.ApprovalRejected:
			return models.StatusStaffRejected
		case models.ApprovalAccepted:
			accepted++
		default: // pending or needs_assignment
			pendingWork++
		}
	}
	switch {
	case pendingWork == 0 && accepted > 0:
		return models.StatusConfirmed
	case accepted > 0:
		return models.StatusPartiallyApproved
	default:
		return InitialStatus(services)
	}
}
