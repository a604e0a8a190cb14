package booking

import (
	"testing"

	"salonbook/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from, to models.BookingStatus
	}{
		{models.StatusPending, models.StatusAwaitingStaffApproval},
		{models.StatusPending, models.StatusCanceled},
		{models.StatusAwaitingStaffApproval, models.StatusPartiallyApproved},
		{models.StatusAwaitingStaffApproval, models.StatusConfirmed},
		{models.StatusAwaitingStaffApproval, models.StatusStaffRejected},
		{models.StatusAwaitingStaffApproval, models.StatusCanceled},
		{models.StatusPartiallyApproved, models.StatusConfirmed},
		{models.StatusPartiallyApproved, models.StatusStaffRejected},
		{models.StatusPartiallyApproved, models.StatusCanceled},
		{models.StatusStaffRejected, models.StatusAwaitingStaffApproval},
		{models.StatusStaffRejected, models.StatusPartiallyApproved},
		{models.StatusStaffRejected, models.StatusCanceled},
		{models.StatusConfirmed, models.StatusCompleted},
		{models.StatusConfirmed, models.StatusCanceled},
	}
	for _, tt := range allowed {
		assert.True(t, CanTransition(tt.from, tt.to), "%s -> %s should be allowed", tt.from, tt.to)
	}

	denied := []struct {
		from, to models.BookingStatus
	}{
		{models.StatusPending, models.StatusConfirmed},
		{models.StatusPending, models.StatusCompleted},
		{models.StatusAwaitingStaffApproval, models.StatusCompleted},
		{models.StatusPartiallyApproved, models.StatusAwaitingStaffApproval},
		{models.StatusStaffRejected, models.StatusConfirmed},
		{models.StatusConfirmed, models.StatusAwaitingStaffApproval},
		{models.StatusCompleted, models.StatusCanceled},
		{models.StatusCompleted, models.StatusConfirmed},
		{models.StatusCanceled, models.StatusPending},
		{models.StatusCanceled, models.StatusConfirmed},
		// self-transitions are rejected
		{models.StatusPending, models.StatusPending},
		{models.StatusConfirmed, models.StatusConfirmed},
	}
	for _, tt := range denied {
		assert.False(t, CanTransition(tt.from, tt.to), "%s -> %s should be denied", tt.from, tt.to)
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	all := []models.BookingStatus{
		models.StatusPending, models.StatusAwaitingStaffApproval,
		models.StatusPartiallyApproved, models.StatusStaffRejected,
		models.StatusConfirmed, models.StatusCompleted, models.StatusCanceled,
	}
	for _, to := range all {
		assert.False(t, CanTransition(models.StatusCompleted, to))
		assert.False(t, CanTransition(models.StatusCanceled, to))
	}
}

func TestInitialApproval(t *testing.T) {
	assert.Equal(t, models.ApprovalPending, InitialApproval("alice"))
	assert.Equal(t, models.ApprovalNeedsAssignment, InitialApproval(models.AnyStaff))
	assert.Equal(t, models.ApprovalNeedsAssignment, InitialApproval(""))
}

func TestInitialStatus(t *testing.T) {
	allAny := []models.BookingService{
		{ServiceID: "cut", Staff: models.AnyStaff},
		{ServiceID: "color"},
	}
	assert.Equal(t, models.StatusPending, InitialStatus(allAny))

	mixed := []models.BookingService{
		{ServiceID: "cut", Staff: "alice"},
		{ServiceID: "color", Staff: models.AnyStaff},
	}
	assert.Equal(t, models.StatusAwaitingStaffApproval, InitialStatus(mixed))
}

func TestAggregateStatus(t *testing.T) {
	svc := func(staff models.StaffAssignment, approval models.ApprovalStatus) models.BookingService {
		return models.BookingService{Staff: staff, Approval: approval}
	}

	t.Run("one rejection dominates", func(t *testing.T) {
		got := AggregateStatus([]models.BookingService{
			svc("alice", models.ApprovalAccepted),
			svc("bob", models.ApprovalRejected),
		})
		assert.Equal(t, models.StatusStaffRejected, got)
	})

	t.Run("all accepted confirms", func(t *testing.T) {
		got := AggregateStatus([]models.BookingService{
			svc("alice", models.ApprovalAccepted),
			svc("bob", models.ApprovalAccepted),
		})
		assert.Equal(t, models.StatusConfirmed, got)
	})

	t.Run("some accepted is partial", func(t *testing.T) {
		got := AggregateStatus([]models.BookingService{
			svc("alice", models.ApprovalAccepted),
			svc("bob", models.ApprovalPending),
		})
		assert.Equal(t, models.StatusPartiallyApproved, got)
	})

	t.Run("acceptance alongside unassigned work stays partial", func(t *testing.T) {
		got := AggregateStatus([]models.BookingService{
			svc("alice", models.ApprovalAccepted),
			svc(models.AnyStaff, models.ApprovalNeedsAssignment),
		})
		assert.Equal(t, models.StatusPartiallyApproved, got)
	})

	t.Run("nothing accepted falls back to initial status", func(t *testing.T) {
		got := AggregateStatus([]models.BookingService{
			svc("alice", models.ApprovalPending),
			svc("bob", models.ApprovalPending),
		})
		assert.Equal(t, models.StatusAwaitingStaffApproval, got)

		got = AggregateStatus([]models.BookingService{
			svc(models.AnyStaff, models.ApprovalNeedsAssignment),
		})
		assert.Equal(t, models.StatusPending, got)
	})
}
