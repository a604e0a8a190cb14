package bookingRepo

import (
	"context"

	"salonbook/models"
)

// BookingRepository defines the persistence operations the workflow engine
// needs: filtered reads by (salon, branch, date) and a write path strong
// enough to serialize the availability re-check with the insert.
type BookingRepository interface {
	// GetByID retrieves a booking by its unique id.
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	// GetByCode retrieves a booking by its human-readable code.
	GetByCode(ctx context.Context, code string) (*models.Booking, error)
	// ListBlocking returns the bookings for a salon/branch/date whose status
	// still occupies slots (everything except canceled, completed, rejected).
	ListBlocking(ctx context.Context, salonID, branchID, date string) ([]models.Booking, error)
	// ListByBranchDate returns all bookings for a salon/branch/date regardless of status.
	ListByBranchDate(ctx context.Context, salonID, branchID, date string) ([]models.Booking, error)
	// Update replaces the mutable parts of a booking (status, services, updated_at).
	Update(ctx context.Context, booking *models.Booking) error
	// CreateWithRecheck re-reads the blocking bookings for the booking's
	// salon/branch/date inside a transaction, runs verify against them, and
	// inserts the booking only if verify returns nil.
	CreateWithRecheck(ctx context.Context, booking *models.Booking, verify func(existing []models.Booking) error) error
}

// BookingLockRepository provides advisory locks for contended slot combinations.
type BookingLockRepository interface {
	// Acquire inserts the lock; a duplicate key means another writer holds it.
	Acquire(ctx context.Context, lock *models.BookingLock) error
	// Release removes the lock. Releasing an absent lock is a no-op.
	Release(ctx context.Context, lockID string) error
}
