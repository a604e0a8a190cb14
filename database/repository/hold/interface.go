package holdRepo

import (
	"context"

	"salonbook/models"
)

// HoldRepository owns the set of active slot holds. Holds are soft claims:
// the store never rejects a create for conflicts (that is the availability
// checker's job), and expiry is lazy — ListActive may return holds already
// past their expiry, so every reader must re-apply expiresAt > now itself.
type HoldRepository interface {
	// Create persists a new hold, assigning id, creation and expiry times.
	// Any prior active hold for the same (session, salon, date) is atomically
	// invalidated first: a session never holds two live claims for one date.
	Create(ctx context.Context, hold *models.Hold) error
	// Release removes the hold if the session owns it; otherwise it is a no-op.
	Release(ctx context.Context, holdID, sessionID string) error
	// ReleaseAll removes every hold owned by the session.
	ReleaseAll(ctx context.Context, sessionID string) error
	// ListActive returns all stored holds for a salon/date regardless of expiry.
	ListActive(ctx context.Context, salonID, date string) ([]models.Hold, error)
	// Reap physically deletes the hold if its expiry has passed.
	Reap(ctx context.Context, salonID, date, holdID string) error
	// Subscribe invokes fn whenever the hold set for a salon/date changes and
	// returns an unsubscribe handle.
	Subscribe(ctx context.Context, salonID, date string, fn func()) (func(), error)
}
