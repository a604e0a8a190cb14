package tenant

import (
	"context"

	"salonbook/models"
)

// TenantService answers "does this salon exist and is it active" and exposes
// the salon record needed for notification fan-out. It gates entry to the
// workflow but its data is never part of the engine's own state.
type TenantService interface {
	GetSalon(ctx context.Context, salonID string) (*models.Salon, error)
	// Invalidate drops any cached copy of the salon record.
	Invalidate(ctx context.Context, salonID string) error
}

// Directory is the upstream source of truth for salons, owned by the tenant
// collaborator. Calls may fail and are treated as retryable.
type Directory interface {
	FetchSalon(ctx context.Context, salonID string) (*models.Salon, error)
}
