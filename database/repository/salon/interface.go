package salonRepo

import (
	"context"

	"salonbook/models"
)

// SalonDirectory reads salon records from the tenant directory collection.
// It is the upstream behind the cached tenant service.
type SalonDirectory interface {
	FetchSalon(ctx context.Context, salonID string) (*models.Salon, error)
}
