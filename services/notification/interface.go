package notification

import (
	"context"

	"salonbook/models"
)

// NotificationService consumes the orchestrator's notification intents.
// Delivery is best-effort: implementations log failures and never surface
// them into the booking workflow.
type NotificationService interface {
	Dispatch(ctx context.Context, intents []models.NotificationIntent) error
}

// TokenResolver maps a recipient to their FCM device token. Recipient
// identity lives with the identity collaborator, not this engine.
type TokenResolver interface {
	FCMToken(ctx context.Context, role, recipientID string) (string, error)
}
