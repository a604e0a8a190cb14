package notification

import (
	"context"
	"fmt"

	"salonbook/models"
	"salonbook/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCMNotificationService delivers intents as Firebase Cloud Messaging pushes.
type FCMNotificationService struct {
	Resolver TokenResolver
}

// NewFCMNotificationService constructs the production FCM sender.
func NewFCMNotificationService(resolver TokenResolver) (*FCMNotificationService, error) {
	if resolver == nil {
		return nil, fmt.Errorf("notification service initialization error: token resolver is nil")
	}
	return &FCMNotificationService{Resolver: resolver}, nil
}

// Dispatch sends one push per intent. Individual failures are logged and
// skipped; Dispatch itself only errors when the FCM client is missing.
func (s *FCMNotificationService) Dispatch(ctx context.Context, intents []models.NotificationIntent) error {
	logger := utils.GetLogger()
	if utils.FCMClient == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	for _, intent := range intents {
		token, err := s.Resolver.FCMToken(ctx, intent.RecipientRole, intent.RecipientID)
		if err != nil || token == "" {
			logger.Warn("skipping notification: no device token",
				zap.String("role", intent.RecipientRole),
				zap.String("recipientId", intent.RecipientID),
				zap.Error(err))
			continue
		}

		title, body := renderTemplate(intent)
		data := map[string]string{"role": intent.RecipientRole, "kind": intent.TemplateKind}
		for k, v := range intent.Payload {
			data[k] = v
		}

		msg := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		}
		if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
			logger.Warn("failed to send push notification",
				zap.String("recipientId", intent.RecipientID),
				zap.String("kind", intent.TemplateKind),
				zap.Error(err))
		}
	}
	return nil
}

// renderTemplate maps a template kind to user-facing text. Customer-facing
// kinds only ever carry the projected status label, never internal states.
func renderTemplate(intent models.NotificationIntent) (title, body string) {
	code := intent.Payload["bookingCode"]
	switch intent.TemplateKind {
	case models.TemplateBookingCreated:
		return "Booking received", fmt.Sprintf("Your booking %s is being processed.", code)
	case models.TemplateBookingAssigned:
		return "New booking", fmt.Sprintf("You have been requested for booking %s.", code)
	case models.TemplateAssignmentNeeded:
		return "Staff assignment needed", fmt.Sprintf("Booking %s has services awaiting staff assignment.", code)
	case models.TemplateBookingTransition:
		return "Booking update", fmt.Sprintf("Booking %s: %s.", code, intent.Payload["status"])
	}
	return "Booking update", fmt.Sprintf("Booking %s has been updated.", code)
}
