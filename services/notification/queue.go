package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"salonbook/models"
	"salonbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeNotifyDispatch is the asynq task type carrying notification intents.
const TypeNotifyDispatch = "notify:dispatch"

// QueueNotificationService hands intents to the background worker instead of
// sending inline, keeping delivery off the booking request path.
type QueueNotificationService struct {
	Client *asynq.Client
}

// NewQueueNotificationService constructs the enqueuing implementation.
func NewQueueNotificationService(client *asynq.Client) *QueueNotificationService {
	return &QueueNotificationService{Client: client}
}

// Dispatch enqueues the intents for the worker. Enqueue failures are logged
// and swallowed: notifications must never block or roll back a booking.
func (s *QueueNotificationService) Dispatch(ctx context.Context, intents []models.NotificationIntent) error {
	if len(intents) == 0 {
		return nil
	}
	payload, err := json.Marshal(intents)
	if err != nil {
		return fmt.Errorf("failed to marshal notification intents: %w", err)
	}
	task := asynq.NewTask(TypeNotifyDispatch, payload)
	if _, err := s.Client.EnqueueContext(ctx, task); err != nil {
		utils.GetLogger().Warn("failed to enqueue notification intents", zap.Error(err))
	}
	return nil
}
