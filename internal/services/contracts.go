package services

import (
	"context"
	"fmt"
	"time"
	"vehiclecare/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier is the only way core services create notifications. A nil notification with
// a nil error means the recipient's settings suppressed it.
type Notifier interface {
	CreateNotification(ctx context.Context, input CreateNotificationInput) (*models.Notification, error)
}

type SettingsProvider interface {
	GetNotificationSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error)
}

// EmailSender never returns an error; false means the message was not handed off.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, html, text string) bool
}

type EventPublisher interface {
	PublishNotificationCreated(userID uuid.UUID, data map[string]any) error
}

type Transactor interface {
	Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error
}

type clock func() time.Time

// runSideEffect executes a best-effort step. Errors and panics are logged and dropped so
// that the primary write the step follows is never undone or reported as failed.
func runSideEffect(log logger.Logger, step string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Er("side effect panicked", fmt.Errorf("%v", r), "step", step)
		}
	}()

	if err := fn(); err != nil {
		log.Er("side effect failed", err, "step", step)
	}
}

func intPtr(v int) *int {
	return &v
}

func timePtr(t time.Time) *time.Time {
	return &t
}
