package services

import (
	"context"
	"fmt"
	"time"
	"vehiclecare/internal/apperrors"
	"vehiclecare/internal/models"
	"vehiclecare/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TriggerStrategy decides what happens to a mileage reminder once the odometer reaches it.
type TriggerStrategy interface {
	Name() string
	OnTriggered(ctx context.Context, vehicle *models.Vehicle, reminder *models.Reminder, mileage int) error
}

// MileageReminderEvaluator records odometer readings and finds the pending mileage
// reminders a reading reaches. What happens to a reached reminder is left to the
// TriggerStrategy passed by the caller.
type MileageReminderEvaluator struct {
	db             *gorm.DB
	vehicles       repositories.VehicleRepository
	mileageRecords repositories.MileageRecordRepository
	reminders      repositories.ReminderRepository
	now            clock
	log            logger.Logger
}

func NewMileageReminderEvaluator(db *gorm.DB, repos repositories.Repository) *MileageReminderEvaluator {
	return &MileageReminderEvaluator{
		db:             db,
		vehicles:       repos.Vehicle,
		mileageRecords: repos.MileageRecord,
		reminders:      repos.Reminder,
		now:            time.Now,
		log:            logger.New("mileageReminderEvaluator"),
	}
}

// RecordMileage sets the vehicle odometer and appends a MileageRecord. The two writes
// are sequential, not transactional.
func (e *MileageReminderEvaluator) RecordMileage(
	ctx context.Context,
	vehicleID uuid.UUID,
	mileage int,
	notes *string,
) (*models.Vehicle, error) {
	log := e.log.Function("RecordMileage")

	if mileage < 0 {
		return nil, apperrors.Validation("mileage must not be negative")
	}

	vehicle, err := e.vehicles.GetByID(ctx, e.db, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, apperrors.ErrVehicleNotFound
	}

	if mileage < vehicle.Mileage {
		return nil, apperrors.Validation(
			fmt.Sprintf("mileage %d is lower than the current odometer reading %d", mileage, vehicle.Mileage),
		)
	}

	if err := e.vehicles.UpdateMileage(ctx, e.db, vehicleID, mileage); err != nil {
		return nil, err
	}
	vehicle.Mileage = mileage

	if err := e.mileageRecords.Create(ctx, e.db, &models.MileageRecord{
		VehicleID: vehicleID,
		Mileage:   mileage,
		Date:      e.now(),
		Notes:     notes,
	}); err != nil {
		return nil, err
	}

	log.Info("Recorded mileage", "vehicleID", vehicleID, "mileage", mileage)
	return vehicle, nil
}

// Evaluate applies strategy to every pending MILEAGE_BASED or HYBRID reminder of the
// vehicle whose due mileage is at or below mileage. A failing reminder is logged and
// left out of the result without stopping the others.
func (e *MileageReminderEvaluator) Evaluate(
	ctx context.Context,
	vehicle *models.Vehicle,
	mileage int,
	strategy TriggerStrategy,
) ([]*models.Reminder, error) {
	log := e.log.Function("Evaluate")

	completed := false
	pending, err := e.reminders.Find(ctx, e.db, repositories.ReminderFilter{
		VehicleID: &vehicle.ID,
		Types:     []models.ReminderType{models.ReminderTypeMileageBased, models.ReminderTypeHybrid},
		Completed: &completed,
	})
	if err != nil {
		return nil, err
	}

	triggered := make([]*models.Reminder, 0)
	for _, reminder := range pending {
		if !reminder.MileageDue(mileage) {
			continue
		}

		if err := strategy.OnTriggered(ctx, vehicle, reminder, mileage); err != nil {
			log.Er(
				"failed to handle triggered reminder",
				err,
				"reminderID", reminder.ID,
				"strategy", strategy.Name(),
			)
			continue
		}
		triggered = append(triggered, reminder)
	}

	return triggered, nil
}

type LogOnlyStrategy struct {
	log logger.Logger
}

// NewLogOnlyStrategy reports triggered reminders without notifying or mutating them.
func NewLogOnlyStrategy() *LogOnlyStrategy {
	return &LogOnlyStrategy{log: logger.New("logOnlyStrategy")}
}

func (s *LogOnlyStrategy) Name() string {
	return "log-only"
}

func (s *LogOnlyStrategy) OnTriggered(
	ctx context.Context,
	vehicle *models.Vehicle,
	reminder *models.Reminder,
	mileage int,
) error {
	s.log.Function("OnTriggered").Info(
		"Mileage reminder reached",
		"reminderID", reminder.ID,
		"vehicleID", vehicle.ID,
		"description", reminder.Description,
		"dueMileage", *reminder.DueMileage,
		"mileage", mileage,
	)
	return nil
}

// NotifyAndCompleteStrategy sends a MILEAGE_REMINDER notification and completes the
// reminder. The recurring flag is not consulted, so no successor is created.
type NotifyAndCompleteStrategy struct {
	db        *gorm.DB
	reminders repositories.ReminderRepository
	notifier  Notifier
	now       clock
	log       logger.Logger
}

func NewNotifyAndCompleteStrategy(
	db *gorm.DB,
	reminders repositories.ReminderRepository,
	notifier Notifier,
) *NotifyAndCompleteStrategy {
	return &NotifyAndCompleteStrategy{
		db:        db,
		reminders: reminders,
		notifier:  notifier,
		now:       time.Now,
		log:       logger.New("notifyAndCompleteStrategy"),
	}
}

func (s *NotifyAndCompleteStrategy) Name() string {
	return "notify-and-complete"
}

func (s *NotifyAndCompleteStrategy) OnTriggered(
	ctx context.Context,
	vehicle *models.Vehicle,
	reminder *models.Reminder,
	mileage int,
) error {
	log := s.log.Function("OnTriggered")

	runSideEffect(log, "mileage reminder notification", func() error {
		_, err := s.notifier.CreateNotification(ctx, CreateNotificationInput{
			UserID:   vehicle.OwnerID,
			Type:     models.NotificationTypeMileageReminder,
			Title:    "Mileage reminder: " + reminder.Description,
			Message: fmt.Sprintf(
				"%s reached %d km (due at %d km): %s",
				vehicle.DisplayName(),
				mileage,
				*reminder.DueMileage,
				reminder.Description,
			),
			Data: map[string]any{
				"reminderId": reminder.ID.String(),
				"vehicleId":  vehicle.ID.String(),
				"mileage":    mileage,
			},
			Channel:  models.NotificationChannelInApp,
			Category: models.NotificationCategoryMileage,
		})
		return err
	})

	now := s.now()
	reminder.LastNotified = &now
	reminder.Completed = true
	reminder.CompletedAt = &now

	return s.reminders.Update(ctx, s.db, reminder)
}
