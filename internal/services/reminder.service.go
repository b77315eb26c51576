package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"vehiclecare/internal/apperrors"
	"vehiclecare/internal/models"
	"vehiclecare/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateReminderInput struct {
	VehicleID       uuid.UUID           `json:"vehicleId"       validate:"required"`
	MaintenanceID   *uuid.UUID          `json:"maintenanceId"`
	Description     string              `json:"description"     validate:"required,max=500"`
	Type            models.ReminderType `json:"type"            validate:"required,oneof=TIME_BASED MILEAGE_BASED HYBRID"`
	DueDate         *time.Time          `json:"dueDate"`
	DueMileage      *int                `json:"dueMileage"      validate:"omitempty,min=0"`
	IntervalDays    *int                `json:"intervalDays"    validate:"omitempty,min=1"`
	IntervalMileage *int                `json:"intervalMileage" validate:"omitempty,min=1"`
	Recurring       bool                `json:"recurring"`
}

type UpdateReminderInput struct {
	Description     *string    `json:"description"     validate:"omitempty,max=500"`
	DueDate         *time.Time `json:"dueDate"`
	DueMileage      *int       `json:"dueMileage"      validate:"omitempty,min=0"`
	IntervalDays    *int       `json:"intervalDays"    validate:"omitempty,min=1"`
	IntervalMileage *int       `json:"intervalMileage" validate:"omitempty,min=1"`
	Recurring       *bool      `json:"recurring"`
}

type MileageCheckResult struct {
	MileageUpdated     bool               `json:"mileageUpdated"`
	NewMileage         int                `json:"newMileage"`
	TriggeredReminders int                `json:"triggeredReminders"`
	Reminders          []*models.Reminder `json:"reminders"`
}

type ReminderService struct {
	db        *gorm.DB
	reminders repositories.ReminderRepository
	vehicles  repositories.VehicleRepository
	notifier  Notifier
	evaluator *MileageReminderEvaluator
	logOnly   TriggerStrategy
	now       clock
	log       logger.Logger
}

func NewReminderService(
	db *gorm.DB,
	repos repositories.Repository,
	notifier Notifier,
	evaluator *MileageReminderEvaluator,
) *ReminderService {
	return &ReminderService{
		db:        db,
		reminders: repos.Reminder,
		vehicles:  repos.Vehicle,
		notifier:  notifier,
		evaluator: evaluator,
		logOnly:   NewLogOnlyStrategy(),
		now:       time.Now,
		log:       logger.New("reminderService"),
	}
}

func validateReminder(reminder *models.Reminder) error {
	if !reminder.Type.IsValid() {
		return apperrors.Validation("unknown reminder type " + string(reminder.Type))
	}
	if strings.TrimSpace(reminder.Description) == "" {
		return apperrors.Validation("description is required")
	}

	switch reminder.Type {
	case models.ReminderTypeTimeBased:
		if reminder.DueDate == nil {
			return apperrors.Validation("dueDate is required for TIME_BASED reminders")
		}
	case models.ReminderTypeMileageBased:
		if reminder.DueMileage == nil {
			return apperrors.Validation("dueMileage is required for MILEAGE_BASED reminders")
		}
	case models.ReminderTypeHybrid:
		if reminder.DueDate == nil && reminder.DueMileage == nil {
			return apperrors.Validation("dueDate or dueMileage is required for HYBRID reminders")
		}
	}

	if reminder.Recurring {
		if reminder.Type.UsesDate() && reminder.DueDate != nil && reminder.IntervalDays == nil {
			return apperrors.Validation("intervalDays is required for recurring date reminders")
		}
		if reminder.Type.UsesMileage() && reminder.DueMileage != nil && reminder.IntervalMileage == nil {
			return apperrors.Validation("intervalMileage is required for recurring mileage reminders")
		}
	}

	return nil
}

// Create persists the reminder, then tells the vehicle owner about it on a best-effort basis.
func (s *ReminderService) Create(ctx context.Context, input CreateReminderInput) (*models.Reminder, error) {
	log := s.log.Function("Create")

	vehicle, err := s.vehicles.GetByID(ctx, s.db, input.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, apperrors.ErrVehicleNotFound
	}

	reminder := &models.Reminder{
		VehicleID:       input.VehicleID,
		MaintenanceID:   input.MaintenanceID,
		Description:     input.Description,
		Type:            input.Type,
		DueDate:         input.DueDate,
		DueMileage:      input.DueMileage,
		IntervalDays:    input.IntervalDays,
		IntervalMileage: input.IntervalMileage,
		Recurring:       input.Recurring,
	}
	if err := validateReminder(reminder); err != nil {
		return nil, err
	}

	if err := s.reminders.Create(ctx, s.db, reminder); err != nil {
		return nil, err
	}

	runSideEffect(log, "reminder created notification", func() error {
		_, err := s.notifier.CreateNotification(ctx, CreateNotificationInput{
			UserID:   vehicle.OwnerID,
			Type:     models.NotificationTypeReminderCreated,
			Title:    "New reminder: " + reminder.Description,
			Message:  describeReminder(vehicle, reminder),
			Data:     reminderData(reminder),
			Channel:  models.NotificationChannelInApp,
			Category: models.NotificationCategoryReminder,
		})
		return err
	})

	return reminder, nil
}

func describeReminder(vehicle *models.Vehicle, reminder *models.Reminder) string {
	message := reminder.Description + " for " + vehicle.DisplayName()
	if reminder.DueDate != nil {
		message += " due on " + reminder.DueDate.Format("2006-01-02")
	}
	if reminder.DueMileage != nil {
		if reminder.DueDate != nil {
			message += " or"
		}
		message += fmt.Sprintf(" at %d km", *reminder.DueMileage)
	}
	return message
}

func reminderData(reminder *models.Reminder) map[string]any {
	return map[string]any{
		"reminderId": reminder.ID.String(),
		"vehicleId":  reminder.VehicleID.String(),
	}
}

func (s *ReminderService) Get(ctx context.Context, id uuid.UUID) (*models.Reminder, error) {
	reminder, err := s.reminders.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if reminder == nil {
		return nil, apperrors.ErrReminderNotFound
	}
	return reminder, nil
}

func (s *ReminderService) List(
	ctx context.Context,
	filter repositories.ReminderFilter,
) ([]*models.Reminder, error) {
	return s.reminders.Find(ctx, s.db, filter)
}

func (s *ReminderService) Update(
	ctx context.Context,
	id uuid.UUID,
	input UpdateReminderInput,
) (*models.Reminder, error) {
	reminder, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		reminder.Description = *input.Description
	}
	if input.DueDate != nil {
		reminder.DueDate = input.DueDate
	}
	if input.DueMileage != nil {
		reminder.DueMileage = input.DueMileage
	}
	if input.IntervalDays != nil {
		reminder.IntervalDays = input.IntervalDays
	}
	if input.IntervalMileage != nil {
		reminder.IntervalMileage = input.IntervalMileage
	}
	if input.Recurring != nil {
		reminder.Recurring = *input.Recurring
	}

	if err := validateReminder(reminder); err != nil {
		return nil, err
	}

	if err := s.reminders.Update(ctx, s.db, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *ReminderService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.reminders.Delete(ctx, s.db, id)
}

// MarkAsCompleted completes the reminder and, when it recurs, inserts the next
// occurrence measured from the completion time and the vehicle's current odometer.
// Completing an already completed reminder returns it unchanged.
func (s *ReminderService) MarkAsCompleted(ctx context.Context, id uuid.UUID) (*models.Reminder, error) {
	log := s.log.Function("MarkAsCompleted")

	reminder, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if reminder.Completed {
		return reminder, nil
	}

	vehicle, err := s.vehicles.GetByID(ctx, s.db, reminder.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, apperrors.ErrVehicleNotFound
	}

	now := s.now()
	reminder.Completed = true
	reminder.CompletedAt = &now
	if err := s.reminders.Update(ctx, s.db, reminder); err != nil {
		return nil, err
	}

	runSideEffect(log, "reminder completed notification", func() error {
		_, err := s.notifier.CreateNotification(ctx, CreateNotificationInput{
			UserID:   vehicle.OwnerID,
			Type:     models.NotificationTypeReminderCompleted,
			Title:    "Reminder completed: " + reminder.Description,
			Message:  reminder.Description + " for " + vehicle.DisplayName() + " was marked as done",
			Data:     reminderData(reminder),
			Channel:  models.NotificationChannelInApp,
			Category: models.NotificationCategoryReminder,
		})
		return err
	})

	if reminder.Recurring {
		next := nextOccurrence(reminder, vehicle, now)
		if err := s.reminders.Create(ctx, s.db, next); err != nil {
			return nil, log.Err("failed to create next reminder occurrence", err, "reminderID", reminder.ID)
		}
		log.Info("Created next reminder occurrence", "reminderID", reminder.ID, "nextID", next.ID)
	}

	return reminder, nil
}

func nextOccurrence(reminder *models.Reminder, vehicle *models.Vehicle, now time.Time) *models.Reminder {
	next := &models.Reminder{
		VehicleID:       reminder.VehicleID,
		Description:     reminder.Description,
		Type:            reminder.Type,
		IntervalDays:    reminder.IntervalDays,
		IntervalMileage: reminder.IntervalMileage,
		Recurring:       true,
	}

	if reminder.Type.UsesDate() && reminder.IntervalDays != nil {
		next.DueDate = timePtr(now.AddDate(0, 0, *reminder.IntervalDays))
	}
	if reminder.Type.UsesMileage() && reminder.IntervalMileage != nil {
		next.DueMileage = intPtr(vehicle.Mileage + *reminder.IntervalMileage)
	}

	return next
}

// CreateSmartReminder instantiates a built-in template for the vehicle.
func (s *ReminderService) CreateSmartReminder(
	ctx context.Context,
	vehicleID uuid.UUID,
	reminderType string,
) (*models.Reminder, error) {
	template, ok := smartReminderTemplates[reminderType]
	if !ok {
		return nil, apperrors.ErrUnknownReminderTemplate.WithMessage(
			fmt.Sprintf("unrecognized smart reminder type %q", reminderType),
		)
	}

	vehicle, err := s.vehicles.GetByID(ctx, s.db, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, apperrors.ErrVehicleNotFound
	}

	return s.Create(ctx, template(vehicle, s.now()))
}

// GetUpcomingReminders returns pending reminders whose due date falls within
// [now, now+days]. Every pending reminder with a positive due mileage is included
// as well, however far away that mileage is.
func (s *ReminderService) GetUpcomingReminders(
	ctx context.Context,
	filter repositories.ReminderFilter,
	days int,
) ([]*models.Reminder, error) {
	if days <= 0 {
		days = defaultUpcomingDays
	}

	completed := false
	filter.Completed = &completed
	pending, err := s.reminders.Find(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	horizon := now.AddDate(0, 0, days)

	upcoming := make([]*models.Reminder, 0, len(pending))
	for _, reminder := range pending {
		dateDue := reminder.Type.UsesDate() &&
			reminder.DueDate != nil &&
			!reminder.DueDate.Before(now) &&
			!reminder.DueDate.After(horizon)
		mileageTracked := reminder.Type.UsesMileage() &&
			reminder.DueMileage != nil &&
			*reminder.DueMileage > 0

		if dateDue || mileageTracked {
			upcoming = append(upcoming, reminder)
		}
	}

	return upcoming, nil
}

// UpdateVehicleMileageAndCheckReminders records the reading and reports which mileage
// reminders it reached. Reached reminders are only logged, not notified or completed.
func (s *ReminderService) UpdateVehicleMileageAndCheckReminders(
	ctx context.Context,
	vehicleID uuid.UUID,
	mileage int,
	notes *string,
) (*MileageCheckResult, error) {
	vehicle, err := s.evaluator.RecordMileage(ctx, vehicleID, mileage, notes)
	if err != nil {
		return nil, err
	}

	triggered, err := s.evaluator.Evaluate(ctx, vehicle, mileage, s.logOnly)
	if err != nil {
		return nil, err
	}

	return &MileageCheckResult{
		MileageUpdated:     true,
		NewMileage:         mileage,
		TriggeredReminders: len(triggered),
		Reminders:          triggered,
	}, nil
}
