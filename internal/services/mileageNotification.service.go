package services

import (
	"context"
	"vehiclecare/internal/apperrors"
	"vehiclecare/internal/models"
	"vehiclecare/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateMileageReminderInput struct {
	VehicleID   uuid.UUID `json:"vehicleId"   validate:"required"`
	Description string    `json:"description" validate:"required,max=500"`
	DueMileage  int       `json:"dueMileage"  validate:"min=1"`
}

type MileageUpdateResult struct {
	Vehicle            *models.Vehicle    `json:"vehicle"`
	TriggeredReminders []*models.Reminder `json:"triggeredReminders"`
}

// MileageNotificationService is the odometer path that notifies owners. Reminders it
// triggers are completed outright and never recur.
type MileageNotificationService struct {
	db        *gorm.DB
	vehicles  repositories.VehicleRepository
	reminders repositories.ReminderRepository
	evaluator *MileageReminderEvaluator
	strategy  TriggerStrategy
	log       logger.Logger
}

func NewMileageNotificationService(
	db *gorm.DB,
	repos repositories.Repository,
	evaluator *MileageReminderEvaluator,
	notifier Notifier,
) *MileageNotificationService {
	return &MileageNotificationService{
		db:        db,
		vehicles:  repos.Vehicle,
		reminders: repos.Reminder,
		evaluator: evaluator,
		strategy:  NewNotifyAndCompleteStrategy(db, repos.Reminder, notifier),
		log:       logger.New("mileageNotificationService"),
	}
}

func (s *MileageNotificationService) UpdateVehicleMileage(
	ctx context.Context,
	vehicleID uuid.UUID,
	newMileage int,
	notes *string,
) (*MileageUpdateResult, error) {
	vehicle, err := s.evaluator.RecordMileage(ctx, vehicleID, newMileage, notes)
	if err != nil {
		return nil, err
	}

	triggered, err := s.evaluator.Evaluate(ctx, vehicle, newMileage, s.strategy)
	if err != nil {
		return nil, err
	}

	return &MileageUpdateResult{
		Vehicle:            vehicle,
		TriggeredReminders: triggered,
	}, nil
}

func (s *MileageNotificationService) CheckMileageBasedReminders(
	ctx context.Context,
	vehicleID uuid.UUID,
	currentMileage int,
) ([]*models.Reminder, error) {
	vehicle, err := s.vehicles.GetByID(ctx, s.db, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, apperrors.ErrVehicleNotFound
	}

	return s.evaluator.Evaluate(ctx, vehicle, currentMileage, s.strategy)
}

func (s *MileageNotificationService) CreateMileageReminder(
	ctx context.Context,
	input CreateMileageReminderInput,
) (*models.Reminder, error) {
	log := s.log.Function("CreateMileageReminder")

	vehicle, err := s.vehicles.GetByID(ctx, s.db, input.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, apperrors.ErrVehicleNotFound
	}

	reminder := &models.Reminder{
		VehicleID:   input.VehicleID,
		Description: input.Description,
		Type:        models.ReminderTypeMileageBased,
		DueMileage:  intPtr(input.DueMileage),
	}
	if err := validateReminder(reminder); err != nil {
		return nil, err
	}

	if err := s.reminders.Create(ctx, s.db, reminder); err != nil {
		return nil, err
	}

	log.Info("Created mileage reminder", "reminderID", reminder.ID, "dueMileage", input.DueMileage)
	return reminder, nil
}

// CalculateNextMaintenanceMileage rounds currentMileage up to the next multiple of
// intervalKm; an exact multiple is returned unchanged.
func CalculateNextMaintenanceMileage(currentMileage, intervalKm int) int {
	if intervalKm <= 0 {
		return currentMileage
	}
	if currentMileage <= 0 {
		return 0
	}
	return ((currentMileage + intervalKm - 1) / intervalKm) * intervalKm
}
