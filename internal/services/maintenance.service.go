package services

import (
	"context"
	"strings"
	"time"
	"vehiclecare/internal/apperrors"
	"vehiclecare/internal/models"
	"vehiclecare/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateMaintenanceInput struct {
	VehicleID     uuid.UUID              `json:"vehicleId"     validate:"required"`
	MechanicID    *uuid.UUID             `json:"mechanicId"`
	Type          models.MaintenanceType `json:"type"          validate:"required,oneof=PREVENTIVE CORRECTIVE INSPECTION"`
	Description   string                 `json:"description"   validate:"required,max=500"`
	ScheduledDate time.Time              `json:"scheduledDate" validate:"required"`
	Cost          *decimal.Decimal       `json:"cost"`
	Mileage       *int                   `json:"mileage"       validate:"omitempty,min=0"`
	Notes         *string                `json:"notes"`
}

type UpdateMaintenanceInput struct {
	MechanicID    *uuid.UUID                `json:"mechanicId"`
	Type          *models.MaintenanceType   `json:"type"          validate:"omitempty,oneof=PREVENTIVE CORRECTIVE INSPECTION"`
	Status        *models.MaintenanceStatus `json:"status"        validate:"omitempty,oneof=SCHEDULED IN_PROGRESS COMPLETED CANCELLED"`
	Description   *string                   `json:"description"   validate:"omitempty,max=500"`
	ScheduledDate *time.Time                `json:"scheduledDate"`
	CompletedDate *time.Time                `json:"completedDate"`
	Cost          *decimal.Decimal          `json:"cost"`
	Mileage       *int                      `json:"mileage"       validate:"omitempty,min=0"`
	Notes         *string                   `json:"notes"`
}

// MaintenanceService persists maintenance events and fans out their side effects. Each
// side effect runs after the primary write and on its own, so a failure in one never
// undoes the maintenance or skips the others.
type MaintenanceService struct {
	db           *gorm.DB
	maintenances repositories.MaintenanceRepository
	vehicles     repositories.VehicleRepository
	reminders    repositories.ReminderRepository
	expenses     repositories.ExpenseRepository
	notifier     Notifier
	now          clock
	log          logger.Logger
}

func NewMaintenanceService(
	db *gorm.DB,
	repos repositories.Repository,
	notifier Notifier,
) *MaintenanceService {
	return &MaintenanceService{
		db:           db,
		maintenances: repos.Maintenance,
		vehicles:     repos.Vehicle,
		reminders:    repos.Reminder,
		expenses:     repos.Expense,
		notifier:     notifier,
		now:          time.Now,
		log:          logger.New("maintenanceService"),
	}
}

func validateMaintenance(maintenance *models.Maintenance) error {
	if !maintenance.Type.IsValid() {
		return apperrors.Validation("unknown maintenance type " + string(maintenance.Type))
	}
	if !maintenance.Status.IsValid() {
		return apperrors.Validation("unknown maintenance status " + string(maintenance.Status))
	}
	if strings.TrimSpace(maintenance.Description) == "" {
		return apperrors.Validation("description is required")
	}
	if maintenance.ScheduledDate.IsZero() {
		return apperrors.Validation("scheduledDate is required")
	}
	if maintenance.Cost != nil && maintenance.Cost.IsNegative() {
		return apperrors.Validation("cost must not be negative")
	}
	return nil
}

func (s *MaintenanceService) Create(
	ctx context.Context,
	input CreateMaintenanceInput,
) (*models.Maintenance, error) {
	log := s.log.Function("Create")

	maintenance := &models.Maintenance{
		VehicleID:     input.VehicleID,
		MechanicID:    input.MechanicID,
		Type:          input.Type,
		Status:        models.MaintenanceStatusScheduled,
		Description:   input.Description,
		ScheduledDate: input.ScheduledDate,
		Cost:          input.Cost,
		Mileage:       input.Mileage,
		Notes:         input.Notes,
	}
	if err := validateMaintenance(maintenance); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.GetByID(ctx, s.db, input.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, apperrors.ErrVehicleNotFound
	}

	if err := s.maintenances.Create(ctx, s.db, maintenance); err != nil {
		return nil, err
	}

	runSideEffect(log, "maintenance scheduled notification", func() error {
		_, err := s.notifier.CreateNotification(ctx, CreateNotificationInput{
			UserID:   vehicle.OwnerID,
			Type:     models.NotificationTypeMaintenanceScheduled,
			Title:    "Maintenance scheduled: " + maintenance.Description,
			Message:  maintenance.Description + " for " + vehicle.DisplayName() + " on " + maintenance.ScheduledDate.Format("2006-01-02"),
			Data:     maintenanceData(maintenance),
			Channel:  models.NotificationChannelInApp,
			Category: models.NotificationCategoryMaintenance,
		})
		return err
	})

	runSideEffect(log, "maintenance reminder", func() error {
		return s.reminders.Create(ctx, s.db, &models.Reminder{
			VehicleID:     maintenance.VehicleID,
			MaintenanceID: &maintenance.ID,
			Description:   "Maintenance: " + maintenance.Description,
			Type:          models.ReminderTypeTimeBased,
			DueDate:       timePtr(reminderTimeOn(maintenance.ScheduledDate)),
		})
	})

	if maintenance.HasCost() {
		runSideEffect(log, "maintenance expense", func() error {
			return s.expenses.Create(ctx, s.db, &models.Expense{
				VehicleID:   maintenance.VehicleID,
				Description: maintenance.Description,
				Category:    models.ExpenseCategoryMaintenance,
				Amount:      *maintenance.Cost,
				Date:        maintenance.ScheduledDate,
			})
		})
	}

	return maintenance, nil
}

func reminderTimeOn(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), maintenanceReminderHour, 0, 0, 0, day.Location())
}

func maintenanceData(maintenance *models.Maintenance) map[string]any {
	return map[string]any{
		"maintenanceId": maintenance.ID.String(),
		"vehicleId":     maintenance.VehicleID.String(),
		"status":        maintenance.Status,
	}
}

func (s *MaintenanceService) Get(ctx context.Context, id uuid.UUID) (*models.Maintenance, error) {
	maintenance, err := s.maintenances.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if maintenance == nil {
		return nil, apperrors.ErrMaintenanceNotFound
	}
	return maintenance, nil
}

func (s *MaintenanceService) List(
	ctx context.Context,
	filter repositories.MaintenanceFilter,
) ([]*models.Maintenance, error) {
	return s.maintenances.List(ctx, s.db, filter)
}

// Update applies the patch. Moving to COMPLETED notifies the owner and, when the cost is
// new or changed, creates or refreshes the matching MAINTENANCE expense.
func (s *MaintenanceService) Update(
	ctx context.Context,
	id uuid.UUID,
	input UpdateMaintenanceInput,
) (*models.Maintenance, error) {
	log := s.log.Function("Update")

	maintenance, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previousCost := maintenance.Cost

	applyMaintenancePatch(maintenance, input)
	if err := validateMaintenance(maintenance); err != nil {
		return nil, err
	}

	completing := input.Status != nil && *input.Status == models.MaintenanceStatusCompleted
	if completing && maintenance.CompletedDate == nil {
		maintenance.CompletedDate = timePtr(s.now())
	}

	if err := s.maintenances.Update(ctx, s.db, maintenance); err != nil {
		return nil, err
	}

	if !completing {
		return maintenance, nil
	}

	vehicle := maintenance.Vehicle
	if vehicle == nil {
		vehicle, err = s.vehicles.GetByID(ctx, s.db, maintenance.VehicleID)
		if err != nil || vehicle == nil {
			log.Warn("vehicle not found for completed maintenance", "maintenanceID", id, "error", err)
			return maintenance, nil
		}
	}

	runSideEffect(log, "maintenance completed notification", func() error {
		_, err := s.notifier.CreateNotification(ctx, CreateNotificationInput{
			UserID:   vehicle.OwnerID,
			Type:     models.NotificationTypeMaintenanceCompleted,
			Title:    "Maintenance completed: " + maintenance.Description,
			Message:  maintenance.Description + " for " + vehicle.DisplayName() + " is complete",
			Data:     maintenanceData(maintenance),
			Channel:  models.NotificationChannelInApp,
			Category: models.NotificationCategoryMaintenance,
		})
		return err
	})

	if costChanged(previousCost, maintenance.Cost) {
		runSideEffect(log, "maintenance expense sync", func() error {
			return s.syncExpense(ctx, maintenance)
		})
	}

	return maintenance, nil
}

func applyMaintenancePatch(maintenance *models.Maintenance, input UpdateMaintenanceInput) {
	if input.MechanicID != nil {
		maintenance.MechanicID = input.MechanicID
	}
	if input.Type != nil {
		maintenance.Type = *input.Type
	}
	if input.Status != nil {
		maintenance.Status = *input.Status
	}
	if input.Description != nil {
		maintenance.Description = *input.Description
	}
	if input.ScheduledDate != nil {
		maintenance.ScheduledDate = *input.ScheduledDate
	}
	if input.CompletedDate != nil {
		maintenance.CompletedDate = input.CompletedDate
	}
	if input.Cost != nil {
		maintenance.Cost = input.Cost
	}
	if input.Mileage != nil {
		maintenance.Mileage = input.Mileage
	}
	if input.Notes != nil {
		maintenance.Notes = input.Notes
	}
}

// costChanged reports whether current is a positive cost that was absent, zero, or
// different before the update.
func costChanged(previous, current *decimal.Decimal) bool {
	if current == nil || !current.IsPositive() {
		return false
	}
	if previous == nil || previous.IsZero() {
		return true
	}
	return !previous.Equal(*current)
}

// syncExpense keeps at most one expense per (vehicle, description) for a maintenance.
func (s *MaintenanceService) syncExpense(ctx context.Context, maintenance *models.Maintenance) error {
	date := maintenance.ScheduledDate
	if maintenance.CompletedDate != nil {
		date = *maintenance.CompletedDate
	}

	existing, err := s.expenses.FindByVehicleAndDescription(
		ctx,
		s.db,
		maintenance.VehicleID,
		maintenance.Description,
	)
	if err != nil {
		return err
	}

	if existing != nil {
		existing.Amount = *maintenance.Cost
		existing.Date = date
		return s.expenses.Update(ctx, s.db, existing)
	}

	return s.expenses.Create(ctx, s.db, &models.Expense{
		VehicleID:   maintenance.VehicleID,
		Description: maintenance.Description,
		Category:    models.ExpenseCategoryMaintenance,
		Amount:      *maintenance.Cost,
		Date:        date,
	})
}

func (s *MaintenanceService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.maintenances.Delete(ctx, s.db, id)
}
