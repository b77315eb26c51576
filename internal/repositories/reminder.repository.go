package repositories

import (
	"context"
	. "vehiclecare/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderFilter narrows reminder queries. Nil fields are not applied.
type ReminderFilter struct {
	OwnerID   *uuid.UUID
	VehicleID *uuid.UUID
	Types     []ReminderType
	Completed *bool
}

type ReminderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, reminder *Reminder) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Reminder, error)
	Find(ctx context.Context, tx *gorm.DB, filter ReminderFilter) ([]*Reminder, error)
	Update(ctx context.Context, tx *gorm.DB, reminder *Reminder) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type reminderRepository struct {
	log logger.Logger
}

func NewReminderRepository() ReminderRepository {
	return &reminderRepository{
		log: logger.New("reminderRepository"),
	}
}

func (r *reminderRepository) Create(ctx context.Context, tx *gorm.DB, reminder *Reminder) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Omit("Vehicle").Create(reminder).Error; err != nil {
		return log.Err("failed to create reminder", err, "vehicleID", reminder.VehicleID)
	}

	return nil
}

// GetByID preloads the vehicle and returns nil, nil when the reminder does not exist.
func (r *reminderRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Reminder, error) {
	log := r.log.Function("GetByID")

	var reminder Reminder
	if err := tx.WithContext(ctx).Preload("Vehicle").First(&reminder, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, log.Err("failed to get reminder", err, "reminderID", id)
	}

	return &reminder, nil
}

// Find preloads each reminder's vehicle and orders by due date, undated reminders last.
func (r *reminderRepository) Find(
	ctx context.Context,
	tx *gorm.DB,
	filter ReminderFilter,
) ([]*Reminder, error) {
	log := r.log.Function("Find")

	query := tx.WithContext(ctx).Model(&Reminder{})

	if filter.OwnerID != nil {
		query = query.
			Joins("JOIN vehicles ON vehicles.id = reminders.vehicle_id").
			Where("vehicles.owner_id = ?", *filter.OwnerID)
	}
	if filter.VehicleID != nil {
		query = query.Where("reminders.vehicle_id = ?", *filter.VehicleID)
	}
	if len(filter.Types) > 0 {
		query = query.Where("reminders.type IN ?", filter.Types)
	}
	if filter.Completed != nil {
		query = query.Where("reminders.completed = ?", *filter.Completed)
	}

	var reminders []*Reminder
	if err := query.
		Preload("Vehicle").
		Order("reminders.due_date ASC NULLS LAST").
		Find(&reminders).Error; err != nil {
		return nil, log.Err("failed to find reminders", err)
	}

	return reminders, nil
}

func (r *reminderRepository) Update(ctx context.Context, tx *gorm.DB, reminder *Reminder) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Omit("Vehicle").Save(reminder).Error; err != nil {
		return log.Err("failed to update reminder", err, "reminderID", reminder.ID)
	}

	return nil
}

func (r *reminderRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := tx.WithContext(ctx).Delete(&Reminder{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete reminder", err, "reminderID", id)
	}

	return nil
}
