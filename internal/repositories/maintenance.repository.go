package repositories

import (
	"context"
	"time"
	. "vehiclecare/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaintenanceFilter struct {
	OwnerID   uuid.UUID
	VehicleID *uuid.UUID
	Status    *MaintenanceStatus
}

type MaintenanceRepository interface {
	Create(ctx context.Context, tx *gorm.DB, maintenance *Maintenance) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Maintenance, error)
	List(ctx context.Context, tx *gorm.DB, filter MaintenanceFilter) ([]*Maintenance, error)
	Update(ctx context.Context, tx *gorm.DB, maintenance *Maintenance) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	ListOverdue(ctx context.Context, tx *gorm.DB, now time.Time) ([]*Maintenance, error)
	ListCompletedByVehicle(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) ([]*Maintenance, error)
	CountCompletedForOwnerBetween(
		ctx context.Context,
		tx *gorm.DB,
		ownerID uuid.UUID,
		start, end time.Time,
	) (int64, error)
}

type maintenanceRepository struct {
	log logger.Logger
}

func NewMaintenanceRepository() MaintenanceRepository {
	return &maintenanceRepository{
		log: logger.New("maintenanceRepository"),
	}
}

func (r *maintenanceRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	maintenance *Maintenance,
) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Omit("Vehicle", "Mechanic").Create(maintenance).Error; err != nil {
		return log.Err("failed to create maintenance", err, "vehicleID", maintenance.VehicleID)
	}

	return nil
}

// GetByID preloads the vehicle and returns nil, nil when the maintenance does not exist.
func (r *maintenanceRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Maintenance, error) {
	log := r.log.Function("GetByID")

	var maintenance Maintenance
	if err := tx.WithContext(ctx).
		Preload("Vehicle").
		First(&maintenance, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, log.Err("failed to get maintenance", err, "maintenanceID", id)
	}

	return &maintenance, nil
}

func (r *maintenanceRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter MaintenanceFilter,
) ([]*Maintenance, error) {
	log := r.log.Function("List")

	query := tx.WithContext(ctx).
		Joins("JOIN vehicles ON vehicles.id = maintenances.vehicle_id").
		Where("vehicles.owner_id = ?", filter.OwnerID)

	if filter.VehicleID != nil {
		query = query.Where("maintenances.vehicle_id = ?", *filter.VehicleID)
	}
	if filter.Status != nil {
		query = query.Where("maintenances.status = ?", *filter.Status)
	}

	var maintenances []*Maintenance
	if err := query.
		Preload("Vehicle").
		Order("maintenances.scheduled_date DESC").
		Find(&maintenances).Error; err != nil {
		return nil, log.Err("failed to list maintenances", err, "ownerID", filter.OwnerID)
	}

	return maintenances, nil
}

func (r *maintenanceRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	maintenance *Maintenance,
) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Omit("Vehicle", "Mechanic").Save(maintenance).Error; err != nil {
		return log.Err("failed to update maintenance", err, "maintenanceID", maintenance.ID)
	}

	return nil
}

func (r *maintenanceRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := tx.WithContext(ctx).Delete(&Maintenance{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete maintenance", err, "maintenanceID", id)
	}

	return nil
}

// ListOverdue returns SCHEDULED maintenances whose scheduled date has passed.
func (r *maintenanceRepository) ListOverdue(
	ctx context.Context,
	tx *gorm.DB,
	now time.Time,
) ([]*Maintenance, error) {
	log := r.log.Function("ListOverdue")

	var maintenances []*Maintenance
	if err := tx.WithContext(ctx).
		Preload("Vehicle").
		Where("status = ? AND scheduled_date < ?", MaintenanceStatusScheduled, now).
		Find(&maintenances).Error; err != nil {
		return nil, log.Err("failed to list overdue maintenances", err)
	}

	return maintenances, nil
}

// ListCompletedByVehicle is ordered oldest completion first.
func (r *maintenanceRepository) ListCompletedByVehicle(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
) ([]*Maintenance, error) {
	log := r.log.Function("ListCompletedByVehicle")

	var maintenances []*Maintenance
	if err := tx.WithContext(ctx).
		Where("vehicle_id = ? AND status = ? AND completed_date IS NOT NULL", vehicleID, MaintenanceStatusCompleted).
		Order("completed_date ASC").
		Find(&maintenances).Error; err != nil {
		return nil, log.Err("failed to list completed maintenances", err, "vehicleID", vehicleID)
	}

	return maintenances, nil
}

func (r *maintenanceRepository) CountCompletedForOwnerBetween(
	ctx context.Context,
	tx *gorm.DB,
	ownerID uuid.UUID,
	start, end time.Time,
) (int64, error) {
	log := r.log.Function("CountCompletedForOwnerBetween")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&Maintenance{}).
		Joins("JOIN vehicles ON vehicles.id = maintenances.vehicle_id").
		Where("vehicles.owner_id = ?", ownerID).
		Where("maintenances.status = ?", MaintenanceStatusCompleted).
		Where("maintenances.completed_date >= ? AND maintenances.completed_date < ?", start, end).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count completed maintenances", err, "ownerID", ownerID)
	}

	return count, nil
}
