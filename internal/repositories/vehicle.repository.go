package repositories

import (
	"context"
	. "vehiclecare/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Vehicle, error)
	GetByOwnerAndPlate(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, plate string) (*Vehicle, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*Vehicle, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*Vehicle, error)
	Update(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error
	UpdateMileage(ctx context.Context, tx *gorm.DB, id uuid.UUID, mileage int) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type vehicleRepository struct {
	log logger.Logger
}

func NewVehicleRepository() VehicleRepository {
	return &vehicleRepository{
		log: logger.New("vehicleRepository"),
	}
}

func (r *vehicleRepository) Create(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(vehicle).Error; err != nil {
		return log.Err("failed to create vehicle", err, "ownerID", vehicle.OwnerID)
	}

	return nil
}

// GetByID returns nil, nil when the vehicle does not exist.
func (r *vehicleRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Vehicle, error) {
	log := r.log.Function("GetByID")

	var vehicle Vehicle
	if err := tx.WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, log.Err("failed to get vehicle", err, "vehicleID", id)
	}

	return &vehicle, nil
}

func (r *vehicleRepository) GetByOwnerAndPlate(
	ctx context.Context,
	tx *gorm.DB,
	ownerID uuid.UUID,
	plate string,
) (*Vehicle, error) {
	log := r.log.Function("GetByOwnerAndPlate")

	var vehicle Vehicle
	err := tx.WithContext(ctx).
		Where("owner_id = ? AND license_plate = ?", ownerID, plate).
		First(&vehicle).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, log.Err("failed to get vehicle by plate", err, "ownerID", ownerID)
	}

	return &vehicle, nil
}

func (r *vehicleRepository) ListByOwner(
	ctx context.Context,
	tx *gorm.DB,
	ownerID uuid.UUID,
) ([]*Vehicle, error) {
	log := r.log.Function("ListByOwner")

	var vehicles []*Vehicle
	if err := tx.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&vehicles).Error; err != nil {
		return nil, log.Err("failed to list vehicles", err, "ownerID", ownerID)
	}

	return vehicles, nil
}

func (r *vehicleRepository) ListAll(ctx context.Context, tx *gorm.DB) ([]*Vehicle, error) {
	log := r.log.Function("ListAll")

	var vehicles []*Vehicle
	if err := tx.WithContext(ctx).Find(&vehicles).Error; err != nil {
		return nil, log.Err("failed to list all vehicles", err)
	}

	return vehicles, nil
}

func (r *vehicleRepository) Update(ctx context.Context, tx *gorm.DB, vehicle *Vehicle) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(vehicle).Error; err != nil {
		return log.Err("failed to update vehicle", err, "vehicleID", vehicle.ID)
	}

	return nil
}

func (r *vehicleRepository) UpdateMileage(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	mileage int,
) error {
	log := r.log.Function("UpdateMileage")

	if err := tx.WithContext(ctx).
		Model(&Vehicle{}).
		Where("id = ?", id).
		Update("mileage", mileage).Error; err != nil {
		return log.Err("failed to update vehicle mileage", err, "vehicleID", id, "mileage", mileage)
	}

	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := tx.WithContext(ctx).Delete(&Vehicle{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete vehicle", err, "vehicleID", id)
	}

	return nil
}
