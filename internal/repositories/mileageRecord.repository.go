package repositories

import (
	"context"
	. "vehiclecare/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MileageRecordRepository interface {
	Create(ctx context.Context, tx *gorm.DB, record *MileageRecord) error
	// ListByVehicle returns the newest records first; limit <= 0 returns all.
	ListByVehicle(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID, limit int) ([]*MileageRecord, error)
}

type mileageRecordRepository struct {
	log logger.Logger
}

func NewMileageRecordRepository() MileageRecordRepository {
	return &mileageRecordRepository{
		log: logger.New("mileageRecordRepository"),
	}
}

func (r *mileageRecordRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	record *MileageRecord,
) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(record).Error; err != nil {
		return log.Err("failed to create mileage record", err, "vehicleID", record.VehicleID)
	}

	return nil
}

func (r *mileageRecordRepository) ListByVehicle(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
	limit int,
) ([]*MileageRecord, error) {
	log := r.log.Function("ListByVehicle")

	query := tx.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []*MileageRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, log.Err("failed to list mileage records", err, "vehicleID", vehicleID)
	}

	return records, nil
}
