package repositories

import (
	"context"
	"time"
	. "vehiclecare/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PredictionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, prediction *Prediction) error
	// GetValid returns the newest unexpired prediction, or nil, nil.
	GetValid(
		ctx context.Context,
		tx *gorm.DB,
		vehicleID uuid.UUID,
		predictionType PredictionType,
		now time.Time,
	) (*Prediction, error)
	DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
}

type predictionRepository struct {
	log logger.Logger
}

func NewPredictionRepository() PredictionRepository {
	return &predictionRepository{
		log: logger.New("predictionRepository"),
	}
}

func (r *predictionRepository) Create(ctx context.Context, tx *gorm.DB, prediction *Prediction) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(prediction).Error; err != nil {
		return log.Err(
			"failed to create prediction",
			err,
			"vehicleID", prediction.VehicleID,
			"type", prediction.Type,
		)
	}

	return nil
}

func (r *predictionRepository) GetValid(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
	predictionType PredictionType,
	now time.Time,
) (*Prediction, error) {
	log := r.log.Function("GetValid")

	var prediction Prediction
	err := tx.WithContext(ctx).
		Where("vehicle_id = ? AND type = ? AND valid_until > ?", vehicleID, predictionType, now).
		Order("created_at DESC").
		First(&prediction).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, log.Err("failed to get prediction", err, "vehicleID", vehicleID, "type", predictionType)
	}

	return &prediction, nil
}

func (r *predictionRepository) DeleteExpired(
	ctx context.Context,
	tx *gorm.DB,
	now time.Time,
) (int64, error) {
	log := r.log.Function("DeleteExpired")

	result := tx.WithContext(ctx).Where("valid_until <= ?", now).Delete(&Prediction{})
	if result.Error != nil {
		return 0, log.Err("failed to delete expired predictions", result.Error)
	}

	return result.RowsAffected, nil
}
