package predictionController

import (
	"context"
	. "vehiclecare/internal/models"
	"vehiclecare/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type PredictionController struct {
	predictionService *services.PredictionService
	vehicleService    *services.VehicleService
	log               logger.Logger
}

type PredictionControllerInterface interface {
	// Get returns the requested prediction type, or both when predictionType is empty.
	Get(
		ctx context.Context,
		user *User,
		vehicleID uuid.UUID,
		predictionType string,
	) (map[PredictionType]*Prediction, error)
}

func New(services services.Service) PredictionControllerInterface {
	return &PredictionController{
		predictionService: services.Prediction,
		vehicleService:    services.Vehicle,
		log:               logger.New("predictionController"),
	}
}

func (pc *PredictionController) Get(
	ctx context.Context,
	user *User,
	vehicleID uuid.UUID,
	predictionType string,
) (map[PredictionType]*Prediction, error) {
	if _, err := pc.vehicleService.EnsureOwnership(ctx, vehicleID, user.ID); err != nil {
		return nil, err
	}

	types := []PredictionType{PredictionTypeExpense, PredictionTypeMaintenance}
	if predictionType != "" {
		types = []PredictionType{PredictionType(predictionType)}
	}

	predictions := make(map[PredictionType]*Prediction, len(types))
	for _, t := range types {
		prediction, err := pc.predictionService.GetPrediction(ctx, vehicleID, t)
		if err != nil {
			return nil, err
		}
		predictions[t] = prediction
	}

	return predictions, nil
}
