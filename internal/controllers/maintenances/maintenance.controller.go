package maintenanceController

import (
	"context"
	"vehiclecare/internal/apperrors"
	. "vehiclecare/internal/models"
	"vehiclecare/internal/repositories"
	"vehiclecare/internal/services"
	"vehiclecare/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type ListQuery struct {
	VehicleID *uuid.UUID
	Status    string
}

type MaintenanceController struct {
	maintenanceService *services.MaintenanceService
	vehicleService     *services.VehicleService
	log                logger.Logger
}

type MaintenanceControllerInterface interface {
	Create(
		ctx context.Context,
		user *User,
		request services.CreateMaintenanceInput,
	) (*Maintenance, error)
	Get(ctx context.Context, user *User, maintenanceID uuid.UUID) (*Maintenance, error)
	List(ctx context.Context, user *User, query ListQuery) ([]*Maintenance, error)
	Update(
		ctx context.Context,
		user *User,
		maintenanceID uuid.UUID,
		request services.UpdateMaintenanceInput,
	) (*Maintenance, error)
	Delete(ctx context.Context, user *User, maintenanceID uuid.UUID) error
}

func New(services services.Service) MaintenanceControllerInterface {
	return &MaintenanceController{
		maintenanceService: services.Maintenance,
		vehicleService:     services.Vehicle,
		log:                logger.New("maintenanceController"),
	}
}

func (mc *MaintenanceController) Create(
	ctx context.Context,
	user *User,
	request services.CreateMaintenanceInput,
) (*Maintenance, error) {
	log := mc.log.Function("Create")

	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	if _, err := mc.vehicleService.EnsureOwnership(ctx, request.VehicleID, user.ID); err != nil {
		return nil, err
	}

	maintenance, err := mc.maintenanceService.Create(ctx, request)
	if err != nil {
		return nil, err
	}

	log.Info("Maintenance scheduled", "maintenanceID", maintenance.ID, "vehicleID", request.VehicleID)
	return maintenance, nil
}

// owned loads the maintenance and checks the caller owns its vehicle.
func (mc *MaintenanceController) owned(
	ctx context.Context,
	user *User,
	maintenanceID uuid.UUID,
) (*Maintenance, error) {
	maintenance, err := mc.maintenanceService.Get(ctx, maintenanceID)
	if err != nil {
		return nil, err
	}
	if _, err := mc.vehicleService.EnsureOwnership(ctx, maintenance.VehicleID, user.ID); err != nil {
		return nil, err
	}
	return maintenance, nil
}

func (mc *MaintenanceController) Get(
	ctx context.Context,
	user *User,
	maintenanceID uuid.UUID,
) (*Maintenance, error) {
	return mc.owned(ctx, user, maintenanceID)
}

func (mc *MaintenanceController) List(
	ctx context.Context,
	user *User,
	query ListQuery,
) ([]*Maintenance, error) {
	filter := repositories.MaintenanceFilter{OwnerID: user.ID}

	if query.VehicleID != nil {
		if _, err := mc.vehicleService.EnsureOwnership(ctx, *query.VehicleID, user.ID); err != nil {
			return nil, err
		}
		filter.VehicleID = query.VehicleID
	}

	if query.Status != "" {
		status := MaintenanceStatus(query.Status)
		if !status.IsValid() {
			return nil, apperrors.Validation("unknown maintenance status " + query.Status)
		}
		filter.Status = &status
	}

	maintenances, err := mc.maintenanceService.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if maintenances == nil {
		maintenances = []*Maintenance{}
	}
	return maintenances, nil
}

func (mc *MaintenanceController) Update(
	ctx context.Context,
	user *User,
	maintenanceID uuid.UUID,
	request services.UpdateMaintenanceInput,
) (*Maintenance, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	if _, err := mc.owned(ctx, user, maintenanceID); err != nil {
		return nil, err
	}
	return mc.maintenanceService.Update(ctx, maintenanceID, request)
}

func (mc *MaintenanceController) Delete(ctx context.Context, user *User, maintenanceID uuid.UUID) error {
	if _, err := mc.owned(ctx, user, maintenanceID); err != nil {
		return err
	}
	return mc.maintenanceService.Delete(ctx, maintenanceID)
}
