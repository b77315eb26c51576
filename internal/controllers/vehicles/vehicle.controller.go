package vehicleController

import (
	"context"
	. "vehiclecare/internal/models"
	"vehiclecare/internal/services"
	"vehiclecare/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type MileageRequest struct {
	Mileage int     `json:"mileage" validate:"min=0"`
	Notes   *string `json:"notes"   validate:"omitempty,max=500"`
}

type VehicleController struct {
	vehicleService             *services.VehicleService
	reminderService            *services.ReminderService
	mileageNotificationService *services.MileageNotificationService
	log                        logger.Logger
}

type VehicleControllerInterface interface {
	Create(ctx context.Context, user *User, request services.CreateVehicleInput) (*Vehicle, error)
	Get(ctx context.Context, user *User, vehicleID uuid.UUID) (*Vehicle, error)
	List(ctx context.Context, user *User) ([]*Vehicle, error)
	Update(
		ctx context.Context,
		user *User,
		vehicleID uuid.UUID,
		request services.UpdateVehicleInput,
	) (*Vehicle, error)
	Delete(ctx context.Context, user *User, vehicleID uuid.UUID) error
	// UpdateMileage records a reading and notifies and completes the reminders it reaches.
	UpdateMileage(
		ctx context.Context,
		user *User,
		vehicleID uuid.UUID,
		request MileageRequest,
	) (*services.MileageUpdateResult, error)
	// CheckMileage records a reading and reports reached reminders without notifying.
	CheckMileage(
		ctx context.Context,
		user *User,
		vehicleID uuid.UUID,
		request MileageRequest,
	) (*services.MileageCheckResult, error)
	MileageHistory(
		ctx context.Context,
		user *User,
		vehicleID uuid.UUID,
		limit int,
	) ([]*MileageRecord, error)
}

func New(services services.Service) VehicleControllerInterface {
	return &VehicleController{
		vehicleService:             services.Vehicle,
		reminderService:            services.Reminder,
		mileageNotificationService: services.MileageNotification,
		log:                        logger.New("vehicleController"),
	}
}

func (vc *VehicleController) Create(
	ctx context.Context,
	user *User,
	request services.CreateVehicleInput,
) (*Vehicle, error) {
	log := vc.log.Function("Create")

	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	vehicle, err := vc.vehicleService.Create(ctx, user.ID, request)
	if err != nil {
		return nil, err
	}

	log.Info("Vehicle created", "vehicleID", vehicle.ID, "userID", user.ID)
	return vehicle, nil
}

func (vc *VehicleController) Get(ctx context.Context, user *User, vehicleID uuid.UUID) (*Vehicle, error) {
	return vc.vehicleService.EnsureOwnership(ctx, vehicleID, user.ID)
}

func (vc *VehicleController) List(ctx context.Context, user *User) ([]*Vehicle, error) {
	vehicles, err := vc.vehicleService.List(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if vehicles == nil {
		vehicles = []*Vehicle{}
	}
	return vehicles, nil
}

func (vc *VehicleController) Update(
	ctx context.Context,
	user *User,
	vehicleID uuid.UUID,
	request services.UpdateVehicleInput,
) (*Vehicle, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	if _, err := vc.vehicleService.EnsureOwnership(ctx, vehicleID, user.ID); err != nil {
		return nil, err
	}
	return vc.vehicleService.Update(ctx, vehicleID, request)
}

func (vc *VehicleController) Delete(ctx context.Context, user *User, vehicleID uuid.UUID) error {
	log := vc.log.Function("Delete")

	if _, err := vc.vehicleService.EnsureOwnership(ctx, vehicleID, user.ID); err != nil {
		return err
	}
	if err := vc.vehicleService.Delete(ctx, vehicleID); err != nil {
		return err
	}

	log.Info("Vehicle deleted", "vehicleID", vehicleID, "userID", user.ID)
	return nil
}

func (vc *VehicleController) UpdateMileage(
	ctx context.Context,
	user *User,
	vehicleID uuid.UUID,
	request MileageRequest,
) (*services.MileageUpdateResult, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	if _, err := vc.vehicleService.EnsureOwnership(ctx, vehicleID, user.ID); err != nil {
		return nil, err
	}
	return vc.mileageNotificationService.UpdateVehicleMileage(
		ctx,
		vehicleID,
		request.Mileage,
		request.Notes,
	)
}

func (vc *VehicleController) CheckMileage(
	ctx context.Context,
	user *User,
	vehicleID uuid.UUID,
	request MileageRequest,
) (*services.MileageCheckResult, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	if _, err := vc.vehicleService.EnsureOwnership(ctx, vehicleID, user.ID); err != nil {
		return nil, err
	}
	return vc.reminderService.UpdateVehicleMileageAndCheckReminders(
		ctx,
		vehicleID,
		request.Mileage,
		request.Notes,
	)
}

func (vc *VehicleController) MileageHistory(
	ctx context.Context,
	user *User,
	vehicleID uuid.UUID,
	limit int,
) ([]*MileageRecord, error) {
	if _, err := vc.vehicleService.EnsureOwnership(ctx, vehicleID, user.ID); err != nil {
		return nil, err
	}

	records, err := vc.vehicleService.MileageHistory(ctx, vehicleID, limit)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*MileageRecord{}
	}
	return records, nil
}
