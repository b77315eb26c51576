package reminderController

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
	Type      string
	Completed *bool
}

type SmartReminderRequest struct {
	VehicleID uuid.UUID `json:"vehicleId" validate:"required"`
	Type      string    `json:"type"      validate:"required"`
}

type ReminderController struct {
	reminderService            *services.ReminderService
	mileageNotificationService *services.MileageNotificationService
	vehicleService             *services.VehicleService
	log                        logger.Logger
}

type ReminderControllerInterface interface {
	Create(ctx context.Context, user *User, request services.CreateReminderInput) (*Reminder, error)
	CreateMileageReminder(
		ctx context.Context,
		user *User,
		request services.CreateMileageReminderInput,
	) (*Reminder, error)
	CreateSmart(ctx context.Context, user *User, request SmartReminderRequest) (*Reminder, error)
	Get(ctx context.Context, user *User, reminderID uuid.UUID) (*Reminder, error)
	List(ctx context.Context, user *User, query ListQuery) ([]*Reminder, error)
	Upcoming(ctx context.Context, user *User, vehicleID *uuid.UUID, days int) ([]*Reminder, error)
	Update(
		ctx context.Context,
		user *User,
		reminderID uuid.UUID,
		request services.UpdateReminderInput,
	) (*Reminder, error)
	Complete(ctx context.Context, user *User, reminderID uuid.UUID) (*Reminder, error)
	Delete(ctx context.Context, user *User, reminderID uuid.UUID) error
	SmartTypes() []string
}

func New(services services.Service) ReminderControllerInterface {
	return &ReminderController{
		reminderService:            services.Reminder,
		mileageNotificationService: services.MileageNotification,
		vehicleService:             services.Vehicle,
		log:                        logger.New("reminderController"),
	}
}

func (rc *ReminderController) Create(
	ctx context.Context,
	user *User,
	request services.CreateReminderInput,
) (*Reminder, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	if _, err := rc.vehicleService.EnsureOwnership(ctx, request.VehicleID, user.ID); err != nil {
		return nil, err
	}
	return rc.reminderService.Create(ctx, request)
}

func (rc *ReminderController) CreateMileageReminder(
	ctx context.Context,
	user *User,
	request services.CreateMileageReminderInput,
) (*Reminder, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	if _, err := rc.vehicleService.EnsureOwnership(ctx, request.VehicleID, user.ID); err != nil {
		return nil, err
	}
	return rc.mileageNotificationService.CreateMileageReminder(ctx, request)
}

func (rc *ReminderController) CreateSmart(
	ctx context.Context,
	user *User,
	request SmartReminderRequest,
) (*Reminder, error) {
	log := rc.log.Function("CreateSmart")

	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	if _, err := rc.vehicleService.EnsureOwnership(ctx, request.VehicleID, user.ID); err != nil {
		return nil, err
	}

	reminder, err := rc.reminderService.CreateSmartReminder(ctx, request.VehicleID, request.Type)
	if err != nil {
		return nil, err
	}

	log.Info("Smart reminder created", "reminderID", reminder.ID, "template", request.Type)
	return reminder, nil
}

func (rc *ReminderController) owned(ctx context.Context, user *User, reminderID uuid.UUID) (*Reminder, error) {
	reminder, err := rc.reminderService.Get(ctx, reminderID)
	if err != nil {
		return nil, err
	}
	if _, err := rc.vehicleService.EnsureOwnership(ctx, reminder.VehicleID, user.ID); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (rc *ReminderController) Get(ctx context.Context, user *User, reminderID uuid.UUID) (*Reminder, error) {
	return rc.owned(ctx, user, reminderID)
}

func (rc *ReminderController) filter(
	ctx context.Context,
	user *User,
	vehicleID *uuid.UUID,
) (repositories.ReminderFilter, error) {
	filter := repositories.ReminderFilter{OwnerID: &user.ID}
	if vehicleID != nil {
		if _, err := rc.vehicleService.EnsureOwnership(ctx, *vehicleID, user.ID); err != nil {
			return filter, err
		}
		filter.VehicleID = vehicleID
	}
	return filter, nil
}

func (rc *ReminderController) List(ctx context.Context, user *User, query ListQuery) ([]*Reminder, error) {
	filter, err := rc.filter(ctx, user, query.VehicleID)
	if err != nil {
		return nil, err
	}

	if query.Type != "" {
		reminderType := ReminderType(query.Type)
		if !reminderType.IsValid() {
			return nil, apperrors.Validation("unknown reminder type " + query.Type)
		}
		filter.Types = []ReminderType{reminderType}
	}
	filter.Completed = query.Completed

	reminders, err := rc.reminderService.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if reminders == nil {
		reminders = []*Reminder{}
	}
	return reminders, nil
}

func (rc *ReminderController) Upcoming(
	ctx context.Context,
	user *User,
	vehicleID *uuid.UUID,
	days int,
) ([]*Reminder, error) {
	filter, err := rc.filter(ctx, user, vehicleID)
	if err != nil {
		return nil, err
	}
	return rc.reminderService.GetUpcomingReminders(ctx, filter, days)
}

func (rc *ReminderController) Update(
	ctx context.Context,
	user *User,
	reminderID uuid.UUID,
	request services.UpdateReminderInput,
) (*Reminder, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	if _, err := rc.owned(ctx, user, reminderID); err != nil {
		return nil, err
	}
	return rc.reminderService.Update(ctx, reminderID, request)
}

func (rc *ReminderController) Complete(
	ctx context.Context,
	user *User,
	reminderID uuid.UUID,
) (*Reminder, error) {
	if _, err := rc.owned(ctx, user, reminderID); err != nil {
		return nil, err
	}
	return rc.reminderService.MarkAsCompleted(ctx, reminderID)
}

func (rc *ReminderController) Delete(ctx context.Context, user *User, reminderID uuid.UUID) error {
	if _, err := rc.owned(ctx, user, reminderID); err != nil {
		return err
	}
	return rc.reminderService.Delete(ctx, reminderID)
}

func (rc *ReminderController) SmartTypes() []string {
	return services.SmartReminderTypes()
}
