package notificationController

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
	Page       int
	Limit      int
	UnreadOnly bool
	Category   string
	Channel    string
}

type NotificationController struct {
	notificationService *services.NotificationService
	log                 logger.Logger
}

type NotificationControllerInterface interface {
	List(ctx context.Context, user *User, query ListQuery) (*NotificationPage, error)
	UnreadCount(ctx context.Context, user *User) (int64, error)
	MarkAsRead(ctx context.Context, user *User, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, user *User) (int64, error)
	Delete(ctx context.Context, user *User, notificationID uuid.UUID) error
	GetSettings(ctx context.Context, user *User) (*UserSettings, error)
	UpdateSettings(
		ctx context.Context,
		user *User,
		request services.UpdateSettingsInput,
	) (*UserSettings, error)
}

func New(services services.Service) NotificationControllerInterface {
	return &NotificationController{
		notificationService: services.Notification,
		log:                 logger.New("notificationController"),
	}
}

// BuildQuery clamps paging and validates the optional category and channel filters.
func BuildQuery(query ListQuery) (repositories.NotificationQuery, error) {
	page, limit := utils.ClampPage(query.Page, query.Limit)
	result := repositories.NotificationQuery{
		Page:       page,
		Limit:      limit,
		UnreadOnly: query.UnreadOnly,
	}

	if query.Category != "" {
		category := NotificationCategory(query.Category)
		if !category.IsValid() {
			return result, apperrors.Validation("unknown notification category " + query.Category)
		}
		result.Category = &category
	}

	if query.Channel != "" {
		channel := NotificationChannel(query.Channel)
		if !channel.IsValid() {
			return result, apperrors.Validation("unknown notification channel " + query.Channel)
		}
		result.Channel = &channel
	}

	return result, nil
}

func (nc *NotificationController) List(
	ctx context.Context,
	user *User,
	query ListQuery,
) (*NotificationPage, error) {
	notificationQuery, err := BuildQuery(query)
	if err != nil {
		return nil, err
	}
	return nc.notificationService.GetUserNotifications(ctx, user.ID, notificationQuery)
}

func (nc *NotificationController) UnreadCount(ctx context.Context, user *User) (int64, error) {
	return nc.notificationService.GetUnreadCount(ctx, user.ID)
}

func (nc *NotificationController) MarkAsRead(
	ctx context.Context,
	user *User,
	notificationID uuid.UUID,
) error {
	return nc.notificationService.MarkAsRead(ctx, notificationID, user.ID)
}

func (nc *NotificationController) MarkAllAsRead(ctx context.Context, user *User) (int64, error) {
	log := nc.log.Function("MarkAllAsRead")

	updated, err := nc.notificationService.MarkAllAsRead(ctx, user.ID)
	if err != nil {
		return 0, log.Err("failed to mark notifications as read", err, "userID", user.ID)
	}
	return updated, nil
}

func (nc *NotificationController) Delete(
	ctx context.Context,
	user *User,
	notificationID uuid.UUID,
) error {
	return nc.notificationService.DeleteNotification(ctx, notificationID, user.ID)
}

func (nc *NotificationController) GetSettings(ctx context.Context, user *User) (*UserSettings, error) {
	return nc.notificationService.GetNotificationSettings(ctx, user.ID)
}

func (nc *NotificationController) UpdateSettings(
	ctx context.Context,
	user *User,
	request services.UpdateSettingsInput,
) (*UserSettings, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	for category := range request.Categories {
		if !category.IsValid() {
			return nil, apperrors.Validation("unknown notification category " + string(category))
		}
	}
	return nc.notificationService.UpdateNotificationSettings(ctx, user.ID, request)
}
