package services

import (
	"context"
	"html"
	"vehiclecare/internal/models"
	"vehiclecare/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateNotificationInput struct {
	UserID   uuid.UUID
	Type     models.NotificationType
	Title    string
	Message  string
	Data     map[string]any
	Channel  models.NotificationChannel
	Category models.NotificationCategory
}

type ChannelSettingsPatch struct {
	InApp *bool `json:"inApp"`
	Email *bool `json:"email"`
	Push  *bool `json:"push"`
}

type AdvancedSettingsPatch struct {
	MaintenanceReminderDays *int     `json:"maintenanceReminderDays" validate:"omitempty,min=1,max=365"`
	MileageAlertThreshold   *int     `json:"mileageAlertThreshold"   validate:"omitempty,min=0"`
	MonthlyExpenseLimit     *float64 `json:"monthlyExpenseLimit"     validate:"omitempty,min=0"`
	// ExpenseAlertLimit is the older name of MonthlyExpenseLimit, which wins when both are set.
	ExpenseAlertLimit *float64 `json:"expenseAlertLimit" validate:"omitempty,min=0"`
}

func (p AdvancedSettingsPatch) expenseLimit() *float64 {
	if p.MonthlyExpenseLimit != nil {
		return p.MonthlyExpenseLimit
	}
	return p.ExpenseAlertLimit
}

// UpdateSettingsInput is a partial update; nil fields keep their stored value.
type UpdateSettingsInput struct {
	Channels   *ChannelSettingsPatch                                `json:"channels"`
	Categories map[models.NotificationCategory]ChannelSettingsPatch `json:"categories"`
	Advanced   *AdvancedSettingsPatch                               `json:"advancedSettings" validate:"omitempty"`
}

type NotificationService struct {
	db            *gorm.DB
	notifications repositories.NotificationRepository
	settings      repositories.UserSettingsRepository
	users         repositories.UserRepository
	email         EmailSender
	events        EventPublisher
	log           logger.Logger
}

func NewNotificationService(
	db *gorm.DB,
	repos repositories.Repository,
	email EmailSender,
	events EventPublisher,
) *NotificationService {
	return &NotificationService{
		db:            db,
		notifications: repos.Notification,
		settings:      repos.UserSettings,
		users:         repos.User,
		email:         email,
		events:        events,
		log:           logger.New("notificationService"),
	}
}

// CreateNotification persists a notification unless the recipient's settings disable
// the channel or the category on that channel, in which case it returns nil, nil.
func (s *NotificationService) CreateNotification(
	ctx context.Context,
	input CreateNotificationInput,
) (*models.Notification, error) {
	log := s.log.Function("CreateNotification")

	channel := input.Channel
	if channel == "" {
		channel = models.NotificationChannelInApp
	}
	category := input.Category
	if category == "" {
		category = models.NotificationCategorySystem
	}

	settings, err := s.GetNotificationSettings(ctx, input.UserID)
	if err != nil {
		return nil, log.Err("failed to load notification settings", err, "userID", input.UserID)
	}

	if !settings.Allows(channel, category) {
		log.Debug(
			"Notification suppressed by user settings",
			"userID", input.UserID,
			"channel", channel,
			"category", category,
			"type", input.Type,
		)
		return nil, nil
	}

	notification := &models.Notification{
		UserID:   input.UserID,
		Type:     input.Type,
		Title:    input.Title,
		Message:  input.Message,
		Data:     datatypes.JSONMap(input.Data),
		Read:     false,
		Channel:  channel,
		Category: category,
	}
	if err := s.notifications.Create(ctx, s.db, notification); err != nil {
		return nil, err
	}

	if channel == models.NotificationChannelEmail {
		s.dispatchEmail(ctx, notification)
	}

	if s.events != nil {
		if err := s.events.PublishNotificationCreated(notification.UserID, map[string]any{
			"id":       notification.ID.String(),
			"type":     notification.Type,
			"title":    notification.Title,
			"message":  notification.Message,
			"category": notification.Category,
			"channel":  notification.Channel,
		}); err != nil {
			log.Warn("failed to publish notification event", "notificationID", notification.ID, "error", err)
		}
	}

	return notification, nil
}

func (s *NotificationService) dispatchEmail(ctx context.Context, notification *models.Notification) {
	log := s.log.Function("dispatchEmail")

	if s.email == nil {
		return
	}

	user, err := s.users.GetByID(ctx, s.db, notification.UserID)
	if err != nil || user == nil {
		log.Warn("recipient not found for email notification", "userID", notification.UserID, "error", err)
		return
	}

	body := "<h2>" + html.EscapeString(notification.Title) + "</h2><p>" +
		html.EscapeString(notification.Message) + "</p>"
	if !s.email.SendEmail(ctx, user.Email, notification.Title, body, notification.Message) {
		log.Warn("email notification not delivered", "notificationID", notification.ID)
	}
}

func (s *NotificationService) GetUserNotifications(
	ctx context.Context,
	userID uuid.UUID,
	query repositories.NotificationQuery,
) (*models.NotificationPage, error) {
	notifications, total, err := s.notifications.List(ctx, s.db, userID, query)
	if err != nil {
		return nil, err
	}

	unread, err := s.notifications.CountUnread(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}

	return &models.NotificationPage{
		Notifications: notifications,
		Total:         total,
		UnreadCount:   unread,
		Page:          query.Page,
		Limit:         query.Limit,
	}, nil
}

// MarkAsRead is a silent no-op for ids the user does not own.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	rows, err := s.notifications.MarkAsRead(ctx, s.db, id, userID)
	if err != nil {
		return err
	}

	if rows == 0 {
		s.log.Function("MarkAsRead").Debug("No notification updated", "notificationID", id, "userID", userID)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifications.MarkAllAsRead(ctx, s.db, userID)
}

// DeleteNotification is a silent no-op for ids the user does not own.
func (s *NotificationService) DeleteNotification(ctx context.Context, id, userID uuid.UUID) error {
	rows, err := s.notifications.Delete(ctx, s.db, id, userID)
	if err != nil {
		return err
	}

	if rows == 0 {
		s.log.Function("DeleteNotification").
			Debug("No notification deleted", "notificationID", id, "userID", userID)
	}
	return nil
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifications.CountUnread(ctx, s.db, userID)
}

// GetNotificationSettings returns the stored settings, creating the defaults on first
// access. Concurrent first calls converge on a single row.
func (s *NotificationService) GetNotificationSettings(
	ctx context.Context,
	userID uuid.UUID,
) (*models.UserSettings, error) {
	log := s.log.Function("GetNotificationSettings")

	settings, err := s.settings.GetByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	defaults := models.DefaultUserSettings(userID)
	created, err := s.settings.Create(ctx, s.db, defaults)
	if err != nil {
		return nil, err
	}
	if created {
		log.Info("Created default notification settings", "userID", userID)
		return defaults, nil
	}

	settings, err = s.settings.GetByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, log.Error("settings missing after conflicting create", "userID", userID)
	}
	return settings, nil
}

func (s *NotificationService) UpdateNotificationSettings(
	ctx context.Context,
	userID uuid.UUID,
	input UpdateSettingsInput,
) (*models.UserSettings, error) {
	settings, err := s.GetNotificationSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Channels != nil {
		channels := settings.Channels.Data()
		mergeToggle(&channels.InApp, input.Channels.InApp)
		mergeToggle(&channels.Email, input.Channels.Email)
		mergeToggle(&channels.Push, input.Channels.Push)
		settings.Channels = datatypes.NewJSONType(channels)
	}

	if len(input.Categories) > 0 {
		categories := settings.Categories.Data()
		if categories == nil {
			categories = models.DefaultCategorySettings()
		}
		for category, patch := range input.Categories {
			toggles, ok := categories[category]
			if !ok {
				toggles = models.ChannelToggles{InApp: true}
			}
			mergeToggle(&toggles.InApp, patch.InApp)
			mergeToggle(&toggles.Email, patch.Email)
			mergeToggle(&toggles.Push, patch.Push)
			categories[category] = toggles
		}
		settings.Categories = datatypes.NewJSONType(categories)
	}

	if input.Advanced != nil {
		advanced := settings.Advanced.Data()
		if input.Advanced.MaintenanceReminderDays != nil {
			advanced.MaintenanceReminderDays = *input.Advanced.MaintenanceReminderDays
		}
		if input.Advanced.MileageAlertThreshold != nil {
			advanced.MileageAlertThreshold = *input.Advanced.MileageAlertThreshold
		}
		if limit := input.Advanced.expenseLimit(); limit != nil {
			advanced.MonthlyExpenseLimit = *limit
		}
		settings.Advanced = datatypes.NewJSONType(advanced)
	}

	if err := s.settings.Update(ctx, s.db, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

func mergeToggle(target *bool, patch *bool) {
	if patch != nil {
		*target = *patch
	}
}
