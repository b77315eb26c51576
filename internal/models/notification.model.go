package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationChannel string

const (
	NotificationChannelInApp NotificationChannel = "IN_APP"
	NotificationChannelEmail NotificationChannel = "EMAIL"
	NotificationChannelPush  NotificationChannel = "PUSH"
)

func (c NotificationChannel) IsValid() bool {
	switch c {
	case NotificationChannelInApp, NotificationChannelEmail, NotificationChannelPush:
		return true
	}
	return false
}

type NotificationCategory string

const (
	NotificationCategoryMaintenance NotificationCategory = "maintenance"
	NotificationCategoryReminder    NotificationCategory = "reminder"
	NotificationCategoryExpense     NotificationCategory = "expense"
	NotificationCategoryMileage     NotificationCategory = "mileage"
	NotificationCategoryPrediction  NotificationCategory = "prediction"
	NotificationCategoryReport      NotificationCategory = "report"
	NotificationCategorySystem      NotificationCategory = "system"
)

var NotificationCategories = []NotificationCategory{
	NotificationCategoryMaintenance,
	NotificationCategoryReminder,
	NotificationCategoryExpense,
	NotificationCategoryMileage,
	NotificationCategoryPrediction,
	NotificationCategoryReport,
	NotificationCategorySystem,
}

func (c NotificationCategory) IsValid() bool {
	for _, category := range NotificationCategories {
		if c == category {
			return true
		}
	}
	return false
}

type NotificationType string

const (
	NotificationTypeReminderCreated      NotificationType = "REMINDER_CREATED"
	NotificationTypeReminderCompleted    NotificationType = "REMINDER_COMPLETED"
	NotificationTypeReminderDue          NotificationType = "REMINDER_DUE"
	NotificationTypeMileageReminder      NotificationType = "MILEAGE_REMINDER"
	NotificationTypeMaintenanceScheduled NotificationType = "MAINTENANCE_SCHEDULED"
	NotificationTypeMaintenanceCompleted NotificationType = "MAINTENANCE_COMPLETED"
	NotificationTypeMaintenanceOverdue   NotificationType = "MAINTENANCE_OVERDUE"
	NotificationTypeMileageAlert         NotificationType = "MILEAGE_ALERT"
	NotificationTypeExpenseLimit         NotificationType = "EXPENSE_LIMIT"
	NotificationTypeWeeklyReport         NotificationType = "WEEKLY_REPORT"
)

type Notification struct {
	BaseUUIDModel
	UserID   uuid.UUID            `gorm:"type:uuid;not null;index:idx_notifications_user_read" json:"userId"`
	Type     NotificationType     `gorm:"type:text;not null"                                   json:"type"`
	Title    string               `gorm:"type:text;not null"                                   json:"title"`
	Message  string               `gorm:"type:text;not null"                                   json:"message"`
	Data     datatypes.JSONMap    `gorm:"type:jsonb"                                           json:"data,omitempty"`
	Read     bool                 `gorm:"type:bool;not null;default:false;index:idx_notifications_user_read" json:"read"`
	Channel  NotificationChannel  `gorm:"type:text;not null;default:'IN_APP'"                  json:"channel"`
	Category NotificationCategory `gorm:"type:text;not null;default:'system'"                  json:"category"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	Total         int64          `json:"total"`
	UnreadCount   int64          `json:"unreadCount"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
}
