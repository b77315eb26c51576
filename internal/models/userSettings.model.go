package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChannelSettings struct {
	InApp bool `json:"inApp"`
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

type ChannelToggles struct {
	InApp bool `json:"inApp"`
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

type AdvancedSettings struct {
	MaintenanceReminderDays int     `json:"maintenanceReminderDays"`
	MileageAlertThreshold   int     `json:"mileageAlertThreshold"`
	MonthlyExpenseLimit     float64 `json:"monthlyExpenseLimit"` // 0 disables the limit check
}

// UserSettings holds per-user notification preferences. Rows are created lazily with
// DefaultUserSettings on first access.
type UserSettings struct {
	BaseUUIDModel
	UserID     uuid.UUID                                                   `gorm:"type:uuid;not null;uniqueIndex:idx_user_settings_user" json:"userId"`
	Channels   datatypes.JSONType[ChannelSettings]                         `gorm:"type:jsonb;not null"                                   json:"channels"`
	Categories datatypes.JSONType[map[NotificationCategory]ChannelToggles] `gorm:"type:jsonb;not null"                                   json:"categories"`
	Advanced   datatypes.JSONType[AdvancedSettings]                        `gorm:"type:jsonb;not null"                                   json:"advancedSettings"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (us *UserSettings) BeforeCreate(tx *gorm.DB) (err error) {
	if us.UserID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return nil
}

func DefaultChannelSettings() ChannelSettings {
	return ChannelSettings{InApp: true, Email: true, Push: false}
}

func DefaultCategorySettings() map[NotificationCategory]ChannelToggles {
	categories := make(map[NotificationCategory]ChannelToggles, len(NotificationCategories))
	for _, category := range NotificationCategories {
		categories[category] = ChannelToggles{InApp: true, Email: false, Push: false}
	}
	return categories
}

func DefaultAdvancedSettings() AdvancedSettings {
	return AdvancedSettings{
		MaintenanceReminderDays: 7,
		MileageAlertThreshold:   1000,
		MonthlyExpenseLimit:     0,
	}
}

func DefaultUserSettings(userID uuid.UUID) *UserSettings {
	return &UserSettings{
		UserID:     userID,
		Channels:   datatypes.NewJSONType(DefaultChannelSettings()),
		Categories: datatypes.NewJSONType(DefaultCategorySettings()),
		Advanced:   datatypes.NewJSONType(DefaultAdvancedSettings()),
	}
}

// Allows reports whether a notification on channel for category passes both the global
// channel toggle and the per-category toggle. Unknown categories fall back to the
// channel toggle alone.
func (us *UserSettings) Allows(channel NotificationChannel, category NotificationCategory) bool {
	channels := us.Channels.Data()
	if !channels.enabled(channel) {
		return false
	}

	toggles, ok := us.Categories.Data()[category]
	if !ok {
		return true
	}
	return toggles.enabled(channel)
}

func (c ChannelSettings) enabled(channel NotificationChannel) bool {
	switch channel {
	case NotificationChannelInApp:
		return c.InApp
	case NotificationChannelEmail:
		return c.Email
	case NotificationChannelPush:
		return c.Push
	}
	return false
}

func (t ChannelToggles) enabled(channel NotificationChannel) bool {
	switch channel {
	case NotificationChannelInApp:
		return t.InApp
	case NotificationChannelEmail:
		return t.Email
	case NotificationChannelPush:
		return t.Push
	}
	return false
}
