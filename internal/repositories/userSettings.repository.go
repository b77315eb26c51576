package repositories

import (
	"context"
	"vehiclecare/internal/constants"
	"vehiclecare/internal/database"
	. "vehiclecare/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserSettingsRepository interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*UserSettings, error)
	// Create inserts settings unless a row for the user already exists.
	// The returned bool reports whether a row was inserted.
	Create(ctx context.Context, tx *gorm.DB, settings *UserSettings) (bool, error)
	Update(ctx context.Context, tx *gorm.DB, settings *UserSettings) error
}

type userSettingsRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewUserSettingsRepository(cache database.CacheClient) UserSettingsRepository {
	return &userSettingsRepository{
		cache: cache,
		log:   logger.New("userSettingsRepository"),
	}
}

// GetByUserID returns nil, nil when the user has no settings row yet.
func (r *userSettingsRepository) GetByUserID(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (*UserSettings, error) {
	log := r.log.Function("GetByUserID")

	var settings UserSettings
	found, err := database.NewCacheBuilder(r.cache, userID).
		WithContext(ctx).
		WithHash(constants.UserSettingsCachePrefix).
		Get(&settings)
	if err != nil {
		log.Warn("failed to get user settings from cache", "userID", userID, "error", err)
	}
	if found {
		return &settings, nil
	}

	if err := tx.WithContext(ctx).First(&settings, "user_id = ?", userID).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, log.Err("failed to get user settings", err, "userID", userID)
	}

	r.setCache(ctx, &settings)

	return &settings, nil
}

func (r *userSettingsRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	settings *UserSettings,
) (bool, error) {
	log := r.log.Function("Create")

	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(settings)
	if result.Error != nil {
		return false, log.Err("failed to create user settings", result.Error, "userID", settings.UserID)
	}

	return result.RowsAffected > 0, nil
}

func (r *userSettingsRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	settings *UserSettings,
) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(settings).Error; err != nil {
		return log.Err("failed to update user settings", err, "userID", settings.UserID)
	}

	if err := database.NewCacheBuilder(r.cache, settings.UserID).
		WithContext(ctx).
		WithHash(constants.UserSettingsCachePrefix).
		Delete(); err != nil {
		log.Warn("failed to invalidate user settings cache", "userID", settings.UserID, "error", err)
	}

	return nil
}

func (r *userSettingsRepository) setCache(ctx context.Context, settings *UserSettings) {
	if err := database.NewCacheBuilder(r.cache, settings.UserID).
		WithContext(ctx).
		WithHash(constants.UserSettingsCachePrefix).
		WithStruct(settings).
		WithTTL(constants.UserSettingsCacheExpiry).
		Set(); err != nil {
		r.log.Function("setCache").
			Warn("failed to cache user settings", "userID", settings.UserID, "error", err)
	}
}
