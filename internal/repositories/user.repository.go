package repositories

import (
	"context"
	"strings"
	"time"
	"vehiclecare/internal/constants"
	"vehiclecare/internal/database"
	. "vehiclecare/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*User, error)
	UpdateLastLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
}

type userRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewUserRepository(cache database.CacheClient) UserRepository {
	return &userRepository{
		cache: cache,
		log:   logger.New("userRepository"),
	}
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err, "email", user.Email)
	}

	return nil
}

// GetByID returns nil, nil when the user does not exist.
func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	found, err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(constants.UserCachePrefix).
		Get(&user)
	if err != nil {
		log.Warn("failed to get user from cache", "userID", id, "error", err)
	}
	if found {
		return &user, nil
	}

	if err := tx.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, log.Err("failed to get user by id", err, "userID", id)
	}

	if err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(constants.UserCachePrefix).
		WithStruct(user).
		WithTTL(constants.UserCacheExpiry).
		Set(); err != nil {
		log.Warn("failed to add user to cache", "userID", id, "error", err)
	}

	return &user, nil
}

// GetByEmail returns nil, nil when no user is registered with email.
func (r *userRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error) {
	log := r.log.Function("GetByEmail")

	var user User
	err := tx.WithContext(ctx).
		First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).
		Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, log.Err("failed to get user by email", err)
	}

	return &user, nil
}

func (r *userRepository) ListActive(ctx context.Context, tx *gorm.DB) ([]*User, error) {
	log := r.log.Function("ListActive")

	var users []*User
	if err := tx.WithContext(ctx).Where("is_active = ?", true).Find(&users).Error; err != nil {
		return nil, log.Err("failed to list active users", err)
	}

	return users, nil
}

func (r *userRepository) UpdateLastLogin(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	at time.Time,
) error {
	log := r.log.Function("UpdateLastLogin")

	if err := tx.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error; err != nil {
		return log.Err("failed to update last login", err, "userID", id)
	}

	if err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(constants.UserCachePrefix).
		Delete(); err != nil {
		log.Warn("failed to clear user cache", "userID", id, "error", err)
	}

	return nil
}
