package repositories

import (
	"context"
	"time"
	. "vehiclecare/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationQuery struct {
	Page       int
	Limit      int
	UnreadOnly bool
	Category   *NotificationCategory
	Channel    *NotificationChannel
}

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *Notification) error
	List(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		query NotificationQuery,
	) ([]Notification, int64, error)
	CountUnread(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (int64, error)
	MarkAllAsRead(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (int64, error)
	DeleteReadOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

type notificationRepository struct {
	log logger.Logger
}

func NewNotificationRepository() NotificationRepository {
	return &notificationRepository{
		log: logger.New("notificationRepository"),
	}
}

func (r *notificationRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	notification *Notification,
) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(notification).Error; err != nil {
		return log.Err("failed to create notification", err, "userID", notification.UserID)
	}

	return nil
}

// List returns one page, newest first, plus the total matching the filters.
// Page and Limit are used as given; callers clamp them.
func (r *notificationRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	query NotificationQuery,
) ([]Notification, int64, error) {
	log := r.log.Function("List")

	base := tx.WithContext(ctx).Model(&Notification{}).Where("user_id = ?", userID)
	if query.UnreadOnly {
		base = base.Where("read = ?", false)
	}
	if query.Category != nil {
		base = base.Where("category = ?", *query.Category)
	}
	if query.Channel != nil {
		base = base.Where("channel = ?", *query.Channel)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, log.Err("failed to count notifications", err, "userID", userID)
	}

	var notifications []Notification
	if err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&notifications).Error; err != nil {
		return nil, 0, log.Err("failed to list notifications", err, "userID", userID)
	}

	return notifications, total, nil
}

func (r *notificationRepository) CountUnread(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (int64, error) {
	log := r.log.Function("CountUnread")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count unread notifications", err, "userID", userID)
	}

	return count, nil
}

// MarkAsRead is scoped by id and user; a non-owned id affects zero rows.
func (r *notificationRepository) MarkAsRead(
	ctx context.Context,
	tx *gorm.DB,
	id, userID uuid.UUID,
) (int64, error) {
	log := r.log.Function("MarkAsRead")

	result := tx.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return 0, log.Err("failed to mark notification read", result.Error, "notificationID", id)
	}

	return result.RowsAffected, nil
}

func (r *notificationRepository) MarkAllAsRead(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (int64, error) {
	log := r.log.Function("MarkAllAsRead")

	result := tx.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, log.Err("failed to mark all notifications read", result.Error, "userID", userID)
	}

	return result.RowsAffected, nil
}

// Delete is scoped by id and user; a non-owned id affects zero rows.
func (r *notificationRepository) Delete(
	ctx context.Context,
	tx *gorm.DB,
	id, userID uuid.UUID,
) (int64, error) {
	log := r.log.Function("Delete")

	result := tx.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Notification{})
	if result.Error != nil {
		return 0, log.Err("failed to delete notification", result.Error, "notificationID", id)
	}

	return result.RowsAffected, nil
}

func (r *notificationRepository) DeleteReadOlderThan(
	ctx context.Context,
	tx *gorm.DB,
	cutoff time.Time,
) (int64, error) {
	log := r.log.Function("DeleteReadOlderThan")

	result := tx.WithContext(ctx).
		Where("read = ? AND created_at < ?", true, cutoff).
		Delete(&Notification{})
	if result.Error != nil {
		return 0, log.Err("failed to delete old notifications", result.Error)
	}

	return result.RowsAffected, nil
}
