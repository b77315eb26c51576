package repositories

import (
	"context"
	. "vehiclecare/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, tx *gorm.DB, report *Report) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*Report, error)
}

type reportRepository struct {
	log logger.Logger
}

func NewReportRepository() ReportRepository {
	return &reportRepository{
		log: logger.New("reportRepository"),
	}
}

func (r *reportRepository) Create(ctx context.Context, tx *gorm.DB, report *Report) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(report).Error; err != nil {
		return log.Err("failed to create report", err, "userID", report.UserID)
	}

	return nil
}

func (r *reportRepository) ListByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]*Report, error) {
	log := r.log.Function("ListByUser")

	query := tx.WithContext(ctx).Where("user_id = ?", userID).Order("period_end DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var reports []*Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, log.Err("failed to list reports", err, "userID", userID)
	}

	return reports, nil
}
