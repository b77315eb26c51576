package services

import (
	"context"
	"strings"
	"time"
	"vehiclecare/internal/apperrors"
	"vehiclecare/internal/models"
	"vehiclecare/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateVehicleInput struct {
	Brand        string `json:"brand"        validate:"required,max=100"`
	Model        string `json:"model"        validate:"required,max=100"`
	Year         int    `json:"year"         validate:"required,min=1900,max=2100"`
	LicensePlate string `json:"licensePlate" validate:"required,max=20"`
	Type         string `json:"type"         validate:"omitempty,max=50"`
	Color        string `json:"color"        validate:"omitempty,max=50"`
	Mileage      int    `json:"mileage"      validate:"min=0"`
}

// UpdateVehicleInput does not carry mileage; odometer changes go through the mileage endpoints.
type UpdateVehicleInput struct {
	Brand        *string `json:"brand"        validate:"omitempty,max=100"`
	Model        *string `json:"model"        validate:"omitempty,max=100"`
	Year         *int    `json:"year"         validate:"omitempty,min=1900,max=2100"`
	LicensePlate *string `json:"licensePlate" validate:"omitempty,max=20"`
	Type         *string `json:"type"         validate:"omitempty,max=50"`
	Color        *string `json:"color"        validate:"omitempty,max=50"`
}

type VehicleService struct {
	db             *gorm.DB
	vehicles       repositories.VehicleRepository
	mileageRecords repositories.MileageRecordRepository
	now            clock
	log            logger.Logger
}

func NewVehicleService(db *gorm.DB, repos repositories.Repository) *VehicleService {
	return &VehicleService{
		db:             db,
		vehicles:       repos.Vehicle,
		mileageRecords: repos.MileageRecord,
		now:            time.Now,
		log:            logger.New("vehicleService"),
	}
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

func (s *VehicleService) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input CreateVehicleInput,
) (*models.Vehicle, error) {
	log := s.log.Function("Create")

	plate := normalizePlate(input.LicensePlate)
	if plate == "" {
		return nil, apperrors.Validation("licensePlate is required")
	}
	if input.Mileage < 0 {
		return nil, apperrors.Validation("mileage must not be negative")
	}

	existing, err := s.vehicles.GetByOwnerAndPlate(ctx, s.db, ownerID, plate)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrLicensePlateTaken
	}

	vehicle := &models.Vehicle{
		OwnerID:      ownerID,
		Brand:        input.Brand,
		Model:        input.Model,
		Year:         input.Year,
		LicensePlate: plate,
		Type:         input.Type,
		Color:        input.Color,
		Mileage:      input.Mileage,
	}
	if err := s.vehicles.Create(ctx, s.db, vehicle); err != nil {
		return nil, err
	}

	if vehicle.Mileage > 0 {
		if err := s.mileageRecords.Create(ctx, s.db, &models.MileageRecord{
			VehicleID: vehicle.ID,
			Mileage:   vehicle.Mileage,
			Date:      s.now(),
		}); err != nil {
			log.Warn("failed to record initial mileage", "vehicleID", vehicle.ID, "error", err)
		}
	}

	return vehicle, nil
}

func (s *VehicleService) Get(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	vehicle, err := s.vehicles.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, apperrors.ErrVehicleNotFound
	}
	return vehicle, nil
}

// EnsureOwnership returns the vehicle when userID owns it.
func (s *VehicleService) EnsureOwnership(
	ctx context.Context,
	vehicleID, userID uuid.UUID,
) (*models.Vehicle, error) {
	vehicle, err := s.Get(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.OwnerID != userID {
		return nil, apperrors.ErrForbidden
	}
	return vehicle, nil
}

func (s *VehicleService) List(ctx context.Context, ownerID uuid.UUID) ([]*models.Vehicle, error) {
	return s.vehicles.ListByOwner(ctx, s.db, ownerID)
}

func (s *VehicleService) ListAll(ctx context.Context) ([]*models.Vehicle, error) {
	return s.vehicles.ListAll(ctx, s.db)
}

func (s *VehicleService) Update(
	ctx context.Context,
	id uuid.UUID,
	input UpdateVehicleInput,
) (*models.Vehicle, error) {
	vehicle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.LicensePlate != nil {
		plate := normalizePlate(*input.LicensePlate)
		if plate == "" {
			return nil, apperrors.Validation("licensePlate must not be empty")
		}
		if plate != vehicle.LicensePlate {
			existing, err := s.vehicles.GetByOwnerAndPlate(ctx, s.db, vehicle.OwnerID, plate)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, apperrors.ErrLicensePlateTaken
			}
			vehicle.LicensePlate = plate
		}
	}
	if input.Brand != nil {
		vehicle.Brand = *input.Brand
	}
	if input.Model != nil {
		vehicle.Model = *input.Model
	}
	if input.Year != nil {
		vehicle.Year = *input.Year
	}
	if input.Type != nil {
		vehicle.Type = *input.Type
	}
	if input.Color != nil {
		vehicle.Color = *input.Color
	}

	if err := s.vehicles.Update(ctx, s.db, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.vehicles.Delete(ctx, s.db, id)
}

func (s *VehicleService) MileageHistory(
	ctx context.Context,
	vehicleID uuid.UUID,
	limit int,
) ([]*models.MileageRecord, error) {
	if limit <= 0 {
		limit = defaultMileageHistoryLimit
	}
	return s.mileageRecords.ListByVehicle(ctx, s.db, vehicleID, limit)
}
