package services

import (
	"context"
	"math"
	"sort"
	"time"
	"vehiclecare/internal/apperrors"
	"vehiclecare/internal/models"
	"vehiclecare/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	predictionMonths              = 6
	expensePredictionValidity     = 30 * 24 * time.Hour
	maintenancePredictionValidity = 60 * 24 * time.Hour
	defaultMaintenanceIntervalDay = 180
	costIncreasePerYear           = 0.05
	minConfidence                 = 0.1
	maxConfidence                 = 0.95
)

type PredictionService struct {
	db           *gorm.DB
	predictions  repositories.PredictionRepository
	vehicles     repositories.VehicleRepository
	expenses     repositories.ExpenseRepository
	maintenances repositories.MaintenanceRepository
	now          clock
	log          logger.Logger
}

func NewPredictionService(db *gorm.DB, repos repositories.Repository) *PredictionService {
	return &PredictionService{
		db:           db,
		predictions:  repos.Prediction,
		vehicles:     repos.Vehicle,
		expenses:     repos.Expense,
		maintenances: repos.Maintenance,
		now:          time.Now,
		log:          logger.New("predictionService"),
	}
}

// GetPrediction returns the still-valid stored prediction, generating fresh ones on a miss.
func (s *PredictionService) GetPrediction(
	ctx context.Context,
	vehicleID uuid.UUID,
	predictionType models.PredictionType,
) (*models.Prediction, error) {
	if !predictionType.IsValid() {
		return nil, apperrors.Validation("unknown prediction type " + string(predictionType))
	}

	cached, err := s.predictions.GetValid(ctx, s.db, vehicleID, predictionType, s.now())
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	vehicle, err := s.vehicles.GetByID(ctx, s.db, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, apperrors.ErrVehicleNotFound
	}

	generated, err := s.GenerateForVehicle(ctx, vehicle)
	if err != nil {
		return nil, err
	}
	for _, prediction := range generated {
		if prediction.Type == predictionType {
			return prediction, nil
		}
	}
	return nil, s.log.Function("GetPrediction").Error("prediction was not generated", "type", predictionType)
}

// GenerateForVehicle persists a fresh expense and maintenance prediction for the vehicle.
func (s *PredictionService) GenerateForVehicle(
	ctx context.Context,
	vehicle *models.Vehicle,
) ([]*models.Prediction, error) {
	log := s.log.Function("GenerateForVehicle")
	now := s.now()

	expensePrediction, err := s.expensePrediction(ctx, vehicle, now)
	if err != nil {
		return nil, err
	}
	maintenancePrediction, err := s.maintenancePrediction(ctx, vehicle, now)
	if err != nil {
		return nil, err
	}

	generated := []*models.Prediction{expensePrediction, maintenancePrediction}
	for _, prediction := range generated {
		if err := s.predictions.Create(ctx, s.db, prediction); err != nil {
			return nil, err
		}
	}

	log.Debug("Generated predictions", "vehicleID", vehicle.ID)
	return generated, nil
}

func (s *PredictionService) expensePrediction(
	ctx context.Context,
	vehicle *models.Vehicle,
	now time.Time,
) (*models.Prediction, error) {
	months := trailingMonths(now, predictionMonths)
	expenses, err := s.expenses.ListByVehicleSince(ctx, s.db, vehicle.ID, months[0])
	if err != nil {
		return nil, err
	}

	totals := MonthlyTotals(expenses, months)
	labels := make([]string, len(months))
	for i, month := range months {
		labels[i] = month.Format("2006-01")
	}

	return &models.Prediction{
		VehicleID: vehicle.ID,
		Type:      models.PredictionTypeExpense,
		Prediction: datatypes.JSONMap{
			"nextMonthExpense": roundCents(PredictNextMonthExpense(totals)),
			"trend":            roundCents(LinearTrendSlope(totals)),
			"monthlyTotals":    totals,
			"months":           labels,
		},
		Confidence: Confidence(totals),
		ValidUntil: now.Add(expensePredictionValidity),
	}, nil
}

func (s *PredictionService) maintenancePrediction(
	ctx context.Context,
	vehicle *models.Vehicle,
	now time.Time,
) (*models.Prediction, error) {
	completed, err := s.maintenances.ListCompletedByVehicle(ctx, s.db, vehicle.ID)
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(completed))
	costs := make([]decimal.Decimal, 0, len(completed))
	for _, maintenance := range completed {
		date := maintenance.ScheduledDate
		if maintenance.CompletedDate != nil {
			date = *maintenance.CompletedDate
		}
		dates = append(dates, date)
		if maintenance.HasCost() {
			costs = append(costs, *maintenance.Cost)
		}
	}

	intervals := intervalDays(dates)
	nextDate := PredictNextMaintenanceDate(dates, now)
	projected := ProjectMaintenanceCost(costs, vehicle.Age(now))

	return &models.Prediction{
		VehicleID: vehicle.ID,
		Type:      models.PredictionTypeMaintenance,
		Prediction: datatypes.JSONMap{
			"nextMaintenanceDate": nextDate.Format(time.RFC3339),
			"averageIntervalDays": math.Round(AverageIntervalDays(dates)),
			"projectedCost":       projected.StringFixed(2),
			"basedOn":             len(completed),
		},
		Confidence: Confidence(intervals),
		ValidUntil: now.Add(maintenancePredictionValidity),
	}, nil
}

// trailingMonths returns the first instant of each of the last count calendar months,
// oldest first, ending with the current month.
func trailingMonths(now time.Time, count int) []time.Time {
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	months := make([]time.Time, count)
	for i := range count {
		months[i] = current.AddDate(0, i-(count-1), 0)
	}
	return months
}

// MonthlyTotals buckets expenses into the given months. Months without expenses are zero.
func MonthlyTotals(expenses []*models.Expense, months []time.Time) []float64 {
	index := make(map[string]int, len(months))
	for i, month := range months {
		index[month.Format("2006-01")] = i
	}

	sums := make([]decimal.Decimal, len(months))
	for _, expense := range expenses {
		i, ok := index[expense.Date.In(months[0].Location()).Format("2006-01")]
		if !ok {
			continue
		}
		sums[i] = sums[i].Add(expense.Amount)
	}

	totals := make([]float64, len(months))
	for i, sum := range sums {
		totals[i] = sum.InexactFloat64()
	}
	return totals
}

// LinearTrendSlope is the least-squares slope of values over x = 0..n-1.
func LinearTrendSlope(values []float64) float64 {
	n := float64(len(values))
	if len(values) < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denominator
}

// PredictNextMonthExpense extends the fitted line one step past the last month. It never
// predicts a negative amount.
func PredictNextMonthExpense(monthly []float64) float64 {
	if len(monthly) == 0 {
		return 0
	}

	n := float64(len(monthly))
	var sum float64
	for _, v := range monthly {
		sum += v
	}
	meanY := sum / n
	meanX := (n - 1) / 2

	slope := LinearTrendSlope(monthly)
	intercept := meanY - slope*meanX

	return math.Max(0, intercept+slope*n)
}

// Confidence is 1 minus the population variance normalized by the squared mean,
// clamped to [0.1, 0.95].
func Confidence(values []float64) float64 {
	if len(values) < 2 {
		return minConfidence
	}

	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if mean == 0 {
		return minConfidence
	}

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= n

	return math.Min(maxConfidence, math.Max(minConfidence, 1-variance/(mean*mean)))
}

func intervalDays(dates []time.Time) []float64 {
	if len(dates) < 2 {
		return nil
	}

	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	intervals := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		intervals = append(intervals, sorted[i].Sub(sorted[i-1]).Hours()/24)
	}
	return intervals
}

// AverageIntervalDays is the mean gap in days between consecutive dates, or 0 with fewer
// than two dates.
func AverageIntervalDays(dates []time.Time) float64 {
	intervals := intervalDays(dates)
	if len(intervals) == 0 {
		return 0
	}

	var sum float64
	for _, d := range intervals {
		sum += d
	}
	return sum / float64(len(intervals))
}

// PredictNextMaintenanceDate adds the mean interval to the latest date. Without enough
// history it falls back to 180 days after the latest date, or after now.
func PredictNextMaintenanceDate(dates []time.Time, now time.Time) time.Time {
	if len(dates) == 0 {
		return now.AddDate(0, 0, defaultMaintenanceIntervalDay)
	}

	latest := dates[0]
	for _, d := range dates[1:] {
		if d.After(latest) {
			latest = d
		}
	}

	average := AverageIntervalDays(dates)
	if average <= 0 {
		return latest.AddDate(0, 0, defaultMaintenanceIntervalDay)
	}
	return latest.Add(time.Duration(average * float64(24*time.Hour)))
}

// ProjectMaintenanceCost scales the mean historical cost by 5% per year of vehicle age.
func ProjectMaintenanceCost(costs []decimal.Decimal, vehicleAge int) decimal.Decimal {
	if len(costs) == 0 {
		return decimal.Zero
	}
	if vehicleAge < 0 {
		vehicleAge = 0
	}

	average := decimal.Avg(costs[0], costs[1:]...)
	multiplier := decimal.NewFromFloat(1 + costIncreasePerYear*float64(vehicleAge))
	return average.Mul(multiplier).Round(2)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
