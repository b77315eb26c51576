package services

import (
	"context"
	"fmt"
	"time"
	"vehiclecare/internal/models"
	"vehiclecare/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	reminderRenotifyAfter    = 24 * time.Hour
	mileageAlertKmPerDay     = 200
	notificationRetention    = 30 * 24 * time.Hour
	weeklyReportPeriod       = 7 * 24 * time.Hour
	mileageAlertSampleLength = 2
)

type predictionGenerator interface {
	GenerateForVehicle(ctx context.Context, vehicle *models.Vehicle) ([]*models.Prediction, error)
}

// CronService holds the bodies of the scheduled routines. Every routine handles its
// items independently; a failing item is logged and the sweep continues.
type CronService struct {
	db             *gorm.DB
	users          repositories.UserRepository
	vehicles       repositories.VehicleRepository
	reminders      repositories.ReminderRepository
	maintenances   repositories.MaintenanceRepository
	mileageRecords repositories.MileageRecordRepository
	expenses       repositories.ExpenseRepository
	notifications  repositories.NotificationRepository
	predictions    repositories.PredictionRepository
	reports        repositories.ReportRepository
	settings       SettingsProvider
	notifier       Notifier
	generator      predictionGenerator
	now            clock
	log            logger.Logger
}

func NewCronService(
	db *gorm.DB,
	repos repositories.Repository,
	settings SettingsProvider,
	notifier Notifier,
	generator predictionGenerator,
) *CronService {
	return &CronService{
		db:             db,
		users:          repos.User,
		vehicles:       repos.Vehicle,
		reminders:      repos.Reminder,
		maintenances:   repos.Maintenance,
		mileageRecords: repos.MileageRecord,
		expenses:       repos.Expense,
		notifications:  repos.Notification,
		predictions:    repos.Prediction,
		reports:        repos.Report,
		settings:       settings,
		notifier:       notifier,
		generator:      generator,
		now:            time.Now,
		log:            logger.New("cronService"),
	}
}

// CheckReminders alerts owners about pending reminders that fall inside their
// notification window, at most once per 24 hours per reminder.
func (s *CronService) CheckReminders(ctx context.Context) error {
	log := s.log.Function("CheckReminders")

	users, err := s.users.ListActive(ctx, s.db)
	if err != nil {
		return log.Err("failed to list users", err)
	}

	now := s.now()
	notified := 0
	for _, user := range users {
		settings, err := s.settings.GetNotificationSettings(ctx, user.ID)
		if err != nil {
			log.Er("failed to load settings", err, "userID", user.ID)
			continue
		}
		advanced := settings.Advanced.Data()

		completed := false
		pending, err := s.reminders.Find(ctx, s.db, repositories.ReminderFilter{
			OwnerID:   &user.ID,
			Completed: &completed,
		})
		if err != nil {
			log.Er("failed to load reminders", err, "userID", user.ID)
			continue
		}

		for _, reminder := range pending {
			if reminder.LastNotified != nil && now.Sub(*reminder.LastNotified) < reminderRenotifyAfter {
				continue
			}
			if !reminderDue(reminder, advanced, now) {
				continue
			}

			if err := s.notifyReminderDue(ctx, user.ID, reminder, now); err != nil {
				log.Er("failed to notify due reminder", err, "reminderID", reminder.ID)
				continue
			}
			notified++
		}
	}

	log.Info("Checked reminders", "users", len(users), "notified", notified)
	return nil
}

func reminderDue(reminder *models.Reminder, advanced models.AdvancedSettings, now time.Time) bool {
	if reminder.Type.UsesDate() && reminder.DueDate != nil {
		window := now.AddDate(0, 0, advanced.MaintenanceReminderDays)
		if !reminder.DueDate.After(window) {
			return true
		}
	}

	if reminder.Type.UsesMileage() && reminder.DueMileage != nil && reminder.Vehicle != nil {
		if reminder.Vehicle.Mileage >= *reminder.DueMileage-advanced.MileageAlertThreshold {
			return true
		}
	}

	return false
}

func (s *CronService) notifyReminderDue(
	ctx context.Context,
	ownerID uuid.UUID,
	reminder *models.Reminder,
	now time.Time,
) error {
	message := reminder.Description
	if reminder.Vehicle != nil {
		message = describeReminder(reminder.Vehicle, reminder)
	}

	if err := s.notifyInAppAndEmail(ctx, CreateNotificationInput{
		UserID:   ownerID,
		Type:     models.NotificationTypeReminderDue,
		Title:    "Reminder due: " + reminder.Description,
		Message:  message,
		Data:     reminderData(reminder),
		Category: models.NotificationCategoryReminder,
	}); err != nil {
		return err
	}

	reminder.LastNotified = &now
	return s.reminders.Update(ctx, s.db, reminder)
}

// notifyInAppAndEmail creates the in-app notification and an email copy. Each copy is
// gated separately by the recipient's settings; only the in-app failure is returned.
func (s *CronService) notifyInAppAndEmail(ctx context.Context, input CreateNotificationInput) error {
	input.Channel = models.NotificationChannelInApp
	if _, err := s.notifier.CreateNotification(ctx, input); err != nil {
		return err
	}

	input.Channel = models.NotificationChannelEmail
	if _, err := s.notifier.CreateNotification(ctx, input); err != nil {
		s.log.Function("notifyInAppAndEmail").
			Warn("failed to create email notification", "userID", input.UserID, "type", input.Type, "error", err)
	}
	return nil
}

// CheckMaintenanceDue notifies the owner, and the assigned mechanic when there is a
// different one, about every SCHEDULED maintenance already past its date.
func (s *CronService) CheckMaintenanceDue(ctx context.Context) error {
	log := s.log.Function("CheckMaintenanceDue")

	overdue, err := s.maintenances.ListOverdue(ctx, s.db, s.now())
	if err != nil {
		return log.Err("failed to list overdue maintenances", err)
	}

	for _, maintenance := range overdue {
		if maintenance.Vehicle == nil {
			log.Warn("overdue maintenance without vehicle", "maintenanceID", maintenance.ID)
			continue
		}

		recipients := []uuid.UUID{maintenance.Vehicle.OwnerID}
		if maintenance.MechanicID != nil && *maintenance.MechanicID != maintenance.Vehicle.OwnerID {
			recipients = append(recipients, *maintenance.MechanicID)
		}

		for _, recipient := range recipients {
			if err := s.notifyInAppAndEmail(ctx, CreateNotificationInput{
				UserID: recipient,
				Type:   models.NotificationTypeMaintenanceOverdue,
				Title:  "Maintenance overdue: " + maintenance.Description,
				Message: fmt.Sprintf(
					"%s for %s was scheduled on %s",
					maintenance.Description,
					maintenance.Vehicle.DisplayName(),
					maintenance.ScheduledDate.Format("2006-01-02"),
				),
				Data:     maintenanceData(maintenance),
				Category: models.NotificationCategoryMaintenance,
			}); err != nil {
				log.Er("failed to notify overdue maintenance", err, "maintenanceID", maintenance.ID, "userID", recipient)
			}
		}
	}

	log.Info("Checked overdue maintenances", "count", len(overdue))
	return nil
}

// CheckMileageAlerts flags vehicles whose two latest readings average over 200 km/day.
func (s *CronService) CheckMileageAlerts(ctx context.Context) error {
	log := s.log.Function("CheckMileageAlerts")

	vehicles, err := s.vehicles.ListAll(ctx, s.db)
	if err != nil {
		return log.Err("failed to list vehicles", err)
	}

	alerts := 0
	for _, vehicle := range vehicles {
		records, err := s.mileageRecords.ListByVehicle(ctx, s.db, vehicle.ID, mileageAlertSampleLength)
		if err != nil {
			log.Er("failed to load mileage records", err, "vehicleID", vehicle.ID)
			continue
		}
		if len(records) < mileageAlertSampleLength {
			continue
		}

		perDay := DailyMileageAverage(records[1], records[0])
		if perDay <= mileageAlertKmPerDay {
			continue
		}

		if _, err := s.notifier.CreateNotification(ctx, CreateNotificationInput{
			UserID: vehicle.OwnerID,
			Type:   models.NotificationTypeMileageAlert,
			Title:  "Unusual mileage for " + vehicle.DisplayName(),
			Message: fmt.Sprintf(
				"%s averaged %.0f km per day between its last two readings",
				vehicle.DisplayName(),
				perDay,
			),
			Data: map[string]any{
				"vehicleId":   vehicle.ID.String(),
				"kmPerDay":    perDay,
				"fromMileage": records[1].Mileage,
				"toMileage":   records[0].Mileage,
			},
			Channel:  models.NotificationChannelInApp,
			Category: models.NotificationCategoryMileage,
		}); err != nil {
			log.Er("failed to send mileage alert", err, "vehicleID", vehicle.ID)
			continue
		}
		alerts++
	}

	log.Info("Checked mileage alerts", "vehicles", len(vehicles), "alerts", alerts)
	return nil
}

// DailyMileageAverage is km driven per day between two readings. The elapsed time is
// floored to whole days with a minimum of one.
func DailyMileageAverage(previous, latest *models.MileageRecord) float64 {
	days := int(latest.Date.Sub(previous.Date).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return float64(latest.Mileage-previous.Mileage) / float64(days)
}

func (s *CronService) GenerateDailyPredictions(ctx context.Context) error {
	log := s.log.Function("GenerateDailyPredictions")

	vehicles, err := s.vehicles.ListAll(ctx, s.db)
	if err != nil {
		return log.Err("failed to list vehicles", err)
	}

	generated := 0
	for _, vehicle := range vehicles {
		if _, err := s.generator.GenerateForVehicle(ctx, vehicle); err != nil {
			log.Er("failed to generate predictions", err, "vehicleID", vehicle.ID)
			continue
		}
		generated++
	}

	log.Info("Generated daily predictions", "vehicles", generated)
	return nil
}

// CheckExpenseLimits warns users whose month-to-date spending is above their monthly limit.
// A limit of zero disables the check.
func (s *CronService) CheckExpenseLimits(ctx context.Context) error {
	log := s.log.Function("CheckExpenseLimits")

	users, err := s.users.ListActive(ctx, s.db)
	if err != nil {
		return log.Err("failed to list users", err)
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	for _, user := range users {
		settings, err := s.settings.GetNotificationSettings(ctx, user.ID)
		if err != nil {
			log.Er("failed to load settings", err, "userID", user.ID)
			continue
		}

		limit := settings.Advanced.Data().MonthlyExpenseLimit
		if limit <= 0 {
			continue
		}

		total, err := s.expenses.SumForOwnerBetween(ctx, s.db, user.ID, monthStart, now)
		if err != nil {
			log.Er("failed to sum expenses", err, "userID", user.ID)
			continue
		}

		limitAmount := decimal.NewFromFloat(limit)
		if !total.GreaterThan(limitAmount) {
			continue
		}

		if err := s.notifyInAppAndEmail(ctx, CreateNotificationInput{
			UserID: user.ID,
			Type:   models.NotificationTypeExpenseLimit,
			Title:  "Monthly expense limit exceeded",
			Message: fmt.Sprintf(
				"You have spent %s this month, above your limit of %s",
				total.StringFixed(2),
				limitAmount.StringFixed(2),
			),
			Data: map[string]any{
				"total": total.StringFixed(2),
				"limit": limitAmount.StringFixed(2),
				"month": now.Format("2006-01"),
			},
			Category: models.NotificationCategoryExpense,
		}); err != nil {
			log.Er("failed to send expense limit notification", err, "userID", user.ID)
		}
	}

	return nil
}

// CleanOldNotifications hard-deletes read notifications older than 30 days and
// expired predictions.
func (s *CronService) CleanOldNotifications(ctx context.Context) error {
	log := s.log.Function("CleanOldNotifications")
	now := s.now()

	removed, err := s.notifications.DeleteReadOlderThan(ctx, s.db, now.Add(-notificationRetention))
	if err != nil {
		return log.Err("failed to delete old notifications", err)
	}

	expired, err := s.predictions.DeleteExpired(ctx, s.db, now)
	if err != nil {
		log.Er("failed to delete expired predictions", err)
	}

	log.Info("Cleaned old records", "notifications", removed, "predictions", expired)
	return nil
}

// GenerateWeeklyReports stores a per-user summary of the last seven days and lets the
// user know it is available.
func (s *CronService) GenerateWeeklyReports(ctx context.Context) error {
	log := s.log.Function("GenerateWeeklyReports")

	users, err := s.users.ListActive(ctx, s.db)
	if err != nil {
		return log.Err("failed to list users", err)
	}

	end := s.now()
	start := end.Add(-weeklyReportPeriod)

	for _, user := range users {
		report, err := s.buildWeeklyReport(ctx, user, start, end)
		if err != nil {
			log.Er("failed to build weekly report", err, "userID", user.ID)
			continue
		}

		if err := s.reports.Create(ctx, s.db, report); err != nil {
			log.Er("failed to store weekly report", err, "userID", user.ID)
			continue
		}

		if _, err := s.notifier.CreateNotification(ctx, CreateNotificationInput{
			UserID:   user.ID,
			Type:     models.NotificationTypeWeeklyReport,
			Title:    "Your weekly vehicle report",
			Message:  fmt.Sprintf("You spent %s across %v vehicles this week", report.Data["totalExpenses"], report.Data["vehicles"]),
			Data:     map[string]any{"reportId": report.ID.String()},
			Channel:  models.NotificationChannelInApp,
			Category: models.NotificationCategoryReport,
		}); err != nil {
			log.Er("failed to send weekly report notification", err, "userID", user.ID)
		}
	}

	return nil
}

func (s *CronService) buildWeeklyReport(
	ctx context.Context,
	user *models.User,
	start, end time.Time,
) (*models.Report, error) {
	vehicles, err := s.vehicles.ListByOwner(ctx, s.db, user.ID)
	if err != nil {
		return nil, err
	}

	total, err := s.expenses.SumForOwnerBetween(ctx, s.db, user.ID, start, end)
	if err != nil {
		return nil, err
	}

	completed, err := s.maintenances.CountCompletedForOwnerBetween(ctx, s.db, user.ID, start, end)
	if err != nil {
		return nil, err
	}

	return &models.Report{
		UserID:      user.ID,
		Type:        models.ReportTypeWeekly,
		PeriodStart: start,
		PeriodEnd:   end,
		Data: datatypes.JSONMap{
			"vehicles":              len(vehicles),
			"totalExpenses":         total.StringFixed(2),
			"completedMaintenances": completed,
		},
	}, nil
}
