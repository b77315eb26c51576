package jobs

import (
	"vehiclecare/config"
	"vehiclecare/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	CheckRemindersJob           = "CheckReminders"
	CheckMaintenanceDueJob      = "CheckMaintenanceDue"
	CheckMileageAlertsJob       = "CheckMileageAlerts"
	GenerateDailyPredictionsJob = "GenerateDailyPredictions"
	CheckExpenseLimitsJob       = "CheckExpenseLimits"
	CleanOldNotificationsJob    = "CleanOldNotifications"
	GenerateWeeklyReportsJob    = "GenerateWeeklyReports"
)

// CronJobs lists every background routine with its schedule.
func CronJobs(cron *services.CronService) []*CronJob {
	return []*CronJob{
		NewCronJob(CheckRemindersJob, cron.CheckReminders, services.Hourly),
		NewCronJob(CheckMaintenanceDueJob, cron.CheckMaintenanceDue, services.Hourly),
		NewCronJob(CheckMileageAlertsJob, cron.CheckMileageAlerts, services.Hourly),
		NewCronJob(GenerateDailyPredictionsJob, cron.GenerateDailyPredictions, services.DailyMorning),
		NewCronJob(CheckExpenseLimitsJob, cron.CheckExpenseLimits, services.DailyMorning),
		NewCronJob(CleanOldNotificationsJob, cron.CleanOldNotifications, services.WeeklySunday),
		NewCronJob(GenerateWeeklyReportsJob, cron.GenerateWeeklyReports, services.WeeklySunday),
	}
}

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	services services.Service,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	log.Info("Registering jobs")
	for _, job := range CronJobs(services.Cron) {
		if err := schedulerService.AddJob(job); err != nil {
			return log.Err("failed to register job", err, "job", job.Name())
		}
		log.Info("Registered job", "job", job.Name(), "schedule", job.Schedule().String())
	}

	return nil
}
