package jobs

import (
	"context"
	"vehiclecare/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type routine func(ctx context.Context) error

// CronJob runs one CronService routine on a fixed schedule.
type CronJob struct {
	name     string
	run      routine
	log      logger.Logger
	schedule services.Schedule
}

func NewCronJob(name string, run routine, schedule services.Schedule) *CronJob {
	log := logger.New("cronJob")
	log.Info("Creating new cron job", "job", name, "schedule", schedule.String())

	return &CronJob{
		name:     name,
		run:      run,
		log:      log,
		schedule: schedule,
	}
}

func (j *CronJob) Name() string {
	return j.name
}

func (j *CronJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting scheduled routine", "job", j.name)

	if err := j.run(ctx); err != nil {
		return log.Err("scheduled routine failed", err, "job", j.name)
	}

	log.Info("Scheduled routine completed", "job", j.name)
	return nil
}

func (j *CronJob) Schedule() services.Schedule {
	return j.schedule
}
