package jobs

import (
	"context"
	"errors"
	"testing"
	"vehiclecare/config"
	"vehiclecare/internal/repositories"
	"vehiclecare/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCronService() *services.CronService {
	return services.NewCronService(nil, repositories.Repository{}, nil, nil, nil)
}

func TestRegisterAllJobs(t *testing.T) {
	tests := []struct {
		name      string
		enabled   bool
		wantCount int
	}{
		{name: "scheduler disabled", enabled: false, wantCount: 0},
		{name: "scheduler enabled", enabled: true, wantCount: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Config{SchedulerEnabled: tt.enabled}
			scheduler := services.NewSchedulerService(cfg)

			err := RegisterAllJobs(scheduler, cfg, services.Service{Cron: newCronService()})
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, scheduler.GetJobCount())
		})
	}
}

func TestCronJobs_Schedules(t *testing.T) {
	expected := map[string]services.Schedule{
		CheckRemindersJob:           services.Hourly,
		CheckMaintenanceDueJob:      services.Hourly,
		CheckMileageAlertsJob:       services.Hourly,
		GenerateDailyPredictionsJob: services.DailyMorning,
		CheckExpenseLimitsJob:       services.DailyMorning,
		CleanOldNotificationsJob:    services.WeeklySunday,
		GenerateWeeklyReportsJob:    services.WeeklySunday,
	}

	jobs := CronJobs(newCronService())
	require.Len(t, jobs, len(expected))
	for _, job := range jobs {
		assert.Equal(t, expected[job.Name()], job.Schedule(), job.Name())
	}
}

func TestCronJob_Execute(t *testing.T) {
	calls := 0
	job := NewCronJob("Probe", func(ctx context.Context) error {
		calls++
		return nil
	}, services.Hourly)

	require.NoError(t, job.Execute(context.Background()))
	assert.Equal(t, 1, calls)

	failure := errors.New("sweep failed")
	failing := NewCronJob("Failing", func(ctx context.Context) error { return failure }, services.Hourly)
	assert.ErrorIs(t, failing.Execute(context.Background()), failure)
}
