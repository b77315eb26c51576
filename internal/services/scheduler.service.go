package services

import (
	"context"
	"sync"
	"time"
	"vehiclecare/config"
	"vehiclecare/internal/apperrors"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-co-op/gocron"
)

type Schedule int

const (
	Hourly       Schedule = iota
	DailyMorning          // 08:00 every day
	WeeklySunday          // 10:00 every Sunday
)

func (s Schedule) String() string {
	switch s {
	case Hourly:
		return "hourly"
	case DailyMorning:
		return "daily 08:00"
	case WeeklySunday:
		return "sunday 10:00"
	}
	return "unknown"
}

// Job represents a scheduled task that can be executed by the scheduler
type Job interface {
	// Name is also the key for manual triggering
	Name() string

	Execute(ctx context.Context) error
	Schedule() Schedule
}

type SchedulerService struct {
	scheduler *gocron.Scheduler
	jobs      []Job
	log       logger.Logger
	started   bool
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewSchedulerService(config config.Config) *SchedulerService {
	log := logger.New("scheduler")

	location := time.UTC
	if config.SchedulerTimezone != "" {
		loaded, err := time.LoadLocation(config.SchedulerTimezone)
		if err != nil {
			log.Warn("Unknown scheduler timezone, using UTC", "timezone", config.SchedulerTimezone)
		} else {
			location = loaded
		}
	}

	scheduler := gocron.NewScheduler(location)
	scheduler.SingletonModeAll()

	ctx, cancel := context.WithCancel(context.Background())

	return &SchedulerService{
		scheduler: scheduler,
		jobs:      make([]Job, 0),
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// executeJob never propagates a job failure so the next run is unaffected.
func (s *SchedulerService) executeJob(job Job, log logger.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("Job panicked", "job", job.Name(), "panic", r)
		}
	}()

	log.Info("Executing scheduled job", "job", job.Name())
	start := time.Now()
	if err := job.Execute(s.ctx); err != nil {
		log.Er("Job execution failed", err, "job", job.Name())
		return
	}
	log.Info("Job execution completed", "job", job.Name(), "duration", time.Since(start))
}

func (s *SchedulerService) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("AddJob")

	run := func() { s.executeJob(job, log) }

	var err error
	switch job.Schedule() {
	case Hourly:
		_, err = s.scheduler.Every(1).Hour().Do(run)
	case DailyMorning:
		_, err = s.scheduler.Every(1).Day().At("08:00").Do(run)
	case WeeklySunday:
		_, err = s.scheduler.Every(1).Sunday().At("10:00").Do(run)
	default:
		err = log.Error("unsupported schedule", "schedule", int(job.Schedule()))
	}

	if err != nil {
		return log.Err("failed to register job with scheduler", err, "job", job.Name())
	}

	s.jobs = append(s.jobs, job)
	log.Info("Job registered", "job", job.Name(), "schedule", job.Schedule().String())

	return nil
}

func (s *SchedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Start")

	if s.started {
		log.Info("Scheduler already started")
		return nil
	}

	if len(s.jobs) == 0 {
		log.Info("No jobs registered, scheduler will not start")
		return nil
	}

	log.Info("Starting scheduler", "jobCount", len(s.jobs))
	s.scheduler.StartAsync()
	s.started = true

	for _, job := range s.scheduler.Jobs() {
		log.Info("Job scheduled", "nextRun", job.NextRun())
	}

	return nil
}

func (s *SchedulerService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Stop")

	if !s.started {
		log.Info("Scheduler not started, nothing to stop")
		return nil
	}

	log.Info("Stopping scheduler")

	if s.cancel != nil {
		s.cancel()
	}

	s.scheduler.Stop()
	s.started = false

	return nil
}

func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *SchedulerService) GetJobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (s *SchedulerService) JobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for _, job := range s.jobs {
		names = append(names, job.Name())
	}
	return names
}

// TriggerJobByName runs a registered job in the background, outside its schedule.
// The job runs on the scheduler context, not on ctx, so it outlives the request.
func (s *SchedulerService) TriggerJobByName(ctx context.Context, jobName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("TriggerJobByName")

	var targetJob Job
	for _, job := range s.jobs {
		if job.Name() == jobName {
			targetJob = job
			break
		}
	}

	if targetJob == nil {
		log.Warn("job not found", "job", jobName)
		return apperrors.ErrJobNotFound
	}

	log.Info("Manually triggering job", "job", jobName)
	go s.executeJob(targetJob, log)

	return nil
}
