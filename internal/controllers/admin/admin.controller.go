package adminController

import (
	"context"
	. "vehiclecare/internal/models"
	"vehiclecare/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type JobsResponse struct {
	Running bool     `json:"running"`
	Jobs    []string `json:"jobs"`
}

type AdminController struct {
	schedulerService *services.SchedulerService
	log              logger.Logger
}

type AdminControllerInterface interface {
	ListJobs() *JobsResponse
	TriggerJob(ctx context.Context, user *User, jobName string) error
}

func New(services services.Service) AdminControllerInterface {
	return &AdminController{
		schedulerService: services.Scheduler,
		log:              logger.New("adminController"),
	}
}

func (ac *AdminController) ListJobs() *JobsResponse {
	return &JobsResponse{
		Running: ac.schedulerService.IsRunning(),
		Jobs:    ac.schedulerService.JobNames(),
	}
}

func (ac *AdminController) TriggerJob(ctx context.Context, user *User, jobName string) error {
	log := ac.log.Function("TriggerJob")

	if err := ac.schedulerService.TriggerJobByName(ctx, jobName); err != nil {
		return err
	}

	log.Info("Job triggered manually", "job", jobName, "userID", user.ID)
	return nil
}
