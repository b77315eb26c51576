package userController

import (
	"context"
	. "vehiclecare/internal/models"
	"vehiclecare/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
)

type UserController struct {
	vehicleService      *services.VehicleService
	notificationService *services.NotificationService
	expenseService      *services.ExpenseService
	log                 logger.Logger
}

type MeResponse struct {
	User                UserProfile     `json:"user"`
	VehicleCount        int             `json:"vehicleCount"`
	UnreadNotifications int64           `json:"unreadNotifications"`
	MonthToDateExpenses decimal.Decimal `json:"monthToDateExpenses"`
}

type UserControllerInterface interface {
	GetMe(ctx context.Context, user *User) (*MeResponse, error)
}

func New(services services.Service) UserControllerInterface {
	return &UserController{
		vehicleService:      services.Vehicle,
		notificationService: services.Notification,
		expenseService:      services.Expense,
		log:                 logger.New("userController"),
	}
}

func (uc *UserController) GetMe(ctx context.Context, user *User) (*MeResponse, error) {
	log := uc.log.Function("GetMe")

	vehicles, err := uc.vehicleService.List(ctx, user.ID)
	if err != nil {
		return nil, log.Err("failed to list vehicles", err, "userID", user.ID)
	}

	unread, err := uc.notificationService.GetUnreadCount(ctx, user.ID)
	if err != nil {
		return nil, log.Err("failed to count unread notifications", err, "userID", user.ID)
	}

	monthToDate, err := uc.expenseService.MonthlyTotalForOwner(ctx, user.ID)
	if err != nil {
		return nil, log.Err("failed to total monthly expenses", err, "userID", user.ID)
	}

	return &MeResponse{
		User:                user.ToProfile(),
		VehicleCount:        len(vehicles),
		UnreadNotifications: unread,
		MonthToDateExpenses: monthToDate,
	}, nil
}
