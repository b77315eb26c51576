package authController

import (
	"context"
	"vehiclecare/internal/apperrors"
	"vehiclecare/internal/models"
	"vehiclecare/internal/services"
	"vehiclecare/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

// AuthController handles registration, login and token resolution.
type AuthController struct {
	authService *services.AuthService
	log         logger.Logger
}

type AuthControllerInterface interface {
	Register(ctx context.Context, request services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, request services.LoginInput) (*services.AuthResult, error)
	// Authenticate resolves a bearer token to an active user.
	Authenticate(ctx context.Context, token string) (*models.User, error)
	ValidateToken(token string) (uuid.UUID, error)
}

func New(services services.Service) AuthControllerInterface {
	return &AuthController{
		authService: services.Auth,
		log:         logger.New("authController"),
	}
}

func (ac *AuthController) Register(
	ctx context.Context,
	request services.RegisterInput,
) (*services.AuthResult, error) {
	log := ac.log.Function("Register")

	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	result, err := ac.authService.Register(ctx, request)
	if err != nil {
		return nil, err
	}

	log.Info("User registered", "userID", result.User.ID)
	return result, nil
}

func (ac *AuthController) Login(
	ctx context.Context,
	request services.LoginInput,
) (*services.AuthResult, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	return ac.authService.Login(ctx, request)
}

func (ac *AuthController) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := ac.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := ac.authService.GetUser(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		ac.log.Function("Authenticate").Info("inactive user rejected", "userID", user.ID)
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

func (ac *AuthController) ValidateToken(token string) (uuid.UUID, error) {
	userID, _, err := ac.authService.ValidateToken(token)
	return userID, err
}
