package middleware

import (
	"context"
	"vehiclecare/config"
	"vehiclecare/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// Authenticator resolves a bearer token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type Middleware struct {
	Config        config.Config
	authenticator Authenticator
	log           logger.Logger
}

func New(config config.Config, authenticator Authenticator) Middleware {
	log := logger.New("middleware")

	return Middleware{
		Config:        config,
		authenticator: authenticator,
		log:           log,
	}
}
