package authController

import (
	"context"
	"testing"
	"vehiclecare/config"
	"vehiclecare/internal/apperrors"
	"vehiclecare/internal/repositories"
	"vehiclecare/internal/services"

	"github.com/stretchr/testify/assert"
)

func newController() AuthControllerInterface {
	auth := services.NewAuthService(nil, config.Config{JWTSecret: "secret", JWTExpiryHours: 1}, repositories.Repository{}, nil)
	return New(services.Service{Auth: auth})
}

func TestRegister_RejectsInvalidInput(t *testing.T) {
	ac := newController()

	testCases := []struct {
		name    string
		request services.RegisterInput
	}{
		{
			name:    "missing email",
			request: services.RegisterInput{Password: "long-enough", FirstName: "A", LastName: "B"},
		},
		{
			name:    "malformed email",
			request: services.RegisterInput{Email: "nope", Password: "long-enough", FirstName: "A", LastName: "B"},
		},
		{
			name:    "short password",
			request: services.RegisterInput{Email: "a@b.co", Password: "short", FirstName: "A", LastName: "B"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ac.Register(context.Background(), tc.request)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestAuthenticate_RejectsBadToken(t *testing.T) {
	ac := newController()

	_, err := ac.Authenticate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = ac.ValidateToken("")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
