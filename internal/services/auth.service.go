package services

import (
	"context"
	"strings"
	"time"
	"vehiclecare/config"
	"vehiclecare/internal/apperrors"
	"vehiclecare/internal/models"
	"vehiclecare/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email     string `json:"email"     validate:"required,email,max=255"`
	Password  string `json:"password"  validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName"  validate:"required,max=100"`
}

type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      models.UserProfile `json:"user"`
}

type Claims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

type AuthService struct {
	db          *gorm.DB
	users       repositories.UserRepository
	settings    repositories.UserSettingsRepository
	transaction Transactor
	secret      []byte
	expiry      time.Duration
	now         clock
	log         logger.Logger
}

func NewAuthService(
	db *gorm.DB,
	config config.Config,
	repos repositories.Repository,
	transaction Transactor,
) *AuthService {
	return &AuthService{
		db:          db,
		users:       repos.User,
		settings:    repos.UserSettings,
		transaction: transaction,
		secret:      []byte(config.JWTSecret),
		expiry:      time.Duration(config.JWTExpiryHours) * time.Hour,
		now:         time.Now,
		log:         logger.New("authService"),
	}
}

// Register creates the user together with default notification settings.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	log := s.log.Function("Register")

	email := strings.ToLower(strings.TrimSpace(input.Email))
	existing, err := s.users.GetByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
	}

	err = s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := s.users.Create(ctx, tx, user); err != nil {
			return err
		}
		_, err := s.settings.Create(ctx, tx, models.DefaultUserSettings(user.ID))
		return err
	})
	if err != nil {
		return nil, log.Err("failed to register user", err, "email", email)
	}

	log.Info("Registered user", "userID", user.ID)
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	log := s.log.Function("Login")

	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.users.GetByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, s.db, user.ID, now); err != nil {
		log.Warn("failed to update last login", "userID", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.ToProfile(),
	}, nil
}

func (s *AuthService) GenerateToken(user *models.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiry)

	claims := Claims{
		Admin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, s.log.Function("GenerateToken").Err("failed to sign token", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken returns the user id and admin flag carried by a valid token.
func (s *AuthService) ValidateToken(tokenString string) (uuid.UUID, bool, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, false, apperrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, false, apperrors.ErrInvalidToken
	}
	return userID, claims.Admin, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}
