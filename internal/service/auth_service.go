package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskmanager/internal/auth"
	apperrors "taskmanager/internal/errors"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
)

// RegisterInput carries the fields of a password registration.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// AuthService handles registration, password login and bearer-token identity.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (accessToken string, err error)
	CurrentUser(ctx context.Context, username string) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register creates a new user with hashed password.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if len(input.Password) > auth.MaxPasswordBytes {
		return nil, apperrors.Validation("password must be at most %d bytes", auth.MaxPasswordBytes)
	}

	// Check if username or email is taken
	existing, err := s.userRepo.FindByUsernameOrEmail(ctx, input.Username, input.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrAlreadyRegistered
	}
	// If error is not "record not found", return it (could be a database error)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Persistence("check user existence", err)
	}

	hashedPassword, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         input.Name,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: &hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race against a concurrent registration.
		if errors.Is(err, apperrors.ErrAlreadyRegistered) {
			return nil, apperrors.ErrAlreadyRegistered
		}
		return nil, apperrors.Persistence("create user", err)
	}

	return user, nil
}

// Login authenticates a user by username and password and returns an access token.
// Unknown users, OAuth-only users and wrong passwords are indistinguishable.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrInvalidCredentials
		}
		return "", apperrors.Persistence("find user", err)
	}

	if !user.HasPassword() || !auth.VerifyPassword(password, *user.PasswordHash) {
		return "", apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.Issue(user.Username, 0)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// CurrentUser loads the user named by a verified token subject.
// A subject without a user (e.g. renamed or removed) is unauthorized.
func (s *authService) CurrentUser(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.Persistence("find user", err)
	}
	return user, nil
}
