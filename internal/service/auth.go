package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/recipebox/recipebox-go/internal/crypto"
	"github.com/recipebox/recipebox-go/internal/model"
	"github.com/recipebox/recipebox-go/internal/repository"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// Input failures reported as *model.ValidationError.
var (
	ErrCredentialsRequired error = &model.ValidationError{Field: "username", Message: "username and password are required"}
	ErrPasswordTooLong     error = &model.ValidationError{Field: "password", Message: "password must be at most 72 bytes"}
)

// UserStore persists users. Create must report a taken username as
// repository.ErrDuplicateUsername; lookups report misses as repository.ErrUserNotFound.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// AuthService handles signup, login and session user lookups.
type AuthService struct {
	users     UserStore
	hashCost  int
	dummyHash string
}

// NewAuthService creates a new AuthService hashing passwords at the given bcrypt cost.
func NewAuthService(users UserStore, hashCost int) (*AuthService, error) {
	dummy, err := crypto.HashPassword("recipebox-timing-equalizer", hashCost)
	if err != nil {
		return nil, fmt.Errorf("preparing dummy hash: %w", err)
	}

	return &AuthService{
		users:     users,
		hashCost:  hashCost,
		dummyHash: dummy,
	}, nil
}

// Signup creates a new user account and returns its public projection.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (model.UserResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return model.UserResponse{}, ErrCredentialsRequired
	}

	user, err := model.NewUser(username, req.Password, req.ImageURL, req.Bio, s.hashCost)
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			return model.UserResponse{}, ErrPasswordTooLong
		}
		return model.UserResponse{}, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return model.UserResponse{}, ErrUsernameTaken
		}
		return model.UserResponse{}, err
	}

	slog.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return user.Public(), nil
}

// Login checks credentials and returns the user's public projection. An unknown
// username and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.UserResponse, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_, _ = crypto.VerifyPassword(req.Password, s.dummyHash)
			return model.UserResponse{}, ErrInvalidCredentials
		}
		return model.UserResponse{}, err
	}

	if !user.Authenticate(req.Password) {
		return model.UserResponse{}, ErrInvalidCredentials
	}

	return user.Public(), nil
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return user.Public(), nil
}
