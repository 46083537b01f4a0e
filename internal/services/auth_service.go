package services

import (
	"errors"
	"fmt"

	"storeroom_backend/internal/models"
	"storeroom_backend/internal/repositories"
	"storeroom_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenGeneration    = errors.New("failed to generate token")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)

// --- DTOs ---

// LoginRequest DTO
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest DTO
type RefreshRequest struct {
	RefreshToken string `json:"refresh" binding:"required"`
}

// AuthResponse DTO
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access"`
	RefreshToken string       `json:"refresh,omitempty"`
}

// --- AuthService Interface ---
type AuthService interface {
	LoginUser(req LoginRequest) (*AuthResponse, error)
	RefreshToken(req RefreshRequest) (*AuthResponse, error)
	GetUserProfile(userID int64) (*models.User, error)
}

// --- authService Implementation ---
type authService struct {
	userRepo repositories.UserRepository
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// LoginUser handles user login and token generation. The role claim embedded
// in the access token is normalized here, at the identity boundary: if the
// stored role is empty the staff flag decides between ADMINISTRATOR and
// OPERATOR, so downstream authorization never sees an empty role.
func (s *authService) LoginUser(req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Username, user.EffectiveRole())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	user.PasswordHash = "" // Clear password hash before returning user details
	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a fresh token pair.
func (s *authService) RefreshToken(req RefreshRequest) (*AuthResponse, error) {
	claims, err := utils.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefresh, err)
	}

	user, err := s.userRepo.FindUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, fmt.Errorf("refresh attempt failed: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidRefresh
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Username, user.EffectiveRole())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	user.PasswordHash = ""
	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GetUserProfile retrieves a user's profile by their ID.
func (s *authService) GetUserProfile(userID int64) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user profile: %w", err)
	}
	user.PasswordHash = "" // Ensure password hash is not exposed
	return user, nil
}
