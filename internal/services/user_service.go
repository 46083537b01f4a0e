package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"storeroom_backend/internal/models"
	"storeroom_backend/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameExists = errors.New("username already exists")
	ErrUnknownRole    = errors.New("unknown role")
)

// --- User DTOs ---

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
	IsStaff  bool   `json:"is_staff"`
}

type UpdateUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	IsStaff  *bool   `json:"is_staff"`
	IsActive *bool   `json:"is_active"`
}

// --- UserService Interface ---

// UserService covers administrator-driven account management. Login and token
// issuance live in AuthService.
type UserService interface {
	CreateUser(req CreateUserRequest) (*models.User, error)
	GetUsers() ([]models.User, error)
	GetUserByID(userID int64) (*models.User, error)
	UpdateUser(userID int64, req UpdateUserRequest) (*models.User, error)
	DeleteUser(userID int64) error
}

type userService struct {
	userRepo repositories.UserRepository
	db       *sql.DB
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo repositories.UserRepository, db *sql.DB) UserService {
	return &userService{userRepo: userRepo, db: db}
}

func normalizeRole(role string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(role)) {
	case "":
		return models.RoleOperator, nil
	case models.RoleAdministrator:
		return models.RoleAdministrator, nil
	case models.RoleOperator:
		return models.RoleOperator, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
}

func (s *userService) CreateUser(req CreateUserRequest) (*models.User, error) {
	role, err := normalizeRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hashedPasswordBytes),
		Role:         role,
		IsStaff:      req.IsStaff,
		IsActive:     true,
	}

	if _, err := s.userRepo.CreateUser(s.db, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.PasswordHash = "" // Ensure hash is not returned
	return user, nil
}

func (s *userService) GetUsers() ([]models.User, error) {
	users, err := s.userRepo.GetUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

func (s *userService) GetUserByID(userID int64) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateUser(userID int64, req UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user for update: %w", err)
	}

	if req.Username != nil {
		if strings.TrimSpace(*req.Username) == "" {
			return nil, fmt.Errorf("%w: username cannot be empty if provided", ErrValidation)
		}
		user.Username = *req.Username
	}
	if req.Role != nil {
		role, err := normalizeRole(*req.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		user.Role = role
	}
	if req.IsStaff != nil {
		user.IsStaff = *req.IsStaff
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
		}
		hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashedPasswordBytes)
	}

	if err := s.userRepo.UpdateUser(s.db, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// DeleteUser removes an account. Ledger transactions recorded by the user are
// kept with a null actor reference (ON DELETE SET NULL).
func (s *userService) DeleteUser(userID int64) error {
	err := s.userRepo.DeleteUser(s.db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
