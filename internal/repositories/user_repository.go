package repositories

import (
	"database/sql"
	"time"

	"storeroom_backend/internal/models"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(executor SQLExecutor, user *models.User) (int64, error)
	FindUserByUsername(username string) (*models.User, error)
	FindUserByID(userID int64) (*models.User, error)
	GetUsers() ([]models.User, error)
	UpdateUser(executor SQLExecutor, user *models.User) error
	DeleteUser(executor SQLExecutor, userID int64) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(executor SQLExecutor, user *models.User) (int64, error) {
	query := `INSERT INTO users (username, password_hash, role, is_staff, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`
	currentTime := time.Now()

	err := executor.QueryRow(query,
		user.Username, user.PasswordHash, user.Role, user.IsStaff, user.IsActive,
		currentTime, currentTime,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return 0, translateError(err, "creating user")
	}
	return user.ID, nil
}

func (r *userRepository) FindUserByUsername(username string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, password_hash, role, is_staff, is_active, created_at, updated_at
	          FROM users WHERE username = $1`
	err := r.db.QueryRow(query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Role,
		&user.IsStaff, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err, "finding user by username")
	}
	return &user, nil
}

func (r *userRepository) FindUserByID(userID int64) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, password_hash, role, is_staff, is_active, created_at, updated_at
	          FROM users WHERE id = $1`
	err := r.db.QueryRow(query, userID).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Role,
		&user.IsStaff, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err, "finding user by id")
	}
	return &user, nil
}

func (r *userRepository) GetUsers() ([]models.User, error) {
	users := []models.User{}
	query := `SELECT id, username, role, is_staff, is_active, created_at, updated_at
	          FROM users ORDER BY username`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, translateError(err, "getting users")
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Role, &user.IsStaff,
			&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, translateError(err, "scanning user")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterating users")
	}
	return users, nil
}

func (r *userRepository) UpdateUser(executor SQLExecutor, user *models.User) error {
	query := `UPDATE users SET username = $1, password_hash = $2, role = $3, is_staff = $4,
	          is_active = $5, updated_at = $6 WHERE id = $7`
	user.UpdatedAt = time.Now()

	result, err := executor.Exec(query,
		user.Username, user.PasswordHash, user.Role, user.IsStaff,
		user.IsActive, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return translateError(err, "updating user")
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) DeleteUser(executor SQLExecutor, userID int64) error {
	result, err := executor.Exec("DELETE FROM users WHERE id = $1", userID)
	if err != nil {
		return translateError(err, "deleting user")
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
