package repositories

import (
	"database/sql"
	"time"

	"storeroom_backend/internal/models"
)

// CabinetRepository defines the interface for cabinet-related database operations.
type CabinetRepository interface {
	CreateCabinet(executor SQLExecutor, cabinet *models.Cabinet) (int64, error)
	GetCabinets() ([]models.Cabinet, error)
	GetCabinetByID(cabinetID int64) (*models.Cabinet, error)
	UpdateCabinet(executor SQLExecutor, cabinet *models.Cabinet) error
	DeleteCabinet(executor SQLExecutor, cabinetID int64) error
	CountCabinets() (int, error)
}

type cabinetRepository struct {
	db *sql.DB
}

// NewCabinetRepository creates a new instance of CabinetRepository.
func NewCabinetRepository(db *sql.DB) CabinetRepository {
	return &cabinetRepository{db: db}
}

func (r *cabinetRepository) CreateCabinet(executor SQLExecutor, cabinet *models.Cabinet) (int64, error) {
	query := `INSERT INTO cabinets (name, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`
	currentTime := time.Now()

	err := executor.QueryRow(query, cabinet.Name, cabinet.Description, currentTime, currentTime).
		Scan(&cabinet.ID, &cabinet.CreatedAt, &cabinet.UpdatedAt)
	if err != nil {
		return 0, translateError(err, "creating cabinet")
	}
	return cabinet.ID, nil
}

func (r *cabinetRepository) GetCabinets() ([]models.Cabinet, error) {
	cabinets := []models.Cabinet{}
	query := `SELECT id, name, description, created_at, updated_at FROM cabinets ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, translateError(err, "getting cabinets")
	}
	defer rows.Close()

	for rows.Next() {
		var cabinet models.Cabinet
		if err := rows.Scan(&cabinet.ID, &cabinet.Name, &cabinet.Description,
			&cabinet.CreatedAt, &cabinet.UpdatedAt); err != nil {
			return nil, translateError(err, "scanning cabinet")
		}
		cabinets = append(cabinets, cabinet)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterating cabinets")
	}
	return cabinets, nil
}

func (r *cabinetRepository) GetCabinetByID(cabinetID int64) (*models.Cabinet, error) {
	var cabinet models.Cabinet
	query := `SELECT id, name, description, created_at, updated_at FROM cabinets WHERE id = $1`
	err := r.db.QueryRow(query, cabinetID).Scan(
		&cabinet.ID, &cabinet.Name, &cabinet.Description, &cabinet.CreatedAt, &cabinet.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err, "getting cabinet by id")
	}
	return &cabinet, nil
}

func (r *cabinetRepository) UpdateCabinet(executor SQLExecutor, cabinet *models.Cabinet) error {
	query := `UPDATE cabinets SET name = $1, description = $2, updated_at = $3 WHERE id = $4`
	cabinet.UpdatedAt = time.Now()

	result, err := executor.Exec(query, cabinet.Name, cabinet.Description, cabinet.UpdatedAt, cabinet.ID)
	if err != nil {
		return translateError(err, "updating cabinet")
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCabinet removes a cabinet. Owned containers and their transactions go
// with it through the ON DELETE CASCADE constraints.
func (r *cabinetRepository) DeleteCabinet(executor SQLExecutor, cabinetID int64) error {
	result, err := executor.Exec("DELETE FROM cabinets WHERE id = $1", cabinetID)
	if err != nil {
		return translateError(err, "deleting cabinet")
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cabinetRepository) CountCabinets() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM cabinets").Scan(&count)
	if err != nil {
		return 0, translateError(err, "counting cabinets")
	}
	return count, nil
}
