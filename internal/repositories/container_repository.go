package repositories

import (
	"database/sql"
	"strings"
	"time"

	"storeroom_backend/internal/models"
)

// ContainerRepository defines the interface for container-related database
// operations. Quantity writes go through GetContainerForUpdate +
// UpdateQuantity inside a transaction so the ledger service can pair the
// projection update with its audit insert atomically.
type ContainerRepository interface {
	CreateContainer(executor SQLExecutor, container *models.Container) error
	GetContainerByID(containerID string) (*models.Container, error)
	GetContainerForUpdate(executor SQLExecutor, containerID string) (*models.Container, error)
	UpdateQuantity(executor SQLExecutor, containerID string, newQuantity float64) error
	GetContainers(cabinetID *int64) ([]models.Container, error)
	UpdateContainer(executor SQLExecutor, container *models.Container) error
	DeleteContainer(executor SQLExecutor, containerID string) error
	CountContainers(cabinetID *int64) (int, error)
	GetMaterialsSummary(cabinetID *int64) ([]models.MaterialSummary, error)
	GetLowStockContainers(cabinetID *int64) ([]models.Container, error)
}

type containerRepository struct {
	db *sql.DB
}

// NewContainerRepository creates a new instance of ContainerRepository.
func NewContainerRepository(db *sql.DB) ContainerRepository {
	return &containerRepository{db: db}
}

func (r *containerRepository) CreateContainer(executor SQLExecutor, container *models.Container) error {
	query := `INSERT INTO containers
	          (id, name, unit, low_stock_threshold, initial_quantity, current_quantity, cabinet_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING created_at`
	if container.CreatedAt.IsZero() {
		container.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		container.ID, container.Name, container.Unit, container.LowStockThreshold,
		container.InitialQuantity, container.CurrentQuantity, container.CabinetID, container.CreatedAt,
	).Scan(&container.CreatedAt)
	if err != nil {
		return translateError(err, "creating container")
	}
	return nil
}

func (r *containerRepository) GetContainerByID(containerID string) (*models.Container, error) {
	var container models.Container
	query := `SELECT c.id, c.name, c.unit, c.low_stock_threshold, c.initial_quantity,
	                 c.current_quantity, c.cabinet_id, cab.name, c.created_at
	          FROM containers c
	          JOIN cabinets cab ON c.cabinet_id = cab.id
	          WHERE c.id = $1`
	err := r.db.QueryRow(query, containerID).Scan(
		&container.ID, &container.Name, &container.Unit, &container.LowStockThreshold,
		&container.InitialQuantity, &container.CurrentQuantity, &container.CabinetID,
		&container.CabinetName, &container.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err, "getting container by id")
	}
	return &container, nil
}

// GetContainerForUpdate locks the container row for the duration of the
// surrounding transaction. Two concurrent ledger operations on the same
// container serialize here; operations on different containers do not contend.
func (r *containerRepository) GetContainerForUpdate(executor SQLExecutor, containerID string) (*models.Container, error) {
	var container models.Container
	query := `SELECT id, name, unit, low_stock_threshold, initial_quantity,
	                 current_quantity, cabinet_id, created_at
	          FROM containers WHERE id = $1 FOR UPDATE`
	err := executor.QueryRow(query, containerID).Scan(
		&container.ID, &container.Name, &container.Unit, &container.LowStockThreshold,
		&container.InitialQuantity, &container.CurrentQuantity, &container.CabinetID,
		&container.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err, "locking container for update")
	}
	return &container, nil
}

func (r *containerRepository) UpdateQuantity(executor SQLExecutor, containerID string, newQuantity float64) error {
	result, err := executor.Exec(
		"UPDATE containers SET current_quantity = $1 WHERE id = $2",
		newQuantity, containerID,
	)
	if err != nil {
		return translateError(err, "updating container quantity")
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *containerRepository) GetContainers(cabinetID *int64) ([]models.Container, error) {
	containers := []models.Container{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT c.id, c.name, c.unit, c.low_stock_threshold, c.initial_quantity,
	       c.current_quantity, c.cabinet_id, cab.name, c.created_at
	  FROM containers c
	  JOIN cabinets cab ON c.cabinet_id = cab.id`)

	var args []interface{}
	if cabinetID != nil {
		queryBuilder.WriteString(" WHERE c.cabinet_id = $1")
		args = append(args, *cabinetID)
	}
	queryBuilder.WriteString(" ORDER BY cab.name, c.name")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, translateError(err, "getting containers")
	}
	defer rows.Close()

	for rows.Next() {
		var container models.Container
		if err := rows.Scan(
			&container.ID, &container.Name, &container.Unit, &container.LowStockThreshold,
			&container.InitialQuantity, &container.CurrentQuantity, &container.CabinetID,
			&container.CabinetName, &container.CreatedAt,
		); err != nil {
			return nil, translateError(err, "scanning container")
		}
		containers = append(containers, container)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterating containers")
	}
	return containers, nil
}

// UpdateContainer changes descriptive fields only. Quantities are off limits
// here: current_quantity belongs to the ledger operations and
// initial_quantity is immutable after creation.
func (r *containerRepository) UpdateContainer(executor SQLExecutor, container *models.Container) error {
	query := `UPDATE containers SET name = $1, unit = $2, low_stock_threshold = $3, cabinet_id = $4
	          WHERE id = $5`
	result, err := executor.Exec(query,
		container.Name, container.Unit, container.LowStockThreshold, container.CabinetID, container.ID,
	)
	if err != nil {
		return translateError(err, "updating container")
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *containerRepository) DeleteContainer(executor SQLExecutor, containerID string) error {
	result, err := executor.Exec("DELETE FROM containers WHERE id = $1", containerID)
	if err != nil {
		return translateError(err, "deleting container")
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *containerRepository) CountContainers(cabinetID *int64) (int, error) {
	var count int
	var err error
	if cabinetID != nil {
		err = r.db.QueryRow("SELECT COUNT(*) FROM containers WHERE cabinet_id = $1", *cabinetID).Scan(&count)
	} else {
		err = r.db.QueryRow("SELECT COUNT(*) FROM containers").Scan(&count)
	}
	if err != nil {
		return 0, translateError(err, "counting containers")
	}
	return count, nil
}

func (r *containerRepository) GetMaterialsSummary(cabinetID *int64) ([]models.MaterialSummary, error) {
	summary := []models.MaterialSummary{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT name, unit, SUM(current_quantity) FROM containers")
	var args []interface{}
	if cabinetID != nil {
		queryBuilder.WriteString(" WHERE cabinet_id = $1")
		args = append(args, *cabinetID)
	}
	queryBuilder.WriteString(" GROUP BY name, unit ORDER BY name")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, translateError(err, "getting materials summary")
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.MaterialSummary
		if err := rows.Scan(&entry.Name, &entry.Unit, &entry.TotalQuantity); err != nil {
			return nil, translateError(err, "scanning materials summary")
		}
		summary = append(summary, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterating materials summary")
	}
	return summary, nil
}

func (r *containerRepository) GetLowStockContainers(cabinetID *int64) ([]models.Container, error) {
	containers := []models.Container{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT c.id, c.name, c.unit, c.low_stock_threshold, c.initial_quantity,
	       c.current_quantity, c.cabinet_id, cab.name, c.created_at
	  FROM containers c
	  JOIN cabinets cab ON c.cabinet_id = cab.id
	  WHERE c.current_quantity <= c.low_stock_threshold`)

	var args []interface{}
	if cabinetID != nil {
		queryBuilder.WriteString(" AND c.cabinet_id = $1")
		args = append(args, *cabinetID)
	}
	queryBuilder.WriteString(" ORDER BY c.name")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, translateError(err, "getting low stock containers")
	}
	defer rows.Close()

	for rows.Next() {
		var container models.Container
		if err := rows.Scan(
			&container.ID, &container.Name, &container.Unit, &container.LowStockThreshold,
			&container.InitialQuantity, &container.CurrentQuantity, &container.CabinetID,
			&container.CabinetName, &container.CreatedAt,
		); err != nil {
			return nil, translateError(err, "scanning low stock container")
		}
		containers = append(containers, container)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterating low stock containers")
	}
	return containers, nil
}
