package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"storeroom_backend/internal/models"
	"storeroom_backend/internal/repositories"

	"github.com/google/uuid"
)

// --- Custom Service Errors for the Ledger ---
var (
	ErrContainerNotFound = errors.New("container not found")
	ErrCabinetNotFound   = errors.New("cabinet not found")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrValidation        = errors.New("validation error")
)

// --- DTOs ---

type CreateContainerRequest struct {
	Name              string   `json:"name" binding:"required"`
	Unit              string   `json:"unit" binding:"required"`
	LowStockThreshold *float64 `json:"low_stock_threshold"`
	InitialQuantity   *float64 `json:"initial_quantity" binding:"required"`
	CabinetID         int64    `json:"cabinet" binding:"required"`
}

type UpdateContainerRequest struct {
	Name              *string  `json:"name"`
	Unit              *string  `json:"unit"`
	LowStockThreshold *float64 `json:"low_stock_threshold"`
	CabinetID         *int64   `json:"cabinet"`
}

// QuantityRequest carries the single quantity field of write-off and
// replenish calls. A pointer distinguishes a missing field from zero.
type QuantityRequest struct {
	Quantity *float64 `json:"quantity"`
}

// --- LedgerService Interface ---

// LedgerService owns every mutation of a container's current quantity. Each
// mutation is validated, applied and recorded as one immutable transaction
// row inside a single database transaction, so the projection and the audit
// log cannot drift apart and a write-off can never drive stock below zero.
type LedgerService interface {
	CreateContainer(req CreateContainerRequest, actorID int64) (*models.Container, error)
	WriteOff(containerID string, quantity *float64, actorID int64) (*models.Container, error)
	Replenish(containerID string, quantity *float64, actorID int64) (*models.Container, error)

	GetContainerByID(containerID string) (*models.Container, error)
	GetContainers(cabinetID *int64) ([]models.Container, error)
	UpdateContainer(containerID string, req UpdateContainerRequest) (*models.Container, error)
	DeleteContainer(containerID string) error

	GetTransactions(containerID *string) ([]models.Transaction, error)
	GetSummaryReport(cabinetID *int64) (*models.SummaryReport, error)
}

// --- ledgerService Implementation ---

type ledgerService struct {
	containerRepo   repositories.ContainerRepository
	transactionRepo repositories.TransactionRepository
	cabinetRepo     repositories.CabinetRepository
	db              *sql.DB
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	containerRepo repositories.ContainerRepository,
	transactionRepo repositories.TransactionRepository,
	cabinetRepo repositories.CabinetRepository,
	db *sql.DB,
) LedgerService {
	return &ledgerService{
		containerRepo:   containerRepo,
		transactionRepo: transactionRepo,
		cabinetRepo:     cabinetRepo,
		db:              db,
	}
}

// validQuantity checks the quantity argument of write-off and replenish:
// present, finite and strictly positive.
func validQuantity(quantity *float64) bool {
	if quantity == nil {
		return false
	}
	if math.IsNaN(*quantity) || math.IsInf(*quantity, 0) {
		return false
	}
	return *quantity > 0
}

func (s *ledgerService) CreateContainer(req CreateContainerRequest, actorID int64) (container *models.Container, err error) {
	defer func() { recordLedgerOperation("create_container", err) }()

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: container name cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(req.Unit) == "" {
		return nil, fmt.Errorf("%w: unit cannot be empty", ErrValidation)
	}
	if req.InitialQuantity == nil || math.IsNaN(*req.InitialQuantity) || math.IsInf(*req.InitialQuantity, 0) {
		return nil, fmt.Errorf("%w: initial quantity must be a finite number", ErrValidation)
	}

	threshold := 0.0
	if req.LowStockThreshold != nil {
		if math.IsNaN(*req.LowStockThreshold) || math.IsInf(*req.LowStockThreshold, 0) || *req.LowStockThreshold < 0 {
			return nil, fmt.Errorf("%w: low stock threshold must be a non-negative number", ErrValidation)
		}
		threshold = *req.LowStockThreshold
	}

	if _, err := s.cabinetRepo.GetCabinetByID(req.CabinetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCabinetNotFound
		}
		return nil, fmt.Errorf("failed to verify cabinet: %w", err)
	}

	container = &models.Container{
		ID:                uuid.NewString(),
		Name:              req.Name,
		Unit:              req.Unit,
		LowStockThreshold: threshold,
		InitialQuantity:   *req.InitialQuantity,
		CurrentQuantity:   *req.InitialQuantity,
		CabinetID:         req.CabinetID,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.containerRepo.CreateContainer(tx, container); err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	initial := models.Transaction{
		ContainerID:     container.ID,
		UserID:          &actorID,
		TransactionType: models.TransactionInitial,
		QuantityChange:  container.InitialQuantity,
	}
	if _, err := s.transactionRepo.CreateTransaction(tx, &initial); err != nil {
		return nil, fmt.Errorf("failed to record initial transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit container creation: %w", err)
	}

	return s.GetContainerByID(container.ID)
}

func (s *ledgerService) WriteOff(containerID string, quantity *float64, actorID int64) (container *models.Container, err error) {
	defer func() { recordLedgerOperation("write_off", err) }()

	if !validQuantity(quantity) {
		return nil, ErrInvalidQuantity
	}
	return s.applyQuantityChange(containerID, models.TransactionWriteOff, -*quantity, actorID)
}

func (s *ledgerService) Replenish(containerID string, quantity *float64, actorID int64) (container *models.Container, err error) {
	defer func() { recordLedgerOperation("replenish", err) }()

	if !validQuantity(quantity) {
		return nil, ErrInvalidQuantity
	}
	return s.applyQuantityChange(containerID, models.TransactionReplenish, *quantity, actorID)
}

// applyQuantityChange is the single write path for current_quantity. It locks
// the container row, checks the non-negativity precondition, updates the
// projection and appends the audit row, all in one database transaction.
func (s *ledgerService) applyQuantityChange(containerID, transactionType string, delta float64, actorID int64) (*models.Container, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	container, err := s.containerRepo.GetContainerForUpdate(tx, containerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContainerNotFound
		}
		return nil, fmt.Errorf("failed to lock container: %w", err)
	}

	newQuantity := container.CurrentQuantity + delta
	if delta < 0 && container.CurrentQuantity < -delta {
		return nil, fmt.Errorf("%w: remaining quantity %g", ErrInsufficientStock, container.CurrentQuantity)
	}

	if err := s.containerRepo.UpdateQuantity(tx, containerID, newQuantity); err != nil {
		return nil, fmt.Errorf("failed to update container quantity: %w", err)
	}

	record := models.Transaction{
		ContainerID:     containerID,
		UserID:          &actorID,
		TransactionType: transactionType,
		QuantityChange:  delta,
	}
	if _, err := s.transactionRepo.CreateTransaction(tx, &record); err != nil {
		return nil, fmt.Errorf("failed to record %s transaction: %w", transactionType, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit quantity change: %w", err)
	}

	return s.GetContainerByID(containerID)
}

func (s *ledgerService) GetContainerByID(containerID string) (*models.Container, error) {
	container, err := s.containerRepo.GetContainerByID(containerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContainerNotFound
		}
		return nil, fmt.Errorf("failed to get container by ID: %w", err)
	}
	return container, nil
}

func (s *ledgerService) GetContainers(cabinetID *int64) ([]models.Container, error) {
	containers, err := s.containerRepo.GetContainers(cabinetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get containers: %w", err)
	}
	return containers, nil
}

func (s *ledgerService) UpdateContainer(containerID string, req UpdateContainerRequest) (*models.Container, error) {
	container, err := s.containerRepo.GetContainerByID(containerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContainerNotFound
		}
		return nil, fmt.Errorf("failed to find container for update: %w", err)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: container name cannot be empty if provided", ErrValidation)
		}
		container.Name = *req.Name
	}
	if req.Unit != nil {
		if strings.TrimSpace(*req.Unit) == "" {
			return nil, fmt.Errorf("%w: unit cannot be empty if provided", ErrValidation)
		}
		container.Unit = *req.Unit
	}
	if req.LowStockThreshold != nil {
		if math.IsNaN(*req.LowStockThreshold) || math.IsInf(*req.LowStockThreshold, 0) || *req.LowStockThreshold < 0 {
			return nil, fmt.Errorf("%w: low stock threshold must be a non-negative number", ErrValidation)
		}
		container.LowStockThreshold = *req.LowStockThreshold
	}
	if req.CabinetID != nil {
		if _, err := s.cabinetRepo.GetCabinetByID(*req.CabinetID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrCabinetNotFound
			}
			return nil, fmt.Errorf("failed to verify cabinet: %w", err)
		}
		container.CabinetID = *req.CabinetID
	}

	if err := s.containerRepo.UpdateContainer(s.db, container); err != nil {
		return nil, fmt.Errorf("failed to update container: %w", err)
	}
	return s.GetContainerByID(containerID)
}

func (s *ledgerService) DeleteContainer(containerID string) error {
	err := s.containerRepo.DeleteContainer(s.db, containerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrContainerNotFound
		}
		return fmt.Errorf("failed to delete container: %w", err)
	}
	return nil
}

func (s *ledgerService) GetTransactions(containerID *string) ([]models.Transaction, error) {
	transactions, err := s.transactionRepo.GetTransactions(containerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}

// GetSummaryReport is a read-side aggregation over the container table. It
// runs outside any transaction; each section reflects the table at the time
// of its own query.
func (s *ledgerService) GetSummaryReport(cabinetID *int64) (*models.SummaryReport, error) {
	totalContainers, err := s.containerRepo.CountContainers(cabinetID)
	if err != nil {
		return nil, fmt.Errorf("failed to count containers: %w", err)
	}

	materialsSummary, err := s.containerRepo.GetMaterialsSummary(cabinetID)
	if err != nil {
		return nil, fmt.Errorf("failed to build materials summary: %w", err)
	}

	lowStockItems, err := s.containerRepo.GetLowStockContainers(cabinetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get low stock containers: %w", err)
	}

	fullInventory, err := s.containerRepo.GetContainers(cabinetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get full inventory: %w", err)
	}

	report := &models.SummaryReport{
		TotalContainers:  totalContainers,
		MaterialsSummary: materialsSummary,
		LowStockItems:    lowStockItems,
		FullInventory:    fullInventory,
	}

	// Cabinet count only makes sense for the unscoped report.
	if cabinetID == nil {
		totalCabinets, err := s.cabinetRepo.CountCabinets()
		if err != nil {
			return nil, fmt.Errorf("failed to count cabinets: %w", err)
		}
		report.TotalCabinets = &totalCabinets
	}

	return report, nil
}
