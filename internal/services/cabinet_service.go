package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"storeroom_backend/internal/models"
	"storeroom_backend/internal/repositories"
	"storeroom_backend/pkg/utils"
)

// --- Cabinet DTOs ---
type CreateCabinetRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}
type UpdateCabinetRequest struct {
	Name        *string `json:"name"` // Pointer to distinguish between empty and not provided
	Description *string `json:"description"`
}

// --- CabinetService Interface ---
type CabinetService interface {
	CreateCabinet(req CreateCabinetRequest) (*models.Cabinet, error)
	GetCabinets() ([]models.Cabinet, error)
	GetCabinetByID(cabinetID int64) (*models.Cabinet, error)
	UpdateCabinet(cabinetID int64, req UpdateCabinetRequest) (*models.Cabinet, error)
	DeleteCabinet(cabinetID int64) error
}

// --- cabinetService Implementation ---
type cabinetService struct {
	cabinetRepo   repositories.CabinetRepository
	containerRepo repositories.ContainerRepository
	db            *sql.DB
}

// NewCabinetService creates a new instance of CabinetService.
func NewCabinetService(cabinetRepo repositories.CabinetRepository, containerRepo repositories.ContainerRepository, db *sql.DB) CabinetService {
	return &cabinetService{
		cabinetRepo:   cabinetRepo,
		containerRepo: containerRepo,
		db:            db,
	}
}

func (s *cabinetService) CreateCabinet(req CreateCabinetRequest) (*models.Cabinet, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: cabinet name cannot be empty", ErrValidation)
	}
	// An omitted or empty description is stored as NULL, not "".
	cabinet := &models.Cabinet{
		Name:        req.Name,
		Description: utils.NewNullString(req.Description),
	}
	if _, err := s.cabinetRepo.CreateCabinet(s.db, cabinet); err != nil {
		return nil, fmt.Errorf("failed to create cabinet: %w", err)
	}
	cabinet.Containers = []models.Container{}
	return cabinet, nil
}

// GetCabinets returns all cabinets with their containers embedded.
func (s *cabinetService) GetCabinets() ([]models.Cabinet, error) {
	cabinets, err := s.cabinetRepo.GetCabinets()
	if err != nil {
		return nil, fmt.Errorf("failed to get cabinets: %w", err)
	}
	for i := range cabinets {
		containers, err := s.containerRepo.GetContainers(&cabinets[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get containers for cabinet %d: %w", cabinets[i].ID, err)
		}
		cabinets[i].Containers = containers
	}
	return cabinets, nil
}

func (s *cabinetService) GetCabinetByID(cabinetID int64) (*models.Cabinet, error) {
	cabinet, err := s.cabinetRepo.GetCabinetByID(cabinetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCabinetNotFound
		}
		return nil, fmt.Errorf("failed to get cabinet by ID: %w", err)
	}
	containers, err := s.containerRepo.GetContainers(&cabinet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get containers for cabinet %d: %w", cabinet.ID, err)
	}
	cabinet.Containers = containers
	return cabinet, nil
}

func (s *cabinetService) UpdateCabinet(cabinetID int64, req UpdateCabinetRequest) (*models.Cabinet, error) {
	cabinet, err := s.cabinetRepo.GetCabinetByID(cabinetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCabinetNotFound
		}
		return nil, fmt.Errorf("failed to find cabinet for update: %w", err)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: cabinet name cannot be empty if provided", ErrValidation)
		}
		cabinet.Name = *req.Name
	}
	if req.Description != nil { // Sending "" clears the description to NULL
		cabinet.Description = utils.NewNullString(*req.Description)
	}

	if err := s.cabinetRepo.UpdateCabinet(s.db, cabinet); err != nil {
		return nil, fmt.Errorf("failed to update cabinet: %w", err)
	}
	return s.GetCabinetByID(cabinetID)
}

// DeleteCabinet removes a cabinet together with its containers and their
// transaction history (cascade).
func (s *cabinetService) DeleteCabinet(cabinetID int64) error {
	err := s.cabinetRepo.DeleteCabinet(s.db, cabinetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCabinetNotFound
		}
		return fmt.Errorf("failed to delete cabinet: %w", err)
	}
	return nil
}
