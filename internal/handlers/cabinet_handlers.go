package handlers

import (
	"errors"
	"net/http"

	"storeroom_backend/internal/services"
	"storeroom_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CabinetHandler holds the cabinet service.
type CabinetHandler struct {
	cabinetService services.CabinetService
}

// NewCabinetHandler creates a new CabinetHandler.
func NewCabinetHandler(cs services.CabinetService) *CabinetHandler {
	return &CabinetHandler{cabinetService: cs}
}

// CreateCabinet handles creation of a new cabinet.
func (h *CabinetHandler) CreateCabinet(c *gin.Context) {
	var req services.CreateCabinetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	cabinet, err := h.cabinetService.CreateCabinet(req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid cabinet data.", err.Error()))
		} else {
			utils.LogError(err, "CreateCabinet: Error from cabinetService.CreateCabinet")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create cabinet.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, cabinet)
}

// GetCabinets handles fetching all cabinets with their containers.
func (h *CabinetHandler) GetCabinets(c *gin.Context) {
	cabinets, err := h.cabinetService.GetCabinets()
	if err != nil {
		utils.LogError(err, "GetCabinets: Error from cabinetService.GetCabinets")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch cabinets.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, cabinets)
}

// GetCabinetByID handles fetching a single cabinet by ID.
func (h *CabinetHandler) GetCabinetByID(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid cabinet ID.", err.Error()))
		return
	}

	cabinet, err := h.cabinetService.GetCabinetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrCabinetNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Cabinet not found.", ""))
		} else {
			utils.LogError(err, "GetCabinetByID: Error from cabinetService.GetCabinetByID")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch cabinet.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, cabinet)
}

// UpdateCabinet handles updating an existing cabinet.
func (h *CabinetHandler) UpdateCabinet(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid cabinet ID.", err.Error()))
		return
	}

	var req services.UpdateCabinetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	cabinet, err := h.cabinetService.UpdateCabinet(id, req)
	if err != nil {
		if errors.Is(err, services.ErrCabinetNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Cabinet not found.", ""))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid cabinet data.", err.Error()))
		} else {
			utils.LogError(err, "UpdateCabinet: Error from cabinetService.UpdateCabinet")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update cabinet.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, cabinet)
}

// DeleteCabinet handles deleting a cabinet. Containers inside it and their
// transaction history are removed by cascade.
func (h *CabinetHandler) DeleteCabinet(c *gin.Context) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid cabinet ID.", err.Error()))
		return
	}

	if err := h.cabinetService.DeleteCabinet(id); err != nil {
		if errors.Is(err, services.ErrCabinetNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Cabinet not found.", ""))
		} else {
			utils.LogError(err, "DeleteCabinet: Error from cabinetService.DeleteCabinet")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete cabinet.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cabinet deleted successfully"})
}
