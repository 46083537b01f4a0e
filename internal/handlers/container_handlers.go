package handlers

import (
	"errors"
	"net/http"

	"storeroom_backend/internal/middleware"
	"storeroom_backend/internal/services"
	"storeroom_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ContainerHandler holds the ledger service.
type ContainerHandler struct {
	ledgerService services.LedgerService
}

// NewContainerHandler creates a new ContainerHandler.
func NewContainerHandler(ls services.LedgerService) *ContainerHandler {
	return &ContainerHandler{ledgerService: ls}
}

// CreateContainer handles the creation of a new container together with its
// INITIAL ledger transaction.
func (h *ContainerHandler) CreateContainer(c *gin.Context) {
	var req services.CreateContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	actorID, ok := middleware.ActorID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", ""))
		return
	}

	container, err := h.ledgerService.CreateContainer(req, actorID)
	if err != nil {
		if errors.Is(err, services.ErrCabinetNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Referenced cabinet does not exist.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid container data.", err.Error()))
		} else {
			utils.LogError(err, "CreateContainer: Error from ledgerService.CreateContainer")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create container.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, container)
}

// GetContainers handles fetching all containers, optionally scoped to one cabinet.
func (h *ContainerHandler) GetContainers(c *gin.Context) {
	var cabinetID *int64
	if cabinetIDStr := c.Query("cabinet_id"); cabinetIDStr != "" {
		id, err := utils.StrToInt64(cabinetIDStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid cabinet_id format.", err.Error()))
			return
		}
		cabinetID = &id
	}

	containers, err := h.ledgerService.GetContainers(cabinetID)
	if err != nil {
		utils.LogError(err, "GetContainers: Error from ledgerService.GetContainers")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch containers.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, containers)
}

// GetContainerByID handles fetching a single container.
func (h *ContainerHandler) GetContainerByID(c *gin.Context) {
	container, err := h.ledgerService.GetContainerByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrContainerNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Container not found.", ""))
		} else {
			utils.LogError(err, "GetContainerByID: Error from ledgerService.GetContainerByID")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch container.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, container)
}

// UpdateContainer handles updates to descriptive container fields. Quantities
// cannot be changed here; that is what write-off and replenish are for.
func (h *ContainerHandler) UpdateContainer(c *gin.Context) {
	var req services.UpdateContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	container, err := h.ledgerService.UpdateContainer(c.Param("id"), req)
	if err != nil {
		if errors.Is(err, services.ErrContainerNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Container not found.", ""))
		} else if errors.Is(err, services.ErrCabinetNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Referenced cabinet does not exist.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid container data.", err.Error()))
		} else {
			utils.LogError(err, "UpdateContainer: Error from ledgerService.UpdateContainer")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update container.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, container)
}

// DeleteContainer handles deleting a container and, by cascade, its
// transaction history.
func (h *ContainerHandler) DeleteContainer(c *gin.Context) {
	if err := h.ledgerService.DeleteContainer(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrContainerNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Container not found.", ""))
		} else {
			utils.LogError(err, "DeleteContainer: Error from ledgerService.DeleteContainer")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete container.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Container deleted successfully"})
}

// WriteOff removes a quantity from the container and records a WRITE_OFF
// transaction. Open to any authenticated user.
func (h *ContainerHandler) WriteOff(c *gin.Context) {
	var req services.QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid quantity.", err.Error()))
		return
	}

	actorID, ok := middleware.ActorID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", ""))
		return
	}

	container, err := h.ledgerService.WriteOff(c.Param("id"), req.Quantity, actorID)
	if err != nil {
		h.respondQuantityChangeError(c, err, "WriteOff")
		return
	}
	c.JSON(http.StatusOK, container)
}

// Replenish adds a quantity to the container and records a REPLENISH
// transaction. The administrator-only restriction is enforced at the route.
func (h *ContainerHandler) Replenish(c *gin.Context) {
	var req services.QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid quantity.", err.Error()))
		return
	}

	actorID, ok := middleware.ActorID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", ""))
		return
	}

	container, err := h.ledgerService.Replenish(c.Param("id"), req.Quantity, actorID)
	if err != nil {
		h.respondQuantityChangeError(c, err, "Replenish")
		return
	}
	c.JSON(http.StatusOK, container)
}

// respondQuantityChangeError maps ledger errors of write-off/replenish onto
// API errors. The insufficient-stock message carries the remaining quantity
// so the caller does not need a follow-up read.
func (h *ContainerHandler) respondQuantityChangeError(c *gin.Context, err error, operation string) {
	switch {
	case errors.Is(err, services.ErrInvalidQuantity):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid quantity.", err.Error()))
	case errors.Is(err, services.ErrInsufficientStock):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeInsufficientStock, "Insufficient stock. "+err.Error(), err.Error()))
	case errors.Is(err, services.ErrContainerNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Container not found.", ""))
	default:
		utils.LogError(err, operation+": Error from ledgerService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to apply quantity change.", "Internal error"))
	}
}
