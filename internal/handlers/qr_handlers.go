package handlers

import (
	"errors"
	"net/http"

	"storeroom_backend/internal/services"
	"storeroom_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// QRHandler renders QR code labels for containers.
type QRHandler struct {
	ledgerService services.LedgerService
}

// NewQRHandler creates a new QRHandler.
func NewQRHandler(ls services.LedgerService) *QRHandler {
	return &QRHandler{ledgerService: ls}
}

// GetContainerQR returns a PNG QR code for a container. The encoded payload
// is the "scan/{container_id}" path understood by the frontend scanner.
func (h *QRHandler) GetContainerQR(c *gin.Context) {
	containerID := c.Param("container_id")

	if _, err := h.ledgerService.GetContainerByID(containerID); err != nil {
		if errors.Is(err, services.ErrContainerNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Container not found.", ""))
		} else {
			utils.LogError(err, "GetContainerQR: Error from ledgerService.GetContainerByID")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch container.", "Internal error"))
		}
		return
	}

	png, err := qrcode.Encode("scan/"+containerID, qrcode.Medium, 256)
	if err != nil {
		utils.LogError(err, "GetContainerQR: Failed to encode QR code")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to generate QR code.", "Internal error"))
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
