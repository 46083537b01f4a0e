package handlers

import (
	"net/http"

	"storeroom_backend/internal/services"
	"storeroom_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TransactionHandler exposes the read-only ledger history. There are no
// create/update/delete handlers: transaction rows are written exclusively by
// the ledger operations and are immutable afterwards.
type TransactionHandler struct {
	ledgerService services.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ls services.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerService: ls}
}

// GetTransactions handles fetching the audit history, newest first,
// optionally filtered to a single container.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	var containerID *string
	if containerIDStr := c.Query("container_id"); containerIDStr != "" {
		containerID = &containerIDStr
	}

	transactions, err := h.ledgerService.GetTransactions(containerID)
	if err != nil {
		utils.LogError(err, "GetTransactions: Error from ledgerService.GetTransactions")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch transactions.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, transactions)
}
