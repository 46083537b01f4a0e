package handlers

import (
	"net/http"

	"storeroom_backend/internal/services"
	"storeroom_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the ledger service for read-side aggregations.
type ReportHandler struct {
	ledgerService services.LedgerService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(ls services.LedgerService) *ReportHandler {
	return &ReportHandler{ledgerService: ls}
}

// GetSummaryReport returns the inventory summary, optionally scoped to a
// single cabinet via the cabinet_id query parameter. The total cabinet count
// is only included in the unscoped report.
func (h *ReportHandler) GetSummaryReport(c *gin.Context) {
	var cabinetID *int64
	if cabinetIDStr := c.Query("cabinet_id"); cabinetIDStr != "" {
		id, err := utils.StrToInt64(cabinetIDStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid cabinet_id format.", err.Error()))
			return
		}
		cabinetID = &id
	}

	report, err := h.ledgerService.GetSummaryReport(cabinetID)
	if err != nil {
		utils.LogError(err, "GetSummaryReport: Error from ledgerService.GetSummaryReport")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build summary report.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, report)
}
