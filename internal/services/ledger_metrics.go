package services

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var ledgerOperationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storeroom_ledger_operations_total",
		Help: "Ledger quantity operations, partitioned by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

func init() {
	prometheus.MustRegister(ledgerOperationsTotal)
}

// recordLedgerOperation classifies the result of a ledger mutation and bumps
// the operation counter. Outcome labels stay coarse to keep cardinality low.
func recordLedgerOperation(operation string, err error) {
	var outcome string
	switch {
	case err == nil:
		outcome = "success"
	case errors.Is(err, ErrInsufficientStock):
		outcome = "insufficient_stock"
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrValidation):
		outcome = "invalid"
	case errors.Is(err, ErrContainerNotFound), errors.Is(err, ErrCabinetNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	ledgerOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
