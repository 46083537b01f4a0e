package models

import "time"

// Transaction types recorded in the ledger.
const (
	TransactionInitial   = "INITIAL"
	TransactionWriteOff  = "WRITE_OFF"
	TransactionReplenish = "REPLENISH"
)

// Container represents a trackable quantity of material stored in a cabinet.
// The ID is an opaque UUID generated at creation and never reused.
// CurrentQuantity is a projection maintained exclusively by the ledger
// service; no other code path writes it.
type Container struct {
	ID                string    `json:"id"`
	Name              string    `json:"name" db:"name"`
	Unit              string    `json:"unit" db:"unit"`
	LowStockThreshold float64   `json:"low_stock_threshold" db:"low_stock_threshold"`
	InitialQuantity   float64   `json:"initial_quantity" db:"initial_quantity"`
	CurrentQuantity   float64   `json:"current_quantity" db:"current_quantity"`
	CabinetID         int64     `json:"cabinet" db:"cabinet_id"`
	CabinetName       string    `json:"cabinet_name,omitempty"` // For joining with Cabinet
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// Transaction is an immutable audit record of one quantity change. Rows are
// append-only: they are never updated, and only disappear when their container
// is deleted. The acting user is kept nullable so the record survives user
// removal.
type Transaction struct {
	ID              int64     `json:"id"`
	ContainerID     string    `json:"container" db:"container_id"`
	ContainerName   string    `json:"container_name,omitempty"` // For joining with Container
	UserID          *int64    `json:"user_id,omitempty" db:"user_id"`
	Username        *string   `json:"user,omitempty"` // For joining with User
	TransactionType string    `json:"transaction_type" db:"transaction_type"`
	QuantityChange  float64   `json:"quantity_change" db:"quantity_change"`
	Timestamp       time.Time `json:"timestamp" db:"timestamp"`
}
