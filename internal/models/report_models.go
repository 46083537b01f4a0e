package models

// MaterialSummary aggregates current quantity across containers sharing the
// same (name, unit) pair.
type MaterialSummary struct {
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	TotalQuantity float64 `json:"total_quantity"`
}

// SummaryReport is the response body of the summary report endpoint.
// TotalCabinets is only populated when the report is not scoped to a single
// cabinet, hence the pointer.
type SummaryReport struct {
	TotalContainers  int               `json:"total_containers"`
	TotalCabinets    *int              `json:"total_cabinets,omitempty"`
	MaterialsSummary []MaterialSummary `json:"materials_summary"`
	LowStockItems    []Container       `json:"low_stock_items"`
	FullInventory    []Container       `json:"full_inventory"`
}
