package dto

import "github.com/shopspring/decimal"

// ReplenishRequest creates a new stock batch (stock-in or purchase receipt).
type ReplenishRequest struct {
	ProductID  string          `json:"product_id" validate:"required,uuid"`
	BranchID   string          `json:"branch_id"  validate:"required,uuid"`
	Quantity   int             `json:"quantity"   validate:"required,min=1"`
	UnitCost   decimal.Decimal `json:"unit_cost"  validate:"required"`
	BatchNo    string          `json:"batch_no"   validate:"required"`
	SupplierID *string         `json:"supplier_id" validate:"omitempty,uuid"`
}

// BatchFilter is bound from the query string of GET /v1/stock/batches.
type BatchFilter struct {
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	BranchID  string `form:"branch_id"  validate:"omitempty,uuid"`
	Status    string `form:"status"     validate:"omitempty,oneof=InStock Sold Returned all"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type BatchResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	BranchID     string          `json:"branch_id"`
	BatchNo      string          `json:"batch_no"`
	Quantity     int             `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	ReceivedDate string          `json:"received_date"`
	Status       string          `json:"status"`
}

type BatchListResponse struct {
	Data  []BatchResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// AvailabilityResponse is served by the public availability check, backed by
// a short-TTL redis cache.
type AvailabilityResponse struct {
	ProductID   string          `json:"product_id"`
	BranchID    string          `json:"branch_id"`
	Product     string          `json:"product"`
	RetailPrice decimal.Decimal `json:"retail_price"`
	Available   int             `json:"available"`
}
