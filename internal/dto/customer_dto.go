package dto

import "github.com/shopspring/decimal"

type CustomerResponse struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	Tier        string          `json:"tier"`
	TotalPoints int             `json:"total_points"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	Active      bool            `json:"active"`
}

type PointsEntryResponse struct {
	ID           string          `json:"id"`
	OrderID      *string         `json:"order_id,omitempty"`
	PointChange  int             `json:"point_change"`
	TransType    string          `json:"trans_type"`
	BalanceAfter int             `json:"balance_after"`
	SpentChange  decimal.Decimal `json:"spent_change"`
	Description  string          `json:"description"`
	CreatedAt    string          `json:"created_at"`
}

type PointsLedgerResponse struct {
	Data  []PointsEntryResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

type PointsFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}
