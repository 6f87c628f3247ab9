package dto

import "github.com/shopspring/decimal"

type CreateReturnRequest struct {
	OrderID     string  `json:"order_id"    validate:"required,uuid"`
	CustomerID  string  `json:"customer_id" validate:"required,uuid"`
	Reason      string  `json:"reason"      validate:"required,min=3"`
	Description *string `json:"description"`
}

type ProcessReturnRequest struct {
	Status string `json:"status" validate:"required,oneof=Approved Rejected"`
	// RefundAmount overrides the default (the order's final amount).
	RefundAmount *decimal.Decimal `json:"refund_amount" validate:"omitempty"`
}

type ReturnFilter struct {
	CustomerID string `form:"customer_id" validate:"omitempty,uuid"`
	Status     string `form:"status"      validate:"omitempty,oneof=Pending Approved Rejected all"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ReturnResponse struct {
	ID           string           `json:"id"`
	OrderID      string           `json:"order_id"`
	OrderNumber  string           `json:"order_number,omitempty"`
	CustomerID   string           `json:"customer_id"`
	Reason       string           `json:"reason"`
	Description  *string          `json:"description,omitempty"`
	Status       string           `json:"status"`
	RefundAmount *decimal.Decimal `json:"refund_amount,omitempty"`
	ProcessedBy  *string          `json:"processed_by,omitempty"`
	ProcessedAt  *string          `json:"processed_at,omitempty"`
	CreatedAt    string           `json:"created_at"`
}

type ReturnListResponse struct {
	Data  []ReturnResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
