package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// OrderFilter is bound from the query string of GET /v1/orders. Optional
// fields are translated into a parameterized GORM query — never string
// concatenation.
type OrderFilter struct {
	CustomerID string `form:"customer_id" validate:"omitempty,uuid"`
	BranchID   string `form:"branch_id"   validate:"omitempty,uuid"`
	Status     string `form:"status"      validate:"omitempty,oneof=Pending Completed Returned Cancelled all"`
	Date       string `form:"date"` // YYYY-MM-DD; empty = no date filter
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type CreateOrderRequest struct {
	CustomerID    string             `json:"customer_id" validate:"required,uuid"`
	BranchID      string             `json:"branch_id"   validate:"required,uuid"`
	PaymentMethod string             `json:"payment_method" validate:"required,oneof=cash card transfer"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	// PromotionDiscount is an absolute amount, applied on top of the
	// membership discount.
	PromotionDiscount decimal.Decimal `json:"promotion_discount" validate:"min=0"`
	DeliveryFee       decimal.Decimal `json:"delivery_fee"       validate:"min=0"`
	Notes             *string         `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Completed Returned Cancelled"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type OrderResponse struct {
	ID             string              `json:"id"`
	OrderNumber    string              `json:"order_number"`
	CustomerID     string              `json:"customer_id"`
	BranchID       string              `json:"branch_id"`
	Status         string              `json:"status"`
	PaymentStatus  string              `json:"payment_status"`
	PaymentMethod  string              `json:"payment_method"`
	Items          []OrderItemResponse `json:"items"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	DeliveryFee    decimal.Decimal     `json:"delivery_fee"`
	FinalAmount    decimal.Decimal     `json:"final_amount"`
	PointsEarned   int                 `json:"points_earned"`
	CreatedAt      string              `json:"created_at"`
}
