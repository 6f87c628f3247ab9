package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ProductActive   = "Active"
	ProductInactive = "Inactive"
)

// Product is a catalog entry. RetailPrice is snapshotted into order items at
// sale time, so later price changes never touch placed orders.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU         string    `gorm:"uniqueIndex;not null"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Category    string          `gorm:"not null"`
	Brand       string          `gorm:"not null"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	RetailPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status      string          `gorm:"type:varchar(20);not null;default:'Active'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
