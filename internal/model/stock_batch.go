package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	BatchInStock  = "InStock"
	BatchSold     = "Sold"
	BatchReturned = "Returned"
)

// StockBatch is a discrete receipt of stock for one product at one branch.
// Batches are consumed oldest-first (FIFO by ReceivedDate) and are NEVER
// deleted — a depleted batch flips to Sold and stays as the audit trail.
// Returned batches carry salvage-valued stock and are not sellable as InStock.
type StockBatch struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_batch_product_branch"`
	BranchID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_batch_product_branch"`
	SupplierID *uuid.UUID `gorm:"type:uuid;index"`
	BatchNo    string     `gorm:"not null"`
	Quantity   int        `gorm:"not null;check:quantity >= 0"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ReceivedDate time.Time `gorm:"not null;index"`
	Status       string    `gorm:"type:varchar(20);not null;default:'InStock'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Product  *Product  `gorm:"foreignKey:ProductID"`
	Branch   *Branch   `gorm:"foreignKey:BranchID"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}

func (StockBatch) TableName() string { return "stock_batches" }
