package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderPending   = "Pending"
	OrderCompleted = "Completed"
	OrderReturned  = "Returned"
	OrderCancelled = "Cancelled"

	PaymentUnpaid = "Unpaid"
	PaymentPaid   = "Paid"
)

// SalesOrder is created atomically with its items and the FIFO stock
// deduction. Invariant: FinalAmount = TotalAmount - DiscountAmount +
// DeliveryFee, clamped at zero.
type SalesOrder struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// OrderNumber is a human-readable label (SO-<year>-<4 digits>), retried on
	// collision. The UUID is the real identifier.
	OrderNumber    string          `gorm:"uniqueIndex;not null"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BranchID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	EmployeeID     uuid.UUID       `gorm:"type:uuid;not null"`
	PaymentMethod  string          `gorm:"type:varchar(20);not null"`
	Status         string          `gorm:"type:varchar(20);not null;default:'Pending'"`
	PaymentStatus  string          `gorm:"type:varchar(20);not null;default:'Unpaid'"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DeliveryFee    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FinalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PointsEarned   int             `gorm:"not null;default:0"`
	PointsUsed     int             `gorm:"not null;default:0"`
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items    []OrderItem `gorm:"foreignKey:OrderID"`
	Customer *Customer   `gorm:"foreignKey:CustomerID"`
	Branch   *Branch     `gorm:"foreignKey:BranchID"`
	Employee *Employee   `gorm:"foreignKey:EmployeeID"`
}

// OrderItem snapshots the retail price at sale time — later catalog price
// changes must not retroactively affect placed orders.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Discount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
