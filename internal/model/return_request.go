package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ReturnPending  = "Pending"
	ReturnApproved = "Approved"
	ReturnRejected = "Rejected"
)

// ReturnRequest references one order. At most one non-rejected request may
// exist per order — enforced by a partial unique index (see infra/database.go)
// and re-checked in the service.
type ReturnRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Reason      string    `gorm:"not null"`
	Description *string
	Status      string           `gorm:"type:varchar(20);not null;default:'Pending'"`
	RefundAmount *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ProcessedBy  *uuid.UUID       `gorm:"type:uuid"`
	ProcessedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Order    *SalesOrder `gorm:"foreignKey:OrderID"`
	Customer *Customer   `gorm:"foreignKey:CustomerID"`
}
