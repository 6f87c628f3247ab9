package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PointsBonus  = "Bonus"
	PointsEarn   = "Earn"
	PointsRedeem = "Redeem"
	PointsAdjust = "Adjust"
)

// PointsTransaction is an immutable row in the loyalty ledger.
// Rows are NEVER modified or deleted — reversals create compensating entries.
// BalanceAfter reconciles Customer.TotalPoints at the time of the write.
type PointsTransaction struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderID     *uuid.UUID `gorm:"type:uuid;index"`
	PointChange int        `gorm:"not null"` // positive = credit, negative = debit
	TransType   string     `gorm:"type:varchar(20);not null"`
	BalanceAfter int       `gorm:"not null"`
	// SpentChange is the monetary delta applied to Customer.TotalSpent
	// alongside this entry (order: +final amount, return: -refund).
	SpentChange decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Description string          `gorm:"not null"`
	CreatedAt   time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID"`
}

func (PointsTransaction) TableName() string { return "points_transactions" }
