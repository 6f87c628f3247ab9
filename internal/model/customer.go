package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MembershipTier classifies customers (Bronze/Silver/Gold) and carries the
// pricing knobs for each level.
type MembershipTier struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"uniqueIndex;not null"`
	// DiscountRate is a percentage: 5.00 means 5% off every order line.
	DiscountRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	// PointRate is points earned per currency unit of the discounted total.
	PointRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:1"`
	// MinSpent is the lifetime spend threshold that qualifies for this tier.
	MinSpent  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email    string    `gorm:"uniqueIndex;not null"`
	FullName string    `gorm:"not null"`
	Phone    *string
	TierID   uuid.UUID `gorm:"type:uuid;not null;index"`
	// TotalPoints and TotalSpent are running balances. They are only ever
	// written through the points ledger, never by direct field updates.
	TotalPoints int             `gorm:"not null;default:0"`
	TotalSpent  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Tier *MembershipTier `gorm:"foreignKey:TierID"`
}
