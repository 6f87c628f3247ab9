package repository

import (
	"context"

	"summitgear/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	// FindByIDForUpdate row-locks the customer so concurrent ledger writes
	// serialize on the running balances.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Customer, error)
	UpdateBalancesTx(tx *gorm.DB, id uuid.UUID, pointsDelta int, spentDelta decimal.Decimal) error
	SetTier(ctx context.Context, customerID, tierID uuid.UUID) error
	FindTierByID(ctx context.Context, id uuid.UUID) (*model.MembershipTier, error)
	// FindTierForSpent returns the highest tier whose MinSpent threshold the
	// given lifetime spend satisfies.
	FindTierForSpent(ctx context.Context, spent decimal.Decimal) (*model.MembershipTier, error)
	DB() *gorm.DB
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) DB() *gorm.DB { return r.db }

func (r *customerRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Preload("Tier").First(&c, id).Error
	return &c, err
}

func (r *customerRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.conn(tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, id).Error
	return &c, err
}

func (r *customerRepo) UpdateBalancesTx(tx *gorm.DB, id uuid.UUID, pointsDelta int, spentDelta decimal.Decimal) error {
	return r.conn(tx).Model(&model.Customer{}).Where("id = ?", id).Updates(map[string]interface{}{
		"total_points": gorm.Expr("total_points + ?", pointsDelta),
		"total_spent":  gorm.Expr("total_spent + ?", spentDelta),
	}).Error
}

func (r *customerRepo) SetTier(ctx context.Context, customerID, tierID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ?", customerID).Update("tier_id", tierID).Error
}

func (r *customerRepo) FindTierByID(ctx context.Context, id uuid.UUID) (*model.MembershipTier, error) {
	var t model.MembershipTier
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *customerRepo) FindTierForSpent(ctx context.Context, spent decimal.Decimal) (*model.MembershipTier, error) {
	var t model.MembershipTier
	err := r.db.WithContext(ctx).
		Where("min_spent <= ?", spent).
		Order("min_spent DESC").
		First(&t).Error
	return &t, err
}
