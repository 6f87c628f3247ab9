package repository

import (
	"context"

	"summitgear/internal/dto"
	"summitgear/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PointsRepository persists the append-only loyalty ledger.
// There is deliberately no Update or Delete — compensating entries only.
type PointsRepository interface {
	CreateTx(tx *gorm.DB, t *model.PointsTransaction) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, filter dto.PointsFilter) ([]model.PointsTransaction, int64, error)
	DB() *gorm.DB
}

type pointsRepo struct{ db *gorm.DB }

func NewPointsRepository(db *gorm.DB) PointsRepository { return &pointsRepo{db: db} }

func (r *pointsRepo) DB() *gorm.DB { return r.db }

func (r *pointsRepo) CreateTx(tx *gorm.DB, t *model.PointsTransaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(t).Error
}

func (r *pointsRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter dto.PointsFilter) ([]model.PointsTransaction, int64, error) {
	var entries []model.PointsTransaction
	var total int64

	q := r.db.WithContext(ctx).Model(&model.PointsTransaction{}).Where("customer_id = ?", customerID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&entries).Error
	return entries, total, err
}
