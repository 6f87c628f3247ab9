package repository

import (
	"context"

	"summitgear/internal/dto"
	"summitgear/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository is the data access contract for the stock ledger.
// Batch rows are only ever inserted or quantity-updated — never deleted.
type StockRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, b *model.StockBatch) error
	// FindInStockForUpdate returns InStock batches for (product, branch)
	// ordered by received_date ascending, row-locked so two concurrent
	// allocations on the same pair are serialized.
	FindInStockForUpdate(tx *gorm.DB, productID, branchID uuid.UUID) ([]model.StockBatch, error)
	SaveBatchTx(tx *gorm.DB, b *model.StockBatch) error
	SumAvailable(ctx context.Context, productID, branchID uuid.UUID) (int, error)
	ListBatches(ctx context.Context, filter dto.BatchFilter) ([]model.StockBatch, int64, error)
	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) DB() *gorm.DB { return r.db }

// conn picks the transaction when one is active, falling back to the pool.
func (r *stockRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *stockRepo) CreateBatch(ctx context.Context, tx *gorm.DB, b *model.StockBatch) error {
	return r.conn(tx).WithContext(ctx).Create(b).Error
}

func (r *stockRepo) FindInStockForUpdate(tx *gorm.DB, productID, branchID uuid.UUID) ([]model.StockBatch, error) {
	var batches []model.StockBatch
	err := r.conn(tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND branch_id = ? AND status = ?", productID, branchID, model.BatchInStock).
		Order("received_date ASC").
		Find(&batches).Error
	return batches, err
}

func (r *stockRepo) SaveBatchTx(tx *gorm.DB, b *model.StockBatch) error {
	return r.conn(tx).Model(&model.StockBatch{}).Where("id = ?", b.ID).
		Updates(map[string]interface{}{"quantity": b.Quantity, "status": b.Status}).Error
}

func (r *stockRepo) SumAvailable(ctx context.Context, productID, branchID uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&model.StockBatch{}).
		Where("product_id = ? AND branch_id = ? AND status = ?", productID, branchID, model.BatchInStock).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *stockRepo) ListBatches(ctx context.Context, filter dto.BatchFilter) ([]model.StockBatch, int64, error) {
	var batches []model.StockBatch
	var total int64

	q := r.db.WithContext(ctx).Model(&model.StockBatch{})

	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.BranchID != "" {
		q = q.Where("branch_id = ?", filter.BranchID)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("received_date ASC").Offset(offset).Limit(filter.Limit).Find(&batches).Error
	return batches, total, err
}
