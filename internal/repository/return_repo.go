package repository

import (
	"context"

	"summitgear/internal/dto"
	"summitgear/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReturnRepository interface {
	Create(ctx context.Context, rr *model.ReturnRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ReturnRequest, error)
	// FindByIDForUpdate locks the request row so a request cannot be
	// processed twice concurrently.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.ReturnRequest, error)
	// FindActiveByOrderID returns any non-rejected request for the order.
	FindActiveByOrderID(ctx context.Context, orderID uuid.UUID) (*model.ReturnRequest, error)
	SaveTx(tx *gorm.DB, rr *model.ReturnRequest) error
	List(ctx context.Context, filter dto.ReturnFilter) ([]model.ReturnRequest, int64, error)
	DB() *gorm.DB
}

type returnRepo struct{ db *gorm.DB }

func NewReturnRepository(db *gorm.DB) ReturnRepository { return &returnRepo{db: db} }

func (r *returnRepo) DB() *gorm.DB { return r.db }

func (r *returnRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *returnRepo) Create(ctx context.Context, rr *model.ReturnRequest) error {
	return r.db.WithContext(ctx).Create(rr).Error
}

func (r *returnRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ReturnRequest, error) {
	var rr model.ReturnRequest
	err := r.db.WithContext(ctx).Preload("Order").First(&rr, id).Error
	return &rr, err
}

func (r *returnRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.ReturnRequest, error) {
	var rr model.ReturnRequest
	err := r.conn(tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rr, id).Error
	return &rr, err
}

func (r *returnRepo) FindActiveByOrderID(ctx context.Context, orderID uuid.UUID) (*model.ReturnRequest, error) {
	var rr model.ReturnRequest
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status <> ?", orderID, model.ReturnRejected).
		First(&rr).Error
	return &rr, err
}

func (r *returnRepo) SaveTx(tx *gorm.DB, rr *model.ReturnRequest) error {
	return r.conn(tx).Model(&model.ReturnRequest{}).Where("id = ?", rr.ID).Updates(map[string]interface{}{
		"status":        rr.Status,
		"refund_amount": rr.RefundAmount,
		"processed_by":  rr.ProcessedBy,
		"processed_at":  rr.ProcessedAt,
	}).Error
}

func (r *returnRepo) List(ctx context.Context, filter dto.ReturnFilter) ([]model.ReturnRequest, int64, error) {
	var requests []model.ReturnRequest
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ReturnRequest{})

	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Order").Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&requests).Error
	return requests, total, err
}
