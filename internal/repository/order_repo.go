package repository

import (
	"context"

	"summitgear/internal/dto"
	"summitgear/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *model.SalesOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error)
	// FindByIDForUpdate row-locks the order header so status transitions and
	// return processing cannot race each other.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.SalesOrder, error)
	FindByOrderNumber(ctx context.Context, number string) (*model.SalesOrder, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status, paymentStatus string) error
	List(ctx context.Context, filter dto.OrderFilter) ([]model.SalesOrder, int64, error)
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) DB() *gorm.DB { return r.db }

func (r *orderRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, o *model.SalesOrder) error {
	return r.conn(tx).WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	var o model.SalesOrder
	err := r.db.WithContext(ctx).Preload("Items.Product").First(&o, id).Error
	return &o, err
}

func (r *orderRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.SalesOrder, error) {
	var o model.SalesOrder
	err := r.conn(tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&o, id).Error
	return &o, err
}

func (r *orderRepo) FindByOrderNumber(ctx context.Context, number string) (*model.SalesOrder, error) {
	var o model.SalesOrder
	err := r.db.WithContext(ctx).Where("order_number = ?", number).First(&o).Error
	return &o, err
}

func (r *orderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status, paymentStatus string) error {
	updates := map[string]interface{}{"status": status}
	if paymentStatus != "" {
		updates["payment_status"] = paymentStatus
	}
	return r.conn(tx).Model(&model.SalesOrder{}).Where("id = ?", id).Updates(updates).Error
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.SalesOrder, int64, error) {
	var orders []model.SalesOrder
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SalesOrder{})

	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.BranchID != "" {
		q = q.Where("branch_id = ?", filter.BranchID)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items.Product").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error

	return orders, total, err
}
