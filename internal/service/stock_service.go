package service

import (
	"context"
	"time"

	"summitgear/internal/apierror"
	"summitgear/internal/dto"
	"summitgear/internal/model"
	"summitgear/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// StockService is the stock ledger: every mutation of batch quantities in the
// system goes through AllocateFIFO or Replenish — no direct writes elsewhere.
type StockService interface {
	AvailableQuantity(ctx context.Context, productID, branchID uuid.UUID) (int, error)
	// AllocateFIFO deducts qty from InStock batches for (product, branch),
	// oldest received first, inside the caller's transaction. The availability
	// check and the deduction run against the same locked rows, so two
	// concurrent orders can never both read the same quantity and overdraw.
	AllocateFIFO(tx *gorm.DB, product *model.Product, branchID uuid.UUID, qty int) error
	// ReplenishTx inserts a new batch inside the caller's transaction
	// (return restoration, cancellation restock).
	ReplenishTx(ctx context.Context, tx *gorm.DB, b *model.StockBatch) error
	// Replenish is the standalone stock-in / purchase-receipt entry point.
	Replenish(ctx context.Context, req dto.ReplenishRequest) (*dto.BatchResponse, error)
	ListBatches(ctx context.Context, filter dto.BatchFilter) (*dto.BatchListResponse, error)
	// InvalidateAvailability drops the cached availability for the pair.
	// Best-effort — called after a committed mutation.
	InvalidateAvailability(ctx context.Context, productID, branchID uuid.UUID)
}

type stockService struct {
	repo repository.StockRepository
	rdb  *redis.Client
}

func NewStockService(repo repository.StockRepository, rdb *redis.Client) StockService {
	return &stockService{repo: repo, rdb: rdb}
}

// AvailabilityCacheKey is shared with the public availability handler.
func AvailabilityCacheKey(productID, branchID uuid.UUID) string {
	return "availability:" + productID.String() + ":" + branchID.String()
}

func (s *stockService) AvailableQuantity(ctx context.Context, productID, branchID uuid.UUID) (int, error) {
	total, err := s.repo.SumAvailable(ctx, productID, branchID)
	if err != nil {
		return 0, apierror.Internal(err)
	}
	return total, nil
}

func (s *stockService) AllocateFIFO(tx *gorm.DB, product *model.Product, branchID uuid.UUID, qty int) error {
	if qty <= 0 {
		return apierror.Validation("allocation quantity must be positive")
	}

	batches, err := s.repo.FindInStockForUpdate(tx, product.ID, branchID)
	if err != nil {
		return apierror.Internal(err)
	}

	available := 0
	for _, b := range batches {
		available += b.Quantity
	}
	if available < qty {
		return apierror.Conflict("insufficient stock for %s: requested %d, available %d", product.Name, qty, available)
	}

	remaining := qty
	for i := range batches {
		if remaining == 0 {
			break
		}
		b := &batches[i]
		take := b.Quantity
		if take > remaining {
			take = remaining
		}
		b.Quantity -= take
		remaining -= take
		if b.Quantity == 0 {
			b.Status = model.BatchSold
		}
		if err := s.repo.SaveBatchTx(tx, b); err != nil {
			return apierror.Internal(err)
		}
	}
	return nil
}

func (s *stockService) ReplenishTx(ctx context.Context, tx *gorm.DB, b *model.StockBatch) error {
	if b.Quantity <= 0 {
		return apierror.Validation("batch quantity must be positive")
	}
	if b.Status == "" {
		b.Status = model.BatchInStock
	}
	if b.ReceivedDate.IsZero() {
		b.ReceivedDate = time.Now()
	}
	if err := s.repo.CreateBatch(ctx, tx, b); err != nil {
		return apierror.Internal(err)
	}
	return nil
}

func (s *stockService) Replenish(ctx context.Context, req dto.ReplenishRequest) (*dto.BatchResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.Validation("invalid product_id")
	}
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, apierror.Validation("invalid branch_id")
	}

	batch := &model.StockBatch{
		ProductID:    productID,
		BranchID:     branchID,
		BatchNo:      req.BatchNo,
		Quantity:     req.Quantity,
		UnitCost:     req.UnitCost,
		ReceivedDate: time.Now(),
		Status:       model.BatchInStock,
	}
	if req.SupplierID != nil {
		supplierID, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, apierror.Validation("invalid supplier_id")
		}
		batch.SupplierID = &supplierID
	}

	if err := s.ReplenishTx(ctx, nil, batch); err != nil {
		return nil, err
	}
	s.InvalidateAvailability(ctx, productID, branchID)

	resp := batchToResponse(batch)
	return &resp, nil
}

func (s *stockService) ListBatches(ctx context.Context, filter dto.BatchFilter) (*dto.BatchListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	batches, total, err := s.repo.ListBatches(ctx, filter)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	items := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		items = append(items, batchToResponse(&b))
	}
	return &dto.BatchListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *stockService) InvalidateAvailability(ctx context.Context, productID, branchID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, AvailabilityCacheKey(productID, branchID)).Err()
}

func batchToResponse(b *model.StockBatch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:           b.ID.String(),
		ProductID:    b.ProductID.String(),
		BranchID:     b.BranchID.String(),
		BatchNo:      b.BatchNo,
		Quantity:     b.Quantity,
		UnitCost:     b.UnitCost,
		ReceivedDate: b.ReceivedDate.Format("2006-01-02"),
		Status:       b.Status,
	}
}
