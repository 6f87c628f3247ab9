package service

import (
	"context"

	"summitgear/internal/apierror"
	"summitgear/internal/dto"
	"summitgear/internal/model"
	"summitgear/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PointsService is the loyalty ledger. Customer.TotalPoints and
// Customer.TotalSpent are only ever mutated through Record — the appended
// ledger row and the balance update commit together or not at all.
type PointsService interface {
	// Record appends a ledger entry and applies pointsDelta / spentDelta to
	// the customer's running balances. Returns the balance after the write.
	Record(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, orderID *uuid.UUID,
		pointsDelta int, spentDelta decimal.Decimal, transType, description string) (int, error)
	Ledger(ctx context.Context, customerID uuid.UUID, filter dto.PointsFilter) (*dto.PointsLedgerResponse, error)
}

type pointsService struct {
	repo         repository.PointsRepository
	customerRepo repository.CustomerRepository
}

func NewPointsService(repo repository.PointsRepository, customerRepo repository.CustomerRepository) PointsService {
	return &pointsService{repo: repo, customerRepo: customerRepo}
}

func (s *pointsService) Record(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, orderID *uuid.UUID,
	pointsDelta int, spentDelta decimal.Decimal, transType, description string) (int, error) {

	// Lock the customer row so concurrent ledger writes serialize and
	// balance_after snapshots stay consistent.
	customer, err := s.customerRepo.FindByIDForUpdate(tx, customerID)
	if err != nil {
		return 0, apierror.NotFound("customer %s not found", customerID)
	}

	balanceAfter := customer.TotalPoints + pointsDelta

	entry := &model.PointsTransaction{
		CustomerID:   customerID,
		OrderID:      orderID,
		PointChange:  pointsDelta,
		TransType:    transType,
		BalanceAfter: balanceAfter,
		SpentChange:  spentDelta,
		Description:  description,
	}
	if err := s.repo.CreateTx(tx, entry); err != nil {
		return 0, apierror.Internal(err)
	}
	if err := s.customerRepo.UpdateBalancesTx(tx, customerID, pointsDelta, spentDelta); err != nil {
		return 0, apierror.Internal(err)
	}
	return balanceAfter, nil
}

func (s *pointsService) Ledger(ctx context.Context, customerID uuid.UUID, filter dto.PointsFilter) (*dto.PointsLedgerResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	entries, total, err := s.repo.ListByCustomer(ctx, customerID, filter)
	if err != nil {
		return nil, apierror.Internal(err)
	}

	items := make([]dto.PointsEntryResponse, 0, len(entries))
	for _, e := range entries {
		item := dto.PointsEntryResponse{
			ID:           e.ID.String(),
			PointChange:  e.PointChange,
			TransType:    e.TransType,
			BalanceAfter: e.BalanceAfter,
			SpentChange:  e.SpentChange,
			Description:  e.Description,
			CreatedAt:    e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if e.OrderID != nil {
			oid := e.OrderID.String()
			item.OrderID = &oid
		}
		items = append(items, item)
	}
	return &dto.PointsLedgerResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}
