package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"summitgear/internal/apierror"
	"summitgear/internal/dto"
	"summitgear/internal/model"
	"summitgear/internal/repository"
	"summitgear/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// returnSalvageRate values restored stock at 70% of the sale price. Returned
// batches are tagged Returned, not InStock — they need inspection before they
// can be sold again.
var returnSalvageRate = decimal.NewFromFloat(0.7)

type ReturnService interface {
	CreateReturnRequest(ctx context.Context, req dto.CreateReturnRequest) (*dto.ReturnResponse, error)
	ProcessReturn(ctx context.Context, returnID, processedBy uuid.UUID, req dto.ProcessReturnRequest) error
	GetReturn(ctx context.Context, id uuid.UUID) (*dto.ReturnResponse, error)
	ListReturns(ctx context.Context, filter dto.ReturnFilter) (*dto.ReturnListResponse, error)
}

type returnService struct {
	repo         repository.ReturnRepository
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	stock        StockService
	points       PointsService
	dispatcher   *worker.Dispatcher
}

func NewReturnService(
	repo repository.ReturnRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	stock StockService,
	points PointsService,
	dispatcher *worker.Dispatcher,
) ReturnService {
	return &returnService{
		repo:         repo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		stock:        stock,
		points:       points,
		dispatcher:   dispatcher,
	}
}

// ── CreateReturnRequest ───────────────────────────────────────────────────────

func (s *returnService) CreateReturnRequest(ctx context.Context, req dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, apierror.Validation("invalid order_id")
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("invalid customer_id")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, apierror.NotFound("order %s not found", req.OrderID)
	}
	if order.CustomerID != customerID {
		return nil, apierror.NotFound("order %s not found for this customer", req.OrderID)
	}
	if order.Status != model.OrderCompleted {
		return nil, apierror.Conflict("order %s is not eligible for return (status %s)", order.OrderNumber, order.Status)
	}
	if existing, err := s.repo.FindActiveByOrderID(ctx, orderID); err == nil && existing != nil {
		return nil, apierror.Conflict("a return request already exists for order %s", order.OrderNumber)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Internal(err)
	}

	request := &model.ReturnRequest{
		OrderID:     orderID,
		CustomerID:  customerID,
		Reason:      req.Reason,
		Description: req.Description,
		Status:      model.ReturnPending,
	}
	// A partial unique index on (order_id) WHERE status <> 'Rejected' backs
	// this up against two racing creates.
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, apierror.Internal(err)
	}

	resp := returnToResponse(request)
	resp.OrderNumber = order.OrderNumber
	return resp, nil
}

// ── ProcessReturn ─────────────────────────────────────────────────────────────
// Approval is one ACID transaction:
//   1. Lock the request; it must still be Pending
//   2. Lock the order; flip Completed → Returned
//   3. Reverse points and spend through the points ledger
//   4. Restore every line as a salvage-valued batch tagged Returned
// Rejection only stamps the audit fields — no side effects.

func (s *returnService) ProcessReturn(ctx context.Context, returnID, processedBy uuid.UUID, req dto.ProcessReturnRequest) error {
	var request *model.ReturnRequest
	var order *model.SalesOrder

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		request, err = s.repo.FindByIDForUpdate(tx, returnID)
		if err != nil {
			return apierror.NotFound("return request %s not found", returnID)
		}
		if request.Status != model.ReturnPending {
			return apierror.Conflict("return request %s has already been processed", returnID)
		}

		now := time.Now()
		request.ProcessedBy = &processedBy
		request.ProcessedAt = &now

		if req.Status == model.ReturnRejected {
			request.Status = model.ReturnRejected
			if err := s.repo.SaveTx(tx, request); err != nil {
				return apierror.Internal(err)
			}
			return nil
		}

		order, err = s.orderRepo.FindByIDForUpdate(tx, request.OrderID)
		if err != nil {
			return apierror.Internal(err)
		}
		if order.Status != model.OrderCompleted {
			return apierror.Conflict("order %s can no longer be returned (status %s)", order.OrderNumber, order.Status)
		}

		refund := order.FinalAmount
		if req.RefundAmount != nil {
			refund = *req.RefundAmount
		}

		request.Status = model.ReturnApproved
		request.RefundAmount = &refund
		if err := s.repo.SaveTx(tx, request); err != nil {
			return apierror.Internal(err)
		}

		if err := s.orderRepo.UpdateStatusTx(tx, order.ID, model.OrderReturned, ""); err != nil {
			return apierror.Internal(err)
		}

		// Reverse the earn entry: points and spend net to zero across the
		// order/return pair.
		desc := fmt.Sprintf("Return refund for order %s", order.OrderNumber)
		if _, err := s.points.Record(ctx, tx, order.CustomerID, &order.ID,
			-order.PointsEarned, refund.Neg(), model.PointsAdjust, desc); err != nil {
			return err
		}

		// Restore stock at salvage value, tagged Returned.
		for _, item := range order.Items {
			batch := &model.StockBatch{
				ProductID:    item.ProductID,
				BranchID:     order.BranchID,
				BatchNo:      "RET-" + order.OrderNumber,
				Quantity:     item.Quantity,
				UnitCost:     item.UnitPrice.Mul(returnSalvageRate),
				ReceivedDate: now,
				Status:       model.BatchReturned,
			}
			if err := s.stock.ReplenishTx(ctx, tx, batch); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	if s.dispatcher != nil {
		if order != nil {
			_ = s.dispatcher.EnqueueOrderEvent(ctx, worker.OrderEventPayload{
				OrderID:    order.ID.String(),
				CustomerID: order.CustomerID.String(),
				Status:     model.OrderReturned,
			})
		}
		s.notifyDecision(ctx, request)
	}
	return nil
}

// notifyDecision emails the customer about the outcome. Best-effort — the
// decision is already committed.
func (s *returnService) notifyDecision(ctx context.Context, request *model.ReturnRequest) {
	customer, err := s.customerRepo.FindByID(ctx, request.CustomerID)
	if err != nil || customer.Email == "" {
		return
	}
	body := "Your return request has been rejected."
	if request.Status == model.ReturnApproved && request.RefundAmount != nil {
		body = fmt.Sprintf("Your return request has been approved. Refund amount: %s.",
			request.RefundAmount.StringFixed(2))
	}
	_ = s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
		ToEmail: customer.Email,
		Subject: "Summit Gear — return request update",
		Body:    body,
	})
}

func (s *returnService) GetReturn(ctx context.Context, id uuid.UUID) (*dto.ReturnResponse, error) {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("return request %s not found", id)
	}
	resp := returnToResponse(request)
	if request.Order != nil {
		resp.OrderNumber = request.Order.OrderNumber
	}
	return resp, nil
}

func (s *returnService) ListReturns(ctx context.Context, filter dto.ReturnFilter) (*dto.ReturnListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	items := make([]dto.ReturnResponse, 0, len(requests))
	for _, r := range requests {
		resp := returnToResponse(&r)
		if r.Order != nil {
			resp.OrderNumber = r.Order.OrderNumber
		}
		items = append(items, *resp)
	}
	return &dto.ReturnListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func returnToResponse(r *model.ReturnRequest) *dto.ReturnResponse {
	resp := &dto.ReturnResponse{
		ID:           r.ID.String(),
		OrderID:      r.OrderID.String(),
		CustomerID:   r.CustomerID.String(),
		Reason:       r.Reason,
		Description:  r.Description,
		Status:       r.Status,
		RefundAmount: r.RefundAmount,
		CreatedAt:    r.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if r.ProcessedBy != nil {
		pb := r.ProcessedBy.String()
		resp.ProcessedBy = &pb
	}
	if r.ProcessedAt != nil {
		pa := r.ProcessedAt.Format("2006-01-02T15:04:05Z")
		resp.ProcessedAt = &pa
	}
	return resp
}
