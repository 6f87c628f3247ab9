package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
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

type OrderService interface {
	CreateOrder(ctx context.Context, employeeID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	UpdateOrderStatus(ctx context.Context, orderID, employeeID uuid.UUID, newStatus string) error
	GetOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
}

type orderService struct {
	repo         repository.OrderRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
	stock        StockService
	points       PointsService
	dispatcher   *worker.Dispatcher
}

func NewOrderService(
	repo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	stock StockService,
	points PointsService,
	dispatcher *worker.Dispatcher,
) OrderService {
	return &orderService{
		repo:         repo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		stock:        stock,
		points:       points,
		dispatcher:   dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Sales order state machine. Returned is reached exclusively through return
// approval, never through the public status endpoint.
var orderTransitions = map[string][]string{
	model.OrderPending:   {model.OrderCompleted, model.OrderCancelled},
	model.OrderCompleted: {model.OrderReturned},
}

func canTransition(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ── CreateOrder ───────────────────────────────────────────────────────────────
// One ACID transaction:
//   1. Resolve customer + tier, resolve and price every item (pre-flight)
//   2. BEGIN TX: generate order number, create order + items
//   3. Deduct stock FIFO per line (availability check and deduction share the
//      locked batch rows)
//   4. COMMIT — any failure in between rolls everything back

func (s *orderService) CreateOrder(ctx context.Context, employeeID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, apierror.Validation("order must contain at least one item")
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("invalid customer_id")
	}
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, apierror.Validation("invalid branch_id")
	}

	// 1. Load customer and membership tier
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, apierror.NotFound("customer %s not found", req.CustomerID)
	}
	if !customer.Active {
		return nil, apierror.Validation("customer account is inactive")
	}
	tier := customer.Tier
	if tier == nil {
		tier, err = s.customerRepo.FindTierByID(ctx, customer.TierID)
		if err != nil {
			return nil, apierror.Internal(err)
		}
	}
	if _, err := s.branchRepo.FindByID(ctx, branchID); err != nil {
		return nil, apierror.NotFound("branch %s not found", req.BranchID)
	}

	discountRate := tier.DiscountRate.Div(decimal.NewFromInt(100))

	// 2. Resolve products and price each line. Unit prices are snapshotted
	// here — the order keeps them even if the catalog changes later.
	type resolvedItem struct {
		product  *model.Product
		quantity int
		discount decimal.Decimal
		total    decimal.Decimal
	}

	var resolved []resolvedItem
	totalAmount := decimal.Zero
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apierror.Validation("item quantity must be positive")
		}
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.Validation("invalid product_id %s", item.ProductID)
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, apierror.NotFound("product %s not found", item.ProductID)
		}
		if p.Status != model.ProductActive {
			return nil, apierror.Validation("product %s is inactive and cannot be sold", p.Name)
		}
		lineTotal := p.RetailPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		lineDiscount := lineTotal.Mul(discountRate)
		totalAmount = totalAmount.Add(lineTotal)
		resolved = append(resolved, resolvedItem{
			product:  p,
			quantity: item.Quantity,
			discount: lineDiscount,
			total:    lineTotal,
		})
	}

	// 3. Aggregate totals. Delivery fee never feeds the points base.
	memberDiscount := totalAmount.Mul(discountRate)
	discountAmount := memberDiscount.Add(req.PromotionDiscount)
	finalAmount := totalAmount.Sub(discountAmount).Add(req.DeliveryFee)
	if finalAmount.IsNegative() {
		finalAmount = decimal.Zero
	}
	pointsBase := totalAmount.Sub(discountAmount)
	if pointsBase.IsNegative() {
		pointsBase = decimal.Zero
	}
	pointsEarned := int(pointsBase.Mul(tier.PointRate).Floor().IntPart())

	// 4. ACID transaction
	var order model.SalesOrder
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		number, err := s.generateOrderNumber(ctx)
		if err != nil {
			return err
		}

		order = model.SalesOrder{
			OrderNumber:    number,
			CustomerID:     customerID,
			BranchID:       branchID,
			EmployeeID:     employeeID,
			PaymentMethod:  req.PaymentMethod,
			Status:         model.OrderPending,
			PaymentStatus:  model.PaymentUnpaid,
			TotalAmount:    totalAmount,
			DiscountAmount: discountAmount,
			DeliveryFee:    req.DeliveryFee,
			FinalAmount:    finalAmount,
			PointsEarned:   pointsEarned,
			Notes:          req.Notes,
		}
		for _, r := range resolved {
			order.Items = append(order.Items, model.OrderItem{
				ProductID: r.product.ID,
				Quantity:  r.quantity,
				UnitPrice: r.product.RetailPrice,
				Discount:  r.discount,
				LineTotal: r.total,
			})
		}
		if err := s.repo.Create(ctx, tx, &order); err != nil {
			return apierror.Internal(err)
		}

		// Deduct stock FIFO per line — fails the whole order on shortfall
		for _, r := range resolved {
			if err := s.stock.AllocateFIFO(tx, r.product, branchID, r.quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	for _, r := range resolved {
		s.stock.InvalidateAvailability(ctx, r.product.ID, branchID)
	}

	resp := orderToResponse(&order)
	for i, r := range resolved {
		resp.Items[i].Product = r.product.Name
	}
	return resp, nil
}

// generateOrderNumber produces the human-readable SO-<year>-<4 digit> label.
// The suffix is random, so collisions are possible — retried a few times; the
// UUID primary key is the real identity either way.
func (s *orderService) generateOrderNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	for attempt := 0; attempt < 5; attempt++ {
		number := fmt.Sprintf("SO-%d-%04d", year, rand.Intn(10000))
		_, err := s.repo.FindByOrderNumber(ctx, number)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return number, nil
		}
		if err != nil {
			return "", apierror.Internal(err)
		}
	}
	return "", apierror.Internal(errors.New("order number space exhausted after 5 attempts"))
}

// ── UpdateOrderStatus ─────────────────────────────────────────────────────────
// Enforces the sales order state machine. Completing an order marks it Paid
// and posts the earn entry to the points ledger synchronously — the tier
// recompute that used to hang off database triggers is now an explicit event
// consumed by the loyalty worker.

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID, employeeID uuid.UUID, newStatus string) error {
	if newStatus == model.OrderReturned {
		return apierror.Validation("order status Returned is set through return approval")
	}

	var order *model.SalesOrder
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		order, err = s.repo.FindByIDForUpdate(tx, orderID)
		if err != nil {
			return apierror.NotFound("order %s not found", orderID)
		}
		if !canTransition(order.Status, newStatus) {
			return apierror.Conflict("cannot change order status from %s to %s", order.Status, newStatus)
		}

		switch newStatus {
		case model.OrderCompleted:
			if err := s.repo.UpdateStatusTx(tx, orderID, model.OrderCompleted, model.PaymentPaid); err != nil {
				return apierror.Internal(err)
			}
			desc := fmt.Sprintf("Points earned on order %s", order.OrderNumber)
			if _, err := s.points.Record(ctx, tx, order.CustomerID, &order.ID,
				order.PointsEarned, order.FinalAmount, model.PointsEarn, desc); err != nil {
				return err
			}

		case model.OrderCancelled:
			if err := s.repo.UpdateStatusTx(tx, orderID, model.OrderCancelled, ""); err != nil {
				return apierror.Internal(err)
			}
			// Stock was deducted at creation — put it back as fresh batches.
			for _, item := range order.Items {
				p, err := s.productRepo.FindByID(ctx, item.ProductID)
				if err != nil {
					return apierror.Internal(err)
				}
				batch := &model.StockBatch{
					ProductID:    item.ProductID,
					BranchID:     order.BranchID,
					BatchNo:      "CANCEL-" + order.OrderNumber,
					Quantity:     item.Quantity,
					UnitCost:     p.CostPrice,
					ReceivedDate: time.Now(),
					Status:       model.BatchInStock,
				}
				if err := s.stock.ReplenishTx(ctx, tx, batch); err != nil {
					return err
				}
			}

		default:
			if err := s.repo.UpdateStatusTx(tx, orderID, newStatus, ""); err != nil {
				return apierror.Internal(err)
			}
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	if newStatus == model.OrderCancelled {
		for _, item := range order.Items {
			s.stock.InvalidateAvailability(ctx, item.ProductID, order.BranchID)
		}
	}

	// Fire the status-changed event — best effort, consumers recompute the
	// membership tier from committed state.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueOrderEvent(ctx, worker.OrderEventPayload{
			OrderID:    orderID.String(),
			CustomerID: order.CustomerID.String(),
			Status:     newStatus,
		})
	}
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("order %s not found", id)
	}
	return orderToResponse(order), nil
}

func (s *orderService) ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Internal(err)
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, *orderToResponse(&o))
	}
	return &dto.OrderListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func orderToResponse(o *model.SalesOrder) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.OrderItemResponse{
			ProductID: item.ProductID.String(),
			Product:   name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			LineTotal: item.LineTotal,
		})
	}
	return &dto.OrderResponse{
		ID:             o.ID.String(),
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID.String(),
		BranchID:       o.BranchID.String(),
		Status:         o.Status,
		PaymentStatus:  o.PaymentStatus,
		PaymentMethod:  o.PaymentMethod,
		Items:          items,
		TotalAmount:    o.TotalAmount,
		DiscountAmount: o.DiscountAmount,
		DeliveryFee:    o.DeliveryFee,
		FinalAmount:    o.FinalAmount,
		PointsEarned:   o.PointsEarned,
		CreatedAt:      o.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
