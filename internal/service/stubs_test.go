package service

import (
	"context"
	"sort"
	"time"

	"summitgear/internal/dto"
	"summitgear/internal/model"
	"summitgear/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. DB() returns nil so runTx short-circuits and
// every repo call runs against plain maps — no transaction plumbing in unit
// tests.

// ── Stock ─────────────────────────────────────────────────────────────────────

type stubStockRepo struct {
	batches []*model.StockBatch
}

func (r *stubStockRepo) CreateBatch(_ context.Context, _ *gorm.DB, b *model.StockBatch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.batches = append(r.batches, b)
	return nil
}

func (r *stubStockRepo) FindInStockForUpdate(_ *gorm.DB, productID, branchID uuid.UUID) ([]model.StockBatch, error) {
	var out []model.StockBatch
	for _, b := range r.batches {
		if b.ProductID == productID && b.BranchID == branchID && b.Status == model.BatchInStock {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedDate.Before(out[j].ReceivedDate) })
	return out, nil
}

func (r *stubStockRepo) SaveBatchTx(_ *gorm.DB, b *model.StockBatch) error {
	for _, stored := range r.batches {
		if stored.ID == b.ID {
			stored.Quantity = b.Quantity
			stored.Status = b.Status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubStockRepo) SumAvailable(_ context.Context, productID, branchID uuid.UUID) (int, error) {
	total := 0
	for _, b := range r.batches {
		if b.ProductID == productID && b.BranchID == branchID && b.Status == model.BatchInStock {
			total += b.Quantity
		}
	}
	return total, nil
}

func (r *stubStockRepo) ListBatches(_ context.Context, _ dto.BatchFilter) ([]model.StockBatch, int64, error) {
	out := make([]model.StockBatch, 0, len(r.batches))
	for _, b := range r.batches {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

var _ repository.StockRepository = (*stubStockRepo)(nil)

// ── Customer ──────────────────────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
	tiers     map[uuid.UUID]*model.MembershipTier
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{
		customers: make(map[uuid.UUID]*model.Customer),
		tiers:     make(map[uuid.UUID]*model.MembershipTier),
	}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.Customer, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubCustomerRepo) UpdateBalancesTx(_ *gorm.DB, id uuid.UUID, pointsDelta int, spentDelta decimal.Decimal) error {
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.TotalPoints += pointsDelta
	c.TotalSpent = c.TotalSpent.Add(spentDelta)
	return nil
}

func (r *stubCustomerRepo) SetTier(_ context.Context, customerID, tierID uuid.UUID) error {
	c, ok := r.customers[customerID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.TierID = tierID
	c.Tier = r.tiers[tierID]
	return nil
}

func (r *stubCustomerRepo) FindTierByID(_ context.Context, id uuid.UUID) (*model.MembershipTier, error) {
	t, ok := r.tiers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubCustomerRepo) FindTierForSpent(_ context.Context, spent decimal.Decimal) (*model.MembershipTier, error) {
	var best *model.MembershipTier
	for _, t := range r.tiers {
		if t.MinSpent.LessThanOrEqual(spent) && (best == nil || t.MinSpent.GreaterThan(best.MinSpent)) {
			best = t
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (r *stubCustomerRepo) DB() *gorm.DB { return nil }

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Product ───────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Branch ────────────────────────────────────────────────────────────────────

type stubBranchRepo struct {
	branches map[uuid.UUID]*model.Branch
}

func newStubBranchRepo() *stubBranchRepo {
	return &stubBranchRepo{branches: make(map[uuid.UUID]*model.Branch)}
}

func (r *stubBranchRepo) Create(_ context.Context, b *model.Branch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.branches[b.ID] = b
	return nil
}

func (r *stubBranchRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Branch, error) {
	b, ok := r.branches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *stubBranchRepo) List(_ context.Context) ([]model.Branch, error) {
	out := make([]model.Branch, 0, len(r.branches))
	for _, b := range r.branches {
		out = append(out, *b)
	}
	return out, nil
}

var _ repository.BranchRepository = (*stubBranchRepo)(nil)

// ── Order ─────────────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders   map[uuid.UUID]*model.SalesOrder
	byNumber map[string]*model.SalesOrder
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders:   make(map[uuid.UUID]*model.SalesOrder),
		byNumber: make(map[string]*model.SalesOrder),
	}
}

func (r *stubOrderRepo) Create(_ context.Context, _ *gorm.DB, o *model.SalesOrder) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	r.orders[o.ID] = o
	r.byNumber[o.OrderNumber] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.SalesOrder, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubOrderRepo) FindByOrderNumber(_ context.Context, number string) (*model.SalesOrder, error) {
	o, ok := r.byNumber[number]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status, paymentStatus string) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	if paymentStatus != "" {
		o.PaymentStatus = paymentStatus
	}
	return nil
}

func (r *stubOrderRepo) List(_ context.Context, filter dto.OrderFilter) ([]model.SalesOrder, int64, error) {
	var out []model.SalesOrder
	for _, o := range r.orders {
		if filter.Status != "" && filter.Status != "all" && o.Status != filter.Status {
			continue
		}
		if filter.CustomerID != "" && o.CustomerID.String() != filter.CustomerID {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── Return ────────────────────────────────────────────────────────────────────

type stubReturnRepo struct {
	requests map[uuid.UUID]*model.ReturnRequest
}

func newStubReturnRepo() *stubReturnRepo {
	return &stubReturnRepo{requests: make(map[uuid.UUID]*model.ReturnRequest)}
}

func (r *stubReturnRepo) Create(_ context.Context, rr *model.ReturnRequest) error {
	if rr.ID == uuid.Nil {
		rr.ID = uuid.New()
	}
	rr.CreatedAt = time.Now()
	r.requests[rr.ID] = rr
	return nil
}

func (r *stubReturnRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ReturnRequest, error) {
	rr, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rr, nil
}

func (r *stubReturnRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.ReturnRequest, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubReturnRepo) FindActiveByOrderID(_ context.Context, orderID uuid.UUID) (*model.ReturnRequest, error) {
	for _, rr := range r.requests {
		if rr.OrderID == orderID && rr.Status != model.ReturnRejected {
			return rr, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubReturnRepo) SaveTx(_ *gorm.DB, rr *model.ReturnRequest) error {
	if _, ok := r.requests[rr.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.requests[rr.ID] = rr
	return nil
}

func (r *stubReturnRepo) List(_ context.Context, filter dto.ReturnFilter) ([]model.ReturnRequest, int64, error) {
	var out []model.ReturnRequest
	for _, rr := range r.requests {
		if filter.Status != "" && filter.Status != "all" && rr.Status != filter.Status {
			continue
		}
		out = append(out, *rr)
	}
	return out, int64(len(out)), nil
}

func (r *stubReturnRepo) DB() *gorm.DB { return nil }

var _ repository.ReturnRepository = (*stubReturnRepo)(nil)

// ── Points ────────────────────────────────────────────────────────────────────

type stubPointsRepo struct {
	entries []*model.PointsTransaction
}

func (r *stubPointsRepo) CreateTx(_ *gorm.DB, t *model.PointsTransaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	r.entries = append(r.entries, t)
	return nil
}

func (r *stubPointsRepo) ListByCustomer(_ context.Context, customerID uuid.UUID, _ dto.PointsFilter) ([]model.PointsTransaction, int64, error) {
	var out []model.PointsTransaction
	for _, e := range r.entries {
		if e.CustomerID == customerID {
			out = append(out, *e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubPointsRepo) DB() *gorm.DB { return nil }

var _ repository.PointsRepository = (*stubPointsRepo)(nil)

// ── Employee ──────────────────────────────────────────────────────────────────

type stubEmployeeRepo struct {
	employees map[uuid.UUID]*model.Employee
}

func newStubEmployeeRepo() *stubEmployeeRepo {
	return &stubEmployeeRepo{employees: make(map[uuid.UUID]*model.Employee)}
}

func (r *stubEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.employees[e.ID] = e
	return nil
}

func (r *stubEmployeeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *stubEmployeeRepo) FindByUsername(_ context.Context, username string) (*model.Employee, error) {
	for _, e := range r.employees {
		if e.Username == username && e.Active {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubEmployeeRepo) List(_ context.Context) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range r.employees {
		if e.Active {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubEmployeeRepo) Update(_ context.Context, e *model.Employee) error {
	r.employees[e.ID] = e
	return nil
}

func (r *stubEmployeeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	e, ok := r.employees[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Active = false
	return nil
}

var _ repository.EmployeeRepository = (*stubEmployeeRepo)(nil)

// ── Shared fixture ────────────────────────────────────────────────────────────

// fixture wires the full service graph over in-memory stubs, pre-seeded with
// one Bronze customer (0% discount, 1 point per currency unit), one branch and
// one £50 product.
type fixture struct {
	stockRepo    *stubStockRepo
	customerRepo *stubCustomerRepo
	productRepo  *stubProductRepo
	branchRepo   *stubBranchRepo
	orderRepo    *stubOrderRepo
	returnRepo   *stubReturnRepo
	pointsRepo   *stubPointsRepo

	stock   StockService
	points  PointsService
	orders  OrderService
	returns ReturnService

	customer *model.Customer
	branch   *model.Branch
	product  *model.Product
}

func newFixture() *fixture {
	f := &fixture{
		stockRepo:    &stubStockRepo{},
		customerRepo: newStubCustomerRepo(),
		productRepo:  newStubProductRepo(),
		branchRepo:   newStubBranchRepo(),
		orderRepo:    newStubOrderRepo(),
		returnRepo:   newStubReturnRepo(),
		pointsRepo:   &stubPointsRepo{},
	}

	tier := &model.MembershipTier{
		ID:           uuid.New(),
		Name:         "Bronze",
		DiscountRate: decimal.Zero,
		PointRate:    decimal.NewFromInt(1),
		MinSpent:     decimal.Zero,
	}
	f.customerRepo.tiers[tier.ID] = tier

	f.customer = &model.Customer{
		ID:       uuid.New(),
		Email:    "walker@example.com",
		FullName: "Alex Walker",
		TierID:   tier.ID,
		Tier:     tier,
		Active:   true,
	}
	f.customerRepo.customers[f.customer.ID] = f.customer

	f.branch = &model.Branch{ID: uuid.New(), Code: "LDN-01", Name: "London Flagship", Active: true}
	f.branchRepo.branches[f.branch.ID] = f.branch

	f.product = &model.Product{
		ID:          uuid.New(),
		SKU:         "TENT-2P",
		Name:        "Alpine 2P Tent",
		Category:    "Camping",
		Brand:       "Summit",
		CostPrice:   decimal.NewFromInt(30),
		RetailPrice: decimal.NewFromInt(50),
		Status:      model.ProductActive,
	}
	f.productRepo.products[f.product.ID] = f.product

	f.stock = NewStockService(f.stockRepo, nil)
	f.points = NewPointsService(f.pointsRepo, f.customerRepo)
	f.orders = NewOrderService(f.orderRepo, f.customerRepo, f.productRepo, f.branchRepo, f.stock, f.points, nil)
	f.returns = NewReturnService(f.returnRepo, f.orderRepo, f.customerRepo, f.stock, f.points, nil)

	return f
}

// seedBatch inserts an InStock batch for the fixture product/branch.
func (f *fixture) seedBatch(qty int, receivedDaysAgo int) *model.StockBatch {
	b := &model.StockBatch{
		ID:           uuid.New(),
		ProductID:    f.product.ID,
		BranchID:     f.branch.ID,
		BatchNo:      "SEED",
		Quantity:     qty,
		UnitCost:     f.product.CostPrice,
		ReceivedDate: time.Now().AddDate(0, 0, -receivedDaysAgo),
		Status:       model.BatchInStock,
	}
	f.stockRepo.batches = append(f.stockRepo.batches, b)
	return b
}

func (f *fixture) available() int {
	n, _ := f.stockRepo.SumAvailable(context.Background(), f.product.ID, f.branch.ID)
	return n
}
