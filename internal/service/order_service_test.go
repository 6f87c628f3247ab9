package service

import (
	"context"
	"regexp"
	"testing"

	"summitgear/internal/apierror"
	"summitgear/internal/dto"
	"summitgear/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOrder(t *testing.T, f *fixture, qty int) *dto.OrderResponse {
	t.Helper()
	resp, err := f.orders.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		CustomerID:    f.customer.ID.String(),
		BranchID:      f.branch.ID.String(),
		PaymentMethod: "card",
		Items:         []dto.OrderItemRequest{{ProductID: f.product.ID.String(), Quantity: qty}},
	})
	require.NoError(t, err)
	return resp
}

func TestCreateOrder_PricingAndPoints(t *testing.T) {
	f := newFixture()
	f.seedBatch(10, 1)

	// Bronze: 0% discount, 1 point per currency unit. Two £50 tents.
	resp := placeOrder(t, f, 2)

	assertDecimal(t, 100, resp.TotalAmount)
	assertDecimal(t, 0, resp.DiscountAmount)
	assertDecimal(t, 100, resp.FinalAmount)
	assert.Equal(t, 100, resp.PointsEarned)
	assert.Equal(t, model.OrderPending, resp.Status)
	assert.Equal(t, model.PaymentUnpaid, resp.PaymentStatus)
	assert.Equal(t, 8, f.available())

	// Points are posted at completion, not at creation.
	assert.Equal(t, 0, f.customer.TotalPoints)
	assert.Empty(t, f.pointsRepo.entries)
}

func TestCreateOrder_OrderNumberFormat(t *testing.T) {
	f := newFixture()
	f.seedBatch(10, 1)

	resp := placeOrder(t, f, 1)
	assert.Regexp(t, regexp.MustCompile(`^SO-\d{4}-\d{4}$`), resp.OrderNumber)
}

func TestCreateOrder_TierDiscountAndPointRate(t *testing.T) {
	f := newFixture()
	f.seedBatch(10, 1)

	gold := &model.MembershipTier{
		ID:           uuid.New(),
		Name:         "Gold",
		DiscountRate: decimal.NewFromInt(10),
		PointRate:    decimal.NewFromInt(2),
		MinSpent:     decimal.NewFromInt(1000),
	}
	f.customerRepo.tiers[gold.ID] = gold
	f.customer.TierID = gold.ID
	f.customer.Tier = gold

	// 2 × £50 = 100, 10% off = 90, 2 points per unit of the discounted total.
	resp := placeOrder(t, f, 2)

	assertDecimal(t, 100, resp.TotalAmount)
	assertDecimal(t, 10, resp.DiscountAmount)
	assertDecimal(t, 90, resp.FinalAmount)
	assert.Equal(t, 180, resp.PointsEarned)
}

func TestCreateOrder_DeliveryFeeExcludedFromPoints(t *testing.T) {
	f := newFixture()
	f.seedBatch(10, 1)

	resp, err := f.orders.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		CustomerID:    f.customer.ID.String(),
		BranchID:      f.branch.ID.String(),
		PaymentMethod: "card",
		DeliveryFee:   decimal.NewFromInt(5),
		Items:         []dto.OrderItemRequest{{ProductID: f.product.ID.String(), Quantity: 2}},
	})
	require.NoError(t, err)

	assertDecimal(t, 105, resp.FinalAmount)
	// The fee is paid, not spent on goods — it never earns points.
	assert.Equal(t, 100, resp.PointsEarned)
}

func TestCreateOrder_NegativeTotalClampedToZero(t *testing.T) {
	f := newFixture()
	f.seedBatch(10, 1)

	resp, err := f.orders.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		CustomerID:        f.customer.ID.String(),
		BranchID:          f.branch.ID.String(),
		PaymentMethod:     "cash",
		PromotionDiscount: decimal.NewFromInt(200),
		Items:             []dto.OrderItemRequest{{ProductID: f.product.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	assertDecimal(t, 0, resp.FinalAmount)
	assert.Equal(t, 0, resp.PointsEarned)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	f := newFixture()
	f.seedBatch(3, 1)

	_, err := f.orders.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		CustomerID:    f.customer.ID.String(),
		BranchID:      f.branch.ID.String(),
		PaymentMethod: "card",
		Items:         []dto.OrderItemRequest{{ProductID: f.product.ID.String(), Quantity: 5}},
	})
	requireKind(t, err, apierror.KindConflict)
	assert.Equal(t, 3, f.available())
}

func TestCreateOrder_UnknownCustomer(t *testing.T) {
	f := newFixture()
	f.seedBatch(10, 1)

	_, err := f.orders.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		CustomerID:    uuid.NewString(),
		BranchID:      f.branch.ID.String(),
		PaymentMethod: "card",
		Items:         []dto.OrderItemRequest{{ProductID: f.product.ID.String(), Quantity: 1}},
	})
	requireKind(t, err, apierror.KindNotFound)
}

func TestCreateOrder_InactiveProduct(t *testing.T) {
	f := newFixture()
	f.seedBatch(10, 1)
	f.product.Status = model.ProductInactive

	_, err := f.orders.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		CustomerID:    f.customer.ID.String(),
		BranchID:      f.branch.ID.String(),
		PaymentMethod: "card",
		Items:         []dto.OrderItemRequest{{ProductID: f.product.ID.String(), Quantity: 1}},
	})
	requireKind(t, err, apierror.KindValidation)
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	f := newFixture()

	_, err := f.orders.CreateOrder(context.Background(), uuid.New(), dto.CreateOrderRequest{
		CustomerID:    f.customer.ID.String(),
		BranchID:      f.branch.ID.String(),
		PaymentMethod: "card",
	})
	requireKind(t, err, apierror.KindValidation)
}

func TestUpdateOrderStatus_CompletePostsEarnEntry(t *testing.T) {
	f := newFixture()
	f.seedBatch(10, 1)
	resp := placeOrder(t, f, 2)
	orderID := uuid.MustParse(resp.ID)

	err := f.orders.UpdateOrderStatus(context.Background(), orderID, uuid.New(), model.OrderCompleted)
	require.NoError(t, err)

	order, _ := f.orderRepo.FindByID(context.Background(), orderID)
	assert.Equal(t, model.OrderCompleted, order.Status)
	assert.Equal(t, model.PaymentPaid, order.PaymentStatus)

	assert.Equal(t, 100, f.customer.TotalPoints)
	assertDecimal(t, 100, f.customer.TotalSpent)

	require.Len(t, f.pointsRepo.entries, 1)
	entry := f.pointsRepo.entries[0]
	assert.Equal(t, model.PointsEarn, entry.TransType)
	assert.Equal(t, 100, entry.PointChange)
	assert.Equal(t, 100, entry.BalanceAfter)
	assertDecimal(t, 100, entry.SpentChange)
	require.NotNil(t, entry.OrderID)
	assert.Equal(t, orderID, *entry.OrderID)
}

func TestUpdateOrderStatus_DirectReturnedRejected(t *testing.T) {
	f := newFixture()
	f.seedBatch(10, 1)
	resp := placeOrder(t, f, 1)

	err := f.orders.UpdateOrderStatus(context.Background(), uuid.MustParse(resp.ID), uuid.New(), model.OrderReturned)
	requireKind(t, err, apierror.KindValidation)
}

func TestUpdateOrderStatus_InvalidTransitions(t *testing.T) {
	f := newFixture()
	f.seedBatch(10, 1)
	resp := placeOrder(t, f, 1)
	orderID := uuid.MustParse(resp.ID)

	require.NoError(t, f.orders.UpdateOrderStatus(context.Background(), orderID, uuid.New(), model.OrderCompleted))

	// Completed is terminal for the status endpoint.
	requireKind(t, f.orders.UpdateOrderStatus(context.Background(), orderID, uuid.New(), model.OrderCompleted), apierror.KindConflict)
	requireKind(t, f.orders.UpdateOrderStatus(context.Background(), orderID, uuid.New(), model.OrderCancelled), apierror.KindConflict)

	// Completing only posted the earn entry once.
	assert.Len(t, f.pointsRepo.entries, 1)
}

func TestUpdateOrderStatus_CancelRestocksLines(t *testing.T) {
	f := newFixture()
	f.seedBatch(10, 1)
	resp := placeOrder(t, f, 2)
	orderID := uuid.MustParse(resp.ID)
	assert.Equal(t, 8, f.available())

	err := f.orders.UpdateOrderStatus(context.Background(), orderID, uuid.New(), model.OrderCancelled)
	require.NoError(t, err)

	order, _ := f.orderRepo.FindByID(context.Background(), orderID)
	assert.Equal(t, model.OrderCancelled, order.Status)
	assert.Equal(t, 10, f.available())

	// Restock lands as a fresh batch valued at cost.
	restock := f.stockRepo.batches[len(f.stockRepo.batches)-1]
	assert.Equal(t, "CANCEL-"+order.OrderNumber, restock.BatchNo)
	assert.Equal(t, 2, restock.Quantity)
	assert.True(t, restock.UnitCost.Equal(f.product.CostPrice))
	assert.Equal(t, model.BatchInStock, restock.Status)

	// No points move on cancellation — nothing was earned yet.
	assert.Empty(t, f.pointsRepo.entries)
	assert.Equal(t, 0, f.customer.TotalPoints)
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	f := newFixture()
	err := f.orders.UpdateOrderStatus(context.Background(), uuid.New(), uuid.New(), model.OrderCompleted)
	requireKind(t, err, apierror.KindNotFound)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{model.OrderPending, model.OrderCompleted, true},
		{model.OrderPending, model.OrderCancelled, true},
		{model.OrderPending, model.OrderReturned, false},
		{model.OrderCompleted, model.OrderReturned, true},
		{model.OrderCompleted, model.OrderCancelled, false},
		{model.OrderCompleted, model.OrderCompleted, false},
		{model.OrderCancelled, model.OrderCompleted, false},
		{model.OrderReturned, model.OrderCompleted, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, canTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
