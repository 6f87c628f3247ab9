package service

import (
	"context"
	"testing"

	"summitgear/internal/apierror"
	"summitgear/internal/dto"
	"summitgear/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireKind asserts the error is a business error of the given kind.
func requireKind(t *testing.T, err error, kind apierror.Kind) {
	t.Helper()
	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, kind, apiErr.Kind)
}

func assertDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.NewFromInt(want)), "want %d, got %s", want, got)
}

func TestAllocateFIFO_OldestBatchFirst(t *testing.T) {
	f := newFixture()
	older := f.seedBatch(5, 10)
	newer := f.seedBatch(5, 1)

	err := f.stock.AllocateFIFO(nil, f.product, f.branch.ID, 7)
	require.NoError(t, err)

	assert.Equal(t, 0, older.Quantity)
	assert.Equal(t, model.BatchSold, older.Status)
	assert.Equal(t, 3, newer.Quantity)
	assert.Equal(t, model.BatchInStock, newer.Status)
	assert.Equal(t, 3, f.available())
}

func TestAllocateFIFO_ExactDepletion(t *testing.T) {
	f := newFixture()
	b := f.seedBatch(4, 1)

	err := f.stock.AllocateFIFO(nil, f.product, f.branch.ID, 4)
	require.NoError(t, err)

	// Depleted batches flip to Sold but stay on the books.
	assert.Equal(t, 0, b.Quantity)
	assert.Equal(t, model.BatchSold, b.Status)
	assert.Equal(t, 0, f.available())
}

func TestAllocateFIFO_InsufficientStock(t *testing.T) {
	f := newFixture()
	f.seedBatch(3, 1)

	err := f.stock.AllocateFIFO(nil, f.product, f.branch.ID, 5)
	requireKind(t, err, apierror.KindConflict)

	// Nothing deducted on failure.
	assert.Equal(t, 3, f.available())
}

func TestAllocateFIFO_RejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture()
	f.seedBatch(3, 1)

	requireKind(t, f.stock.AllocateFIFO(nil, f.product, f.branch.ID, 0), apierror.KindValidation)
	requireKind(t, f.stock.AllocateFIFO(nil, f.product, f.branch.ID, -2), apierror.KindValidation)
}

func TestAllocateFIFO_ScopedToBranch(t *testing.T) {
	f := newFixture()
	f.seedBatch(5, 1)

	other := &model.Branch{Name: "Leeds Outlet", Code: "LDS-01", Active: true}
	require.NoError(t, f.branchRepo.Create(context.Background(), other))

	err := f.stock.AllocateFIFO(nil, f.product, other.ID, 1)
	requireKind(t, err, apierror.KindConflict)
	assert.Equal(t, 5, f.available())
}

func TestReplenish(t *testing.T) {
	f := newFixture()

	resp, err := f.stock.Replenish(context.Background(), dto.ReplenishRequest{
		ProductID: f.product.ID.String(),
		BranchID:  f.branch.ID.String(),
		Quantity:  12,
		UnitCost:  decimal.NewFromInt(28),
		BatchNo:   "PO-2026-001",
	})
	require.NoError(t, err)

	assert.Equal(t, "PO-2026-001", resp.BatchNo)
	assert.Equal(t, 12, resp.Quantity)
	assert.Equal(t, model.BatchInStock, resp.Status)
	assert.Equal(t, 12, f.available())
}

func TestReplenishTx_RejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture()

	err := f.stock.ReplenishTx(context.Background(), nil, &model.StockBatch{
		ProductID: f.product.ID,
		BranchID:  f.branch.ID,
		BatchNo:   "PO-2026-002",
		Quantity:  0,
	})
	requireKind(t, err, apierror.KindValidation)
	assert.Equal(t, 0, f.available())
}

func TestAvailableQuantity_IgnoresSoldAndReturned(t *testing.T) {
	f := newFixture()
	f.seedBatch(5, 3)
	sold := f.seedBatch(5, 2)
	sold.Status = model.BatchSold
	ret := f.seedBatch(5, 1)
	ret.Status = model.BatchReturned

	n, err := f.stock.AvailableQuantity(context.Background(), f.product.ID, f.branch.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}
