package service

import (
	"context"
	"testing"

	"summitgear/internal/apierror"
	"summitgear/internal/dto"
	"summitgear/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_AppendsEntryAndUpdatesBalances(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	balance, err := f.points.Record(ctx, nil, f.customer.ID, nil,
		150, decimal.NewFromInt(150), model.PointsEarn, "Points earned on order SO-2026-0001")
	require.NoError(t, err)
	assert.Equal(t, 150, balance)
	assert.Equal(t, 150, f.customer.TotalPoints)
	assertDecimal(t, 150, f.customer.TotalSpent)

	balance, err = f.points.Record(ctx, nil, f.customer.ID, nil,
		-50, decimal.NewFromInt(-50), model.PointsAdjust, "Return refund for order SO-2026-0001")
	require.NoError(t, err)
	assert.Equal(t, 100, balance)
	assert.Equal(t, 100, f.customer.TotalPoints)
	assertDecimal(t, 100, f.customer.TotalSpent)

	// Two entries, never an overwrite.
	require.Len(t, f.pointsRepo.entries, 2)
	assert.Equal(t, 150, f.pointsRepo.entries[0].BalanceAfter)
	assert.Equal(t, 100, f.pointsRepo.entries[1].BalanceAfter)
}

func TestRecord_ZeroPointsStillWritesEntry(t *testing.T) {
	f := newFixture()

	// A zero-point order still posts its spend so the counters reconcile.
	_, err := f.points.Record(context.Background(), nil, f.customer.ID, nil,
		0, decimal.NewFromInt(20), model.PointsEarn, "Points earned on order SO-2026-0002")
	require.NoError(t, err)

	require.Len(t, f.pointsRepo.entries, 1)
	assert.Equal(t, 0, f.pointsRepo.entries[0].PointChange)
	assertDecimal(t, 20, f.customer.TotalSpent)
}

func TestRecord_UnknownCustomer(t *testing.T) {
	f := newFixture()

	_, err := f.points.Record(context.Background(), nil, uuid.New(), nil,
		10, decimal.Zero, model.PointsBonus, "signup bonus")
	requireKind(t, err, apierror.KindNotFound)
	assert.Empty(t, f.pointsRepo.entries)
}

func TestLedger(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	orderID := uuid.New()

	_, err := f.points.Record(ctx, nil, f.customer.ID, &orderID,
		100, decimal.NewFromInt(100), model.PointsEarn, "Points earned on order SO-2026-0003")
	require.NoError(t, err)

	resp, err := f.points.Ledger(ctx, f.customer.ID, dto.PointsFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 50, resp.Limit)
	require.Len(t, resp.Data, 1)
	entry := resp.Data[0]
	assert.Equal(t, model.PointsEarn, entry.TransType)
	assert.Equal(t, 100, entry.PointChange)
	require.NotNil(t, entry.OrderID)
	assert.Equal(t, orderID.String(), *entry.OrderID)
}
