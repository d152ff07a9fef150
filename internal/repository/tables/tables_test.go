package tables

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhishekjatav/dukaan/internal/domain/models"
	"github.com/abhishekjatav/dukaan/internal/repository/rowstore"
)

func mustDec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func TestInventoryTable(t *testing.T) {
	ctx := context.Background()
	store := rowstore.NewMemoryStore()
	table := NewInventoryTable(store)

	item := models.InventoryItem{ID: "sku-1", Name: "Keyboard", Category: "electronics", UnitPrice: mustDec(t, "1499.50"), Stock: 12}
	require.NoError(t, table.Create(ctx, item))

	t.Run("RoundTrip", func(t *testing.T) {
		got, err := table.Get(ctx, "sku-1")
		require.NoError(t, err)
		assert.Equal(t, "Keyboard", got.Name)
		assert.True(t, got.UnitPrice.Equal(item.UnitPrice))
		assert.Equal(t, 12, got.Stock)
	})

	t.Run("SetStock", func(t *testing.T) {
		require.NoError(t, table.SetStock(ctx, "sku-1", 7))
		got, err := table.Get(ctx, "sku-1")
		require.NoError(t, err)
		assert.Equal(t, 7, got.Stock)
	})

	t.Run("UnknownIDIsRowNotFound", func(t *testing.T) {
		_, err := table.Get(ctx, "sku-missing")
		assert.ErrorIs(t, err, rowstore.ErrRowNotFound)
	})

	t.Run("MalformedNumericCellIsRejected", func(t *testing.T) {
		require.NoError(t, store.Append(ctx, "Inventory", rowstore.Row{"sku-bad", "Broken", "misc", "not-a-price", 3}))
		_, err := table.Get(ctx, "sku-bad")
		assert.ErrorContains(t, err, "unit_price")
	})

	t.Run("RejectsNegativeStock", func(t *testing.T) {
		assert.Error(t, table.SetStock(ctx, "sku-1", -1))
	})
}

func TestCustomerTable(t *testing.T) {
	ctx := context.Background()
	store := rowstore.NewMemoryStore()
	table := NewCustomerTable(store)

	require.NoError(t, table.Create(ctx, models.Customer{Phone: "9900112233", Name: "Asha", LoyaltyPoints: 40, LifetimeSpend: mustDec(t, "5200")}))

	t.Run("UpdatesBalances", func(t *testing.T) {
		require.NoError(t, table.SetLoyaltyPoints(ctx, "9900112233", 55))
		require.NoError(t, table.SetLifetimeSpend(ctx, "9900112233", mustDec(t, "6400.25")))

		got, err := table.Get(ctx, "9900112233")
		require.NoError(t, err)
		assert.Equal(t, 55, got.LoyaltyPoints)
		assert.True(t, got.LifetimeSpend.Equal(mustDec(t, "6400.25")))
	})

	t.Run("RejectsNegativePoints", func(t *testing.T) {
		assert.Error(t, table.SetLoyaltyPoints(ctx, "9900112233", -5))
	})
}

func TestCouponTable(t *testing.T) {
	ctx := context.Background()
	store := rowstore.NewMemoryStore()
	table := NewCouponTable(store)

	require.NoError(t, store.Append(ctx, "Coupons", rowstore.Row{"WELCOME10", "percent", "0.1"}))
	require.NoError(t, store.Append(ctx, "Coupons", rowstore.Row{"FLAT500", "flat", "500"}))
	require.NoError(t, store.Append(ctx, "Coupons", rowstore.Row{"BROKEN", "percent", "1.5"}))

	t.Run("ResolvesPercent", func(t *testing.T) {
		coupon, ok, err := table.Lookup(ctx, "WELCOME10")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, models.CouponPercent, coupon.Kind)
		assert.True(t, coupon.Value.Equal(mustDec(t, "0.1")))
	})

	t.Run("UnknownCodeIsNotAnError", func(t *testing.T) {
		_, ok, err := table.Lookup(ctx, "NOPE")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("PercentOutOfRangeIsRejected", func(t *testing.T) {
		_, _, err := table.Lookup(ctx, "BROKEN")
		assert.ErrorContains(t, err, "out of [0,1)")
	})
}

func TestExpenseTable(t *testing.T) {
	ctx := context.Background()
	store := rowstore.NewMemoryStore()
	table := NewExpenseTable(store)

	date, err := time.Parse("2006-01-02", "2026-03-12")
	require.NoError(t, err)

	require.NoError(t, table.Create(ctx, models.ExpenseRecord{
		ID: "e1", Date: date, Category: "rent", Amount: mustDec(t, "15000"), Owner: "admin", Note: "march rent",
	}))

	t.Run("UpdatePatchesOnlyProvidedFields", func(t *testing.T) {
		amount := mustDec(t, "15500")
		require.NoError(t, table.Update(ctx, "e1", ExpenseUpdate{Amount: &amount}))

		records, err := table.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.True(t, records[0].Amount.Equal(amount))
		assert.Equal(t, "rent", records[0].Category)
		assert.Equal(t, "march rent", records[0].Note)
	})

	t.Run("DeleteRemovesRow", func(t *testing.T) {
		require.NoError(t, table.Delete(ctx, "e1"))
		records, err := table.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("DeleteUnknownIsRowNotFound", func(t *testing.T) {
		assert.ErrorIs(t, table.Delete(ctx, "e-missing"), rowstore.ErrRowNotFound)
	})
}

func TestSaleTableRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := rowstore.NewMemoryStore()
	table := NewSaleTable(store)

	ts := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	record := models.SaleRecord{
		BillID:        "BILL-20260315100000-abc123de",
		Timestamp:     ts,
		CustomerPhone: "9900112233",
		Lines: []models.CartLine{
			{ItemID: "sku-1", Name: "Keyboard", Quantity: 2, UnitPrice: mustDec(t, "1500"), LineTotal: mustDec(t, "3000")},
		},
		Subtotal:      mustDec(t, "3000"),
		DiscountTotal: mustDec(t, "300"),
		Tax:           mustDec(t, "486"),
		GrandTotal:    mustDec(t, "3186"),
		OperatorID:    "op-1",
	}

	require.NoError(t, table.Append(ctx, record))

	records, err := table.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, record.BillID, got.BillID)
	assert.True(t, got.Timestamp.Equal(ts))
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.True(t, got.GrandTotal.Equal(record.GrandTotal))
}

func TestUserTable(t *testing.T) {
	ctx := context.Background()
	store := rowstore.NewMemoryStore()
	table := NewUserTable(store)

	require.NoError(t, store.Append(ctx, "Users", rowstore.Row{"asha", "secret", "Asha K", "Admin"}))
	require.NoError(t, store.Append(ctx, "Users", rowstore.Row{"ghost", "secret", "Ghost", "Superuser"}))

	t.Run("ResolvesRole", func(t *testing.T) {
		user, err := table.Get(ctx, "asha")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, user.Role)
	})

	t.Run("UnknownRoleIsRejected", func(t *testing.T) {
		_, err := table.Get(ctx, "ghost")
		assert.ErrorContains(t, err, "unknown role")
	})

	t.Run("UnknownUserIsRowNotFound", func(t *testing.T) {
		_, err := table.Get(ctx, "nobody")
		assert.ErrorIs(t, err, rowstore.ErrRowNotFound)
	})
}
