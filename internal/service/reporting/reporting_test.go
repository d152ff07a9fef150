package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhishekjatav/dukaan/internal/domain/models"
	"github.com/abhishekjatav/dukaan/internal/repository/rowstore"
	"github.com/abhishekjatav/dukaan/internal/repository/tables"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

func TestComputeMonthlyBill(t *testing.T) {
	records := []models.ExpenseRecord{
		{ID: "e1", Date: day(t, "2026-03-05"), Category: "rent", Amount: dec(t, "15000")},
		{ID: "e2", Date: day(t, "2026-02-28"), Category: "stock", Amount: dec(t, "4000")},
		{ID: "e3", Date: day(t, "2026-03-20"), Category: "power", Amount: dec(t, "1250.50")},
		{ID: "e4", Date: day(t, "2026-04-01"), Category: "rent", Amount: dec(t, "15000")},
	}

	t.Run("FiltersByMonthRegardlessOfOrder", func(t *testing.T) {
		bill := ComputeMonthlyBill(records, "2026-03")

		require.Len(t, bill.Records, 2)
		assert.Equal(t, "e1", bill.Records[0].ID)
		assert.Equal(t, "e3", bill.Records[1].ID)
		assert.True(t, bill.Total.Equal(dec(t, "16250.50")))
	})

	t.Run("EmptyMonth", func(t *testing.T) {
		bill := ComputeMonthlyBill(records, "2026-07")
		assert.Empty(t, bill.Records)
		assert.True(t, bill.Total.IsZero())
	})
}

func TestComputeLoanSummary(t *testing.T) {
	records := []models.LoanRecord{
		{ID: "l1", Lender: "A", Principal: dec(t, "1000"), RatePercent: dec(t, "10")},
		{ID: "l2", Lender: "B", Principal: dec(t, "2000"), RatePercent: dec(t, "5")},
	}

	summary := ComputeLoanSummary(records)

	require.Len(t, summary.Loans, 2)
	assert.True(t, summary.Loans[0].TotalInterest.Equal(dec(t, "100")))
	assert.True(t, summary.Loans[0].TotalPayable.Equal(dec(t, "1100")))
	assert.True(t, summary.TotalPrincipal.Equal(dec(t, "3000")))
	assert.True(t, summary.TotalPayable.Equal(dec(t, "3200")))

	require.NotNil(t, summary.BestDeal)
	assert.Equal(t, "B", summary.BestDeal.Lender)

	t.Run("TiesGoToFirstOccurrence", func(t *testing.T) {
		tied := ComputeLoanSummary([]models.LoanRecord{
			{ID: "l1", Lender: "First", Principal: dec(t, "500"), RatePercent: dec(t, "7")},
			{ID: "l2", Lender: "Second", Principal: dec(t, "900"), RatePercent: dec(t, "7")},
		})
		require.NotNil(t, tied.BestDeal)
		assert.Equal(t, "First", tied.BestDeal.Lender)
	})

	t.Run("NoLoans", func(t *testing.T) {
		empty := ComputeLoanSummary(nil)
		assert.Nil(t, empty.BestDeal)
		assert.True(t, empty.TotalPayable.IsZero())
	})
}

func TestServiceMonthlyBill(t *testing.T) {
	store := rowstore.NewMemoryStore()
	expenses := tables.NewExpenseTable(store)
	svc := NewService(expenses, tables.NewLoanTable(store), tables.NewSaleTable(store), time.UTC, nil)

	ctx := context.Background()
	require.NoError(t, expenses.Create(ctx, models.ExpenseRecord{ID: "e1", Date: day(t, "2026-03-05"), Category: "rent", Amount: dec(t, "15000"), Owner: "admin"}))
	require.NoError(t, expenses.Create(ctx, models.ExpenseRecord{ID: "e2", Date: day(t, "2026-04-05"), Category: "rent", Amount: dec(t, "15000"), Owner: "admin"}))

	bill, err := svc.MonthlyBill(ctx, "2026-03")
	require.NoError(t, err)
	require.Len(t, bill.Records, 1)
	assert.True(t, bill.Total.Equal(dec(t, "15000")))

	t.Run("RejectsBadMonthKey", func(t *testing.T) {
		_, err := svc.MonthlyBill(ctx, "March 2026")
		assert.ErrorIs(t, err, ErrInvalidMonth)
	})
}

func TestServiceDailyClose(t *testing.T) {
	store := rowstore.NewMemoryStore()
	sales := tables.NewSaleTable(store)
	svc := NewService(tables.NewExpenseTable(store), tables.NewLoanTable(store), sales, time.UTC, nil)

	ctx := context.Background()
	mk := func(bill string, ts time.Time, grand, discount, tax string) models.SaleRecord {
		return models.SaleRecord{
			BillID:        bill,
			Timestamp:     ts,
			Subtotal:      dec(t, grand),
			DiscountTotal: dec(t, discount),
			Tax:           dec(t, tax),
			GrandTotal:    dec(t, grand),
			OperatorID:    "op-1",
		}
	}

	today := time.Date(2026, 3, 15, 11, 30, 0, 0, time.UTC)
	require.NoError(t, sales.Append(ctx, mk("b1", today, "500", "0", "76.27")))
	require.NoError(t, sales.Append(ctx, mk("b2", today.Add(4*time.Hour), "1200", "100", "183.05")))
	require.NoError(t, sales.Append(ctx, mk("b3", today.AddDate(0, 0, -1), "9999", "0", "0")))

	summary, err := svc.DailyClose(ctx, today)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.SalesCount)
	assert.True(t, summary.Gross.Equal(dec(t, "1700")))
	assert.True(t, summary.DiscountTotal.Equal(dec(t, "100")))
	assert.True(t, summary.TaxTotal.Equal(dec(t, "259.32")))
}
