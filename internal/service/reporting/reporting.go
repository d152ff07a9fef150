package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/abhishekjatav/dukaan/internal/domain/models"
	"github.com/abhishekjatav/dukaan/internal/repository/tables"
)

const monthLayout = "2006-01"

// ErrInvalidMonth indicates a month key that is not formatted 2006-01.
var ErrInvalidMonth = errors.New("month must be formatted " + monthLayout)

// MonthlyBill is the set of expense records falling in one calendar month and
// their sum.
type MonthlyBill struct {
	Month   string
	Records []models.ExpenseRecord
	Total   decimal.Decimal
}

// LoanView is a loan record with its derived interest figures attached.
type LoanView struct {
	models.LoanRecord
	TotalInterest decimal.Decimal
	TotalPayable  decimal.Decimal
}

// LoanSummary aggregates all loan records and flags the cheapest rate.
type LoanSummary struct {
	Loans          []LoanView
	TotalPrincipal decimal.Decimal
	TotalPayable   decimal.Decimal
	BestDeal       *LoanView
}

// ComputeMonthlyBill filters records whose date falls in the given month
// (formatted 2006-01) and sums their amounts. Input ordering is preserved.
func ComputeMonthlyBill(records []models.ExpenseRecord, monthKey string) MonthlyBill {
	bill := MonthlyBill{Month: monthKey, Records: []models.ExpenseRecord{}, Total: decimal.Zero}
	for _, record := range records {
		if record.Date.Format(monthLayout) != monthKey {
			continue
		}
		bill.Records = append(bill.Records, record)
		bill.Total = bill.Total.Add(record.Amount)
	}
	return bill
}

// ComputeLoanSummary derives interest and payable figures per loan and across
// all loans. The best deal is the lowest interest rate; ties go to the record
// seen first.
func ComputeLoanSummary(records []models.LoanRecord) LoanSummary {
	summary := LoanSummary{
		Loans:          make([]LoanView, 0, len(records)),
		TotalPrincipal: decimal.Zero,
		TotalPayable:   decimal.Zero,
	}

	for _, record := range records {
		view := LoanView{
			LoanRecord:    record,
			TotalInterest: record.TotalInterest(),
			TotalPayable:  record.TotalPayable(),
		}
		summary.Loans = append(summary.Loans, view)
		summary.TotalPrincipal = summary.TotalPrincipal.Add(record.Principal)
		summary.TotalPayable = summary.TotalPayable.Add(view.TotalPayable)
	}

	for i := range summary.Loans {
		if summary.BestDeal == nil || summary.Loans[i].RatePercent.LessThan(summary.BestDeal.RatePercent) {
			summary.BestDeal = &summary.Loans[i]
		}
	}

	return summary
}

// Service loads ledger rows and exposes the aggregate computations.
type Service struct {
	expenses *tables.ExpenseTable
	loans    *tables.LoanTable
	sales    *tables.SaleTable
	loc      *time.Location
	logger   *zap.Logger
}

// NewService wires a reporting service. loc determines which calendar day a
// sale timestamp belongs to.
func NewService(expenses *tables.ExpenseTable, loans *tables.LoanTable, sales *tables.SaleTable, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{expenses: expenses, loans: loans, sales: sales, loc: loc, logger: logger}
}

// MonthlyBill loads the expense ledger and aggregates the given month.
func (s *Service) MonthlyBill(ctx context.Context, monthKey string) (MonthlyBill, error) {
	if _, err := time.Parse(monthLayout, monthKey); err != nil {
		return MonthlyBill{}, ErrInvalidMonth
	}

	records, err := s.expenses.List(ctx)
	if err != nil {
		return MonthlyBill{}, fmt.Errorf("load expense ledger: %w", err)
	}
	return ComputeMonthlyBill(records, monthKey), nil
}

// LoanSummary loads the loan ledger and aggregates it.
func (s *Service) LoanSummary(ctx context.Context) (LoanSummary, error) {
	records, err := s.loans.List(ctx)
	if err != nil {
		return LoanSummary{}, fmt.Errorf("load loan ledger: %w", err)
	}
	return ComputeLoanSummary(records), nil
}

// DailyClose aggregates the sale ledger for the calendar day containing the
// given instant.
func (s *Service) DailyClose(ctx context.Context, at time.Time) (models.DailySummary, error) {
	records, err := s.sales.List(ctx)
	if err != nil {
		return models.DailySummary{}, fmt.Errorf("load sale ledger: %w", err)
	}

	day := at.In(s.loc)
	summary := models.DailySummary{
		Date:          time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc),
		Gross:         decimal.Zero,
		DiscountTotal: decimal.Zero,
		TaxTotal:      decimal.Zero,
	}

	for _, record := range records {
		ts := record.Timestamp.In(s.loc)
		if ts.Year() != day.Year() || ts.Month() != day.Month() || ts.Day() != day.Day() {
			continue
		}
		summary.SalesCount++
		summary.Gross = summary.Gross.Add(record.GrandTotal)
		summary.DiscountTotal = summary.DiscountTotal.Add(record.DiscountTotal)
		summary.TaxTotal = summary.TaxTotal.Add(record.Tax)
	}

	return summary, nil
}
