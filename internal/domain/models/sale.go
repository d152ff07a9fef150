package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleRecord is the immutable snapshot appended to the sale ledger at
// checkout. It is never mutated or deleted by the billing engine.
type SaleRecord struct {
	BillID        string
	Timestamp     time.Time
	CustomerPhone string // empty for walk-in sales
	Lines         []CartLine
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	Tax           decimal.Decimal
	GrandTotal    decimal.Decimal
	OperatorID    string
}

// DailySummary aggregates one trading day of the sale ledger for archival.
type DailySummary struct {
	Date          time.Time
	SalesCount    int
	Gross         decimal.Decimal
	DiscountTotal decimal.Decimal
	TaxTotal      decimal.Decimal
}
