package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseRecord captures a wallet expense entry.
type ExpenseRecord struct {
	ID       string
	Date     time.Time
	Category string
	Amount   decimal.Decimal
	Owner    string
	Note     string
}
