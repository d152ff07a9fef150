package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanRecord captures a borrowed amount and its simple-interest terms.
// Interest figures are derived on read and never stored.
type LoanRecord struct {
	ID          string
	Date        time.Time
	Lender      string
	Principal   decimal.Decimal
	RatePercent decimal.Decimal
	Note        string
}

// TotalInterest returns principal × rate/100.
func (l LoanRecord) TotalInterest() decimal.Decimal {
	return l.Principal.Mul(l.RatePercent).Div(decimal.NewFromInt(100))
}

// TotalPayable returns principal plus total interest.
func (l LoanRecord) TotalPayable() decimal.Decimal {
	return l.Principal.Add(l.TotalInterest())
}
