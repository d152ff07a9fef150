package models

import "github.com/shopspring/decimal"

// Customer is a loyalty-tracked buyer keyed by phone number.
type Customer struct {
	Phone         string
	Name          string
	LoyaltyPoints int
	LifetimeSpend decimal.Decimal
}
