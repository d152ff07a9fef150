package models

import "github.com/shopspring/decimal"

// CouponKind distinguishes the two supported discount effects.
type CouponKind string

const (
	// CouponPercent discounts a fraction of the subtotal; Value is in [0,1).
	CouponPercent CouponKind = "percent"
	// CouponFlat discounts a fixed currency amount, clamped to the subtotal.
	CouponFlat CouponKind = "flat"
)

// Coupon is a static discount code from the Coupons table.
type Coupon struct {
	Code  string
	Kind  CouponKind
	Value decimal.Decimal
}
