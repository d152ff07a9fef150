package tables

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/abhishekjatav/dukaan/internal/domain/models"
	"github.com/abhishekjatav/dukaan/internal/repository/rowstore"
)

const couponsTable = "Coupons"

// CouponTable maps Coupon records onto the Coupons sheet.
// Column layout: code, kind, value.
type CouponTable struct {
	store rowstore.Store
}

// NewCouponTable wires the typed adapter.
func NewCouponTable(store rowstore.Store) *CouponTable {
	return &CouponTable{store: store}
}

// Lookup resolves a coupon code. An unknown code is not an error; ok is false
// and the checkout proceeds with no discount.
func (t *CouponTable) Lookup(ctx context.Context, code string) (models.Coupon, bool, error) {
	if code == "" {
		return models.Coupon{}, false, nil
	}

	rows, err := t.store.ReadAll(ctx, couponsTable)
	if err != nil {
		return models.Coupon{}, false, err
	}

	for _, row := range rows {
		if stringCell(row, 0) != code {
			continue
		}
		coupon, err := decodeCouponRow(row)
		if err != nil {
			return models.Coupon{}, false, err
		}
		return coupon, true, nil
	}
	return models.Coupon{}, false, nil
}

func decodeCouponRow(row rowstore.Row) (models.Coupon, error) {
	value, err := decimalCell(couponsTable, row, 2, "value")
	if err != nil {
		return models.Coupon{}, err
	}

	kind := models.CouponKind(stringCell(row, 1))
	switch kind {
	case models.CouponPercent:
		if value.IsNegative() || value.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return models.Coupon{}, fmt.Errorf("table %s: percent coupon %s value %s out of [0,1)", couponsTable, stringCell(row, 0), value)
		}
	case models.CouponFlat:
		if value.IsNegative() {
			return models.Coupon{}, fmt.Errorf("table %s: flat coupon %s value must be non-negative", couponsTable, stringCell(row, 0))
		}
	default:
		return models.Coupon{}, fmt.Errorf("table %s: coupon %s has unknown kind %q", couponsTable, stringCell(row, 0), kind)
	}

	return models.Coupon{Code: stringCell(row, 0), Kind: kind, Value: value}, nil
}
