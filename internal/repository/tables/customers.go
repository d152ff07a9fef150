package tables

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/abhishekjatav/dukaan/internal/domain/models"
	"github.com/abhishekjatav/dukaan/internal/repository/rowstore"
)

const customersTable = "Customers"

// Customers column layout: phone, name, loyalty_points, lifetime_spend.
const (
	customerColPoints   = 2
	customerColLifetime = 3
)

// CustomerTable maps Customer records onto the Customers sheet.
type CustomerTable struct {
	store rowstore.Store
}

// NewCustomerTable wires the typed adapter.
func NewCustomerTable(store rowstore.Store) *CustomerTable {
	return &CustomerTable{store: store}
}

// Get returns the customer keyed by phone number.
func (t *CustomerTable) Get(ctx context.Context, phone string) (models.Customer, error) {
	rows, err := t.store.ReadAll(ctx, customersTable)
	if err != nil {
		return models.Customer{}, err
	}

	for _, row := range rows {
		if stringCell(row, 0) == phone {
			return decodeCustomerRow(row)
		}
	}
	return models.Customer{}, fmt.Errorf("table %s id %s: %w", customersTable, phone, rowstore.ErrRowNotFound)
}

// Create appends a new customer with a zero balance.
func (t *CustomerTable) Create(ctx context.Context, customer models.Customer) error {
	if customer.Phone == "" {
		return fmt.Errorf("customer requires a phone number")
	}
	if customer.LoyaltyPoints < 0 || customer.LifetimeSpend.IsNegative() {
		return fmt.Errorf("customer %s: points and spend must be non-negative", customer.Phone)
	}

	row := rowstore.Row{customer.Phone, customer.Name, customer.LoyaltyPoints, customer.LifetimeSpend.String()}
	return t.store.Append(ctx, customersTable, row)
}

// SetLoyaltyPoints overwrites the points balance.
func (t *CustomerTable) SetLoyaltyPoints(ctx context.Context, phone string, points int) error {
	if points < 0 {
		return fmt.Errorf("customer %s: points must be non-negative", phone)
	}
	return t.store.FindAndUpdate(ctx, customersTable, phone, customerColPoints, points)
}

// SetLifetimeSpend overwrites the accumulated spend.
func (t *CustomerTable) SetLifetimeSpend(ctx context.Context, phone string, spend decimal.Decimal) error {
	if spend.IsNegative() {
		return fmt.Errorf("customer %s: spend must be non-negative", phone)
	}
	return t.store.FindAndUpdate(ctx, customersTable, phone, customerColLifetime, spend.String())
}

func decodeCustomerRow(row rowstore.Row) (models.Customer, error) {
	points, err := intCell(customersTable, row, customerColPoints, "loyalty_points")
	if err != nil {
		return models.Customer{}, err
	}
	spend, err := decimalCell(customersTable, row, customerColLifetime, "lifetime_spend")
	if err != nil {
		return models.Customer{}, err
	}

	return models.Customer{
		Phone:         stringCell(row, 0),
		Name:          stringCell(row, 1),
		LoyaltyPoints: points,
		LifetimeSpend: spend,
	}, nil
}
