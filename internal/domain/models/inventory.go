package models

import "github.com/shopspring/decimal"

// InventoryItem is a sellable product tracked in the Inventory table.
type InventoryItem struct {
	ID        string
	Name      string
	Category  string
	UnitPrice decimal.Decimal
	Stock     int
}
