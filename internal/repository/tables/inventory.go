package tables

import (
	"context"
	"fmt"

	"github.com/abhishekjatav/dukaan/internal/domain/models"
	"github.com/abhishekjatav/dukaan/internal/repository/rowstore"
)

const inventoryTable = "Inventory"

// Inventory column layout: id, name, category, unit_price, stock.
const (
	inventoryColUnitPrice = 3
	inventoryColStock     = 4
)

// InventoryTable maps InventoryItem records onto the Inventory sheet.
type InventoryTable struct {
	store rowstore.Store
}

// NewInventoryTable wires the typed adapter.
func NewInventoryTable(store rowstore.Store) *InventoryTable {
	return &InventoryTable{store: store}
}

// List decodes every inventory row.
func (t *InventoryTable) List(ctx context.Context) ([]models.InventoryItem, error) {
	rows, err := t.store.ReadAll(ctx, inventoryTable)
	if err != nil {
		return nil, err
	}

	items := make([]models.InventoryItem, 0, len(rows))
	for _, row := range rows {
		item, err := decodeInventoryRow(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Get returns the item with the given id.
func (t *InventoryTable) Get(ctx context.Context, id string) (models.InventoryItem, error) {
	rows, err := t.store.ReadAll(ctx, inventoryTable)
	if err != nil {
		return models.InventoryItem{}, err
	}

	for _, row := range rows {
		if stringCell(row, 0) == id {
			return decodeInventoryRow(row)
		}
	}
	return models.InventoryItem{}, fmt.Errorf("table %s id %s: %w", inventoryTable, id, rowstore.ErrRowNotFound)
}

// Create appends a new item row.
func (t *InventoryTable) Create(ctx context.Context, item models.InventoryItem) error {
	if item.ID == "" || item.Name == "" {
		return fmt.Errorf("inventory item requires id and name")
	}
	if item.UnitPrice.IsNegative() || item.Stock < 0 {
		return fmt.Errorf("inventory item %s: price and stock must be non-negative", item.ID)
	}

	row := rowstore.Row{item.ID, item.Name, item.Category, item.UnitPrice.String(), item.Stock}
	return t.store.Append(ctx, inventoryTable, row)
}

// SetStock overwrites the stock cell for the item.
func (t *InventoryTable) SetStock(ctx context.Context, id string, stock int) error {
	if stock < 0 {
		return fmt.Errorf("inventory item %s: stock must be non-negative", id)
	}
	return t.store.FindAndUpdate(ctx, inventoryTable, id, inventoryColStock, stock)
}

func decodeInventoryRow(row rowstore.Row) (models.InventoryItem, error) {
	price, err := decimalCell(inventoryTable, row, inventoryColUnitPrice, "unit_price")
	if err != nil {
		return models.InventoryItem{}, err
	}
	stock, err := intCell(inventoryTable, row, inventoryColStock, "stock")
	if err != nil {
		return models.InventoryItem{}, err
	}

	return models.InventoryItem{
		ID:        stringCell(row, 0),
		Name:      stringCell(row, 1),
		Category:  stringCell(row, 2),
		UnitPrice: price,
		Stock:     stock,
	}, nil
}
