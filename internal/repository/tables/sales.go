package tables

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhishekjatav/dukaan/internal/domain/models"
	"github.com/abhishekjatav/dukaan/internal/repository/rowstore"
)

const salesTable = "Sales"

// SaleTable maps immutable SaleRecord snapshots onto the Sales sheet. Line
// items are packed into a single JSON cell; the remaining columns stay flat so
// the sheet still reads as a ledger.
// Column layout: bill_id, timestamp, customer, items, subtotal, discount, tax,
// grand_total, operator.
type SaleTable struct {
	store rowstore.Store
}

// NewSaleTable wires the typed adapter.
func NewSaleTable(store rowstore.Store) *SaleTable {
	return &SaleTable{store: store}
}

// Append writes one sale snapshot. Sales are never updated or deleted here.
func (t *SaleTable) Append(ctx context.Context, record models.SaleRecord) error {
	if record.BillID == "" {
		return fmt.Errorf("sale record requires a bill id")
	}

	items, err := json.Marshal(record.Lines)
	if err != nil {
		return fmt.Errorf("encode sale %s line items: %w", record.BillID, err)
	}

	row := rowstore.Row{
		record.BillID,
		record.Timestamp.Format(time.RFC3339),
		record.CustomerPhone,
		string(items),
		record.Subtotal.StringFixed(2),
		record.DiscountTotal.StringFixed(2),
		record.Tax.StringFixed(2),
		record.GrandTotal.StringFixed(2),
		record.OperatorID,
	}
	return t.store.Append(ctx, salesTable, row)
}

// List decodes the full sale ledger in append order.
func (t *SaleTable) List(ctx context.Context) ([]models.SaleRecord, error) {
	rows, err := t.store.ReadAll(ctx, salesTable)
	if err != nil {
		return nil, err
	}

	records := make([]models.SaleRecord, 0, len(rows))
	for _, row := range rows {
		record, err := decodeSaleRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func decodeSaleRow(row rowstore.Row) (models.SaleRecord, error) {
	ts, err := timestampCell(salesTable, row, 1, "timestamp")
	if err != nil {
		return models.SaleRecord{}, err
	}

	var lines []models.CartLine
	if raw := stringCell(row, 3); raw != "" {
		if err := json.Unmarshal([]byte(raw), &lines); err != nil {
			return models.SaleRecord{}, fmt.Errorf("table %s: malformed items for bill %s: %w", salesTable, stringCell(row, 0), err)
		}
	}

	subtotal, err := decimalCell(salesTable, row, 4, "subtotal")
	if err != nil {
		return models.SaleRecord{}, err
	}
	discount, err := decimalCell(salesTable, row, 5, "discount_total")
	if err != nil {
		return models.SaleRecord{}, err
	}
	tax, err := decimalCell(salesTable, row, 6, "tax")
	if err != nil {
		return models.SaleRecord{}, err
	}
	grand, err := decimalCell(salesTable, row, 7, "grand_total")
	if err != nil {
		return models.SaleRecord{}, err
	}

	return models.SaleRecord{
		BillID:        stringCell(row, 0),
		Timestamp:     ts,
		CustomerPhone: stringCell(row, 2),
		Lines:         lines,
		Subtotal:      subtotal,
		DiscountTotal: discount,
		Tax:           tax,
		GrandTotal:    grand,
		OperatorID:    stringCell(row, 8),
	}, nil
}
