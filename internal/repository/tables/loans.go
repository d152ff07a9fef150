package tables

import (
	"context"
	"fmt"

	"github.com/abhishekjatav/dukaan/internal/domain/models"
	"github.com/abhishekjatav/dukaan/internal/repository/rowstore"
)

const loansTable = "Loans"

// LoanTable maps LoanRecord entries onto the Loans sheet.
// Column layout: id, date, lender, principal, rate_percent, note. Interest
// is derived on read, never stored.
type LoanTable struct {
	store rowstore.Store
}

// NewLoanTable wires the typed adapter.
func NewLoanTable(store rowstore.Store) *LoanTable {
	return &LoanTable{store: store}
}

// List decodes every loan row in entry order.
func (t *LoanTable) List(ctx context.Context) ([]models.LoanRecord, error) {
	rows, err := t.store.ReadAll(ctx, loansTable)
	if err != nil {
		return nil, err
	}

	records := make([]models.LoanRecord, 0, len(rows))
	for _, row := range rows {
		record, err := decodeLoanRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Create appends a new loan row.
func (t *LoanTable) Create(ctx context.Context, record models.LoanRecord) error {
	if record.ID == "" || record.Lender == "" {
		return fmt.Errorf("loan record requires id and lender")
	}
	if record.Principal.IsNegative() || record.RatePercent.IsNegative() {
		return fmt.Errorf("loan %s: principal and rate must be non-negative", record.ID)
	}

	row := rowstore.Row{
		record.ID,
		record.Date.Format(dateLayout),
		record.Lender,
		record.Principal.String(),
		record.RatePercent.String(),
		record.Note,
	}
	return t.store.Append(ctx, loansTable, row)
}

// Delete removes the identified row.
func (t *LoanTable) Delete(ctx context.Context, id string) error {
	return t.store.FindAndDelete(ctx, loansTable, id)
}

func decodeLoanRow(row rowstore.Row) (models.LoanRecord, error) {
	date, err := dateCell(loansTable, row, 1, "date")
	if err != nil {
		return models.LoanRecord{}, err
	}
	principal, err := decimalCell(loansTable, row, 3, "principal")
	if err != nil {
		return models.LoanRecord{}, err
	}
	rate, err := decimalCell(loansTable, row, 4, "rate_percent")
	if err != nil {
		return models.LoanRecord{}, err
	}

	return models.LoanRecord{
		ID:          stringCell(row, 0),
		Date:        date,
		Lender:      stringCell(row, 2),
		Principal:   principal,
		RatePercent: rate,
		Note:        stringCell(row, 5),
	}, nil
}
