package tables

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/abhishekjatav/dukaan/internal/domain/models"
	"github.com/abhishekjatav/dukaan/internal/repository/rowstore"
)

const expensesTable = "Expenses"

// Expenses column layout: id, date, category, amount, owner, note.
const (
	expenseColCategory = 2
	expenseColAmount   = 3
	expenseColNote     = 5
)

// ExpenseTable maps ExpenseRecord entries onto the Expenses sheet.
type ExpenseTable struct {
	store rowstore.Store
}

// NewExpenseTable wires the typed adapter.
func NewExpenseTable(store rowstore.Store) *ExpenseTable {
	return &ExpenseTable{store: store}
}

// List decodes every expense row in entry order.
func (t *ExpenseTable) List(ctx context.Context) ([]models.ExpenseRecord, error) {
	rows, err := t.store.ReadAll(ctx, expensesTable)
	if err != nil {
		return nil, err
	}

	records := make([]models.ExpenseRecord, 0, len(rows))
	for _, row := range rows {
		record, err := decodeExpenseRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Create appends a new expense row.
func (t *ExpenseTable) Create(ctx context.Context, record models.ExpenseRecord) error {
	if record.ID == "" {
		return fmt.Errorf("expense record requires an id")
	}
	if record.Amount.IsNegative() {
		return fmt.Errorf("expense %s: amount must be non-negative", record.ID)
	}

	row := rowstore.Row{
		record.ID,
		record.Date.Format(dateLayout),
		record.Category,
		record.Amount.StringFixed(2),
		record.Owner,
		record.Note,
	}
	return t.store.Append(ctx, expensesTable, row)
}

// ExpenseUpdate carries the mutable fields of an expense; nil means unchanged.
type ExpenseUpdate struct {
	Category *string
	Amount   *decimal.Decimal
	Note     *string
}

// Update patches the provided cells of the identified row.
func (t *ExpenseTable) Update(ctx context.Context, id string, update ExpenseUpdate) error {
	if update.Category != nil {
		if err := t.store.FindAndUpdate(ctx, expensesTable, id, expenseColCategory, *update.Category); err != nil {
			return err
		}
	}
	if update.Amount != nil {
		if update.Amount.IsNegative() {
			return fmt.Errorf("expense %s: amount must be non-negative", id)
		}
		if err := t.store.FindAndUpdate(ctx, expensesTable, id, expenseColAmount, update.Amount.StringFixed(2)); err != nil {
			return err
		}
	}
	if update.Note != nil {
		if err := t.store.FindAndUpdate(ctx, expensesTable, id, expenseColNote, *update.Note); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the identified row.
func (t *ExpenseTable) Delete(ctx context.Context, id string) error {
	return t.store.FindAndDelete(ctx, expensesTable, id)
}

func decodeExpenseRow(row rowstore.Row) (models.ExpenseRecord, error) {
	date, err := dateCell(expensesTable, row, 1, "date")
	if err != nil {
		return models.ExpenseRecord{}, err
	}
	amount, err := decimalCell(expensesTable, row, expenseColAmount, "amount")
	if err != nil {
		return models.ExpenseRecord{}, err
	}

	return models.ExpenseRecord{
		ID:       stringCell(row, 0),
		Date:     date,
		Category: stringCell(row, expenseColCategory),
		Amount:   amount,
		Owner:    stringCell(row, 4),
		Note:     stringCell(row, expenseColNote),
	}, nil
}
