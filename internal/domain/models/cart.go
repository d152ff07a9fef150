package models

import "github.com/shopspring/decimal"

// CartLine is one item position in an in-progress cart. UnitPrice is captured
// at add time so later price edits do not shift an open cart.
type CartLine struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Cart accumulates lines for a single checkout session.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Subtotal sums all line totals before any discount is applied.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.LineTotal)
	}
	return total
}

// IsEmpty reports whether the cart holds no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
