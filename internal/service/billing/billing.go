package billing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/abhishekjatav/dukaan/internal/config"
	"github.com/abhishekjatav/dukaan/internal/domain/models"
	"github.com/abhishekjatav/dukaan/internal/repository/mongodb"
	"github.com/abhishekjatav/dukaan/internal/repository/tables"
	"github.com/abhishekjatav/dukaan/internal/session"
)

// ErrOutOfStock indicates the requested quantity exceeds available stock at
// add time.
var ErrOutOfStock = errors.New("requested quantity exceeds available stock")

// ErrInsufficientStock indicates the commit-time stock re-check failed.
var ErrInsufficientStock = errors.New("insufficient stock at checkout")

// ErrCustomerRequired indicates points redemption was requested without an
// attached customer.
var ErrCustomerRequired = errors.New("points redemption requires an attached customer")

// ErrInsufficientPoints indicates the customer's balance dropped below the
// redeemed amount between totals computation and commit.
var ErrInsufficientPoints = errors.New("customer no longer has the redeemed points")

// ErrEmptyCart indicates checkout was attempted with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// ErrInvalidQuantity indicates a non-positive line quantity.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// Totals is the outcome of a pure totals computation; nothing is mutated
// until the totals are committed.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountTotal  decimal.Decimal `json:"discount_total"`
	Tax            decimal.Decimal `json:"tax"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	PointsRedeemed int             `json:"points_redeemed"`
}

// Engine computes cart totals and commits checkout transactions against the
// inventory, customer and sale tables.
type Engine struct {
	inventory *tables.InventoryTable
	customers *tables.CustomerTable
	sales     *tables.SaleTable
	archive   mongodb.Repository

	taxRate     decimal.Decimal
	earnDivisor decimal.Decimal

	logger *zap.Logger
	now    func() time.Time

	// commits are serialized; concurrent checkouts against shared inventory
	// or customer rows are otherwise racy on the row store.
	mu sync.Mutex
}

// NewEngine wires a billing engine. archive may be nil when no MongoDB is
// configured.
func NewEngine(inventory *tables.InventoryTable, customers *tables.CustomerTable, sales *tables.SaleTable, archive mongodb.Repository, cfg config.BillingConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		inventory:   inventory,
		customers:   customers,
		sales:       sales,
		archive:     archive,
		taxRate:     cfg.TaxRate,
		earnDivisor: cfg.LoyaltyEarnDivisor,
		logger:      logger,
		now:         time.Now,
	}
}

// AddLine appends a cart line for the item. Inventory is untouched until
// commit; only the availability check happens here.
func (e *Engine) AddLine(cart *models.Cart, item models.InventoryItem, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("item %s: %w", item.ID, ErrInvalidQuantity)
	}
	if quantity > item.Stock {
		return fmt.Errorf("item %s has %d in stock, %d requested: %w", item.Name, item.Stock, quantity, ErrOutOfStock)
	}

	qty := decimal.NewFromInt(int64(quantity))
	cart.Lines = append(cart.Lines, models.CartLine{
		ItemID:    item.ID,
		Name:      item.Name,
		Quantity:  quantity,
		UnitPrice: item.UnitPrice,
		LineTotal: item.UnitPrice.Mul(qty),
	})
	return nil
}

// ApplyCoupon returns the discount a coupon takes off the subtotal. A nil
// coupon (unknown code) yields zero discount rather than an error.
func (e *Engine) ApplyCoupon(subtotal decimal.Decimal, coupon *models.Coupon) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}

	switch coupon.Kind {
	case models.CouponPercent:
		return subtotal.Mul(coupon.Value)
	case models.CouponFlat:
		return decimal.Min(coupon.Value, subtotal)
	default:
		return decimal.Zero
	}
}

// ApplyPointsRedemption returns the integer number of points to redeem, each
// worth one currency unit. Redemption never exceeds the customer's balance
// nor the whole-unit part of the post-coupon subtotal. Customer state is not
// mutated here; that happens only at commit.
func (e *Engine) ApplyPointsRedemption(subtotalAfterCoupon decimal.Decimal, customer *models.Customer, requested bool) (int, error) {
	if !requested {
		return 0, nil
	}
	if customer == nil {
		return 0, ErrCustomerRequired
	}

	limit := int(subtotalAfterCoupon.Floor().IntPart())
	if limit < 0 {
		limit = 0
	}
	if customer.LoyaltyPoints < limit {
		return customer.LoyaltyPoints, nil
	}
	return limit, nil
}

// ComputeTotals derives the bill figures for the cart. It is a pure function
// of its inputs: calling it twice yields identical totals.
func (e *Engine) ComputeTotals(cart models.Cart, coupon *models.Coupon, redeemPoints bool, customer *models.Customer) (Totals, error) {
	subtotal := cart.Subtotal()

	couponDiscount := e.ApplyCoupon(subtotal, coupon)
	afterCoupon := subtotal.Sub(couponDiscount)

	redeemed, err := e.ApplyPointsRedemption(afterCoupon, customer, redeemPoints)
	if err != nil {
		return Totals{}, err
	}

	discountTotal := decimal.Min(couponDiscount.Add(decimal.NewFromInt(int64(redeemed))), subtotal)
	net := subtotal.Sub(discountTotal)
	tax := net.Mul(e.taxRate)

	return Totals{
		Subtotal:       subtotal,
		DiscountTotal:  discountTotal,
		Tax:            tax,
		GrandTotal:     net.Add(tax),
		PointsRedeemed: redeemed,
	}, nil
}

// CommitTransaction applies a checkout: stock decrements, loyalty accrual and
// redemption, and the immutable sale snapshot. The session cart is cleared and
// the customer detached on success. Returns the generated bill id.
//
// The stock re-check happens before any mutation, so a failure there leaves
// every table untouched. There is no rollback once mutation starts.
func (e *Engine) CommitTransaction(ctx context.Context, operatorID string, state *session.State, totals Totals) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if state.Cart.IsEmpty() {
		return "", ErrEmptyCart
	}

	// Quantities per item; the same item may appear on several lines.
	required := make(map[string]int)
	order := make([]string, 0, len(state.Cart.Lines))
	for _, line := range state.Cart.Lines {
		if _, seen := required[line.ItemID]; !seen {
			order = append(order, line.ItemID)
		}
		required[line.ItemID] += line.Quantity
	}

	// Re-check every item before touching any stock; time may have passed
	// since the lines were added.
	current := make(map[string]models.InventoryItem, len(required))
	for _, itemID := range order {
		item, err := e.inventory.Get(ctx, itemID)
		if err != nil {
			return "", fmt.Errorf("recheck stock for %s: %w", itemID, err)
		}
		if item.Stock < required[itemID] {
			return "", fmt.Errorf("item %s has %d in stock, %d in cart: %w", item.Name, item.Stock, required[itemID], ErrInsufficientStock)
		}
		current[itemID] = item
	}

	for _, itemID := range order {
		item := current[itemID]
		if err := e.inventory.SetStock(ctx, itemID, item.Stock-required[itemID]); err != nil {
			return "", fmt.Errorf("decrement stock for %s: %w", itemID, err)
		}
	}

	now := e.now().UTC()
	customerPhone := ""

	if state.Customer != nil {
		customerPhone = state.Customer.Phone

		customer, err := e.customers.Get(ctx, state.Customer.Phone)
		if err != nil {
			return "", fmt.Errorf("load customer %s: %w", state.Customer.Phone, err)
		}
		if customer.LoyaltyPoints < totals.PointsRedeemed {
			return "", fmt.Errorf("customer %s holds %d points, %d redeemed: %w", customer.Phone, customer.LoyaltyPoints, totals.PointsRedeemed, ErrInsufficientPoints)
		}

		earned := int(totals.GrandTotal.Div(e.earnDivisor).Floor().IntPart())
		newPoints := customer.LoyaltyPoints + earned - totals.PointsRedeemed
		if err := e.customers.SetLoyaltyPoints(ctx, customer.Phone, newPoints); err != nil {
			return "", fmt.Errorf("update points for %s: %w", customer.Phone, err)
		}
		if err := e.customers.SetLifetimeSpend(ctx, customer.Phone, customer.LifetimeSpend.Add(totals.GrandTotal)); err != nil {
			return "", fmt.Errorf("update lifetime spend for %s: %w", customer.Phone, err)
		}
	}

	record := models.SaleRecord{
		BillID:        newBillID(now),
		Timestamp:     now,
		CustomerPhone: customerPhone,
		Lines:         append([]models.CartLine(nil), state.Cart.Lines...),
		Subtotal:      totals.Subtotal,
		DiscountTotal: totals.DiscountTotal,
		Tax:           totals.Tax,
		GrandTotal:    totals.GrandTotal,
		OperatorID:    operatorID,
	}

	if err := e.sales.Append(ctx, record); err != nil {
		return "", fmt.Errorf("append sale ledger: %w", err)
	}

	if e.archive != nil {
		if err := e.archive.ArchiveSale(ctx, record); err != nil {
			// The sheet ledger already holds the sale; the archive copy is
			// best effort.
			e.logger.Warn("failed to archive sale", zap.String("bill_id", record.BillID), zap.Error(err))
		}
	}

	*state = session.State{}

	e.logger.Info("transaction committed",
		zap.String("bill_id", record.BillID),
		zap.String("operator", operatorID),
		zap.String("grand_total", totals.GrandTotal.StringFixed(2)))

	return record.BillID, nil
}

// newBillID derives a sortable bill id: checkout timestamp plus a short
// random suffix to rule out same-second collisions.
func newBillID(ts time.Time) string {
	return fmt.Sprintf("BILL-%s-%s", ts.Format("20060102150405"), uuid.NewString()[:8])
}
