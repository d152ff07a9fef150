package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhishekjatav/dukaan/internal/repository/rowstore"
	"github.com/abhishekjatav/dukaan/internal/repository/tables"
	"github.com/abhishekjatav/dukaan/internal/service/billing"
	"github.com/abhishekjatav/dukaan/internal/session"
)

// OperatorKey is the gin context key under which the auth middleware stores
// the authenticated operator id.
const OperatorKey = "operator"

// POSHandler handles the cart lifecycle and checkout.
type POSHandler struct {
	sessions  *session.Manager
	engine    *billing.Engine
	inventory *tables.InventoryTable
	customers *tables.CustomerTable
	coupons   *tables.CouponTable
	logger    *zap.Logger
}

// NewPOSHandler constructs the HTTP handler adapter.
func NewPOSHandler(sessions *session.Manager, engine *billing.Engine, inventory *tables.InventoryTable, customers *tables.CustomerTable, coupons *tables.CouponTable, logger *zap.Logger) *POSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &POSHandler{
		sessions:  sessions,
		engine:    engine,
		inventory: inventory,
		customers: customers,
		coupons:   coupons,
		logger:    logger,
	}
}

// GetCart returns the operator's current cart with a totals preview.
func (h *POSHandler) GetCart(c *gin.Context) {
	state := h.sessions.Get(c.GetString(OperatorKey))

	totals, err := h.engine.ComputeTotals(state.Cart, state.Coupon, false, state.Customer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute totals"})
		return
	}

	resp := gin.H{"cart": state.Cart, "totals": totals}
	if state.Coupon != nil {
		resp["coupon"] = state.Coupon.Code
	}
	if state.Customer != nil {
		resp["customer"] = state.Customer.Phone
	}
	c.JSON(http.StatusOK, resp)
}

type addLineRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// AddLine appends an item to the operator's cart.
func (h *POSHandler) AddLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_id and quantity are required"})
		return
	}

	item, err := h.inventory.Get(c.Request.Context(), req.ItemID)
	if err != nil {
		if errors.Is(err, rowstore.ErrRowNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "inventory item not found"})
			return
		}
		h.logger.Error("failed to load inventory item", zap.String("item_id", req.ItemID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "inventory store unavailable"})
		return
	}

	operator := c.GetString(OperatorKey)
	state := h.sessions.Get(operator)

	if err := h.engine.AddLine(&state.Cart, item, req.Quantity); err != nil {
		switch {
		case errors.Is(err, billing.ErrOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, billing.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add line"})
		}
		return
	}

	h.sessions.Update(operator, state)
	c.JSON(http.StatusOK, gin.H{"cart": state.Cart})
}

type applyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// ApplyCoupon attaches a coupon code to the session. Unknown codes are not an
// error; the response just reports that no discount applies.
func (h *POSHandler) ApplyCoupon(c *gin.Context) {
	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	coupon, ok, err := h.coupons.Lookup(c.Request.Context(), req.Code)
	if err != nil {
		h.logger.Error("failed to look up coupon", zap.String("code", req.Code), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "coupon store unavailable"})
		return
	}

	if !ok {
		c.JSON(http.StatusOK, gin.H{"applied": false, "message": "unknown coupon code, no discount applied"})
		return
	}

	operator := c.GetString(OperatorKey)
	state := h.sessions.Get(operator)
	state.Coupon = &coupon
	h.sessions.Update(operator, state)

	c.JSON(http.StatusOK, gin.H{"applied": true, "coupon": coupon.Code})
}

type attachCustomerRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// AttachCustomer links a loyalty customer to the session.
func (h *POSHandler) AttachCustomer(c *gin.Context) {
	var req attachCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone is required"})
		return
	}

	customer, err := h.customers.Get(c.Request.Context(), req.Phone)
	if err != nil {
		if errors.Is(err, rowstore.ErrRowNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
			return
		}
		h.logger.Error("failed to load customer", zap.String("phone", req.Phone), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "customer store unavailable"})
		return
	}

	operator := c.GetString(OperatorKey)
	state := h.sessions.Get(operator)
	state.Customer = &customer
	h.sessions.Update(operator, state)

	c.JSON(http.StatusOK, gin.H{"customer": customer.Phone, "loyalty_points": customer.LoyaltyPoints})
}

// ClearCart abandons the operator's session.
func (h *POSHandler) ClearCart(c *gin.Context) {
	h.sessions.Clear(c.GetString(OperatorKey))
	c.Status(http.StatusNoContent)
}

type checkoutRequest struct {
	RedeemPoints bool `json:"redeem_points"`
}

// Checkout computes final totals and commits the transaction.
func (h *POSHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkout payload"})
		return
	}

	operator := c.GetString(OperatorKey)
	state := h.sessions.Get(operator)

	totals, err := h.engine.ComputeTotals(state.Cart, state.Coupon, req.RedeemPoints, state.Customer)
	if err != nil {
		if errors.Is(err, billing.ErrCustomerRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute totals"})
		return
	}

	billID, err := h.engine.CommitTransaction(c.Request.Context(), operator, &state, totals)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": billing.ErrEmptyCart.Error()})
		case errors.Is(err, billing.ErrInsufficientStock), errors.Is(err, billing.ErrInsufficientPoints):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.Error("checkout failed", zap.String("operator", operator), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "checkout failed: " + err.Error()})
		}
		return
	}

	h.sessions.Update(operator, state)
	c.JSON(http.StatusCreated, gin.H{"bill_id": billID, "totals": totals})
}
