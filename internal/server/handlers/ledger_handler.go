package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/abhishekjatav/dukaan/internal/domain/models"
	"github.com/abhishekjatav/dukaan/internal/repository/rowstore"
	"github.com/abhishekjatav/dukaan/internal/repository/tables"
	"github.com/abhishekjatav/dukaan/internal/service/reporting"
)

const dateLayout = "2006-01-02"

// LedgerHandler handles expense and loan ledger operations plus reports.
type LedgerHandler struct {
	expenses  *tables.ExpenseTable
	loans     *tables.LoanTable
	reporting *reporting.Service
	logger    *zap.Logger
}

// NewLedgerHandler constructs the HTTP handler adapter.
func NewLedgerHandler(expenses *tables.ExpenseTable, loans *tables.LoanTable, reportingSvc *reporting.Service, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{expenses: expenses, loans: loans, reporting: reportingSvc, logger: logger}
}

// ListExpenses returns the full expense ledger.
func (h *LedgerHandler) ListExpenses(c *gin.Context) {
	records, err := h.expenses.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list expenses", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "expense store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": records})
}

type createExpenseRequest struct {
	Date     string `json:"date" binding:"required"`
	Category string `json:"category" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
	Note     string `json:"note"`
}

// CreateExpense appends a new expense entry owned by the operator.
func (h *LedgerHandler) CreateExpense(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date, category and amount are required"})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted " + dateLayout})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a non-negative number"})
		return
	}

	record := models.ExpenseRecord{
		ID:       uuid.NewString(),
		Date:     date,
		Category: req.Category,
		Amount:   amount,
		Owner:    c.GetString(OperatorKey),
		Note:     req.Note,
	}

	if err := h.expenses.Create(c.Request.Context(), record); err != nil {
		h.logger.Error("failed to create expense", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to save expense"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expense": record})
}

type updateExpenseRequest struct {
	Category *string `json:"category"`
	Amount   *string `json:"amount"`
	Note     *string `json:"note"`
}

// UpdateExpense patches the identified expense entry.
func (h *LedgerHandler) UpdateExpense(c *gin.Context) {
	var req updateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update payload"})
		return
	}
	if req.Category == nil && req.Amount == nil && req.Note == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	update := tables.ExpenseUpdate{Category: req.Category, Note: req.Note}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil || amount.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a non-negative number"})
			return
		}
		update.Amount = &amount
	}

	if err := h.expenses.Update(c.Request.Context(), c.Param("id"), update); err != nil {
		if errors.Is(err, rowstore.ErrRowNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "expense record not found"})
			return
		}
		h.logger.Error("failed to update expense", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update expense"})
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteExpense removes the identified expense entry.
func (h *LedgerHandler) DeleteExpense(c *gin.Context) {
	if err := h.expenses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, rowstore.ErrRowNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "expense record not found"})
			return
		}
		h.logger.Error("failed to delete expense", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to delete expense"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListLoans returns the loan ledger with derived interest figures.
func (h *LedgerHandler) ListLoans(c *gin.Context) {
	summary, err := h.reporting.LoanSummary(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list loans", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "loan store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"loans": summary.Loans})
}

type createLoanRequest struct {
	Date        string `json:"date" binding:"required"`
	Lender      string `json:"lender" binding:"required"`
	Principal   string `json:"principal" binding:"required"`
	RatePercent string `json:"rate_percent" binding:"required"`
	Note        string `json:"note"`
}

// CreateLoan appends a new loan entry.
func (h *LedgerHandler) CreateLoan(c *gin.Context) {
	var req createLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date, lender, principal and rate_percent are required"})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted " + dateLayout})
		return
	}

	principal, err := decimal.NewFromString(req.Principal)
	if err != nil || principal.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "principal must be a non-negative number"})
		return
	}

	rate, err := decimal.NewFromString(req.RatePercent)
	if err != nil || rate.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rate_percent must be a non-negative number"})
		return
	}

	record := models.LoanRecord{
		ID:          uuid.NewString(),
		Date:        date,
		Lender:      req.Lender,
		Principal:   principal,
		RatePercent: rate,
		Note:        req.Note,
	}

	if err := h.loans.Create(c.Request.Context(), record); err != nil {
		h.logger.Error("failed to create loan", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to save loan"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"loan": record})
}

// DeleteLoan removes the identified loan entry.
func (h *LedgerHandler) DeleteLoan(c *gin.Context) {
	if err := h.loans.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, rowstore.ErrRowNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "loan record not found"})
			return
		}
		h.logger.Error("failed to delete loan", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to delete loan"})
		return
	}
	c.Status(http.StatusNoContent)
}

// LoanSummary returns the aggregate loan report including the best deal.
func (h *LedgerHandler) LoanSummary(c *gin.Context) {
	summary, err := h.reporting.LoanSummary(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to compute loan summary", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "loan store unavailable"})
		return
	}

	resp := gin.H{
		"loans":           summary.Loans,
		"total_principal": summary.TotalPrincipal,
		"total_payable":   summary.TotalPayable,
	}
	if summary.BestDeal != nil {
		resp["best_deal"] = summary.BestDeal
	}
	c.JSON(http.StatusOK, resp)
}

// MonthlyReport aggregates the expense ledger for ?month=2006-01.
func (h *LedgerHandler) MonthlyReport(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month query parameter is required"})
		return
	}

	bill, err := h.reporting.MonthlyBill(c.Request.Context(), month)
	if err != nil {
		if errors.Is(err, reporting.ErrInvalidMonth) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed to compute monthly report", zap.String("month", month), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "expense store unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"month":   bill.Month,
		"records": bill.Records,
		"total":   bill.Total,
	})
}

// DailyReport aggregates today's sales.
func (h *LedgerHandler) DailyReport(c *gin.Context) {
	summary, err := h.reporting.DailyClose(c.Request.Context(), time.Now())
	if err != nil {
		h.logger.Error("failed to compute daily report", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "sale ledger unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":           summary.Date.Format(dateLayout),
		"sales_count":    summary.SalesCount,
		"gross":          summary.Gross,
		"discount_total": summary.DiscountTotal,
		"tax_total":      summary.TaxTotal,
	})
}
