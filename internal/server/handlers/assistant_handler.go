package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhishekjatav/dukaan/internal/service/reporting"
	"github.com/abhishekjatav/dukaan/pkg/clients/anthropic"
)

// AssistantHandler answers shopkeeper questions through the AI client,
// grounded in current ledger aggregates.
type AssistantHandler struct {
	ai        anthropic.Client
	reporting *reporting.Service
	logger    *zap.Logger
}

// NewAssistantHandler constructs the HTTP handler adapter. ai may be nil when
// no API key is configured.
func NewAssistantHandler(ai anthropic.Client, reportingSvc *reporting.Service, logger *zap.Logger) *AssistantHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssistantHandler{ai: ai, reporting: reportingSvc, logger: logger}
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

// Ask forwards one question with a snapshot of today's business figures.
func (h *AssistantHandler) Ask(c *gin.Context) {
	if h.ai == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant not configured"})
		return
	}

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	ctx := c.Request.Context()
	now := time.Now()

	snapshot := gin.H{}

	if daily, err := h.reporting.DailyClose(ctx, now); err == nil {
		snapshot["today"] = gin.H{
			"sales_count":    daily.SalesCount,
			"gross":          daily.Gross,
			"discount_total": daily.DiscountTotal,
			"tax_total":      daily.TaxTotal,
		}
	} else {
		h.logger.Warn("snapshot missing daily figures", zap.Error(err))
	}

	if bill, err := h.reporting.MonthlyBill(ctx, now.Format("2006-01")); err == nil {
		snapshot["month_expenses_total"] = bill.Total
	} else {
		h.logger.Warn("snapshot missing monthly expenses", zap.Error(err))
	}

	if loans, err := h.reporting.LoanSummary(ctx); err == nil {
		snapshot["loans_total_payable"] = loans.TotalPayable
		if loans.BestDeal != nil {
			snapshot["cheapest_loan"] = gin.H{"lender": loans.BestDeal.Lender, "rate_percent": loans.BestDeal.RatePercent}
		}
	} else {
		h.logger.Warn("snapshot missing loan summary", zap.Error(err))
	}

	answer, err := h.ai.Ask(ctx, req.Question, snapshot)
	if err != nil {
		h.logger.Error("assistant call failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
