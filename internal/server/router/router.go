package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhishekjatav/dukaan/internal/domain/models"
	"github.com/abhishekjatav/dukaan/internal/server/handlers"
	"github.com/abhishekjatav/dukaan/internal/service/auth"
)

const roleKey = "role"

// Handlers bundles the HTTP adapters the router mounts.
type Handlers struct {
	Auth      *handlers.AuthHandler
	POS       *handlers.POSHandler
	Ledger    *handlers.LedgerHandler
	Assistant *handlers.AssistantHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, authSvc *auth.Service, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.POST("/api/auth/login", h.Auth.Login)

	api := r.Group("/api")
	api.Use(authMiddleware(authSvc))

	cart := api.Group("/cart", requireCapability(models.CapCheckout))
	cart.GET("", h.POS.GetCart)
	cart.DELETE("", h.POS.ClearCart)
	cart.POST("/lines", h.POS.AddLine)
	cart.POST("/coupon", h.POS.ApplyCoupon)
	cart.POST("/customer", h.POS.AttachCustomer)
	cart.POST("/checkout", h.POS.Checkout)

	expenses := api.Group("/expenses")
	expenses.GET("", requireCapability(models.CapViewReports), h.Ledger.ListExpenses)
	expenses.POST("", requireCapability(models.CapManageLedger), h.Ledger.CreateExpense)
	expenses.PUT("/:id", requireCapability(models.CapManageLedger), h.Ledger.UpdateExpense)
	expenses.DELETE("/:id", requireCapability(models.CapDeleteRecords), h.Ledger.DeleteExpense)

	loans := api.Group("/loans")
	loans.GET("", requireCapability(models.CapViewReports), h.Ledger.ListLoans)
	loans.GET("/summary", requireCapability(models.CapViewReports), h.Ledger.LoanSummary)
	loans.POST("", requireCapability(models.CapManageLedger), h.Ledger.CreateLoan)
	loans.DELETE("/:id", requireCapability(models.CapDeleteRecords), h.Ledger.DeleteLoan)

	reports := api.Group("/reports", requireCapability(models.CapViewReports))
	reports.GET("/monthly", h.Ledger.MonthlyReport)
	reports.GET("/daily", h.Ledger.DailyReport)

	api.POST("/assistant", requireCapability(models.CapViewReports), h.Assistant.Ask)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func authMiddleware(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := authSvc.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(handlers.OperatorKey, claims.Subject)
		c.Set(roleKey, claims.Role)
		c.Next()
	}
}

func requireCapability(cap models.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := models.ParseRole(c.GetString(roleKey))
		if err != nil || !role.Can(cap) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role not permitted for this operation"})
			return
		}
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
