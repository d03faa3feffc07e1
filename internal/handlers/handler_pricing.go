package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gitayam/short-term-land-lord-sub001/internal/apperrors"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portssvc "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/services"
	"github.com/gitayam/short-term-land-lord-sub001/internal/dto"
	"github.com/gitayam/short-term-land-lord-sub001/internal/middleware"
)

// pricingHandler handles HTTP requests related to price rules and quotes.
type pricingHandler struct {
	pricingService portssvc.PricingSvcFacade
}

func newPricingHandler(ps portssvc.PricingSvcFacade) *pricingHandler {
	return &pricingHandler{pricingService: ps}
}

// registerPricingRoutes registers routes related to pricing.
func registerPricingRoutes(rg *gin.RouterGroup, pricingService portssvc.PricingSvcFacade) {
	h := newPricingHandler(pricingService)

	rules := rg.Group("/price-rules")
	{
		rules.POST("", h.createPriceRule)
		rules.GET("", h.listPriceRules)
		rules.GET("/:ruleID", h.getPriceRule)
		rules.PUT("/:ruleID", h.updatePriceRule)
		rules.DELETE("/:ruleID", h.deletePriceRule)
	}
	rg.GET("/quotes", h.quote)
}

func (h *pricingHandler) createPriceRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePriceRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePriceRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rule, err := h.pricingService.CreatePriceRule(c.Request.Context(), req, caller.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicatePriceRule) {
			logger.Warn("Attempted to create conflicting price rule", slog.String("service_type", string(req.ServiceType)))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create price rule", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create price rule"})
		}
		return
	}

	logger.Info("Price rule created", slog.String("rule_id", rule.RuleID))
	c.JSON(http.StatusCreated, dto.ToPriceRuleResponse(*rule))
}

func (h *pricingHandler) listPriceRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var propertyID *string
	if p := c.Query("propertyID"); p != "" {
		propertyID = &p
	}

	rules, err := h.pricingService.ListPriceRules(c.Request.Context(), propertyID)
	if err != nil {
		logger.Error("Failed to list price rules", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list price rules"})
		return
	}
	c.JSON(http.StatusOK, dto.ToPriceRuleResponses(rules))
}

func (h *pricingHandler) getPriceRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ruleID := c.Param("ruleID")

	rule, err := h.pricingService.GetPriceRule(c.Request.Context(), ruleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Price rule not found"})
		} else {
			logger.Error("Failed to get price rule", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve price rule"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToPriceRuleResponse(*rule))
}

func (h *pricingHandler) updatePriceRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ruleID := c.Param("ruleID")

	var req dto.UpdatePriceRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rule, err := h.pricingService.UpdatePriceRule(c.Request.Context(), ruleID, req, caller.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Price rule not found"})
		} else if errors.Is(err, apperrors.ErrDuplicatePriceRule) {
			c.JSON(http.StatusConflict, gin.H{"error": "An active price rule already exists for this service type and property"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update price rule", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update price rule"})
		}
		return
	}

	logger.Info("Price rule updated", slog.String("rule_id", ruleID))
	c.JSON(http.StatusOK, dto.ToPriceRuleResponse(*rule))
}

func (h *pricingHandler) deletePriceRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ruleID := c.Param("ruleID")

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.pricingService.DeletePriceRule(c.Request.Context(), ruleID, caller.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Price rule not found"})
		} else {
			logger.Error("Failed to delete price rule", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete price rule"})
		}
		return
	}

	logger.Info("Price rule deleted", slog.String("rule_id", ruleID))
	c.Status(http.StatusNoContent)
}

// quote resolves and calculates a price without persisting anything. Useful
// for previewing what a work unit would cost before invoicing.
func (h *pricingHandler) quote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	serviceType := domain.ServiceType(c.Query("serviceType"))
	propertyID := c.Query("propertyID")
	if !serviceType.Valid() || propertyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "serviceType and propertyID query parameters are required"})
		return
	}

	var durationMinutes *int
	if d := c.Query("durationMinutes"); d != "" {
		minutes, err := strconv.Atoi(d)
		if err != nil || minutes < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "durationMinutes must be a non-negative integer"})
			return
		}
		durationMinutes = &minutes
	}

	rule, err := h.pricingService.ResolvePrice(c.Request.Context(), serviceType, propertyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoPriceAvailable) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to resolve price", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve price"})
		}
		return
	}

	amount, err := h.pricingService.CalculatePrice(*rule, durationMinutes)
	if err != nil {
		if errors.Is(err, apperrors.ErrDurationRequired) || errors.Is(err, apperrors.ErrUnsupportedPricingModel) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to calculate price", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate price"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rule":   dto.ToPriceRuleResponse(*rule),
		"amount": amount,
	})
}
