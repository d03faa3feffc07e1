package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gitayam/short-term-land-lord-sub001/internal/apperrors"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
	portssvc "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/services"
	"github.com/gitayam/short-term-land-lord-sub001/internal/dto"
	"github.com/gitayam/short-term-land-lord-sub001/internal/middleware"
)

// expenseHandler handles HTTP requests for expense entries.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: es}
}

// registerExpenseRoutes registers routes related to expenses.
func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.recordExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/:expenseID", h.getExpense)
		expenses.PUT("/:expenseID/status", h.updateStatus)
	}
}

func (h *expenseHandler) recordExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expense, err := h.expenseService.RecordExpense(c.Request.Context(), req, caller.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownExpenseCategory) || errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to record expense", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record expense"})
		}
		return
	}

	resp, err := dto.ToExpenseResponse(*expense)
	if err != nil {
		logger.Error("Failed to map expense response", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record expense"})
		return
	}

	logger.Info("Expense recorded", slog.String("expense_id", expense.ExpenseID))
	c.JSON(http.StatusCreated, resp)
}

func (h *expenseHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	filter := portsrepo.ExpenseListFilter{}
	if p := c.Query("propertyID"); p != "" {
		filter.PropertyID = &p
	}
	if cat := c.Query("category"); cat != "" {
		category := domain.ExpenseCategory(cat)
		if !category.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown expense category: " + cat})
			return
		}
		filter.Category = &category
	}
	if s := c.Query("status"); s != "" {
		status := domain.ExpenseStatus(s)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown expense status: " + s})
			return
		}
		filter.Status = &status
	}
	for param, dest := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		if v := c.Query(param); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": param + " must be formatted YYYY-MM-DD"})
				return
			}
			*dest = &t
		}
	}
	if filter.To != nil {
		// The upper bound is an inclusive calendar day.
		end := endOfDay(*filter.To)
		filter.To = &end
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Failed to list expenses", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list expenses"})
		return
	}

	out := make([]dto.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		resp, err := dto.ToExpenseResponse(e)
		if err != nil {
			logger.Warn("Skipping expense with unknown category",
				slog.String("expense_id", e.ExpenseID),
				slog.String("category", string(e.Category)))
			continue
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}

func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")

	expense, err := h.expenseService.GetExpense(c.Request.Context(), expenseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		} else {
			logger.Error("Failed to get expense", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve expense"})
		}
		return
	}

	resp, err := dto.ToExpenseResponse(*expense)
	if err != nil {
		logger.Error("Failed to map expense response", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve expense"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *expenseHandler) updateStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")

	var req dto.UpdateExpenseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expense, err := h.expenseService.UpdateExpenseStatus(c.Request.Context(), expenseID, req.Status, caller.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update expense status", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense status"})
		}
		return
	}

	resp, err := dto.ToExpenseResponse(*expense)
	if err != nil {
		logger.Error("Failed to map expense response", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense status"})
		return
	}

	logger.Info("Expense status updated",
		slog.String("expense_id", expenseID),
		slog.String("status", string(req.Status)))
	c.JSON(http.StatusOK, resp)
}
