package handlers

import (
	"encoding/csv"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gitayam/short-term-land-lord-sub001/internal/apperrors"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portssvc "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/services"
	"github.com/gitayam/short-term-land-lord-sub001/internal/dto"
	"github.com/gitayam/short-term-land-lord-sub001/internal/middleware"
)

// reportingHandler handles HTTP requests related to financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers routes related to financial reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/financial-summary", h.getFinancialSummary)
		reports.GET("/tax-summary", h.getTaxSummary)
		reports.GET("/tax-summary.csv", h.exportTaxSummaryCSV)
		reports.POST("/periods", h.cachePeriod)
		reports.GET("/periods", h.getPeriod)
	}
}

// endOfDay is the last representable instant of t's calendar day at
// timestamp precision.
func endOfDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1).Add(-time.Microsecond)
}

// parseDateRange reads from/to query parameters in YYYY-MM-DD form. Both
// ends are inclusive: to is extended to the end of its day so records
// timestamped after midnight on that day stay in range.
func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from is required and must be formatted YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to is required and must be formatted YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not precede from"})
		return time.Time{}, time.Time{}, false
	}
	return from, endOfDay(to), true
}

func (h *reportingHandler) getFinancialSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	req := dto.FinancialSummaryRequest{From: from, To: to}
	if p := c.Query("propertyIDs"); p != "" {
		req.PropertyIDs = strings.Split(p, ",")
	}

	logger.Info("Received request for financial summary",
		slog.String("user_id", caller.UserID),
		slog.Int("properties", len(req.PropertyIDs)))

	summary, err := h.reportingService.FinancialSummary(c.Request.Context(), caller, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to view the requested properties"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to generate financial summary", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFinancialSummaryResponse(*summary, from, to))
}

func (h *reportingHandler) taxRows(c *gin.Context) ([]domain.TaxSummaryRow, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	from, to, ok := parseDateRange(c)
	if !ok {
		return nil, false
	}

	rows, err := h.reportingService.TaxSummary(c.Request.Context(), caller, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to view tax reports"})
		} else {
			logger.Error("Failed to generate tax summary", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		}
		return nil, false
	}
	return rows, true
}

func (h *reportingHandler) getTaxSummary(c *gin.Context) {
	rows, ok := h.taxRows(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rows)
}

// exportTaxSummaryCSV streams the tax report with the stable column contract.
func (h *reportingHandler) exportTaxSummaryCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	rows, ok := h.taxRows(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="tax-summary.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	if err := w.Write(dto.TaxSummaryColumns); err != nil {
		logger.Error("Failed to write CSV header", slog.String("error", err.Error()))
		return
	}
	for _, row := range rows {
		if err := w.Write(dto.ToTaxSummaryRecord(row)); err != nil {
			logger.Error("Failed to write CSV row", slog.String("error", err.Error()))
			return
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		logger.Error("Failed to flush CSV output", slog.String("error", err.Error()))
	}
}

func (h *reportingHandler) cachePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CachePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	period, err := h.reportingService.CacheFinancialPeriod(c.Request.Context(), caller, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to cache financial periods"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to cache financial period", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cache financial period"})
		}
		return
	}

	logger.Info("Financial period cached", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusCreated, period)
}

func (h *reportingHandler) getPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	periodType := domain.PeriodType(c.Query("periodType"))
	if !periodType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "periodType must be MONTHLY, QUARTERLY or ANNUAL"})
		return
	}
	startDate, err := time.Parse("2006-01-02", c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate is required and must be formatted YYYY-MM-DD"})
		return
	}
	var propertyID *string
	if p := c.Query("propertyID"); p != "" {
		propertyID = &p
	}

	period, err := h.reportingService.GetFinancialPeriod(c.Request.Context(), propertyID, periodType, startDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Financial period not found"})
		} else {
			logger.Error("Failed to get financial period", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve financial period"})
		}
		return
	}
	c.JSON(http.StatusOK, period)
}
