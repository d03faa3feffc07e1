package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gitayam/short-term-land-lord-sub001/internal/apperrors"
	"github.com/gitayam/short-term-land-lord-sub001/internal/core/domain"
	portsrepo "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/repositories"
	portssvc "github.com/gitayam/short-term-land-lord-sub001/internal/core/ports/services"
	"github.com/gitayam/short-term-land-lord-sub001/internal/dto"
	"github.com/gitayam/short-term-land-lord-sub001/internal/middleware"
)

// invoiceHandler handles HTTP requests for invoice assembly and lifecycle.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: is}
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createDraft)
		invoices.POST("/generate", h.generateFromWorkUnits)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.DELETE("/:invoiceID", h.deleteInvoice)

		invoices.POST("/:invoiceID/items", h.addItem)
		invoices.POST("/:invoiceID/work-units", h.addWorkUnit)
		invoices.DELETE("/:invoiceID/items/:itemID", h.removeItem)
		invoices.POST("/:invoiceID/recalculate", h.recalculate)

		invoices.POST("/:invoiceID/send", h.send)
		invoices.POST("/:invoiceID/mark-paid", h.markPaid)
		invoices.POST("/:invoiceID/cancel", h.cancel)
	}
}

// respondInvoiceError maps the shared invoice error taxonomy to HTTP codes.
// Handlers call it after their operation-specific cases.
func respondInvoiceError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
	case errors.Is(err, apperrors.ErrInvoiceNotEditable),
		errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrEmptyInvoice),
		errors.Is(err, apperrors.ErrInvoiceNotDeletable),
		errors.Is(err, apperrors.ErrAlreadyInvoiced):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrNoPriceAvailable),
		errors.Is(err, apperrors.ErrDurationRequired),
		errors.Is(err, apperrors.ErrUnsupportedPricingModel):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

func (h *invoiceHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.CreateDraft(c.Request.Context(), req, caller.UserID)
	if err != nil {
		respondInvoiceError(c, logger, err, "create invoice")
		return
	}

	logger.Info("Draft invoice created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_number", invoice.InvoiceNumber))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(*invoice, nil))
}

func (h *invoiceHandler) generateFromWorkUnits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	generated, err := h.invoiceService.GenerateFromWorkUnits(c.Request.Context(), req, caller.UserID)
	if err != nil {
		respondInvoiceError(c, logger, err, "generate invoice")
		return
	}

	logger.Info("Invoice generated from work units",
		slog.String("invoice_id", generated.Invoice.InvoiceID),
		slog.Int("items", len(generated.Items)),
		slog.Int("skipped", len(generated.Skipped)))
	c.JSON(http.StatusCreated, dto.GenerateInvoiceResponse{
		Invoice: dto.ToInvoiceResponse(*generated.Invoice, generated.Items),
		Skipped: dto.ToSkippedRecordResponses(generated.Skipped),
	})
}

func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	filter := portsrepo.InvoiceListFilter{}
	if p := c.Query("propertyID"); p != "" {
		filter.PropertyID = &p
	}
	if s := c.Query("status"); s != "" {
		status := domain.InvoiceStatus(s)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown invoice status: " + s})
			return
		}
		filter.Status = &status
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Failed to list invoices", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list invoices"})
		return
	}

	out := make([]dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		out[i] = dto.ToInvoiceResponse(inv, nil)
	}
	c.JSON(http.StatusOK, out)
}

func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	invoice, items, err := h.invoiceService.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		respondInvoiceError(c, logger, err, "retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(*invoice, items))
}

func (h *invoiceHandler) addItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	var req dto.AddInvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.AddItem(c.Request.Context(), invoiceID, req, caller.UserID)
	if err != nil {
		respondInvoiceError(c, logger, err, "add invoice item")
		return
	}

	logger.Info("Invoice item added", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(*invoice, nil))
}

func (h *invoiceHandler) addWorkUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	var req dto.AddWorkUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.AddPricedWorkUnit(c.Request.Context(), invoiceID, req.WorkUnitID, caller.UserID)
	if err != nil {
		respondInvoiceError(c, logger, err, "add work unit to invoice")
		return
	}

	logger.Info("Work unit added to invoice",
		slog.String("invoice_id", invoiceID),
		slog.String("work_unit_id", req.WorkUnitID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(*invoice, nil))
}

func (h *invoiceHandler) removeItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")
	itemID := c.Param("itemID")

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.RemoveItem(c.Request.Context(), invoiceID, itemID, caller.UserID)
	if err != nil {
		respondInvoiceError(c, logger, err, "remove invoice item")
		return
	}

	logger.Info("Invoice item removed", slog.String("invoice_id", invoiceID), slog.String("item_id", itemID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(*invoice, nil))
}

func (h *invoiceHandler) recalculate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.RecalculateTotals(c.Request.Context(), invoiceID, caller.UserID)
	if err != nil {
		respondInvoiceError(c, logger, err, "recalculate invoice totals")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(*invoice, nil))
}

func (h *invoiceHandler) send(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.Send(c.Request.Context(), invoiceID, caller.UserID)
	if err != nil {
		respondInvoiceError(c, logger, err, "send invoice")
		return
	}

	logger.Info("Invoice sent", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(*invoice, nil))
}

func (h *invoiceHandler) markPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	var req dto.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), invoiceID, req.PaymentDate, caller.UserID)
	if err != nil {
		respondInvoiceError(c, logger, err, "mark invoice paid")
		return
	}

	logger.Info("Invoice marked paid", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(*invoice, nil))
}

func (h *invoiceHandler) cancel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.Cancel(c.Request.Context(), invoiceID, caller.UserID)
	if err != nil {
		respondInvoiceError(c, logger, err, "cancel invoice")
		return
	}

	logger.Info("Invoice cancelled", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(*invoice, nil))
}

func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	caller, ok := middleware.CallerFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), invoiceID, caller.UserID); err != nil {
		respondInvoiceError(c, logger, err, "delete invoice")
		return
	}

	logger.Info("Invoice deleted", slog.String("invoice_id", invoiceID))
	c.Status(http.StatusNoContent)
}
