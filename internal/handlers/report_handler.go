package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fintrackapp/fintrack-be/internal/core/audit"
	"github.com/fintrackapp/fintrack-be/internal/core/charts"
	"github.com/fintrackapp/fintrack-be/internal/core/export"
	"github.com/fintrackapp/fintrack-be/internal/models"
	"github.com/fintrackapp/fintrack-be/internal/money"
	"github.com/fintrackapp/fintrack-be/internal/services"
)

// ReportHandler serves summaries, charts, exports and the audit trail.
type ReportHandler struct {
	transactionService *services.TransactionService
	exportService      *export.Service
	chartGenerator     *charts.Generator
	auditService       *audit.Service
}

func NewReportHandler(
	transactionService *services.TransactionService,
	exportService *export.Service,
	chartGenerator *charts.Generator,
	auditService *audit.Service,
) *ReportHandler {
	return &ReportHandler{
		transactionService: transactionService,
		exportService:      exportService,
		chartGenerator:     chartGenerator,
		auditService:       auditService,
	}
}

// GetSummary godoc
// @Summary Transaction summary
// @Description Income/expense totals and per-category expense totals, in cents
// @Tags Reports
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} services.Summary
// @Router /transactions/summary [get]
func (h *ReportHandler) GetSummary(c *fiber.Ctx) error {
	userID, ok := authedUserID(c)
	if !ok {
		return nil
	}

	summary, err := h.transactionService.GetSummary(userID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(summary)
}

// GetSummaryChart godoc
// @Summary Summary chart
// @Description Render the summary as a PNG chart
// @Tags Reports
// @Produce png
// @Param Authorization header string true "Bearer token"
// @Param kind query string false "Chart kind: categories or balance" default(categories)
// @Success 200 {file} binary
// @Failure 400 {object} map[string]interface{}
// @Router /transactions/summary/chart [get]
func (h *ReportHandler) GetSummaryChart(c *fiber.Ctx) error {
	userID, ok := authedUserID(c)
	if !ok {
		return nil
	}

	summary, err := h.transactionService.GetSummary(userID)
	if err != nil {
		return errorJSON(c, err)
	}

	var png []byte
	switch c.Query("kind", "categories") {
	case "categories":
		png, err = h.chartGenerator.CategoryPie(summary)
	case "balance":
		png, err = h.chartGenerator.Balance(summary)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown chart kind",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to render chart",
		})
	}
	if png == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// ExportTransactions godoc
// @Summary Export transactions
// @Description Export the filtered transaction list as xlsx, pdf or csv
// @Tags Reports
// @Produce octet-stream
// @Param Authorization header string true "Bearer token"
// @Param format query string false "Export format: xlsx, pdf or csv" default(xlsx)
// @Success 200 {file} binary
// @Failure 400 {object} map[string]interface{}
// @Router /transactions/export [get]
func (h *ReportHandler) ExportTransactions(c *fiber.Ctx) error {
	if _, ok := authedUserID(c); !ok {
		return nil
	}

	format, ok := export.ParseFormat(c.Query("format", "xlsx"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported export format",
		})
	}

	// Export honours the same filter params as the list endpoint, with
	// one large page.
	query := models.ListQuery{
		Page:     1,
		PageSize: 10000,
		Filter:   parseFilter(c),
	}
	page, err := h.transactionService.GetTransactions(query)
	if err != nil {
		return errorJSON(c, err)
	}

	data := &export.Data{
		Title:     "Transactions",
		CreatedAt: time.Now(),
		Headers:   []string{"Date", "Description", "User", "Type", "Category", "Payment method", "Amount", "Status"},
		Rows:      make([][]string, len(page.Data)),
	}
	for i, t := range page.Data {
		data.Rows[i] = []string{
			t.Date, t.Name, t.User, t.Type, t.Category, t.PaymentMethod,
			money.Format(t.Amount), t.Status,
		}
	}

	payload, contentType, ext, err := h.exportService.Export(data, format)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Export failed",
		})
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="transactions.%s"`, ext))
	return c.Send(payload)
}

// ListAuditEntries godoc
// @Summary Audit trail
// @Description Latest audit entries with before/after snapshots
// @Tags Reports
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param limit query int false "Max entries" default(50)
// @Success 200 {array} audit.Entry
// @Router /audit [get]
func (h *ReportHandler) ListAuditEntries(c *fiber.Ctx) error {
	if _, ok := authedUserID(c); !ok {
		return nil
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
			limit = v
		}
	}

	entries, err := h.auditService.Recent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load audit entries",
		})
	}
	return c.JSON(entries)
}
