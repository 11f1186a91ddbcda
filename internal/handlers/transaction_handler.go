package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fintrackapp/fintrack-be/internal/apperrors"
	"github.com/fintrackapp/fintrack-be/internal/models"
	"github.com/fintrackapp/fintrack-be/internal/services"
)

type TransactionHandler struct {
	transactionService *services.TransactionService
}

func NewTransactionHandler(transactionService *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// ListTransactions godoc
// @Summary List transactions
// @Description List transactions with filtering and pagination, soft-deleted rows excluded
// @Tags Transactions
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(10)
// @Param search query string false "Search in description and user name"
// @Param date_from query string false "Start date (YYYY-MM-DD, inclusive)"
// @Param date_to query string false "End date (YYYY-MM-DD, inclusive)"
// @Param amount_min query int false "Minimum amount in cents"
// @Param amount_max query int false "Maximum amount in cents"
// @Param types query string false "Comma-separated type ids"
// @Param categories query string false "Comma-separated category ids"
// @Param payment_methods query string false "Comma-separated payment method ids"
// @Param statuses query string false "Comma-separated status ids"
// @Success 200 {object} models.PaginatedTransactions
// @Failure 401 {object} map[string]interface{}
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	if _, ok := authedUserID(c); !ok {
		return nil
	}

	query := models.ListQuery{
		Page:     1,
		PageSize: 10,
		Filter:   parseFilter(c),
	}

	if pageStr := c.Query("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			query.Page = page
		}
	}
	if pageSizeStr := c.Query("page_size"); pageSizeStr != "" {
		if pageSize, err := strconv.Atoi(pageSizeStr); err == nil && pageSize > 0 {
			query.PageSize = pageSize
		}
	}

	response, err := h.transactionService.GetTransactions(query)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(response)
}

// GetFormOptions godoc
// @Summary Form options
// @Description Lookup lists for type/category/payment-method selection inputs
// @Tags Transactions
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} models.FormOptions
// @Failure 401 {object} map[string]interface{}
// @Router /transactions/options [get]
func (h *TransactionHandler) GetFormOptions(c *fiber.Ctx) error {
	userID, ok := authedUserID(c)
	if !ok {
		return nil
	}

	options, err := h.transactionService.GetFormOptions(userID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(options)
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Create a transaction; the server assigns id, APPROVED status and display labels
// @Tags Transactions
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param transaction body models.CreateTransactionRequest true "Transaction data"
// @Success 201 {object} models.TransactionView
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	userID, ok := authedUserID(c)
	if !ok {
		return nil
	}

	var req models.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	view, err := h.transactionService.CreateTransaction(userID, &req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Apply a partial update to an existing transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Transaction ID"
// @Param transaction body models.UpdateTransactionRequest true "Fields to update"
// @Success 204
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	if _, ok := authedUserID(c); !ok {
		return nil
	}

	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Transaction ID is required",
		})
	}

	var req models.UpdateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.transactionService.UpdateTransaction(id, &req); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Description Soft-delete a transaction; the row is retained in storage
// @Tags Transactions
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	if _, ok := authedUserID(c); !ok {
		return nil
	}

	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Transaction ID is required",
		})
	}

	if err := h.transactionService.DeleteTransaction(id); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseFilter builds a Filter from query params. Absent params add no
// constraint.
func parseFilter(c *fiber.Ctx) *models.Filter {
	filter := &models.Filter{
		Search:         c.Query("search"),
		Types:          splitList(c.Query("types")),
		Categories:     splitList(c.Query("categories")),
		PaymentMethods: splitList(c.Query("payment_methods")),
		Statuses:       splitList(c.Query("statuses")),
	}

	dateFrom, dateTo := c.Query("date_from"), c.Query("date_to")
	if dateFrom != "" || dateTo != "" {
		filter.DateRange = &models.DateRange{Start: dateFrom, End: dateTo}
	}

	amountMin, amountMax := c.Query("amount_min"), c.Query("amount_max")
	if amountMin != "" || amountMax != "" {
		r := &models.AmountRange{Min: 0, Max: int64(1)<<62 - 1}
		if v, err := strconv.ParseInt(amountMin, 10, 64); err == nil {
			r.Min = v
		}
		if v, err := strconv.ParseInt(amountMax, 10, 64); err == nil {
			r.Max = v
		}
		filter.AmountRange = r
	}

	if filter.IsZero() {
		return nil
	}
	return filter
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// authedUserID pulls the authenticated user id injected by the auth
// middleware. On failure the 401/400 response is already written and
// ok is false.
func authedUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok || userIDStr == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized: user not found in context",
		})
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
		return uuid.Nil, false
	}
	return userID, true
}

// errorJSON maps a classified error to an HTTP status.
func errorJSON(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidAmount, apperrors.KindInvalidType, apperrors.KindTransaction:
		status = fiber.StatusBadRequest
	case apperrors.KindNotFound:
		status = fiber.StatusNotFound
	case apperrors.KindDataLoad:
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(fiber.Map{
		"error": apperrors.UserMessage(err),
	})
}
